package parser

import (
	"strings"

	"molscript/token"
	"molscript/types"
)

// Kind classifies a compiled statement
type Kind int

const (
	StmtExpression Kind = iota
	StmtSelect
	StmtPrint
	StmtAssign
	StmtIncrement
	StmtCommand
)

var kindNames = [...]string{"expression", "select", "print", "assign", "increment", "command"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Statement is one compiled script statement
type Statement struct {
	Kind   Kind
	Name   string        // command word
	Expr   token.Program // selected set, printed value or assigned value
	Target token.Program // assignment target; its selectors carry FlagAssignStep
	Var    string        // root variable of Target
	Local  bool          // declared with var
	Op     token.Tok     // compound assignment operator, ++ or --
	Args   []*token.Token
	Source []*token.Token
}

var fileCommands = map[string]bool{"load": true, "script": true, "write": true, "cd": true}

// IsFileCommand reports commands whose arguments name files; @
// substitutions in them always yield strings
func IsFileCommand(name string) bool {
	return fileCommands[strings.ToLower(name)]
}

var commandNames = []string{"select", "print", "set", "var", "load", "script", "write", "cd"}

// CompileStatement compiles the tokens of one statement
func CompileStatement(toks []*token.Token) (*Statement, error) {
	if len(toks) == 0 {
		return nil, types.NewError(types.E_COMMAND_EXPECTED, "")
	}
	st := &Statement{Source: toks}
	first := toks[0]
	switch first.Tok {
	case token.TokSelect:
		if !isLoopMeta(toks) {
			st.Kind, st.Name = StmtSelect, "select"
			prog, err := CompileAtomExpression(toks[1:])
			if err != nil {
				return nil, err
			}
			st.Expr = prog
			return st, nil
		}
	case token.TokPrint:
		st.Kind, st.Name = StmtPrint, "print"
		if len(toks) > 1 {
			prog, err := CompileExpression(toks[1:])
			if err != nil {
				return nil, err
			}
			st.Expr = prog
		}
		return st, nil
	case token.TokSet, token.TokVar:
		st.Name = strings.ToLower(first.Text)
		st.Local = first.Tok == token.TokVar
		return compileAssignment(st, toks[1:], true)
	}
	if (isWord(first) || selectionRoot(first)) && assignmentIndex(toks) > 0 {
		return compileAssignment(st, toks, false)
	}
	if n := len(toks); n > 1 && (isWord(first) || selectionRoot(first)) &&
		(toks[n-1].Tok == token.TokOpPlusPlus || toks[n-1].Tok == token.TokOpMinusMinus) {
		target, root, err := compileTarget(toks[:n-1])
		if err == nil {
			st.Kind, st.Target, st.Var, st.Op = StmtIncrement, target, root, toks[n-1].Tok
			return st, nil
		}
	}
	if startsExpression(toks) {
		prog, err := CompileExpression(toks)
		if err != nil {
			return nil, err
		}
		st.Kind, st.Expr = StmtExpression, prog
		return st, nil
	}
	if isWord(first) {
		st.Kind, st.Name, st.Args = StmtCommand, strings.ToLower(first.Text), toks[1:]
		return st, nil
	}
	err := types.NewError(types.E_COMMAND_EXPECTED, tokenText(first))
	err.Suggestion = Suggest(first.Text, commandNames)
	return nil, err
}

// CompileScript lexes and compiles every statement of a script
func CompileScript(source string) ([]*Statement, error) {
	stmts, err := LexStatements(source)
	if err != nil {
		return nil, err
	}
	out := make([]*Statement, 0, len(stmts))
	for _, toks := range stmts {
		st, err := CompileStatement(toks)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

// isLoopMeta recognizes select(x; ...) used as an expression statement
func isLoopMeta(toks []*token.Token) bool {
	return len(toks) > 3 && toks[1].Tok == token.TokLeftParen && isWord(toks[2]) && toks[3].Tok == token.TokSemicolon
}

// assignmentIndex finds the top-level = or op= of an assignment, or -1
func assignmentIndex(toks []*token.Token) int {
	depth := 0
	for i, t := range toks {
		switch t.Tok {
		case token.TokLeftParen, token.TokLeftBracket, token.TokLeftBrace:
			depth++
		case token.TokRightParen, token.TokRightBracket, token.TokRightBrace:
			depth--
		case token.TokCompoundAssign:
			if depth == 0 {
				return i
			}
		case token.TokOpEQ:
			if depth == 0 && t.Text == "=" {
				return i
			}
		}
	}
	return -1
}

// compileAssignment compiles target = value and target op= value. After
// set, "set name value" without = is accepted as well.
func compileAssignment(st *Statement, toks []*token.Token, set bool) (*Statement, error) {
	i := assignmentIndex(toks)
	var valueToks []*token.Token
	switch {
	case i > 0:
		valueToks = toks[i+1:]
		if toks[i].Tok == token.TokCompoundAssign {
			st.Op = toks[i].Op
		}
	case set && len(toks) > 1 && isWord(toks[0]):
		i, valueToks = 1, toks[1:]
	case len(toks) == 0:
		return nil, types.NewError(types.E_END_OF_COMMAND, "")
	default:
		return nil, types.NewError(types.E_TOKEN_EXPECTED, "=")
	}
	target, root, err := compileTarget(toks[:i])
	if err != nil {
		return nil, err
	}
	value, err := CompileExpression(valueToks)
	if err != nil {
		return nil, err
	}
	st.Kind, st.Target, st.Var, st.Expr = StmtAssign, target, root, value
	return st, nil
}

// compileTarget compiles name followed by [i], [i][j] and .key steps, or
// a selection root followed by at least one .property step. The steps are
// flagged so the evaluator records them as an assignment path instead of
// reading through them.
func compileTarget(toks []*token.Token) (token.Program, string, error) {
	c := newCompiler(toks)
	t := c.peek()
	name := ""
	switch {
	case isWord(t):
		c.getToken()
		name = t.Text
		c.emit(&token.Token{Tok: token.TokVariable, Value: t.Text, Text: t.Text})
	case selectionRoot(t):
		if err := c.primary(); err != nil {
			return nil, "", err
		}
		if !c.tokPeekIs(token.TokPeriod) {
			return nil, "", unexpected(c.peek())
		}
	default:
		return nil, "", unexpected(t)
	}
	for c.more() {
		switch {
		case c.getTokenIf(token.TokLeftBracket):
			if err := c.selector(token.FlagAssignStep); err != nil {
				return nil, "", err
			}
		case c.getTokenIf(token.TokPeriod):
			if err := c.member(token.FlagAssignStep); err != nil {
				return nil, "", err
			}
		default:
			return nil, "", unexpected(c.peek())
		}
	}
	return c.out, name, nil
}

// selectionRoot reports tokens that can open a selection used as an
// assignment root: {carbon}.temperature = 9
func selectionRoot(t *token.Token) bool {
	if t == nil {
		return false
	}
	switch t.Tok {
	case token.TokLeftBrace, token.TokLeftParen, token.TokBitset:
		return true
	}
	return false
}

// startsExpression decides whether a statement is a bare expression
// rather than a command with arguments
func startsExpression(toks []*token.Token) bool {
	first := toks[0]
	switch first.Tok {
	case token.TokLeftParen, token.TokLeftBracket, token.TokLeftBrace, token.TokAt,
		token.TokOpMinus, token.TokOpNot, token.TokAll, token.TokNone, token.TokSelected,
		token.TokWithin, token.TokContact, token.TokConnected, token.TokSearch, token.TokSmiles:
		return true
	case token.TokSelect, token.TokFor, token.TokIf:
		return len(toks) > 1 && toks[1].Tok == token.TokLeftParen
	}
	if first.Tok.IsLiteral() {
		return true
	}
	if !isWord(first) || len(toks) == 1 {
		return false
	}
	next := toks[1].Tok
	switch next {
	case token.TokLeftParen, token.TokPeriod, token.TokLeftBracket, token.TokQuestion:
		return true
	}
	return token.Precedence(next) > 0
}
