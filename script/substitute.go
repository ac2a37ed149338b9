package script

import (
	"molscript/parser"
	"molscript/token"
	"molscript/types"
)

// substitute replaces @name, @name[...] and @{expr} in the raw arguments
// of a command with literal tokens. The word after @ is always read as a
// variable name, even when it is a command keyword. Arguments of
// file-name commands substitute as strings.
func (f *frame) substitute(command string, args []*token.Token) ([]*token.Token, error) {
	force := parser.IsFileCommand(command)
	out := make([]*token.Token, 0, len(args))
	for i := 0; i < len(args); i++ {
		t := args[i]
		if t.Tok != token.TokAt || i+1 >= len(args) {
			out = append(out, t)
			continue
		}
		var expr []*token.Token
		next := args[i+1]
		switch {
		case next.Tok == token.TokLeftBrace:
			end := closing(args, i+1)
			if end < 0 {
				return nil, types.NewError(types.E_TOKEN_EXPECTED, "}")
			}
			expr, i = args[i+2:end], end
		case next.Text != "" && !next.Tok.IsLiteral():
			expr = []*token.Token{{Tok: token.TokIdentifier, Value: next.Text, Text: next.Text}}
			i++
			for i+1 < len(args) && args[i+1].Tok == token.TokLeftBracket {
				end := closing(args, i+1)
				if end < 0 {
					return nil, types.NewError(types.E_TOKEN_EXPECTED, "]")
				}
				expr = append(expr, args[i+1:end+1]...)
				i = end
			}
		default:
			out = append(out, t)
			continue
		}
		v, err := f.evalTokens(expr)
		if err != nil {
			return nil, err
		}
		if force {
			v = types.NewStr(types.AsString(v))
		}
		out = append(out, token.Literal(v))
	}
	return out, nil
}

func (f *frame) evalTokens(toks []*token.Token) (types.Value, error) {
	prog, err := parser.CompileExpression(toks)
	if err != nil {
		return nil, err
	}
	return f.vm().Evaluate(prog)
}

// closing finds the bracket matching the one at open, or -1
func closing(toks []*token.Token, open int) int {
	var shut token.Tok
	switch toks[open].Tok {
	case token.TokLeftBrace:
		shut = token.TokRightBrace
	case token.TokLeftBracket:
		shut = token.TokRightBracket
	case token.TokLeftParen:
		shut = token.TokRightParen
	default:
		return -1
	}
	depth := 0
	for i := open; i < len(toks); i++ {
		switch toks[i].Tok {
		case toks[open].Tok:
			depth++
		case shut:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
