package model

import (
	"strings"
	"unicode"

	"github.com/bits-and-blooms/bitset"

	"molscript/token"
	"molscript/types"
)

// patternAtom is one node of a linear pattern
type patternAtom struct {
	element string // "" matches any element
	order   string // bond order to the previous node; "" accepts any
}

// parsePattern reads an unbranched SMILES or SMARTS chain such as
// "C=O", "[Fe]" or "c:c-N". Branches and ring closures are rejected.
func parsePattern(pattern string) ([]patternAtom, error) {
	var nodes []patternAtom
	order := ""
	rs := []rune(strings.TrimSpace(pattern))
	for k := 0; k < len(rs); k++ {
		r := rs[k]
		switch {
		case r == '-' || r == '=' || r == '#' || r == ':' || r == '~':
			order = map[rune]string{'-': "single", '=': "double", '#': "triple", ':': "aromatic", '~': ""}[r]
			continue
		case r == '*':
			nodes = append(nodes, patternAtom{order: order})
		case r == '[':
			end := k + 1
			for end < len(rs) && rs[end] != ']' {
				end++
			}
			if end == len(rs) {
				return nil, types.NewError(types.E_INVALID_ARGUMENT, pattern)
			}
			inner := rs[k+1 : end]
			k = end
			n := 0
			for n < len(inner) && unicode.IsLetter(inner[n]) && (n == 0 || unicode.IsLower(inner[n])) {
				n++
			}
			if n == 0 {
				return nil, types.NewError(types.E_INVALID_ARGUMENT, pattern)
			}
			nodes = append(nodes, patternAtom{element: string(inner[:n]), order: order})
		case unicode.IsUpper(r):
			sym := string(r)
			if k+1 < len(rs) && (sym == "C" && rs[k+1] == 'l' || sym == "B" && rs[k+1] == 'r') {
				sym += string(rs[k+1])
				k++
			}
			nodes = append(nodes, patternAtom{element: sym, order: order})
		case strings.ContainsRune("cnops", r):
			nodes = append(nodes, patternAtom{element: string(unicode.ToUpper(r)), order: order})
		default:
			return nil, types.NewError(types.E_INVALID_ARGUMENT, pattern)
		}
		order = ""
	}
	if len(nodes) == 0 {
		return nil, types.NewError(types.E_INVALID_ARGUMENT, pattern)
	}
	return nodes, nil
}

// MatchPattern finds every atom taking part in a match of a linear
// pattern restricted to atoms. Search and SMILES patterns share one
// matcher; bond orders are checked only where the pattern gives one and
// aromatic lowercase symbols match their element.
func (s *Store) MatchPattern(kind token.Tok, pattern string, atoms *bitset.BitSet) (*bitset.BitSet, error) {
	nodes, err := parsePattern(pattern)
	if err != nil {
		return nil, err
	}
	result := bitset.New(uint(len(s.Atoms)))
	path := make([]int, 0, len(nodes))
	var extend func(i, depth int) bool
	extend = func(i, depth int) bool {
		if !atoms.Test(uint(i)) || !s.matchesNode(i, nodes[depth]) {
			return false
		}
		for _, p := range path {
			if p == i {
				return false
			}
		}
		if depth > 0 && !s.bondMatches(path[len(path)-1], i, nodes[depth].order) {
			return false
		}
		path = append(path, i)
		defer func() { path = path[:len(path)-1] }()
		if depth == len(nodes)-1 {
			for _, p := range path {
				result.Set(uint(p))
			}
			return true
		}
		found := false
		for _, j := range s.neighbors(i) {
			if extend(j, depth+1) {
				found = true
			}
		}
		return found
	}
	for i := range s.Atoms {
		extend(i, 0)
	}
	return result, nil
}

func (s *Store) matchesNode(i int, n patternAtom) bool {
	return n.element == "" || strings.EqualFold(s.Atoms[i].Element, n.element)
}

func (s *Store) bondMatches(i, j int, order string) bool {
	for b, bond := range s.Bonds {
		if bond.A == i && bond.B == j || bond.A == j && bond.B == i {
			return order == "" || strings.EqualFold(s.BondOrder(b), order)
		}
	}
	return false
}
