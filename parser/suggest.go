package parser

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/exp/slices"

	"molscript/token"
)

// Suggest returns the candidate closest to word, or "" when nothing is
// near enough to be a plausible misspelling
func Suggest(word string, candidates []string) string {
	word = strings.ToLower(word)
	limit := 1 + len(word)/4
	if limit > 3 {
		limit = 3
	}
	best, bestDist := "", limit+1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(word, strings.ToLower(c))
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// SuggestKeyword matches word against every keyword spelling
func SuggestKeyword(word string) string {
	return Suggest(word, token.Keywords())
}

var clauseNames = []string{"within", "contact", "connected", "search", "smiles"}

// withinKinds are the named first arguments of within(kind, ...)
var withinKinds = []string{
	"atomtype", "branch", "chain", "coord", "element", "group",
	"hkl", "model", "molecule", "plane", "vanderwaals",
}

func isWithinKind(word string) bool {
	return slices.Contains(withinKinds, strings.ToLower(word))
}

var bondOrders = map[string]bool{
	"single":   true,
	"double":   true,
	"triple":   true,
	"aromatic": true,
	"partial":  true,
	"hbond":    true,
	"any":      true,
}
