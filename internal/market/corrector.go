package market

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// aliases maps colloquial Korean stock names and common misspellings
// to provider symbols.
var aliases = map[string]string{
	"삼성전자":   "005930.KS",
	"삼전":     "005930.KS",
	"SK하이닉스": "000660.KS",
	"하이닉스":   "000660.KS",
	"코스피":    "^KS11",
	"코스닥":    "^KQ11",
	"달러":     "KRW=X",
	"환율":     "KRW=X",
}

// minConfidence below which a fuzzy match is discarded.
const minConfidence = 0.5

// Correct resolves a user-typed token to a known symbol. Exact alias
// hits return confidence 1.0; otherwise the nearest alias by edit
// distance wins if its confidence clears the threshold. Pure function,
// independent of the risk engine.
func Correct(token string) (symbol string, confidence float64, ok bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", 0, false
	}

	if symbol, found := aliases[token]; found {
		return symbol, 1.0, true
	}

	best := ""
	bestConfidence := 0.0
	for alias, sym := range aliases {
		dist := levenshtein.ComputeDistance(token, alias)
		maxLen := len([]rune(token))
		if l := len([]rune(alias)); l > maxLen {
			maxLen = l
		}
		c := 1.0 - float64(dist)/float64(maxLen)
		if c > bestConfidence {
			best = sym
			bestConfidence = c
		}
	}

	if bestConfidence < minConfidence {
		return "", 0, false
	}
	return best, bestConfidence, true
}
