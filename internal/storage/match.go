package storage

import (
	"strings"
	"unicode"
)

// Tokenize lowercases a free-text query and splits it into letter/digit
// runs. Punctuation and FTS5 operator characters never survive, so the
// tokens are safe to embed in a MATCH expression.
func Tokenize(query string) []string {
	return strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// MatchExpr converts a free-text query into an FTS5 MATCH expression. Each
// token is double-quoted and the set is joined with OR, so a hit contains
// at least one query token. Returns the empty string when the query yields
// no tokens; callers treat that as an empty result set, not an error.
func MatchExpr(query string) string {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return ""
	}

	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = `"` + tok + `"`
	}
	return strings.Join(quoted, " OR ")
}
