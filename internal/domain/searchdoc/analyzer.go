package searchdoc

import (
	"strings"
	"unicode"
)

// Edge fragment bounds, in runes.
const (
	MinFragment = 1
	MaxFragment = 20
)

// Tokenize lowercases text and splits it on every rune that is neither a letter nor a digit.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// EdgeFragments returns the rune prefixes of token with lengths MinFragment..min(MaxFragment, len).
// For "matrix": m, ma, mat, matr, matri, matrix.
func EdgeFragments(token string) []string {
	runes := []rune(token)
	n := min(len(runes), MaxFragment)
	if n < MinFragment {
		return []string{}
	}
	out := make([]string, 0, n-MinFragment+1)
	for i := MinFragment; i <= n; i++ {
		out = append(out, string(runes[:i]))
	}
	return out
}

// Analyze expands text into the de-duplicated edge fragments of all its tokens, in first-seen order.
func Analyze(text string) []string {
	out := make([]string, 0)
	seen := make(map[string]struct{})
	for _, tok := range Tokenize(text) {
		for _, frag := range EdgeFragments(tok) {
			if _, ok := seen[frag]; ok {
				continue
			}
			seen[frag] = struct{}{}
			out = append(out, frag)
		}
	}
	return out
}

// AnalyzeQuery tokenizes query text without prefix expansion.
// Tokens longer than MaxFragment are cut to it so they still hit the longest stored fragment.
func AnalyzeQuery(text string) []string {
	tokens := Tokenize(text)
	out := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if r := []rune(tok); len(r) > MaxFragment {
			tok = string(r[:MaxFragment])
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
