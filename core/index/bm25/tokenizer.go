// Package bm25 implements §4.2: a code-aware lexical index. The
// tokenizer emits both a raw identifier and its decomposed subtokens, so
// a search for "distance" matches a document containing only
// "calculateDistance", while a search for the exact identifier still
// ranks it highest (the query's raw-identifier token matches it on top
// of the decomposed parts).
package bm25

import (
	"strings"
	"unicode"
)

// tokenize splits text on non-identifier boundaries, then decomposes
// each identifier into camelCase and snake_case subtokens, lowercasing
// everything for case-insensitive matching. Both the raw identifier and
// its parts are emitted.
func tokenize(text string) []string {
	var tokens []string
	for _, word := range splitWords(text) {
		tokens = append(tokens, strings.ToLower(word))
		for _, part := range decompose(word) {
			if part != word {
				tokens = append(tokens, strings.ToLower(part))
			}
		}
	}
	return tokens
}

// splitWords breaks text into maximal runs of letters, digits, and
// underscores — the character classes that can appear inside a source
// identifier.
func splitWords(text string) []string {
	var words []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			words = append(words, b.String())
			b.Reset()
		}
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return words
}

// decompose splits a single identifier into its camelCase and
// snake_case parts. "calculateDistance" -> ["calculate", "Distance"];
// "calculate_distance" -> ["calculate", "distance"]. Parts shorter than
// 2 bytes are dropped as unlikely to be meaningful subtokens on their
// own (but are still covered by the raw-identifier token in tokenize).
func decompose(word string) []string {
	if strings.Contains(word, "_") {
		var parts []string
		for _, p := range strings.Split(word, "_") {
			if len(p) >= 2 {
				parts = append(parts, p)
			}
		}
		return parts
	}

	var parts []string
	var cur strings.Builder
	runes := []rune(word)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && !unicode.IsUpper(runes[i-1]) {
			if cur.Len() >= 2 {
				parts = append(parts, cur.String())
			}
			cur.Reset()
		}
		cur.WriteRune(r)
	}
	if cur.Len() >= 2 {
		parts = append(parts, cur.String())
	}
	return parts
}
