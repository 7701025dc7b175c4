package glossa

import (
	"regexp"
	"sort"
	"strings"
)

// wordPattern matches runs of Unicode word characters and apostrophes.
var wordPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_']+`)

// Tokenize extracts the distinct lowercase words of text, sorted.
// Single-character words are kept.
func Tokenize(text string) []string {
	matches := wordPattern.FindAllString(strings.ToLower(text), -1)
	if len(matches) == 0 {
		return []string{}
	}

	seen := make(map[string]bool, len(matches))
	words := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		words = append(words, m)
	}

	sort.Strings(words)
	return words
}
