package glossa

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Scorer returns the similarity of two strings on a 0-100 scale.
type Scorer func(a, b string) float64

const (
	tokenScale         = 0.95
	partialScale       = 0.9
	longPartialScale   = 0.6
	partialLenRatio    = 1.5
	longPartialLenRate = 8.0
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldAccents lowercases s and strips combining accents (e.g. "Proteção" -> "protecao").
func FoldAccents(s string) string {
	result, _, err := transform.String(stripAccents, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return result
}

// DefaultProcess lowercases s, replaces every rune that is not a letter or
// digit with a space, and trims the result.
func DefaultProcess(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.TrimSpace(b.String())
}

// Ratio is the normalized indel similarity of a and b.
func Ratio(a, b string) float64 {
	return ratioRunes([]rune(a), []rune(b))
}

func ratioRunes(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	return 100 * float64(2*lcsLength(a, b)) / float64(total)
}

// lcsLength returns the length of the longest common subsequence.
func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) > len(a) {
		a, b = b, a
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// PartialRatio is the best Ratio between the shorter string and any
// equally long window of the longer one, including windows clipped at
// either edge. Strings of equal length are scanned both ways.
func PartialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		if len(long) == 0 {
			return 100
		}
		return 0
	}

	best := partialScan(short, long)
	if len(short) == len(long) && best < 100 {
		best = max(best, partialScan(long, short))
	}
	return best
}

// partialScan slides short across long. len(short) <= len(long).
func partialScan(short, long []rune) float64 {
	n := len(short)
	best := 0.0
	consider := func(window []rune) bool {
		if score := ratioRunes(short, window); score > best {
			best = score
		}
		return best == 100
	}

	for i := 0; i+n <= len(long); i++ {
		if consider(long[i : i+n]) {
			return best
		}
	}
	for i := 1; i < n; i++ {
		if consider(long[:i]) || consider(long[len(long)-i:]) {
			return best
		}
	}
	return best
}

func sortedJoin(tokens []string) string {
	sorted := make([]string, len(tokens))
	copy(sorted, tokens)
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

func setDiff(a, b map[string]bool) []string {
	var out []string
	for tok := range a {
		if !b[tok] {
			out = append(out, tok)
		}
	}
	sort.Strings(out)
	return out
}

func setIntersect(a, b map[string]bool) []string {
	var out []string
	for tok := range a {
		if b[tok] {
			out = append(out, tok)
		}
	}
	sort.Strings(out)
	return out
}

// TokenSortRatio compares a and b after sorting their whitespace-separated tokens.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortedJoin(strings.Fields(a)), sortedJoin(strings.Fields(b)))
}

// TokenSetRatio compares the shared tokens of a and b against each side's
// remainder, so extra words on one side cost little.
func TokenSetRatio(a, b string) float64 {
	setA, setB := tokenSet(a), tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersect := setIntersect(setA, setB)
	diffAB := setDiff(setA, setB)
	diffBA := setDiff(setB, setA)

	if len(intersect) > 0 && (len(diffAB) == 0 || len(diffBA) == 0) {
		return 100
	}

	sect := strings.Join(intersect, " ")
	ab := strings.Join(diffAB, " ")
	ba := strings.Join(diffBA, " ")

	if sect == "" {
		return Ratio(ab, ba)
	}

	combinedAB := sect + " " + ab
	combinedBA := sect + " " + ba
	return max(Ratio(sect, combinedAB), Ratio(sect, combinedBA), Ratio(combinedAB, combinedBA))
}

// TokenRatio is the higher of TokenSortRatio and TokenSetRatio.
func TokenRatio(a, b string) float64 {
	return max(TokenSortRatio(a, b), TokenSetRatio(a, b))
}

// PartialTokenRatio applies PartialRatio to token-sorted and token-set forms.
func PartialTokenRatio(a, b string) float64 {
	tokensA, tokensB := strings.Fields(a), strings.Fields(b)
	setA, setB := tokenSet(a), tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	if len(setIntersect(setA, setB)) > 0 {
		return 100
	}

	result := PartialRatio(sortedJoin(tokensA), sortedJoin(tokensB))

	diffAB, diffBA := setDiff(setA, setB), setDiff(setB, setA)
	if len(diffAB) == len(tokensA) && len(diffBA) == len(tokensB) {
		return result
	}
	return max(result, PartialRatio(strings.Join(diffAB, " "), strings.Join(diffBA, " ")))
}

// WRatio is a weighted similarity that picks the most suitable of the
// ratio variants based on the relative length of the inputs. Unlike the
// other scorers it preprocesses both inputs with DefaultProcess.
func WRatio(a, b string) float64 {
	a, b = DefaultProcess(a), DefaultProcess(b)
	if a == "" || b == "" {
		return 0
	}

	lenA, lenB := float64(utf8.RuneCountInString(a)), float64(utf8.RuneCountInString(b))
	lenRatio := max(lenA, lenB) / min(lenA, lenB)

	end := Ratio(a, b)
	if lenRatio < partialLenRatio {
		return max(end, TokenRatio(a, b)*tokenScale)
	}

	scale := partialScale
	if lenRatio >= longPartialLenRate {
		scale = longPartialScale
	}

	end = max(end, PartialRatio(a, b)*scale)
	return max(end, PartialTokenRatio(a, b)*tokenScale*scale)
}
