package glossa

import (
	"sort"
	"strings"
)

// Matcher selects the glossary entries relevant to a set of candidate words.
// A Matcher is immutable and safe for concurrent use.
type Matcher struct {
	threshold   float64
	scorer      Scorer
	foldAccents bool
}

// MatcherOption is a functional option for configuring the Matcher.
type MatcherOption func(*Matcher)

// WithThreshold sets the minimum similarity score for a match. Values
// outside 0-100 are clamped, so an exact match is always accepted.
func WithThreshold(threshold float64) MatcherOption {
	return func(m *Matcher) {
		m.threshold = max(0, min(100, threshold))
	}
}

// WithScorer replaces the similarity function (default: WRatio).
func WithScorer(scorer Scorer) MatcherOption {
	return func(m *Matcher) {
		if scorer != nil {
			m.scorer = scorer
		}
	}
}

// WithAccentFolding strips accents from words and terms before scoring.
func WithAccentFolding(enabled bool) MatcherOption {
	return func(m *Matcher) {
		m.foldAccents = enabled
	}
}

// NewMatcher creates a Matcher with the default threshold and scorer.
func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{
		threshold: DefaultThreshold,
		scorer:    WRatio,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Threshold returns the minimum accepted score.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// choice is a glossary term prepared for scoring.
type choice struct {
	term string
	key  string // lowercased, optionally accent-folded
}

func (m *Matcher) normalize(s string) string {
	if m.foldAccents {
		return FoldAccents(s)
	}
	return strings.ToLower(s)
}

func (m *Matcher) choices(g *Glossary) []choice {
	terms := g.Terms()
	out := make([]choice, len(terms))
	for i, term := range terms {
		out[i] = choice{term: term, key: m.normalize(term)}
	}
	return out
}

// best returns the highest-scoring choice for word. Ties keep the earliest
// choice in glossary order.
func (m *Matcher) best(word string, choices []choice) (Match, bool) {
	query := m.normalize(word)

	var found Match
	ok := false
	for _, c := range choices {
		score := 100.0
		if query != c.key {
			score = m.scorer(query, c.key)
		}
		if !ok || score > found.Score {
			found = Match{Word: word, Term: c.term, Score: score}
			ok = true
		}
		if score == 100 {
			break
		}
	}

	if !ok || found.Score < m.threshold {
		return Match{}, false
	}
	return found, true
}

// BestMatch returns the glossary term most similar to word, if its score
// reaches the threshold.
func (m *Matcher) BestMatch(word string, g *Glossary) (Match, bool) {
	if g.Len() == 0 {
		return Match{}, false
	}
	return m.best(word, m.choices(g))
}

// MatchAll returns the accepted best match of every word, in lexicographic
// word order.
func (m *Matcher) MatchAll(words []string, g *Glossary) []Match {
	if g.Len() == 0 || len(words) == 0 {
		return nil
	}

	ordered := make([]string, len(words))
	copy(ordered, words)
	sort.Strings(ordered)

	choices := m.choices(g)
	var matches []Match
	for i, word := range ordered {
		if i > 0 && word == ordered[i-1] {
			continue
		}
		if match, ok := m.best(word, choices); ok {
			matches = append(matches, match)
		}
	}
	return matches
}

// Match builds the relevant entries for words. Words are visited in
// lexicographic order and the first word to claim a term wins; later claims
// of the same term are ignored.
func (m *Matcher) Match(words []string, g *Glossary) *Entries {
	entries := NewEntries()
	for _, match := range m.MatchAll(words, g) {
		value, _ := g.Lookup(match.Term)
		entries.Add(match.Term, value)
	}
	return entries
}

// FindRelevantEntries tokenizes text and matches it against g with the
// given threshold.
func FindRelevantEntries(text string, g *Glossary, threshold float64) *Entries {
	return NewMatcher(WithThreshold(threshold)).Match(Tokenize(text), g)
}
