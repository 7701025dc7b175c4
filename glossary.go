package glossa

import (
	"os"
	"sort"

	"github.com/tidwall/gjson"
)

// Glossary is an ordered, read-only mapping from term to translation.
// Terms keep the order in which they were first seen.
type Glossary struct {
	terms  []string
	values map[string]string
}

// NewGlossary builds a glossary from entries. A repeated term keeps its
// first position and takes the last value.
func NewGlossary(entries ...Entry) *Glossary {
	g := &Glossary{values: make(map[string]string, len(entries))}
	for _, e := range entries {
		g.set(e.Term, e.Value)
	}
	return g
}

// GlossaryFromMap builds a glossary from a map, ordering terms
// lexicographically since map order is random.
func GlossaryFromMap(m map[string]string) *Glossary {
	terms := make([]string, 0, len(m))
	for term := range m {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	g := &Glossary{values: make(map[string]string, len(m))}
	for _, term := range terms {
		g.set(term, m[term])
	}
	return g
}

func (g *Glossary) set(term, value string) {
	if _, ok := g.values[term]; !ok {
		g.terms = append(g.terms, term)
	}
	g.values[term] = value
}

// ParseGlossary parses a JSON object of term -> value, preserving key order.
// Non-string values are kept in their JSON text form.
func ParseGlossary(data []byte) (*Glossary, error) {
	if !gjson.ValidBytes(data) {
		return nil, &GlossaryError{Message: "could not decode JSON"}
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, &GlossaryError{Message: "glossary must be a JSON object"}
	}

	g := &Glossary{values: make(map[string]string)}
	root.ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.String {
			g.set(key.String(), value.String())
		} else {
			g.set(key.String(), value.Raw)
		}
		return true
	})

	return g, nil
}

// LoadGlossary reads and parses a JSON glossary file.
func LoadGlossary(path string) (*Glossary, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, &GlossaryError{Message: "glossary file not found", Path: path, Cause: err}
	}

	g, err := ParseGlossary(data)
	if err != nil {
		if gerr, ok := err.(*GlossaryError); ok {
			gerr.Path = path
		}
		return nil, err
	}
	return g, nil
}

// Len returns the number of terms.
func (g *Glossary) Len() int {
	if g == nil {
		return 0
	}
	return len(g.terms)
}

// Terms returns the terms in glossary order.
func (g *Glossary) Terms() []string {
	if g == nil {
		return nil
	}
	out := make([]string, len(g.terms))
	copy(out, g.terms)
	return out
}

// Lookup returns the value for term. Lookup is case-sensitive.
func (g *Glossary) Lookup(term string) (string, bool) {
	if g == nil {
		return "", false
	}
	v, ok := g.values[term]
	return v, ok
}

// Entries returns all entries in glossary order.
func (g *Glossary) Entries() []Entry {
	if g == nil {
		return nil
	}
	out := make([]Entry, len(g.terms))
	for i, term := range g.terms {
		out[i] = Entry{Term: term, Value: g.values[term]}
	}
	return out
}
