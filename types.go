package glossa

const (
	// DefaultThreshold is the minimum similarity score (0-100) for a glossary match.
	DefaultThreshold = 85.0

	// DefaultGlossaryPlaceholder marks where the glossary section goes in a template.
	DefaultGlossaryPlaceholder = "{{glossario}}"

	// DefaultTextPlaceholder marks where the user's raw text goes in a template.
	DefaultTextPlaceholder = "{{cole aqui o texto a ser traduzido}}"

	// DefaultResponseField is the JSON field holding the translated text.
	DefaultResponseField = "translated_text"

	// FormatJSON asks the backend for a JSON response.
	FormatJSON = "json"
)

// Entry is a single glossary term and its translation or definition.
type Entry struct {
	Term  string `json:"term"`
	Value string `json:"value"`
}

// Entries is an ordered set of glossary entries keyed by term.
// Adding a term that is already present is a no-op, so the first claim wins.
type Entries struct {
	items []Entry
	index map[string]int
}

// NewEntries creates an empty Entries set.
func NewEntries() *Entries {
	return &Entries{index: make(map[string]int)}
}

// Add inserts term if absent. Returns true if the term was added.
func (e *Entries) Add(term, value string) bool {
	if e.index == nil {
		e.index = make(map[string]int)
	}
	if _, ok := e.index[term]; ok {
		return false
	}
	e.index[term] = len(e.items)
	e.items = append(e.items, Entry{Term: term, Value: value})
	return true
}

// Get returns the value stored for term.
func (e *Entries) Get(term string) (string, bool) {
	if e == nil {
		return "", false
	}
	i, ok := e.index[term]
	if !ok {
		return "", false
	}
	return e.items[i].Value, true
}

// Has reports whether term is present.
func (e *Entries) Has(term string) bool {
	_, ok := e.Get(term)
	return ok
}

// Len returns the number of entries. A nil Entries is empty.
func (e *Entries) Len() int {
	if e == nil {
		return 0
	}
	return len(e.items)
}

// Items returns a copy of the entries in insertion order.
func (e *Entries) Items() []Entry {
	if e == nil {
		return nil
	}
	out := make([]Entry, len(e.items))
	copy(out, e.items)
	return out
}

// Terms returns the terms in insertion order.
func (e *Entries) Terms() []string {
	if e == nil {
		return nil
	}
	out := make([]string, len(e.items))
	for i, item := range e.items {
		out[i] = item.Term
	}
	return out
}

// Match is the best glossary key found for a candidate word.
type Match struct {
	Word  string  `json:"word"`  // Candidate word from the input
	Term  string  `json:"term"`  // Glossary key as stored
	Score float64 `json:"score"` // Similarity on a 0-100 scale
}

// Result is the outcome of a successful translation.
type Result struct {
	Text    string   // Translated text extracted from the backend response
	Prompt  string   // Final prompt sent to the backend
	Entries *Entries // Glossary entries injected into the prompt
	Cached  bool     // Whether the backend response came from the cache
}

// Prepared is a fully assembled prompt that has not been sent yet.
type Prepared struct {
	Text    string   // Raw user text, verbatim
	Words   []string // Candidate words, sorted
	Entries *Entries // Relevant glossary entries
	Prompt  string   // Final prompt
}
