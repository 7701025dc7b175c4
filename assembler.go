package glossa

import "strings"

// Assembler renders relevant glossary entries and user text into a template.
type Assembler struct {
	template      *Template
	noTermsMarker string
	openDelim     string
	closeDelim    string
}

// AssemblerOption is a functional option for configuring the Assembler.
type AssemblerOption func(*Assembler)

// WithNoTermsMarker sets the text rendered when no glossary term matched.
func WithNoTermsMarker(marker string) AssemblerOption {
	return func(a *Assembler) {
		a.noTermsMarker = marker
	}
}

// WithLanguage picks the localized "no terms" marker for langCode.
func WithLanguage(langCode string) AssemblerOption {
	return func(a *Assembler) {
		a.noTermsMarker = GetNoTermsMarker(langCode)
	}
}

// WithTextDelimiter wraps the user text in open and close markers, each on
// its own line, so the backend can tell instructions and content apart.
func WithTextDelimiter(open, close string) AssemblerOption {
	return func(a *Assembler) {
		a.openDelim = open
		a.closeDelim = close
	}
}

// NewAssembler creates an Assembler for tmpl.
func NewAssembler(tmpl *Template, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		template:      tmpl,
		noTermsMarker: DefaultNoTermsMarker,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Template returns the template being filled.
func (a *Assembler) Template() *Template {
	return a.template
}

// GlossarySection renders entries as "- term: value" lines, or the
// "no terms" marker when entries is empty.
func (a *Assembler) GlossarySection(entries *Entries) string {
	if entries.Len() == 0 {
		return a.noTermsMarker
	}

	lines := make([]string, 0, entries.Len())
	for _, e := range entries.Items() {
		lines = append(lines, "- "+e.Term+": "+e.Value)
	}
	return strings.Join(lines, "\n")
}

// Build returns the final prompt for entries and the verbatim user text.
func (a *Assembler) Build(entries *Entries, text string) string {
	if a.openDelim != "" || a.closeDelim != "" {
		text = a.openDelim + "\n" + text + "\n" + a.closeDelim
	}
	return a.template.Render(a.GlossarySection(entries), text)
}

// BuildPrompt fills tmpl with entries and text using the default marker.
func BuildPrompt(tmpl *Template, entries *Entries, text string) string {
	return NewAssembler(tmpl).Build(entries, text)
}
