package glossa

import (
	"os"
	"strings"
)

type slotKind int

const (
	slotNone slotKind = iota
	slotGlossary
	slotText
)

// segment is either literal template text or a placeholder slot.
type segment struct {
	literal string
	slot    slotKind
}

// Template is a prompt template split into literal text and placeholder
// slots. Values are written into slots when rendering and are never scanned
// for placeholders themselves, so user text containing a marker stays as is.
type Template struct {
	raw                 string
	segments            []segment
	glossaryPlaceholder string
	textPlaceholder     string
}

// TemplateOption is a functional option for configuring template parsing.
type TemplateOption func(*Template)

// WithGlossaryPlaceholder sets the glossary section marker.
func WithGlossaryPlaceholder(marker string) TemplateOption {
	return func(t *Template) {
		t.glossaryPlaceholder = marker
	}
}

// WithTextPlaceholder sets the user text marker.
func WithTextPlaceholder(marker string) TemplateOption {
	return func(t *Template) {
		t.textPlaceholder = marker
	}
}

// ParseTemplate splits body into segments. Both placeholders must appear at
// least once; otherwise a *TemplateError lists the missing ones.
func ParseTemplate(body string, opts ...TemplateOption) (*Template, error) {
	t := &Template{
		raw:                 body,
		glossaryPlaceholder: DefaultGlossaryPlaceholder,
		textPlaceholder:     DefaultTextPlaceholder,
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.glossaryPlaceholder == "" || t.textPlaceholder == "" {
		return nil, &TemplateError{Message: "placeholders must not be empty"}
	}
	if t.glossaryPlaceholder == t.textPlaceholder {
		return nil, &TemplateError{Message: "placeholders must differ"}
	}

	var missing []string
	if !strings.Contains(body, t.glossaryPlaceholder) {
		missing = append(missing, t.glossaryPlaceholder)
	}
	if !strings.Contains(body, t.textPlaceholder) {
		missing = append(missing, t.textPlaceholder)
	}
	if len(missing) > 0 {
		return nil, &TemplateError{Message: "incomplete template", Missing: missing}
	}

	t.segments = t.split(body)
	return t, nil
}

// MustParseTemplate is like ParseTemplate but panics on error.
func MustParseTemplate(body string, opts ...TemplateOption) *Template {
	t, err := ParseTemplate(body, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// LoadTemplate reads and parses a template file.
func LoadTemplate(path string, opts ...TemplateOption) (*Template, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, &TemplateError{Message: "prompt file not found at " + path, Cause: err}
	}
	return ParseTemplate(string(data), opts...)
}

// split scans left to right, always taking the earliest placeholder. When
// one marker is a prefix of the other at the same offset, the longer wins.
func (t *Template) split(body string) []segment {
	var segments []segment
	rest := body
	for rest != "" {
		gi := strings.Index(rest, t.glossaryPlaceholder)
		ti := strings.Index(rest, t.textPlaceholder)

		idx, kind, size := -1, slotNone, 0
		if gi >= 0 {
			idx, kind, size = gi, slotGlossary, len(t.glossaryPlaceholder)
		}
		if ti >= 0 && (idx < 0 || ti < idx || (ti == idx && len(t.textPlaceholder) > size)) {
			idx, kind, size = ti, slotText, len(t.textPlaceholder)
		}

		if idx < 0 {
			segments = append(segments, segment{literal: rest})
			break
		}
		if idx > 0 {
			segments = append(segments, segment{literal: rest[:idx]})
		}
		segments = append(segments, segment{slot: kind})
		rest = rest[idx+size:]
	}
	return segments
}

// Render writes glossarySection and text into their slots.
func (t *Template) Render(glossarySection, text string) string {
	var b strings.Builder
	b.Grow(len(t.raw) + len(glossarySection) + len(text))
	for _, seg := range t.segments {
		switch seg.slot {
		case slotGlossary:
			b.WriteString(glossarySection)
		case slotText:
			b.WriteString(text)
		default:
			b.WriteString(seg.literal)
		}
	}
	return b.String()
}

// Raw returns the unparsed template body.
func (t *Template) Raw() string {
	return t.raw
}

// Placeholders returns the glossary and text markers.
func (t *Template) Placeholders() (glossary, text string) {
	return t.glossaryPlaceholder, t.textPlaceholder
}
