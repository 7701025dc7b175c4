// Package processor provides extractors that pull matchable text out of
// structured input.
package processor

import (
	"strings"

	"github.com/ZaguanLabs/glossa"
)

// TextExtractor is an alias to the main package interface.
type TextExtractor = glossa.TextExtractor

// New returns the extractor for contentType ("text" or "html").
func New(contentType string) (TextExtractor, error) {
	switch strings.ToLower(contentType) {
	case "", "text", "plain":
		return NewPlainExtractor(), nil
	case "html":
		return NewHTMLExtractor(), nil
	default:
		return nil, &glossa.ProcessorError{
			Message:     "unsupported content type",
			ContentType: contentType,
		}
	}
}

// PlainExtractor passes text through unchanged.
type PlainExtractor struct{}

// NewPlainExtractor creates a new plain text extractor.
func NewPlainExtractor() *PlainExtractor {
	return &PlainExtractor{}
}

// Extract returns content as is.
func (p *PlainExtractor) Extract(content string) (string, error) {
	return content, nil
}

// ContentType returns "text".
func (p *PlainExtractor) ContentType() string {
	return "text"
}

// Verify PlainExtractor implements TextExtractor
var _ TextExtractor = (*PlainExtractor)(nil)
