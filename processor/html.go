package processor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/glossa"
	"golang.org/x/net/html"
)

// NoTranslateAttr marks an element whose text is never scanned.
const NoTranslateAttr = "data-no-translate"

// IgnoredTags are elements whose text is never scanned for glossary terms.
var IgnoredTags = []string{"script", "style", "code", "pre", "textarea", "noscript", "template", "svg", "head"}

// HTMLExtractor collects the visible text of an HTML document, so markup,
// attribute values and scripts are not matched against the glossary.
type HTMLExtractor struct {
	skip string // Selector for subtrees to drop
}

func NewHTMLExtractor() *HTMLExtractor {
	return NewHTMLExtractorWithIgnoredTags(IgnoredTags)
}

// NewHTMLExtractorWithIgnoredTags skips tags instead of IgnoredTags. Elements
// carrying NoTranslateAttr are always skipped.
func NewHTMLExtractorWithIgnoredTags(tags []string) *HTMLExtractor {
	sel := []string{"[" + NoTranslateAttr + "]"}
	for _, tag := range tags {
		if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
			sel = append(sel, tag)
		}
	}
	return &HTMLExtractor{skip: strings.Join(sel, ", ")}
}

// Extract returns the trimmed text nodes of content, one per line, in
// document order.
func (p *HTMLExtractor) Extract(content string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", &glossa.ProcessorError{Message: "failed to parse HTML", Cause: err, ContentType: "html"}
	}

	doc.Find(p.skip).Remove()

	var lines []string
	collectText(doc.Selection, &lines)
	return strings.Join(lines, "\n"), nil
}

func collectText(s *goquery.Selection, lines *[]string) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		switch c.Get(0).Type {
		case html.TextNode:
			if text := strings.TrimSpace(c.Get(0).Data); text != "" {
				*lines = append(*lines, text)
			}
		case html.ElementNode:
			collectText(c, lines)
		}
	})
}

// Title returns the document title, or "" when there is none.
func (p *HTMLExtractor) Title(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func (p *HTMLExtractor) ContentType() string {
	return "html"
}

var _ TextExtractor = (*HTMLExtractor)(nil)
