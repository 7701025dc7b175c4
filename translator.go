package glossa

import (
	"context"
)

// Backend is the interface for text-generation backends. Generate sends the
// prompt as a single user message and returns the raw response content.
type Backend interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// GenerateRequest contains the parameters for a backend call.
type GenerateRequest struct {
	Prompt string // Content of the single user-role message
	Model  string // Model name; empty means the backend default
	Format string // Requested response format, e.g. FormatJSON
}

// TranslationCache is the interface for caching raw backend responses.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// TextExtractor turns input content into the plain text scanned for
// glossary terms. The prompt always carries the original input.
type TextExtractor interface {
	Extract(content string) (string, error)
	ContentType() string
}

// Translator runs the tokenize, match, assemble and generate pipeline.
// It is safe for concurrent use if its backend and cache are.
type Translator struct {
	glossary  *Glossary
	matcher   *Matcher
	assembler *Assembler
	backend   Backend
	cache     TranslationCache
	extractor TextExtractor
	model     string
	field     string
	name      string
}

// TranslatorOption is a functional option for configuring the Translator.
type TranslatorOption func(*Translator)

// WithMatcher sets the glossary matcher.
func WithMatcher(m *Matcher) TranslatorOption {
	return func(t *Translator) {
		t.matcher = m
	}
}

// WithAssemblerOptions configures the prompt assembler.
func WithAssemblerOptions(opts ...AssemblerOption) TranslatorOption {
	return func(t *Translator) {
		t.assembler = NewAssembler(t.assembler.Template(), opts...)
	}
}

// WithCache sets the response cache.
func WithCache(cache TranslationCache) TranslatorOption {
	return func(t *Translator) {
		t.cache = cache
	}
}

// WithExtractor sets how candidate text is pulled from the input.
func WithExtractor(extractor TextExtractor) TranslatorOption {
	return func(t *Translator) {
		t.extractor = extractor
	}
}

// WithModel sets the model requested from the backend.
func WithModel(model string) TranslatorOption {
	return func(t *Translator) {
		t.model = model
	}
}

// WithBackendName labels cache keys with the backend name so backends
// sharing one cache do not see each other's responses.
func WithBackendName(name string) TranslatorOption {
	return func(t *Translator) {
		t.name = name
	}
}

// WithResponseField sets the JSON field that holds the translation.
func WithResponseField(field string) TranslatorOption {
	return func(t *Translator) {
		if field != "" {
			t.field = field
		}
	}
}

// NewTranslator creates a Translator for a glossary, a parsed template and
// a backend. The backend may be nil when only Prepare is used.
func NewTranslator(glossary *Glossary, tmpl *Template, backend Backend, opts ...TranslatorOption) *Translator {
	t := &Translator{
		glossary:  glossary,
		matcher:   NewMatcher(),
		assembler: NewAssembler(tmpl),
		backend:   backend,
		field:     DefaultResponseField,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Prepare builds the prompt for text without calling the backend.
func (t *Translator) Prepare(text string) (*Prepared, error) {
	source := text
	if t.extractor != nil {
		extracted, err := t.extractor.Extract(text)
		if err != nil {
			return nil, err
		}
		source = extracted
	}

	words := Tokenize(source)
	entries := t.matcher.Match(words, t.glossary)

	return &Prepared{
		Text:    text,
		Words:   words,
		Entries: entries,
		Prompt:  t.assembler.Build(entries, text),
	}, nil
}

// Translate prepares the prompt for text, sends it to the backend (or the
// cache) and extracts the translated text from the response.
func (t *Translator) Translate(ctx context.Context, text string) (*Result, error) {
	prep, err := t.Prepare(text)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Prompt:  prep.Prompt,
		Entries: prep.Entries,
	}

	cacheKey := t.cacheKey(prep.Prompt)
	if t.cache != nil {
		if content, ok := t.cache.Get(cacheKey); ok {
			if translated, err := ExtractTranslation(content, t.field); err == nil {
				result.Text = translated
				result.Cached = true
				return result, nil
			}
		}
	}

	if t.backend == nil {
		return nil, &ProviderError{Message: "no backend configured", Reason: ReasonBackend}
	}

	content, err := t.backend.Generate(ctx, GenerateRequest{
		Prompt: prep.Prompt,
		Model:  t.model,
		Format: FormatJSON,
	})
	if err != nil {
		return nil, err
	}

	translated, err := ExtractTranslation(content, t.field)
	if err != nil {
		return nil, err
	}

	if t.cache != nil {
		_ = t.cache.Set(cacheKey, content) // Ignore cache set errors
	}

	result.Text = translated
	return result, nil
}

func (t *Translator) cacheKey(prompt string) string {
	return CacheKey(HashText(prompt), t.name, t.model, t.field)
}

// Glossary returns the glossary used for matching.
func (t *Translator) Glossary() *Glossary {
	return t.glossary
}

// Model returns the model requested from the backend.
func (t *Translator) Model() string {
	return t.model
}

// ResponseField returns the JSON field read from responses.
func (t *Translator) ResponseField() string {
	return t.field
}
