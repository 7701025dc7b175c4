package main

import (
	"context"
	"errors"
	"time"

	"github.com/ZaguanLabs/glossa"
	"github.com/ZaguanLabs/glossa/cache"
	"github.com/ZaguanLabs/glossa/processor"
	"github.com/ZaguanLabs/glossa/provider"
)

type modelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// pipeline is a configured translator plus the resources it holds.
type pipeline struct {
	translator *glossa.Translator
	matcher    *glossa.Matcher
	base       glossa.Backend // Backend without retry, rate limit or breaker
	close      func() error
}

// backendLabel is the display name used in progress banners.
func backendLabel(name string) string {
	switch name {
	case provider.NameOpenAI:
		return "OpenAI"
	case provider.NameGemini:
		return "Gemini"
	default:
		return "Ollama"
	}
}

// loadInputs reads the glossary and the prompt template. Both are read so a
// single run reports every missing file.
func (a *app) loadInputs() (*glossa.Glossary, *glossa.Template, error) {
	g, gerr := glossa.LoadGlossary(a.cfg.GlossaryPath)
	tmpl, terr := glossa.LoadTemplate(a.cfg.PromptPath)
	if err := errors.Join(gerr, terr); err != nil {
		return nil, nil, err
	}
	if g.Len() == 0 {
		a.logger.Warn("glossary is empty, prompts will carry the no-terms marker", "path", a.cfg.GlossaryPath)
	}
	a.logger.Debug("inputs loaded", "glossary", a.cfg.GlossaryPath, "terms", g.Len(), "prompt", a.cfg.PromptPath)
	return g, tmpl, nil
}

// newBackend returns the configured backend wrapped with rate limiting,
// retries and the circuit breaker, along with the bare backend.
func (a *app) newBackend() (glossa.Backend, glossa.Backend, error) {
	base, err := provider.New(provider.Config{
		Name:    a.cfg.Backend,
		BaseURL: a.cfg.BackendURL,
		APIKey:  a.cfg.APIKey,
		Model:   a.cfg.Model,
	})
	if err != nil {
		return nil, nil, err
	}

	backend := base
	if a.cfg.RPM > 0 {
		backend = glossa.NewRateLimitedBackend(backend, glossa.RateLimitConfig{RequestsPerMinute: a.cfg.RPM})
	}
	if a.cfg.Retries > 0 {
		retry := glossa.DefaultRetryConfig()
		retry.MaxRetries = a.cfg.Retries
		retry.OnRetry = func(attempt int, err error, delay time.Duration) {
			a.logger.Warn("backend call failed, retrying", "attempt", attempt, "reason", glossa.ReasonOf(err), "delay", delay)
		}
		backend = glossa.NewRetryableBackend(backend, retry)
	}
	if a.cfg.Breaker {
		bc := glossa.DefaultBreakerConfig()
		bc.Name = a.cfg.Backend
		bc.OnStateChange = func(name, from, to string) {
			a.logger.Warn("circuit breaker state changed", "backend", name, "from", from, "to", to)
		}
		backend = glossa.NewBreakerBackend(backend, bc)
	}
	return backend, base, nil
}

// newPipeline builds the translator. Without a backend it can only prepare
// prompts, and no cache is opened.
func (a *app) newPipeline(withBackend bool) (*pipeline, error) {
	g, tmpl, err := a.loadInputs()
	if err != nil {
		return nil, err
	}

	matcher := glossa.NewMatcher(
		glossa.WithThreshold(a.cfg.Threshold),
		glossa.WithAccentFolding(a.cfg.FoldAccents),
	)

	asmOpts := []glossa.AssemblerOption{glossa.WithLanguage(a.cfg.Lang)}
	if a.cfg.Delimiter != "" {
		asmOpts = append(asmOpts, glossa.WithTextDelimiter(a.cfg.Delimiter, a.cfg.Delimiter))
	}

	opts := []glossa.TranslatorOption{
		glossa.WithMatcher(matcher),
		glossa.WithAssemblerOptions(asmOpts...),
		glossa.WithModel(a.cfg.Model),
		glossa.WithBackendName(a.cfg.Backend),
		glossa.WithResponseField(a.cfg.ResponseField),
	}

	if a.cfg.HTML {
		extractor, err := processor.New("html")
		if err != nil {
			return nil, err
		}
		opts = append(opts, glossa.WithExtractor(extractor))
	}

	p := &pipeline{matcher: matcher, close: func() error { return nil }}

	var backend glossa.Backend
	if withBackend {
		backend, p.base, err = a.newBackend()
		if err != nil {
			return nil, err
		}

		c, closeCache, err := cache.Open(a.cacheConfig())
		if err != nil {
			return nil, err
		}
		if c != nil {
			opts = append(opts, glossa.WithCache(c))
			a.logger.Debug("cache enabled", "type", a.cfg.CacheType, "ttl", a.cfg.CacheTTL)
		}
		p.close = closeCache
	}

	p.translator = glossa.NewTranslator(g, tmpl, backend, opts...)
	return p, nil
}

func (a *app) cacheConfig() cache.Config {
	return cache.Config{
		Type:       a.cfg.CacheType,
		TTL:        a.cfg.CacheTTL,
		RedisURL:   a.cfg.RedisURL,
		SQLitePath: a.cfg.SQLitePath,
	}
}

// openCache opens the configured cache for export and import.
func (a *app) openCache() (cache.TranslationCache, func() error, error) {
	c, closeCache, err := cache.Open(a.cacheConfig())
	if err != nil {
		return nil, nil, err
	}
	if c == nil {
		return nil, nil, errors.New("no cache configured, set --cache")
	}
	return c, closeCache, nil
}
