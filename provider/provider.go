// Package provider implements text-generation backends for glossa.
package provider

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ZaguanLabs/glossa"
)

// Backend is the interface for text-generation backends.
// This is an alias to the main package interface for convenience.
type Backend = glossa.Backend

// GenerateRequest is an alias to the main package type.
type GenerateRequest = glossa.GenerateRequest

// Backend names accepted by New.
const (
	NameOllama = "ollama"
	NameOpenAI = "openai"
	NameGemini = "gemini"
)

// Config selects and configures a backend.
type Config struct {
	Name    string // One of NameOllama, NameOpenAI, NameGemini
	BaseURL string // Endpoint override (optional)
	APIKey  string // API key for hosted backends
	Model   string // Default model
}

// New creates the backend named by cfg.Name.
func New(cfg Config) (Backend, error) {
	switch strings.ToLower(cfg.Name) {
	case "", NameOllama:
		return NewOllamaBackend(OllamaConfig{BaseURL: cfg.BaseURL, Model: cfg.Model}), nil
	case NameOpenAI:
		return NewOpenAIBackend(OpenAIConfig{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL, Model: cfg.Model}), nil
	case NameGemini:
		return NewGeminiBackend(GeminiConfig{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL, Model: cfg.Model}), nil
	default:
		return nil, &glossa.ProviderError{Message: "unsupported backend: " + cfg.Name, Reason: glossa.ReasonBackend}
	}
}

// classifyStatus maps an HTTP status code to a failure reason and whether
// the call is worth retrying.
func classifyStatus(code int) (glossa.FailureReason, bool) {
	switch {
	case code == 401 || code == 403:
		return glossa.ReasonAuth, false
	case code == 429:
		return glossa.ReasonRateLimited, true
	case code >= 500:
		return glossa.ReasonBackend, true
	default:
		return glossa.ReasonBackend, false
	}
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(h http.Header) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(h.Get("Retry-After")))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// isUnreachable reports whether err looks like a transport failure.
func isUnreachable(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host")
}

func isRetryableError(err error) bool {
	// Check for common retryable conditions
	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"rate limit",
		"timeout",
		"connection refused",
		"temporary",
		"503",
		"502",
		"429",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// transportError wraps a failed call that never produced an HTTP status.
// Only the caller's own ctx makes a failure ReasonCanceled; a client-side
// timeout means the backend hung and is reported as ReasonTimeout.
func transportError(ctx context.Context, backend string, err error) error {
	perr := &glossa.ProviderError{Message: backend + " API call failed", Cause: err}

	switch {
	case ctx.Err() != nil:
		perr.Reason = glossa.ReasonCanceled
	case isTimeout(err):
		perr.Reason, perr.Retryable = glossa.ReasonTimeout, true
	case isUnreachable(err):
		perr.Reason, perr.Retryable = glossa.ReasonUnreachable, true
	default:
		perr.Reason, perr.Retryable = glossa.ReasonBackend, isRetryableError(err)
	}
	return perr
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
