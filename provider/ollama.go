package provider

import (
	"context"
	"strings"
	"time"

	"github.com/ZaguanLabs/glossa"
	"github.com/go-resty/resty/v2"
)

const (
	// DefaultOllamaURL is the local Ollama endpoint.
	DefaultOllamaURL = "http://localhost:11434"

	// DefaultOllamaModel is the model used when none is configured.
	DefaultOllamaModel = "gemma3"
)

// OllamaBackend implements Backend using Ollama's chat API.
type OllamaBackend struct {
	http    *resty.Client
	pull    *resty.Client // no timeout; model downloads are slow
	baseURL string
	model   string
}

// OllamaConfig holds configuration for the Ollama backend.
type OllamaConfig struct {
	BaseURL string        // Ollama server (default: http://localhost:11434)
	Model   string        // Model to use (default: "gemma3")
	Timeout time.Duration // Per-request timeout (default: 2m)
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   string          `json:"format,omitempty"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Error   string        `json:"error,omitempty"`
}

// NewOllamaBackend creates a new Ollama backend.
func NewOllamaBackend(cfg OllamaConfig) *OllamaBackend {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultOllamaURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOllamaModel
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 2 * time.Minute
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", glossa.UserAgent())

	return &OllamaBackend{
		http:    client,
		pull:    resty.New().SetHeader("User-Agent", glossa.UserAgent()),
		baseURL: strings.TrimRight(base, "/"),
		model:   model,
	}
}

// Generate sends the prompt as a single user message with streaming off.
func (p *OllamaBackend) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	body := ollamaChatRequest{
		Model:    model,
		Messages: []ollamaMessage{{Role: "user", Content: req.Prompt}},
		Stream:   false,
		Format:   req.Format,
	}

	var resp ollamaChatResponse
	r, err := p.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&resp).
		SetError(&resp).
		Post(p.baseURL + "/api/chat")
	if err != nil {
		return "", transportError(ctx, "Ollama", err)
	}
	if r.IsError() {
		reason, retryable := classifyStatus(r.StatusCode())
		msg := "Ollama API returned " + r.Status()
		if resp.Error != "" {
			msg += ": " + resp.Error
		}
		return "", &glossa.ProviderError{
			Message:    msg,
			Reason:     reason,
			Retryable:  retryable,
			RetryAfter: retryAfter(r.Header()),
		}
	}

	return resp.Message.Content, nil
}

// ListModels returns the names of the locally available models.
func (p *OllamaBackend) ListModels(ctx context.Context) ([]string, error) {
	var resp struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}

	r, err := p.http.R().SetContext(ctx).SetResult(&resp).Get(p.baseURL + "/api/tags")
	if err != nil {
		return nil, transportError(ctx, "Ollama", err)
	}
	if r.IsError() {
		reason, retryable := classifyStatus(r.StatusCode())
		return nil, &glossa.ProviderError{
			Message:   "Ollama list models: " + r.Status(),
			Reason:    reason,
			Retryable: retryable,
		}
	}

	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// EnsureModel pulls the configured model unless it is already available.
// It reports whether a pull was needed. The pull is bounded by ctx only.
func (p *OllamaBackend) EnsureModel(ctx context.Context) (bool, error) {
	names, err := p.ListModels(ctx)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if name == p.model || name == p.model+":latest" {
			return false, nil
		}
	}

	var resp struct {
		Status string `json:"status"`
		Error  string `json:"error,omitempty"`
	}
	r, err := p.pull.R().
		SetContext(ctx).
		SetBody(map[string]any{"name": p.model, "stream": false}).
		SetResult(&resp).
		SetError(&resp).
		Post(p.baseURL + "/api/pull")
	if err != nil {
		return false, transportError(ctx, "Ollama", err)
	}
	if r.IsError() || resp.Error != "" {
		reason, retryable := classifyStatus(r.StatusCode())
		return false, &glossa.ProviderError{
			Message:   "Ollama pull " + p.model + " failed: " + r.Status() + " " + resp.Error,
			Reason:    reason,
			Retryable: retryable,
		}
	}
	return true, nil
}

// Model returns the default model name.
func (p *OllamaBackend) Model() string {
	return p.model
}

// Verify OllamaBackend implements Backend
var _ Backend = (*OllamaBackend)(nil)
