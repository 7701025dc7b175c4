package provider

import (
	"context"
	"errors"
	"sync"

	"github.com/ZaguanLabs/glossa"
	"google.golang.org/genai"
)

// DefaultGeminiModel is the model used when none is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiBackend implements Backend using the Gemini API.
type GeminiBackend struct {
	cfg    GeminiConfig
	once   sync.Once
	client *genai.Client
	err    error
}

// GeminiConfig holds configuration for the Gemini backend.
type GeminiConfig struct {
	APIKey  string // Gemini API key
	Model   string // Model to use (default: "gemini-2.0-flash")
	BaseURL string // Custom base URL (optional)
}

// NewGeminiBackend creates a new Gemini backend. The client is created on
// first use.
func NewGeminiBackend(cfg GeminiConfig) *GeminiBackend {
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	return &GeminiBackend{cfg: cfg}
}

func (p *GeminiBackend) getClient(ctx context.Context) (*genai.Client, error) {
	p.once.Do(func() {
		cc := &genai.ClientConfig{
			APIKey:  p.cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		}
		if p.cfg.BaseURL != "" {
			cc.HTTPOptions = genai.HTTPOptions{BaseURL: p.cfg.BaseURL}
		}
		p.client, p.err = genai.NewClient(ctx, cc)
	})
	return p.client, p.err
}

// Generate sends the prompt as a single user turn.
func (p *GeminiBackend) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	client, err := p.getClient(ctx)
	if err != nil {
		return "", &glossa.ProviderError{Message: "Gemini client setup failed", Cause: err, Reason: glossa.ReasonAuth}
	}

	model := req.Model
	if model == "" {
		model = p.cfg.Model
	}

	var config *genai.GenerateContentConfig
	if req.Format == glossa.FormatJSON {
		config = &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", classifyGeminiError(ctx, err)
	}

	text := resp.Text()
	if text == "" {
		return "", &glossa.ProviderError{
			Message:   "no response from Gemini",
			Reason:    glossa.ReasonEmptyResponse,
			Retryable: true,
		}
	}
	return text, nil
}

func classifyGeminiError(ctx context.Context, err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return transportError(ctx, "Gemini", err)
	}

	reason, retryable := classifyStatus(apiErr.Code)
	return &glossa.ProviderError{
		Message:   "Gemini API call failed",
		Cause:     err,
		Reason:    reason,
		Retryable: retryable,
	}
}

// Verify GeminiBackend implements Backend
var _ Backend = (*GeminiBackend)(nil)
