package provider

import (
	"cmp"
	"context"
	"errors"

	"github.com/ZaguanLabs/glossa"
	"github.com/sashabaranov/go-openai"
)

// OpenAIBackend talks to the OpenAI chat completions API or any server
// that speaks it.
type OpenAIBackend struct {
	client      *openai.Client
	model       string
	temperature float32
}

// DefaultOpenAIModel is used when neither the config nor the request names
// a model.
const DefaultOpenAIModel = "gpt-4o-mini"

type OpenAIConfig struct {
	APIKey      string
	Model       string  // DefaultOpenAIModel when empty
	Temperature float32 // 0.3 when zero
	BaseURL     string  // For OpenAI-compatible servers
}

func NewOpenAIBackend(cfg OpenAIConfig) *OpenAIBackend {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	b := &OpenAIBackend{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cmp.Or(cfg.Model, DefaultOpenAIModel),
		temperature: cfg.Temperature,
	}
	if b.temperature == 0 {
		b.temperature = 0.3
	}
	return b
}

// Generate sends the prompt as a single user message.
func (p *OpenAIBackend) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: cmp.Or(req.Model, p.model),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: p.temperature,
	}
	if req.Format == glossa.FormatJSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", classifyOpenAIError(ctx, err)
	}

	if len(resp.Choices) == 0 {
		return "", &glossa.ProviderError{
			Message:   "no response from OpenAI",
			Reason:    glossa.ReasonEmptyResponse,
			Retryable: true,
		}
	}

	return resp.Choices[0].Message.Content, nil
}

// ListModels returns the model IDs visible to the API key.
func (p *OpenAIBackend) ListModels(ctx context.Context) ([]string, error) {
	list, err := p.client.ListModels(ctx)
	if err != nil {
		return nil, classifyOpenAIError(ctx, err)
	}
	names := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		names = append(names, m.ID)
	}
	return names, nil
}

// classifyOpenAIError maps go-openai errors onto glossa failure reasons.
// Errors without an HTTP status are transport failures.
func classifyOpenAIError(ctx context.Context, err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	default:
		return transportError(ctx, "OpenAI", err)
	}

	reason, retryable := classifyStatus(status)
	return &glossa.ProviderError{Message: "OpenAI API call failed", Cause: err, Reason: reason, Retryable: retryable}
}

var _ Backend = (*OpenAIBackend)(nil)
