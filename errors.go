package glossa

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// FailureReason tags why a translation attempt failed so callers can tell,
// for example, an unreachable backend apart from a response without a
// translation field.
type FailureReason string

const (
	ReasonNone              FailureReason = ""
	ReasonUnreachable       FailureReason = "unreachable"
	ReasonTimeout           FailureReason = "timeout"
	ReasonAuth              FailureReason = "auth"
	ReasonRateLimited       FailureReason = "rate_limited"
	ReasonBackend           FailureReason = "backend"
	ReasonEmptyResponse     FailureReason = "empty_response"
	ReasonMalformedResponse FailureReason = "malformed_response"
	ReasonMissingField      FailureReason = "missing_field"
	ReasonCircuitOpen       FailureReason = "circuit_open"
	ReasonCanceled          FailureReason = "canceled"
)

// ErrMissingField is matched by errors.Is for responses that parsed but had
// no translation field.
var ErrMissingField = errors.New("translation field missing from response")

// TranslationError is the base error type for translation failures.
type TranslationError struct {
	Message string
	Cause   error
}

func (e *TranslationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// ProviderError indicates a backend failure (network, auth, rate limit, etc.).
type ProviderError struct {
	Message    string
	Cause      error
	Reason     FailureReason
	Retryable  bool          // Whether the operation can be retried
	RetryAfter time.Duration // Server-requested wait before retrying, if any
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// ResponseError indicates the backend answered but the payload could not be
// turned into a translation.
type ResponseError struct {
	Message string
	Reason  FailureReason
	Content string // Raw content, abbreviated
}

func (e *ResponseError) Error() string {
	if e.Content != "" {
		return fmt.Sprintf("response error: %s; content: %s", e.Message, e.Content)
	}
	return fmt.Sprintf("response error: %s", e.Message)
}

func (e *ResponseError) Is(target error) bool {
	return target == ErrMissingField && e.Reason == ReasonMissingField
}

// TemplateError indicates a prompt template could not be loaded or is
// missing required placeholders.
type TemplateError struct {
	Message string
	Cause   error
	Missing []string // Placeholders absent from the template
}

func (e *TemplateError) Error() string {
	msg := "template error: " + e.Message
	if len(e.Missing) > 0 {
		msg += " (missing " + strings.Join(e.Missing, ", ") + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// GlossaryError indicates a glossary source could not be read or parsed.
type GlossaryError struct {
	Message string
	Cause   error
	Path    string
}

func (e *GlossaryError) Error() string {
	msg := "glossary error: " + e.Message
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *GlossaryError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// ProcessorError indicates input extraction failed (parse error, etc.).
type ProcessorError struct {
	Message     string
	Cause       error
	ContentType string // The type of content that failed to process
}

func (e *ProcessorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("processor error (%s): %s: %v", e.ContentType, e.Message, e.Cause)
	}
	return fmt.Sprintf("processor error (%s): %s", e.ContentType, e.Message)
}

func (e *ProcessorError) Unwrap() error {
	return e.Cause
}

// ReasonOf returns the failure reason carried by err, if any.
func ReasonOf(err error) FailureReason {
	if err == nil {
		return ReasonNone
	}

	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr.Reason
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		if providerErr.Reason != ReasonNone {
			return providerErr.Reason
		}
		return ReasonBackend
	}

	if isContextError(err) {
		return ReasonCanceled
	}

	return ReasonNone
}
