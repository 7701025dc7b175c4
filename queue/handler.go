package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ZaguanLabs/glossa"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Request is a translation job read from the request queue.
type Request struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Response is published to the result queue for every well-formed request.
// On failure TranslatedText is empty and Reason tags the cause.
type Response struct {
	ID             string   `json:"id"`
	TranslatedText string   `json:"translated_text,omitempty"`
	Terms          []string `json:"terms"`
	Cached         bool     `json:"cached,omitempty"`
	Error          string   `json:"error,omitempty"`
	Reason         string   `json:"reason,omitempty"`
}

// Translator is the part of *glossa.Translator the handler needs.
type Translator interface {
	Translate(ctx context.Context, text string) (*glossa.Result, error)
}

// Publisher sends a message body to a queue.
type Publisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
}

// Handler translates queued requests and publishes the results.
type Handler struct {
	translator  Translator
	publisher   Publisher
	resultQueue string
	logger      *slog.Logger
	mu          sync.Mutex // serializes Publish
}

// NewHandler creates a Handler. A nil logger discards logs.
func NewHandler(t Translator, p Publisher, resultQueue string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		translator:  t,
		publisher:   p,
		resultQueue: resultQueue,
		logger:      logger,
	}
}

// MalformedError reports a message body that is not a valid Request.
type MalformedError struct {
	Cause error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed request: %v", e.Cause)
}

func (e *MalformedError) Unwrap() error {
	return e.Cause
}

// Handle processes one message body. Translation failures are published as
// error responses and do not make Handle fail; a malformed body or a failed
// publish does.
func (h *Handler) Handle(ctx context.Context, body []byte) error {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return &MalformedError{Cause: err}
	}

	resp := Response{ID: req.ID, Terms: []string{}}

	result, err := h.translator.Translate(ctx, req.Text)
	if err != nil {
		reason := glossa.ReasonOf(err)
		h.logger.Warn("translation failed", "id", req.ID, "reason", string(reason), "error", err)
		resp.Error = err.Error()
		resp.Reason = string(reason)
	} else {
		resp.TranslatedText = result.Text
		resp.Cached = result.Cached
		if terms := result.Entries.Terms(); terms != nil {
			resp.Terms = terms
		}
		h.logger.Info("translated", "id", req.ID, "terms", len(resp.Terms), "cached", resp.Cached)
	}

	out, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.publisher.Publish(ctx, h.resultQueue, out)
}

// Run handles deliveries with the given number of workers until ctx is done
// or the channel closes. Translation failures are acked once their error
// result is published. Malformed messages are rejected; publish failures
// are requeued.
func (h *Handler) Run(ctx context.Context, deliveries <-chan amqp.Delivery, workers int) {
	if workers <= 0 {
		workers = 1
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case d, ok := <-deliveries:
					if !ok {
						return
					}
					h.settle(ctx, d)
				}
			}
		}()
	}
	wg.Wait()
}

func (h *Handler) settle(ctx context.Context, d amqp.Delivery) {
	err := h.Handle(ctx, d.Body)
	if err == nil {
		if ackErr := d.Ack(false); ackErr != nil {
			h.logger.Error("ack failed", "error", ackErr)
		}
		return
	}

	var malformed *MalformedError
	requeue := !errors.As(err, &malformed)
	h.logger.Error("message not handled", "requeue", requeue, "error", err)
	if nackErr := d.Nack(false, requeue); nackErr != nil {
		h.logger.Error("nack failed", "error", nackErr)
	}
}
