package provider

import (
	"context"
	"strings"
	"sync"
)

// MockBackend is a mock backend for testing.
type MockBackend struct {
	mu          sync.Mutex
	Responses   map[string]string // Map of prompt substring to raw response
	Default     string            // Response when no substring matches
	Err         error             // Returned instead of a response when set
	CallCount   int               // Number of times Generate was called
	LastRequest *GenerateRequest  // Last request received
}

// NewMockBackend creates a new mock backend that answers with a JSON
// object echoing a fixed translation.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		Responses: map[string]string{},
		Default:   `{"translated_text": "mock translation"}`,
	}
}

// Generate returns the first response whose key appears in the prompt.
// Keys are checked in no particular order, so keep them disjoint.
func (m *MockBackend) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	m.LastRequest = &req

	if m.Err != nil {
		return "", m.Err
	}
	for key, resp := range m.Responses {
		if key != "" && strings.Contains(req.Prompt, key) {
			return resp, nil
		}
	}
	return m.Default, nil
}

// Calls returns the number of Generate calls so far.
func (m *MockBackend) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// Reset resets the call count and last request.
func (m *MockBackend) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount = 0
	m.LastRequest = nil
}

// Verify MockBackend implements Backend
var _ Backend = (*MockBackend)(nil)
