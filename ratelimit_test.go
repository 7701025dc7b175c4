package glossa

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeClock is advanced by hand.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Add(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(rpm, burst int) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewRateLimiter(RateLimitConfig{RequestsPerMinute: rpm, BurstSize: burst})
	l.now = clock.Now
	l.last = clock.Now()
	return l, clock
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	tests := []struct {
		name       string
		cfg        RateLimitConfig
		wantBurst  float64
		wantPerSec float64
	}{
		{"zero config", RateLimitConfig{}, 60, 1},
		{"burst follows rpm", RateLimitConfig{RequestsPerMinute: 120}, 120, 2},
		{"explicit burst", RateLimitConfig{RequestsPerMinute: 30, BurstSize: 2}, 2, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewRateLimiter(tt.cfg)
			if l.burst != tt.wantBurst || l.perSec != tt.wantPerSec {
				t.Errorf("burst=%v perSec=%v, want %v %v", l.burst, l.perSec, tt.wantBurst, tt.wantPerSec)
			}
			if l.Available() != tt.wantBurst {
				t.Errorf("bucket should start full, got %v", l.Available())
			}
		})
	}
}

func TestRateLimiter_TryAcquireAndRefill(t *testing.T) {
	l, clock := newTestLimiter(60, 3)

	for i := 0; i < 3; i++ {
		if !l.TryAcquire() {
			t.Fatalf("acquire %d should succeed", i)
		}
	}
	if l.TryAcquire() {
		t.Fatal("bucket should be empty")
	}

	clock.Add(500 * time.Millisecond)
	if l.TryAcquire() {
		t.Error("token should not be ready before one second")
	}

	clock.Add(500 * time.Millisecond)
	if !l.TryAcquire() {
		t.Error("token should be ready after one second")
	}

	clock.Add(time.Hour)
	if got := l.Available(); got != 3 {
		t.Errorf("Available() = %v, want bucket capped at 3", got)
	}
}

func TestRateLimiter_ReserveQueuesWaiters(t *testing.T) {
	l, _ := newTestLimiter(60, 1)

	want := []time.Duration{0, time.Second, 2 * time.Second, 3 * time.Second}
	for i, w := range want {
		if got := l.reserve(); got != w {
			t.Errorf("reserve %d = %v, want %v", i, got, w)
		}
	}
	if got := l.Available(); got != -3 {
		t.Errorf("Available() = %v, want -3", got)
	}

	l.release()
	if got := l.Available(); got != -2 {
		t.Errorf("Available() after release = %v, want -2", got)
	}
}

func TestRateLimiter_Wait(t *testing.T) {
	l := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 600, BurstSize: 1})
	l.TryAcquire()

	start := time.Now()
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Wait returned too quickly: %v", elapsed)
	}
}

func TestRateLimiter_WaitCancelledReturnsToken(t *testing.T) {
	l, _ := newTestLimiter(1, 1)
	l.TryAcquire()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait() = %v, want deadline exceeded", err)
	}
	if got := l.Available(); got != 0 {
		t.Errorf("cancelled reservation should be released, Available() = %v", got)
	}
}

func TestRateLimiter_WaitDoneContext(t *testing.T) {
	l, _ := newTestLimiter(60, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := l.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() = %v, want context.Canceled", err)
	}
	if got := l.Available(); got != 5 {
		t.Errorf("no token should be taken, Available() = %v", got)
	}
}

func TestRateLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(6000, 10)

	var wg sync.WaitGroup
	var acquired atomic.Int64
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.TryAcquire() {
				acquired.Add(1)
			}
		}()
	}
	wg.Wait()

	if acquired.Load() != 10 {
		t.Errorf("Expected 10 acquired, got %d", acquired.Load())
	}
}

// countingBackend counts calls and echoes a fixed response.
type countingBackend struct {
	calls atomic.Int32
}

func (b *countingBackend) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	b.calls.Add(1)
	return `{"translated_text": "ok"}`, nil
}

func TestRateLimitedBackend(t *testing.T) {
	inner := &countingBackend{}
	backend := NewRateLimitedBackend(inner, RateLimitConfig{RequestsPerMinute: 600, BurstSize: 2})
	ctx := context.Background()

	start := time.Now()
	for _, prompt := range []string{"a", "b"} {
		if _, err := backend.Generate(ctx, GenerateRequest{Prompt: prompt}); err != nil {
			t.Fatalf("Generate(%q) failed: %v", prompt, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("burst should not wait, took %v", elapsed)
	}

	start = time.Now()
	if _, err := backend.Generate(ctx, GenerateRequest{Prompt: "c"}); err != nil {
		t.Fatalf("third Generate failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Expected rate limit wait, but returned in %v", elapsed)
	}
	if inner.calls.Load() != 3 {
		t.Errorf("inner calls = %d, want 3", inner.calls.Load())
	}
}

func TestRateLimitedBackend_ContextCancelled(t *testing.T) {
	inner := &countingBackend{}
	backend := NewRateLimitedBackend(inner, RateLimitConfig{RequestsPerMinute: 1, BurstSize: 1})

	if _, err := backend.Generate(context.Background(), GenerateRequest{Prompt: "a"}); err != nil {
		t.Fatalf("first Generate failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := backend.Generate(ctx, GenerateRequest{Prompt: "b"})
	if ReasonOf(err) != ReasonCanceled {
		t.Errorf("Expected canceled reason, got %q (%v)", ReasonOf(err), err)
	}
	if IsRetryable(err) {
		t.Error("a cancelled wait must not be retried")
	}
	if inner.calls.Load() != 1 {
		t.Errorf("Inner backend should be called once, got %d", inner.calls.Load())
	}
	if backend.Limiter() == nil {
		t.Error("Limiter() should expose the underlying limiter")
	}
}
