package providers

import (
	"context"
	"sync/atomic"
	"time"
)

const MockName = "mock"

// Mock is a Provider for testing.
type Mock struct {
	// Configurable behavior
	Latency      time.Duration
	ResponseText string
	Err          error // returned on every call when set
	FailFirst    int   // fail the first N calls with Err, then succeed
	RPS          float64

	// ResponseFunc, when set, overrides ResponseText.
	ResponseFunc func(image []byte, prompt string) (string, error)

	calls atomic.Int64
}

// NewMock creates a mock provider with sensible defaults.
func NewMock() *Mock {
	return &Mock{
		ResponseText: "mock response",
		RPS:          1000,
	}
}

// Name returns the provider identifier.
func (m *Mock) Name() string {
	return MockName
}

// RequestsPerSecond returns the configured rate limit.
func (m *Mock) RequestsPerSecond() float64 {
	return m.RPS
}

// Calls returns the number of Recognize invocations so far.
func (m *Mock) Calls() int {
	return int(m.calls.Load())
}

// Recognize returns the configured response after the configured latency.
func (m *Mock) Recognize(ctx context.Context, image []byte, prompt string) (*Result, error) {
	start := time.Now()
	n := m.calls.Add(1)

	if m.Latency > 0 {
		select {
		case <-ctx.Done():
			return nil, classifyTransportErr(ctx.Err())
		case <-time.After(m.Latency):
		}
	}

	if m.Err != nil && (m.FailFirst == 0 || n <= int64(m.FailFirst)) {
		return nil, m.Err
	}

	text := m.ResponseText
	if m.ResponseFunc != nil {
		var err error
		text, err = m.ResponseFunc(image, prompt)
		if err != nil {
			return nil, err
		}
	}

	return &Result{
		Text:          text,
		Model:         MockName,
		ExecutionTime: time.Since(start),
	}, nil
}

// Verify interface
var _ Provider = (*Mock)(nil)
