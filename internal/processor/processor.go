// Package processor drives single page images through an OCR provider.
//
// The processor is the failure-isolation boundary of the pipeline: every
// provider error is converted into a failed PageResult here, so one page can
// never abort sibling pages or other documents in the batch.
package processor

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/docparse/docparse/internal/document"
	"github.com/docparse/docparse/internal/providers"
)

// ErrorKind classifies a page failure for reporting.
type ErrorKind string

const (
	ErrorKindTimeout  ErrorKind = "timeout"
	ErrorKindProvider ErrorKind = "provider"
	ErrorKindOther    ErrorKind = "other"
)

// PageResult is the outcome of OCR on one page unit. Never mutated after
// creation.
type PageResult struct {
	Index    int
	Text     string
	Err      error
	Kind     ErrorKind
	Attempts int
	Elapsed  time.Duration
}

// Failed reports whether the page could not be recognized.
func (r PageResult) Failed() bool {
	return r.Err != nil
}

// PageProcessor runs page units through a provider with rate limiting,
// per-request timeout, and a bounded-attempt retry policy.
type PageProcessor struct {
	provider   providers.Provider
	limiter    *providers.RateLimiter
	timeout    time.Duration
	attempts   int
	retryDelay time.Duration
	prompt     string
	logger     *slog.Logger
}

// New creates a PageProcessor for a provider.
// cfg.MaxRetries extra attempts are made after a retryable failure; zero or
// negative values preserve single-shot behavior. The prompt falls back to
// the provider default when empty.
func New(provider providers.Provider, cfg providers.Config, prompt string, logger *slog.Logger) *PageProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return &PageProcessor{
		provider:   provider,
		limiter:    providers.NewRateLimiter(provider.RequestsPerSecond()),
		timeout:    cfg.Timeout,
		attempts:   retries + 1,
		retryDelay: 2 * time.Second,
		prompt:     prompt,
		logger:     logger,
	}
}

// Process recognizes one page unit. Errors never propagate: the returned
// PageResult carries either the extracted text or a failure descriptor.
func (p *PageProcessor) Process(ctx context.Context, unit document.PageUnit) PageResult {
	start := time.Now()
	attempts := 0

	var result *providers.Result
	err := retry.Do(
		func() error {
			attempts++
			if err := p.limiter.Wait(ctx); err != nil {
				return err
			}

			reqCtx := ctx
			if p.timeout > 0 {
				var cancel context.CancelFunc
				reqCtx, cancel = context.WithTimeout(ctx, p.timeout)
				defer cancel()
			}

			var err error
			result, err = p.provider.Recognize(reqCtx, unit.Image, p.prompt)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(uint(p.attempts)),
		retry.Delay(p.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
	)

	if err != nil {
		p.logger.Warn("page recognition failed",
			"provider", p.provider.Name(),
			"document", unit.Doc.Path,
			"page", unit.Index,
			"attempts", attempts,
			"error", err)
		return PageResult{
			Index:    unit.Index,
			Err:      err,
			Kind:     classify(err),
			Attempts: attempts,
			Elapsed:  time.Since(start),
		}
	}

	p.logger.Debug("page recognized",
		"provider", p.provider.Name(),
		"document", unit.Doc.Path,
		"page", unit.Index,
		"chars", len(result.Text))

	return PageResult{
		Index:    unit.Index,
		Text:     result.Text,
		Attempts: attempts,
		Elapsed:  time.Since(start),
	}
}

// retryable reports whether a failure is worth another attempt.
// Client errors other than 408/429 are terminal.
func retryable(err error) bool {
	var apiErr *providers.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return apiErr.StatusCode == http.StatusRequestTimeout ||
				apiErr.StatusCode == http.StatusTooManyRequests
		}
		return true
	}
	if errors.Is(err, providers.ErrTimeout) {
		return true
	}
	// Context cancellation ends the run, not just this page.
	return !errors.Is(err, context.Canceled)
}

// classify maps an error to its reporting kind.
func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, providers.ErrTimeout):
		return ErrorKindTimeout
	default:
		var apiErr *providers.APIError
		if errors.As(err, &apiErr) {
			return ErrorKindProvider
		}
		return ErrorKindOther
	}
}
