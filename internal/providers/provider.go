// Package providers implements the OCR provider clients and their registry.
//
// Every provider is modeled the same way: send one page image plus a textual
// instruction prompt, receive extracted text. The wire encodings differ per
// provider and stay hidden behind the Provider interface, so the pipeline
// never changes when a provider is added.
package providers

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Provider is the uniform interface to a remote OCR service.
type Provider interface {
	// Name returns the provider identifier (e.g. "siliconflow").
	Name() string

	// Recognize extracts text from a single page image.
	Recognize(ctx context.Context, image []byte, prompt string) (*Result, error)

	// RequestsPerSecond returns the provider's rate limit.
	RequestsPerSecond() float64
}

// Result is a successful recognition response.
type Result struct {
	Text          string
	Model         string
	ExecutionTime time.Duration
}

// Config is the resolved provider tuple for one invocation.
// Built once by the configuration layer and read-only afterwards, so it is
// safe to share across concurrent workers.
type Config struct {
	ID          string
	Type        string
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration // 0 = unbounded
	MaxRetries  int           // extra attempts after the first
	RateLimit   float64       // requests per second
	Temperature float64
	MaxTokens   int
}

// DefaultPrompt is the OCR instruction used when the caller supplies none.
const DefaultPrompt = "Extract all text content from this document, including tables, " +
	"headings and body text, and output it as Markdown preserving the original " +
	"structure and formatting."

// ErrUnknownProvider indicates a provider identifier outside the registered set.
var ErrUnknownProvider = errors.New("unknown provider")

// ErrTimeout indicates a request that exceeded the configured timeout.
var ErrTimeout = errors.New("request timed out")

// APIError is a non-2xx or malformed response from a provider.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// dataURL encodes an image as a base64 data URL with a sniffed MIME type.
func dataURL(image []byte) string {
	return "data:" + sniffMIME(image) + ";base64," + base64.StdEncoding.EncodeToString(image)
}

// sniffMIME detects the image MIME type from magic bytes.
// TIFF is checked explicitly since net/http's sniffer does not cover it.
func sniffMIME(image []byte) string {
	if bytes.HasPrefix(image, []byte("II*\x00")) || bytes.HasPrefix(image, []byte("MM\x00*")) {
		return "image/tiff"
	}
	ct := http.DetectContentType(image)
	if ct == "application/octet-stream" {
		return "image/png"
	}
	return ct
}

// classifyTransportErr maps context deadline and network timeout failures
// to ErrTimeout so callers can report the right error kind.
func classifyTransportErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return err
}
