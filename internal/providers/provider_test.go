package providers

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestSniffMIME(t *testing.T) {
	pngHeader := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	jpegHeader := []byte{0xFF, 0xD8, 0xFF, 0xE0}

	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{"png", pngHeader, "image/png"},
		{"jpeg", jpegHeader, "image/jpeg"},
		{"bmp", []byte("BM fake bitmap data"), "image/bmp"},
		{"tiff little endian", []byte("II*\x00rest"), "image/tiff"},
		{"tiff big endian", []byte("MM\x00*rest"), "image/tiff"},
		{"unknown falls back to png", []byte{0x00, 0x01, 0x02, 0x03}, "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sniffMIME(tt.data); got != tt.expected {
				t.Errorf("sniffMIME() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDataURL(t *testing.T) {
	url := dataURL([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A})
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("unexpected data URL prefix: %q", url[:30])
	}
}

func TestRateLimiterWait(t *testing.T) {
	limiter := NewRateLimiter(100)

	// Burst capacity should cover the first requests without blocking.
	start := time.Now()
	for i := 0; i < 10; i++ {
		if err := limiter.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("burst consumption took too long: %v", elapsed)
	}
}

func TestRateLimiterCancellation(t *testing.T) {
	limiter := NewRateLimiter(0.5)
	for limiter.TryConsume() {
		// drain
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err == nil {
		t.Fatal("expected context error from drained limiter")
	}
}

func TestRateLimiterConcurrent(t *testing.T) {
	limiter := NewRateLimiter(1000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			limiter.Wait(context.Background())
		}()
	}
	wg.Wait()
}
