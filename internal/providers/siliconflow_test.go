package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSiliconFlowClient_Recognize(t *testing.T) {
	t.Run("successful recognition", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/chat/completions" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if r.Method != "POST" {
				t.Errorf("unexpected method: %s", r.Method)
			}
			if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
				t.Errorf("unexpected authorization: %s", auth)
			}

			var req siliconFlowRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("failed to decode request: %v", err)
			}
			if req.Model != "PaddlePaddle/PaddleOCR-VL-1.5" {
				t.Errorf("unexpected model: %s", req.Model)
			}
			if len(req.Messages) != 1 || len(req.Messages[0].Content) != 2 {
				t.Fatalf("expected one message with text+image parts")
			}
			if req.Messages[0].Content[0].Text != "custom prompt" {
				t.Errorf("unexpected prompt: %q", req.Messages[0].Content[0].Text)
			}
			if !strings.HasPrefix(req.Messages[0].Content[1].ImageURL.URL, "data:") {
				t.Errorf("image should be sent as a data URL")
			}

			resp := siliconFlowResponse{Model: req.Model}
			resp.Choices = []siliconFlowChoice{{}}
			resp.Choices[0].Message.Content = "# Heading\n\nExtracted text."
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		client := NewSiliconFlowClient(Config{APIKey: "test-key", BaseURL: server.URL})

		result, err := client.Recognize(context.Background(), []byte("fake image"), "custom prompt")
		if err != nil {
			t.Fatalf("Recognize() error = %v", err)
		}
		if result.Text != "# Heading\n\nExtracted text." {
			t.Errorf("unexpected text: %q", result.Text)
		}
		if result.ExecutionTime == 0 {
			t.Error("expected non-zero ExecutionTime")
		}
	})

	t.Run("default prompt when none supplied", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req siliconFlowRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.Messages[0].Content[0].Text != DefaultPrompt {
				t.Errorf("expected default prompt, got %q", req.Messages[0].Content[0].Text)
			}
			resp := siliconFlowResponse{Choices: []siliconFlowChoice{{}}}
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		client := NewSiliconFlowClient(Config{APIKey: "k", BaseURL: server.URL})
		if _, err := client.Recognize(context.Background(), []byte("img"), ""); err != nil {
			t.Fatalf("Recognize() error = %v", err)
		}
	})

	t.Run("non-2xx response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"message":"rate limited"}`))
		}))
		defer server.Close()

		client := NewSiliconFlowClient(Config{APIKey: "k", BaseURL: server.URL})
		_, err := client.Recognize(context.Background(), []byte("img"), "")

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.StatusCode != http.StatusTooManyRequests {
			t.Errorf("StatusCode = %d, want 429", apiErr.StatusCode)
		}
		if !strings.Contains(apiErr.Body, "rate limited") {
			t.Errorf("Body should carry the response body, got %q", apiErr.Body)
		}
	})

	t.Run("empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(siliconFlowResponse{})
		}))
		defer server.Close()

		client := NewSiliconFlowClient(Config{APIKey: "k", BaseURL: server.URL})
		_, err := client.Recognize(context.Background(), []byte("img"), "")

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
	})

	t.Run("timeout maps to ErrTimeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		client := NewSiliconFlowClient(Config{
			APIKey:  "k",
			BaseURL: server.URL,
			Timeout: 20 * time.Millisecond,
		})
		_, err := client.Recognize(context.Background(), []byte("img"), "")
		if !errors.Is(err, ErrTimeout) {
			t.Fatalf("expected ErrTimeout, got %v", err)
		}
	})

	t.Run("context deadline maps to ErrTimeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		client := NewSiliconFlowClient(Config{APIKey: "k", BaseURL: server.URL})

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := client.Recognize(ctx, []byte("img"), "")
		if !errors.Is(err, ErrTimeout) {
			t.Fatalf("expected ErrTimeout, got %v", err)
		}
	})
}
