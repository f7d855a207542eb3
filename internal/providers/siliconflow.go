package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	SiliconFlowName    = "siliconflow"
	SiliconFlowBaseURL = "https://api.siliconflow.cn/v1"
	SiliconFlowModel   = "PaddlePaddle/PaddleOCR-VL-1.5"
)

// SiliconFlowClient implements Provider against SiliconFlow's vision-OCR
// chat-completion endpoint.
type SiliconFlowClient struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	rateLimit   float64
	client      *http.Client
}

// NewSiliconFlowClient creates a SiliconFlow client from a resolved config.
func NewSiliconFlowClient(cfg Config) *SiliconFlowClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = SiliconFlowBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = SiliconFlowModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 4000
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 6.0
	}

	return &SiliconFlowClient{
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		rateLimit:   cfg.RateLimit,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Name returns the provider identifier.
func (c *SiliconFlowClient) Name() string {
	return SiliconFlowName
}

// RequestsPerSecond returns the rate limit.
func (c *SiliconFlowClient) RequestsPerSecond() float64 {
	return c.rateLimit
}

// Recognize extracts text from an image via a vision chat completion.
func (c *SiliconFlowClient) Recognize(ctx context.Context, image []byte, prompt string) (*Result, error) {
	start := time.Now()

	if prompt == "" {
		prompt = DefaultPrompt
	}

	reqBody := siliconFlowRequest{
		Model: c.model,
		Messages: []siliconFlowMessage{
			{
				Role: "user",
				Content: []siliconFlowContent{
					{Type: "text", Text: prompt},
					{
						Type:     "image_url",
						ImageURL: &siliconFlowImageURL{URL: dataURL(image)},
					},
				},
			},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	resp, err := c.doRequest(ctx, "/chat/completions", reqBody)
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, &APIError{Provider: SiliconFlowName, StatusCode: http.StatusOK, Body: "no response choices from model"}
	}

	return &Result{
		Text:          resp.Choices[0].Message.Content,
		Model:         resp.Model,
		ExecutionTime: time.Since(start),
	}, nil
}

// doRequest issues one JSON POST and decodes the completion response.
func (c *SiliconFlowClient) doRequest(ctx context.Context, path string, body any) (*siliconFlowResponse, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyTransportErr(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Provider: SiliconFlowName, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var sfResp siliconFlowResponse
	if err := json.Unmarshal(respBody, &sfResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &sfResp, nil
}

// SiliconFlow API types

type siliconFlowRequest struct {
	Model       string               `json:"model"`
	Messages    []siliconFlowMessage `json:"messages"`
	Temperature float64              `json:"temperature,omitempty"`
	MaxTokens   int                  `json:"max_tokens,omitempty"`
}

type siliconFlowMessage struct {
	Role    string               `json:"role"`
	Content []siliconFlowContent `json:"content"`
}

type siliconFlowContent struct {
	Type     string               `json:"type"` // "text" or "image_url"
	Text     string               `json:"text,omitempty"`
	ImageURL *siliconFlowImageURL `json:"image_url,omitempty"`
}

type siliconFlowImageURL struct {
	URL string `json:"url"`
}

type siliconFlowResponse struct {
	Model   string              `json:"model"`
	Choices []siliconFlowChoice `json:"choices"`
	Usage   *siliconFlowUsage   `json:"usage,omitempty"`
}

type siliconFlowChoice struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason,omitempty"`
}

type siliconFlowUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Verify interface
var _ Provider = (*SiliconFlowClient)(nil)
