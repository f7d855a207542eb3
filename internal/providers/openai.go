package providers

import (
	"context"
	"errors"
	"net/http"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	OpenAIName    = "openai"
	OpenAIModel   = "gpt-4o"
	OpenAIBaseURL = "https://api.openai.com/v1"
)

// OpenAIClient implements Provider using the official OpenAI SDK.
// A custom base URL points it at any OpenAI-compatible endpoint.
type OpenAIClient struct {
	model       string
	temperature float64
	maxTokens   int
	rateLimit   float64
	client      openai.Client
}

// NewOpenAIClient creates an OpenAI-compatible client from a resolved config.
func NewOpenAIClient(cfg Config) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = OpenAIModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 4000
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 10.0
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		// Retry policy lives in the page processor, not the transport.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		rateLimit:   cfg.RateLimit,
		client:      openai.NewClient(opts...),
	}
}

// Name returns the provider identifier.
func (c *OpenAIClient) Name() string {
	return OpenAIName
}

// RequestsPerSecond returns the rate limit.
func (c *OpenAIClient) RequestsPerSecond() float64 {
	return c.rateLimit
}

// Recognize extracts text from an image via a vision chat completion.
func (c *OpenAIClient) Recognize(ctx context.Context, image []byte, prompt string) (*Result, error) {
	start := time.Now()

	if prompt == "" {
		prompt = DefaultPrompt
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(prompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: dataURL(image),
				}),
			}),
		},
		Temperature: openai.Float(c.temperature),
		MaxTokens:   openai.Int(int64(c.maxTokens)),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, mapOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &APIError{Provider: OpenAIName, StatusCode: http.StatusOK, Body: "no response choices from model"}
	}

	return &Result{
		Text:          resp.Choices[0].Message.Content,
		Model:         resp.Model,
		ExecutionTime: time.Since(start),
	}, nil
}

// mapOpenAIError converts SDK errors to the package's error kinds.
func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		body := apiErr.Message
		if body == "" {
			body = apiErr.Error()
		}
		return &APIError{Provider: OpenAIName, StatusCode: apiErr.StatusCode, Body: body}
	}
	return classifyTransportErr(err)
}

// Verify interface
var _ Provider = (*OpenAIClient)(nil)
