package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lmorales-dev/vestra-backend/pkg/config"
	"github.com/sashabaranov/go-openai"
)

// chatCompleter is the slice of the OpenAI-compatible client we depend on.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client invokes a hosted chat model and decodes structured JSON output.
type Client struct {
	api         chatCompleter
	model       string
	temperature float32
	timeout     time.Duration
}

// New builds a client for the configured hosted model endpoint.
func New(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm api key is required")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Client{
		api:         openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.RequestTimeout,
	}, nil
}

// GenerateObject sends the prompt with a JSON-object response format and
// unmarshals the reply into dest. Markdown fences around the payload are
// stripped before decoding; some models emit them regardless of the format
// instruction.
func (c *Client) GenerateObject(ctx context.Context, systemPrompt, userPrompt string, dest any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: c.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return fmt.Errorf("model request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("model returned no choices")
	}

	content := stripFences(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), dest); err != nil {
		return fmt.Errorf("decoding model output: %w", err)
	}
	return nil
}

func stripFences(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
