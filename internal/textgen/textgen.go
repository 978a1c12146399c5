// Package textgen wraps an OpenAI-compatible chat completion API.
package textgen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

var (
	// ErrUnavailable means the API call failed.
	ErrUnavailable = errors.New("textgen: upstream unavailable")
	// ErrEmpty means the API answered without any text.
	ErrEmpty = errors.New("textgen: empty completion")
)

// Options are the sampling parameters of one request.
type Options struct {
	MaxTokens   int
	Temperature float32
}

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// Client calls the chat completions endpoint with a single user message.
type Client struct {
	api   *openai.Client
	model string
}

func NewClient(apiKey, baseURL, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model}
}

func (c *Client) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmpty
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}
