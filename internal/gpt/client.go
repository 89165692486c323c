// Package gpt provides a client for the OpenAI chat completions API.
package gpt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// Available models
const (
	ModelGPT35Turbo = "gpt-3.5-turbo"
	ModelGPT4o      = "gpt-4o"
	ModelGPT4oMini  = "gpt-4o-mini"
)

// Client wraps the OpenAI SDK.
type Client struct {
	client *openai.Client
	model  string
}

// Config holds the configuration for the OpenAI client.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewClient creates a new chat client.
func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = ModelGPT35Turbo
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
	}
}

// ChatRequest represents a chat completion request.
type ChatRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
	MaxTokens    int
	JSONMode     bool
}

// ChatResponse represents a chat completion response.
type ChatResponse struct {
	Content      string
	FinishReason string
	TokensUsed   TokenUsage
}

// TokenUsage represents token usage statistics.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Chat sends a chat completion request.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	messages := []openai.ChatCompletionMessage{}

	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.UserPrompt,
	})

	chatReq := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
	}

	if req.MaxTokens > 0 {
		chatReq.MaxTokens = req.MaxTokens
	}

	if req.JSONMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	log.Debug().
		Str("model", c.model).
		Int("messages", len(messages)).
		Bool("json_mode", req.JSONMode).
		Msg("Sending chat request")

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	return &ChatResponse{
		Content:      resp.Choices[0].Message.Content,
		FinishReason: string(resp.Choices[0].FinishReason),
		TokensUsed: TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// ChatJSON sends a chat request and parses the response as JSON.
func (c *Client) ChatJSON(ctx context.Context, req ChatRequest, result interface{}) error {
	req.JSONMode = true

	resp, err := c.Chat(ctx, req)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(resp.Content), result); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return nil
}
