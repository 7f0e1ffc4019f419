// Package llm provides a thin chat-completion client over the OpenAI-compatible
// API surface, covering the text and vision calls the service depends on.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Request describes a single completion call. Images carry data URIs and
// switch the call to multi-part vision content. JSON requests the provider's
// JSON response format so structured output parses reliably.
type Request struct {
	Instructions string
	Prompt       string
	Images       []string
	JSON         bool
}

// Client executes completion requests against a model provider.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

type client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

// New creates a Client from the given configuration.
// Returns ErrMissingToken when no API token is configured.
func New(cfg *Config) (Client, error) {
	if cfg.Token() == "" {
		return nil, ErrMissingToken
	}

	apiConfig := openai.DefaultConfig(cfg.Token())
	if cfg.BaseURL != "" {
		apiConfig.BaseURL = cfg.BaseURL
	}

	return &client{
		api:     openai.NewClientWithConfig(apiConfig),
		model:   cfg.Model,
		timeout: cfg.RequestTimeoutDuration(),
	}, nil
}

func (c *client) Complete(ctx context.Context, req Request) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := []openai.ChatCompletionMessage{}
	if req.Instructions != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.Instructions,
		})
	}
	messages = append(messages, userMessage(req))

	completion := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	}
	if req.JSON {
		completion.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.api.CreateChatCompletion(ctx, completion)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	return resp.Choices[0].Message.Content, nil
}

func userMessage(req Request) openai.ChatCompletionMessage {
	if len(req.Images) == 0 {
		return openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: req.Prompt,
		}
	}

	parts := []openai.ChatMessagePart{{
		Type: openai.ChatMessagePartTypeText,
		Text: req.Prompt,
	}}
	for _, uri := range req.Images {
		parts = append(parts, openai.ChatMessagePart{
			Type:     openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{URL: uri},
		})
	}

	return openai.ChatCompletionMessage{
		Role:         openai.ChatMessageRoleUser,
		MultiContent: parts,
	}
}
