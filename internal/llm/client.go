// Package llm wraps the OpenAI-compatible chat completions API behind the
// small surface the rest of xa consumes: full-text completion, streaming
// completion, multi-turn chat, and model listing.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/execanything/xa/internal/config"
	openai "github.com/sashabaranov/go-openai"
	"github.com/samber/lo"
)

const (
	RoleUser      = openai.ChatMessageRoleUser
	RoleAssistant = openai.ChatMessageRoleAssistant
)

// Message is one turn of a conversation.
type Message struct {
	Role    string
	Content string
}

// Client talks to a single OpenAI-compatible endpoint with a fixed model.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient builds a client from the loaded configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		api:   newAPIClient(cfg.BaseURL, cfg.APIKey),
		model: cfg.Model(),
	}
}

func newAPIClient(baseURL string, apiKey string) *openai.Client {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(clientConfig)
}

// Complete sends a single user message and returns the full response text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.Chat(ctx, []Message{{Role: RoleUser, Content: prompt}}, nil)
}

// Stream sends a single user message, delivering each response fragment to
// onDelta as it arrives, and returns the accumulated text.
func (c *Client) Stream(ctx context.Context, prompt string, onDelta func(string)) (string, error) {
	return c.Chat(ctx, []Message{{Role: RoleUser, Content: prompt}}, onDelta)
}

// Chat sends a multi-turn conversation. When onDelta is non-nil the response
// is streamed and each fragment is passed to the callback; the accumulated
// full text is returned either way.
func (c *Client) Chat(ctx context.Context, messages []Message, onDelta func(string)) (string, error) {
	request := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: lo.Map(messages, func(m Message, _ int) openai.ChatCompletionMessage {
			return openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
		}),
	}

	if onDelta == nil {
		response, err := c.api.CreateChatCompletion(ctx, request)
		if err != nil {
			return "", wrapAPIError(err)
		}
		if len(response.Choices) == 0 {
			return "", nil
		}
		return response.Choices[0].Message.Content, nil
	}

	stream, err := c.api.CreateChatCompletionStream(ctx, request)
	if err != nil {
		return "", wrapAPIError(err)
	}
	defer stream.Close()

	var full strings.Builder
	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return "", wrapAPIError(recvErr)
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		onDelta(delta)
	}

	return full.String(), nil
}

// ListModels fetches the model ids available at an endpoint. Used by the
// setup flow to validate the endpoint and key before saving them.
func ListModels(ctx context.Context, baseURL string, apiKey string) ([]string, error) {
	api := newAPIClient(baseURL, apiKey)
	list, err := api.ListModels(ctx)
	if err != nil {
		return nil, wrapAPIError(err)
	}
	return lo.Map(list.Models, func(m openai.Model, _ int) string {
		return m.ID
	}), nil
}

// wrapAPIError turns a client error into a single descriptive error, keeping
// the server's error body where the API returned one.
func wrapAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("API request failed with status %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}
	return fmt.Errorf("API request failed: %w", err)
}
