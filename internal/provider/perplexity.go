package provider

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const perplexityBaseURL = "https://api.perplexity.ai"

// PerplexityClient calls the Perplexity API, which speaks the
// chat-completions wire shape against its own base URL.
type PerplexityClient struct {
	model  openai.ChatModel
	client *openai.Client
}

func NewPerplexity(apiKey string, model string) *PerplexityClient {
	if model == "" {
		model = "sonar"
	}
	c := &PerplexityClient{model: openai.ChatModel(model)}
	if apiKey != "" {
		cli := openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(perplexityBaseURL),
		)
		c.client = &cli
	}
	return c
}

func (c *PerplexityClient) Name() string { return NamePerplexity }

func (c *PerplexityClient) Invoke(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", ErrMissingKey
	}
	reqCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	resp, err := c.client.Chat.Completions.New(reqCtx, openai.ChatCompletionNewParams{
		Model:       c.model,
		Messages:    userMessage(prompt),
		Temperature: openai.Float(defaultChatTemperature),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
