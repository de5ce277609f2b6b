package provider

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const defaultChatTemperature = 0.2

// OpenAIClient calls the OpenAI Chat Completions API.
type OpenAIClient struct {
	model  openai.ChatModel
	client *openai.Client
}

// NewOpenAI builds a client with defaults against api.openai.com. An empty
// API key leaves the client unconfigured; calls then fail with ErrMissingKey.
func NewOpenAI(apiKey string, model openai.ChatModel) *OpenAIClient {
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	c := &OpenAIClient{model: model}
	if apiKey != "" {
		cli := openai.NewClient(option.WithAPIKey(apiKey))
		c.client = &cli
	}
	return c
}

func (c *OpenAIClient) Name() string { return NameOpenAI }

func (c *OpenAIClient) Invoke(ctx context.Context, prompt string) (string, error) {
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

func userMessage(prompt string) []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: openai.String(prompt),
				},
			},
		},
	}
}
