package provider

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient calls the Gemini content-generation API.
type GeminiClient struct {
	model  string
	client *genai.Client
}

// NewGemini connects to the Gemini API backend. An empty API key leaves the
// client unconfigured so calls fail with ErrMissingKey instead of falling
// back to ambient credentials.
func NewGemini(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	c := &GeminiClient{model: model}
	if apiKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, err
		}
		c.client = client
	}
	return c, nil
}

func (c *GeminiClient) Name() string { return NameGemini }

func (c *GeminiClient) Invoke(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", ErrMissingKey
	}
	reqCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	resp, err := c.client.Models.GenerateContent(reqCtx, c.model, contents, nil)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned")
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty candidate content")
	}
	return text, nil
}
