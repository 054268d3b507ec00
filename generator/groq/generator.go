package groq

import (
	"context"
	"errors"

	"github.com/me-nabi/pdf-assistant/generator"
	"github.com/sashabaranov/go-openai"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

type groqGenerator struct {
	options generator.Options
	client  *openai.Client
}

func (g *groqGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	fullPrompt := prompt
	if len(g.options.PromptPrefix) > 0 {
		fullPrompt = g.options.PromptPrefix + "\n" + prompt
	}

	req := openai.ChatCompletionRequest{
		Model: g.options.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fullPrompt,
			},
		},
	}

	rsp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}

	if len(rsp.Choices) == 0 || len(rsp.Choices[0].Message.Content) == 0 {
		return "", errors.New("no response from Groq")
	}

	return rsp.Choices[0].Message.Content, nil
}

// NewGenerator talks to Groq's OpenAI-compatible chat completions API.
func NewGenerator(opts ...generator.Option) generator.Generator {
	options := generator.NewOptions(opts...)

	g := &groqGenerator{
		options: options,
	}

	config := openai.DefaultConfig(options.ApiKey)
	config.BaseURL = defaultBaseURL
	if len(options.BaseURL) > 0 {
		config.BaseURL = options.BaseURL
	}

	g.client = openai.NewClientWithConfig(config)

	return g
}
