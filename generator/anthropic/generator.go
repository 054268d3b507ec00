package anthropic

import (
	"context"
	"errors"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/me-nabi/pdf-assistant/generator"
)

// Answers are bounded prompts over retrieved context, not long-form output.
const maxAnswerTokens = 2048

type anthropicGenerator struct {
	options generator.Options
	client  *anthropic.Client
}

func (g *anthropicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if len(g.options.PromptPrefix) > 0 {
		prompt = g.options.PromptPrefix + "\n" + prompt
	}

	rsp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.options.Model),
		MaxTokens: maxAnswerTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	answer := textContent(rsp)
	if len(answer) == 0 {
		return "", errors.New("empty completion from Anthropic")
	}

	return answer, nil
}

// textContent concatenates the text blocks of a response, skipping any
// non-text content.
func textContent(rsp *anthropic.Message) string {
	var b strings.Builder
	for _, block := range rsp.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(text.Text)
		}
	}
	return b.String()
}

func NewGenerator(opts ...generator.Option) generator.Generator {
	options := generator.NewOptions(opts...)

	clientOpts := []anthropicopt.RequestOption{
		anthropicopt.WithAPIKey(options.ApiKey),
	}
	if len(options.BaseURL) > 0 {
		clientOpts = append(clientOpts, anthropicopt.WithBaseURL(options.BaseURL))
	}

	client := anthropic.NewClient(clientOpts...)

	return &anthropicGenerator{
		options: options,
		client:  &client,
	}
}
