package summarizer

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Claude summarizes with an Anthropic Claude model.
type Claude struct {
	newMessage func(context.Context, anthropic.MessageNewParams, ...option.RequestOption) (*anthropic.Message, error)
	Model      anthropic.Model
}

// NewClaude returns a summarizer using claude-haiku-4-5.
func NewClaude(apiKey string, opts ...option.RequestOption) *Claude {
	client := anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &Claude{newMessage: client.Messages.New, Model: anthropic.Model("claude-haiku-4-5")}
}

func (s *Claude) Summarize(ctx context.Context, text, url string) (string, error) {
	resp, err := s.newMessage(ctx, anthropic.MessageNewParams{
		Model:       s.Model,
		MaxTokens:   450,
		Temperature: anthropic.Float(0.2),
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt(text))),
		},
	})
	if err != nil {
		return "", err
	}
	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	if out.Len() == 0 {
		return "", errors.New("no response from claude")
	}
	return out.String(), nil
}
