package summarizer

import (
	"context"
	"errors"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI summarizes with an OpenAI chat model.
type OpenAI struct {
	cli   oa.Client
	Model oa.ChatModel
}

// NewOpenAI returns a summarizer using gpt-4o-mini.
func NewOpenAI(apiKey string, opts ...option.RequestOption) *OpenAI {
	client := oa.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &OpenAI{cli: client, Model: oa.ChatModelGPT4oMini}
}

func (s *OpenAI) Summarize(ctx context.Context, text, url string) (string, error) {
	resp, err := s.cli.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model: s.Model,
		Messages: []oa.ChatCompletionMessageParamUnion{
			oa.SystemMessage(system),
			oa.UserMessage(prompt(text)),
		},
		Temperature: oa.Float(0.2),
		MaxTokens:   oa.Int(450),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from openai")
	}
	return resp.Choices[0].Message.Content, nil
}
