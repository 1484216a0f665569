package summarizer

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

// Gemini summarizes with a Gemini model.
type Gemini struct {
	client *genai.Client
	Model  string
	Config *genai.GenerateContentConfig
}

// NewGemini returns a summarizer using gemini-2.5-flash.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	return newGemini(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
}

func newGemini(ctx context.Context, cc *genai.ClientConfig) (*Gemini, error) {
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	return &Gemini{
		client: client,
		Model:  "gemini-2.5-flash",
		Config: &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
			Temperature:       genai.Ptr[float32](0.2),
			MaxOutputTokens:   450,
		},
	}, nil
}

func (s *Gemini) Summarize(ctx context.Context, text, url string) (string, error) {
	resp, err := s.client.Models.GenerateContent(ctx, s.Model, genai.Text(prompt(text)), s.Config)
	if err != nil {
		return "", err
	}
	out := resp.Text()
	if out == "" {
		return "", errors.New("no response from gemini")
	}
	return out, nil
}
