// Package summarizer turns disclosures and articles into short risk
// summaries with a large language model.
package summarizer

import (
	"context"
	"fmt"
	"strings"
)

// Summarizer summarizes a text into risk-relevant Markdown bullets.
type Summarizer interface {
	Summarize(ctx context.Context, text, url string) (string, error)
}

const (
	// MaxPromptText is the number of characters of a text sent to a model.
	MaxPromptText = 6000
	// MaxItems is the usual number of URLs summarized in a report.
	MaxItems = 3
)

const system = "You write concise, factual risk summaries."

// prompt returns the user prompt for text.
func prompt(text string) string {
	return `You are a risk analyst. Summarize the following disclosure/article into 3-5 concise bullets.
- Focus on risk-relevant points, numbers, timelines, regulatory/compliance implications.
- Keep it factual; avoid speculation.
- End with a one-line takeaway.
TEXT BEGIN
` + truncate(text, MaxPromptText) + `
TEXT END
Include the source URL inline.
`
}

// Keys holds the LLM API keys, empty when not set.
type Keys struct {
	OpenAI    string
	Anthropic string
	Gemini    string
}

// New returns the Summarizer for the first API key set, in the Keys field
// order. It returns nil when no key is set.
func New(ctx context.Context, keys Keys) (Summarizer, error) {
	switch {
	case keys.OpenAI != "":
		return NewOpenAI(keys.OpenAI), nil
	case keys.Anthropic != "":
		return NewClaude(keys.Anthropic), nil
	case keys.Gemini != "":
		g, err := NewGemini(ctx, keys.Gemini)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	return nil, nil
}

// Summarize summarizes the text of url. It never fails: a nil Summarizer or
// an error are reported inline, as a Markdown note.
func Summarize(ctx context.Context, s Summarizer, text, url string) string {
	if s == nil {
		return fmt.Sprintf("- %s\n  - [LLM disabled] Provide an OpenAI, Anthropic or Gemini API key to enable summaries.\n", url)
	}
	out, err := s.Summarize(ctx, text, url)
	if err != nil {
		return fmt.Sprintf("- %s\n  - [LLM_ERROR] %v\n", url, err)
	}
	out = strings.TrimSpace(out)
	if !strings.Contains(out, url) {
		out += fmt.Sprintf("\n(Source: %s)", url)
	}
	return out
}

// SummarizeURLs fetches and summarizes the first maxItems non empty urls,
// one Markdown block each.
func SummarizeURLs(ctx context.Context, s Summarizer, urls []string, maxItems int) string {
	var parts []string
	for _, u := range urls {
		if u == "" {
			continue
		}
		if len(parts) == maxItems {
			break
		}
		text := FetchText(ctx, u, MaxText)
		parts = append(parts, Summarize(ctx, s, text, u))
	}
	return strings.Join(parts, "\n\n")
}

// truncate returns at most n characters of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
