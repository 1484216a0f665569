// Package cmd implements the riskr subcommands.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/riskreport/date"
	"github.com/etnz/riskreport/summarizer"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() and Execute() the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&reportCmd{}, "report")
	c.Register(&pricesCmd{}, "report")

	c.Register(&newsCmd{}, "context")
	c.Register(&filingsCmd{}, "context")
	c.Register(&summarizeCmd{}, "context")

	c.Register(&searchCmd{}, "sources")
	c.Register(&topicCmd{}, "help")
}

// Environment variables read when the matching flag is not set.
const (
	EnvEODHD     = "EODHD_API_KEY"
	EnvFRED      = "FRED_API_KEY"
	EnvOpenAI    = "OPENAI_API_KEY"
	EnvAnthropic = "ANTHROPIC_API_KEY"
	EnvGemini    = "GEMINI_API_KEY"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	eodhdKey  = flag.String("eodhd-api-key", "", "EOD Historical Data API key, defaults to $"+EnvEODHD+". You can get one at https://eodhd.com/")
	fredKey   = flag.String("fred-api-key", "", "FRED API key, defaults to $"+EnvFRED)
	openaiKey = flag.String("openai-api-key", "", "OpenAI API key used for summaries, defaults to $"+EnvOpenAI)
	claudeKey = flag.String("anthropic-api-key", "", "Anthropic API key used for summaries when no OpenAI key is set, defaults to $"+EnvAnthropic)
	geminiKey = flag.String("gemini-api-key", "", "Gemini API key used for summaries when no other LLM key is set, defaults to $"+EnvGemini)
	plain     = flag.Bool("plain", false, "print raw Markdown instead of styling it for the terminal")
)

// apiKey returns the flag value, or the environment variable when it is empty.
func apiKey(value *string, env string) string {
	if *value != "" {
		return *value
	}
	return os.Getenv(env)
}

// llmKeys returns the LLM API keys from flags and environment.
func llmKeys() summarizer.Keys {
	return summarizer.Keys{
		OpenAI:    apiKey(openaiKey, EnvOpenAI),
		Anthropic: apiKey(claudeKey, EnvAnthropic),
		Gemini:    apiKey(geminiKey, EnvGemini),
	}
}

// printMarkdown prints md styled for the terminal.
func printMarkdown(md string) {
	if *plain {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Fprintf(os.Stderr, "Warning: cannot style output: %v\n", err)
	fmt.Print(md)
}

// parseFloats parses a comma separated list of numbers. An empty string
// is a nil list.
func parseFloats(s string) ([]float64, error) {
	var fs []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		f, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", field, err)
		}
		fs = append(fs, f)
	}
	return fs, nil
}

// parseTickers returns the upper case tickers found in args, each arg
// being itself a comma or space separated list.
func parseTickers(args []string) []string {
	var tickers []string
	for _, arg := range args {
		for _, t := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' }) {
			tickers = append(tickers, strings.ToUpper(t))
		}
	}
	return tickers
}

// parseStart parses the start date, one year ago when empty.
func parseStart(s string) (date.Date, error) {
	if s == "" {
		return date.Today().Add(-365), nil
	}
	return date.Parse(s)
}
