package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/riskreport/summarizer"
	"github.com/google/subcommands"
)

type summarizeCmd struct {
	max int
}

func (*summarizeCmd) Name() string     { return "summarize" }
func (*summarizeCmd) Synopsis() string { return "summarize web pages with an LLM" }
func (*summarizeCmd) Usage() string {
	return `riskr summarize [-max <count>] <url>...

  Fetches each page and prints a short risk summary of it, written by OpenAI,
  Anthropic or Gemini. See 'riskr topic summarize'.
`
}

func (c *summarizeCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.max, "max", summarizer.MaxItems, "Maximum number of URLs summarized.")
}

func (c *summarizeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one URL is required.")
		return subcommands.ExitUsageError
	}
	s, err := summarizer.New(ctx, llmKeys())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating the LLM client: %v\n", err)
		return subcommands.ExitFailure
	}
	if s == nil {
		fmt.Fprintf(os.Stderr, "Warning: no LLM API key (%s, %s, %s), summaries are disabled.\n", EnvOpenAI, EnvAnthropic, EnvGemini)
	}
	printMarkdown(summarizer.SummarizeURLs(ctx, s, f.Args(), c.max) + "\n")
	return subcommands.ExitSuccess
}
