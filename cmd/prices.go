package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/riskreport"
	"github.com/etnz/riskreport/date"
	"github.com/etnz/riskreport/eodhd"
	"github.com/etnz/riskreport/renderer"
	"github.com/etnz/riskreport/yahoo"
	"github.com/google/subcommands"
)

// Price sources.
const (
	SourceYahoo = "yahoo"
	SourceEODHD = "eodhd"
)

// fetchPrices downloads the prices of tickers since start and normalizes
// them. It also returns the name of the source, for the report.
func fetchPrices(ctx context.Context, source string, tickers []string, start date.Date) (riskreport.Table, string, error) {
	var (
		raw  riskreport.RawPrices
		name string
		err  error
	)
	switch source {
	case SourceYahoo, "":
		name = "Yahoo Finance"
		raw, err = yahoo.Fetch(ctx, tickers, start)
	case SourceEODHD:
		name = "EOD Historical Data"
		key := apiKey(eodhdKey, EnvEODHD)
		if key == "" {
			return riskreport.Table{}, "", fmt.Errorf("EODHD API key is not set. Use -eodhd-api-key flag or %s environment variable", EnvEODHD)
		}
		raw, err = eodhd.Fetch(ctx, key, tickers, start, date.Today())
	default:
		return riskreport.Table{}, "", fmt.Errorf("unknown price source %q, want %q or %q", source, SourceYahoo, SourceEODHD)
	}
	if err != nil {
		return riskreport.Table{}, "", err
	}
	table, err := riskreport.Normalize(raw)
	return table, name, err
}

type pricesCmd struct {
	start  string
	source string
	last   int
}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "print the normalized daily prices of tickers" }
func (*pricesCmd) Usage() string {
	return `riskr prices [-source yahoo|eodhd] [-s <date>] [-n <rows>] <ticker>...

  Downloads daily prices and prints them as a table, one column per ticker.
  See 'riskr topic prices'.
`
}

func (c *pricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "s", "", "Start date (YYYY-MM-DD), defaults to one year ago.")
	f.StringVar(&c.source, "source", SourceYahoo, "Price source: yahoo or eodhd.")
	f.IntVar(&c.last, "n", 0, "Only print the last n rows, 0 prints all.")
}

func (c *pricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tickers := parseTickers(f.Args())
	if len(tickers) == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one ticker is required.")
		return subcommands.ExitUsageError
	}
	start, err := parseStart(c.start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
		return subcommands.ExitUsageError
	}

	prices, source, err := fetchPrices(ctx, c.source, tickers, start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.last > 0 {
		prices = prices.Tail(c.last)
	}
	t := renderer.PricesTable(prices)
	t.Title = "Prices (" + source + ")"
	printMarkdown(renderer.Tables(t))
	return subcommands.ExitSuccess
}
