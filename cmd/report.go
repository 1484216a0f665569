package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/etnz/riskreport"
	"github.com/etnz/riskreport/chart"
	"github.com/etnz/riskreport/fred"
	"github.com/etnz/riskreport/news"
	"github.com/etnz/riskreport/pdf"
	"github.com/etnz/riskreport/renderer"
	"github.com/etnz/riskreport/summarizer"
	"github.com/etnz/riskreport/yahoo"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

// maxSummarized is the number of filings, and of announcements, whose links are
// candidates for a summary.
const maxSummarized = 5

type reportCmd struct {
	start  string
	source string

	weights  string
	alphas   string
	shocks   string
	worst    int
	noVaR    bool
	noStress bool
	notional float64
	currency string

	newsQuery  string
	fredSeries string
	sec        string
	asx        string
	esg        bool
	summarize  bool
	limit      int

	mdFile  string
	pdfFile string
	chart   bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "build the risk report of tickers" }
func (*reportCmd) Usage() string {
	return `riskr report [flags] <ticker>...

  Downloads prices since the start date, computes the risk metrics of each
  ticker and of the portfolio, gathers macro data, news and filings, and prints
  the Markdown report. See 'riskr topic report'.

Usage Examples:
$ riskr report -s 2024-01-01 AAPL MSFT GOOG
$ riskr report -weights AAPL=0.7,MSFT=0.3 -notional 100000 -currency USD -pdf report.pdf -chart AAPL MSFT

`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "s", "", "Start date (YYYY-MM-DD), defaults to one year ago.")
	f.StringVar(&c.source, "source", SourceYahoo, "Price source: yahoo or eodhd.")

	f.StringVar(&c.weights, "weights", "", "Portfolio weights as TICKER=weight,... Defaults to equal weights.")
	f.StringVar(&c.alphas, "alphas", "0.95,0.99", "VaR/ES confidence levels.")
	f.StringVar(&c.shocks, "shocks", "-0.05,-0.1,-0.2", "Uniform price shocks for the stress scenarios.")
	f.IntVar(&c.worst, "worst", riskreport.DefaultWorstDays, "Number of worst daily returns to list.")
	f.BoolVar(&c.noVaR, "no-var", false, "Skip the VaR/ES section.")
	f.BoolVar(&c.noStress, "no-stress", false, "Skip the stress scenarios section.")
	f.Float64Var(&c.notional, "notional", 0, "Portfolio value, to express stress P&L as an amount.")
	f.StringVar(&c.currency, "currency", "USD", "Currency of the notional (ISO 4217).")

	f.StringVar(&c.newsQuery, "news", "bank risk liquidity", "Google News query, empty to skip.")
	f.StringVar(&c.fredSeries, "fred", "DGS10", "FRED series, skipped without FRED API key.")
	f.StringVar(&c.sec, "sec", "", "SEC company name or CIK whose filings to list.")
	f.StringVar(&c.asx, "asx", "", "ASX issuer code whose announcements to list.")
	f.BoolVar(&c.esg, "esg", false, "Fetch ESG scores from Yahoo.")
	f.BoolVar(&c.summarize, "summarize", false, "Summarize SEC filings and ASX announcements with an LLM.")
	f.IntVar(&c.limit, "n", 10, "Number of news, filings and announcements.")

	f.StringVar(&c.mdFile, "md", "", "Also write the Markdown report to this file.")
	f.StringVar(&c.pdfFile, "pdf", "", "Also write the report as PDF to this file.")
	f.BoolVar(&c.chart, "chart", false, "Include a chart of prices rebased to 100 in the PDF.")
}

// options returns the analytics options from the flags.
func (c *reportCmd) options() (riskreport.Options, error) {
	var opts riskreport.Options
	var err error
	if c.weights != "" {
		if opts.Weights, err = riskreport.ParseWeights(c.weights); err != nil {
			return opts, err
		}
	}
	if opts.Alphas, err = parseFloats(c.alphas); err != nil {
		return opts, fmt.Errorf("invalid -alphas: %w", err)
	}
	for _, a := range opts.Alphas {
		if a <= 0 || a >= 1 {
			return opts, fmt.Errorf("invalid -alphas: %v is not in (0, 1)", a)
		}
	}
	if opts.Shocks, err = parseFloats(c.shocks); err != nil {
		return opts, fmt.Errorf("invalid -shocks: %w", err)
	}
	if c.worst < 0 {
		return opts, fmt.Errorf("invalid -worst: %d", c.worst)
	}
	opts.WorstDays = c.worst
	opts.SkipTailRisk = c.noVaR
	opts.SkipStress = c.noStress
	if c.notional != 0 && money.GetCurrency(strings.ToUpper(c.currency)) == nil {
		return opts, fmt.Errorf("unknown currency %q", c.currency)
	}
	return opts, nil
}

// build fetches everything the report needs. Only prices are mandatory,
// other collaborators degrade to an empty section.
func (c *reportCmd) build(ctx context.Context, tickers []string) (renderer.Input, error) {
	in := renderer.Input{
		Tickers:  tickers,
		Notional: c.notional,
		Currency: strings.ToUpper(c.currency),
	}
	opts, err := c.options()
	if err != nil {
		return in, err
	}
	if in.Start, err = parseStart(c.start); err != nil {
		return in, err
	}

	prices, source, err := fetchPrices(ctx, c.source, tickers, in.Start)
	if err != nil {
		return in, err
	}
	in.PriceSource = source
	if in.Report, err = riskreport.NewReport(prices, opts); err != nil {
		return in, fmt.Errorf("no usable prices for %s: %w", strings.Join(tickers, ","), err)
	}

	if c.newsQuery != "" {
		in.News, in.NewsSource = news.GoogleNews(ctx, c.newsQuery, c.limit)
	}

	if c.fredSeries != "" {
		h, src, err := fred.Observations(ctx, apiKey(fredKey, EnvFRED), c.fredSeries)
		if err != nil {
			log.Warn().Err(err).Str("series", c.fredSeries).Msg("FRED series skipped")
		} else if h != nil && h.Len() > 0 {
			in.FREDSeries, in.FRED, in.FREDSource = c.fredSeries, h, src
		}
	}

	if c.sec != "" {
		in.Filings, in.FilingsSource = news.SECFilings(ctx, c.sec, c.limit)
	}
	if c.asx != "" {
		in.Announcements, in.AnnouncementsSource = news.ASXAnnouncements(ctx, c.asx, c.limit)
	}

	if c.esg {
		in.ESG = yahoo.ESGForTickers(ctx, tickers)
	}

	if c.summarize {
		s, err := summarizer.New(ctx, llmKeys())
		if err != nil {
			log.Warn().Err(err).Msg("summaries disabled")
			s = nil
		}
		if urls := firstLinks(in.Filings, maxSummarized); len(urls) > 0 {
			in.SECSummaries = summarizer.SummarizeURLs(ctx, s, urls, summarizer.MaxItems)
		}
		if urls := firstLinks(in.Announcements, maxSummarized); len(urls) > 0 {
			in.ASXSummaries = summarizer.SummarizeURLs(ctx, s, urls, summarizer.MaxItems)
		}
	}
	return in, nil
}

// firstLinks returns at most n non empty links of items.
func firstLinks(items []news.Item, n int) []string {
	links := news.Links(items)
	return links[:min(n, len(links))]
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tickers := parseTickers(f.Args())
	if len(tickers) == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one ticker is required.")
		return subcommands.ExitUsageError
	}

	in, err := c.build(ctx, tickers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	doc := renderer.Render(in)
	printMarkdown(doc)

	if c.mdFile != "" {
		if err := os.WriteFile(c.mdFile, []byte(doc), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.mdFile, err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Markdown report written to %s\n", c.mdFile)
	}
	if c.pdfFile != "" {
		if err := c.writePDF(doc, in.Report.Prices); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.pdfFile, err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "PDF report written to %s\n", c.pdfFile)
	}
	return subcommands.ExitSuccess
}

func (c *reportCmd) writePDF(doc string, prices riskreport.Table) error {
	var png []byte
	if c.chart {
		var err error
		if png, err = chart.Prices(prices, "Prices (rebased to 100)"); err != nil {
			log.Warn().Err(err).Msg("chart skipped")
		}
	}
	b, err := pdf.FromMarkdown(doc, png)
	if err != nil {
		return err
	}
	return os.WriteFile(c.pdfFile, b, 0644)
}
