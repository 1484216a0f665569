package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/riskreport/news"
	"github.com/google/subcommands"
	md "github.com/nao1215/markdown"
)

type newsCmd struct {
	limit int
}

func (*newsCmd) Name() string     { return "news" }
func (*newsCmd) Synopsis() string { return "list the latest headlines from Google News" }
func (*newsCmd) Usage() string {
	return `riskr news [-n <count>] <query>

  Lists the latest Google News headlines matching a query.
`
}

func (c *newsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 10, "Number of headlines.")
}

func (c *newsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	query := strings.Join(f.Args(), " ")
	if query == "" {
		fmt.Fprintln(os.Stderr, "Error: a query is required.")
		return subcommands.ExitUsageError
	}
	items, source := news.GoogleNews(ctx, query, c.limit)
	printMarkdown(links("Top News", items, source))
	return subcommands.ExitSuccess
}

type filingsCmd struct {
	sec   string
	asx   string
	limit int
}

func (*filingsCmd) Name() string     { return "filings" }
func (*filingsCmd) Synopsis() string { return "list the latest SEC filings and ASX announcements" }
func (*filingsCmd) Usage() string {
	return `riskr filings [-sec <company or CIK>] [-asx <code>] [-n <count>]

  Lists the latest SEC EDGAR filings of a company and the latest ASX
  announcements of an issuer.
`
}

func (c *filingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.sec, "sec", "", "SEC company name or CIK.")
	f.StringVar(&c.asx, "asx", "", "ASX issuer code.")
	f.IntVar(&c.limit, "n", 10, "Number of filings and announcements.")
}

func (c *filingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.sec == "" && c.asx == "" {
		fmt.Fprintln(os.Stderr, "Error: -sec or -asx is required.")
		return subcommands.ExitUsageError
	}
	var doc strings.Builder
	if c.sec != "" {
		items, source := news.SECFilings(ctx, c.sec, c.limit)
		doc.WriteString(links("SEC Filings: "+c.sec, items, source))
	}
	if c.asx != "" {
		items, source := news.ASXAnnouncements(ctx, c.asx, c.limit)
		doc.WriteString(links("ASX Announcements: "+strings.ToUpper(c.asx), items, source))
	}
	printMarkdown(doc.String())
	return subcommands.ExitSuccess
}

// links returns a Markdown section listing items, followed by their source.
func links(title string, items []news.Item, source string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf).H2(title)
	if len(items) == 0 {
		doc.PlainText("_No data_")
	}
	var list []string
	for _, it := range items {
		if it.Link == "" {
			list = append(list, it.Title)
			continue
		}
		list = append(list, md.Link(it.Title, it.Link))
	}
	doc.BulletList(list...)
	doc.PlainText(md.Italic("Source: " + source))
	return doc.String()
}
