package renderer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/etnz/riskreport"
	"github.com/etnz/riskreport/date"
	"github.com/etnz/riskreport/news"
	"github.com/etnz/riskreport/yahoo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// outline parses a Markdown document and returns its headings, e.g.
// "## Sources", and its number of tables.
func outline(t *testing.T, doc string) (headings []string, tables int) {
	t.Helper()
	source := []byte(doc)
	root := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(source))

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			var b strings.Builder
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if txt, ok := c.(*ast.Text); ok {
					b.Write(txt.Segment.Value(source))
				}
			}
			headings = append(headings, strings.Repeat("#", n.Level)+" "+b.String())
			return ast.WalkSkipChildren, nil
		case *extast.Table:
			tables++
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	return headings, tables
}

func daily(values ...float64) *date.History[float64] {
	h := new(date.History[float64])
	for i, v := range values {
		h.Append(date.New(2025, 1, 1).Add(i), v)
	}
	return h
}

func report(t *testing.T) *riskreport.Report {
	t.Helper()
	table := riskreport.NewTable([]string{"A", "B"}, map[string]*date.History[float64]{
		"A": daily(100, 95, 90, 92, 91, 97),
		"B": daily(50, 52, 54, 53, 55, 51),
	})
	r, err := riskreport.NewReport(table, riskreport.Options{WorstDays: riskreport.DefaultWorstDays})
	require.NoError(t, err)
	return r
}

func TestRender(t *testing.T) {
	doc := Render(Input{
		Tickers:    []string{"A", "B"},
		Start:      date.New(2025, 1, 1),
		Report:     report(t),
		FREDSeries: "DGS10",
		FRED:       daily(4.5, 4.6),
		FREDSource: "https://fred/observations",
		News:       []news.Item{{Title: "Banks", Link: "https://news/1"}},
		NewsSource: "https://news",
		ESG:        map[string][]yahoo.ESGMetric{"A": {{Metric: "totalEsg", Value: "17.2"}}},
	})

	headings, tables := outline(t, doc)
	assert.Equal(t, []string{
		"# Risk Report",
		"### Annualized Volatility",
		"### Sharpe (naive)",
		"### Max Drawdown",
		"### Correlation Matrix",
		"## VaR / ES (Historical)",
		"### Portfolio VaR/ES (Historical Simulation)",
		"## Stress Scenarios",
		"### Uniform Shocks",
		"### Worst Daily Returns",
		"## FRED: DGS10",
		"### Latest observations",
		"## Top News (Google News RSS)",
		"## ESG Metrics (Yahoo Sustainability)",
		"### A",
		"## Sources",
	}, headings)
	assert.Equal(t, 9, tables)

	assert.Contains(t, doc, "**Tickers:** A,B")
	assert.Contains(t, doc, "**Period Start:** 2025-01-01")
	assert.Contains(t, doc, "[Banks](https://news/1)")
	assert.Contains(t, doc, "VaR@95")
	assert.Contains(t, doc, "Shock -20%")
	assert.NotContains(t, doc, NoData)
}

func TestRender_NoData(t *testing.T) {
	doc := Render(Input{
		Tickers: []string{"A"},
		Report:  &riskreport.Report{TailRisk: riskreport.TailRiskTable{}},
	})

	headings, tables := outline(t, doc)
	assert.Equal(t, 0, tables)
	assert.Contains(t, headings, "## VaR / ES (Historical)")
	assert.NotContains(t, headings, "## Stress Scenarios")
	// three rankings, the correlation matrix and the VaR/ES table.
	assert.Equal(t, 5, strings.Count(doc, NoData))
}

func TestRender_Summaries(t *testing.T) {
	doc := Render(Input{
		Filings:       []news.Item{{Title: "SEC fetch error: 403", Link: ""}},
		FilingsSource: "https://sec",
		SECSummaries:  "- point\n(Source: https://sec/a)",
	})

	headings, _ := outline(t, doc)
	assert.Contains(t, headings, "## SEC Filings (Atom)")
	assert.Contains(t, headings, "## Disclosure Summaries (AI)")
	assert.Contains(t, headings, "### SEC")
	assert.NotContains(t, headings, "### ASX")
	assert.Contains(t, doc, "- SEC fetch error: 403")
}

func TestStressTable(t *testing.T) {
	st := riskreport.StressScenarios(riskreport.Table{}, nil, nil)

	plain := StressTable(st, 0, "")
	assert.Len(t, plain.Header, 2)
	assert.Equal(t, []string{"Shock -5%", "-5.00"}, plain.Rows[0])

	withAmount := StressTable(st, 100000, "USD")
	require.Len(t, withAmount.Header, 3)
	assert.Contains(t, withAmount.Rows[0][2], "5,000.00")
	assert.Contains(t, withAmount.Rows[2][2], "20,000.00")
}

func TestSources(t *testing.T) {
	assert.Equal(t, []string{"Yahoo Finance for prices"}, Sources(Input{}))

	got := Sources(Input{
		PriceSource:         "EOD Historical Data",
		NewsSource:          "https://news",
		FREDSource:          "https://fred", // no FRED data, not listed
		Announcements:       []news.Item{{Title: "x"}},
		AnnouncementsSource: "https://asx",
	})
	assert.Equal(t, []string{
		"EOD Historical Data for prices",
		"Google News RSS: https://news",
		"ASX Announcements: https://asx",
	}, got)
}

func TestFREDTable(t *testing.T) {
	got := FREDTable("t", daily(1, 2, 3.5), 2)
	assert.Equal(t, [][]string{{"2025-01-03", "3.5"}, {"2025-01-02", "2"}}, got.Rows)
}

func TestESGTable(t *testing.T) {
	var metrics []yahoo.ESGMetric
	for i := range 12 {
		metrics = append(metrics, yahoo.ESGMetric{Metric: fmt.Sprint("m", i), Value: "1"})
	}
	assert.Len(t, ESGTable("A", metrics, 10).Rows, 10)
	assert.Len(t, ESGTable("A", metrics[:3], 10).Rows, 3)
}

func TestPricesTable(t *testing.T) {
	table := riskreport.NewTable([]string{"B", "A"}, map[string]*date.History[float64]{
		"A": daily(100, 101.5),
		"B": daily(50),
	})
	got := PricesTable(table)
	assert.Equal(t, []string{"Date", "B", "A"}, got.Header)
	assert.Equal(t, [][]string{
		{"2025-01-01", "50.00", "100.00"},
		{"2025-01-02", "NaN", "101.50"},
	}, got.Rows)

	headings, tables := outline(t, Tables(got, Table{Title: "Empty"}))
	assert.Equal(t, []string{"### Prices", "### Empty"}, headings)
	assert.Equal(t, 1, tables)
}
