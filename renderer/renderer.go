// Package renderer formats a risk report as Markdown: one table per entity,
// each under a "###" title, with a "_No data_" placeholder for empty tables.
package renderer

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/etnz/riskreport"
	"github.com/etnz/riskreport/date"
	"github.com/etnz/riskreport/news"
	"github.com/etnz/riskreport/yahoo"
	md "github.com/nao1215/markdown"
)

// NoData is printed in place of an empty table.
const NoData = "_No data_"

// Input holds everything a report can show. Only Report is required.
type Input struct {
	Tickers []string
	Start   date.Date
	Report  *riskreport.Report

	PriceSource string // e.g. "Yahoo Finance"

	// Optional notional to express stress P&L as an amount too.
	Notional float64
	Currency string // ISO 4217 code, e.g. "USD"

	FREDSeries string
	FRED       *date.History[float64] // nil when not fetched
	FREDSource string

	News       []news.Item
	NewsSource string

	Filings       []news.Item // SEC
	FilingsSource string

	Announcements       []news.Item // ASX
	AnnouncementsSource string

	SECSummaries string // Markdown, empty when not summarized
	ASXSummaries string

	ESG map[string][]yahoo.ESGMetric // nil when not fetched
}

// Table is a titled table.
type Table struct {
	Title  string
	Header []string
	Rows   [][]string
}

// Render returns the Markdown report.
func Render(in Input) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Risk Report")
	doc.PlainText(fmt.Sprintf("%s %s", md.Bold("Tickers:"), strings.Join(in.Tickers, ",")))
	doc.PlainText("")
	doc.PlainText(fmt.Sprintf("%s %s", md.Bold("Period Start:"), in.Start))
	doc.PlainText("")

	if r := in.Report; r != nil {
		writeTable(doc, rankingTable("Annualized Volatility", r.Metrics.Volatility))
		writeTable(doc, rankingTable("Sharpe (naive)", r.Metrics.Sharpe))
		writeTable(doc, rankingTable("Max Drawdown", r.Metrics.MaxDrawdown))
		writeTable(doc, CorrelationTable(r.Metrics.Correlation))

		if r.TailRisk != nil {
			doc.H2("VaR / ES (Historical)")
			writeTable(doc, TailRiskTable(r.TailRisk))
		}
		if r.Stress != nil {
			doc.H2("Stress Scenarios")
			doc.PlainText("Uniform price shocks and sample worst daily losses")
			doc.PlainText("")
			writeTable(doc, StressTable(r.Stress, in.Notional, in.Currency))
			writeTable(doc, WorstDaysTable(r.WorstDays))
		}
	}

	if in.FRED != nil {
		doc.H2("FRED: " + in.FREDSeries)
		writeTable(doc, FREDTable("Latest observations", in.FRED, 10))
	}

	writeLinks(doc, "Top News (Google News RSS)", in.News)
	writeLinks(doc, "SEC Filings (Atom)", in.Filings)
	writeLinks(doc, "ASX Announcements", in.Announcements)

	if len(esgTickers(in)) > 0 {
		doc.H2("ESG Metrics (Yahoo Sustainability)")
		for _, t := range esgTickers(in) {
			writeTable(doc, ESGTable(t, in.ESG[t], 10))
		}
	}

	if in.SECSummaries != "" || in.ASXSummaries != "" {
		doc.H2("Disclosure Summaries (AI)")
		if in.SECSummaries != "" {
			doc.H3("SEC")
			doc.PlainText(in.SECSummaries)
			doc.PlainText("")
		}
		if in.ASXSummaries != "" {
			doc.H3("ASX")
			doc.PlainText(in.ASXSummaries)
			doc.PlainText("")
		}
	}

	doc.H2("Sources")
	doc.BulletList(Sources(in)...)

	return doc.String()
}

// Sources lists where the data of the report comes from.
func Sources(in Input) []string {
	source := in.PriceSource
	if source == "" {
		source = "Yahoo Finance"
	}
	sources := []string{source + " for prices"}
	if in.NewsSource != "" {
		sources = append(sources, "Google News RSS: "+in.NewsSource)
	}
	if in.FRED != nil && in.FREDSource != "" {
		sources = append(sources, "FRED API: "+in.FREDSource)
	}
	if len(in.Filings) > 0 && in.FilingsSource != "" {
		sources = append(sources, "SEC EDGAR Atom: "+in.FilingsSource)
	}
	if len(in.Announcements) > 0 && in.AnnouncementsSource != "" {
		sources = append(sources, "ASX Announcements: "+in.AnnouncementsSource)
	}
	return sources
}

// writeTable writes "### title" then the table, or NoData when it has no row.
func writeTable(doc *md.Markdown, t Table) {
	doc.H3(t.Title)
	if len(t.Rows) == 0 {
		doc.PlainText(NoData)
		doc.PlainText("")
		return
	}
	doc.Table(md.TableSet{Header: t.Header, Rows: t.Rows})
}

// writeLinks writes a section of links, skipped when there is none.
func writeLinks(doc *md.Markdown, title string, items []news.Item) {
	if len(items) == 0 {
		return
	}
	doc.H2(title)
	list := make([]string, 0, len(items))
	for _, it := range items {
		if it.Link == "" {
			list = append(list, it.Title)
			continue
		}
		list = append(list, md.Link(it.Title, it.Link))
	}
	doc.BulletList(list...)
}

func esgTickers(in Input) []string {
	var tickers []string
	for _, t := range in.Tickers {
		if len(in.ESG[t]) > 0 {
			tickers = append(tickers, t)
		}
	}
	return tickers
}

func rankingTable(title string, r riskreport.Ranking) Table {
	t := Table{Title: title, Header: []string{"Ticker", title}}
	for _, s := range r {
		t.Rows = append(t.Rows, []string{s.Ticker, num(s.Value)})
	}
	return t
}

// CorrelationTable returns the correlation matrix, tickers in rows and columns.
func CorrelationTable(c riskreport.Correlation) Table {
	tickers := c.Tickers()
	t := Table{Title: "Correlation Matrix", Header: append([]string{""}, tickers...)}
	for i, ti := range tickers {
		row := []string{ti}
		for j := range tickers {
			row = append(row, num(c.At(i, j)))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// TailRiskTable returns one VaR row and one ES row per confidence level.
func TailRiskTable(tr riskreport.TailRiskTable) Table {
	t := Table{Title: "Portfolio VaR/ES (Historical Simulation)", Header: []string{"", "Portfolio"}}
	for _, r := range tr {
		t.Rows = append(t.Rows,
			[]string{r.VaRLabel(), num(r.VaR)},
			[]string{r.ESLabel(), num(r.ES)},
		)
	}
	return t
}

// StressTable returns the P&L of each shock, and its amount when a notional
// is given.
func StressTable(st riskreport.StressTable, notional float64, currency string) Table {
	t := Table{Title: "Uniform Shocks", Header: []string{"", "Portfolio P&L (%)"}}
	withAmount := notional > 0 && currency != ""
	if withAmount {
		t.Header = append(t.Header, "P&L")
	}
	for _, s := range st {
		row := []string{s.Label(), strconv.FormatFloat(s.PnLPercent, 'f', 2, 64)}
		if withAmount {
			row = append(row, money.NewFromFloat(notional*s.Shock, currency).Display())
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// WorstDaysTable returns the worst daily returns.
func WorstDaysTable(wd riskreport.WorstDaysTable) Table {
	t := Table{Title: "Worst Daily Returns", Header: []string{"Date", "Return", "Loss(%)"}}
	for _, d := range wd {
		t.Rows = append(t.Rows, []string{d.Date.String(), num(d.Return), strconv.FormatFloat(d.LossPercent, 'f', 2, 64)})
	}
	return t
}

// FREDTable returns the last n observations of a FRED series, latest first.
func FREDTable(title string, h *date.History[float64], n int) Table {
	t := Table{Title: title, Header: []string{"Date", "Value"}}
	days, values := h.Days(), h.Slice()
	for i := len(days) - 1; i >= 0 && len(t.Rows) < n; i-- {
		t.Rows = append(t.Rows, []string{days[i].String(), strconv.FormatFloat(values[i], 'f', -1, 64)})
	}
	return t
}

// ESGTable returns the first n sustainability scores of ticker.
func ESGTable(ticker string, metrics []yahoo.ESGMetric, n int) Table {
	t := Table{Title: ticker, Header: []string{"Metric", "Value"}}
	for _, m := range metrics[:min(n, len(metrics))] {
		t.Rows = append(t.Rows, []string{m.Metric, m.Value})
	}
	return t
}

// PricesTable returns the price table, one row per date.
func PricesTable(prices riskreport.Table) Table {
	t := Table{Title: "Prices", Header: append([]string{"Date"}, prices.Tickers()...)}
	for day, row := range prices.Rows() {
		r := []string{day.String()}
		for _, v := range row {
			r = append(r, price(v))
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}

// Tables returns a Markdown document made of tables only.
func Tables(tables ...Table) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	for _, t := range tables {
		writeTable(doc, t)
	}
	return doc.String()
}

func price(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// num formats a statistic.
func num(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', 6, 64)
}
