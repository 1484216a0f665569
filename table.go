package riskreport

import (
	"iter"
	"math"
	"slices"

	"github.com/etnz/riskreport/date"
)

// Table is a date-aligned table of float values, one column per ticker.
//
// It holds either prices or per-asset returns. Rows are the sorted union of
// all the columns' dates; a value missing for a ticker on a date is NaN.
// A Table is immutable once built.
type Table struct {
	dates   []date.Date
	tickers []string
	cols    [][]float64 // cols[j][i] is the value of tickers[j] on dates[i]
}

// column is a named series used to build a Table.
type column struct {
	ticker string
	prices *date.History[float64]
}

// newTable aligns columns on the union of their dates.
func newTable(columns []column) Table {
	histories := make([]*date.History[float64], len(columns))
	t := Table{tickers: make([]string, len(columns)), cols: make([][]float64, len(columns))}
	for j, c := range columns {
		t.tickers[j] = c.ticker
		histories[j] = c.prices
	}
	for day := range date.Union(histories...) {
		t.dates = append(t.dates, day)
	}
	for j, h := range histories {
		col := make([]float64, len(t.dates))
		for i, day := range t.dates {
			v, ok := h.Get(day)
			if !ok {
				v = math.NaN()
			}
			col[i] = v
		}
		t.cols[j] = col
	}
	return t
}

// NewTable builds a Table from named histories, keeping the tickers order.
func NewTable(tickers []string, histories map[string]*date.History[float64]) Table {
	columns := make([]column, 0, len(tickers))
	for _, ticker := range tickers {
		h := histories[ticker]
		if h == nil {
			h = new(date.History[float64])
		}
		columns = append(columns, column{ticker: ticker, prices: h})
	}
	return newTable(columns)
}

// IsEmpty reports whether the table has no column or no row.
func (t Table) IsEmpty() bool { return len(t.tickers) == 0 || len(t.dates) == 0 }

// Len returns the number of rows.
func (t Table) Len() int { return len(t.dates) }

// Tickers returns the column names in order.
func (t Table) Tickers() []string { return slices.Clone(t.tickers) }

// Dates returns the row dates in chronological order.
func (t Table) Dates() []date.Date { return slices.Clone(t.dates) }

// At returns the value of the j-th column on the i-th row.
func (t Table) At(i, j int) float64 { return t.cols[j][i] }

// Row returns a copy of the i-th row, in tickers order.
func (t Table) Row(i int) []float64 {
	row := make([]float64, len(t.cols))
	for j, col := range t.cols {
		row[j] = col[i]
	}
	return row
}

// Rows returns an iterator over the rows of the table.
func (t Table) Rows() iter.Seq2[date.Date, []float64] {
	return func(yield func(date.Date, []float64) bool) {
		for i, day := range t.dates {
			if !yield(day, t.Row(i)) {
				return
			}
		}
	}
}

// Values returns a copy of the column for ticker, NaN included, or nil if unknown.
func (t Table) Values(ticker string) []float64 {
	j := slices.Index(t.tickers, ticker)
	if j < 0 {
		return nil
	}
	return slices.Clone(t.cols[j])
}

// Column returns the ticker's own non-null history.
func (t Table) Column(ticker string) *date.History[float64] {
	h := new(date.History[float64])
	j := slices.Index(t.tickers, ticker)
	if j < 0 {
		return h
	}
	for i, v := range t.cols[j] {
		if !math.IsNaN(v) {
			h.Append(t.dates[i], v)
		}
	}
	return h
}

// Tail returns a table with only the last n rows.
func (t Table) Tail(n int) Table {
	if n >= len(t.dates) {
		return t
	}
	from := len(t.dates) - max(n, 0)
	out := Table{dates: t.dates[from:], tickers: t.tickers, cols: make([][]float64, len(t.cols))}
	for j, col := range t.cols {
		out.cols[j] = col[from:]
	}
	return out
}

// Returns computes the per-asset return table of a price table.
//
// A missing price carries the last known price of its column forward, so a
// ticker-specific gap gives a zero return on the gap day and the whole move
// on the next priced day. The first row is discarded and so is every row
// still holding an undefined return, which only happens before a ticker's
// first price: statistics on the resulting table all use the same dates.
func Returns(prices Table) Table {
	out := Table{tickers: prices.Tickers(), cols: make([][]float64, len(prices.tickers))}
	if len(prices.tickers) == 0 {
		return out
	}
	last := make([]float64, len(prices.tickers))
	for j, col := range prices.cols {
		if len(col) > 0 {
			last[j] = col[0]
		}
	}
	row := make([]float64, len(prices.tickers))
	for i := 1; i < len(prices.dates); i++ {
		complete := true
		for j, col := range prices.cols {
			p := col[i]
			if math.IsNaN(p) {
				p = last[j]
			}
			row[j] = p/last[j] - 1 // NaN until the first price
			last[j] = p
			if math.IsNaN(row[j]) {
				complete = false
			}
		}
		if !complete {
			continue
		}
		out.dates = append(out.dates, prices.dates[i])
		for j := range out.cols {
			out.cols[j] = append(out.cols[j], row[j])
		}
	}
	return out
}

// Series is a named, chronological date->value association.
type Series struct {
	Name string
	h    *date.History[float64]
}

// NewSeries returns a Series named name over h.
func NewSeries(name string, h *date.History[float64]) Series {
	if h == nil {
		h = new(date.History[float64])
	}
	return Series{Name: name, h: h}
}

// Len returns the number of observations.
func (s Series) Len() int {
	if s.h == nil {
		return 0
	}
	return s.h.Len()
}

// Values returns an iterator over the observations in chronological order.
func (s Series) Values() iter.Seq2[date.Date, float64] {
	if s.h == nil {
		return func(func(date.Date, float64) bool) {}
	}
	return s.h.Values()
}

// Slice returns a copy of the values in chronological order.
func (s Series) Slice() []float64 {
	if s.h == nil {
		return nil
	}
	return s.h.Slice()
}

// Days returns a copy of the dates in chronological order.
func (s Series) Days() []date.Date {
	if s.h == nil {
		return nil
	}
	return s.h.Days()
}

// Get returns the value on day.
func (s Series) Get(day date.Date) (float64, bool) {
	if s.h == nil {
		return 0, false
	}
	return s.h.Get(day)
}
