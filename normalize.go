package riskreport

import (
	"math"
	"slices"
	"strings"

	"github.com/etnz/riskreport/date"
)

// Normalize turns a raw price payload into a Table with one adjusted-close
// column per ticker.
//
// An empty payload yields an empty Table and no error: the caller must skip
// the rest of the pipeline. A payload with no recognizable close-like field
// fails with *SchemaError, and a payload where every ticker is entirely null
// fails with *NoDataError.
func Normalize(raw RawPrices) (Table, error) {
	if raw.IsEmpty() {
		return Table{}, nil
	}

	var columns []column
	switch raw.Kind {
	case RawSeries:
		columns = []column{{ticker: firstTicker(raw), prices: raw.Series}}

	case RawFlat:
		field, ok := selectCloseField(raw.FieldNames())
		if !ok {
			return Table{}, &SchemaError{Fields: raw.FieldNames()}
		}
		columns = []column{{ticker: firstTicker(raw), prices: raw.Fields[field]}}

	case RawPanel:
		field, ok := selectCloseField(raw.FieldNames())
		if !ok {
			return Table{}, &SchemaError{Fields: raw.FieldNames()}
		}
		byTicker := raw.Panel[field]
		for _, ticker := range panelTickers(raw.Tickers, byTicker) {
			columns = append(columns, column{ticker: ticker, prices: byTicker[ticker]})
		}
	}

	// Drop tickers with no data at all (e.g. invalid tickers).
	columns = slices.DeleteFunc(columns, func(c column) bool { return allNull(c.prices) })
	if len(columns) == 0 {
		return Table{}, &NoDataError{Tickers: raw.Tickers}
	}
	return newTable(columns), nil
}

// selectCloseField picks the field holding close prices.
//
// The order is significant: an explicit adjusted close first, then the plain
// close, then the first field (in lexicographic order) whose name starts with
// "close" regardless of case.
//
// Adjusted close wins over close even when both are present, so that splits
// and dividends do not show up as returns.
func selectCloseField(fields []string) (string, bool) {
	if slices.Contains(fields, FieldAdjClose) {
		return FieldAdjClose, true
	}
	if slices.Contains(fields, FieldClose) {
		return FieldClose, true
	}
	for _, f := range fields { // fields are sorted
		if strings.HasPrefix(strings.ToLower(f), "close") {
			return f, true
		}
	}
	return "", false
}

// panelTickers returns the tickers of a panel field: requested tickers first
// in request order, then any unrequested ticker in lexicographic order.
func panelTickers(requested []string, byTicker map[string]*date.History[float64]) []string {
	out := make([]string, 0, len(byTicker))
	for _, t := range requested {
		if _, ok := byTicker[t]; ok && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	var extra []string
	for t := range byTicker {
		if !slices.Contains(out, t) {
			extra = append(extra, t)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}

func firstTicker(raw RawPrices) string {
	if len(raw.Tickers) == 0 || raw.Tickers[0] == "" {
		return "Price"
	}
	return raw.Tickers[0]
}

func allNull(h *date.History[float64]) bool {
	if h == nil {
		return true
	}
	for _, v := range h.Values() {
		if !math.IsNaN(v) {
			return false
		}
	}
	return true
}
