package riskreport

import (
	"github.com/etnz/riskreport/date"
)

// day0 is the first date of test histories.
var day0 = date.New(2025, 1, 1)

// daily returns a history of consecutive days starting at day0.
func daily(values ...float64) *date.History[float64] {
	return dailyFrom(day0, values...)
}

// dailyFrom returns a history of consecutive days starting at start.
func dailyFrom(start date.Date, values ...float64) *date.History[float64] {
	h := new(date.History[float64])
	for i, v := range values {
		h.Append(start.Add(i), v)
	}
	return h
}

// prices builds a price table from ticker/history pairs, in order.
func prices(pairs ...any) Table {
	var tickers []string
	histories := make(map[string]*date.History[float64])
	for i := 0; i < len(pairs); i += 2 {
		t := pairs[i].(string)
		tickers = append(tickers, t)
		histories[t] = pairs[i+1].(*date.History[float64])
	}
	return NewTable(tickers, histories)
}
