package riskreport

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/etnz/riskreport/date"
	"gonum.org/v1/gonum/floats"
)

// Weights maps a ticker to its non-negative portfolio weight.
//
// A nil Weights means equal weight over the tickers actually present.
type Weights map[string]float64

// EqualWeights returns 1/N for each of the N tickers.
func EqualWeights(tickers []string) Weights {
	w := make(Weights, len(tickers))
	for _, t := range tickers {
		w[t] = 1.0 / float64(len(tickers))
	}
	return w
}

// ParseWeights parses a comma separated list of ticker=weight pairs,
// e.g. "AAPL=0.5,MSFT=0.3,GOOG=0.2". An empty string returns nil Weights.
func ParseWeights(s string) (Weights, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	w := make(Weights)
	for _, pair := range strings.Split(s, ",") {
		ticker, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		ticker = strings.ToUpper(strings.TrimSpace(ticker))
		if !ok || ticker == "" {
			return nil, fmt.Errorf("invalid weight %q, want TICKER=WEIGHT", pair)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight for %s: %w", ticker, err)
		}
		if f < 0 {
			return nil, fmt.Errorf("invalid weight for %s: %v is negative", ticker, f)
		}
		w[ticker] = f
	}
	return w, nil
}

// align returns the weight vector for tickers.
//
// Weights of tickers not in the list are dropped, and tickers without a
// weight get 0. The vector is not re-normalized: weights that summed to 1
// before alignment may not after. The nil Weights is the equal
// weight over tickers.
func (w Weights) align(tickers []string) []float64 {
	if w == nil {
		w = EqualWeights(tickers)
	}
	v := make([]float64, len(tickers))
	for j, t := range tickers {
		v[j] = w[t] // missing is 0
	}
	return v
}

// ComputePortfolioReturns combines per-asset returns into a portfolio return
// series: on each date, the dot product of the returns with the weights.
func ComputePortfolioReturns(returns Table, w Weights) Series {
	weights := w.align(returns.tickers)
	h := new(date.History[float64])
	for day, row := range returns.Rows() {
		h.Append(day, floats.Dot(row, weights))
	}
	return NewSeries("Portfolio", h)
}
