package riskreport

import (
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// TradingDays is the number of trading days per year used to annualize
// daily statistics. It is a convention, not derived from the data.
const TradingDays = 252.0

// Stat is a single statistic for a ticker.
type Stat struct {
	Ticker string
	Value  float64
}

// Ranking is an ordered list of per-ticker statistics.
type Ranking []Stat

// Get returns the value for ticker.
func (r Ranking) Get(ticker string) (float64, bool) {
	for _, s := range r {
		if s.Ticker == ticker {
			return s.Value, true
		}
	}
	return math.NaN(), false
}

// Tickers returns the tickers in ranking order.
func (r Ranking) Tickers() []string {
	out := make([]string, len(r))
	for i, s := range r {
		out[i] = s.Ticker
	}
	return out
}

// descending sorts largest first, NaN last, ties in original order.
func (r Ranking) descending() Ranking {
	sort.SliceStable(r, func(i, j int) bool { return less(-r[i].Value, -r[j].Value) })
	return r
}

// ascending sorts smallest first, NaN last, ties in original order.
func (r Ranking) ascending() Ranking {
	sort.SliceStable(r, func(i, j int) bool { return less(r[i].Value, r[j].Value) })
	return r
}

// less orders numbers with NaN greater than everything.
func less(a, b float64) bool {
	switch {
	case math.IsNaN(a):
		return false
	case math.IsNaN(b):
		return true
	default:
		return a < b
	}
}

// Correlation is a symmetric ticker x ticker correlation matrix.
type Correlation struct {
	tickers []string
	m       *mat.SymDense
}

// Tickers returns the row (and column) names of the matrix.
func (c Correlation) Tickers() []string { return slices.Clone(c.tickers) }

// Len returns the matrix dimension.
func (c Correlation) Len() int { return len(c.tickers) }

// At returns the correlation between the i-th and j-th tickers.
func (c Correlation) At(i, j int) float64 { return c.m.At(i, j) }

// Between returns the correlation between tickers a and b.
func (c Correlation) Between(a, b string) (float64, bool) {
	i, j := slices.Index(c.tickers, a), slices.Index(c.tickers, b)
	if i < 0 || j < 0 {
		return math.NaN(), false
	}
	return c.m.At(i, j), true
}

// Matrix exposes the underlying matrix.
func (c Correlation) Matrix() mat.Symmetric { return c.m }

// MetricsBundle holds the per-asset risk statistics of a report run.
type MetricsBundle struct {
	Returns     Table   // per-asset daily returns
	Volatility  Ranking // annualized volatility, largest first
	Sharpe      Ranking // naive annualized Sharpe ratio, largest first
	MaxDrawdown Ranking // maximum drawdown, worst (most negative) first
	Correlation Correlation
}

// ComputeRiskMetrics computes per-asset volatility, Sharpe ratio, maximum
// drawdown and return correlations.
//
// A price table with a single row yields an empty return table and NaN
// statistics rather than an error.
func ComputeRiskMetrics(prices Table) MetricsBundle {
	rets := Returns(prices)
	tickers := rets.Tickers()

	b := MetricsBundle{
		Returns:     rets,
		Volatility:  make(Ranking, len(tickers)),
		Sharpe:      make(Ranking, len(tickers)),
		MaxDrawdown: make(Ranking, 0, len(tickers)),
		Correlation: correlate(rets),
	}
	for j, ticker := range tickers {
		x := rets.cols[j]
		b.Volatility[j] = Stat{ticker, AnnualizedVolatility(x)}
		b.Sharpe[j] = Stat{ticker, NaiveSharpe(x)}
	}
	// Drawdowns use each ticker's own price history, not the aligned returns.
	for _, ticker := range prices.Tickers() {
		b.MaxDrawdown = append(b.MaxDrawdown, Stat{ticker, MaxDrawdown(prices.Column(ticker).Slice())})
	}
	b.Volatility.descending()
	b.Sharpe.descending()
	b.MaxDrawdown.ascending()
	return b
}

// AnnualizedVolatility returns the sample standard deviation of daily
// returns scaled by the square root of TradingDays.
func AnnualizedVolatility(returns []float64) float64 {
	return stdDev(returns) * math.Sqrt(TradingDays)
}

// NaiveSharpe returns the annualized ratio of the mean daily return to its
// standard deviation, with no risk-free rate. A zero deviation yields NaN.
func NaiveSharpe(returns []float64) float64 {
	sd := stdDev(returns)
	if sd == 0 || math.IsNaN(sd) {
		return math.NaN()
	}
	return stat.Mean(returns, nil) / sd * math.Sqrt(TradingDays)
}

// MaxDrawdown returns the minimum of price / running maximum - 1 over prices.
// It is 0 for a non-decreasing series and NaN for an empty one.
func MaxDrawdown(prices []float64) float64 {
	if len(prices) == 0 {
		return math.NaN()
	}
	peak, worst := prices[0], 0.0
	for _, p := range prices {
		peak = math.Max(peak, p)
		worst = math.Min(worst, p/peak-1)
	}
	return worst
}

// stdDev is the sample standard deviation, NaN with fewer than two values.
func stdDev(x []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	return stat.StdDev(x, nil)
}

// correlate computes the Pearson correlation of every pair of columns using
// only the rows where both values are defined.
func correlate(t Table) Correlation {
	n := len(t.tickers)
	if n == 0 {
		return Correlation{m: &mat.SymDense{}}
	}
	c := Correlation{tickers: t.Tickers(), m: mat.NewSymDense(n, nil)}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			x, y := pairwiseComplete(t.cols[i], t.cols[j])
			r := math.NaN()
			if len(x) >= 2 {
				r = stat.Correlation(x, y, nil)
			}
			if i == j && !math.IsNaN(r) {
				r = 1 // exact on the diagonal
			}
			c.m.SetSym(i, j, r)
		}
	}
	return c
}

// pairwiseComplete returns the values of a and b on the rows where both are defined.
func pairwiseComplete(a, b []float64) (x, y []float64) {
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x, y = append(x, a[i]), append(y, b[i])
	}
	return x, y
}
