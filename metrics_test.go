package riskreport

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func TestReturns_CarriesGapsForward(t *testing.T) {
	nan := math.NaN()
	table := prices(
		"A", daily(100, 110, nan, 99, 99),
		"B", daily(50, 50, 50, 55, 44),
	)
	rets := Returns(table)

	// A's gap is a flat day, the next day moves from the last known price.
	require.Equal(t, 4, rets.Len())
	assert.InDeltaSlice(t, []float64{0.1, 0, -0.1, 0}, rets.Values("A"), tolerance)
	assert.InDeltaSlice(t, []float64{0, 0, 0.1, -0.2}, rets.Values("B"), tolerance)
	assert.Equal(t, day0.Add(1), rets.Dates()[0])
	assert.Equal(t, day0.Add(4), rets.Dates()[3])
}

func TestReturns_DropsLeadingGaps(t *testing.T) {
	nan := math.NaN()
	rets := Returns(prices(
		"A", daily(100, 101, 102, 103),
		"B", daily(nan, nan, 50, 40),
	))

	// B has no return before its second price.
	require.Equal(t, 1, rets.Len())
	assert.Equal(t, day0.Add(3), rets.Dates()[0])
	assert.InDelta(t, -0.2, rets.At(0, 1), tolerance)
}

func TestComputeRiskMetrics_GapInOtherTicker(t *testing.T) {
	nan := math.NaN()
	a := daily(100, 102, 101, 104, 103)
	alone := ComputeRiskMetrics(prices("A", a))
	withGap := ComputeRiskMetrics(prices(
		"A", a,
		"B", daily(50, 51, nan, 52, 53),
	))

	// B's missing day changes neither A's statistics nor the number of days.
	require.Equal(t, 4, withGap.Returns.Len())
	volAlone, _ := alone.Volatility.Get("A")
	volA, _ := withGap.Volatility.Get("A")
	assert.InDelta(t, volAlone, volA, tolerance)
	sharpeAlone, _ := alone.Sharpe.Get("A")
	sharpeA, _ := withGap.Sharpe.Get("A")
	assert.InDelta(t, sharpeAlone, sharpeA, tolerance)

	portfolio := ComputePortfolioReturns(withGap.Returns, nil)
	assert.Equal(t, 4, portfolio.Len())
}

func TestComputeRiskMetrics(t *testing.T) {
	table := prices(
		"A", daily(100, 110, 99),
		"B", daily(1, 2, 4),
		"C", daily(100, 90, 85),
	)
	m := ComputeRiskMetrics(table)

	// A: returns 0.1, -0.1
	volA, _ := m.Volatility.Get("A")
	assert.InDelta(t, math.Sqrt(0.02)*math.Sqrt(252), volA, tolerance)
	sharpeA, _ := m.Sharpe.Get("A")
	assert.InDelta(t, 0, sharpeA, tolerance)

	// B: returns 1, 1. Zero deviation makes the Sharpe ratio undefined.
	volB, _ := m.Volatility.Get("B")
	assert.InDelta(t, 0, volB, tolerance)
	sharpeB, _ := m.Sharpe.Get("B")
	assert.True(t, math.IsNaN(sharpeB))

	// Presentation order: volatility and Sharpe descending (NaN last), drawdown ascending.
	assert.Equal(t, "A", m.Volatility[0].Ticker)
	assert.Equal(t, "B", m.Sharpe[len(m.Sharpe)-1].Ticker)
	assert.Equal(t, []string{"C", "A", "B"}, m.MaxDrawdown.Tickers())

	mddC, _ := m.MaxDrawdown.Get("C")
	assert.InDelta(t, 85.0/100-1, mddC, tolerance)
	mddA, _ := m.MaxDrawdown.Get("A")
	assert.InDelta(t, 99.0/110-1, mddA, tolerance)
}

func TestComputeRiskMetrics_SingleRow(t *testing.T) {
	m := ComputeRiskMetrics(prices("A", daily(100), "B", daily(50)))

	assert.Equal(t, 0, m.Returns.Len())
	for _, s := range append(m.Volatility, m.Sharpe...) {
		assert.True(t, math.IsNaN(s.Value), "%s should be NaN", s.Ticker)
	}
	assert.True(t, math.IsNaN(m.Correlation.At(0, 1)))
	mdd, _ := m.MaxDrawdown.Get("A")
	assert.Equal(t, 0.0, mdd)
}

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		want   float64
	}{
		{"increasing", []float64{1, 2, 3, 4}, 0},
		{"decreasing", []float64{10, 8, 5, 4}, 4.0/10 - 1},
		{"recovering", []float64{100, 50, 200, 150}, -0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MaxDrawdown(tt.prices), tolerance)
		})
	}
	assert.True(t, math.IsNaN(MaxDrawdown(nil)))
}

func TestMaxDrawdown_UsesOwnHistory(t *testing.T) {
	nan := math.NaN()
	// B only starts trading on the third day, its drawdown ignores A's dates.
	m := ComputeRiskMetrics(prices(
		"A", daily(100, 101, 102, 103),
		"B", daily(nan, nan, 50, 40),
	))
	mdd, _ := m.MaxDrawdown.Get("B")
	assert.InDelta(t, -0.2, mdd, tolerance)
}

func TestCorrelation_SymmetricUnitDiagonal(t *testing.T) {
	m := ComputeRiskMetrics(prices(
		"A", daily(100, 102, 101, 105, 103, 108),
		"B", daily(50, 49, 51, 50, 53, 52),
		"C", daily(10, 10.5, 10.2, 10.9, 10.4, 11.2),
	))
	c := m.Correlation
	require.Equal(t, 3, c.Len())
	for i := 0; i < c.Len(); i++ {
		assert.InDelta(t, 1, c.At(i, i), tolerance)
		for j := 0; j < c.Len(); j++ {
			assert.InDelta(t, c.At(i, j), c.At(j, i), tolerance)
			assert.LessOrEqual(t, math.Abs(c.At(i, j)), 1+tolerance)
		}
	}
	ab, ok := c.Between("A", "B")
	require.True(t, ok)
	assert.Equal(t, c.At(0, 1), ab)
}

func TestCorrelation_PairwiseComplete(t *testing.T) {
	nan := math.NaN()
	// A and B overlap on three dates, C only on two of them with A.
	table := prices(
		"A", daily(1, 2, 3, 4),
		"B", daily(2, 4, 6, nan),
		"C", daily(nan, nan, 3, 1),
	)
	c := correlate(table)

	ab, _ := c.Between("A", "B")
	assert.InDelta(t, 1, ab, tolerance)
	ac, _ := c.Between("A", "C")
	assert.InDelta(t, -1, ac, tolerance)
	bc, _ := c.Between("B", "C")
	assert.True(t, math.IsNaN(bc), "a single overlapping row has no correlation")
}
