package riskreport

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/etnz/riskreport/date"
	"gonum.org/v1/gonum/stat"
)

// Defaults used when an option is left empty.
var (
	DefaultAlphas    = []float64{0.95, 0.99}
	DefaultShocks    = []float64{-0.05, -0.10, -0.20}
	DefaultWorstDays = 5
)

// TailRisk is the historical Value-at-Risk and Expected Shortfall at a
// confidence level, both as positive loss magnitudes.
type TailRisk struct {
	Alpha float64
	VaR   float64
	ES    float64
}

// VaRLabel returns the row label of the VaR, e.g. "VaR@95".
//
// The level is rounded to the nearest percent, so an Alpha of 0.29 is
// labeled "VaR@29" even though 0.29*100 is slightly below 29 in floating
// point and would truncate to 28.
func (t TailRisk) VaRLabel() string { return fmt.Sprintf("VaR@%d", percent(t.Alpha)) }

// ESLabel returns the row label of the ES, e.g. "ES@95". It rounds like
// VaRLabel.
func (t TailRisk) ESLabel() string { return fmt.Sprintf("ES@%d", percent(t.Alpha)) }

// TailRiskTable holds one TailRisk per configured confidence level.
type TailRiskTable []TailRisk

// ValueAtRiskAndExpectedShortfall estimates VaR and ES by historical
// simulation on the portfolio returns. Undefined returns are ignored.
//
// VaR(α) is the α-quantile of losses (linear interpolation between order
// statistics), ES(α) the mean of the losses at or beyond VaR(α), NaN when
// there is none. Nil alphas defaults to DefaultAlphas.
func ValueAtRiskAndExpectedShortfall(portfolio Series, alphas []float64) TailRiskTable {
	if alphas == nil {
		alphas = DefaultAlphas
	}
	losses := make([]float64, 0, portfolio.Len())
	for _, r := range portfolio.Values() {
		if !math.IsNaN(r) {
			losses = append(losses, -r) // positive is a loss
		}
	}
	sorted := slices.Clone(losses)
	slices.Sort(sorted)

	table := make(TailRiskTable, 0, len(alphas))
	for _, a := range alphas {
		v := Quantile(sorted, a)
		var tail []float64
		for _, l := range losses {
			if l >= v {
				tail = append(tail, l)
			}
		}
		es := math.NaN()
		if len(tail) > 0 {
			es = stat.Mean(tail, nil)
		}
		table = append(table, TailRisk{Alpha: a, VaR: v, ES: es})
	}
	return table
}

// Quantile returns the p-quantile of sorted values using linear
// interpolation between the closest ranks: h = (n-1)p, then
// x[⌊h⌋] + (h-⌊h⌋)(x[⌊h⌋+1]-x[⌊h⌋]). It returns NaN for an empty input.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 || math.IsNaN(p) {
		return math.NaN()
	}
	h := float64(n-1) * math.Min(math.Max(p, 0), 1)
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// Stress is the portfolio P&L under a uniform shock.
type Stress struct {
	Shock      float64 // e.g. -0.05
	PnLPercent float64 // the shock in percent, e.g. -5
}

// Label returns the row label of the scenario, e.g. "Shock -5%".
func (s Stress) Label() string { return fmt.Sprintf("Shock %d%%", percent(s.Shock)) }

// StressTable holds one Stress per configured shock.
type StressTable []Stress

// StressScenarios applies each uniform shock to the whole portfolio. The
// P&L is the declared shock itself, in percent: under a linear shock it
// depends neither on the prices nor on the weights. Nil shocks defaults to
// DefaultShocks.
func StressScenarios(prices Table, w Weights, shocks []float64) StressTable {
	if shocks == nil {
		shocks = DefaultShocks
	}
	table := make(StressTable, 0, len(shocks))
	for _, s := range shocks {
		table = append(table, Stress{Shock: s, PnLPercent: s * 100.0})
	}
	return table
}

// WorstDay is one of the most negative portfolio returns.
type WorstDay struct {
	Date        date.Date
	Return      float64 // signed, negative for a loss
	LossPercent float64 // -Return * 100
}

// WorstDaysTable lists worst days, most negative return first.
type WorstDaysTable []WorstDay

// WorstDays returns the k most negative returns of the series sorted
// ascending. Undefined returns are ignored and ties keep date order.
func WorstDays(portfolio Series, k int) WorstDaysTable {
	var rows WorstDaysTable
	for day, r := range portfolio.Values() {
		if !math.IsNaN(r) {
			rows = append(rows, WorstDay{Date: day, Return: r, LossPercent: -r * 100.0})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Return < rows[j].Return })
	k = max(k, 0)
	if len(rows) > k {
		rows = rows[:k]
	}
	return rows
}

// percent converts a fraction to a rounded integer percentage for labels.
func percent(f float64) int { return int(math.Round(f * 100)) }
