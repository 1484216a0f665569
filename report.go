package riskreport

// Options tunes a report run. The zero value is the default report, except
// for WorstDays which must be negative to get DefaultWorstDays.
type Options struct {
	Weights   Weights   // nil for equal weight
	Alphas    []float64 // VaR/ES confidence levels, nil for DefaultAlphas
	Shocks    []float64 // uniform stress shocks, nil for DefaultShocks
	WorstDays int       // number of worst days, negative for DefaultWorstDays

	SkipTailRisk bool // do not compute VaR/ES
	SkipStress   bool // do not compute stress scenarios and worst days
}

// Report is the result of a report run.
type Report struct {
	Prices    Table
	Metrics   MetricsBundle
	Portfolio Series // portfolio daily returns

	TailRisk  TailRiskTable  // nil when skipped
	Stress    StressTable    // nil when skipped
	WorstDays WorstDaysTable // nil when skipped
}

// NewReport runs the analytics pipeline on a normalized price table.
//
// It returns ErrEmptyPrices when prices is empty.
func NewReport(prices Table, opts Options) (*Report, error) {
	if prices.IsEmpty() {
		return nil, ErrEmptyPrices
	}
	k := opts.WorstDays
	if k < 0 {
		k = DefaultWorstDays
	}

	r := &Report{Prices: prices}
	r.Metrics = ComputeRiskMetrics(prices)
	r.Portfolio = ComputePortfolioReturns(r.Metrics.Returns, opts.Weights)
	if !opts.SkipTailRisk {
		r.TailRisk = ValueAtRiskAndExpectedShortfall(r.Portfolio, opts.Alphas)
	}
	if !opts.SkipStress {
		r.Stress = StressScenarios(prices, opts.Weights, opts.Shocks)
		r.WorstDays = WorstDays(r.Portfolio, k)
	}
	return r, nil
}
