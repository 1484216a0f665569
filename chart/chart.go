// Package chart draws price tables as PNG line charts.
package chart

import (
	"errors"
	"math"

	"github.com/etnz/riskreport"
	"github.com/vicanso/go-charts/v2"
)

// Base is the value every rebased series starts from.
const Base = 100.0

// Rebase returns one series per ticker of the table, rebased so that the
// first price is Base. Missing prices carry the previous value forward,
// and are Base before the first price.
func Rebase(prices riskreport.Table) [][]float64 {
	tickers := prices.Tickers()
	values := make([][]float64, len(tickers))
	for j, ticker := range tickers {
		col := prices.Values(ticker)
		out := make([]float64, len(col))
		first := math.NaN()
		last := Base
		for i, v := range col {
			if !math.IsNaN(v) {
				if math.IsNaN(first) {
					first = v
				}
				last = v / first * Base
			}
			out[i] = last
		}
		values[j] = out
	}
	return values
}

// Prices renders the rebased prices of the table as a PNG image.
func Prices(prices riskreport.Table, title string) ([]byte, error) {
	if prices.IsEmpty() {
		return nil, errors.New("no prices to chart")
	}
	var labels []string
	for _, day := range prices.Dates() {
		labels = append(labels, day.Format("2006-01-02"))
	}
	names := prices.Tickers()

	seriesList := charts.NewSeriesListDataFromValues(Rebase(prices), charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = names[i]
	}
	painter, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc(title, "rebased to 100"),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, BoundaryGap: charts.FalseFlag(), SplitNumber: 6}),
		charts.YAxisOptionFunc(charts.YAxisOption{DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names, Left: charts.PositionRight}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(800),
		charts.HeightOptionFunc(400),
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}
