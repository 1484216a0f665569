package riskreport

import (
	"math"
	"testing"

	"github.com/etnz/riskreport/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Empty(t *testing.T) {
	for _, raw := range []RawPrices{
		{},
		NewRawSeries("AAPL", nil),
		NewRawPanel([]string{"AAPL"}, map[string]map[string]*date.History[float64]{
			FieldClose: {"AAPL": new(date.History[float64])},
		}),
	} {
		got, err := Normalize(raw)
		require.NoError(t, err, "kind %v", raw.Kind)
		assert.True(t, got.IsEmpty(), "kind %v", raw.Kind)
	}
}

func TestNormalize_SeriesEqualsOneColumnTable(t *testing.T) {
	fromSeries, err := Normalize(NewRawSeries("AAPL", daily(100, 101, 99)))
	require.NoError(t, err)

	fromFlat, err := Normalize(NewRawFlat("AAPL", map[string]*date.History[float64]{
		FieldAdjClose: daily(100, 101, 99),
		FieldOpen:     daily(1, 2, 3),
	}))
	require.NoError(t, err)

	fromPanel, err := Normalize(NewRawPanel([]string{"AAPL"}, map[string]map[string]*date.History[float64]{
		FieldAdjClose: {"AAPL": daily(100, 101, 99)},
	}))
	require.NoError(t, err)

	assert.Equal(t, fromSeries, fromFlat)
	assert.Equal(t, fromSeries, fromPanel)
	assert.Equal(t, []string{"AAPL"}, fromSeries.Tickers())
	assert.Equal(t, []float64{100, 101, 99}, fromSeries.Values("AAPL"))
}

func TestNormalize_FieldFallbackOrder(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   float64 // first price of the selected field
	}{
		{"adjusted close wins", []string{"Open", "Close", "Adj Close"}, 3},
		{"close without adjusted", []string{"Open", "Close"}, 2},
		{"prefix match ignores case", []string{"Open", "CLOSE_PRICE"}, 4},
		{"first prefix match in name order", []string{"close_b", "close_a"}, 5},
	}
	values := map[string]float64{"Open": 1, "Close": 2, "Adj Close": 3, "CLOSE_PRICE": 4, "close_a": 5, "close_b": 6}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			panel := make(map[string]map[string]*date.History[float64])
			for _, f := range tt.fields {
				panel[f] = map[string]*date.History[float64]{"AAPL": daily(values[f], values[f])}
			}
			got, err := Normalize(NewRawPanel([]string{"AAPL"}, panel))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.At(0, 0))
		})
	}
}

func TestNormalize_SchemaError(t *testing.T) {
	raw := NewRawPanel([]string{"AAPL"}, map[string]map[string]*date.History[float64]{
		"Volume": {"AAPL": daily(10, 20)},
		"Open":   {"AAPL": daily(1, 2)},
	})
	_, err := Normalize(raw)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"Open", "Volume"}, schemaErr.Fields)

	_, err = Normalize(NewRawFlat("AAPL", map[string]*date.History[float64]{"High": daily(1)}))
	assert.ErrorAs(t, err, &schemaErr)
}

func TestNormalize_NoDataError(t *testing.T) {
	nan := math.NaN()
	raw := NewRawPanel([]string{"AAPL", "NOPE"}, map[string]map[string]*date.History[float64]{
		FieldClose: {
			"AAPL": daily(nan, nan),
			"NOPE": daily(nan, nan),
		},
	})
	_, err := Normalize(raw)

	var noData *NoDataError
	require.ErrorAs(t, err, &noData)
	assert.Equal(t, []string{"AAPL", "NOPE"}, noData.Tickers)
}

func TestNormalize_DropsNullTickersKeepsRequestOrder(t *testing.T) {
	nan := math.NaN()
	raw := NewRawPanel([]string{"MSFT", "NOPE", "AAPL"}, map[string]map[string]*date.History[float64]{
		FieldClose: {
			"AAPL": daily(10, 11),
			"NOPE": daily(nan, nan),
			"MSFT": dailyFrom(day0.Add(1), 20),
		},
	})
	got, err := Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"MSFT", "AAPL"}, got.Tickers())
	assert.Equal(t, []date.Date{day0, day0.Add(1)}, got.Dates())
	// MSFT has a ticker-specific gap on the first day.
	assert.True(t, math.IsNaN(got.Values("MSFT")[0]))
	assert.Equal(t, 1, got.Column("MSFT").Len())
}
