package riskreport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePortfolioReturns_EqualWeightIdenticalColumns(t *testing.T) {
	p := daily(100, 103, 99, 104, 101)
	rets := Returns(prices("A", p, "B", p, "C", p))

	port := ComputePortfolioReturns(rets, nil)
	want := rets.Values("A")
	got := port.Slice()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-15)
	}
	assert.Equal(t, rets.Dates(), port.Days())
}

func TestComputePortfolioReturns_EndToEndExample(t *testing.T) {
	rets := Returns(prices("A", daily(100, 95, 90), "B", daily(50, 52, 54)))
	port := ComputePortfolioReturns(rets, nil)

	require.Equal(t, 2, port.Len())
	got := port.Slice()
	assert.InDelta(t, (-0.05+0.04)/2, got[0], tolerance)
	assert.InDelta(t, (90.0/95-1+54.0/52-1)/2, got[1], tolerance)
}

func TestComputePortfolioReturns_WeightsAreNotRenormalized(t *testing.T) {
	rets := Returns(prices("A", daily(100, 110), "B", daily(100, 120)))

	// GOOG is not in the table and its weight is dropped, B is missing and gets 0.
	port := ComputePortfolioReturns(rets, Weights{"A": 0.5, "GOOG": 0.5})
	assert.InDelta(t, 0.5*0.1, port.Slice()[0], tolerance)
}

func TestParseWeights(t *testing.T) {
	tests := []struct {
		in      string
		want    Weights
		wantErr bool
	}{
		{"", nil, false},
		{"aapl=0.5, MSFT=0.5", Weights{"AAPL": 0.5, "MSFT": 0.5}, false},
		{"AAPL", nil, true},
		{"AAPL=x", nil, true},
		{"AAPL=-1", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseWeights(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "ParseWeights(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "ParseWeights(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseWeights(%q)", tt.in)
	}
}
