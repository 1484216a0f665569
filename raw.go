package riskreport

import (
	"maps"
	"slices"

	"github.com/etnz/riskreport/date"
)

// Field names commonly returned by price sources.
const (
	FieldAdjClose = "Adj Close"
	FieldClose    = "Close"
	FieldOpen     = "Open"
)

// RawKind tells which shape a RawPrices payload has.
type RawKind int

const (
	RawEmpty  RawKind = iota // nothing was returned
	RawSeries                // a single price series for a single ticker
	RawFlat                  // several fields (Open, Close, ...) for a single ticker
	RawPanel                 // two-level table keyed by field, then by ticker
)

func (k RawKind) String() string {
	switch k {
	case RawEmpty:
		return "empty"
	case RawSeries:
		return "series"
	case RawFlat:
		return "flat"
	case RawPanel:
		return "panel"
	default:
		return "unknown"
	}
}

// RawPrices is the source-specific result of a price-history fetch.
//
// Missing observations are stored as NaN.
type RawPrices struct {
	Kind    RawKind
	Tickers []string // requested tickers, in request order

	Series *date.History[float64]                       // RawSeries
	Fields map[string]*date.History[float64]            // RawFlat: field -> prices
	Panel  map[string]map[string]*date.History[float64] // RawPanel: field -> ticker -> prices
}

// NewRawSeries returns a payload made of a single series of prices for ticker.
func NewRawSeries(ticker string, prices *date.History[float64]) RawPrices {
	return RawPrices{Kind: RawSeries, Tickers: []string{ticker}, Series: prices}
}

// NewRawFlat returns a payload made of several fields for a single ticker.
func NewRawFlat(ticker string, fields map[string]*date.History[float64]) RawPrices {
	return RawPrices{Kind: RawFlat, Tickers: []string{ticker}, Fields: fields}
}

// NewRawPanel returns a payload keyed by field then by ticker.
func NewRawPanel(tickers []string, panel map[string]map[string]*date.History[float64]) RawPrices {
	return RawPrices{Kind: RawPanel, Tickers: tickers, Panel: panel}
}

// IsEmpty reports whether the payload holds no observation at all.
func (r RawPrices) IsEmpty() bool {
	switch r.Kind {
	case RawSeries:
		return r.Series == nil || r.Series.Len() == 0
	case RawFlat:
		for _, h := range r.Fields {
			if h != nil && h.Len() > 0 {
				return false
			}
		}
	case RawPanel:
		for _, byTicker := range r.Panel {
			for _, h := range byTicker {
				if h != nil && h.Len() > 0 {
					return false
				}
			}
		}
	}
	return true
}

// FieldNames returns the sorted field names observed in the payload.
func (r RawPrices) FieldNames() []string {
	switch r.Kind {
	case RawFlat:
		return slices.Sorted(maps.Keys(r.Fields))
	case RawPanel:
		return slices.Sorted(maps.Keys(r.Panel))
	}
	return nil
}
