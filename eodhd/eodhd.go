// Package eodhd fetches daily price histories from EOD Historical Data.
//
// See https://eodhd.com/financial-apis/api-for-historical-data-and-volumes
package eodhd

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/etnz/riskreport"
	"github.com/etnz/riskreport/date"
	"github.com/etnz/riskreport/httpcache"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BaseURL is the root of the EODHD API.
var BaseURL = "https://eodhd.com/api"

// Symbol returns the EODHD ticker for a ticker. EODHD tickers have the
// "SYMBOL.EXCHANGE" format, a ticker without an exchange is looked up on
// the US virtual exchange.
func Symbol(ticker string) string {
	if strings.Contains(ticker, ".") {
		return ticker
	}
	return ticker + ".US"
}

// Fetch downloads daily prices for each ticker between from and to (both
// included, zero means unbounded).
//
// One ticker yields a Flat payload with the Open, Close and Adj Close fields,
// several tickers yield a Panel keyed by the same fields. A ticker unknown
// to EODHD is left empty.
func Fetch(ctx context.Context, apiKey string, tickers []string, from, to date.Date) (riskreport.RawPrices, error) {
	if len(tickers) == 0 {
		return riskreport.RawPrices{}, nil
	}
	panel := map[string]map[string]*date.History[float64]{
		riskreport.FieldOpen:     {},
		riskreport.FieldClose:    {},
		riskreport.FieldAdjClose: {},
	}
	for _, ticker := range tickers {
		fields, err := fetchPrices(ctx, apiKey, ticker, from, to)
		var serr *httpcache.StatusError
		if errors.As(err, &serr) && serr.Code == http.StatusNotFound {
			log.Warn().Str("ticker", ticker).Msg("unknown ticker on eodhd")
			continue
		}
		if err != nil {
			return riskreport.RawPrices{}, fmt.Errorf("fetching %s from eodhd: %w", ticker, err)
		}
		for field, h := range fields {
			panel[field][ticker] = h
		}
	}

	if len(tickers) == 1 {
		fields := make(map[string]*date.History[float64])
		for field, byTicker := range panel {
			if h, ok := byTicker[tickers[0]]; ok {
				fields[field] = h
			}
		}
		if len(fields) == 0 {
			return riskreport.RawPrices{}, nil
		}
		return riskreport.NewRawFlat(tickers[0], fields), nil
	}
	return riskreport.NewRawPanel(tickers, panel), nil
}

// fetchPrices returns the daily open, close and adjusted close prices for a
// ticker, keyed by field name.
func fetchPrices(ctx context.Context, apiKey, ticker string, from, to date.Date) (map[string]*date.History[float64], error) {
	// https://eodhd.com/api/eod/NVD.F?api_token=demo&fmt=json
	// [
	//
	//	{
	//		"date": "2024-02-13",
	//		"open": 675.066,
	//		"high": 684.219,
	//		"low": 648.659,
	//		"close": 668.445,
	//		"adjusted_close": 67.705,
	//		"volume": 0
	//	  },
	//
	// bounds are included in the response, and time is limited to 1 year with free subscription.
	q := url.Values{}
	q.Set("fmt", "json")
	q.Set("api_token", apiKey)
	if !from.IsZero() {
		q.Set("from", from.String())
	}
	if !to.IsZero() {
		q.Set("to", to.String())
	}
	addr := fmt.Sprintf("%s/eod/%s?%s", BaseURL, url.PathEscape(Symbol(ticker)), q.Encode())

	type Info struct {
		Date          date.Date           `json:"date"`
		Open          decimal.NullDecimal `json:"open"`
		Close         decimal.NullDecimal `json:"close"`
		AdjustedClose decimal.NullDecimal `json:"adjusted_close"`
	}

	// that's the payload
	content := make([]Info, 0)
	if err := httpcache.GetJSON(ctx, httpcache.New(httpcache.Daily), addr, nil, &content); err != nil {
		return nil, err
	}

	open := new(date.History[float64])
	closing := new(date.History[float64])
	adjusted := new(date.History[float64])
	for _, info := range content {
		open.Append(info.Date, toFloat(info.Open))
		closing.Append(info.Date, toFloat(info.Close))
		adjusted.Append(info.Date, toFloat(info.AdjustedClose))
	}
	return map[string]*date.History[float64]{
		riskreport.FieldOpen:     open,
		riskreport.FieldClose:    closing,
		riskreport.FieldAdjClose: adjusted,
	}, nil
}

// toFloat converts a JSON price, null being NaN.
func toFloat(d decimal.NullDecimal) float64 {
	if !d.Valid {
		return math.NaN()
	}
	return d.Decimal.InexactFloat64()
}
