// Package yahoo fetches daily price histories and sustainability scores from
// Yahoo Finance.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/etnz/riskreport"
	"github.com/etnz/riskreport/date"
	"github.com/etnz/riskreport/httpcache"
	"github.com/rs/zerolog/log"
)

// BaseURL is the root of the Yahoo Finance API.
var BaseURL = "https://query1.finance.yahoo.com"

// header sent to Yahoo, which rejects unknown agents.
var header = http.Header{"User-Agent": {"curl/8"}}

type chartResp struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency  string `json:"currency"`
				GMTOffset int64  `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open  []*float64 `json:"open"`
					Close []*float64 `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Fetch downloads daily prices for each ticker since start, until today. A
// zero start means the last year.
//
// One ticker yields a Series of adjusted closes, several tickers yield a
// Panel with the Open, Close and Adj Close fields. A ticker unknown to Yahoo
// is left empty.
func Fetch(ctx context.Context, tickers []string, start date.Date) (riskreport.RawPrices, error) {
	if len(tickers) == 0 {
		return riskreport.RawPrices{}, nil
	}
	panel := map[string]map[string]*date.History[float64]{
		riskreport.FieldOpen:     {},
		riskreport.FieldClose:    {},
		riskreport.FieldAdjClose: {},
	}
	for _, ticker := range tickers {
		fields, err := fetchChart(ctx, ticker, start)
		if err != nil {
			return riskreport.RawPrices{}, fmt.Errorf("fetching %s from yahoo: %w", ticker, err)
		}
		for field, h := range fields {
			panel[field][ticker] = h
		}
	}

	if len(tickers) == 1 {
		h, ok := panel[riskreport.FieldAdjClose][tickers[0]]
		if !ok {
			return riskreport.RawPrices{}, nil
		}
		return riskreport.NewRawSeries(tickers[0], h), nil
	}
	return riskreport.NewRawPanel(tickers, panel), nil
}

// fetchChart returns the daily prices of ticker keyed by field name, or nil
// for a ticker unknown to Yahoo.
func fetchChart(ctx context.Context, ticker string, start date.Date) (map[string]*date.History[float64], error) {
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("events", "div,split")
	if start.IsZero() {
		q.Set("range", "1y")
	} else {
		q.Set("period1", strconv.FormatInt(start.Unix(), 10))
		q.Set("period2", strconv.FormatInt(date.Today().Add(1).Unix(), 10))
	}
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?%s", BaseURL, url.PathEscape(ticker), q.Encode())

	var yc chartResp
	err := httpcache.GetJSON(ctx, httpcache.New(httpcache.Daily), addr, header, &yc)
	var serr *httpcache.StatusError
	if errors.As(err, &serr) && serr.Code == http.StatusNotFound {
		log.Warn().Str("ticker", ticker).Msg("unknown ticker on yahoo")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if yc.Chart.Error != nil {
		return nil, fmt.Errorf("%s: %s", yc.Chart.Error.Code, yc.Chart.Error.Description)
	}
	if len(yc.Chart.Result) == 0 {
		return nil, nil
	}

	res := yc.Chart.Result[0]
	open := new(date.History[float64])
	closing := new(date.History[float64])
	adjusted := new(date.History[float64])
	var quoteOpen, quoteClose, adj []*float64
	if len(res.Indicators.Quote) > 0 {
		quoteOpen, quoteClose = res.Indicators.Quote[0].Open, res.Indicators.Quote[0].Close
	}
	if len(res.Indicators.AdjClose) > 0 {
		adj = res.Indicators.AdjClose[0].AdjClose
	} else {
		adj = quoteClose // adjusted prices are not always returned
	}
	for i, ts := range res.Timestamp {
		// timestamps are the exchange's open time, shift to get its local day.
		day := date.FromTime(time.Unix(ts+res.Meta.GMTOffset, 0).UTC())
		open.Append(day, at(quoteOpen, i))
		closing.Append(day, at(quoteClose, i))
		adjusted.Append(day, at(adj, i))
	}
	return map[string]*date.History[float64]{
		riskreport.FieldOpen:     open,
		riskreport.FieldClose:    closing,
		riskreport.FieldAdjClose: adjusted,
	}, nil
}

// at returns the i-th value, NaN when missing.
func at(values []*float64, i int) float64 {
	if i >= len(values) || values[i] == nil {
		return math.NaN()
	}
	return *values[i]
}
