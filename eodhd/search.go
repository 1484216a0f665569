package eodhd

import (
	"context"
	"fmt"
	"net/url"

	"github.com/etnz/riskreport/date"
	"github.com/etnz/riskreport/httpcache"
)

// SearchResult matches the structure of a single item in the EODHD search API response.
type SearchResult struct {
	Code              string    `json:"Code"`
	Exchange          string    `json:"Exchange"`
	Name              string    `json:"Name"`
	Type              string    `json:"Type"`
	Country           string    `json:"Country"`
	Currency          string    `json:"Currency"`
	ISIN              string    `json:"ISIN"`
	PreviousClose     float64   `json:"previousClose"`
	PreviousCloseDate date.Date `json:"previousCloseDate"`
}

// Ticker returns the EODHD ticker of the result, ready to be passed to Fetch.
func (r SearchResult) Ticker() string { return r.Code + "." + r.Exchange }

// Search searches for securities via EOD Historical Data API.
func Search(ctx context.Context, apiKey string, searchTerm string) ([]SearchResult, error) {
	addr := fmt.Sprintf("%s/search/%s?api_token=%s&fmt=json", BaseURL, url.PathEscape(searchTerm), url.QueryEscape(apiKey))

	var results []SearchResult
	// the list of listed securities barely changes within a month.
	if err := httpcache.GetJSON(ctx, httpcache.New(httpcache.Monthly), addr, nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}
