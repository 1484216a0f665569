// Package fred reads economic series from the FRED API of the Federal
// Reserve Bank of St. Louis.
package fred

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/riskreport/date"
	"github.com/etnz/riskreport/httpcache"
)

// BaseURL is the root of the FRED API.
var BaseURL = "https://api.stlouisfed.org/fred"

/*
	{
	  "observation_start": "1600-01-01",
	  "units": "lin",
	  "observations": [
	    {"realtime_start": "2025-01-06", "date": "1962-01-02", "value": "4.06"},
	    {"realtime_start": "2025-01-06", "date": "1962-01-03", "value": "."},
*/

// Observations returns the observations of a FRED series, and the source
// URL to quote (without the API key).
//
// Without an API key it returns nothing at all. Missing values ("." in
// FRED) are dropped.
func Observations(ctx context.Context, apiKey, seriesID string) (*date.History[float64], string, error) {
	if apiKey == "" || seriesID == "" {
		return nil, "", nil
	}
	q := url.Values{}
	q.Set("series_id", seriesID)
	q.Set("file_type", "json")
	source := fmt.Sprintf("%s/series/observations?%s", BaseURL, q.Encode())
	q.Set("api_key", apiKey)
	addr := fmt.Sprintf("%s/series/observations?%s", BaseURL, q.Encode())

	var jobj any
	if err := httpcache.GetJSON(ctx, httpcache.New(httpcache.Daily), addr, nil, &jobj); err != nil {
		return nil, source, fmt.Errorf("error retrieving FRED series %q: %w", seriesID, err)
	}
	path := "$.observations[*]"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		// no observations
		return nil, source, nil
	}
	list, _ := jval.([]any)

	h := new(date.History[float64])
	for _, item := range list {
		obs, ok := item.(map[string]any)
		if !ok {
			continue
		}
		ds, _ := obs["date"].(string)
		vs, _ := obs["value"].(string)
		day, err := date.Parse(ds)
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(vs, 64)
		if err != nil {
			continue
		}
		h.Append(day, v)
	}
	if h.Len() == 0 {
		return nil, source, nil
	}
	return h, source, nil
}
