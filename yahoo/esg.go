package yahoo

import (
	"context"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/riskreport/httpcache"
	"github.com/rs/zerolog/log"
)

// ESGMetric is one sustainability score, e.g. {"totalEsg", "21.3"}.
type ESGMetric struct {
	Metric string
	Value  string
}

/*
	{
	  "quoteSummary": {
	    "result": [{
	      "esgScores": {
	        "totalEsg": {"raw": 17.22, "fmt": "17.2"},
	        "environmentScore": {"raw": 0.6, "fmt": "0.6"},
	        "highestControversy": 3,
	        "esgPerformance": "UNDER_PERF",
	        ...
*/

// ESG returns the sustainability scores of ticker sorted by metric name, or
// nil when Yahoo has none. It never fails: any error is logged and
// reported as no data.
func ESG(ctx context.Context, ticker string) []ESGMetric {
	addr := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=esgScores", BaseURL, url.PathEscape(ticker))
	var jobj any
	if err := httpcache.GetJSON(ctx, httpcache.New(httpcache.Daily), addr, header, &jobj); err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Msg("no ESG data")
		return nil
	}
	path := "$.quoteSummary.result[0].esgScores"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		log.Debug().Err(err).Str("ticker", ticker).Msg("no ESG scores in response")
		return nil
	}
	scores, ok := jval.(map[string]any)
	if !ok {
		return nil
	}

	var metrics []ESGMetric
	for _, name := range slices.Sorted(maps.Keys(scores)) {
		if v, ok := format(scores[name]); ok {
			metrics = append(metrics, ESGMetric{Metric: name, Value: v})
		}
	}
	return metrics
}

// format renders a scalar score, or the "raw" value of a formatted score.
func format(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, v != ""
	case bool:
		return strconv.FormatBool(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case map[string]any:
		if raw, ok := v["raw"]; ok {
			return format(raw)
		}
	}
	return "", false
}

// ESGForTickers returns the ESG scores of each ticker.
func ESGForTickers(ctx context.Context, tickers []string) map[string][]ESGMetric {
	out := make(map[string][]ESGMetric, len(tickers))
	for _, t := range tickers {
		out[t] = ESG(ctx, t)
	}
	return out
}
