package news

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// SECURL is the EDGAR company browse endpoint.
var SECURL = "https://www.sec.gov/cgi-bin/browse-edgar"

// SECUserAgent is sent to EDGAR, which requires a contact address.
var SECUserAgent = "riskreport admin@example.com"

// secLimiter keeps requests under the EDGAR fair access limit of 10 per second.
var secLimiter = rate.NewLimiter(rate.Limit(10), 1)

// secAddr returns the Atom feed URL of the latest filings, the company is
// searched by name, or by CIK when byCIK is set.
func secAddr(companyOrCIK string, count int, byCIK bool) string {
	q := url.Values{}
	q.Set("action", "getcompany")
	if byCIK {
		q.Set("CIK", companyOrCIK)
	} else {
		q.Set("company", companyOrCIK)
	}
	q.Set("owner", "exclude")
	q.Set("count", strconv.Itoa(count))
	q.Set("output", "atom")
	return SECURL + "?" + q.Encode()
}

// SECFilings returns the recent filings of a company, found by name first
// then by CIK, and the feed URL that produced them.
func SECFilings(ctx context.Context, companyOrCIK string, count int) ([]Item, string) {
	header := http.Header{"User-Agent": {SECUserAgent}}

	addr := secAddr(companyOrCIK, count, false)
	items, err := secFeed(ctx, addr, header, count)
	if err == nil && len(items) == 0 {
		addr = secAddr(companyOrCIK, count, true)
		items, err = secFeed(ctx, addr, header, count)
	}
	if err != nil {
		log.Warn().Err(err).Str("company", companyOrCIK).Msg("sec filings")
		return []Item{{Title: "SEC fetch error: " + err.Error()}}, addr
	}
	return items, addr
}

func secFeed(ctx context.Context, addr string, header http.Header, count int) ([]Item, error) {
	if err := secLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	return feed(ctx, addr, header, count)
}
