package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssFeed = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>news</title>
<item><title>Banks tighten liquidity</title><link>https://example.com/1</link><pubDate>Mon, 06 Jan 2025 10:00:00 GMT</pubDate></item>
<item><title>Rates rise</title><link>https://example.com/2</link></item>
<item><title>Third</title><link>https://example.com/3</link></item>
</channel></rss>`

const atomFeed = `<?xml version="1.0" encoding="ISO-8859-1" ?>
<feed xmlns="http://www.w3.org/2005/Atom">
<title>Latest Filings</title>
<entry><title>10-K annual report</title><link rel="alternate" type="text/html" href="https://www.sec.gov/a"/><updated>2025-01-06T16:05:00-05:00</updated></entry>
<entry><title>8-K current report</title><link rel="alternate" type="text/html" href="https://www.sec.gov/b"/><updated>2025-01-03T08:00:00-05:00</updated></entry>
</feed>`

const emptyAtom = `<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom"><title>No match</title></feed>`

// serve installs a test server for all endpoints and returns the requests it saw.
func serve(t *testing.T, h http.HandlerFunc) *[]*http.Request {
	t.Helper()
	var seen []*http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	oldGoogle, oldSEC, oldASX := GoogleNewsURL, SECURL, ASXURL
	GoogleNewsURL, SECURL, ASXURL = srv.URL+"/rss/search", srv.URL+"/cgi-bin/browse-edgar", srv.URL+"/markets/announcements"
	t.Cleanup(func() { GoogleNewsURL, SECURL, ASXURL = oldGoogle, oldSEC, oldASX })
	return &seen
}

func TestGoogleNews(t *testing.T) {
	seen := serve(t, func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(rssFeed)) })

	items, source := GoogleNews(context.Background(), "bank risk liquidity", 2)
	require.Len(t, items, 2)
	assert.Equal(t, Item{"Banks tighten liquidity", "https://example.com/1", "Mon, 06 Jan 2025 10:00:00 GMT"}, items[0])
	assert.True(t, strings.HasSuffix(source, "?q=bank+risk+liquidity"))
	assert.Equal(t, "bank risk liquidity", (*seen)[0].URL.Query().Get("q"))
}

func TestGoogleNews_Error(t *testing.T) {
	serve(t, func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) })

	items, _ := GoogleNews(context.Background(), "x", 10)
	require.Len(t, items, 1)
	assert.True(t, strings.HasPrefix(items[0].Title, "News fetch error: "))
	assert.Empty(t, items[0].Link)
}

func TestSECFilings_ByCompany(t *testing.T) {
	seen := serve(t, func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(atomFeed)) })

	items, source := SECFilings(context.Background(), "Microsoft", 10)
	require.Len(t, items, 2)
	assert.Equal(t, "https://www.sec.gov/a", items[0].Link)
	assert.Equal(t, "2025-01-06T16:05:00-05:00", items[0].Updated)
	assert.Contains(t, source, "company=Microsoft")
	assert.Equal(t, SECUserAgent, (*seen)[0].Header.Get("User-Agent"))
}

func TestSECFilings_FallsBackToCIK(t *testing.T) {
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("CIK") != "" {
			w.Write([]byte(atomFeed))
			return
		}
		w.Write([]byte(emptyAtom))
	})

	items, source := SECFilings(context.Background(), "0000789019", 1)
	require.Len(t, items, 1)
	assert.Contains(t, source, "CIK=0000789019")
}

func TestSECFilings_Error(t *testing.T) {
	serve(t, func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusForbidden) })

	items, source := SECFilings(context.Background(), "Microsoft", 10)
	require.Len(t, items, 1)
	assert.True(t, strings.HasPrefix(items[0].Title, "SEC fetch error: "))
	assert.NotEmpty(t, source)
}

func TestASXAnnouncements(t *testing.T) {
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<a href="/markets/cba/2025-results">CBA half year results</a>
			<a href="https://other.example.com/x">Unrelated</a>
			<a href="/docs/CBA-dividend.pdf"></a>
			<a href="/markets/cba/third">CBA third</a>
		</body></html>`))
	})

	items, source := ASXAnnouncements(context.Background(), "cba", 2)
	require.Len(t, items, 2)
	assert.Equal(t, "CBA half year results", items[0].Title)
	assert.True(t, strings.HasSuffix(items[0].Link, "/markets/cba/2025-results"))
	assert.True(t, strings.HasPrefix(items[0].Link, "http://"))
	assert.Equal(t, "ASX announcement", items[1].Title)
	assert.Equal(t, ASXURL, source)
}

func TestASXAnnouncements_FallsBackToGoogleNews(t *testing.T) {
	seen := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/rss") {
			w.Write([]byte(rssFeed))
			return
		}
		w.Write([]byte(`<html><body><a href="/nothing">Nothing here</a></body></html>`))
	})

	items, _ := ASXAnnouncements(context.Background(), "CBA", 10)
	assert.Len(t, items, 3)
	assert.Equal(t, "site:asx.com.au CBA announcement", (*seen)[1].URL.Query().Get("q"))
}

func TestLinks(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Links([]Item{{Link: "a"}, {Title: "error"}, {Link: "b"}}))
}
