// Package news collects headlines and regulatory disclosures: Google News
// RSS, SEC EDGAR filings and ASX company announcements.
//
// Fetchers never fail: a transport error becomes a single Item whose title
// carries the error, so that a report can still be produced.
package news

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"github.com/etnz/riskreport/httpcache"
	"golang.org/x/net/html/charset"
)

// Item is a headline or a filing.
type Item struct {
	Title   string
	Link    string
	Updated string // as published, may be empty
}

// Links returns the non empty links of items, in order.
func Links(items []Item) []string {
	var links []string
	for _, it := range items {
		if it.Link != "" {
			links = append(links, it.Link)
		}
	}
	return links
}

// client used for feeds, they are never cached.
var client = &http.Client{Timeout: 12 * time.Second}

type rss struct {
	Items []struct {
		Title   string `xml:"title"`
		Link    string `xml:"link"`
		PubDate string `xml:"pubDate"`
	} `xml:"channel>item"`
}

type atom struct {
	Entries []struct {
		Title string `xml:"title"`
		Link  struct {
			Href string `xml:"href,attr"`
		} `xml:"link"`
		Updated string `xml:"updated"`
	} `xml:"entry"`
}

// feed downloads an RSS or Atom feed and returns at most limit items.
func feed(ctx context.Context, addr string, header http.Header, limit int) ([]Item, error) {
	body, err := httpcache.Get(ctx, client, addr, header)
	if err != nil {
		return nil, err
	}
	var items []Item

	var r rss
	if err := decode(body, &r); err == nil {
		for _, e := range r.Items {
			items = append(items, Item{Title: e.Title, Link: e.Link, Updated: e.PubDate})
		}
	}
	if len(items) == 0 {
		var a atom
		if err := decode(body, &a); err != nil {
			return nil, fmt.Errorf("invalid feed: %w", err)
		}
		for _, e := range a.Entries {
			items = append(items, Item{Title: e.Title, Link: e.Link.Href, Updated: e.Updated})
		}
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// decode unmarshals an XML document in any charset (EDGAR serves ISO-8859-1).
func decode(body []byte, v any) error {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.CharsetReader = charset.NewReaderLabel
	return dec.Decode(v)
}
