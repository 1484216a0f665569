package news

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/etnz/riskreport/httpcache"
	"github.com/rs/zerolog/log"
)

// ASXURL is the ASX announcements page.
var ASXURL = "https://www2.asx.com.au/markets/trade-our-cash-market/announcements"

// ASXAnnouncements scrapes the ASX announcements page for links mentioning
// the issuer code. When the page yields nothing it falls back to Google News
// restricted to asx.com.au.
func ASXAnnouncements(ctx context.Context, issuerCode string, limit int) ([]Item, string) {
	base, err := url.Parse(ASXURL)
	if err != nil {
		return []Item{{Title: "ASX fetch error: " + err.Error()}}, ASXURL
	}
	body, err := httpcache.Get(ctx, client, ASXURL, nil)
	if err != nil {
		log.Warn().Err(err).Str("issuer", issuerCode).Msg("asx announcements")
		return []Item{{Title: "ASX fetch error: " + err.Error()}}, ASXURL
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return []Item{{Title: "ASX fetch error: " + err.Error()}}, ASXURL
	}

	code := strings.ToUpper(issuerCode)
	var items []Item
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		txt := strings.TrimSpace(a.Text())
		if !strings.Contains(strings.ToUpper(txt), code) && !strings.Contains(strings.ToUpper(href), code) {
			return true
		}
		if ref, err := url.Parse(href); err == nil {
			href = base.ResolveReference(ref).String()
		}
		if txt == "" {
			txt = "ASX announcement"
		}
		items = append(items, Item{Title: txt, Link: href})
		return len(items) < limit
	})

	if len(items) == 0 {
		log.Debug().Str("issuer", issuerCode).Msg("no ASX announcement on the page, falling back to google news")
		items, _ = GoogleNews(ctx, "site:asx.com.au "+issuerCode+" announcement", limit)
	}
	return items, ASXURL
}
