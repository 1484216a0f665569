package news

import (
	"context"
	"net/url"

	"github.com/rs/zerolog/log"
)

// GoogleNewsURL is the Google News RSS search endpoint.
var GoogleNewsURL = "https://news.google.com/rss/search"

// GoogleNews returns the top headlines for query and the feed URL.
func GoogleNews(ctx context.Context, query string, limit int) ([]Item, string) {
	addr := GoogleNewsURL + "?q=" + url.QueryEscape(query)
	items, err := feed(ctx, addr, nil, limit)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("google news")
		return []Item{{Title: "News fetch error: " + err.Error()}}, addr
	}
	return items, addr
}
