package summarizer

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/etnz/riskreport/httpcache"
	"golang.org/x/net/html"
)

// MaxText is the default number of characters kept from a page.
const MaxText = 20000

var client = &http.Client{Timeout: 15 * time.Second}

// FetchText returns the visible text of the page at url: scripts and styles
// are removed and whitespace collapsed. At most maxLen characters are
// returned. A failure is returned as a "[FETCH_ERROR]" text so that it can
// be summarized like any other.
func FetchText(ctx context.Context, url string, maxLen int) string {
	body, err := httpcache.Get(ctx, client, url, nil)
	if err != nil {
		return fmt.Sprintf("[FETCH_ERROR] %s: %v", url, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Sprintf("[FETCH_ERROR] %s: %v", url, err)
	}
	doc.Find("script, style, noscript").Remove()

	// separate the text of sibling nodes, "<p>a</p><p>b</p>" is "a b".
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return truncate(strings.Join(strings.Fields(b.String()), " "), maxLen)
}
