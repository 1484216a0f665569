package pdf

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const report = `# Risk Report

**Tickers:** AAPL,MSFT

### Annualized Volatility

| Ticker | Annualized Volatility |
|---|---|
| AAPL | 0.251234 |
| MSFT | 0.221234 |

### Max Drawdown
_No data_

## Sources

- Yahoo Finance for prices
- Google News RSS: https://news.google.com/rss/search?q=bank
`

func smallPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := range 40 {
		img.Set(x, 10, color.Black)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFromMarkdown(t *testing.T) {
	out, err := FromMarkdown(report, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.NotContains(t, string(out), "/Subtype /Image")
}

func TestFromMarkdown_WithChart(t *testing.T) {
	out, err := FromMarkdown(report, smallPNG(t))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "/Subtype /Image")
}

func TestFromMarkdown_InvalidChartIsSkipped(t *testing.T) {
	out, err := FromMarkdown(report, []byte("not a png"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestFromMarkdown_LongReportPaginates(t *testing.T) {
	var b bytes.Buffer
	b.WriteString("# Long\n\n")
	for range 300 {
		b.WriteString("- a line of text with accents é and more\n")
	}
	out, err := FromMarkdown(b.String(), nil)
	require.NoError(t, err)
	assert.Greater(t, bytes.Count(out, []byte("/Type /Page\n")), 1)
}
