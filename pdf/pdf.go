// Package pdf converts a Markdown report into a PDF document.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

const (
	font       = "Courier"
	size       = 9.0
	lineHeight = 4.5
	margin     = 20.0 // mm, all around
)

// FromMarkdown renders markdown on A4 pages in a monospaced font. Headings
// are bold and tables are aligned in columns. When chartPNG is not empty,
// the image is drawn right after the first title.
func FromMarkdown(markdown string, chartPNG []byte) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()
	pdf.SetFont(font, "", size)

	source := []byte(markdown)
	doc := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(source))

	r := &pdfRenderer{
		pdf:    pdf,
		source: source,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		chart:  chartPNG,
	}
	if err := ast.Walk(doc, r.walk); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF output: %w", err)
	}
	log.Debug().Int("pdf_size", buf.Len()).Msg("PDF generated")
	return buf.Bytes(), nil
}

type pdfRenderer struct {
	pdf    *fpdf.Fpdf
	source []byte
	tr     func(string) string // UTF-8 to the core font code page
	chart  []byte              // drawn once, then nil
	bold   bool
	italic bool
	level  int // list nesting
}

func (r *pdfRenderer) updateFont() {
	style := ""
	if r.bold {
		style += "B"
	}
	if r.italic {
		style += "I"
	}
	r.pdf.SetFont(font, style, size)
}

func (r *pdfRenderer) write(s string) { r.pdf.Write(lineHeight, r.tr(s)) }

func (r *pdfRenderer) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n := n.(type) {
	case *ast.Heading:
		if entering {
			r.pdf.Ln(lineHeight)
			r.pdf.SetFont(font, "B", size+float64(max(0, 4-n.Level)))
			return ast.WalkContinue, nil
		}
		r.pdf.Ln(lineHeight * 1.5)
		r.updateFont()
		if n.Level == 1 && len(r.chart) > 0 {
			r.drawChart()
		}
	case *ast.Paragraph, *ast.TextBlock:
		if !entering {
			r.pdf.Ln(lineHeight)
		}
	case *ast.Text:
		if entering {
			r.write(string(n.Segment.Value(r.source)))
			if n.SoftLineBreak() || n.HardLineBreak() {
				r.pdf.Ln(lineHeight)
			}
		}
	case *ast.Emphasis:
		if n.Level == 2 {
			r.bold = entering
		} else {
			r.italic = entering
		}
		r.updateFont()
	case *ast.CodeSpan:
		if entering {
			r.write(string(n.Text(r.source)))
		}
		return ast.WalkSkipChildren, nil
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if entering {
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				r.write(strings.TrimRight(string(seg.Value(r.source)), "\n"))
				r.pdf.Ln(lineHeight)
			}
		}
		return ast.WalkSkipChildren, nil
	case *ast.List:
		if entering {
			r.level++
		} else {
			r.level--
			r.pdf.Ln(lineHeight / 2)
		}
	case *ast.ListItem:
		if entering {
			r.pdf.SetX(margin + float64(r.level-1)*5)
			r.write("- ")
		}
	case *ast.ThematicBreak:
		if entering {
			r.pdf.Ln(2)
			r.pdf.Line(margin, r.pdf.GetY(), 210-margin, r.pdf.GetY())
			r.pdf.Ln(2)
		}
	case *extast.Table:
		if entering {
			r.table(rows(n, r.source))
		}
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

// drawChart draws the chart image across the page width.
func (r *pdfRenderer) drawChart() {
	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	info := r.pdf.RegisterImageOptionsReader("chart", opts, bytes.NewReader(r.chart))
	r.chart = nil
	if r.pdf.Err() {
		log.Warn().Err(r.pdf.Error()).Msg("invalid chart image, skipped")
		r.pdf.ClearError()
		return
	}
	w := 210 - 2*margin
	h := w * info.Height() / info.Width()
	r.pdf.ImageOptions("chart", margin, r.pdf.GetY(), w, h, true, opts, 0, "")
	r.pdf.Ln(lineHeight)
}

// rows returns the cells text of the table, header first.
func rows(n *extast.Table, source []byte) [][]string {
	var out [][]string
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, strings.TrimSpace(string(cell.Text(source))))
		}
		out = append(out, cells)
	}
	return out
}

// table prints rows as monospaced columns, the header in bold.
func (r *pdfRenderer) table(rows [][]string) {
	var widths []int
	for _, row := range rows {
		for j, cell := range row {
			if j == len(widths) {
				widths = append(widths, 0)
			}
			widths[j] = max(widths[j], len([]rune(cell)))
		}
	}
	for i, row := range rows {
		var b strings.Builder
		for j, cell := range row {
			fmt.Fprintf(&b, "%-*s  ", widths[j], cell)
		}
		style := ""
		if i == 0 {
			style = "B"
		}
		r.pdf.SetFont(font, style, size)
		r.pdf.MultiCell(0, lineHeight, r.tr(strings.TrimRight(b.String(), " ")), "", "L", false)
	}
	r.updateFont()
	r.pdf.Ln(lineHeight / 2)
}
