// Package pdftext decodes a PDF's text layer into the row-per-line raw text the resume
// parser consumes, together with the document's author metadata.
//
// Rows are joined with "\r\n" and every page is followed by a
// "----------------Page (N) Break----------------" line.
package pdftext

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/ledongthuc/pdf"
)

const lineBreak = "\r\n"

var ErrNotPDF = errors.New("file is not a PDF")

type Document struct {
	Author string
	Title  string
	Pages  int
	Text   string
}

type Decoder struct{}

func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode never panics: the pdf library panics on some malformed inputs, those come back
// as errors.
func (d *Decoder) Decode(data []byte) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("failed to read pdf: %v", r)
		}
	}()

	if !IsPDF(data) {
		return nil, ErrNotPDF
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}

	info := reader.Trailer().Key("Info")

	doc = &Document{
		Author: info.Key("Author").Text(),
		Title:  info.Key("Title").Text(),
		Pages:  reader.NumPage(),
	}

	var text strings.Builder
	for i := 1; i <= doc.Pages; i++ {
		page := reader.Page(i)
		if !page.V.IsNull() {
			for _, row := range groupRows(page.Content().Text) {
				text.WriteString(joinRow(row))
				text.WriteString(lineBreak)
			}
		}
		text.WriteString(PageBreak(i - 1))
		text.WriteString(lineBreak)
	}
	doc.Text = text.String()

	return doc, nil
}

// PageBreak is the marker line written after page index n (zero based).
func PageBreak(n int) string {
	return fmt.Sprintf("----------------Page (%d) Break----------------", n)
}

// IsPDF checks the "%PDF-" magic bytes.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

// groupRows buckets glyphs sharing a baseline into rows, ordered top to bottom and each
// row left to right.
func groupRows(glyphs []pdf.Text) [][]pdf.Text {
	var rows [][]pdf.Text
	for _, g := range glyphs {
		// TJ ends every array with a newline glyph.
		if g.S == "\n" || g.S == "\r" {
			continue
		}
		idx := slices.IndexFunc(rows, func(row []pdf.Text) bool { return sameLine(row[0], g) })
		if idx < 0 {
			rows = append(rows, []pdf.Text{g})
			continue
		}
		rows[idx] = append(rows[idx], g)
	}

	slices.SortStableFunc(rows, func(a, b []pdf.Text) int { return cmp.Compare(b[0].Y, a[0].Y) })
	for _, row := range rows {
		slices.SortStableFunc(row, func(a, b pdf.Text) int { return cmp.Compare(a.X, b.X) })
	}
	return rows
}

func sameLine(a, b pdf.Text) bool {
	tolerance := max(a.FontSize, b.FontSize, 1) * 0.3
	return math.Abs(a.Y-b.Y) <= tolerance
}

// joinRow concatenates the glyphs of one row, adding a space where the gap between
// two glyphs is wider than a fraction of the font size.
func joinRow(runs []pdf.Text) string {
	var b strings.Builder
	for i, run := range runs {
		if i > 0 {
			prev := runs[i-1]
			gap := run.X - (prev.X + prev.W)
			if gap > prev.FontSize*0.2 && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(run.S, " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(run.S)
	}
	return b.String()
}
