// Package pdftexttest builds small text-only PDFs for tests.
//
// Every glyph of the embedded Helvetica font is 500 units wide, so at FontSize a glyph
// advances the pen by FontSize/2 points.
package pdftexttest

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	FontSize = 12
	Leading  = 14

	firstChar  = 32
	lastChar   = 126
	glyphWidth = 500
)

var escaper = strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)

// Build returns a PDF with the given author where each page shows its lines top down,
// moving to the next line with a relative Td.
func Build(author string, pages ...[]string) []byte {
	streams := make([]string, len(pages))
	for i, lines := range pages {
		streams[i] = LinesContent(lines)
	}
	return BuildRaw(author, streams...)
}

// LinesContent is the content stream for one page of lines starting at (72, 720).
func LinesContent(lines []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "BT /F1 %d Tf 72 720 Td", FontSize)
	for i, line := range lines {
		if i > 0 {
			fmt.Fprintf(&b, " 0 -%d Td", Leading)
		}
		fmt.Fprintf(&b, " (%s) Tj", escaper.Replace(line))
	}
	b.WriteString(" ET")
	return b.String()
}

// BuildRaw wraps ready-made content streams, one per page. Streams select the font
// as /F1.
func BuildRaw(author string, streams ...string) []byte {
	widths := strings.TrimSpace(strings.Repeat(fmt.Sprintf("%d ", glyphWidth), lastChar-firstChar+1))

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"", // page tree, filled in once the page objects are numbered
		fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding "+
			"/FirstChar %d /LastChar %d /Widths [%s] >>", firstChar, lastChar, widths),
		fmt.Sprintf("<< /Author (%s) /Title (Resume) >>", escaper.Replace(author)),
	}

	kids := make([]string, 0, len(streams))
	for _, content := range streams {
		pageNum := len(objects) + 1
		kids = append(kids, fmt.Sprintf("%d 0 R", pageNum))
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", pageNum+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(streams))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f\r\n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n\r\n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R /Info 4 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

// SampleResume is a two page resume in the supported layout: header, skills, two jobs and
// an education section whose second entry lands on the next page.
var SampleResume = [][]string{
	{
		"Jane Doe",
		"Email: jane@x.com|Phone: 555-1234|Location: Austin, TX",
		"LinkedIn: linkedin.com/in/jane|GitHub: github.com/jane",
		"Software Engineer",
		"Builds reliable backend systems.",
		"Skills",
		"Go",
		"PostgreSQL",
		"_____",
		"Professional Experience",
		"Senior Engineer",
		"Acme Corp - Remote",
		"Jan 2020 - Present",
		"Built the billing pipeline.",
		"_____",
		"Engineer",
		"Globex - Austin",
		"2017 - 2019",
		"Education",
		"BSc Computer Science",
		"University of Texas - 2017",
		"_____",
	},
	{
		"MSc Software Engineering",
		"Georgia Tech - 2020",
	},
}
