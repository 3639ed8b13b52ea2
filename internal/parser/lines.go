package parser

import "strings"

// LineBreak is the separator the PDF decoder writes between text rows.
const LineBreak = "\r\n"

// LineSequence is the ordered, trimmed, non-empty lines of a resume's raw text.
// Extractors only read it; Slice always returns a copy.
type LineSequence []string

func NewLineSequence(raw string) LineSequence {
	var lines LineSequence
	for _, line := range strings.Split(raw, LineBreak) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Line returns the line at i, or "" when i is out of range.
func (s LineSequence) Line(i int) string {
	return part(s, i)
}

// IndexOf returns the index of the first line equal to marker, or -1.
func (s LineSequence) IndexOf(marker string) int {
	for i, line := range s {
		if line == marker {
			return i
		}
	}
	return -1
}

// Slice returns lines [start, end) where negative offsets count back from the end
// and both bounds are clamped to the sequence, so Slice(0, -2) drops the last two lines.
func (s LineSequence) Slice(start, end int) []string {
	n := len(s)
	start = clampOffset(start, n)
	end = clampOffset(end, n)
	if end <= start {
		return nil
	}

	out := make([]string, end-start)
	copy(out, s[start:end])
	return out
}

func clampOffset(i, n int) int {
	if i < 0 {
		i += n
		if i < 0 {
			return 0
		}
	}
	if i > n {
		return n
	}
	return i
}

func part(xs []string, i int) string {
	if i < 0 || i >= len(xs) {
		return ""
	}
	return xs[i]
}
