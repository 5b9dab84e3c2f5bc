package parse

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Table is one HTML table reduced to trimmed cell text. Header holds the
// cells of the first row; Rows holds every following row.
type Table struct {
	Header []string
	Rows   [][]string
}

// Column returns the index of the header cell matching name exactly.
func (t *Table) Column(name string) (int, bool) {
	for i, h := range t.Header {
		if h == name {
			return i, true
		}
	}
	return 0, false
}

// Cell returns row[col] or "" when the row is shorter than the header.
// Status pages occasionally emit ragged rows; treating a missing cell as
// empty lets the caller skip it like any other unparsable value.
func (t *Table) Cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return row[col]
}

// Tables extracts every <table> element from an HTML document.
// A document with no tables yields an empty slice; only a document that
// cannot be tokenized at all fails with ErrParse.
func Tables(raw []byte) ([]Table, error) {
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse: html: %v: %w", err, ErrParse)
	}
	var out []Table
	walk(doc, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			out = append(out, tableOf(n))
		}
	})
	return out, nil
}

// FindTable returns the first table whose text content contains marker.
// Missing marker (or no tables at all) is reported via ok=false, not an
// error: a page without the expected table yields empty observations.
func FindTable(raw []byte, marker string) (*Table, bool) {
	tables, err := Tables(raw)
	if err != nil {
		return nil, false
	}
	for i := range tables {
		t := &tables[i]
		if containsText(t, marker) {
			return t, true
		}
	}
	return nil, false
}

func containsText(t *Table, marker string) bool {
	for _, h := range t.Header {
		if strings.Contains(h, marker) {
			return true
		}
	}
	for _, row := range t.Rows {
		for _, c := range row {
			if strings.Contains(c, marker) {
				return true
			}
		}
	}
	return false
}

func tableOf(table *html.Node) Table {
	var t Table
	walk(table, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "tr" {
			return
		}
		var cells []string
		walk(n, func(c *html.Node) {
			if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
				cells = append(cells, strings.TrimSpace(textOf(c)))
			}
		})
		if len(cells) == 0 {
			return
		}
		if t.Header == nil {
			t.Header = cells
			return
		}
		t.Rows = append(t.Rows, cells)
	})
	return t
}

// textOf concatenates all text nodes under n.
func textOf(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return b.String()
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}
