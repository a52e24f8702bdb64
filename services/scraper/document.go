// File: services/scraper/document.go
package scraper

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Role is the part an element plays in a timetable page.
type Role int

const (
	RoleOther Role = iota
	RoleHeaderCell
	RoleHourMarker
	RoleMinuteMarker
)

func roleOf(tag string) Role {
	switch tag {
	case "th":
		return RoleHeaderCell
	case "b":
		return RoleHourMarker
	case "sup":
		return RoleMinuteMarker
	default:
		return RoleOther
	}
}

// Node is an element reduced to its role and raw text.
type Node struct {
	Role Role
	Text string
}

// run holds the element children of one parent, in document order.
type run struct {
	nodes []Node
}

// Marker points at one hour marker inside its sibling run.
type Marker struct {
	run *run
	at  int
}

func (m Marker) Text() string { return m.run.nodes[m.at].Text }

// following returns the siblings after the marker.
func (m Marker) following() []Node { return m.run.nodes[m.at+1:] }

// Document is a parsed timetable page. It is built once per fetch and never changes.
type Document struct {
	headers []string
	// hour markers under each tbody > tr > td, any depth
	columns [][]Marker
	// hour markers that are direct children of a td
	direct []Marker
}

// Parse reads a timetable page and assigns node roles.
func Parse(r io.Reader) (*Document, error) {
	root, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return FromSelection(root.Selection), nil
}

// FromSelection builds a Document from an already parsed tree.
func FromSelection(root *goquery.Selection) *Document {
	b := &builder{
		runs: make(map[*html.Node]*run),
		pos:  make(map[*html.Node]int),
	}
	doc := &Document{}

	root.Find("tbody > tr > th").Each(func(_ int, s *goquery.Selection) {
		doc.headers = append(doc.headers, s.Text())
	})

	root.Find("tbody > tr > td").Each(func(_ int, td *goquery.Selection) {
		var col []Marker
		td.Find("b").Each(func(_ int, s *goquery.Selection) {
			col = append(col, b.marker(s))
		})
		doc.columns = append(doc.columns, col)
	})

	root.Find("td > b").Each(func(_ int, s *goquery.Selection) {
		doc.direct = append(doc.direct, b.marker(s))
	})

	return doc
}

// Headers returns the raw header cell texts.
func (d *Document) Headers() []string {
	out := make([]string, len(d.headers))
	copy(out, d.headers)
	return out
}

// ColumnCount is the number of tbody > tr > td cells.
func (d *Document) ColumnCount() int { return len(d.columns) }

// MarkerCount is the number of td > b hour markers.
func (d *Document) MarkerCount() int { return len(d.direct) }

type builder struct {
	runs map[*html.Node]*run
	pos  map[*html.Node]int
}

func (b *builder) marker(s *goquery.Selection) Marker {
	parent := s.Parent()
	key := parent.Get(0)
	r, ok := b.runs[key]
	if !ok {
		r = &run{}
		parent.Children().Each(func(i int, c *goquery.Selection) {
			r.nodes = append(r.nodes, Node{Role: roleOf(goquery.NodeName(c)), Text: c.Text()})
			b.pos[c.Get(0)] = i
		})
		b.runs[key] = r
	}
	return Marker{run: r, at: b.pos[s.Get(0)]}
}
