package scraper

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/nikolasamardzija/busNS-rest-api/models"
)

// Classification is the variant of a page together with its line labels.
type Classification struct {
	Variant models.Variant
	Line    string
	LineA   string
	LineB   string
}

// Classify decides between a one- and two-direction page from its header cells.
func Classify(doc *Document) (Classification, error) {
	if doc.MarkerCount() == 0 {
		return Classification{}, ErrEmptySchedule
	}
	headers := doc.Headers()
	if len(headers) == 2 {
		return Classification{
			Variant: models.TwoWay,
			LineA:   strings.TrimSpace(headers[0]),
			LineB:   strings.TrimSpace(headers[1]),
		}, nil
	}
	// Zero headers give an empty label; more than two are read as one label.
	return Classification{
		Variant: models.OneWay,
		Line:    strings.TrimSpace(strings.Join(headers, "")),
	}, nil
}

// Extract turns a parsed page into a timetable for line id on day.
// It either returns a complete record or an error, never both.
func Extract(doc *Document, id string, day models.DayCode) (*models.Timetable, error) {
	c, err := Classify(doc)
	if err != nil {
		return nil, err
	}

	if c.Variant == models.OneWay {
		return models.NewOneWayTimetable(id, day, c.Line, Walk(doc.direct, AnyHour)), nil
	}

	if n := doc.ColumnCount(); n < 2 {
		return nil, fmt.Errorf("%w: two headers but %d columns", ErrMalformedDocument, n)
	}

	// The columns write to separate maps; both must finish before the record is built.
	var a, b *models.ScheduleMap
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a = Walk(doc.columns[0], DigitsOnlyHour)
	}()
	go func() {
		defer wg.Done()
		b = Walk(doc.columns[1], DigitsOnlyHour)
	}()
	wg.Wait()

	return models.NewTwoWayTimetable(id, day, c.LineA, c.LineB, a, b), nil
}

// ExtractTimetable parses r and extracts its timetable.
func ExtractTimetable(r io.Reader, id string, day models.DayCode) (*models.Timetable, error) {
	doc, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return Extract(doc, id, day)
}
