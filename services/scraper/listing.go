package scraper

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nikolasamardzija/busNS-rest-api/models"
)

// LineSelector matches the options of the line picker on listing pages.
const LineSelector = "#linija option"

// ExtractLineOptions reads the value/label pairs of a line listing page.
func ExtractLineOptions(r io.Reader) ([]models.LineOption, error) {
	root, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	opts := Options(root.Selection, LineSelector)
	if len(opts) == 0 {
		return nil, ErrEmptyListing
	}
	return opts, nil
}

// Options pairs the value attribute of every option matched by selector
// with its trimmed text, in document order.
func Options(root *goquery.Selection, selector string) []models.LineOption {
	var opts []models.LineOption
	root.Find(selector).Each(func(_ int, s *goquery.Selection) {
		value, _ := s.Attr("value")
		opts = append(opts, models.LineOption{
			Value: value,
			Label: strings.TrimSpace(s.Text()),
		})
	})
	return opts
}
