package gspns

import (
	"net/url"
	"strings"
)

const (
	landingPath  = "/red-voznje/gradski"
	listingPath  = "/red-voznje/lista-linija"
	schedulePath = "/red-voznje/ispis-polazaka"
)

// Direction codes of the two listings.
const (
	RvCity      = "rvg"
	RvIntercity = "rvp"
)

func LandingURL(base string) string {
	return strings.TrimRight(base, "/") + landingPath
}

// ListingURL points at the line listing for one direction code and day.
func ListingURL(base, rv, validFrom, day string) string {
	q := url.Values{}
	q.Set("rv", rv)
	q.Set("vaziod", validFrom)
	q.Set("dan", day)
	return strings.TrimRight(base, "/") + listingPath + "?" + q.Encode()
}

// ScheduleURL points at the departures page of one line.
func ScheduleURL(base, rv, validFrom, day, line string) string {
	q := url.Values{}
	q.Set("rv", rv)
	q.Set("vaziod", validFrom)
	q.Set("dan", day)
	q.Set("linija[]", line)
	return strings.TrimRight(base, "/") + schedulePath + "?" + q.Encode()
}
