package timetable

import (
	"context"

	"github.com/nikolasamardzija/busNS-rest-api/models"
	"github.com/nikolasamardzija/busNS-rest-api/services/gspns"
)

// ListingKind selects the city or the intercity line listing.
type ListingKind string

const (
	CityLines      ListingKind = "city"
	IntercityLines ListingKind = "intercity"
)

// Direction returns the upstream rv code of the listing.
func (k ListingKind) Direction() (string, bool) {
	switch k {
	case CityLines:
		return gspns.RvCity, true
	case IntercityLines:
		return gspns.RvIntercity, true
	default:
		return "", false
	}
}

// RefreshReport summarizes one refresh run.
type RefreshReport struct {
	Day       models.DayCode `json:"day"`
	Direction string         `json:"direction"`
	Total     int            `json:"total"`
	Updated   int            `json:"updated"`
	Empty     int            `json:"empty"`
	Failed    int            `json:"failed"`
}

// TimetableService is what the HTTP and worker layers use.
type TimetableService interface {
	// GetTimetable returns the timetable of a line, from cache or freshly extracted.
	GetTimetable(ctx context.Context, line, day, rv string) (*models.Timetable, error)
	// StoredTimetable returns the last persisted timetable without contacting upstream.
	StoredTimetable(ctx context.Context, line, day, rv string) (*models.Timetable, error)
	// StoredTimetables returns every persisted timetable of a day and direction.
	StoredTimetables(ctx context.Context, day, rv string) ([]models.Timetable, error)
	// ListLines returns the lines of a listing for a day.
	ListLines(ctx context.Context, kind ListingKind, day string) ([]models.LineOption, error)
	// Refresh re-extracts and stores every line of one direction code.
	Refresh(ctx context.Context, day, rv string) (RefreshReport, error)
}

// Upstream is the subset of the gspns client the service needs.
type Upstream interface {
	FetchListing(ctx context.Context, rv, validFrom, day string) ([]byte, error)
	FetchSchedule(ctx context.Context, rv, validFrom, day, line string) ([]byte, error)
}

// BaseValuesResolver provides the currently valid request parameters.
type BaseValuesResolver interface {
	BaseValues(ctx context.Context) (gspns.BaseValues, error)
	Invalidate(ctx context.Context) error
}
