package scraper

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySchedule: the page parsed but carries no hour markers, i.e. no data for that line/day.
	ErrEmptySchedule = errors.New("empty schedule")
	// ErrEmptyListing: the line listing page has no options.
	ErrEmptyListing = errors.New("empty listing")
	// ErrMalformedDocument: the page does not follow the timetable layout.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrInvalidParameter: a day or direction code outside the upstream set.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrTransport matches every TransportError through errors.Is.
	ErrTransport = errors.New("transport error")
)

// TransportError reports a failed upstream fetch.
type TransportError struct {
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// InvalidParameter builds an ErrInvalidParameter for the named request parameter.
func InvalidParameter(name, value string) error {
	return fmt.Errorf("%w: %s %q", ErrInvalidParameter, name, value)
}
