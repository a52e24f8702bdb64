// File: models/timetable.go
package models

import (
	"strings"
	"time"
)

// DayCode selects which timetable of a line is requested.
type DayCode string

const (
	DayRegular  DayCode = "R" // working days
	DaySaturday DayCode = "S"
	DaySunday   DayCode = "N" // Sundays and holidays
)

// ParseDayCode upper-cases and trims raw. It does not validate against the upstream set.
func ParseDayCode(raw string) DayCode {
	return DayCode(strings.ToUpper(strings.TrimSpace(raw)))
}

func (d DayCode) String() string { return string(d) }

// Variant tells a one-direction timetable from a two-direction one.
type Variant string

const (
	OneWay Variant = "oneWay"
	TwoWay Variant = "twoWay"
)

// Timetable is the normalized schedule of one line on one day.
// For OneWay only Line/Schedule are set, for TwoWay only LineA/LineB/ScheduleA/ScheduleB.
type Timetable struct {
	ID      string  `bson:"id" json:"id"`
	Day     DayCode `bson:"day" json:"day"`
	Variant Variant `bson:"variant" json:"variant"`

	Line     string       `bson:"line,omitempty" json:"line,omitempty"`
	Schedule *ScheduleMap `bson:"schedule,omitempty" json:"schedule,omitempty"`

	LineA     string       `bson:"lineA,omitempty" json:"lineA,omitempty"`
	LineB     string       `bson:"lineB,omitempty" json:"lineB,omitempty"`
	ScheduleA *ScheduleMap `bson:"scheduleA,omitempty" json:"scheduleA,omitempty"`
	ScheduleB *ScheduleMap `bson:"scheduleB,omitempty" json:"scheduleB,omitempty"`

	// Set by the service layer, never by extraction.
	Direction string    `bson:"direction,omitempty" json:"direction,omitempty"`
	ValidFrom string    `bson:"validFrom,omitempty" json:"validFrom,omitempty"`
	FetchedAt time.Time `bson:"fetchedAt,omitempty" json:"fetchedAt,omitempty"`
}

func NewOneWayTimetable(id string, day DayCode, line string, schedule *ScheduleMap) *Timetable {
	if schedule == nil {
		schedule = NewScheduleMap()
	}
	return &Timetable{
		ID:       id,
		Day:      day,
		Variant:  OneWay,
		Line:     line,
		Schedule: schedule,
	}
}

func NewTwoWayTimetable(id string, day DayCode, lineA, lineB string, scheduleA, scheduleB *ScheduleMap) *Timetable {
	if scheduleA == nil {
		scheduleA = NewScheduleMap()
	}
	if scheduleB == nil {
		scheduleB = NewScheduleMap()
	}
	return &Timetable{
		ID:        id,
		Day:       day,
		Variant:   TwoWay,
		LineA:     lineA,
		LineB:     lineB,
		ScheduleA: scheduleA,
		ScheduleB: scheduleB,
	}
}

// WithMeta returns a copy stamped with upstream metadata. Schedules are shared, not copied.
func (t Timetable) WithMeta(direction, validFrom string, fetchedAt time.Time) *Timetable {
	t.Direction = direction
	t.ValidFrom = validFrom
	t.FetchedAt = fetchedAt
	return &t
}

// LineOption is one entry of a line listing page.
type LineOption struct {
	Value string `bson:"value" json:"value"`
	Label string `bson:"label" json:"label"`
}
