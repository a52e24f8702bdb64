package timetableRepo

import (
	"context"

	"github.com/nikolasamardzija/busNS-rest-api/models"
)

// Key identifies one stored timetable.
type Key struct {
	ID        string
	Day       models.DayCode
	Direction string
}

// TimetableRepository defines methods for timetable data access.
type TimetableRepository interface {
	// Upsert replaces the stored timetable with the same id, day and direction.
	Upsert(ctx context.Context, tt *models.Timetable) error
	// Get returns the stored timetable or ErrNotFound.
	Get(ctx context.Context, key Key) (*models.Timetable, error)
	// ListByDay returns every timetable stored for a day and direction, ordered by id.
	ListByDay(ctx context.Context, day models.DayCode, direction string) ([]models.Timetable, error)
	// EnsureIndexes creates the collection indexes.
	EnsureIndexes(ctx context.Context) error
}
