package timetableRepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolasamardzija/busNS-rest-api/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no timetable matches a key.
var ErrNotFound = errors.New("timetable not found")

// MongoTimetableRepo implements TimetableRepository using MongoDB.
type MongoTimetableRepo struct {
	coll *mongo.Collection
}

// NewMongoTimetableRepo stores timetables in the "timetables" collection of db.
func NewMongoTimetableRepo(db *mongo.Database) TimetableRepository {
	return &MongoTimetableRepo{coll: db.Collection("timetables")}
}

func keyFilter(k Key) bson.M {
	return bson.M{"id": k.ID, "day": k.Day, "direction": k.Direction}
}

func (r *MongoTimetableRepo) Upsert(ctx context.Context, tt *models.Timetable) error {
	if tt.ID == "" {
		return errors.New("timetable must have an id")
	}
	filter := keyFilter(Key{ID: tt.ID, Day: tt.Day, Direction: tt.Direction})
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, filter, tt, opts); err != nil {
		return fmt.Errorf("failed to upsert timetable %s/%s: %w", tt.ID, tt.Day, err)
	}
	return nil
}

func (r *MongoTimetableRepo) Get(ctx context.Context, key Key) (*models.Timetable, error) {
	var tt models.Timetable
	err := r.coll.FindOne(ctx, keyFilter(key)).Decode(&tt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timetable %s/%s: %w", key.ID, key.Day, err)
	}
	return &tt, nil
}

func (r *MongoTimetableRepo) ListByDay(ctx context.Context, day models.DayCode, direction string) ([]models.Timetable, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"day": day, "direction": direction}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list timetables: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Timetable
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
