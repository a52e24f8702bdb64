// FILE: database/repository/timetable/indexes.go
package timetableRepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the timetables collection.
func (r *MongoTimetableRepo) EnsureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		// One document per line, day and direction.
		{
			Keys:    bson.D{{Key: "id", Value: 1}, {Key: "day", Value: 1}, {Key: "direction", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_line_day_direction"),
		},
		// Listing a whole day for the refresh job.
		{
			Keys:    bson.D{{Key: "day", Value: 1}, {Key: "direction", Value: 1}, {Key: "id", Value: 1}},
			Options: options.Index().SetName("day_direction_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create timetable indexes: %w", err)
	}
	return nil
}
