package db

import (
	"context"
	"fmt"

	"github.com/garageflow/garage-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOutreachStore implements OutreachStore for MongoDB
type MongoOutreachStore struct {
	Collection *mongo.Collection
}

// InsertOutreach appends an entry to the outreach log.
func (c *MongoOutreachStore) InsertOutreach(ctx context.Context, entry models.OutreachLog) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := c.Collection.InsertOne(ctx, entry)
	return err
}

// LatestForVehicle returns the newest outreach entry for a vehicle by sent_at,
// or (nil, nil) when the vehicle has never been contacted.
func (c *MongoOutreachStore) LatestForVehicle(ctx context.Context, vehicleID primitive.ObjectID) (*models.OutreachLog, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "sent_at", Value: -1}})
	var entry models.OutreachLog
	err := c.Collection.FindOne(ctx, bson.M{"vehicle_id": vehicleID}, opts).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// ListRecent returns the newest entries first, capped at limit.
func (c *MongoOutreachStore) ListRecent(ctx context.Context, limit int64) ([]models.OutreachLog, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	opts := options.Find().SetSort(bson.D{{Key: "sent_at", Value: -1}}).SetLimit(limit)
	cursor, err := c.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var entries []models.OutreachLog
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
