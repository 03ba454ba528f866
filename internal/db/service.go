package db

import (
	"context"
	"fmt"
	"time"

	"github.com/garageflow/garage-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoServiceStore implements ServiceStore for MongoDB
type MongoServiceStore struct {
	Collection *mongo.Collection
}

// InsertService appends a service record to the ledger.
func (c *MongoServiceStore) InsertService(ctx context.Context, rec models.ServiceRecord) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	rec.CreatedAt = time.Now()
	_, err := c.Collection.InsertOne(ctx, rec)
	return err
}

// ListServicesByVehicle returns all service records for a vehicle.
func (c *MongoServiceStore) ListServicesByVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]models.ServiceRecord, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, bson.M{"vehicle_id": vehicleID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var records []models.ServiceRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
