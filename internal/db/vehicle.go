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

// MongoVehicleStore implements VehicleStore for MongoDB
type MongoVehicleStore struct {
	Collection *mongo.Collection
}

// InsertVehicle inserts a vehicle record into the collection.
func (c *MongoVehicleStore) InsertVehicle(ctx context.Context, vehicle models.Vehicle) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = time.Now()
	_, err := c.Collection.InsertOne(ctx, vehicle)
	return err
}

// UpdateVehicle replaces a vehicle by its ID.
func (c *MongoVehicleStore) UpdateVehicle(ctx context.Context, id string, vehicle models.Vehicle) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid vehicle ID: %w", err)
	}
	vehicle.ID = objectID
	vehicle.UpdatedAt = time.Now()
	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": objectID}, vehicle)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("vehicle %s: %w", id, ErrNotFound)
	}
	return nil
}

// FindVehicleByID finds a vehicle by its ID.
func (c *MongoVehicleStore) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid vehicle ID: %w", err)
	}
	var vehicle models.Vehicle
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("vehicle %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &vehicle, nil
}

// FindVehicleByPhone finds a vehicle by the owner's phone number, the unique
// key of the aggregate.
func (c *MongoVehicleStore) FindVehicleByPhone(ctx context.Context, phone string) (*models.Vehicle, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	var vehicle models.Vehicle
	err := c.Collection.FindOne(ctx, bson.M{"owner_phone": phone}).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("vehicle with phone %s: %w", phone, ErrNotFound)
		}
		return nil, err
	}
	return &vehicle, nil
}

// ListVehicles returns all vehicle records in insertion order.
func (c *MongoVehicleStore) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var vehicles []models.Vehicle
	if err := cursor.All(ctx, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}
