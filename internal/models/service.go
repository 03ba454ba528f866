package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServiceRecord is one completed maintenance action on a vehicle. Records are an
// immutable ledger: never updated or deleted after insert.
type ServiceRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleID primitive.ObjectID `bson:"vehicle_id" json:"vehicle_id"`
	ItemKey   string             `bson:"item_key" json:"item_key"`
	// OdometerKm is the reading when the service was performed.
	OdometerKm int       `bson:"odometer_km" json:"odometer_km"`
	ServicedAt time.Time `bson:"serviced_at" json:"serviced_at"`
	// NextDueKm is odometer + catalog interval, frozen at insert time. It is
	// not recomputed if the catalog interval changes later.
	NextDueKm int       `bson:"next_due_km" json:"next_due_km"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
