package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VehicleType buckets a vehicle for the default monthly-distance assumption
// used when no measured average is available.
type VehicleType string

const (
	VehicleCompact VehicleType = "compact"
	VehicleSedan   VehicleType = "sedan"
	VehicleSUV     VehicleType = "suv"
	VehicleTruck   VehicleType = "truck"
	VehicleVan     VehicleType = "van"
)

// Vehicle is the aggregate root for a customer's mileage history, keyed by the
// owner's phone number. One record per (owner, phone) pairing.
type Vehicle struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerName        string             `bson:"owner_name" json:"owner_name"`
	OwnerPhone       string             `bson:"owner_phone" json:"owner_phone"`
	Model            string             `bson:"model" json:"model"`
	Type             VehicleType        `bson:"type" json:"type"`
	RegistrationYear *int               `bson:"registration_year,omitempty" json:"registration_year,omitempty"`
	RegistrationKm   int                `bson:"registration_km" json:"registration_km"`
	FirstVisitKm     *int               `bson:"first_visit_km,omitempty" json:"first_visit_km,omitempty"`
	FirstVisitAt     *time.Time         `bson:"first_visit_at,omitempty" json:"first_visit_at,omitempty"`
	LastVisitKm      *int               `bson:"last_visit_km,omitempty" json:"last_visit_km,omitempty"`
	LastVisitAt      *time.Time         `bson:"last_visit_at,omitempty" json:"last_visit_at,omitempty"`
	AvgKmPerMonth    *float64           `bson:"avg_km_per_month,omitempty" json:"avg_km_per_month,omitempty"`
	VisitCount       int                `bson:"visit_count" json:"visit_count"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}

// EstablishFirstVisit records the first-visit odometer and date. The fields are
// write-once: if either is already set the call is a no-op, so callers cannot
// accidentally overwrite the baseline the estimator depends on.
func (v *Vehicle) EstablishFirstVisit(km int, at time.Time) bool {
	if v.FirstVisitKm != nil || v.FirstVisitAt != nil {
		return false
	}
	v.FirstVisitKm = &km
	v.FirstVisitAt = &at
	return true
}

// RecordVisit updates the last-visit fields and increments the visit counter.
// The first-visit baseline and the measured average are handled separately.
func (v *Vehicle) RecordVisit(km int, at time.Time) {
	v.LastVisitKm = &km
	v.LastVisitAt = &at
	v.VisitCount++
}

// HasFirstVisit reports whether the vehicle has a usable first-visit baseline.
func (v *Vehicle) HasFirstVisit() bool {
	return v.FirstVisitKm != nil && v.FirstVisitAt != nil
}
