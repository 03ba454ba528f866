package db

import (
	"context"

	"github.com/garageflow/garage-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VehicleStore defines the interface for vehicle record operations.
type VehicleStore interface {
	InsertVehicle(ctx context.Context, vehicle models.Vehicle) error
	UpdateVehicle(ctx context.Context, id string, vehicle models.Vehicle) error
	FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
	FindVehicleByPhone(ctx context.Context, phone string) (*models.Vehicle, error)
	ListVehicles(ctx context.Context) ([]models.Vehicle, error)
}

// ServiceStore defines the interface for the service-history ledger. Records
// are append-only; there is no update or delete.
type ServiceStore interface {
	InsertService(ctx context.Context, rec models.ServiceRecord) error
	ListServicesByVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]models.ServiceRecord, error)
}

// OutreachStore defines the interface for the outreach log. Entries are
// append-only; LatestForVehicle returns (nil, nil) when there is no entry.
type OutreachStore interface {
	InsertOutreach(ctx context.Context, entry models.OutreachLog) error
	LatestForVehicle(ctx context.Context, vehicleID primitive.ObjectID) (*models.OutreachLog, error)
	ListRecent(ctx context.Context, limit int64) ([]models.OutreachLog, error)
}
