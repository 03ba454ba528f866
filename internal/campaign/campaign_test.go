package campaign

import (
	"context"
	"errors"
	"time"

	"github.com/garageflow/garage-backend/internal/estimate"
	"github.com/garageflow/garage-backend/internal/maintenance"
	"github.com/garageflow/garage-backend/internal/models"
	"github.com/garageflow/garage-backend/internal/sms"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Shared in-memory fakes for the selector and runner tests.

type fakeClock struct {
	now time.Time
}

func (f fakeClock) Now() time.Time { return f.now }

type fakeVehicleStore struct {
	vehicles []models.Vehicle
	err      error
}

func (f *fakeVehicleStore) InsertVehicle(ctx context.Context, v models.Vehicle) error { return nil }
func (f *fakeVehicleStore) UpdateVehicle(ctx context.Context, id string, v models.Vehicle) error {
	return nil
}
func (f *fakeVehicleStore) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeVehicleStore) FindVehicleByPhone(ctx context.Context, phone string) (*models.Vehicle, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeVehicleStore) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	return f.vehicles, f.err
}

type fakeServiceStore struct {
	byVehicle map[primitive.ObjectID][]models.ServiceRecord
	err       error
}

func (f *fakeServiceStore) InsertService(ctx context.Context, rec models.ServiceRecord) error {
	return nil
}
func (f *fakeServiceStore) ListServicesByVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]models.ServiceRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byVehicle[vehicleID], nil
}

type fakeOutreachStore struct {
	latest    map[primitive.ObjectID]*models.OutreachLog
	inserted  []models.OutreachLog
	insertErr error
	latestErr error
}

func (f *fakeOutreachStore) InsertOutreach(ctx context.Context, entry models.OutreachLog) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, entry)
	return nil
}
func (f *fakeOutreachStore) LatestForVehicle(ctx context.Context, vehicleID primitive.ObjectID) (*models.OutreachLog, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	return f.latest[vehicleID], nil
}
func (f *fakeOutreachStore) ListRecent(ctx context.Context, limit int64) ([]models.OutreachLog, error) {
	return f.inserted, nil
}

type fakeSender struct {
	sent    []sms.Message
	results map[string]sms.Result // keyed by phone
	errs    map[string]error
}

func (f *fakeSender) Send(ctx context.Context, msg sms.Message) (sms.Result, error) {
	f.sent = append(f.sent, msg)
	if err := f.errs[msg.To]; err != nil {
		return sms.Result{}, err
	}
	if res, ok := f.results[msg.To]; ok {
		return res, nil
	}
	return sms.Result{Success: true, ExternalID: "SM-" + msg.To}, nil
}

func intPtr(v int) *int              { return &v }
func floatPtr(v float64) *float64    { return &v }
func timePtr(t time.Time) *time.Time { return &t }

// measuredVehicle builds a vehicle that estimates exactly estKm at the given
// clock time (last visit at estKm right now, measured average present).
func measuredVehicle(phone string, estKm int, now time.Time) models.Vehicle {
	first := now.AddDate(0, -6, 0)
	return models.Vehicle{
		ID:            primitive.NewObjectID(),
		OwnerName:     "Dana",
		OwnerPhone:    phone,
		Model:         "Corolla",
		Type:          models.VehicleSedan,
		FirstVisitKm:  intPtr(estKm - 6000),
		FirstVisitAt:  timePtr(first),
		LastVisitKm:   intPtr(estKm),
		LastVisitAt:   timePtr(now),
		AvgKmPerMonth: floatPtr(1000),
		VisitCount:    2,
	}
}

func newSelector(vs *fakeVehicleStore, ss *fakeServiceStore, os *fakeOutreachStore, now time.Time) *Selector {
	clock := fakeClock{now: now}
	return NewSelector(vs, ss, os,
		estimate.NewEstimator(clock),
		maintenance.NewCalculator(maintenance.DefaultUrgencyKm),
		clock)
}
