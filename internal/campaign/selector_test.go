package campaign

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/garageflow/garage-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testNow = time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)

func TestSelectDue_SkipsVehiclesWithoutFirstVisit(t *testing.T) {
	// A zero estimate would flag the whole catalog due; such vehicles must
	// never enter the candidate pool.
	vs := &fakeVehicleStore{vehicles: []models.Vehicle{
		{ID: primitive.NewObjectID(), OwnerPhone: "+1000", Type: models.VehicleSedan},
	}}
	sel := newSelector(vs, &fakeServiceStore{}, &fakeOutreachStore{}, testNow)

	due, err := sel.SelectDue(context.Background(), 1500, 30)
	assert.NoError(t, err)
	assert.Empty(t, due)
}

func TestSelectDue_ThresholdBoundary(t *testing.T) {
	// Estimate 8400: engine_oil and oil_filter (interval 10000) are 1600 km
	// out. Excluded at threshold 1500, included at 2000.
	v := measuredVehicle("+1001", 8400, testNow)
	vs := &fakeVehicleStore{vehicles: []models.Vehicle{v}}
	sel := newSelector(vs, &fakeServiceStore{}, &fakeOutreachStore{}, testNow)

	due, err := sel.SelectDue(context.Background(), 1500, 30)
	assert.NoError(t, err)
	assert.Empty(t, due)

	due, err = sel.SelectDue(context.Background(), 2000, 30)
	assert.NoError(t, err)
	if assert.Len(t, due, 1) {
		assert.Equal(t, 8400, due[0].EstimatedKm)
		keys := []string{}
		for _, it := range due[0].Items {
			keys = append(keys, it.ItemKey)
		}
		assert.Equal(t, []string{"engine_oil", "oil_filter"}, keys)
	}
}

func TestSelectDue_CooldownExcludesRecentOutreach(t *testing.T) {
	v := measuredVehicle("+1002", 9500, testNow)
	vs := &fakeVehicleStore{vehicles: []models.Vehicle{v}}
	os := &fakeOutreachStore{latest: map[primitive.ObjectID]*models.OutreachLog{
		v.ID: {VehicleID: v.ID, Status: models.OutreachFailed, SentAt: testNow.AddDate(0, 0, -10)},
	}}
	sel := newSelector(vs, &fakeServiceStore{}, os, testNow)

	// 10 days ago is inside the 30-day window; delivery status is irrelevant.
	due, err := sel.SelectDue(context.Background(), 1500, 30)
	assert.NoError(t, err)
	assert.Empty(t, due)
}

func TestSelectDue_CooldownExpiredIncludes(t *testing.T) {
	v := measuredVehicle("+1003", 9500, testNow)
	vs := &fakeVehicleStore{vehicles: []models.Vehicle{v}}
	os := &fakeOutreachStore{latest: map[primitive.ObjectID]*models.OutreachLog{
		v.ID: {VehicleID: v.ID, Status: models.OutreachSent, SentAt: testNow.AddDate(0, 0, -31)},
	}}
	sel := newSelector(vs, &fakeServiceStore{}, os, testNow)

	due, err := sel.SelectDue(context.Background(), 1500, 30)
	assert.NoError(t, err)
	assert.Len(t, due, 1)
}

func TestSelectDue_ServiceHistoryPushesDueOut(t *testing.T) {
	// Fresh oil change at 9000 km moves engine_oil and oil_filter out of the
	// window; nothing else is close at 9500 km.
	v := measuredVehicle("+1004", 9500, testNow)
	vs := &fakeVehicleStore{vehicles: []models.Vehicle{v}}
	ss := &fakeServiceStore{byVehicle: map[primitive.ObjectID][]models.ServiceRecord{
		v.ID: {
			{VehicleID: v.ID, ItemKey: "engine_oil", OdometerKm: 9000, NextDueKm: 19000},
			{VehicleID: v.ID, ItemKey: "oil_filter", OdometerKm: 9000, NextDueKm: 19000},
		},
	}}
	sel := newSelector(vs, ss, &fakeOutreachStore{}, testNow)

	due, err := sel.SelectDue(context.Background(), 1500, 30)
	assert.NoError(t, err)
	assert.Empty(t, due)
}

func TestSelectDue_StableOrder(t *testing.T) {
	v1 := measuredVehicle("+1005", 9500, testNow)
	v2 := measuredVehicle("+1006", 9800, testNow)
	v3 := measuredVehicle("+1007", 9900, testNow)
	vs := &fakeVehicleStore{vehicles: []models.Vehicle{v1, v2, v3}}
	sel := newSelector(vs, &fakeServiceStore{}, &fakeOutreachStore{}, testNow)

	due, err := sel.SelectDue(context.Background(), 1500, 30)
	assert.NoError(t, err)
	if assert.Len(t, due, 3) {
		assert.Equal(t, "+1005", due[0].Vehicle.OwnerPhone)
		assert.Equal(t, "+1006", due[1].Vehicle.OwnerPhone)
		assert.Equal(t, "+1007", due[2].Vehicle.OwnerPhone)
	}
}

func TestSelectDue_ListVehiclesErrorPropagates(t *testing.T) {
	vs := &fakeVehicleStore{err: errors.New("connection reset")}
	sel := newSelector(vs, &fakeServiceStore{}, &fakeOutreachStore{}, testNow)

	_, err := sel.SelectDue(context.Background(), 1500, 30)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "list vehicles")
}

func TestSelectDue_HistoryErrorPropagates(t *testing.T) {
	v := measuredVehicle("+1008", 9500, testNow)
	vs := &fakeVehicleStore{vehicles: []models.Vehicle{v}}
	ss := &fakeServiceStore{err: errors.New("timeout")}
	sel := newSelector(vs, ss, &fakeOutreachStore{}, testNow)

	_, err := sel.SelectDue(context.Background(), 1500, 30)
	assert.Error(t, err)
}
