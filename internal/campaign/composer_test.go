package campaign

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/garageflow/garage-backend/internal/maintenance"
	"github.com/garageflow/garage-backend/internal/models"
)

func testVehicle() *models.Vehicle {
	return &models.Vehicle{
		OwnerName:  "Maya",
		OwnerPhone: "+15550001122",
		Model:      "Mazda 3",
		Type:       models.VehicleSedan,
	}
}

func upcoming(key, label string, kmRemaining, days int) maintenance.Status {
	return maintenance.Status{ItemKey: key, Label: label, KmRemaining: kmRemaining, DaysRemaining: days}
}

func urgentItem(key, label string, nextDueKm int) maintenance.Status {
	return maintenance.Status{ItemKey: key, Label: label, NextDueKm: nextDueKm, Urgent: true}
}

func TestCompose_GreetingAndEstimate(t *testing.T) {
	body := Compose(testVehicle(), []maintenance.Status{
		urgentItem("engine_oil", "Engine oil", 52000),
	}, 51400)

	assert.Contains(t, body, "Hi Maya,")
	assert.Contains(t, body, "Mazda 3")
	assert.Contains(t, body, "51400 km")
}

func TestCompose_UrgentLineFormat(t *testing.T) {
	body := Compose(testVehicle(), []maintenance.Status{
		urgentItem("engine_oil", "Engine oil", 52000),
	}, 51400)

	assert.Contains(t, body, "Engine oil has reached its recommended service interval (due at 52000 km)")
}

func TestCompose_CapsUpcomingAtTwo(t *testing.T) {
	items := []maintenance.Status{
		upcoming("air_filter", "Air filter", 1200, 30),
		upcoming("cabin_filter", "Cabin filter", 1300, 33),
		upcoming("brake_pads", "Brake pads", 1400, 35),
		upcoming("coolant", "Coolant", 1450, 36),
		upcoming("spark_plugs", "Spark plugs", 1500, 38),
	}
	body := Compose(testVehicle(), items, 18800)

	// First two in original order, rest silently dropped.
	assert.Contains(t, body, "Air filter")
	assert.Contains(t, body, "Cabin filter")
	assert.NotContains(t, body, "Brake pads")
	assert.NotContains(t, body, "Coolant")
	assert.NotContains(t, body, "Spark plugs")
	assert.Less(t, strings.Index(body, "Air filter"), strings.Index(body, "Cabin filter"))
}

func TestCompose_UrgentItemsNeverTruncated(t *testing.T) {
	items := []maintenance.Status{
		urgentItem("engine_oil", "Engine oil", 50000),
		urgentItem("oil_filter", "Oil filter", 50000),
		urgentItem("brake_fluid", "Brake fluid", 50500),
		urgentItem("timing_belt", "Timing belt", 50900),
		upcoming("air_filter", "Air filter", 1200, 30),
	}
	body := Compose(testVehicle(), items, 49900)

	for _, label := range []string{"Engine oil", "Oil filter", "Brake fluid", "Timing belt", "Air filter"} {
		assert.Contains(t, body, label)
	}
}

func TestCompose_UpcomingLineFormat(t *testing.T) {
	body := Compose(testVehicle(), []maintenance.Status{
		upcoming("air_filter", "Air filter", 1200, 30),
	}, 18800)

	assert.Contains(t, body, "Air filter: about 1200 km (~30 days) remaining")
}

func TestCompose_SoftFooter(t *testing.T) {
	body := Compose(testVehicle(), []maintenance.Status{
		upcoming("air_filter", "Air filter", 1200, 30),
	}, 18800)

	// Non-pressuring tone: no deadlines, a gentle call to action.
	assert.Contains(t, body, "Whenever it suits you")
	assert.NotContains(t, strings.ToLower(body), "immediately")
	assert.NotContains(t, strings.ToLower(body), "deadline")
}
