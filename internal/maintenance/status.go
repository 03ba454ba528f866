package maintenance

import (
	"math"

	"github.com/garageflow/garage-backend/internal/catalog"
	"github.com/garageflow/garage-backend/internal/estimate"
	"github.com/garageflow/garage-backend/internal/models"
)

// DaysUnknown is the sentinel returned when no usable monthly average exists
// to convert remaining distance into remaining days.
const DaysUnknown = 999

// DefaultUrgencyKm is the remaining-distance threshold below which an item is
// flagged urgent.
const DefaultUrgencyKm = 1000

// Status is the due state of one catalog item for one vehicle.
type Status struct {
	ItemKey       string `json:"item_key"`
	Label         string `json:"label"`
	Icon          string `json:"icon"`
	IntervalKm    int    `json:"interval_km"`
	LastDoneKm    int    `json:"last_done_km"`
	NextDueKm     int    `json:"next_due_km"`
	KmRemaining   int    `json:"km_remaining"`
	DaysRemaining int    `json:"days_remaining"`
	Urgent        bool   `json:"urgent"`
}

// Calculator derives per-item due status from an odometer estimate and the
// vehicle's service history.
type Calculator struct {
	urgencyKm int
}

// NewCalculator creates a calculator with the given urgency threshold in km.
// Pass DefaultUrgencyKm unless the operator overrides it.
func NewCalculator(urgencyKm int) *Calculator {
	return &Calculator{urgencyKm: urgencyKm}
}

// Compute returns one Status per catalog item, in catalog definition order.
// A never-serviced item is treated as due from zero: lastDoneKm 0, nextDueKm
// equal to the catalog interval.
func (c *Calculator) Compute(v *models.Vehicle, estimatedKm int, history []models.ServiceRecord) []Status {
	avg := estimate.AvgKmPerMonth(v)

	out := make([]Status, 0, len(catalog.Items()))
	for _, item := range catalog.Items() {
		lastDone, nextDue := lastService(history, item)

		remaining := nextDue - estimatedKm
		if remaining < 0 {
			remaining = 0
		}

		days := DaysUnknown
		if avg > 0 {
			days = int(math.Round(float64(remaining) / avg * 30))
		}

		out = append(out, Status{
			ItemKey:       item.Key,
			Label:         item.Label,
			Icon:          item.Icon,
			IntervalKm:    item.IntervalKm,
			LastDoneKm:    lastDone,
			NextDueKm:     nextDue,
			KmRemaining:   remaining,
			DaysRemaining: days,
			Urgent:        remaining < c.urgencyKm,
		})
	}
	return out
}

// lastService picks the most recent service of the item by highest odometer
// reading. The record's frozen NextDueKm is honored over a recomputation, so a
// later catalog change does not shift already-recorded due points.
func lastService(history []models.ServiceRecord, item catalog.Item) (lastDoneKm, nextDueKm int) {
	nextDueKm = item.IntervalKm
	found := false
	for _, rec := range history {
		if rec.ItemKey != item.Key {
			continue
		}
		if !found || rec.OdometerKm > lastDoneKm {
			lastDoneKm = rec.OdometerKm
			nextDueKm = rec.NextDueKm
			found = true
		}
	}
	return lastDoneKm, nextDueKm
}
