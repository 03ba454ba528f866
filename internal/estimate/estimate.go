package estimate

import (
	"math"
	"time"

	"github.com/garageflow/garage-backend/internal/models"
)

// Clock abstracts time.Now so month-difference and cooldown math is
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Tier is the confidence level of a mileage estimate, ordered by data richness.
type Tier int

const (
	// TierNone means the vehicle has no visit data at all; the estimate is 0
	// and the vehicle is excluded from alerting upstream.
	TierNone Tier = iota
	// TierFirstVisit extrapolates from the first recorded visit using a
	// lifetime or vehicle-type average.
	TierFirstVisit
	// TierMeasured extrapolates from the last visit using the measured
	// per-vehicle average. Highest confidence.
	TierMeasured
)

// defaultMonthlyKm maps a vehicle type to an assumed monthly distance when no
// measured average exists.
var defaultMonthlyKm = map[models.VehicleType]float64{
	models.VehicleCompact: 700,
	models.VehicleSedan:   1200,
	models.VehicleSUV:     1300,
	models.VehicleTruck:   2500,
	models.VehicleVan:     2000,
}

const fallbackMonthlyKm = 1250

// DefaultMonthlyKm returns the assumed km/month for a vehicle type, falling
// back to a generic bucket for unrecognized types.
func DefaultMonthlyKm(t models.VehicleType) float64 {
	if v, ok := defaultMonthlyKm[t]; ok {
		return v
	}
	return fallbackMonthlyKm
}

// MonthDiff returns the calendar-month difference between from and to plus a
// fractional day component scaled by 1/30, floored at zero.
//
// This is deliberately not a calendar-accurate computation: the day-of-month
// delta is linearly scaled, which introduces a small bias near month
// boundaries. Due dates and urgency flags depend on this exact value, so keep
// the formula as is.
func MonthDiff(from, to time.Time) float64 {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	d := float64(months) + float64(to.Day()-from.Day())/30.0
	if d < 0 {
		return 0
	}
	return d
}

// Estimator predicts a vehicle's current odometer reading from its sparse
// visit history.
type Estimator struct {
	clock Clock
}

// NewEstimator creates an estimator on the given clock.
func NewEstimator(clock Clock) *Estimator {
	return &Estimator{clock: clock}
}

// Estimate returns the estimated current odometer reading in km and the
// confidence tier. Tiers are evaluated highest first; the first one whose data
// requirements are met wins.
func (e *Estimator) Estimate(v *models.Vehicle) (int, Tier) {
	now := e.clock.Now()

	if v.AvgKmPerMonth != nil && v.LastVisitKm != nil && v.LastVisitAt != nil {
		months := MonthDiff(*v.LastVisitAt, now)
		km := math.Round(float64(*v.LastVisitKm) + *v.AvgKmPerMonth*months)
		return int(km), TierMeasured
	}

	if v.HasFirstVisit() {
		avg := DefaultMonthlyKm(v.Type)
		if v.RegistrationYear != nil {
			regStart := time.Date(*v.RegistrationYear, time.January, 1, 0, 0, 0, 0, now.Location())
			lifeMonths := MonthDiff(regStart, *v.FirstVisitAt)
			if lifeMonths > 0 {
				avg = float64(*v.FirstVisitKm-v.RegistrationKm) / lifeMonths
			}
		}
		months := MonthDiff(*v.FirstVisitAt, now)
		km := math.Round(float64(*v.FirstVisitKm) + avg*months)
		return int(km), TierFirstVisit
	}

	return 0, TierNone
}

// AvgKmPerMonth returns the vehicle's measured monthly average when present,
// otherwise the vehicle-type default. Never zero or negative for the built-in
// type table.
func AvgKmPerMonth(v *models.Vehicle) float64 {
	if v.AvgKmPerMonth != nil {
		return *v.AvgKmPerMonth
	}
	return DefaultMonthlyKm(v.Type)
}

// UpdateMeasuredAverage recomputes the vehicle's measured km/month from a new
// odometer reading against the first-visit baseline. The stored value is left
// unchanged when there is no baseline or the elapsed month count is not yet
// positive.
func (e *Estimator) UpdateMeasuredAverage(v *models.Vehicle, newKm int) {
	if !v.HasFirstVisit() {
		return
	}
	months := MonthDiff(*v.FirstVisitAt, e.clock.Now())
	if months <= 0 {
		return
	}
	avg := float64(newKm-*v.FirstVisitKm) / months
	v.AvgKmPerMonth = &avg
}
