package campaign

import (
	"context"
	"fmt"
	"time"

	"github.com/garageflow/garage-backend/internal/db"
	"github.com/garageflow/garage-backend/internal/estimate"
	"github.com/garageflow/garage-backend/internal/maintenance"
	"github.com/garageflow/garage-backend/internal/models"
)

// Due is one vehicle selected for outreach, with the items that put it inside
// the alert threshold and the odometer estimate they were derived from.
type Due struct {
	Vehicle     models.Vehicle       `json:"vehicle"`
	Items       []maintenance.Status `json:"items"`
	EstimatedKm int                  `json:"estimated_km"`
	Tier        estimate.Tier        `json:"tier"`
}

// Selector filters the vehicle population to those worth contacting.
type Selector struct {
	vehicles  db.VehicleStore
	services  db.ServiceStore
	outreach  db.OutreachStore
	estimator *estimate.Estimator
	calc      *maintenance.Calculator
	clock     estimate.Clock
}

// NewSelector creates a selector over the given stores.
func NewSelector(vehicles db.VehicleStore, services db.ServiceStore, outreach db.OutreachStore,
	estimator *estimate.Estimator, calc *maintenance.Calculator, clock estimate.Clock) *Selector {
	return &Selector{
		vehicles:  vehicles,
		services:  services,
		outreach:  outreach,
		estimator: estimator,
		calc:      calc,
		clock:     clock,
	}
}

// SelectDue returns the vehicles with at least one item within thresholdKm of
// its due point, excluding vehicles with no first-visit baseline and vehicles
// already contacted inside the cooldown window. A recent outreach entry
// suppresses selection regardless of whether that send succeeded.
//
// Result order is stable with respect to store enumeration order.
func (s *Selector) SelectDue(ctx context.Context, thresholdKm, cooldownDays int) ([]Due, error) {
	vehicles, err := s.vehicles.ListVehicles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}

	now := s.clock.Now()
	cooldown := time.Duration(cooldownDays) * 24 * time.Hour

	var out []Due
	for i := range vehicles {
		v := &vehicles[i]
		if !v.HasFirstVisit() {
			// No usable data; the zero estimate would flag everything due.
			continue
		}

		estKm, tier := s.estimator.Estimate(v)

		history, err := s.services.ListServicesByVehicle(ctx, v.ID)
		if err != nil {
			return nil, fmt.Errorf("service history for %s: %w", v.OwnerPhone, err)
		}

		var dueItems []maintenance.Status
		for _, st := range s.calc.Compute(v, estKm, history) {
			if st.KmRemaining <= thresholdKm {
				dueItems = append(dueItems, st)
			}
		}
		if len(dueItems) == 0 {
			continue
		}

		last, err := s.outreach.LatestForVehicle(ctx, v.ID)
		if err != nil {
			return nil, fmt.Errorf("outreach log for %s: %w", v.OwnerPhone, err)
		}
		if last != nil && now.Sub(last.SentAt) < cooldown {
			continue
		}

		out = append(out, Due{Vehicle: *v, Items: dueItems, EstimatedKm: estKm, Tier: tier})
	}
	return out, nil
}
