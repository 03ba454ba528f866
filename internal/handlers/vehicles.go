package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/garageflow/garage-backend/internal/campaign"
	"github.com/garageflow/garage-backend/internal/catalog"
	"github.com/garageflow/garage-backend/internal/db"
	"github.com/garageflow/garage-backend/internal/estimate"
	"github.com/garageflow/garage-backend/internal/models"
)

// VehicleHandler handles visit registration, service recording and the
// due-vehicle listing.
type VehicleHandler struct {
	vehicles    db.VehicleStore
	services    db.ServiceStore
	selector    *campaign.Selector
	estimator   *estimate.Estimator
	clock       estimate.Clock
	thresholdKm int
}

// NewVehicleHandler creates a vehicle handler. thresholdKm is the default for
// the due listing when the request does not override it.
func NewVehicleHandler(vehicles db.VehicleStore, services db.ServiceStore, selector *campaign.Selector,
	estimator *estimate.Estimator, clock estimate.Clock, thresholdKm int) *VehicleHandler {
	return &VehicleHandler{
		vehicles:    vehicles,
		services:    services,
		selector:    selector,
		estimator:   estimator,
		clock:       clock,
		thresholdKm: thresholdKm,
	}
}

// VisitRequest is the payload for registering a shop visit.
type VisitRequest struct {
	OwnerName        string             `json:"owner_name"`
	OwnerPhone       string             `json:"owner_phone"`
	Model            string             `json:"model"`
	Type             models.VehicleType `json:"type"`
	RegistrationYear *int               `json:"registration_year,omitempty"`
	RegistrationKm   int                `json:"registration_km"`
	OdometerKm       int                `json:"odometer_km"`
	VisitedAt        *time.Time         `json:"visited_at,omitempty"`
}

// RegisterVisit creates the vehicle on its first visit and updates the visit
// history on every later one. The first-visit baseline is established exactly
// once; the measured monthly average is recomputed from each new reading.
func (h *VehicleHandler) RegisterVisit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req VisitRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.OwnerPhone == "" {
		http.Error(w, "owner_phone is required", http.StatusBadRequest)
		return
	}
	if req.OdometerKm <= 0 {
		http.Error(w, "odometer_km must be positive", http.StatusBadRequest)
		return
	}

	visitedAt := h.clock.Now()
	if req.VisitedAt != nil {
		visitedAt = *req.VisitedAt
	}

	vehicle, err := h.vehicles.FindVehicleByPhone(r.Context(), req.OwnerPhone)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Failed to look up vehicle", http.StatusInternalServerError)
			return
		}
		// First visit: create the aggregate.
		created := models.Vehicle{
			OwnerName:        req.OwnerName,
			OwnerPhone:       req.OwnerPhone,
			Model:            req.Model,
			Type:             req.Type,
			RegistrationYear: req.RegistrationYear,
			RegistrationKm:   req.RegistrationKm,
		}
		created.EstablishFirstVisit(req.OdometerKm, visitedAt)
		created.RecordVisit(req.OdometerKm, visitedAt)
		if err := h.vehicles.InsertVehicle(r.Context(), created); err != nil {
			http.Error(w, "Failed to create vehicle", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
		return
	}

	if vehicle.FirstVisitKm != nil && req.OdometerKm < *vehicle.FirstVisitKm {
		http.Error(w, "odometer_km below first recorded reading", http.StatusBadRequest)
		return
	}

	// Profile fields follow the latest registration when provided.
	if req.OwnerName != "" {
		vehicle.OwnerName = req.OwnerName
	}
	if req.Model != "" {
		vehicle.Model = req.Model
	}
	if req.Type != "" {
		vehicle.Type = req.Type
	}

	vehicle.EstablishFirstVisit(req.OdometerKm, visitedAt)
	h.estimator.UpdateMeasuredAverage(vehicle, req.OdometerKm)
	vehicle.RecordVisit(req.OdometerKm, visitedAt)

	if err := h.vehicles.UpdateVehicle(r.Context(), vehicle.ID.Hex(), *vehicle); err != nil {
		http.Error(w, "Failed to update vehicle", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vehicle)
}

// ServiceRequest is the payload for recording a completed maintenance item.
type ServiceRequest struct {
	OwnerPhone string     `json:"owner_phone"`
	ItemKey    string     `json:"item_key"`
	OdometerKm int        `json:"odometer_km"`
	ServicedAt *time.Time `json:"serviced_at,omitempty"`
}

// RecordService appends a service record with the next due point frozen from
// the current catalog interval.
func (h *VehicleHandler) RecordService(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req ServiceRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.OdometerKm <= 0 {
		http.Error(w, "odometer_km must be positive", http.StatusBadRequest)
		return
	}

	item, ok := catalog.Lookup(req.ItemKey)
	if !ok {
		http.Error(w, "Unknown maintenance item", http.StatusBadRequest)
		return
	}

	vehicle, err := h.vehicles.FindVehicleByPhone(r.Context(), req.OwnerPhone)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Vehicle not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to look up vehicle", http.StatusInternalServerError)
		return
	}

	servicedAt := h.clock.Now()
	if req.ServicedAt != nil {
		servicedAt = *req.ServicedAt
	}

	rec := models.ServiceRecord{
		VehicleID:  vehicle.ID,
		ItemKey:    item.Key,
		OdometerKm: req.OdometerKm,
		ServicedAt: servicedAt,
		NextDueKm:  req.OdometerKm + item.IntervalKm,
	}
	if err := h.services.InsertService(r.Context(), rec); err != nil {
		http.Error(w, "Failed to record service", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(rec)
}

// ListDue returns the vehicles currently inside the alert threshold with their
// due items. The cooldown filter is not applied here: this is the operator's
// raw view, not a send decision.
func (h *VehicleHandler) ListDue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	threshold := h.thresholdKm
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "Invalid threshold", http.StatusBadRequest)
			return
		}
		threshold = n
	}

	due, err := h.selector.SelectDue(r.Context(), threshold, 0)
	if err != nil {
		http.Error(w, "Failed to compute due vehicles", http.StatusInternalServerError)
		return
	}
	if due == nil {
		due = []campaign.Due{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(due)
}
