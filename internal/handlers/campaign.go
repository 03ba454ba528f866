package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/garageflow/garage-backend/internal/db"
	"github.com/garageflow/garage-backend/internal/estimate"
	"github.com/garageflow/garage-backend/internal/models"
	"github.com/garageflow/garage-backend/internal/scheduler"
	"github.com/garageflow/garage-backend/internal/sms"
)

// CampaignHandler exposes the outreach surface: manual campaign trigger,
// outreach log listing, and ad-hoc single messages.
type CampaignHandler struct {
	outreach db.OutreachStore
	vehicles db.VehicleStore
	sender   sms.Sender
	sched    *scheduler.Scheduler
	clock    estimate.Clock
}

// NewCampaignHandler creates a campaign handler.
func NewCampaignHandler(outreach db.OutreachStore, vehicles db.VehicleStore, sender sms.Sender,
	sched *scheduler.Scheduler, clock estimate.Clock) *CampaignHandler {
	return &CampaignHandler{
		outreach: outreach,
		vehicles: vehicles,
		sender:   sender,
		sched:    sched,
		clock:    clock,
	}
}

// RunCampaign starts a campaign run in the background and acknowledges
// immediately. The run is independent of the daily schedule.
func (h *CampaignHandler) RunCampaign(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.sched.TriggerNow()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "campaign started"})
}

// ListOutreach returns the most recent outreach log entries, newest first.
func (h *CampaignHandler) ListOutreach(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := int64(50)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := h.outreach.ListRecent(r.Context(), limit)
	if err != nil {
		http.Error(w, "Failed to list outreach log", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.OutreachLog{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// MessageRequest is the payload for an ad-hoc single send.
type MessageRequest struct {
	Phone string `json:"phone"`
	Body  string `json:"body"`
}

// SendMessage sends one message outside any campaign. The attempt is recorded
// in the outreach log, so it participates in the campaign cooldown when the
// phone belongs to a known vehicle.
func (h *CampaignHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req MessageRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Phone == "" || req.Body == "" {
		http.Error(w, "phone and body are required", http.StatusBadRequest)
		return
	}

	key := uuid.NewString()
	entry := models.OutreachLog{
		Phone:          req.Phone,
		Body:           req.Body,
		SentAt:         h.clock.Now(),
		IdempotencyKey: key,
	}
	vehicle, err := h.vehicles.FindVehicleByPhone(r.Context(), req.Phone)
	switch {
	case err == nil:
		entry.VehicleID = vehicle.ID
	case !errors.Is(err, db.ErrNotFound):
		http.Error(w, "Failed to look up vehicle", http.StatusInternalServerError)
		return
	}

	res, err := h.sender.Send(r.Context(), sms.Message{
		To:             req.Phone,
		Body:           req.Body,
		IdempotencyKey: key,
	})
	if err != nil || !res.Success {
		entry.Status = models.OutreachFailed
		if err != nil {
			entry.Error = err.Error()
		}
	} else {
		entry.Status = models.OutreachSent
		entry.ExternalID = res.ExternalID
	}

	if err := h.outreach.InsertOutreach(r.Context(), entry); err != nil {
		http.Error(w, "Failed to record outreach", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":      entry.Status,
		"external_id": entry.ExternalID,
	})
}
