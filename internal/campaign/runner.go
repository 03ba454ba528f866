package campaign

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/garageflow/garage-backend/internal/db"
	"github.com/garageflow/garage-backend/internal/estimate"
	"github.com/garageflow/garage-backend/internal/models"
	"github.com/garageflow/garage-backend/internal/sms"
)

// Report summarizes one campaign run.
type Report struct {
	Sent  int `json:"sent"`
	Total int `json:"total"`
}

// Runner executes one outreach campaign: select due vehicles, compose and send
// a message to each, and record every attempt in the outreach log.
type Runner struct {
	selector     *Selector
	sender       sms.Sender
	outreach     db.OutreachStore
	clock        estimate.Clock
	thresholdKm  int
	cooldownDays int
	sendDelay    time.Duration
}

// NewRunner creates a campaign runner. thresholdKm and cooldownDays are the
// operator-configured selection knobs; sendDelay paces consecutive dispatches.
func NewRunner(selector *Selector, sender sms.Sender, outreach db.OutreachStore,
	clock estimate.Clock, thresholdKm, cooldownDays int, sendDelay time.Duration) *Runner {
	return &Runner{
		selector:     selector,
		sender:       sender,
		outreach:     outreach,
		clock:        clock,
		thresholdKm:  thresholdKm,
		cooldownDays: cooldownDays,
		sendDelay:    sendDelay,
	}
}

// Run executes the campaign best-effort: a failed send is logged as a failed
// outreach entry and the loop continues. Only a store failure aborts the run.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	due, err := r.selector.SelectDue(ctx, r.thresholdKm, r.cooldownDays)
	if err != nil {
		return Report{}, fmt.Errorf("select due vehicles: %w", err)
	}

	report := Report{Total: len(due)}
	for i, d := range due {
		body := Compose(&d.Vehicle, d.Items, d.EstimatedKm)

		keys := make([]string, len(d.Items))
		for j, it := range d.Items {
			keys[j] = it.ItemKey
		}
		// One key per attempt, shared by the transport call and the log
		// entry so an attempt can be traced across both.
		key := uuid.NewString()
		entry := models.OutreachLog{
			VehicleID:      d.Vehicle.ID,
			Phone:          d.Vehicle.OwnerPhone,
			Body:           body,
			ItemKeys:       keys,
			SentAt:         r.clock.Now(),
			IdempotencyKey: key,
		}

		res, err := r.sender.Send(ctx, sms.Message{
			To:             d.Vehicle.OwnerPhone,
			Body:           body,
			IdempotencyKey: key,
		})
		if err != nil || !res.Success {
			entry.Status = models.OutreachFailed
			if err != nil {
				entry.Error = err.Error()
			}
			log.WithFields(log.Fields{
				"phone": d.Vehicle.OwnerPhone,
				"error": entry.Error,
			}).Warn("outreach send failed")
		} else {
			entry.Status = models.OutreachSent
			entry.ExternalID = res.ExternalID
			report.Sent++
		}

		if err := r.outreach.InsertOutreach(ctx, entry); err != nil {
			return report, fmt.Errorf("log outreach for %s: %w", d.Vehicle.OwnerPhone, err)
		}

		// Pace outbound sends; no delay after the final one.
		if i < len(due)-1 && r.sendDelay > 0 {
			select {
			case <-time.After(r.sendDelay):
			case <-ctx.Done():
				return report, ctx.Err()
			}
		}
	}

	log.WithFields(log.Fields{"sent": report.Sent, "total": report.Total}).Info("campaign finished")
	return report, nil
}
