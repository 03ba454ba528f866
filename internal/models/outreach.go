package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OutreachStatus is the delivery outcome of a single outreach attempt.
type OutreachStatus string

const (
	OutreachSent   OutreachStatus = "sent"
	OutreachFailed OutreachStatus = "failed"
)

// OutreachLog is one attempted notification to a vehicle owner. Append-only.
// SentAt is the sole input to the campaign cooldown check: any entry inside the
// cooldown window suppresses a new alert regardless of its Status.
type OutreachLog struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleID      primitive.ObjectID `bson:"vehicle_id" json:"vehicle_id"`
	Phone          string             `bson:"phone" json:"phone"`
	Body           string             `bson:"body" json:"body"`
	ItemKeys       []string           `bson:"item_keys" json:"item_keys"`
	Status         OutreachStatus     `bson:"status" json:"status"`
	SentAt         time.Time          `bson:"sent_at" json:"sent_at"`
	IdempotencyKey string             `bson:"idempotency_key,omitempty" json:"idempotency_key,omitempty"`
	ExternalID     string             `bson:"external_id,omitempty" json:"external_id,omitempty"`
	Error          string             `bson:"error,omitempty" json:"error,omitempty"`
}
