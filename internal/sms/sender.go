package sms

import "context"

// Message is one outbound text message.
type Message struct {
	To             string `json:"to"`
	Body           string `json:"body"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// Result is the transport's answer for a single send attempt.
type Result struct {
	Success    bool   `json:"success"`
	ExternalID string `json:"external_id,omitempty"`
}

// Sender delivers a message over an SMS transport.
type Sender interface {
	Send(ctx context.Context, msg Message) (Result, error)
}
