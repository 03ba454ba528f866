package sms

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// DryRunSender is the transport used in dry-run mode: it logs the message
// locally and reports success without contacting any provider.
type DryRunSender struct{}

// Send logs the would-be message and succeeds.
func (DryRunSender) Send(ctx context.Context, msg Message) (Result, error) {
	log.WithFields(log.Fields{
		"to":   msg.To,
		"body": msg.Body,
	}).Info("dry-run: message not sent")
	return Result{Success: true}, nil
}
