package sms

import (
	"context"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSender sends messages through the Twilio messaging API.
type TwilioSender struct {
	FromNumber string
	Client     *twilio.RestClient
}

// NewTwilioSender creates a sender with the given account credentials.
func NewTwilioSender(accountSID, authToken, fromNumber string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{
		FromNumber: fromNumber,
		Client:     client,
	}
}

// Send dispatches the message and reports the provider message SID.
func (t *TwilioSender) Send(ctx context.Context, msg Message) (Result, error) {
	params := &api.CreateMessageParams{}
	params.SetBody(msg.Body)
	params.SetFrom(t.FromNumber)
	params.SetTo(msg.To)

	resp, err := t.Client.Api.CreateMessage(params)
	if err != nil {
		return Result{}, err
	}
	res := Result{Success: true}
	if resp.Sid != nil {
		res.ExternalID = *resp.Sid
	}
	return res, nil
}
