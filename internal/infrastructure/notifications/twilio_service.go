package notifications

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"github.com/you/neuraread/domain"
	"github.com/you/neuraread/internal/logging"
)

// MessageCreator is the Twilio call the service makes
type MessageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioServiceImpl implements domain.NotificationService
type TwilioServiceImpl struct {
	api        MessageCreator
	fromNumber string
	log        logging.Logger
}

// NewTwilioService creates a new Twilio notification service
func NewTwilioService(accountSID, authToken, fromNumber string, log logging.Logger) domain.NotificationService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return NewTwilioServiceWithAPI(client.Api, fromNumber, log)
}

// NewTwilioServiceWithAPI wires an existing message API
func NewTwilioServiceWithAPI(api MessageCreator, fromNumber string, log logging.Logger) domain.NotificationService {
	return &TwilioServiceImpl{api: api, fromNumber: fromNumber, log: log.With("component", "notifications")}
}

// SendSMS implements domain.NotificationService
func (t *TwilioServiceImpl) SendSMS(to, message string) error {
	// Without a sender number nothing leaves the process. The body carries
	// reset codes, so only its size is logged.
	if t.fromNumber == "" {
		t.log.Warn(context.Background(), "sms not sent, twilio sender unset", "to", to, "bytes", len(message))
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.fromNumber)
	params.SetBody(message)

	if _, err := t.api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	return nil
}

// SendEmail implements domain.NotificationService. There is no mail
// transport; the delivery is recorded without its body.
func (t *TwilioServiceImpl) SendEmail(to, subject, body string) error {
	t.log.Debug(context.Background(), "email not sent, no mail transport", "to", to, "subject", subject, "bytes", len(body))
	return nil
}
