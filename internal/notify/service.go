package notify

import (
	"context"
	"fmt"

	"github.com/mhalligan/clinicbook/internal/appointments"
	appconfig "github.com/mhalligan/clinicbook/internal/config"
	"github.com/mhalligan/clinicbook/pkg/logging"
)

// BuildEmailSender picks the sender named by EMAIL_PROVIDER: "sendgrid",
// "ses", or "stub".
func BuildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (EmailSender, error) {
	if logger == nil {
		logger = logging.Default()
	}
	switch cfg.EmailProvider {
	case "sendgrid":
		sender := NewSendGridSender(SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender == nil {
			return nil, fmt.Errorf("notify: sendgrid selected but SENDGRID_API_KEY is empty")
		}
		return sender, nil
	case "ses":
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("notify: failed to load AWS config: %w", err)
		}
		return NewSESSender(NewSESClient(awsCfg), SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger), nil
	default:
		return NewStubEmailSender(logger), nil
	}
}

// BookingNotifier sends appointment lifecycle emails to patients. It
// implements appointments.Notifier.
type BookingNotifier struct {
	sender EmailSender
	logger *logging.Logger
}

// NewBookingNotifier creates a notifier over any email sender.
func NewBookingNotifier(sender EmailSender, logger *logging.Logger) *BookingNotifier {
	if sender == nil {
		sender = NewStubEmailSender(logger)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingNotifier{sender: sender, logger: logger}
}

// BookingConfirmation emails the patient after a successful booking.
func (n *BookingNotifier) BookingConfirmation(ctx context.Context, email string, appt *appointments.Appointment) error {
	msg := EmailMessage{
		To:      email,
		ToName:  appt.PatientName,
		Subject: "Your appointment is booked",
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour appointment with %s on %s at %s is booked and pending confirmation.\n\nReason: %s\n\nClinicBook",
			displayName(appt.PatientName), appt.DoctorName, appt.DateString(), appt.TimeSlot, appt.Reason,
		),
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: booking confirmation failed: %w", err)
	}
	return nil
}

// BookingCancellation emails the patient after a cancellation.
func (n *BookingNotifier) BookingCancellation(ctx context.Context, email string, appt *appointments.Appointment) error {
	msg := EmailMessage{
		To:      email,
		ToName:  appt.PatientName,
		Subject: "Your appointment was cancelled",
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour appointment with %s on %s at %s has been cancelled.\n\nIf this was unexpected, please contact the clinic.\n\nClinicBook",
			displayName(appt.PatientName), appt.DoctorName, appt.DateString(), appt.TimeSlot,
		),
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: cancellation email failed: %w", err)
	}
	return nil
}

func displayName(name string) string {
	if name == "" {
		return "there"
	}
	return name
}

var _ appointments.Notifier = (*BookingNotifier)(nil)
