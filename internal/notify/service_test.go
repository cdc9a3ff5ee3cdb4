package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mhalligan/clinicbook/internal/appointments"
	appconfig "github.com/mhalligan/clinicbook/internal/config"
	"github.com/mhalligan/clinicbook/pkg/logging"
)

type capturingSender struct {
	sent []EmailMessage
}

func (c *capturingSender) Send(_ context.Context, msg EmailMessage) error {
	c.sent = append(c.sent, msg)
	return nil
}

func sampleAppointment() *appointments.Appointment {
	return &appointments.Appointment{
		ID:          "a1",
		PatientName: "Pat Example",
		DoctorName:  "Dr. Sarah Johnson (Cardiology)",
		Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		TimeSlot:    "09:00",
		Reason:      "checkup",
		Status:      appointments.StatusPending,
	}
}

func TestBookingConfirmationEmail(t *testing.T) {
	sender := &capturingSender{}
	n := NewBookingNotifier(sender, logging.Default())

	if err := n.BookingConfirmation(context.Background(), "pat@example.com", sampleAppointment()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.To != "pat@example.com" || msg.Subject != "Your appointment is booked" {
		t.Errorf("unexpected envelope: %+v", msg)
	}
	for _, want := range []string{"Pat Example", "Dr. Sarah Johnson", "2025-03-10", "09:00", "checkup"} {
		if !strings.Contains(msg.Body, want) {
			t.Errorf("body missing %q:\n%s", want, msg.Body)
		}
	}
}

func TestBookingCancellationEmail(t *testing.T) {
	sender := &capturingSender{}
	n := NewBookingNotifier(sender, logging.Default())

	if err := n.BookingCancellation(context.Background(), "pat@example.com", sampleAppointment()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msg := sender.sent[0]
	if !strings.Contains(msg.Body, "cancelled") {
		t.Errorf("body should mention cancellation:\n%s", msg.Body)
	}
}

func TestBuildEmailSenderDefaultsToStub(t *testing.T) {
	sender, err := BuildEmailSender(context.Background(), &appconfig.Config{EmailProvider: "stub"}, logging.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := sender.(*StubEmailSender); !ok {
		t.Errorf("expected stub sender, got %T", sender)
	}
}

func TestBuildEmailSenderSendGridNeedsKey(t *testing.T) {
	_, err := BuildEmailSender(context.Background(), &appconfig.Config{EmailProvider: "sendgrid"}, logging.Default())
	if err == nil {
		t.Error("expected error when SENDGRID_API_KEY is empty")
	}
}
