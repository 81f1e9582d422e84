package service

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"ketpa-backend/internal/domain/entity"
	"ketpa-backend/internal/infrastructure/mail"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	return loc
}

func sampleAppointment() *entity.Appointment {
	return &entity.Appointment{
		ID:       uuid.MustParse("6b1f6a8e-3c53-4c1e-9e58-0f7f5f1b2c3d"),
		SlotDate: "24_8_2025",
		SlotTime: "04:00 PM",
		Amount:   decimal.NewFromInt(500),
		Patient: entity.PatientSnapshot{
			Name:  "Asha",
			Email: "asha@example.com",
		},
		Doctor: entity.DoctorSnapshot{
			Name:       "Rao",
			Email:      "rao@example.com",
			ClinicName: "Paws Clinic",
			Address:    entity.Address{Line1: "12 MG Road", Line2: "Bangalore"},
			Fee:        decimal.NewFromInt(500),
		},
	}
}

func TestCalendarLink(t *testing.T) {
	loc := testLocation(t)

	link, err := CalendarLink(sampleAppointment(), loc, "https://app.example.com/my-appointments")
	if err != nil {
		t.Fatal(err)
	}

	u, err := url.Parse(link)
	if err != nil {
		t.Fatal(err)
	}
	q := u.Query()
	if got := q.Get("dates"); got != "20250824T160000/20250824T170000" {
		t.Errorf("dates = %q", got)
	}
	if got := q.Get("ctz"); got != "Asia/Kolkata" {
		t.Errorf("ctz = %q", got)
	}
	if got := q.Get("location"); got != "Paws Clinic, 12 MG Road, Bangalore" {
		t.Errorf("location = %q", got)
	}
	if !strings.Contains(q.Get("details"), "24-08-2025 at 04:00 PM") {
		t.Errorf("details = %q", q.Get("details"))
	}
}

func TestCalendarLinkCrossesMidnight(t *testing.T) {
	a := sampleAppointment()
	a.SlotTime = "11:30 PM"

	link, err := CalendarLink(a, time.UTC, "")
	if err != nil {
		t.Fatal(err)
	}
	u, _ := url.Parse(link)
	if got := u.Query().Get("dates"); got != "20250824T233000/20250825T003000" {
		t.Errorf("dates = %q", got)
	}
}

func TestMapsLink(t *testing.T) {
	doc := sampleAppointment().Doctor

	doc.LocationURL = "https://maps.app.goo.gl/abc"
	if got := MapsLink(doc); got != doc.LocationURL {
		t.Errorf("MapsLink = %q", got)
	}

	doc.LocationURL = "near the lake"
	u, err := url.Parse(MapsLink(doc))
	if err != nil {
		t.Fatal(err)
	}
	if u.Host != "www.google.com" || u.Query().Get("query") != "Paws Clinic, 12 MG Road, Bangalore" {
		t.Errorf("unexpected fallback %s", u)
	}
}

func TestAppointmentBookedNotifiesBothParties(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewNotificationService(mailer, quietLogger(), NotificationConfig{
		Location:  testLocation(t),
		ManageURL: "https://app.example.com/my-appointments",
		OTPExpiry: 10 * time.Minute,
	})

	svc.AppointmentBooked(context.Background(), sampleAppointment())
	svc.Wait()

	if len(mailer.sent) != 2 {
		t.Fatalf("sent %d emails, want 2", len(mailer.sent))
	}
	recipients := map[string]bool{}
	for _, m := range mailer.sent {
		recipients[m.To] = true
		if !strings.Contains(m.HTML, "24-08-2025") || !strings.Contains(m.HTML, "Paws Clinic") {
			t.Errorf("email body missing details: %s", m.Subject)
		}
	}
	if !recipients["asha@example.com"] || !recipients["rao@example.com"] {
		t.Errorf("unexpected recipients %v", recipients)
	}
}

func TestSendFailureIsSwallowed(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp down")}
	svc := NewNotificationService(mailer, quietLogger(), NotificationConfig{
		Location:  time.UTC,
		OTPExpiry: 10 * time.Minute,
	})

	ctx, cancel := context.WithCancel(context.Background())
	svc.VerificationCode(ctx, "asha@example.com", "123456")
	cancel()
	svc.Wait()

	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(mailer.sent))
	}
	if !strings.Contains(mailer.sent[0].HTML, "123456") {
		t.Error("otp missing from body")
	}
}
