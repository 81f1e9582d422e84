package service

import (
	"context"
	"time"

	"ketpa-backend/internal/domain/entity"
	"ketpa-backend/internal/infrastructure/mail"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
)

const sendTimeout = 30 * time.Second

// NotificationService sends emails in the background. Delivery failures are
// logged and never reach the caller.
type NotificationService interface {
	AppointmentBooked(ctx context.Context, appointment *entity.Appointment)
	VerificationCode(ctx context.Context, email, otp string)
	// Wait blocks until every dispatched email has been attempted.
	Wait()
}

type NotificationConfig struct {
	Location  *time.Location
	ManageURL string
	OTPExpiry time.Duration
}

type notificationService struct {
	mailer mail.Mailer
	log    *logrus.Logger
	cfg    NotificationConfig
	wg     conc.WaitGroup
	now    func() time.Time
}

func NewNotificationService(mailer mail.Mailer, log *logrus.Logger, cfg NotificationConfig) NotificationService {
	return &notificationService{
		mailer: mailer,
		log:    log,
		cfg:    cfg,
		now:    time.Now,
	}
}

func (s *notificationService) AppointmentBooked(ctx context.Context, appointment *entity.Appointment) {
	s.confirm(ctx, appointment, appointment.Patient.Email, appointment.Patient.Name,
		"Your Appointment has been confirmed.", "Appointment Confirmed")
	s.confirm(ctx, appointment, appointment.Doctor.Email, "Dr. "+appointment.Doctor.Name,
		"You've got a new appointment", "New Appointment")
}

func (s *notificationService) confirm(ctx context.Context, appointment *entity.Appointment, to, name, subject, heading string) {
	html, err := renderConfirmation(appointment, name, heading, s.cfg.Location, s.cfg.ManageURL, s.now())
	if err != nil {
		s.log.Warnf("Failed to render confirmation email for appointment %s: %+v", appointment.ID, err)
		return
	}
	s.dispatch(ctx, mail.Message{To: to, Subject: subject, HTML: html})
}

func (s *notificationService) VerificationCode(ctx context.Context, email, otp string) {
	html, err := renderVerification(otp, s.cfg.OTPExpiry, s.now())
	if err != nil {
		s.log.Warnf("Failed to render verification email: %+v", err)
		return
	}
	s.dispatch(ctx, mail.Message{
		To:      email,
		Subject: "Verify your email • Ketpa OTP",
		HTML:    html,
		Text:    "Your Ketpa OTP is " + otp + ". It expires in " + s.cfg.OTPExpiry.String() + ".",
	})
}

// dispatch detaches from the request context so the email outlives the
// response.
func (s *notificationService) dispatch(ctx context.Context, msg mail.Message) {
	sendCtx := context.WithoutCancel(ctx)
	s.wg.Go(func() {
		ctx, cancel := context.WithTimeout(sendCtx, sendTimeout)
		defer cancel()

		if err := s.mailer.Send(ctx, msg); err != nil {
			s.log.WithField("to", msg.To).Warnf("Failed to send email %q: %+v", msg.Subject, err)
			return
		}
		s.log.WithField("to", msg.To).Infof("Email sent: %s", msg.Subject)
	})
}

func (s *notificationService) Wait() {
	if recovered := s.wg.WaitAndRecover(); recovered != nil {
		s.log.Errorf("Email sender panicked: %v", recovered.Value)
	}
}
