package usecase

import (
	"context"
	"errors"
	"time"

	"ketpa-backend/internal/converter"
	"ketpa-backend/internal/delivery/dto"
	"ketpa-backend/internal/domain/entity"
	"ketpa-backend/internal/domain/repository"
	"ketpa-backend/internal/domain/slot"
	"ketpa-backend/internal/service"
	"ketpa-backend/pkg/phone"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidSlot          = errors.New("invalid slot")
	ErrSlotInPast           = errors.New("slot is in the past")
	ErrEmailNotVerified     = errors.New("email not verified")
	ErrDoctorNotAvailable   = errors.New("doctor not available")
	ErrAppointmentLimit     = errors.New("active appointment limit reached")
	ErrInvalidPhone         = errors.New("profile phone number is missing or invalid")
	ErrSlotNotAvailable     = errors.New("slot not available")
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrUnauthorizedAction   = errors.New("appointment belongs to someone else")
	ErrAppointmentCompleted = errors.New("appointment already completed")
	ErrAppointmentCancelled = errors.New("appointment already cancelled")
)

type AppointmentUsecase interface {
	Book(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error)
	ListForDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.AppointmentListResponse, error)
	ListAll(ctx context.Context) (*dto.AppointmentListResponse, error)
	// Cancel releases the slot of a pending appointment. The actor must own
	// the appointment unless it is an admin.
	Cancel(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) error
	Complete(ctx context.Context, doctorID uuid.UUID, appointmentID uuid.UUID) error
}

type appointmentUsecase struct {
	log             *logrus.Logger
	transactor      repository.Transactor
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	patientRepo     repository.PatientRepository
	auditService    service.AuditService
	notifier        service.NotificationService
	loc             *time.Location
	now             func() time.Time
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
	notifier service.NotificationService,
	loc *time.Location,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:             log,
		transactor:      transactor,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		patientRepo:     patientRepo,
		auditService:    auditService,
		notifier:        notifier,
		loc:             loc,
		now:             time.Now,
	}
}

// Book reserves a slot for the patient and records the appointment.
//
// Flow:
// 1. Parse the slot and reject malformed or off-grid slots
// 2. Lock the patient row so concurrent bookings count active appointments serially
// 3. Check verified email, doctor availability, active limit, phone and slot
//    start time, in that order
// 4. Reserve the slot with a conditional update (fails if already taken)
// 5. Insert the appointment with doctor/patient snapshots
// 6. After commit, send confirmation emails in the background
func (u *appointmentUsecase) Book(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	date, label, err := u.parseSlot(req.SlotDate, req.SlotTime)
	if err != nil {
		return nil, err
	}

	var appointment *entity.Appointment
	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		patient, err := u.patientRepo.FindByIDForUpdate(ctx, patientID)
		if err != nil {
			u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
			return err
		}
		if patient == nil {
			return ErrPatientNotFound
		}
		if !patient.EmailVerified {
			return ErrEmailNotVerified
		}

		doctor, err := u.doctorRepo.FindByID(ctx, req.DoctorID)
		if err != nil {
			u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
			return err
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}
		if !doctor.Available {
			return ErrDoctorNotAvailable
		}

		active, err := u.appointmentRepo.CountActiveByPatient(ctx, patientID)
		if err != nil {
			u.log.Warnf("Failed to count active appointments for patient %s: %+v", patientID, err)
			return err
		}
		if active >= entity.MaxActiveAppointments {
			return ErrAppointmentLimit
		}

		if !phone.Valid(patient.Phone) {
			return ErrInvalidPhone
		}

		if err := u.checkNotPast(date, label); err != nil {
			return err
		}
		if doctor.BookedSlots.Has(date, label) {
			return ErrSlotNotAvailable
		}
		reserved, err := u.doctorRepo.ReserveSlot(ctx, doctor.ID, date, label)
		if err != nil {
			u.log.Warnf("Failed to reserve slot %s %s for doctor %s: %+v", date, label, doctor.ID, err)
			return err
		}
		if !reserved {
			return ErrSlotNotAvailable
		}

		appointment = &entity.Appointment{
			PatientID: patient.ID,
			DoctorID:  doctor.ID,
			Patient:   patient.Snapshot(),
			Doctor:    doctor.Snapshot(),
			SlotDate:  date,
			SlotTime:  label,
			Amount:    doctor.Fee,
		}
		if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
			u.log.Warnf("Failed to create appointment: %+v", err)
			return err
		}

		return u.auditService.Record(ctx, entity.Actor{ID: patient.ID, Role: entity.RolePatient},
			entity.AuditActionAppointmentBook, entity.JSON{
				"appointment_id": appointment.ID.String(),
				"doctor_id":      doctor.ID.String(),
				"slot_date":      date.String(),
				"slot_time":      label.String(),
			})
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Appointment booked: id=%s, patient=%s, doctor=%s, slot=%s %s",
		appointment.ID, appointment.PatientID, appointment.DoctorID, date, label)
	u.notifier.AppointmentBooked(ctx, appointment)

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) parseSlot(rawDate, rawTime string) (slot.DateKey, slot.TimeLabel, error) {
	date, err := slot.ParseDateKey(rawDate)
	if err != nil {
		return "", "", ErrInvalidSlot
	}
	label, err := slot.ParseTimeLabel(rawTime)
	if err != nil || !slot.OnGrid(label) {
		return "", "", ErrInvalidSlot
	}
	if _, err := slotStart(date, label, u.loc); err != nil {
		return "", "", ErrInvalidSlot
	}
	return date, label, nil
}

func (u *appointmentUsecase) checkNotPast(date slot.DateKey, label slot.TimeLabel) error {
	start, err := slotStart(date, label, u.loc)
	if err != nil {
		return ErrInvalidSlot
	}
	if start.Before(u.now().In(u.loc)) {
		return ErrSlotInPast
	}
	return nil
}

func slotStart(date slot.DateKey, label slot.TimeLabel, loc *time.Location) (time.Time, error) {
	midnight, err := date.Midnight(loc)
	if err != nil {
		return time.Time{}, err
	}
	return label.At(midnight)
}

func (u *appointmentUsecase) ListForPatient(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error) {
	return u.list(ctx, entity.AppointmentFilter{PatientID: &patientID})
}

func (u *appointmentUsecase) ListForDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.AppointmentListResponse, error) {
	return u.list(ctx, entity.AppointmentFilter{DoctorID: &doctorID})
}

func (u *appointmentUsecase) ListAll(ctx context.Context) (*dto.AppointmentListResponse, error) {
	return u.list(ctx, entity.AppointmentFilter{})
}

func (u *appointmentUsecase) list(ctx context.Context, filter entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindAll(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// Cancel flips a pending appointment to cancelled and releases its slot in
// the same transaction. Cancelling an already cancelled appointment succeeds
// without touching the doctor's booked slots, which may by then hold a new
// booking for the same time.
func (u *appointmentUsecase) Cancel(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) error {
	appointment, err := u.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}
	if !canManage(actor, appointment) {
		return ErrUnauthorizedAction
	}

	released := false
	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		affected, err := u.appointmentRepo.Cancel(ctx, appointmentID)
		if err != nil {
			u.log.Warnf("Failed to cancel appointment %s: %+v", appointmentID, err)
			return err
		}
		if affected == 0 {
			current, err := u.appointmentRepo.FindByID(ctx, appointmentID)
			if err != nil {
				return err
			}
			if current != nil && current.Completed {
				return ErrAppointmentCompleted
			}
			return nil
		}

		if err := u.doctorRepo.ReleaseSlot(ctx, appointment.DoctorID, appointment.SlotDate, appointment.SlotTime); err != nil {
			u.log.Warnf("Failed to release slot %s %s for doctor %s: %+v",
				appointment.SlotDate, appointment.SlotTime, appointment.DoctorID, err)
			return err
		}
		released = true

		return u.auditService.Record(ctx, actor, entity.AuditActionAppointmentCancel, entity.JSON{
			"appointment_id": appointmentID.String(),
			"doctor_id":      appointment.DoctorID.String(),
			"slot_date":      appointment.SlotDate.String(),
			"slot_time":      appointment.SlotTime.String(),
		})
	})
	if err != nil {
		return err
	}

	if released {
		u.log.Infof("Appointment cancelled: id=%s, by=%s %s", appointmentID, actor.Role, actor.ID)
	}
	// No cancellation email is sent.
	return nil
}

// Complete marks a pending appointment of the doctor as completed. The slot
// stays reserved.
func (u *appointmentUsecase) Complete(ctx context.Context, doctorID uuid.UUID, appointmentID uuid.UUID) error {
	appointment, err := u.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}
	actor := entity.Actor{ID: doctorID, Role: entity.RoleDoctor}
	if !canManage(actor, appointment) {
		return ErrUnauthorizedAction
	}

	return u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		affected, err := u.appointmentRepo.Complete(ctx, appointmentID)
		if err != nil {
			u.log.Warnf("Failed to complete appointment %s: %+v", appointmentID, err)
			return err
		}
		if affected == 0 {
			current, err := u.appointmentRepo.FindByID(ctx, appointmentID)
			if err != nil {
				return err
			}
			if current != nil && current.Cancelled {
				return ErrAppointmentCancelled
			}
			return nil
		}

		u.log.Infof("Appointment completed: id=%s, doctor=%s", appointmentID, doctorID)
		return u.auditService.Record(ctx, actor, entity.AuditActionAppointmentComplete, entity.JSON{
			"appointment_id": appointmentID.String(),
		})
	})
}

func canManage(actor entity.Actor, appointment *entity.Appointment) bool {
	switch actor.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleDoctor:
		return appointment.DoctorID == actor.ID
	case entity.RolePatient:
		return appointment.PatientID == actor.ID
	default:
		return false
	}
}
