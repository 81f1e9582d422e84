package usecase

import (
	"context"

	"ketpa-backend/internal/converter"
	"ketpa-backend/internal/delivery/dto"
	"ketpa-backend/internal/domain/entity"
	"ketpa-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const latestAppointments = 5

type DashboardUsecase interface {
	AdminDashboard(ctx context.Context) (*dto.AdminDashboardResponse, error)
	DoctorDashboard(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorDashboardResponse, error)
}

type dashboardUsecase struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	patientRepo     repository.PatientRepository
}

func NewDashboardUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
) DashboardUsecase {
	return &dashboardUsecase{
		log:             log,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		patientRepo:     patientRepo,
	}
}

func (u *dashboardUsecase) AdminDashboard(ctx context.Context) (*dto.AdminDashboardResponse, error) {
	var (
		doctors, appointments, patients int64
		latest                          []entity.Appointment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		doctors, err = u.doctorRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		appointments, err = u.appointmentRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		patients, err = u.patientRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		latest, err = u.appointmentRepo.FindAll(gctx, entity.AppointmentFilter{Limit: latestAppointments})
		return err
	})
	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to build admin dashboard: %+v", err)
		return nil, err
	}

	return &dto.AdminDashboardResponse{
		Doctors:            doctors,
		Appointments:       appointments,
		Patients:           patients,
		LatestAppointments: converter.AppointmentsToResponses(latest),
	}, nil
}

// DoctorDashboard sums earnings over completed appointments only.
func (u *dashboardUsecase) DoctorDashboard(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorDashboardResponse, error) {
	var (
		earnings     decimal.Decimal
		patients     int64
		appointments []entity.Appointment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		earnings, err = u.appointmentRepo.SumCompletedAmountByDoctor(gctx, doctorID)
		return err
	})
	g.Go(func() (err error) {
		patients, err = u.appointmentRepo.CountPatientsByDoctor(gctx, doctorID)
		return err
	})
	g.Go(func() (err error) {
		appointments, err = u.appointmentRepo.FindAll(gctx, entity.AppointmentFilter{DoctorID: &doctorID})
		return err
	})
	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to build dashboard for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	latest := appointments
	if len(latest) > latestAppointments {
		latest = latest[:latestAppointments]
	}

	return &dto.DoctorDashboardResponse{
		Earnings:           earnings,
		Appointments:       len(appointments),
		Patients:           patients,
		LatestAppointments: converter.AppointmentsToResponses(latest),
	}, nil
}
