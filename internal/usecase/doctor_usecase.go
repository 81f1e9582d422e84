package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"ketpa-backend/internal/converter"
	"ketpa-backend/internal/delivery/dto"
	"ketpa-backend/internal/domain/entity"
	"ketpa-backend/internal/domain/repository"
	"ketpa-backend/internal/domain/slot"
	"ketpa-backend/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDoctorNotFound = errors.New("doctor not found")
	ErrInvalidFee     = errors.New("fee must not be negative")
)

type DoctorUsecase interface {
	AddDoctor(ctx context.Context, actor entity.Actor, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	ListDoctors(ctx context.Context, specialty entity.Specialty) (*dto.DoctorListResponse, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error)
	GetSlots(ctx context.Context, id uuid.UUID) (*dto.DoctorSlotsResponse, error)
	// ToggleAvailability flips the available flag and returns the new doctor state.
	ToggleAvailability(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.DoctorResponse, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req *dto.UpdateDoctorProfileRequest) (*dto.DoctorResponse, error)
}

type doctorUsecase struct {
	log          *logrus.Logger
	transactor   repository.Transactor
	doctorRepo   repository.DoctorRepository
	auditService service.AuditService
	loc          *time.Location
	now          func() time.Time
}

func NewDoctorUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
	loc *time.Location,
) DoctorUsecase {
	return &doctorUsecase{
		log:          log,
		transactor:   transactor,
		doctorRepo:   doctorRepo,
		auditService: auditService,
		loc:          loc,
		now:          time.Now,
	}
}

func (u *doctorUsecase) AddDoctor(ctx context.Context, actor entity.Actor, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	if req.Fee.IsNegative() {
		return nil, ErrInvalidFee
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	doctor := &entity.Doctor{
		Name:            req.Name,
		Email:           strings.ToLower(req.Email),
		Password:        string(hashedPassword),
		Image:           req.Image,
		Specialty:       entity.Specialty(req.Specialty),
		Degree:          req.Degree,
		Experience:      req.Experience,
		About:           req.About,
		Rating:          req.Rating,
		CertificationID: req.CertificationID,
		ClinicName:      req.ClinicName,
		Address:         converter.AddressFromRequest(&req.Address),
		LocationURL:     req.LocationURL,
		Fee:             req.Fee,
		Available:       true,
		BookedSlots:     entity.BookedSlots{},
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.doctorRepo.Create(ctx, doctor); err != nil {
			if isDuplicateKeyError(err, "email") {
				return ErrEmailAlreadyExists
			}
			u.log.Warnf("Failed to create doctor: %+v", err)
			return err
		}
		return u.auditService.Record(ctx, actor, entity.AuditActionDoctorCreate, entity.JSON{
			"doctor_id": doctor.ID.String(),
			"email":     doctor.Email,
		})
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Doctor added: id=%s, specialty=%s", doctor.ID, doctor.Specialty)
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) ListDoctors(ctx context.Context, specialty entity.Specialty) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindAll(ctx, entity.DoctorFilter{Specialty: specialty})
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.DoctorToResponse(doctor), nil
}

// GetSlots lists the free slots of the next seven days in the business
// timezone. The result is advisory: booking re-checks the slot.
func (u *doctorUsecase) GetSlots(ctx context.Context, id uuid.UUID) (*dto.DoctorSlotsResponse, error) {
	doctor, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.DoctorSlotsResponse{
		DoctorID:  doctor.ID,
		Available: doctor.Available,
		Days:      slot.Generate(u.now().In(u.loc), doctor.BookedSlots),
	}, nil
}

// ToggleAvailability flips availability in a single UPDATE.
func (u *doctorUsecase) ToggleAvailability(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.DoctorResponse, error) {
	var doctor *entity.Doctor
	err := u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		doctor, err = u.doctorRepo.ToggleAvailability(ctx, id)
		if err != nil {
			u.log.Warnf("Failed to change availability of doctor %s: %+v", id, err)
			return err
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}

		return u.auditService.Record(ctx, actor, entity.AuditActionDoctorAvailability, entity.JSON{
			"doctor_id": id.String(),
			"available": doctor.Available,
		})
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Doctor availability changed: id=%s, available=%t", id, doctor.Available)
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) UpdateProfile(ctx context.Context, id uuid.UUID, req *dto.UpdateDoctorProfileRequest) (*dto.DoctorResponse, error) {
	if req.Fee != nil && req.Fee.IsNegative() {
		return nil, ErrInvalidFee
	}

	var doctor *entity.Doctor
	err := u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		doctor, err = u.find(ctx, id)
		if err != nil {
			return err
		}

		if req.Fee != nil {
			doctor.Fee = *req.Fee
		}
		if req.Address != nil {
			doctor.Address = converter.AddressFromRequest(req.Address)
		}
		if req.About != nil {
			doctor.About = *req.About
		}
		if req.ClinicName != nil {
			doctor.ClinicName = *req.ClinicName
		}
		if req.LocationURL != nil {
			doctor.LocationURL = *req.LocationURL
		}

		if err := u.doctorRepo.UpdateProfile(ctx, doctor); err != nil {
			u.log.Warnf("Failed to update doctor %s: %+v", id, err)
			return err
		}

		if req.Available != nil && *req.Available != doctor.Available {
			if _, err := u.doctorRepo.SetAvailability(ctx, id, *req.Available); err != nil {
				u.log.Warnf("Failed to change availability of doctor %s: %+v", id, err)
				return err
			}
			doctor.Available = *req.Available
		}

		return u.auditService.Record(ctx, entity.Actor{ID: id, Role: entity.RoleDoctor},
			entity.AuditActionDoctorUpdate, entity.JSON{"doctor_id": id.String()})
	})
	if err != nil {
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) find(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", id, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return doctor, nil
}
