package usecase

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"ketpa-backend/config"
	"ketpa-backend/internal/delivery/dto"
	"ketpa-backend/internal/domain/entity"
	"ketpa-backend/internal/domain/repository"
	"ketpa-backend/internal/service"
	"ketpa-backend/pkg/jwt"
	"ketpa-backend/pkg/phone"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrTokenRevoked         = errors.New("token has been revoked")
	ErrPatientNotFound      = errors.New("patient not found")
	ErrEmailAlreadyVerified = errors.New("email already verified")
	ErrInvalidOTP           = errors.New("invalid or expired otp")
	ErrTooManyOTPRequests   = errors.New("too many otp requests")
)

type AuthUsecase interface {
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.RegisterResponse, error)
	VerifyOTP(ctx context.Context, req *dto.VerifyOTPRequest) (*dto.TokenResponse, error)
	ResendOTP(ctx context.Context, req *dto.ResendOTPRequest) error
	LoginPatient(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	LoginDoctor(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	LoginAdmin(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, accessTokenID string, req *dto.LogoutRequest) error
}

type authUsecase struct {
	log          *logrus.Logger
	transactor   repository.Transactor
	patientRepo  repository.PatientRepository
	doctorRepo   repository.DoctorRepository
	auditService service.AuditService
	notifier     service.NotificationService
	tokenStore   service.TokenStore
	otpLimiter   service.OTPLimiter
	jwtService   *jwt.JWTService
	admin        config.AdminConfig
	otpExpiry    time.Duration
	now          func() time.Time
}

func NewAuthUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
	notifier service.NotificationService,
	tokenStore service.TokenStore,
	otpLimiter service.OTPLimiter,
	jwtService *jwt.JWTService,
	admin config.AdminConfig,
	otpExpiry time.Duration,
) AuthUsecase {
	return &authUsecase{
		log:          log,
		transactor:   transactor,
		patientRepo:  patientRepo,
		doctorRepo:   doctorRepo,
		auditService: auditService,
		notifier:     notifier,
		tokenStore:   tokenStore,
		otpLimiter:   otpLimiter,
		jwtService:   jwtService,
		admin:        admin,
		otpExpiry:    otpExpiry,
		now:          time.Now,
	}
}

// AdminID is the stable principal id of the configured admin account.
func AdminID(email string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("admin:"+strings.ToLower(email)))
}

func (u *authUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.RegisterResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	otp, otpHash, expiresAt, err := u.newOTP()
	if err != nil {
		return nil, err
	}

	patient := &entity.Patient{
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		Password:     string(hashedPassword),
		Phone:        phone.Normalize(req.Phone),
		Pet:          req.Pet,
		Gender:       "Not Selected",
		DateOfBirth:  "Not Selected",
		OTPHash:      otpHash,
		OTPExpiresAt: &expiresAt,
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.patientRepo.Create(ctx, patient); err != nil {
			if isDuplicateKeyError(err, "email") {
				return ErrEmailAlreadyExists
			}
			u.log.Warnf("Failed to create patient: %+v", err)
			return err
		}
		return u.auditService.Record(ctx, entity.Actor{ID: patient.ID, Role: entity.RolePatient},
			entity.AuditActionPatientRegister, entity.JSON{"email": patient.Email})
	})
	if err != nil {
		return nil, err
	}

	u.notifier.VerificationCode(ctx, patient.Email, otp)

	return &dto.RegisterResponse{
		Email:         patient.Email,
		EmailVerified: false,
	}, nil
}

func (u *authUsecase) VerifyOTP(ctx context.Context, req *dto.VerifyOTPRequest) (*dto.TokenResponse, error) {
	var patient *entity.Patient
	err := u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		patient, err = u.patientRepo.FindByEmail(ctx, strings.ToLower(req.Email))
		if err != nil {
			u.log.Warnf("Failed to find patient by email: %+v", err)
			return err
		}
		if patient == nil {
			return ErrPatientNotFound
		}
		if patient.EmailVerified {
			return ErrEmailAlreadyVerified
		}
		if patient.OTPHash == "" || patient.OTPExpiresAt == nil || u.now().After(*patient.OTPExpiresAt) {
			return ErrInvalidOTP
		}
		if err := bcrypt.CompareHashAndPassword([]byte(patient.OTPHash), []byte(req.OTP)); err != nil {
			return ErrInvalidOTP
		}

		patient.EmailVerified = true
		patient.OTPHash = ""
		patient.OTPExpiresAt = nil
		if err := u.patientRepo.Update(ctx, patient); err != nil {
			u.log.Warnf("Failed to verify patient %s: %+v", patient.ID, err)
			return err
		}
		return u.auditService.Record(ctx, entity.Actor{ID: patient.ID, Role: entity.RolePatient},
			entity.AuditActionPatientVerify, nil)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Patient email verified: id=%s", patient.ID)
	return u.issueTokens(ctx, patient.ID, patient.Email, entity.RolePatient)
}

func (u *authUsecase) ResendOTP(ctx context.Context, req *dto.ResendOTPRequest) error {
	email := strings.ToLower(req.Email)

	allowed, err := u.otpLimiter.Allow(ctx, email)
	if err != nil {
		u.log.Warnf("Failed to check otp rate limit: %+v", err)
		return err
	}
	if !allowed {
		return ErrTooManyOTPRequests
	}

	patient, err := u.patientRepo.FindByEmail(ctx, email)
	if err != nil {
		u.log.Warnf("Failed to find patient by email: %+v", err)
		return err
	}
	if patient == nil {
		return ErrPatientNotFound
	}
	if patient.EmailVerified {
		return ErrEmailAlreadyVerified
	}

	otp, otpHash, expiresAt, err := u.newOTP()
	if err != nil {
		return err
	}
	patient.OTPHash = otpHash
	patient.OTPExpiresAt = &expiresAt
	if err := u.patientRepo.Update(ctx, patient); err != nil {
		u.log.Warnf("Failed to store otp for patient %s: %+v", patient.ID, err)
		return err
	}

	u.notifier.VerificationCode(ctx, patient.Email, otp)
	return nil
}

func (u *authUsecase) LoginPatient(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	patient, err := u.patientRepo.FindByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		u.log.Warnf("Failed to find patient by email: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(patient.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u.issueTokens(ctx, patient.ID, patient.Email, entity.RolePatient)
}

func (u *authUsecase) LoginDoctor(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	doctor, err := u.doctorRepo.FindByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		u.log.Warnf("Failed to find doctor by email: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(doctor.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u.issueTokens(ctx, doctor.ID, doctor.Email, entity.RoleDoctor)
}

func (u *authUsecase) LoginAdmin(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	if u.admin.Email == "" || u.admin.Password == "" {
		return nil, ErrInvalidCredentials
	}

	emailOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(req.Email)), []byte(strings.ToLower(u.admin.Email))) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(u.admin.Password)) == 1
	if !emailOK || !passwordOK {
		return nil, ErrInvalidCredentials
	}

	return u.issueTokens(ctx, AdminID(u.admin.Email), u.admin.Email, entity.RoleAdmin)
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	// Refresh tokens are single use.
	existed, err := u.tokenStore.ConsumeRefresh(ctx, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to consume refresh token: %+v", err)
		return nil, err
	}
	if !existed {
		return nil, ErrTokenRevoked
	}

	return u.issueTokens(ctx, claims.UserID, claims.Email, claims.Role)
}

func (u *authUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID string, req *dto.LogoutRequest) error {
	refreshTokenID := ""
	if req != nil && req.RefreshToken != "" {
		claims, err := u.jwtService.ValidateToken(req.RefreshToken)
		if err == nil && claims.TokenType == jwt.RefreshToken && claims.UserID == userID {
			refreshTokenID = claims.TokenID
		}
	}

	if err := u.tokenStore.Revoke(ctx, userID, accessTokenID, refreshTokenID); err != nil {
		u.log.Warnf("Failed to revoke tokens for %s: %+v", userID, err)
		return err
	}
	return nil
}

func (u *authUsecase) issueTokens(ctx context.Context, userID uuid.UUID, email, role string) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(userID, email, role)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(userID, email, role)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.StoreAccess(ctx, userID, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return nil, err
	}
	if err := u.tokenStore.StoreRefresh(ctx, userID, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token in Redis: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
		Role:         role,
	}, nil
}

// newOTP returns a six digit code, its bcrypt hash and its expiry.
func (u *authUsecase) newOTP() (string, string, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		u.log.Warnf("Failed to generate otp: %+v", err)
		return "", "", time.Time{}, err
	}
	otp := fmt.Sprintf("%06d", n.Int64()+100000)

	hash, err := bcrypt.GenerateFromPassword([]byte(otp), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash otp: %+v", err)
		return "", "", time.Time{}, err
	}
	return otp, string(hash), u.now().Add(u.otpExpiry), nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
