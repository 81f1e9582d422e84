package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ketpa-backend/internal/delivery/dto"
	"ketpa-backend/internal/delivery/http/middleware"
	"ketpa-backend/internal/domain/entity"
	"ketpa-backend/internal/usecase"
	"ketpa-backend/pkg/response"
	"ketpa-backend/pkg/validator"

	"github.com/google/uuid"
)

type stubAppointmentUsecase struct {
	err         error
	bookCalls   int
	cancelActor entity.Actor
}

func (s *stubAppointmentUsecase) Book(_ context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	s.bookCalls++
	if s.err != nil {
		return nil, s.err
	}
	return &dto.AppointmentResponse{ID: uuid.New(), PatientID: patientID, DoctorID: req.DoctorID}, nil
}

func (s *stubAppointmentUsecase) ListForPatient(context.Context, uuid.UUID) (*dto.AppointmentListResponse, error) {
	return &dto.AppointmentListResponse{}, s.err
}

func (s *stubAppointmentUsecase) ListForDoctor(context.Context, uuid.UUID) (*dto.AppointmentListResponse, error) {
	return &dto.AppointmentListResponse{}, s.err
}

func (s *stubAppointmentUsecase) ListAll(context.Context) (*dto.AppointmentListResponse, error) {
	return &dto.AppointmentListResponse{}, s.err
}

func (s *stubAppointmentUsecase) Cancel(_ context.Context, actor entity.Actor, _ uuid.UUID) error {
	s.cancelActor = actor
	return s.err
}

func (s *stubAppointmentUsecase) Complete(context.Context, uuid.UUID, uuid.UUID) error {
	return s.err
}

func withActor(r *http.Request, id uuid.UUID, role string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, id)
	ctx = context.WithValue(ctx, middleware.RoleKey, role)
	return r.WithContext(ctx)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func bookBody(slotTime string) string {
	return fmt.Sprintf(`{"doctor_id":%q,"slot_date":"25_8_2025","slot_time":%q}`, uuid.NewString(), slotTime)
}

func TestBookAppointment_ErrorMessages(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{usecase.ErrEmailNotVerified, http.StatusForbidden, "Verify your email to book appointments."},
		{usecase.ErrDoctorNotAvailable, http.StatusConflict, "Doctor not available"},
		{usecase.ErrAppointmentLimit, http.StatusConflict, "You already have 2 appointments pending"},
		{usecase.ErrInvalidPhone, http.StatusBadRequest, "Please add a valid phone number to profile"},
		{usecase.ErrSlotNotAvailable, http.StatusConflict, "Slot not available"},
		{usecase.ErrSlotInPast, http.StatusBadRequest, "Slot is in the past"},
		{usecase.ErrDoctorNotFound, http.StatusNotFound, "Doctor not found"},
		{errors.New("connection reset"), http.StatusInternalServerError, "Failed to book appointment"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			h := NewAppointmentHandler(&stubAppointmentUsecase{err: tt.err}, validator.NewValidator())
			req := httptest.NewRequest(http.MethodPost, "/api/user/book-appointment", strings.NewReader(bookBody("10:30 AM")))
			rec := httptest.NewRecorder()
			h.BookAppointment(rec, withActor(req, uuid.New(), entity.RolePatient))

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			body := decode(t, rec)
			if body.Success || body.Message != tt.message {
				t.Errorf("body = %+v, want message %q", body, tt.message)
			}
		})
	}
}

func TestBookAppointment_Success(t *testing.T) {
	stub := &stubAppointmentUsecase{}
	h := NewAppointmentHandler(stub, validator.NewValidator())
	req := httptest.NewRequest(http.MethodPost, "/api/user/book-appointment", strings.NewReader(bookBody("08:30 PM")))
	rec := httptest.NewRecorder()
	h.BookAppointment(rec, withActor(req, uuid.New(), entity.RolePatient))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if !body.Success || body.Message != "Appointment Booked. A confirmation email will be sent to your registered email." {
		t.Errorf("body = %+v", body)
	}
}

func TestBookAppointment_RejectsMalformedSlotBeforeUsecase(t *testing.T) {
	for _, label := range []string{"10:15 AM", "09:30 AM", "09:00 PM", "10:30"} {
		stub := &stubAppointmentUsecase{}
		h := NewAppointmentHandler(stub, validator.NewValidator())
		req := httptest.NewRequest(http.MethodPost, "/api/user/book-appointment", strings.NewReader(bookBody(label)))
		rec := httptest.NewRecorder()
		h.BookAppointment(rec, withActor(req, uuid.New(), entity.RolePatient))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", label, rec.Code)
		}
		if stub.bookCalls != 0 {
			t.Errorf("%s: usecase called for invalid slot", label)
		}
	}
}

func TestCancelAppointment(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{nil, http.StatusOK, "Appointment Cancelled"},
		{usecase.ErrUnauthorizedAction, http.StatusForbidden, "Unauthorized action"},
		{usecase.ErrAppointmentCompleted, http.StatusConflict, "Appointment already completed"},
		{usecase.ErrAppointmentNotFound, http.StatusNotFound, "Appointment not found"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			stub := &stubAppointmentUsecase{err: tt.err}
			h := NewAppointmentHandler(stub, validator.NewValidator())
			doctorID := uuid.New()
			req := httptest.NewRequest(http.MethodPost, "/api/doctor/cancel-appointment",
				strings.NewReader(fmt.Sprintf(`{"appointment_id":%q}`, uuid.NewString())))
			rec := httptest.NewRecorder()
			h.CancelAppointment(rec, withActor(req, doctorID, entity.RoleDoctor))

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if body := decode(t, rec); body.Message != tt.message {
				t.Errorf("message = %q, want %q", body.Message, tt.message)
			}
			if stub.cancelActor.ID != doctorID || stub.cancelActor.Role != entity.RoleDoctor {
				t.Errorf("actor = %+v", stub.cancelActor)
			}
		})
	}
}

func TestCompleteAppointment_AlreadyCancelled(t *testing.T) {
	h := NewAppointmentHandler(&stubAppointmentUsecase{err: usecase.ErrAppointmentCancelled}, validator.NewValidator())
	req := httptest.NewRequest(http.MethodPost, "/api/doctor/complete-appointment",
		strings.NewReader(fmt.Sprintf(`{"appointment_id":%q}`, uuid.NewString())))
	rec := httptest.NewRecorder()
	h.CompleteAppointment(rec, withActor(req, uuid.New(), entity.RoleDoctor))

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
	if body := decode(t, rec); body.Message != "Appointment already cancelled" {
		t.Errorf("message = %q", body.Message)
	}
}

func TestCancelAppointment_MissingID(t *testing.T) {
	h := NewAppointmentHandler(&stubAppointmentUsecase{}, validator.NewValidator())
	req := httptest.NewRequest(http.MethodPost, "/api/user/cancel-appointment", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.CancelAppointment(rec, withActor(req, uuid.New(), entity.RolePatient))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
