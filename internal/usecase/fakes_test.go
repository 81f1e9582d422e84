package usecase

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"ketpa-backend/internal/domain/entity"
	"ketpa-backend/internal/domain/slot"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// errDuplicateEmail mimics the unique violation Postgres reports for emails.
var errDuplicateEmail = &pgconn.PgError{Code: "23505", ConstraintName: "idx_email"}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeTransactor runs fn directly. Each fake repository operation is atomic
// on its own, like a single SQL statement.
type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// rollbackTransactor restores doctors and appointments when fn fails, the way
// Postgres discards a failed transaction. Transactions run one at a time.
type rollbackTransactor struct {
	mu           sync.Mutex
	doctors      *fakeDoctorRepo
	appointments *fakeAppointmentRepo
}

func (tx *rollbackTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	doctors := tx.doctors.snapshot()
	appointments := tx.appointments.snapshot()
	if err := fn(ctx); err != nil {
		tx.doctors.restore(doctors)
		tx.appointments.restore(appointments)
		return err
	}
	return nil
}

type fakeDoctorRepo struct {
	mu      sync.Mutex
	doctors map[uuid.UUID]*entity.Doctor
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctors: map[uuid.UUID]*entity.Doctor{}}
}

func copyDoctor(d *entity.Doctor) *entity.Doctor {
	c := *d
	c.BookedSlots = entity.BookedSlots{}
	for date, labels := range d.BookedSlots {
		c.BookedSlots[date] = append([]slot.TimeLabel(nil), labels...)
	}
	return &c
}

func (r *fakeDoctorRepo) Create(_ context.Context, doctor *entity.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.doctors {
		if d.Email == doctor.Email {
			return errDuplicateEmail
		}
	}
	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	}
	doctor.CreatedAt = time.Now()
	r.doctors[doctor.ID] = copyDoctor(doctor)
	return nil
}

func (r *fakeDoctorRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[id]
	if !ok {
		return nil, nil
	}
	return copyDoctor(d), nil
}

func (r *fakeDoctorRepo) FindByEmail(_ context.Context, email string) (*entity.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.doctors {
		if d.Email == email {
			return copyDoctor(d), nil
		}
	}
	return nil, nil
}

func (r *fakeDoctorRepo) FindAll(_ context.Context, filter entity.DoctorFilter) ([]entity.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Doctor
	for _, d := range r.doctors {
		if filter.Specialty != "" && d.Specialty != filter.Specialty {
			continue
		}
		if filter.AvailableOnly && !d.Available {
			continue
		}
		out = append(out, *copyDoctor(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeDoctorRepo) UpdateProfile(_ context.Context, doctor *entity.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.doctors[doctor.ID]
	if !ok {
		return nil
	}
	booked, available := stored.BookedSlots, stored.Available
	updated := copyDoctor(doctor)
	updated.BookedSlots, updated.Available = booked, available
	r.doctors[doctor.ID] = updated
	return nil
}

func (r *fakeDoctorRepo) SetAvailability(_ context.Context, id uuid.UUID, available bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[id]
	if !ok {
		return 0, nil
	}
	d.Available = available
	return 1, nil
}

func (r *fakeDoctorRepo) ToggleAvailability(_ context.Context, id uuid.UUID) (*entity.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[id]
	if !ok {
		return nil, nil
	}
	d.Available = !d.Available
	return copyDoctor(d), nil
}

func (r *fakeDoctorRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.doctors)), nil
}

func (r *fakeDoctorRepo) ReserveSlot(_ context.Context, id uuid.UUID, date slot.DateKey, label slot.TimeLabel) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[id]
	if !ok {
		return false, nil
	}
	if d.BookedSlots == nil {
		d.BookedSlots = entity.BookedSlots{}
	}
	if d.BookedSlots.Has(date, label) {
		return false, nil
	}
	d.BookedSlots[date] = append(d.BookedSlots[date], label)
	return true, nil
}

func (r *fakeDoctorRepo) ReleaseSlot(_ context.Context, id uuid.UUID, date slot.DateKey, label slot.TimeLabel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[id]
	if !ok {
		return nil
	}
	labels, ok := d.BookedSlots[date]
	if !ok {
		return nil
	}
	kept := make([]slot.TimeLabel, 0, len(labels))
	for _, l := range labels {
		if l != label {
			kept = append(kept, l)
		}
	}
	d.BookedSlots[date] = kept
	return nil
}

func (r *fakeDoctorRepo) snapshot() map[uuid.UUID]*entity.Doctor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uuid.UUID]*entity.Doctor, len(r.doctors))
	for id, d := range r.doctors {
		out[id] = copyDoctor(d)
	}
	return out
}

func (r *fakeDoctorRepo) restore(doctors map[uuid.UUID]*entity.Doctor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doctors = doctors
}

func (r *fakeDoctorRepo) booked(id uuid.UUID) entity.BookedSlots {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyDoctor(r.doctors[id]).BookedSlots
}

type fakePatientRepo struct {
	mu       sync.Mutex
	patients map[uuid.UUID]*entity.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: map[uuid.UUID]*entity.Patient{}}
}

func (r *fakePatientRepo) Create(_ context.Context, patient *entity.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.patients {
		if p.Email == patient.Email {
			return errDuplicateEmail
		}
	}
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	c := *patient
	r.patients[patient.ID] = &c
	return nil
}

func (r *fakePatientRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *fakePatientRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	return r.FindByID(ctx, id)
}

func (r *fakePatientRepo) FindByEmail(_ context.Context, email string) (*entity.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.patients {
		if p.Email == email {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakePatientRepo) Update(_ context.Context, patient *entity.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *patient
	r.patients[patient.ID] = &c
	return nil
}

func (r *fakePatientRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.patients)), nil
}

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments []*entity.Appointment
	clock        time.Time
	// createErr, when set, fails every insert.
	createErr error
}

func (r *fakeAppointmentRepo) Create(_ context.Context, appointment *entity.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	appointment.ID = uuid.New()
	r.clock = r.clock.Add(time.Second)
	appointment.CreatedAt = r.clock
	c := *appointment
	r.appointments = append(r.appointments, &c)
	return nil
}

func (r *fakeAppointmentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appointments {
		if a.ID == id {
			c := *a
			return &c, nil
		}
	}
	return nil, nil
}

// FindAll returns newest first, like the SQL implementation.
func (r *fakeAppointmentRepo) FindAll(_ context.Context, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Appointment
	for i := len(r.appointments) - 1; i >= 0; i-- {
		a := r.appointments[i]
		if filter.PatientID != nil && a.PatientID != *filter.PatientID {
			continue
		}
		if filter.DoctorID != nil && a.DoctorID != *filter.DoctorID {
			continue
		}
		out = append(out, *a)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) CountActiveByPatient(_ context.Context, patientID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, a := range r.appointments {
		if a.PatientID == patientID && a.IsActive() {
			n++
		}
	}
	return n, nil
}

func (r *fakeAppointmentRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.appointments)), nil
}

func (r *fakeAppointmentRepo) Cancel(_ context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appointments {
		if a.ID == id && a.IsActive() {
			a.Cancelled = true
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeAppointmentRepo) Complete(_ context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appointments {
		if a.ID == id && a.IsActive() {
			a.Completed = true
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeAppointmentRepo) SumCompletedAmountByDoctor(_ context.Context, doctorID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, a := range r.appointments {
		if a.DoctorID == doctorID && a.Completed {
			total = total.Add(a.Amount)
		}
	}
	return total, nil
}

func (r *fakeAppointmentRepo) CountPatientsByDoctor(_ context.Context, doctorID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[uuid.UUID]bool{}
	for _, a := range r.appointments {
		if a.DoctorID == doctorID {
			seen[a.PatientID] = true
		}
	}
	return int64(len(seen)), nil
}

func (r *fakeAppointmentRepo) snapshot() []*entity.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Appointment, len(r.appointments))
	for i, a := range r.appointments {
		c := *a
		out[i] = &c
	}
	return out
}

func (r *fakeAppointmentRepo) restore(appointments []*entity.Appointment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appointments = appointments
}

func (r *fakeAppointmentRepo) setCreateErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createErr = err
}

func (r *fakeAppointmentRepo) all() []entity.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Appointment, len(r.appointments))
	for i, a := range r.appointments {
		out[i] = *a
	}
	return out
}

type fakeAuditService struct {
	mu      sync.Mutex
	actions []string
}

func (s *fakeAuditService) Record(_ context.Context, _ entity.Actor, action string, _ entity.JSON) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, action)
	return nil
}

func (s *fakeAuditService) Latest(_ context.Context, limit int) ([]entity.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.AuditLog
	for i := len(s.actions) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, entity.AuditLog{ID: int64(i + 1), Action: s.actions[i]})
	}
	return out, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	booked []entity.Appointment
	codes  map[string]string
}

func (n *fakeNotifier) AppointmentBooked(_ context.Context, appointment *entity.Appointment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.booked = append(n.booked, *appointment)
}

func (n *fakeNotifier) VerificationCode(_ context.Context, email, otp string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.codes == nil {
		n.codes = map[string]string{}
	}
	n.codes[email] = otp
}

func (n *fakeNotifier) Wait() {}

func (n *fakeNotifier) bookedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.booked)
}

type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]bool
}

func (s *fakeTokenStore) key(kind string, userID uuid.UUID, tokenID string) string {
	return kind + ":" + userID.String() + ":" + tokenID
}

func (s *fakeTokenStore) set(k string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tokens == nil {
		s.tokens = map[string]bool{}
	}
	s.tokens[k] = true
}

func (s *fakeTokenStore) StoreAccess(_ context.Context, userID uuid.UUID, tokenID string, _ time.Duration) error {
	s.set(s.key("access", userID, tokenID))
	return nil
}

func (s *fakeTokenStore) StoreRefresh(_ context.Context, userID uuid.UUID, tokenID string, _ time.Duration) error {
	s.set(s.key("refresh", userID, tokenID))
	return nil
}

func (s *fakeTokenStore) IsAccessValid(_ context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[s.key("access", userID, tokenID)], nil
}

func (s *fakeTokenStore) ConsumeRefresh(_ context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := s.key("refresh", userID, tokenID)
	existed := s.tokens[k]
	delete(s.tokens, k)
	return existed, nil
}

func (s *fakeTokenStore) Revoke(_ context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, s.key("access", userID, accessTokenID))
	delete(s.tokens, s.key("refresh", userID, refreshTokenID))
	return nil
}

type fakeOTPLimiter struct {
	mu     sync.Mutex
	limit  int
	counts map[string]int
}

func (l *fakeOTPLimiter) Allow(_ context.Context, email string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.counts == nil {
		l.counts = map[string]int{}
	}
	l.counts[email]++
	return l.counts[email] <= l.limit, nil
}
