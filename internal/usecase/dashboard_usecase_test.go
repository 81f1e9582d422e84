package usecase

import (
	"context"
	"fmt"
	"testing"

	"ketpa-backend/internal/domain/slot"

	"github.com/shopspring/decimal"
)

func TestDashboards(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	other := f.addPatient(t, "other@example.com")

	var ids []string
	for i, label := range []slot.TimeLabel{"10:00 AM", "10:30 AM", "11:00 AM"} {
		patientID := f.patient.ID
		if i == 2 {
			patientID = other.ID
		}
		resp := f.mustBook(t, patientID, f.doctor.ID, fmt.Sprintf("%d_8_2025", 25+i), string(label))
		ids = append(ids, resp.ID.String())
	}
	appts := f.appointments.all()
	if err := f.uc.Complete(ctx, f.doctor.ID, appts[0].ID); err != nil {
		t.Fatal(err)
	}
	if err := f.uc.Cancel(ctx, patientActor(f.patient.ID), appts[1].ID); err != nil {
		t.Fatal(err)
	}

	dash := NewDashboardUsecase(quietLogger(), f.appointments, f.doctors, f.patients)

	admin, err := dash.AdminDashboard(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if admin.Doctors != 1 || admin.Patients != 2 || admin.Appointments != 3 {
		t.Errorf("admin counts = %d/%d/%d", admin.Doctors, admin.Patients, admin.Appointments)
	}
	if len(admin.LatestAppointments) != 3 || admin.LatestAppointments[0].ID.String() != ids[2] {
		t.Errorf("latest appointments not newest first")
	}

	doc, err := dash.DoctorDashboard(ctx, f.doctor.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !doc.Earnings.Equal(decimal.NewFromInt(500)) {
		t.Errorf("earnings = %s, want only completed appointments", doc.Earnings)
	}
	if doc.Patients != 2 || doc.Appointments != 3 {
		t.Errorf("doctor counts = %d patients, %d appointments", doc.Patients, doc.Appointments)
	}
}
