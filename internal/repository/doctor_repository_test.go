package repository

import (
	"context"
	"slices"
	"sync"
	"testing"

	"ketpa-backend/internal/domain/slot"

	"github.com/google/uuid"
)

func TestReserveSlot_ConcurrentCallsReserveOnce(t *testing.T) {
	db := requireDB(t)
	repo := NewDoctorRepository(db)
	doctor := createDoctor(t, db, "rao@example.com")
	ctx := context.Background()

	const n = 16
	results := make([]bool, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = repo.ReserveSlot(ctx, doctor.ID, "25_8_2025", "04:00 PM")
		}(i)
	}
	wg.Wait()

	reserved := 0
	for i := range results {
		if errs[i] != nil {
			t.Fatalf("reserve: %v", errs[i])
		}
		if results[i] {
			reserved++
		}
	}
	if reserved != 1 {
		t.Fatalf("reservations = %d, want exactly 1", reserved)
	}
	if got := bookedSlots(t, db, doctor.ID)["25_8_2025"]; !slices.Equal(got, []slot.TimeLabel{"04:00 PM"}) {
		t.Errorf("labels = %v", got)
	}
}

func TestReserveSlot_AppendsInBookingOrder(t *testing.T) {
	db := requireDB(t)
	repo := NewDoctorRepository(db)
	doctor := createDoctor(t, db, "rao@example.com")
	ctx := context.Background()

	for _, label := range []slot.TimeLabel{"04:00 PM", "10:00 AM"} {
		if ok, err := repo.ReserveSlot(ctx, doctor.ID, "25_8_2025", label); err != nil || !ok {
			t.Fatalf("reserve %s: %v %v", label, ok, err)
		}
	}
	if ok, err := repo.ReserveSlot(ctx, doctor.ID, "26_8_2025", "04:00 PM"); err != nil || !ok {
		t.Fatalf("same label on another date: %v %v", ok, err)
	}
	if ok, err := repo.ReserveSlot(ctx, uuid.New(), "25_8_2025", "11:00 AM"); err != nil || ok {
		t.Errorf("unknown doctor: %v %v", ok, err)
	}

	booked := bookedSlots(t, db, doctor.ID)
	if got := booked["25_8_2025"]; !slices.Equal(got, []slot.TimeLabel{"04:00 PM", "10:00 AM"}) {
		t.Errorf("labels = %v", got)
	}
}

func TestReleaseSlot(t *testing.T) {
	db := requireDB(t)
	repo := NewDoctorRepository(db)
	doctor := createDoctor(t, db, "rao@example.com")
	ctx := context.Background()

	for _, label := range []slot.TimeLabel{"10:00 AM", "11:30 AM", "04:00 PM"} {
		if _, err := repo.ReserveSlot(ctx, doctor.ID, "25_8_2025", label); err != nil {
			t.Fatal(err)
		}
	}

	if err := repo.ReleaseSlot(ctx, doctor.ID, "25_8_2025", "11:30 AM"); err != nil {
		t.Fatal(err)
	}
	if got := bookedSlots(t, db, doctor.ID)["25_8_2025"]; !slices.Equal(got, []slot.TimeLabel{"10:00 AM", "04:00 PM"}) {
		t.Errorf("labels after release = %v", got)
	}

	// Absent labels and dates are left alone.
	if err := repo.ReleaseSlot(ctx, doctor.ID, "25_8_2025", "11:30 AM"); err != nil {
		t.Fatal(err)
	}
	if err := repo.ReleaseSlot(ctx, doctor.ID, "27_8_2025", "10:00 AM"); err != nil {
		t.Fatal(err)
	}
	booked := bookedSlots(t, db, doctor.ID)
	if got := booked["25_8_2025"]; !slices.Equal(got, []slot.TimeLabel{"10:00 AM", "04:00 PM"}) {
		t.Errorf("labels after no-op release = %v", got)
	}
	if _, ok := booked["27_8_2025"]; ok {
		t.Error("releasing on an absent date created the date entry")
	}

	for _, label := range []slot.TimeLabel{"10:00 AM", "04:00 PM"} {
		if err := repo.ReleaseSlot(ctx, doctor.ID, "25_8_2025", label); err != nil {
			t.Fatal(err)
		}
	}
	if labels, ok := bookedSlots(t, db, doctor.ID)["25_8_2025"]; !ok || len(labels) != 0 {
		t.Errorf("date entry should stay empty, got %v %v", labels, ok)
	}
}

func TestToggleAvailability(t *testing.T) {
	db := requireDB(t)
	repo := NewDoctorRepository(db)
	doctor := createDoctor(t, db, "rao@example.com")
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.ToggleAvailability(ctx, doctor.ID)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}

	stored, _ := repo.FindByID(ctx, doctor.ID)
	if !stored.Available {
		t.Error("an even number of toggles must leave the doctor available")
	}

	toggled, err := repo.ToggleAvailability(ctx, doctor.ID)
	if err != nil || toggled == nil || toggled.Available || toggled.Email != doctor.Email {
		t.Errorf("toggle returned %+v %v", toggled, err)
	}
	if missing, err := repo.ToggleAvailability(ctx, uuid.New()); err != nil || missing != nil {
		t.Errorf("unknown doctor: %+v %v", missing, err)
	}
}
