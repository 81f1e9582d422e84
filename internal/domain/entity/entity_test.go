package entity

import (
	"slices"
	"testing"

	"ketpa-backend/internal/domain/slot"
)

func TestBookedSlotsHas(t *testing.T) {
	b := BookedSlots{
		"25_8_2025": {"10:00 AM", "11:30 AM"},
		"26_8_2025": {},
	}

	if !b.Has("25_8_2025", "11:30 AM") {
		t.Error("reserved label not found")
	}
	if b.Has("25_8_2025", "12:00 PM") || b.Has("26_8_2025", "10:00 AM") || b.Has("27_8_2025", "10:00 AM") {
		t.Error("unreserved label reported as booked")
	}
	if got := b["25_8_2025"]; !slices.Equal(got, []slot.TimeLabel{"10:00 AM", "11:30 AM"}) {
		t.Errorf("labels = %v", got)
	}

	var empty BookedSlots
	if empty.Has("25_8_2025", "10:00 AM") {
		t.Error("nil map has no slots")
	}
}

func TestBookedSlotsScan(t *testing.T) {
	var b BookedSlots
	if err := b.Scan([]byte(`{"25_8_2025":["10:00 AM","08:30 PM"]}`)); err != nil {
		t.Fatal(err)
	}
	if !b.Has("25_8_2025", "08:30 PM") || b.Has("25_8_2025", "09:00 AM") {
		t.Errorf("scanned = %v", b)
	}

	if err := b.Scan(nil); err != nil || b == nil || len(b) != 0 {
		t.Errorf("NULL should scan to an empty map, got %v %v", b, err)
	}

	var nilSlots BookedSlots
	v, err := nilSlots.Value()
	if err != nil || string(v.([]byte)) != "{}" {
		t.Errorf("nil value = %v %v", v, err)
	}
}

func TestAppointmentStatus(t *testing.T) {
	a := Appointment{}
	if !a.IsActive() {
		t.Error("new appointment should be active")
	}
	a.Cancelled = true
	if a.IsActive() {
		t.Error("cancelled appointment is not active")
	}
	if a.Status() != AppointmentStatusCancelled {
		t.Errorf("status = %s", a.Status())
	}
}
