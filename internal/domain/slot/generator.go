package slot

import "time"

// Business hours and grid for bookable slots
const (
	OpenHour   = 10
	CloseHour  = 21
	Interval   = 30 * time.Minute
	WindowDays = 7
)

// Slot is a single free time on a given day
type Slot struct {
	DateTime time.Time `json:"datetime"`
	Time     TimeLabel `json:"time"`
}

// Day groups the free slots of one calendar date. A day with no free slots
// keeps its position in the window with an empty Slots slice.
type Day struct {
	Date  DateKey `json:"date"`
	Slots []Slot  `json:"slots"`
}

// BookedLookup reports whether a slot is already taken
type BookedLookup interface {
	Has(date DateKey, label TimeLabel) bool
}

// Generate returns the free slots for the WindowDays days starting with the
// day of now, in now's location. The first slot of today is the next grid
// boundary at or after now, never before opening time.
func Generate(now time.Time, booked BookedLookup) []Day {
	days := make([]Day, 0, WindowDays)

	for i := 0; i < WindowDays; i++ {
		midnight := time.Date(now.Year(), now.Month(), now.Day()+i, 0, 0, 0, 0, now.Location())
		open := time.Date(midnight.Year(), midnight.Month(), midnight.Day(), OpenHour, 0, 0, 0, now.Location())
		end := time.Date(midnight.Year(), midnight.Month(), midnight.Day(), CloseHour, 0, 0, 0, now.Location())

		start := open
		if i == 0 {
			start = firstSlotOfToday(now, midnight, open)
		}

		day := Day{Date: NewDateKey(midnight), Slots: []Slot{}}
		for t := start; t.Before(end); t = t.Add(Interval) {
			label := NewTimeLabel(t)
			if booked != nil && booked.Has(day.Date, label) {
				continue
			}
			day.Slots = append(day.Slots, Slot{DateTime: t, Time: label})
		}

		days = append(days, day)
	}

	return days
}

func firstSlotOfToday(now, midnight, open time.Time) time.Time {
	if !now.After(open) {
		return open
	}

	elapsed := now.Sub(midnight)
	rounded := ((elapsed + Interval - 1) / Interval) * Interval
	return midnight.Add(rounded)
}

// OnGrid reports whether the label is a slot boundary inside business hours
func OnGrid(label TimeLabel) bool {
	hour, minute, err := label.Clock()
	if err != nil {
		return false
	}

	minutes := hour*60 + minute
	step := int(Interval / time.Minute)
	return minutes >= OpenHour*60 && minutes < CloseHour*60 && minutes%step == 0
}
