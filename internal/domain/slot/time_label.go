package slot

import (
	"errors"
	"time"
)

// TimeLabelLayout is the canonical time-of-day format for slots, e.g. "04:00 PM".
// time.Format does not consult the process locale, so generation and booking
// always agree on the label.
const TimeLabelLayout = "03:04 PM"

// ErrInvalidTimeLabel is returned when a slot time is not in hh:mm AM/PM form
var ErrInvalidTimeLabel = errors.New("invalid slot time, use hh:mm AM/PM")

// TimeLabel is the bookable unit within a day
type TimeLabel string

// NewTimeLabel formats the clock time of t
func NewTimeLabel(t time.Time) TimeLabel {
	return TimeLabel(t.Format(TimeLabelLayout))
}

// ParseTimeLabel validates s strictly: the parsed time must format back to s.
func ParseTimeLabel(s string) (TimeLabel, error) {
	t, err := time.Parse(TimeLabelLayout, s)
	if err != nil {
		return "", ErrInvalidTimeLabel
	}
	if t.Format(TimeLabelLayout) != s {
		return "", ErrInvalidTimeLabel
	}
	return TimeLabel(s), nil
}

// Clock returns the 24-hour hour and minute of the label
func (l TimeLabel) Clock() (hour, minute int, err error) {
	t, err := time.Parse(TimeLabelLayout, string(l))
	if err != nil {
		return 0, 0, ErrInvalidTimeLabel
	}
	return t.Hour(), t.Minute(), nil
}

// At places the label on the given day
func (l TimeLabel) At(day time.Time) (time.Time, error) {
	hour, minute, err := l.Clock()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), nil
}

func (l TimeLabel) String() string {
	return string(l)
}
