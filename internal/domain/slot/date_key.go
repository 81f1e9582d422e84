package slot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDateKey is returned when a slot date is not in D_M_YYYY form
var ErrInvalidDateKey = errors.New("invalid slot date, use D_M_YYYY")

// DateKey is a calendar date without time of day, formatted as D_M_YYYY
// with no zero padding (e.g. "5_3_2025"). It is the join key between
// submitted bookings and a doctor's booked slots, so it must match byte for byte.
type DateKey string

// NewDateKey returns the DateKey of t in t's own location
func NewDateKey(t time.Time) DateKey {
	return DateKey(fmt.Sprintf("%d_%d_%d", t.Day(), int(t.Month()), t.Year()))
}

// ParseDateKey validates s strictly: the parsed date must format back to s.
func ParseDateKey(s string) (DateKey, error) {
	day, month, year, err := splitDateKey(s)
	if err != nil {
		return "", err
	}

	key := NewDateKey(time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC))
	if string(key) != s {
		return "", ErrInvalidDateKey
	}
	return key, nil
}

// Midnight returns the start of the day in loc
func (k DateKey) Midnight(loc *time.Location) (time.Time, error) {
	day, month, year, err := splitDateKey(string(k))
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc), nil
}

func (k DateKey) String() string {
	return string(k)
}

func splitDateKey(s string) (day, month, year int, err error) {
	parts := strings.Split(s, "_")
	if len(parts) != 3 || len(parts[2]) != 4 {
		return 0, 0, 0, ErrInvalidDateKey
	}

	var nums [3]int
	for i, p := range parts {
		n, convErr := strconv.Atoi(p)
		if convErr != nil || n <= 0 {
			return 0, 0, 0, ErrInvalidDateKey
		}
		nums[i] = n
	}
	return nums[0], nums[1], nums[2], nil
}
