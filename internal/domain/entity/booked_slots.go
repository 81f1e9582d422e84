package entity

import (
	"database/sql/driver"
	"encoding/json"

	"ketpa-backend/internal/domain/slot"
)

// BookedSlots indexes a doctor's reserved times by date. Each date holds an
// ordered set: a label appears at most once. It is derived from the
// non-cancelled appointments of the doctor.
type BookedSlots map[slot.DateKey][]slot.TimeLabel

// Has reports whether the label is reserved on date
func (b BookedSlots) Has(date slot.DateKey, label slot.TimeLabel) bool {
	for _, l := range b[date] {
		if l == label {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer
func (b BookedSlots) Value() (driver.Value, error) {
	if b == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(b)
}

// Scan implements sql.Scanner
func (b *BookedSlots) Scan(value interface{}) error {
	result := BookedSlots{}
	if value != nil {
		if err := scanJSONB(value, &result); err != nil {
			return err
		}
	}
	*b = result
	return nil
}
