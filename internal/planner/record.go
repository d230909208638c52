package planner

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/HndrkDrs/WeekWise/internal/storage/models"
)

// Record is a loosely typed booking as found in stored documents and import
// payloads. It is converted to models.Booking once, at the boundary.
type Record map[string]any

// DecodeRecords parses a JSON array of booking-like objects.
func DecodeRecords(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding bookings: %w", err)
	}
	return records, nil
}

// Field returns a field as string. Numbers are formatted; anything else is "".
func (r Record) Field(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// ValidateBooking reports whether the four mandatory fields are present and
// non-blank.
func ValidateBooking(r Record) bool {
	for _, key := range []string{"day", "startTime", "endTime", "title"} {
		if strings.TrimSpace(r.Field(key)) == "" {
			return false
		}
	}
	return true
}

// Booking converts the record. The second result is false when the day value
// cannot be migrated; such records must not be guessed into a slot.
func (r Record) Booking() (models.Booking, bool) {
	day, ok := MigrateDay(r["day"])
	if !ok {
		return models.Booking{}, false
	}
	return models.Booking{
		ID:           strings.TrimSpace(r.Field("id")),
		Day:          day,
		StartTime:    r.Field("startTime"),
		EndTime:      r.Field("endTime"),
		Title:        r.Field("title"),
		Location:     r.Field("location"),
		Trainer:      r.Field("trainer"),
		Contact:      r.Field("contact"),
		Link:         r.Field("link"),
		Description:  r.Field("description"),
		CategoryID:   r.Field("categoryID"),
		CategoryName: r.Field("categoryName"),
	}, true
}

// Migration summarizes what LoadBookings normalized.
type Migration struct {
	// Changed is true when the canonical form differs from what was stored
	// and the caller should persist it.
	Changed bool
	// Rejected holds records whose day could not be interpreted.
	Rejected []Record
}

// LoadBookings normalizes a stored bookings document into the current shape:
// numeric days and a present id on every booking.
func LoadBookings(data []byte) ([]models.Booking, Migration, error) {
	bookings, m, err := ReadBookings(data)
	if err != nil {
		return nil, m, err
	}
	for i := range bookings {
		if bookings[i].ID == "" {
			bookings[i].ID = GenerateID()
			m.Changed = true
		}
	}
	return bookings, m, nil
}

// ReadBookings is LoadBookings without the id backfill. Readers that must be
// deterministic, like the calendar feed, use it.
func ReadBookings(data []byte) ([]models.Booking, Migration, error) {
	var m Migration
	records, err := DecodeRecords(data)
	if err != nil {
		return nil, m, err
	}

	bookings := make([]models.Booking, 0, len(records))
	for _, rec := range records {
		b, ok := rec.Booking()
		if !ok {
			m.Rejected = append(m.Rejected, rec)
			continue
		}
		if _, numeric := rec["day"].(float64); !numeric {
			m.Changed = true
		}
		bookings = append(bookings, b)
	}
	return bookings, m, nil
}
