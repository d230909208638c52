// Package planner implements the schedule domain: the day model, booking
// validation, legacy migration, visibility and layout of the grid, and the
// settings state machine.
package planner

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/HndrkDrs/WeekWise/internal/storage/models"
)

const (
	// WeekDays is the number of days in week mode.
	WeekDays = 7
	// MaxEventDays bounds eventDayCount.
	MaxEventDays = 99

	// HoldingLabel is the display name of day 0.
	HoldingLabel = "Ablage"

	dateLayout = "2006-01-02"
)

// WeekdayNames are the week-mode labels for days 1..7.
var WeekdayNames = [WeekDays]string{
	"Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag", "Sonntag",
}

// shortWeekdays is indexed by time.Weekday.
var shortWeekdays = [7]string{"So", "Mo", "Di", "Mi", "Do", "Fr", "Sa"}

var dayAliases = map[string]int{
	"montag": 1, "dienstag": 2, "mittwoch": 3, "donnerstag": 4, "freitag": 5, "samstag": 6, "sonntag": 7,
	"mo": 1, "di": 2, "mi": 3, "do": 4, "fr": 5, "sa": 6, "so": 7,
	"monday": 1, "tuesday": 2, "wednesday": 3, "thursday": 4, "friday": 5, "saturday": 6, "sunday": 7,
	"mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6, "sun": 7,
}

// DayCount returns how many schedulable days the configuration has.
func DayCount(s *models.Settings) int {
	if s.IsEventMode() {
		return ClampDayCount(s.EventDayCount)
	}
	return WeekDays
}

// ClampDayCount bounds an event day count to [1, MaxEventDays].
func ClampDayCount(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxEventDays {
		return MaxEventDays
	}
	return n
}

// DayLabel returns the display label of a day number.
func DayLabel(day int, s *models.Settings) string {
	if day == models.HoldingDay {
		return HoldingLabel
	}
	if s.IsEventMode() {
		date, err := DayDate(s.EventStartDate, day)
		if err != nil {
			return fallbackLabel(day)
		}
		return fmt.Sprintf("%s %s", shortWeekdays[date.Weekday()], date.Format("02.01."))
	}
	if day < 1 {
		return fallbackLabel(day)
	}
	return WeekdayNames[(day-1)%WeekDays]
}

func fallbackLabel(day int) string {
	return "Day " + strconv.Itoa(day)
}

// DayDate returns the calendar date of an event-mode day number.
func DayDate(startDate string, day int) (time.Time, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return time.Time{}, err
	}
	return start.AddDate(0, 0, day-1), nil
}

// ParseDate parses an ISO date (YYYY-MM-DD) as a UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// ParseDayInput parses one user-entered day. Numbers are always accepted;
// weekday names and abbreviations only in week mode.
func ParseDayInput(text, mode string) (int, bool) {
	key := strings.ToLower(strings.TrimSpace(text))
	if key == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(key); err == nil {
		if n < 1 {
			return 0, false
		}
		return n, true
	}
	if mode == models.ModeEvent {
		return 0, false
	}
	n, ok := dayAliases[key]
	return n, ok
}

// ParseDayList parses a comma separated day list, dropping duplicates and
// unparseable entries. Order of first appearance is kept.
func ParseDayList(text, mode string) []int {
	var days []int
	seen := make(map[int]bool)
	for _, part := range strings.Split(text, ",") {
		d, ok := ParseDayInput(part, mode)
		if !ok || seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	return days
}

// MigrateDay converts a stored day value of any historic format into a day
// number. The second result is false when the value cannot be interpreted.
func MigrateDay(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, v >= 0
	case float64:
		if v < 0 || v > math.MaxInt32 || v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case string:
		return migrateDayString(v)
	default:
		return 0, false
	}
}

func migrateDayString(s string) (int, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return 0, false
	}
	if key == strings.ToLower(HoldingLabel) {
		return models.HoldingDay, true
	}
	for i, name := range WeekdayNames {
		if strings.EqualFold(key, name) {
			return i + 1, true
		}
	}
	if n, ok := dayAliases[key]; ok {
		return n, true
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 0 {
		return n, true
	}
	return 0, false
}
