package planner

import (
	"net/url"
	"strings"

	"github.com/HndrkDrs/WeekWise/internal/storage/models"
)

// Filters are the request-scoped view parameters.
type Filters struct {
	Days      []int  // positive allow-list (?day=)
	HideDays  []int  // negative deny-list (?hide=)
	Category  string // category name, case-insensitive
	HideEmpty bool   // ?hideempty=true, same as the hideEmptyDays setting
	ReadOnly  bool
	Embedded  bool
}

// ParseFilters reads view filters from a query string. Day lists accept
// weekday names in week mode.
func ParseFilters(q url.Values, mode string) Filters {
	return Filters{
		Days:      ParseDayList(q.Get("day"), mode),
		HideDays:  ParseDayList(q.Get("hide"), mode),
		Category:  strings.TrimSpace(q.Get("category")),
		HideEmpty: q.Get("hideempty") == "true",
		ReadOnly:  q.Get("readonly") == "true",
		Embedded:  q.Get("embedded") == "true",
	}
}

// DayVisibility describes one day column.
type DayVisibility struct {
	Day   int
	Label string
	Empty bool

	HiddenByFilter bool
	HiddenByConfig bool
	HiddenByEmpty  bool
}

// Hidden reports whether any predicate hides the day.
func (d DayVisibility) Hidden() bool {
	return d.HiddenByFilter || d.HiddenByConfig || d.HiddenByEmpty
}

// ComputeDayVisibility evaluates every day in [1, DayCount] against the
// configuration and request filters.
func ComputeDayVisibility(s *models.Settings, bookings []models.Booking, f Filters) []DayVisibility {
	occupied := make(map[int]bool)
	for _, b := range bookings {
		occupied[b.Day] = true
	}

	hidden := make(map[int]bool)
	if !s.IsEventMode() {
		for _, d := range s.HiddenDays {
			hidden[d] = true
		}
	}
	for _, d := range f.HideDays {
		hidden[d] = true
	}

	allowed := make(map[int]bool, len(f.Days))
	for _, d := range f.Days {
		allowed[d] = true
	}
	hideEmpty := s.HideEmptyDays || f.HideEmpty

	count := DayCount(s)
	days := make([]DayVisibility, 0, count)
	for day := 1; day <= count; day++ {
		empty := !occupied[day]
		days = append(days, DayVisibility{
			Day:            day,
			Label:          DayLabel(day, s),
			Empty:          empty,
			HiddenByFilter: len(allowed) > 0 && !allowed[day],
			HiddenByConfig: hidden[day],
			HiddenByEmpty:  hideEmpty && empty,
		})
	}
	return days
}

// VisibleDays drops hidden days for anonymous viewers. Admins keep every day
// so hidden ones can be rendered greyed out.
func VisibleDays(days []DayVisibility, authenticated bool) []DayVisibility {
	if authenticated {
		return days
	}
	out := make([]DayVisibility, 0, len(days))
	for _, d := range days {
		if !d.Hidden() {
			out = append(out, d)
		}
	}
	return out
}

// FilterByCategory keeps bookings whose resolved category name matches name
// case-insensitively. An empty name keeps everything.
func FilterByCategory(bookings []models.Booking, categories []models.Category, name string) []models.Booking {
	name = strings.TrimSpace(name)
	if name == "" {
		return bookings
	}
	var out []models.Booking
	for _, b := range bookings {
		if strings.EqualFold(ResolveCategoryName(&b, categories), name) {
			out = append(out, b)
		}
	}
	return out
}
