package planner

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/HndrkDrs/WeekWise/internal/storage/models"
)

// Booking errors.
var (
	ErrInvalidBooking   = errors.New("invalid booking")
	ErrInvalidTimeRange = errors.New("end time must be after start time")
	ErrBookingNotFound  = errors.New("booking not found")
)

const (
	// FallbackColor is used for bookings whose category cannot be resolved.
	FallbackColor = "var(--secondary)"
	// DefaultCategoryColor is the color of newly created categories.
	DefaultCategoryColor = "#2196F3"
	// DefaultCategoryName labels the implicit "default" category.
	DefaultCategoryName = "Standard"

	gridMinutes = 15
)

// GenerateID returns a fresh booking identity.
func GenerateID() string {
	return uuid.NewString()
}

// ParseClock converts "HH:MM" into minutes after midnight.
func ParseClock(s string) (int, error) {
	h, m, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return 0, fmt.Errorf("parsing time %q: missing colon", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 24 {
		return 0, fmt.Errorf("parsing time %q: bad hour", s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 || (hour == 24 && minute != 0) {
		return 0, fmt.Errorf("parsing time %q: bad minute", s)
	}
	return hour*60 + minute, nil
}

// clockMinutes is ParseClock for sorting and layout; unparseable times sort first.
func clockMinutes(s string) int {
	m, err := ParseClock(s)
	if err != nil {
		return 0
	}
	return m
}

// FormatClock renders minutes after midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// CheckBooking validates a booking created or edited by the admin.
func CheckBooking(b *models.Booking, dayCount int) error {
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidBooking)
	}
	if b.Day < 0 || b.Day > dayCount {
		return fmt.Errorf("%w: day %d out of range", ErrInvalidBooking, b.Day)
	}
	start, err := ParseClock(b.StartTime)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBooking, err)
	}
	end, err := ParseClock(b.EndTime)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBooking, err)
	}
	if start%gridMinutes != 0 || end%gridMinutes != 0 {
		return fmt.Errorf("%w: times must be on a %d minute grid", ErrInvalidBooking, gridMinutes)
	}
	if b.Scheduled() && end <= start {
		return ErrInvalidTimeRange
	}
	return nil
}

// ResolveColor returns the display color of a booking. Dangling category
// references resolve to FallbackColor.
func ResolveColor(b *models.Booking, categories []models.Category) string {
	id := b.Category()
	for _, c := range categories {
		if c.ID == id {
			return SanitizeColor(c.Color)
		}
	}
	return FallbackColor
}

// ResolveCategoryName returns the current name of the booking's category,
// or "" for a dangling reference.
func ResolveCategoryName(b *models.Booking, categories []models.Category) string {
	id := b.Category()
	for _, c := range categories {
		if c.ID == id {
			return c.Name
		}
	}
	if id == models.DefaultCategoryID {
		return DefaultCategoryName
	}
	return ""
}

var (
	hexColor  = regexp.MustCompile(`^#[0-9a-fA-F]{3,8}$`)
	rgbColor  = regexp.MustCompile(`^rgba?\(\s*\d+\s*,\s*\d+\s*,\s*\d+\s*(,\s*[\d.]+\s*)?\)$`)
	varColor  = regexp.MustCompile(`^var\(--[a-zA-Z0-9-]+\)$`)
	nameColor = regexp.MustCompile(`^[a-zA-Z]+$`)
)

// SanitizeColor passes through safe CSS color values and replaces anything
// else with black.
func SanitizeColor(c string) string {
	c = strings.TrimSpace(c)
	for _, re := range []*regexp.Regexp{hexColor, rgbColor, varColor, nameColor} {
		if re.MatchString(c) {
			return c
		}
	}
	return "#000000"
}

// IsLightColor reports whether dark text should be drawn on the color.
// Only hex colors are inspected; everything else counts as dark.
func IsLightColor(c string) bool {
	hex := strings.TrimPrefix(strings.TrimSpace(c), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) < 6 || !hexColor.MatchString("#"+hex) {
		return false
	}
	r, _ := strconv.ParseUint(hex[0:2], 16, 8)
	g, _ := strconv.ParseUint(hex[2:4], 16, 8)
	bl, _ := strconv.ParseUint(hex[4:6], 16, 8)
	luminance := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(bl)) / 255
	return luminance > 0.5
}

// TextColor picks black or white text for a booking background.
func TextColor(background string) string {
	if IsLightColor(background) {
		return "#000000"
	}
	return "#ffffff"
}
