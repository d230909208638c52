package planner

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/HndrkDrs/WeekWise/internal/storage/models"
)

// Defaults for a fresh installation.
const (
	DefaultTitle          = "Wochenplan"
	DefaultHeaderColor    = "#2196F3"
	DefaultSecondaryColor = "#FFC107"
	DefaultStartHour      = 8
	DefaultEndHour        = 22
)

// DefaultSettings returns the settings of an unconfigured installation.
// loginHash is the seeded sentinel hash.
func DefaultSettings(loginHash int32) *models.Settings {
	return &models.Settings{
		Title:          DefaultTitle,
		HeaderColor:    DefaultHeaderColor,
		SecondaryColor: DefaultSecondaryColor,
		StartHour:      DefaultStartHour,
		EndHour:        DefaultEndHour,
		BookingColors:  []models.Category{},
		HiddenDays:     []int{},
		LoginHash:      loginHash,
		Mode:           models.ModeWeek,
		EventDayCount:  1,
		ICSTokens:      []models.ICSToken{},
	}
}

// settingsWire tolerates the loosely typed fields older installers wrote:
// hours as strings, hidden days as weekday names.
type settingsWire struct {
	models.Settings
	StartHour     any   `json:"startHour"`
	EndHour       any   `json:"endHour"`
	HiddenDays    []any `json:"hiddenDays"`
	LoginHash     any   `json:"loginhash"`
	EventDayCount any   `json:"eventDayCount"`
}

// LoadSettings decodes a stored settings document and normalizes it. A
// document without a login hash gets unsetHash, the caller's marker for an
// unconfigured installation.
func LoadSettings(data []byte, unsetHash int32) (*models.Settings, error) {
	var w settingsWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	s := w.Settings
	s.StartHour = wireInt(w.StartHour, DefaultStartHour)
	s.EndHour = wireInt(w.EndHour, DefaultEndHour)
	s.EventDayCount = wireInt(w.EventDayCount, 1)
	s.LoginHash = int32(wireInt(w.LoginHash, int(unsetHash)))
	s.HiddenDays = []int{}
	for _, v := range w.HiddenDays {
		if d, ok := MigrateDay(v); ok && d >= 1 {
			s.HiddenDays = append(s.HiddenDays, d)
		}
	}
	NormalizeSettings(&s)
	return &s, nil
}

func wireInt(v any, def int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return def
}

// NormalizeSettings fills defaults and clamps values into their valid ranges.
func NormalizeSettings(s *models.Settings) {
	if strings.TrimSpace(s.Title) == "" {
		s.Title = DefaultTitle
	}
	if s.HeaderColor == "" {
		s.HeaderColor = DefaultHeaderColor
	}
	if s.SecondaryColor == "" {
		s.SecondaryColor = DefaultSecondaryColor
	}
	if s.StartHour < 0 || s.StartHour > 24 {
		s.StartHour = DefaultStartHour
	}
	if s.EndHour < 0 || s.EndHour > 24 {
		s.EndHour = DefaultEndHour
	}
	if s.StartHour >= s.EndHour {
		s.StartHour, s.EndHour = DefaultStartHour, DefaultEndHour
	}
	if s.Mode != models.ModeEvent {
		s.Mode = models.ModeWeek
	}
	s.EventDayCount = ClampDayCount(s.EventDayCount)
	if s.BookingColors == nil {
		s.BookingColors = []models.Category{}
	}
	if s.HiddenDays == nil {
		s.HiddenDays = []int{}
	}
	if s.ICSTokens == nil {
		s.ICSTokens = []models.ICSToken{}
	}
}

// CloneSettings returns a deep copy so callers can stage changes.
func CloneSettings(s *models.Settings) *models.Settings {
	c := *s
	c.BookingColors = append(make([]models.Category, 0, len(s.BookingColors)), s.BookingColors...)
	c.HiddenDays = append(make([]int, 0, len(s.HiddenDays)), s.HiddenDays...)
	c.ICSTokens = append(make([]models.ICSToken, 0, len(s.ICSTokens)), s.ICSTokens...)
	return &c
}
