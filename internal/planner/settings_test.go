package planner

import (
	"reflect"
	"testing"

	"github.com/HndrkDrs/WeekWise/internal/storage/models"
)

func TestLoadSettingsLegacyShapes(t *testing.T) {
	data := `{
		"title": "",
		"startHour": "9",
		"endHour": "20",
		"hiddenDays": ["Samstag", 7, "irgendwann", 0],
		"bookingColors": [{"id": "c1", "name": "Kurse", "color": "#ff0000"}]
	}`

	s, err := LoadSettings([]byte(data), -5)
	if err != nil {
		t.Fatalf("LoadSettings() failed: %v", err)
	}
	if s.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", s.Title, DefaultTitle)
	}
	if s.StartHour != 9 || s.EndHour != 20 {
		t.Errorf("hours = %d-%d, want 9-20", s.StartHour, s.EndHour)
	}
	if !reflect.DeepEqual(s.HiddenDays, []int{6, 7}) {
		t.Errorf("HiddenDays = %v, want [6 7]", s.HiddenDays)
	}
	if s.LoginHash != -5 {
		t.Errorf("LoginHash = %d, want the unset marker -5", s.LoginHash)
	}
	if s.Mode != models.ModeWeek || s.EventDayCount != 1 {
		t.Errorf("mode = %q, days = %d", s.Mode, s.EventDayCount)
	}
	if s.ICSTokens == nil || len(s.BookingColors) != 1 {
		t.Errorf("slices not normalized: %+v", s)
	}
}

func TestLoadSettingsKeepsStoredHash(t *testing.T) {
	s, err := LoadSettings([]byte(`{"loginhash": 92668751, "mode": "event", "eventStartDate": "2026-02-13", "eventDayCount": 3}`), -5)
	if err != nil {
		t.Fatalf("LoadSettings() failed: %v", err)
	}
	if s.LoginHash != 92668751 {
		t.Errorf("LoginHash = %d", s.LoginHash)
	}
	if !s.IsEventMode() || s.EventDayCount != 3 || s.EventStartDate != "2026-02-13" {
		t.Errorf("event settings = %+v", s)
	}
}

func TestLoadSettingsInvalid(t *testing.T) {
	if _, err := LoadSettings([]byte(`{"title": `), 0); err == nil {
		t.Error("LoadSettings() should fail on broken JSON")
	}
}

func TestNormalizeSettings(t *testing.T) {
	s := &models.Settings{StartHour: 20, EndHour: 8, Mode: "monthly", EventDayCount: 500}
	NormalizeSettings(s)

	if s.StartHour != DefaultStartHour || s.EndHour != DefaultEndHour {
		t.Errorf("inverted hours = %d-%d, want defaults", s.StartHour, s.EndHour)
	}
	if s.Mode != models.ModeWeek {
		t.Errorf("Mode = %q", s.Mode)
	}
	if s.EventDayCount != MaxEventDays {
		t.Errorf("EventDayCount = %d", s.EventDayCount)
	}
	if s.HeaderColor != DefaultHeaderColor || s.SecondaryColor != DefaultSecondaryColor {
		t.Error("colors should default")
	}
}

func TestCloneSettingsIsDeep(t *testing.T) {
	s := DefaultSettings(1)
	s.BookingColors = []models.Category{{ID: "c1"}}
	s.HiddenDays = []int{6}

	c := CloneSettings(s)
	c.BookingColors[0].ID = "changed"
	c.HiddenDays[0] = 1
	c.ICSTokens = append(c.ICSTokens, models.ICSToken{Token: "t"})

	if s.BookingColors[0].ID != "c1" || s.HiddenDays[0] != 6 || len(s.ICSTokens) != 0 {
		t.Errorf("clone shares state with original: %+v", s)
	}
}
