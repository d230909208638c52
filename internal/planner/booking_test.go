package planner

import (
	"errors"
	"testing"

	"github.com/HndrkDrs/WeekWise/internal/storage/models"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:15", 495, false},
		{" 9:30 ", 570, false},
		{"24:00", 1440, false},
		{"24:15", 0, true},
		{"25:00", 0, true},
		{"12:60", 0, true},
		{"1200", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(495); got != "08:15" {
		t.Errorf("FormatClock(495) = %q", got)
	}
}

func TestCheckBooking(t *testing.T) {
	valid := models.Booking{Day: 1, StartTime: "08:00", EndTime: "09:00", Title: "Yoga"}

	tests := []struct {
		name    string
		mutate  func(b *models.Booking)
		wantErr error
	}{
		{"valid", func(b *models.Booking) {}, nil},
		{"blank title", func(b *models.Booking) { b.Title = "   " }, ErrInvalidBooking},
		{"day past range", func(b *models.Booking) { b.Day = 8 }, ErrInvalidBooking},
		{"negative day", func(b *models.Booking) { b.Day = -1 }, ErrInvalidBooking},
		{"bad start", func(b *models.Booking) { b.StartTime = "8 Uhr" }, ErrInvalidBooking},
		{"off grid", func(b *models.Booking) { b.EndTime = "09:10" }, ErrInvalidBooking},
		{"end before start", func(b *models.Booking) { b.EndTime = "07:45" }, ErrInvalidTimeRange},
		{"zero length", func(b *models.Booking) { b.EndTime = "08:00" }, ErrInvalidTimeRange},
		{"until midnight", func(b *models.Booking) { b.StartTime, b.EndTime = "23:00", "24:00" }, nil},
		{"holding ignores order", func(b *models.Booking) { b.Day, b.EndTime = 0, "07:00" }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := valid
			tt.mutate(&b)
			err := CheckBooking(&b, 7)
			if tt.wantErr == nil && err != nil {
				t.Errorf("CheckBooking() = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckBooking() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveColor(t *testing.T) {
	categories := []models.Category{
		{ID: "c1", Color: "#ff0000"},
		{ID: "evil", Color: "red;background:url(x)"},
	}
	tests := []struct {
		categoryID string
		want       string
	}{
		{"c1", "#ff0000"},
		{"evil", "#000000"},
		{"gone", FallbackColor},
		{"", FallbackColor},
	}
	for _, tt := range tests {
		b := models.Booking{CategoryID: tt.categoryID}
		if got := ResolveColor(&b, categories); got != tt.want {
			t.Errorf("ResolveColor(%q) = %q, want %q", tt.categoryID, got, tt.want)
		}
	}
}

func TestResolveCategoryName(t *testing.T) {
	categories := []models.Category{{ID: "c1", Name: "Kurse"}}
	tests := map[string]string{"c1": "Kurse", "": DefaultCategoryName, "default": DefaultCategoryName, "gone": ""}
	for id, want := range tests {
		b := models.Booking{CategoryID: id}
		if got := ResolveCategoryName(&b, categories); got != want {
			t.Errorf("ResolveCategoryName(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestSanitizeColor(t *testing.T) {
	tests := map[string]string{
		"#2196F3":                "#2196F3",
		"#abc":                   "#abc",
		"rgb(1, 2, 3)":           "rgb(1, 2, 3)",
		"rgba(1,2,3,0.5)":        "rgba(1,2,3,0.5)",
		"var(--secondary)":       "var(--secondary)",
		"teal":                   "teal",
		"  #fff  ":               "#fff",
		"#12":                    "#000000",
		"red;}body{display:none": "#000000",
		"\"><script>":            "#000000",
		"":                       "#000000",
	}
	for in, want := range tests {
		if got := SanitizeColor(in); got != want {
			t.Errorf("SanitizeColor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTextColor(t *testing.T) {
	tests := map[string]string{
		"#FFC107":          "#000000",
		"#fff":             "#000000",
		"#2196F3":          "#ffffff",
		"#000080":          "#ffffff",
		"#333":             "#ffffff",
		"var(--secondary)": "#ffffff",
	}
	for bg, want := range tests {
		if got := TextColor(bg); got != want {
			t.Errorf("TextColor(%q) = %q, want %q", bg, got, want)
		}
	}
}

func TestGenerateID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := GenerateID()
		if id == "" || seen[id] {
			t.Fatalf("GenerateID() returned empty or duplicate id %q", id)
		}
		seen[id] = true
	}
}
