package planner

import (
	"sort"

	"github.com/HndrkDrs/WeekWise/internal/storage/models"
)

// View is the render model handed to the client.
type View struct {
	Title          string     `json:"title"`
	HeaderColor    string     `json:"headerColor"`
	SecondaryColor string     `json:"secondaryColor"`
	StartHour      int        `json:"startHour"`
	EndHour        int        `json:"endHour"`
	Mode           string     `json:"mode"`
	ReadOnly       bool       `json:"readonly"`
	Embedded       bool       `json:"embedded"`
	ICSDayFilter   bool       `json:"icsDayFilter"`
	Categories     []Category `json:"categories"`
	Days           []DayView  `json:"days"`
	// Holding is only filled for authenticated sessions.
	Holding []BookingView `json:"holding,omitempty"`
}

// Category is a sanitized category for rendering.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// DayView is one rendered day column.
type DayView struct {
	Day      int           `json:"day"`
	Label    string        `json:"label"`
	Hidden   bool          `json:"hidden"`
	Empty    bool          `json:"empty"`
	Bookings []BookingView `json:"bookings"`
}

// BookingView is a booking with its derived presentation fields.
type BookingView struct {
	models.Booking
	Color     string `json:"color"`
	TextColor string `json:"textColor"`
	Slot      int    `json:"slot"`
	GroupSize int    `json:"groupSize"`
}

// BuildView computes the render model for the given state and filters.
func BuildView(s *models.Settings, bookings []models.Booking, f Filters, authenticated bool) View {
	v := View{
		Title:          s.Title,
		HeaderColor:    SanitizeColor(s.HeaderColor),
		SecondaryColor: SanitizeColor(s.SecondaryColor),
		StartHour:      s.StartHour,
		EndHour:        s.EndHour,
		Mode:           s.Mode,
		ReadOnly:       f.ReadOnly || !authenticated,
		Embedded:       f.Embedded,
		ICSDayFilter:   s.ICSDayFilter,
		Categories:     make([]Category, 0, len(s.BookingColors)+1),
	}
	v.Categories = append(v.Categories, Category{
		ID:    models.DefaultCategoryID,
		Name:  DefaultCategoryName,
		Color: SanitizeColor(s.SecondaryColor),
	})
	for _, c := range s.BookingColors {
		v.Categories = append(v.Categories, Category{ID: c.ID, Name: c.Name, Color: SanitizeColor(c.Color)})
	}

	// Visibility looks at the unfiltered set: a day is empty only if it
	// really has no bookings.
	days := VisibleDays(ComputeDayVisibility(s, bookings, f), authenticated)
	shown := FilterByCategory(bookings, s.BookingColors, f.Category)

	byDay := make(map[int][]models.Booking)
	for _, b := range shown {
		byDay[b.Day] = append(byDay[b.Day], b)
	}

	v.Days = make([]DayView, 0, len(days))
	for _, d := range days {
		v.Days = append(v.Days, DayView{
			Day:      d.Day,
			Label:    d.Label,
			Hidden:   d.Hidden(),
			Empty:    d.Empty,
			Bookings: bookingViews(Layout(byDay[d.Day]), s),
		})
	}

	if authenticated {
		// Bookings past the last day have no column; list them with holding.
		holding := append([]models.Booking{}, byDay[models.HoldingDay]...)
		count := DayCount(s)
		for _, b := range shown {
			if b.Day > count {
				holding = append(holding, b)
			}
		}
		sort.SliceStable(holding, func(i, j int) bool {
			return clockMinutes(holding[i].StartTime) < clockMinutes(holding[j].StartTime)
		})
		for _, b := range holding {
			v.Holding = append(v.Holding, bookingView(b, s, 0, 1))
		}
	}
	return v
}

func bookingViews(placed []Placement, s *models.Settings) []BookingView {
	out := make([]BookingView, 0, len(placed))
	for _, p := range placed {
		out = append(out, bookingView(p.Booking, s, p.Slot, p.GroupSize))
	}
	return out
}

func bookingView(b models.Booking, s *models.Settings, slot, size int) BookingView {
	color := ResolveColor(&b, s.BookingColors)
	if color == FallbackColor {
		color = SanitizeColor(s.SecondaryColor)
	}
	b.CategoryName = ResolveCategoryName(&b, s.BookingColors)
	return BookingView{
		Booking:   b,
		Color:     color,
		TextColor: TextColor(color),
		Slot:      slot,
		GroupSize: size,
	}
}
