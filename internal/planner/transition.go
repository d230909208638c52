package planner

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HndrkDrs/WeekWise/internal/storage/models"
)

// Settings transition errors.
var (
	ErrStartDateRequired    = errors.New("event mode requires a valid start date")
	ErrConfirmationRequired = errors.New("change moves bookings to the holding area and must be confirmed")
	ErrStrategyRequired     = errors.New("start date change requires a reconciliation strategy")
	ErrUnknownStrategy      = errors.New("unknown reconciliation strategy")
)

// Strategy selects how bookings follow an event start-date change.
type Strategy string

// Reconciliation strategies
const (
	// StrategyRelative keeps day numbers; days past the new range go to holding.
	StrategyRelative Strategy = "relative"
	// StrategyShift keeps the calendar date of every booking.
	StrategyShift Strategy = "shift"
	// StrategyToHolding moves every scheduled booking to holding.
	StrategyToHolding Strategy = "toHolding"
)

// TransitionOptions carry the caller's decisions for a settings save.
type TransitionOptions struct {
	Strategy        Strategy `json:"strategy,omitempty"`
	Confirm         bool     `json:"confirm,omitempty"`
	RegenerateToken bool     `json:"regenerateToken,omitempty"`
}

// Transition is the outcome of ApplySettings.
type Transition struct {
	Settings        *models.Settings
	Bookings        []models.Booking
	BookingsChanged bool
	// Moved counts bookings whose day changed.
	Moved       int
	TokenIssued bool
}

// PendingMove is returned with ErrConfirmationRequired.
type PendingMove struct {
	Count int `json:"count"`
}

// ApplySettings runs a settings save through the mode state machine and
// returns the new settings and bookings. Inputs are not modified. The login
// hash and token history are never taken from next.
func ApplySettings(cur, next *models.Settings, bookings []models.Booking, opts TransitionOptions, now time.Time) (Transition, error) {
	s := CloneSettings(next)
	s.LoginHash = cur.LoginHash
	s.ICSTokens = append(make([]models.ICSToken, 0, len(cur.ICSTokens)), cur.ICSTokens...)
	s.BookingColors = withoutReserved(s.BookingColors)
	NormalizeSettings(s)

	t := Transition{Settings: s, Bookings: cloneBookings(bookings)}

	switch {
	case !cur.IsEventMode() && s.IsEventMode():
		if _, err := ParseDate(s.EventStartDate); err != nil {
			return Transition{}, ErrStartDateRequired
		}
		// Day numbers carry over; those past the event range go to holding.
		if out := outOfRange(t.Bookings, DayCount(s)); out > 0 {
			if !opts.Confirm {
				return Transition{}, confirmationError(out)
			}
			t.Moved = moveOutOfRange(t.Bookings, DayCount(s))
		}
		if len(s.ICSTokens) == 0 {
			RotateToken(s, now)
			t.TokenIssued = true
		}

	case cur.IsEventMode() && !s.IsEventMode():
		// Bookings past the old event range had no slot either; they go to
		// holding together with everything past Sunday.
		limit := min(WeekDays, DayCount(cur))
		out := outOfRange(t.Bookings, limit)
		if out > 0 && !opts.Confirm {
			return Transition{}, confirmationError(out)
		}
		t.Moved = moveOutOfRange(t.Bookings, limit)

	case cur.IsEventMode() && s.IsEventMode():
		if _, err := ParseDate(s.EventStartDate); err != nil {
			return Transition{}, ErrStartDateRequired
		}
		if cur.EventStartDate != "" && cur.EventStartDate != s.EventStartDate {
			moved, err := reconcileStartDate(t.Bookings, cur.EventStartDate, s.EventStartDate, DayCount(s), opts.Strategy)
			if err != nil {
				return Transition{}, err
			}
			t.Moved = moved
			if opts.RegenerateToken {
				RotateToken(s, now)
				t.TokenIssued = true
			}
		} else if out := outOfRange(t.Bookings, DayCount(s)); out > 0 {
			if !opts.Confirm {
				return Transition{}, confirmationError(out)
			}
			t.Moved = moveOutOfRange(t.Bookings, DayCount(s))
		}
	}

	if stripped := stripDeletedCategories(t.Bookings, cur.BookingColors, s.BookingColors); stripped > 0 {
		t.BookingsChanged = true
	}
	if t.Moved > 0 {
		t.BookingsChanged = true
	}
	return t, nil
}

func confirmationError(n int) error {
	return &ConfirmationError{Pending: PendingMove{Count: n}}
}

// ConfirmationError wraps ErrConfirmationRequired with the affected count.
type ConfirmationError struct {
	Pending PendingMove
}

func (e *ConfirmationError) Error() string {
	return fmt.Sprintf("%v (%d bookings)", ErrConfirmationRequired, e.Pending.Count)
}

func (e *ConfirmationError) Unwrap() error {
	return ErrConfirmationRequired
}

func reconcileStartDate(bookings []models.Booking, oldDate, newDate string, count int, strategy Strategy) (int, error) {
	switch strategy {
	case StrategyRelative:
		return moveOutOfRange(bookings, count), nil

	case StrategyShift:
		oldStart, err := ParseDate(oldDate)
		if err != nil {
			// Nothing to shift from; day numbers stay relative.
			return moveOutOfRange(bookings, count), nil
		}
		newStart, err := ParseDate(newDate)
		if err != nil {
			return 0, ErrStartDateRequired
		}
		offset := int(oldStart.Sub(newStart).Hours() / 24)
		moved := 0
		for i := range bookings {
			b := &bookings[i]
			if !b.Scheduled() {
				continue
			}
			day := b.Day + offset
			if day < 1 || day > count {
				day = models.HoldingDay
			}
			if day != b.Day {
				b.Day = day
				moved++
			}
		}
		return moved, nil

	case StrategyToHolding:
		moved := 0
		for i := range bookings {
			if bookings[i].Scheduled() {
				bookings[i].Day = models.HoldingDay
				moved++
			}
		}
		return moved, nil

	case "":
		return 0, ErrStrategyRequired
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

func outOfRange(bookings []models.Booking, count int) int {
	n := 0
	for _, b := range bookings {
		if b.Day > count {
			n++
		}
	}
	return n
}

func moveOutOfRange(bookings []models.Booking, count int) int {
	moved := 0
	for i := range bookings {
		if bookings[i].Day > count || bookings[i].Day < 0 {
			bookings[i].Day = models.HoldingDay
			moved++
		}
	}
	return moved
}

// stripDeletedCategories resets bookings whose category was removed between
// before and after. Dangling references that predate the save are left alone.
func stripDeletedCategories(bookings []models.Booking, before, after []models.Category) int {
	kept := make(map[string]bool, len(after))
	for _, c := range after {
		kept[c.ID] = true
	}
	deleted := make(map[string]bool)
	for _, c := range before {
		if !kept[c.ID] {
			deleted[c.ID] = true
		}
	}
	n := 0
	for i := range bookings {
		if !deleted[bookings[i].Category()] {
			continue
		}
		bookings[i].CategoryID = ""
		bookings[i].CategoryName = ""
		n++
	}
	return n
}

func withoutReserved(categories []models.Category) []models.Category {
	out := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if c.ID == models.DefaultCategoryID || strings.TrimSpace(c.ID) == "" {
			continue
		}
		c.Color = SanitizeColor(c.Color)
		out = append(out, c)
	}
	return out
}

func cloneBookings(bookings []models.Booking) []models.Booking {
	return append(make([]models.Booking, 0, len(bookings)), bookings...)
}

// NewToken returns a fresh random subscription token.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// RotateToken appends a new token, revoking every earlier one.
func RotateToken(s *models.Settings, now time.Time) models.ICSToken {
	tok := models.ICSToken{Token: NewToken(), Created: now.UTC().Format(time.RFC3339)}
	s.ICSTokens = append(s.ICSTokens, tok)
	return tok
}

// ValidToken reports whether token is the single active subscription token.
func ValidToken(s *models.Settings, token string) bool {
	active := s.ActiveToken()
	if token == "" || active == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(active)) == 1
}
