package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/HndrkDrs/WeekWise/internal/storage/models"
)

// Import errors.
var (
	ErrNoValidRecords    = errors.New("no valid bookings in import")
	ErrImportCancelled   = errors.New("import cancelled")
	ErrMissingCategories = errors.New("import references unknown categories")
	ErrUnknownMergeMode  = errors.New("unknown merge mode")
)

// MergeMode selects how imported bookings combine with existing ones.
type MergeMode string

// Merge modes
const (
	MergeOverwrite MergeMode = "overwrite"
	MergeAppend    MergeMode = "append"
)

// CategoryAction resolves categories the import references but the
// installation does not know.
type CategoryAction string

// Category actions
const (
	CategoryCreate CategoryAction = "create"
	CategoryStrip  CategoryAction = "strip"
	CategoryCancel CategoryAction = "cancel"
)

// ImportRequest is a bulk import of booking records.
type ImportRequest struct {
	Records []Record
	Mode    MergeMode
	Action  CategoryAction
}

// MissingCategory is an unknown category id found in an import.
type MissingCategory struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// MissingCategoriesError lists the categories that need a caller decision.
type MissingCategoriesError struct {
	Missing []MissingCategory
}

func (e *MissingCategoriesError) Error() string {
	return fmt.Sprintf("%v: %d", ErrMissingCategories, len(e.Missing))
}

func (e *MissingCategoriesError) Unwrap() error {
	return ErrMissingCategories
}

// ImportResult is the state after a successful import.
type ImportResult struct {
	Settings        *models.Settings
	Bookings        []models.Booking
	SettingsChanged bool

	Imported int `json:"imported"`
	Invalid  int `json:"invalid"`
	Remapped int `json:"remapped"`
	Created  int `json:"created"`
	Stripped int `json:"stripped"`
}

// Import validates, reconciles and merges an import payload. Every imported
// booking receives a fresh id.
func Import(s *models.Settings, current []models.Booking, req ImportRequest) (ImportResult, error) {
	if req.Mode != MergeOverwrite && req.Mode != MergeAppend {
		return ImportResult{}, fmt.Errorf("%w: %q", ErrUnknownMergeMode, req.Mode)
	}

	res := ImportResult{Settings: CloneSettings(s)}
	var incoming []models.Booking
	for _, rec := range req.Records {
		if !ValidateBooking(rec) {
			res.Invalid++
			continue
		}
		b, ok := rec.Booking()
		if !ok {
			res.Invalid++
			continue
		}
		incoming = append(incoming, b)
	}
	if len(incoming) == 0 {
		return ImportResult{}, ErrNoValidRecords
	}

	missing := reconcileCategories(incoming, res.Settings.BookingColors, &res)
	if len(missing) > 0 {
		switch req.Action {
		case CategoryCancel:
			return ImportResult{}, ErrImportCancelled
		case CategoryCreate:
			for _, m := range missing {
				name := m.Name
				if name == "" {
					name = m.ID
				}
				res.Settings.BookingColors = append(res.Settings.BookingColors,
					models.Category{ID: m.ID, Name: name, Color: DefaultCategoryColor})
				res.Created++
			}
			res.SettingsChanged = true
		case CategoryStrip:
			unknown := make(map[string]bool, len(missing))
			for _, m := range missing {
				unknown[m.ID] = true
			}
			for i := range incoming {
				if unknown[incoming[i].CategoryID] {
					incoming[i].CategoryID = ""
					incoming[i].CategoryName = ""
					res.Stripped++
				}
			}
		default:
			return ImportResult{}, &MissingCategoriesError{Missing: missing}
		}
	}

	count := DayCount(res.Settings)
	for i := range incoming {
		incoming[i].ID = GenerateID()
		if incoming[i].Day > count {
			incoming[i].Day = models.HoldingDay
		}
		incoming[i].CategoryName = ResolveCategoryName(&incoming[i], res.Settings.BookingColors)
	}
	res.Imported = len(incoming)

	if req.Mode == MergeAppend {
		res.Bookings = append(cloneBookings(current), incoming...)
	} else {
		res.Bookings = incoming
	}
	return res, nil
}

// reconcileCategories remaps unknown category ids to local categories with
// the same name and returns those it could not resolve, sorted by id.
func reconcileCategories(bookings []models.Booking, local []models.Category, res *ImportResult) []MissingCategory {
	known := make(map[string]bool, len(local))
	byName := make(map[string]string, len(local))
	for _, c := range local {
		known[c.ID] = true
		byName[strings.ToLower(strings.TrimSpace(c.Name))] = c.ID
	}

	missing := make(map[string]*MissingCategory)
	for i := range bookings {
		b := &bookings[i]
		id := b.Category()
		if id == models.DefaultCategoryID || known[id] {
			continue
		}
		if localID, ok := byName[strings.ToLower(strings.TrimSpace(b.CategoryName))]; ok && b.CategoryName != "" {
			b.CategoryID = localID
			res.Remapped++
			continue
		}
		m, ok := missing[id]
		if !ok {
			m = &MissingCategory{ID: id, Name: b.CategoryName}
			missing[id] = m
		}
		m.Count++
	}

	out := make([]MissingCategory, 0, len(missing))
	for _, m := range missing {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Export renders bookings in the portable export format: empty fields are
// dropped and the current category name is embedded.
func Export(bookings []models.Booking, categories []models.Category) ([]byte, error) {
	out := make([]models.Booking, len(bookings))
	for i, b := range bookings {
		b.CategoryName = ResolveCategoryName(&b, categories)
		out[i] = b
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return data, nil
}
