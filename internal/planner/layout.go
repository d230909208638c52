package planner

import (
	"sort"

	"github.com/HndrkDrs/WeekWise/internal/storage/models"
)

// Placement positions one booking inside its day column. Slot is the
// zero-based index among GroupSize side-by-side bookings.
type Placement struct {
	Booking   models.Booking
	Start     int // minutes after midnight
	End       int
	Slot      int
	GroupSize int
}

// Layout groups temporally overlapping bookings of a single day. Bookings
// that only touch (one ends when the next starts) do not overlap.
func Layout(bookings []models.Booking) []Placement {
	if len(bookings) == 0 {
		return nil
	}

	placed := make([]Placement, len(bookings))
	for i, b := range bookings {
		placed[i] = Placement{Booking: b, Start: clockMinutes(b.StartTime), End: clockMinutes(b.EndTime)}
	}
	sort.SliceStable(placed, func(i, j int) bool {
		return placed[i].Start < placed[j].Start
	})

	groupStart := 0
	groupEnd := placed[0].End
	for i := 1; i <= len(placed); i++ {
		if i < len(placed) && placed[i].Start < groupEnd {
			if placed[i].End > groupEnd {
				groupEnd = placed[i].End
			}
			continue
		}
		closeGroup(placed[groupStart:i])
		if i < len(placed) {
			groupStart = i
			groupEnd = placed[i].End
		}
	}
	return placed
}

func closeGroup(group []Placement) {
	for i := range group {
		group[i].Slot = i
		group[i].GroupSize = len(group)
	}
}
