package planner

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/HndrkDrs/WeekWise/internal/storage/models"
)

func slot(id, start, end string) models.Booking {
	return models.Booking{ID: id, Day: 1, StartTime: start, EndTime: end, Title: id}
}

type layoutWant struct {
	slot, size int
}

func placementsByID(placed []Placement) map[string]layoutWant {
	out := make(map[string]layoutWant, len(placed))
	for _, p := range placed {
		out[p.Booking.ID] = layoutWant{p.Slot, p.GroupSize}
	}
	return out
}

func TestLayout(t *testing.T) {
	tests := []struct {
		name     string
		bookings []models.Booking
		want     map[string]layoutWant
	}{
		{
			name:     "overlapping pair",
			bookings: []models.Booking{slot("a", "09:00", "10:00"), slot("b", "09:30", "10:30")},
			want:     map[string]layoutWant{"a": {0, 2}, "b": {1, 2}},
		},
		{
			name:     "shared boundary does not overlap",
			bookings: []models.Booking{slot("a", "09:00", "10:00"), slot("b", "10:00", "11:00")},
			want:     map[string]layoutWant{"a": {0, 1}, "b": {0, 1}},
		},
		{
			name: "chain joins non-overlapping ends",
			bookings: []models.Booking{
				slot("a", "08:00", "09:00"),
				slot("b", "08:30", "10:00"),
				slot("c", "09:45", "11:00"),
				slot("d", "11:00", "12:00"),
			},
			want: map[string]layoutWant{"a": {0, 3}, "b": {1, 3}, "c": {2, 3}, "d": {0, 1}},
		},
		{
			name: "unsorted input",
			bookings: []models.Booking{
				slot("late", "14:00", "15:00"),
				slot("early", "08:00", "12:00"),
				slot("mid", "09:00", "09:30"),
			},
			want: map[string]layoutWant{"early": {0, 2}, "mid": {1, 2}, "late": {0, 1}},
		},
		{
			name:     "single booking",
			bookings: []models.Booking{slot("a", "09:00", "10:00")},
			want:     map[string]layoutWant{"a": {0, 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			placed := Layout(tt.bookings)
			if len(placed) != len(tt.bookings) {
				t.Fatalf("Layout() returned %d placements, want %d", len(placed), len(tt.bookings))
			}
			got := placementsByID(placed)
			for id, want := range tt.want {
				if got[id] != want {
					t.Errorf("%s: slot/size = %v, want %v", id, got[id], want)
				}
			}
		})
	}
}

func TestLayoutEmpty(t *testing.T) {
	if placed := Layout(nil); placed != nil {
		t.Errorf("Layout(nil) = %v, want nil", placed)
	}
}

func TestLayoutMatchesOverlapComponents(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 200; round++ {
		n := 1 + rng.Intn(12)
		bookings := make([]models.Booking, n)
		starts := make([]int, n)
		ends := make([]int, n)
		for i := range bookings {
			starts[i] = rng.Intn(88) * 15
			ends[i] = starts[i] + (1+rng.Intn(8))*15
			bookings[i] = slot(strconv.Itoa(i), FormatClock(starts[i]), FormatClock(ends[i]))
		}

		// Connected components of the pairwise overlap graph.
		parent := make([]int, n)
		for i := range parent {
			parent[i] = i
		}
		var find func(int) int
		find = func(i int) int {
			for parent[i] != i {
				i = parent[i]
			}
			return i
		}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if starts[i] < ends[j] && starts[j] < ends[i] {
					parent[find(i)] = find(j)
				}
			}
		}

		placed := Layout(bookings)
		group := make(map[string]int, n)
		size := make(map[int]int)
		g := -1
		for _, p := range placed {
			if p.Slot == 0 {
				g++
			}
			group[p.Booking.ID] = g
			size[g]++
		}
		for _, p := range placed {
			if p.GroupSize != size[group[p.Booking.ID]] {
				t.Fatalf("round %d: booking %s has group size %d, group has %d members",
					round, p.Booking.ID, p.GroupSize, size[group[p.Booking.ID]])
			}
		}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				same := group[strconv.Itoa(i)] == group[strconv.Itoa(j)]
				connected := find(i) == find(j)
				if same != connected {
					t.Fatalf("round %d: bookings %d [%d,%d) and %d [%d,%d): grouped=%v connected=%v",
						round, i, starts[i], ends[i], j, starts[j], ends[j], same, connected)
				}
			}
		}
	}
}
