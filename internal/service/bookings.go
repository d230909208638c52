package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/HndrkDrs/WeekWise/internal/planner"
	"github.com/HndrkDrs/WeekWise/internal/storage/models"
)

// Move is the new placement of a dragged or resized booking.
type Move struct {
	Day       int    `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func (p *Planner) index(id string) int {
	for i := range p.bookings {
		if p.bookings[i].ID == id {
			return i
		}
	}
	return -1
}

// prepare validates b against the current settings and fills its derived
// fields. Callers hold p.mu.
func (p *Planner) prepare(b *models.Booking) error {
	b.Title = strings.TrimSpace(b.Title)
	if id := b.Category(); id != models.DefaultCategoryID {
		if _, ok := p.settings.CategoryByID(id); !ok {
			return fmt.Errorf("%w: unknown category %q", planner.ErrInvalidBooking, id)
		}
	}
	if err := planner.CheckBooking(b, planner.DayCount(p.settings)); err != nil {
		return err
	}
	b.CategoryName = planner.ResolveCategoryName(b, p.settings.BookingColors)
	return nil
}

func (p *Planner) cloned() []models.Booking {
	return append(make([]models.Booking, 0, len(p.bookings)+1), p.bookings...)
}

// AddBooking creates a booking with a fresh id.
func (p *Planner) AddBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.prepare(&b); err != nil {
		return models.Booking{}, err
	}
	b.ID = planner.GenerateID()
	if err := p.commitBookings(ctx, append(p.cloned(), b)); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

// UpdateBooking replaces every field of booking id except its identity.
func (p *Planner) UpdateBooking(ctx context.Context, id string, b models.Booking) (models.Booking, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.index(id)
	if i < 0 {
		return models.Booking{}, planner.ErrBookingNotFound
	}
	if err := p.prepare(&b); err != nil {
		return models.Booking{}, err
	}
	b.ID = id
	next := p.cloned()
	next[i] = b
	if err := p.commitBookings(ctx, next); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

// MoveBooking changes the day and times of a booking.
func (p *Planner) MoveBooking(ctx context.Context, id string, m Move) (models.Booking, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.index(id)
	if i < 0 {
		return models.Booking{}, planner.ErrBookingNotFound
	}
	b := p.bookings[i]
	b.Day, b.StartTime, b.EndTime = m.Day, m.StartTime, m.EndTime
	if err := planner.CheckBooking(&b, planner.DayCount(p.settings)); err != nil {
		return models.Booking{}, err
	}
	next := p.cloned()
	next[i] = b
	if err := p.commitBookings(ctx, next); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

// DuplicateBooking copies booking id under a fresh id, placed right after
// the original.
func (p *Planner) DuplicateBooking(ctx context.Context, id string) (models.Booking, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.index(id)
	if i < 0 {
		return models.Booking{}, planner.ErrBookingNotFound
	}
	dup := p.bookings[i]
	dup.ID = planner.GenerateID()

	next := make([]models.Booking, 0, len(p.bookings)+1)
	next = append(next, p.bookings[:i+1]...)
	next = append(next, dup)
	next = append(next, p.bookings[i+1:]...)
	if err := p.commitBookings(ctx, next); err != nil {
		return models.Booking{}, err
	}
	return dup, nil
}

// DeleteBookings removes every booking in ids and returns how many were
// removed. Unknown ids are ignored unless none match.
func (p *Planner) DeleteBookings(ctx context.Context, ids []string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	next := make([]models.Booking, 0, len(p.bookings))
	for _, b := range p.bookings {
		if !drop[b.ID] {
			next = append(next, b)
		}
	}
	removed := len(p.bookings) - len(next)
	if removed == 0 {
		return 0, planner.ErrBookingNotFound
	}
	if err := p.commitBookings(ctx, next); err != nil {
		return 0, err
	}
	return removed, nil
}

// ReassignCategory puts the bookings in ids into categoryID. An empty id or
// "default" resets them to the default category.
func (p *Planner) ReassignCategory(ctx context.Context, ids []string, categoryID string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if categoryID == models.DefaultCategoryID {
		categoryID = ""
	}
	if categoryID != "" {
		if _, ok := p.settings.CategoryByID(categoryID); !ok {
			return 0, fmt.Errorf("%w: unknown category %q", planner.ErrInvalidBooking, categoryID)
		}
	}

	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	next := p.cloned()
	n := 0
	for i := range next {
		if !want[next[i].ID] {
			continue
		}
		next[i].CategoryID = categoryID
		next[i].CategoryName = planner.ResolveCategoryName(&next[i], p.settings.BookingColors)
		n++
	}
	if n == 0 {
		return 0, planner.ErrBookingNotFound
	}
	if err := p.commitBookings(ctx, next); err != nil {
		return 0, err
	}
	return n, nil
}
