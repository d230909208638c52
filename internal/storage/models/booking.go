// Package models contains the domain models for the application.
package models

// DefaultCategoryID is the reserved category every installation has.
// It cannot be deleted and is the fallback for unknown references.
const DefaultCategoryID = "default"

// HoldingDay is the day number of the holding area ("Ablage").
const HoldingDay = 0

// Booking is one entry in the weekly or event schedule.
type Booking struct {
	ID           string `json:"id,omitempty"`
	Day          int    `json:"day"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	Title        string `json:"title"`
	Location     string `json:"location,omitempty"`
	Trainer      string `json:"trainer,omitempty"` // one entry per line
	Contact      string `json:"contact,omitempty"`
	Link         string `json:"link,omitempty"`
	Description  string `json:"description,omitempty"`
	CategoryID   string `json:"categoryID,omitempty"`
	CategoryName string `json:"categoryName,omitempty"`
}

// Category returns the booking's category id, "default" when unset.
func (b *Booking) Category() string {
	if b.CategoryID == "" {
		return DefaultCategoryID
	}
	return b.CategoryID
}

// Scheduled reports whether the booking sits on a real day.
func (b *Booking) Scheduled() bool {
	return b.Day != HoldingDay
}

// Category is a named, colored tag for bookings (stored as "bookingColors").
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}
