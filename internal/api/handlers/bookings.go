package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/HndrkDrs/WeekWise/internal/service"
	"github.com/HndrkDrs/WeekWise/internal/storage/models"
)

// BulkRequest addresses several bookings at once.
type BulkRequest struct {
	IDs        []string `json:"ids"`
	CategoryID string   `json:"categoryID,omitempty"`
}

// BulkResponse reports how many bookings an operation touched.
type BulkResponse struct {
	Count int `json:"count"`
}

// ListBookings returns every booking.
func ListBookings(p *service.Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, p.Bookings())
	}
}

// CreateBooking adds a booking.
func CreateBooking(p *service.Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var b models.Booking
		if !decodeJSON(w, r, &b) {
			return
		}
		created, err := p.AddBooking(r.Context(), b)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// UpdateBooking replaces a booking's fields.
func UpdateBooking(p *service.Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var b models.Booking
		if !decodeJSON(w, r, &b) {
			return
		}
		updated, err := p.UpdateBooking(r.Context(), mux.Vars(r)["id"], b)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// MoveBooking changes a booking's day and times.
func MoveBooking(p *service.Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var m service.Move
		if !decodeJSON(w, r, &m) {
			return
		}
		moved, err := p.MoveBooking(r.Context(), mux.Vars(r)["id"], m)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, moved)
	}
}

// DuplicateBooking copies a booking.
func DuplicateBooking(p *service.Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dup, err := p.DuplicateBooking(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, dup)
	}
}

// DeleteBooking removes one booking.
func DeleteBooking(p *service.Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := p.DeleteBookings(r.Context(), []string{mux.Vars(r)["id"]}); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteBookings removes several bookings.
func DeleteBookings(p *service.Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BulkRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		n, err := p.DeleteBookings(r.Context(), req.IDs)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, BulkResponse{Count: n})
	}
}

// ReassignCategory moves several bookings into a category.
func ReassignCategory(p *service.Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BulkRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		n, err := p.ReassignCategory(r.Context(), req.IDs, req.CategoryID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, BulkResponse{Count: n})
	}
}
