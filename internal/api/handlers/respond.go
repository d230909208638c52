// Package handlers provides the HTTP handlers of the API.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/HndrkDrs/WeekWise/internal/api/middleware"
	"github.com/HndrkDrs/WeekWise/internal/auth"
	"github.com/HndrkDrs/WeekWise/internal/planner"
	"github.com/HndrkDrs/WeekWise/internal/storage"
)

// maxBody bounds request bodies; an import of a few thousand bookings fits.
const maxBody = 4 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Request body too large or unreadable")
		return nil, false
	}
	return data, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	data, ok := readBody(w, r)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
		return false
	}
	return true
}

// writeServiceError maps domain errors onto API errors.
func writeServiceError(w http.ResponseWriter, err error) {
	var confirm *planner.ConfirmationError
	var missing *planner.MissingCategoriesError

	switch {
	case errors.As(err, &confirm):
		middleware.WriteErrorWithDetails(w, http.StatusConflict, middleware.ErrConfirmationRequired,
			err.Error(), confirm.Pending)
	case errors.As(err, &missing):
		middleware.WriteErrorWithDetails(w, http.StatusConflict, middleware.ErrConflict,
			"Import references unknown categories", map[string]any{"missingCategories": missing.Missing})

	case errors.Is(err, planner.ErrBookingNotFound),
		errors.Is(err, storage.ErrUnknownDocument):
		middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, err.Error())

	case errors.Is(err, planner.ErrImportCancelled),
		errors.Is(err, auth.ErrUnconfigured):
		middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict, err.Error())

	case errors.Is(err, auth.ErrInvalidPassword):
		middleware.WriteError(w, http.StatusUnauthorized, middleware.ErrUnauthorized, err.Error())

	case errors.Is(err, planner.ErrInvalidBooking),
		errors.Is(err, planner.ErrInvalidTimeRange),
		errors.Is(err, planner.ErrStartDateRequired),
		errors.Is(err, planner.ErrStrategyRequired),
		errors.Is(err, planner.ErrUnknownStrategy),
		errors.Is(err, planner.ErrNoValidRecords),
		errors.Is(err, planner.ErrUnknownMergeMode),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrReservedPassword):
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, err.Error())

	case errors.Is(err, storage.ErrCorruptDocument):
		log.Printf("Corrupt document: %v", err)
		middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrCorruptDocument, "Stored document is not valid JSON")

	default:
		log.Printf("Internal error: %v", err)
		middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Operation failed; nothing was saved")
	}
}
