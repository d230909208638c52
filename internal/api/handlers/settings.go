package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/HndrkDrs/WeekWise/internal/api/middleware"
	"github.com/HndrkDrs/WeekWise/internal/auth"
	"github.com/HndrkDrs/WeekWise/internal/planner"
	"github.com/HndrkDrs/WeekWise/internal/service"
	"github.com/HndrkDrs/WeekWise/internal/storage/models"
)

// SettingsResponse is the settings document without secrets. The outer
// fields shadow the embedded ones of the same JSON name.
type SettingsResponse struct {
	*models.Settings
	LoginHash *int32            `json:"loginhash,omitempty"`
	ICSTokens []models.ICSToken `json:"icsTokens,omitempty"`
}

func settingsResponse(s *models.Settings, admin bool) SettingsResponse {
	resp := SettingsResponse{Settings: s}
	if admin {
		resp.ICSTokens = s.ICSTokens
	}
	return resp
}

// UpdateSettingsRequest is a settings save with the caller's decisions for
// the mode and start-date state machine.
type UpdateSettingsRequest struct {
	Settings json.RawMessage `json:"settings"`
	planner.TransitionOptions
}

// UpdateSettingsResponse reports what the save did.
type UpdateSettingsResponse struct {
	Settings    SettingsResponse `json:"settings"`
	Moved       int              `json:"moved"`
	TokenIssued bool             `json:"tokenIssued"`
}

// GetSettings returns the current settings.
func GetSettings(p *service.Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, settingsResponse(p.Settings(), middleware.IsAdmin(r)))
	}
}

// UpdateSettings saves settings. Destructive transitions answer 409
// confirmation_required until repeated with "confirm": true.
func UpdateSettings(p *service.Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateSettingsRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if len(req.Settings) == 0 {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "settings is required")
			return
		}
		next, err := planner.LoadSettings(req.Settings, auth.DefaultHash)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid settings")
			return
		}

		t, err := p.UpdateSettings(r.Context(), next, req.TransitionOptions)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, UpdateSettingsResponse{
			Settings:    settingsResponse(t.Settings, true),
			Moved:       t.Moved,
			TokenIssued: t.TokenIssued,
		})
	}
}

// RotateToken issues a new subscription token.
func RotateToken(p *service.Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok, err := p.RotateToken(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, tok)
	}
}
