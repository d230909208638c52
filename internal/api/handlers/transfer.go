package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/HndrkDrs/WeekWise/internal/api/middleware"
	"github.com/HndrkDrs/WeekWise/internal/planner"
	"github.com/HndrkDrs/WeekWise/internal/service"
)

// ExportFilename is the attachment name of an export.
const ExportFilename = "bookings.json"

// ImportRequest is the body of POST /api/import.
type ImportRequest struct {
	Bookings       json.RawMessage        `json:"bookings"`
	Mode           planner.MergeMode      `json:"mode"`
	CategoryAction planner.CategoryAction `json:"categoryAction,omitempty"`
}

// ImportResponse summarizes an import.
type ImportResponse struct {
	Imported int `json:"imported"`
	Invalid  int `json:"invalid"`
	Remapped int `json:"remapped"`
	Created  int `json:"created"`
	Stripped int `json:"stripped"`
	Total    int `json:"total"`
}

// Import merges uploaded bookings. Unknown categories answer 409 with the
// list until the request names a categoryAction.
func Import(p *service.Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ImportRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		records, err := planner.DecodeRecords(req.Bookings)
		if err != nil || len(req.Bookings) == 0 {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "bookings must be an array")
			return
		}
		if req.Mode == "" {
			req.Mode = planner.MergeAppend
		}

		res, err := p.Import(r.Context(), planner.ImportRequest{
			Records: records,
			Mode:    req.Mode,
			Action:  req.CategoryAction,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ImportResponse{
			Imported: res.Imported,
			Invalid:  res.Invalid,
			Remapped: res.Remapped,
			Created:  res.Created,
			Stripped: res.Stripped,
			Total:    len(res.Bookings),
		})
	}
}

// Export downloads the bookings in the portable format.
func Export(p *service.Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := p.Export(r.URL.Query().Get("category"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="`+ExportFilename+`"`)
		w.Write(data)
	}
}
