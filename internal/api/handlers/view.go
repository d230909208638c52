package handlers

import (
	"net/http"

	"github.com/HndrkDrs/WeekWise/internal/api/middleware"
	"github.com/HndrkDrs/WeekWise/internal/planner"
	"github.com/HndrkDrs/WeekWise/internal/service"
)

// View returns the render model for the query's filters. Admins see hidden
// days greyed out and the holding area.
func View(p *service.Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := planner.ParseFilters(r.URL.Query(), p.Mode())
		writeJSON(w, http.StatusOK, p.View(f, middleware.IsAdmin(r)))
	}
}
