package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/HndrkDrs/WeekWise/internal/api/middleware"
	"github.com/HndrkDrs/WeekWise/internal/planner"
	"github.com/HndrkDrs/WeekWise/internal/service"
	"github.com/HndrkDrs/WeekWise/internal/storage"
)

// GetDocument returns a whole stored document.
func GetDocument(p *service.Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := storage.ParseDocument(mux.Vars(r)["doc"])
		if err != nil {
			writeServiceError(w, err)
			return
		}
		data, err := p.LoadDocument(r.Context(), doc, middleware.IsAdmin(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.Write(data)
	}
}

// PutDocument replaces a whole document. Settings saves take the state
// machine decisions from the query: confirm, strategy and regenerateToken.
func PutDocument(p *service.Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := storage.ParseDocument(mux.Vars(r)["doc"])
		if err != nil {
			writeServiceError(w, err)
			return
		}
		data, ok := readBody(w, r)
		if !ok {
			return
		}
		if !json.Valid(data) {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Body is not valid JSON")
			return
		}
		if err := p.SaveDocument(r.Context(), doc, data, transitionOptions(r.URL.Query())); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	}
}

func transitionOptions(q url.Values) planner.TransitionOptions {
	confirm, _ := strconv.ParseBool(q.Get("confirm"))
	regenerate, _ := strconv.ParseBool(q.Get("regenerateToken"))
	return planner.TransitionOptions{
		Strategy:        planner.Strategy(q.Get("strategy")),
		Confirm:         confirm,
		RegenerateToken: regenerate,
	}
}
