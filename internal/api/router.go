// Package api wires the HTTP routes.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/HndrkDrs/WeekWise/internal/api/handlers"
	"github.com/HndrkDrs/WeekWise/internal/api/middleware"
	"github.com/HndrkDrs/WeekWise/internal/backup"
	"github.com/HndrkDrs/WeekWise/internal/service"
	"github.com/HndrkDrs/WeekWise/internal/websocket"
)

// Deps are the collaborators the routes need.
type Deps struct {
	Planner   *service.Planner
	Hub       *websocket.Hub
	Backups   *backup.Scheduler
	StaticDir string
	// ICSDomain is the UID suffix of feed events; empty uses the request host.
	ICSDomain string
}

// NewRouter builds the router.
func NewRouter(d Deps) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Logging)
	r.Use(middleware.ErrorRecovery)
	r.Use(middleware.Session(d.Planner))

	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAdmin(h)
	}

	// Calendar clients subscribe to /ical; /api/ics is the same feed.
	r.HandleFunc("/ical", handlers.Calendar(d.Planner, d.ICSDomain)).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", handlers.HealthCheck(d.Planner, d.Hub)).Methods("GET")
	api.HandleFunc("/ws", handlers.WebSocketUpgrade(d.Hub)).Methods("GET")
	api.HandleFunc("/ics", handlers.Calendar(d.Planner, d.ICSDomain)).Methods("GET")
	api.HandleFunc("/view", handlers.View(d.Planner)).Methods("GET")

	// Auth
	api.HandleFunc("/login", handlers.Login(d.Planner)).Methods("POST")
	api.HandleFunc("/session", handlers.Session(d.Planner)).Methods("GET")
	api.Handle("/password", admin(handlers.ChangePassword(d.Planner))).Methods("POST")

	// Whole documents
	api.HandleFunc("/documents/{doc}", handlers.GetDocument(d.Planner)).Methods("GET")
	api.Handle("/documents/{doc}", admin(handlers.PutDocument(d.Planner))).Methods("PUT")

	// Bookings
	api.HandleFunc("/bookings", handlers.ListBookings(d.Planner)).Methods("GET")
	api.Handle("/bookings", admin(handlers.CreateBooking(d.Planner))).Methods("POST")
	api.Handle("/bookings/delete", admin(handlers.DeleteBookings(d.Planner))).Methods("POST")
	api.Handle("/bookings/category", admin(handlers.ReassignCategory(d.Planner))).Methods("POST")
	api.Handle("/bookings/{id}", admin(handlers.UpdateBooking(d.Planner))).Methods("PUT")
	api.Handle("/bookings/{id}", admin(handlers.DeleteBooking(d.Planner))).Methods("DELETE")
	api.Handle("/bookings/{id}/move", admin(handlers.MoveBooking(d.Planner))).Methods("POST")
	api.Handle("/bookings/{id}/duplicate", admin(handlers.DuplicateBooking(d.Planner))).Methods("POST")

	// Settings
	api.HandleFunc("/settings", handlers.GetSettings(d.Planner)).Methods("GET")
	api.Handle("/settings", admin(handlers.UpdateSettings(d.Planner))).Methods("PUT")
	api.Handle("/settings/token", admin(handlers.RotateToken(d.Planner))).Methods("POST")

	// Import / export
	api.Handle("/import", admin(handlers.Import(d.Planner))).Methods("POST")
	api.Handle("/export", admin(handlers.Export(d.Planner))).Methods("GET")

	if d.Backups != nil {
		api.Handle("/backup", admin(handlers.ListBackups(d.Backups))).Methods("GET")
		api.Handle("/backup", admin(handlers.RunBackup(d.Backups))).Methods("POST")
	}

	if d.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(d.StaticDir)))
	}
	return r
}
