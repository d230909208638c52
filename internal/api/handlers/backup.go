package handlers

import (
	"net/http"

	"github.com/HndrkDrs/WeekWise/internal/backup"
)

// BackupStatus lists snapshots and the next scheduled run.
type BackupStatus struct {
	Snapshots []backup.Snapshot `json:"snapshots"`
	NextRun   string            `json:"nextRun,omitempty"`
}

// RunBackup writes a snapshot now.
func RunBackup(s *backup.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := s.Run(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, snap)
	}
}

// ListBackups returns the snapshots on disk.
func ListBackups(s *backup.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snaps, err := s.List()
		if err != nil {
			writeServiceError(w, err)
			return
		}
		status := BackupStatus{Snapshots: snaps}
		if next := s.NextRun(); !next.IsZero() {
			status.NextRun = next.UTC().Format("2006-01-02T15:04:05Z")
		}
		writeJSON(w, http.StatusOK, status)
	}
}
