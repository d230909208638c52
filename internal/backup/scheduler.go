// Package backup takes scheduled snapshots of the planner documents.
package backup

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/HndrkDrs/WeekWise/internal/storage"
)

// snapshotLayout names snapshot directories. It sorts chronologically.
const snapshotLayout = "20060102T150405.000Z"

// Notifier receives a notice when a scheduled run fails.
type Notifier interface {
	Notify(level, title, message string)
}

// Snapshot is one backup directory.
type Snapshot struct {
	Name      string    `json:"name"`
	Taken     time.Time `json:"taken"`
	Documents []string  `json:"documents"`
}

// Scheduler writes snapshots on a cron schedule and on demand.
type Scheduler struct {
	cron     *cron.Cron
	store    storage.Store
	dir      string
	keep     int
	notifier Notifier
	now      func() time.Time

	// runs are serialized so pruning never races a write
	mu    sync.Mutex
	entry cron.EntryID
}

// NewScheduler creates a scheduler writing into dir and keeping the newest
// keep snapshots.
func NewScheduler(store storage.Store, dir string, keep int, notifier Notifier) *Scheduler {
	if keep <= 0 {
		keep = 1
	}
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &Scheduler{
		cron:     cron.New(cron.WithParser(parser)),
		store:    store,
		dir:      dir,
		keep:     keep,
		notifier: notifier,
		now:      time.Now,
	}
}

// Start schedules the backup job on spec and starts the cron runner.
func (s *Scheduler) Start(spec string) error {
	id, err := s.cron.AddFunc(spec, func() {
		if _, err := s.Run(context.Background()); err != nil {
			log.Printf("Scheduled backup failed: %v", err)
			if s.notifier != nil {
				s.notifier.Notify("error", "Backup failed", err.Error())
			}
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling backup %q: %w", spec, err)
	}
	s.entry = id
	s.cron.Start()
	log.Printf("Backup scheduler started (%s, keeping %d)", spec, s.keep)
	return nil
}

// Stop waits for a running backup to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Backup scheduler stopped")
}

// NextRun returns the next scheduled run, or the zero time.
func (s *Scheduler) NextRun() time.Time {
	if s.entry == 0 {
		return time.Time{}
	}
	return s.cron.Entry(s.entry).Next
}

// Run writes one snapshot now and prunes old ones.
func (s *Scheduler) Run(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	taken := s.now().UTC()
	snap := Snapshot{Name: taken.Format(snapshotLayout), Taken: taken, Documents: []string{}}
	path := filepath.Join(s.dir, snap.Name)

	if err := os.MkdirAll(path, 0o755); err != nil {
		return Snapshot{}, fmt.Errorf("creating snapshot directory: %w", err)
	}
	for _, doc := range storage.Documents {
		data, err := s.store.Load(ctx, doc)
		if err != nil {
			os.RemoveAll(path)
			return Snapshot{}, fmt.Errorf("reading %s: %w", doc, err)
		}
		if data == nil {
			continue
		}
		if err := os.WriteFile(filepath.Join(path, string(doc)+".json"), data, 0o644); err != nil {
			os.RemoveAll(path)
			return Snapshot{}, fmt.Errorf("writing %s: %w", doc, err)
		}
		snap.Documents = append(snap.Documents, string(doc))
	}

	removed, err := s.prune()
	if err != nil {
		log.Printf("Error pruning backups: %v", err)
	}
	log.Printf("Backup %s written (%d documents, %d pruned)", snap.Name, len(snap.Documents), removed)
	return snap, nil
}

// List returns the snapshots on disk, newest first.
func (s *Scheduler) List() ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list()
}

func (s *Scheduler) list() ([]Snapshot, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []Snapshot{}, nil
	}
	if err != nil {
		return nil, err
	}

	out := []Snapshot{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		taken, err := time.Parse(snapshotLayout, e.Name())
		if err != nil {
			continue
		}
		snap := Snapshot{Name: e.Name(), Taken: taken, Documents: []string{}}
		for _, doc := range storage.Documents {
			if _, err := os.Stat(filepath.Join(s.dir, e.Name(), string(doc)+".json")); err == nil {
				snap.Documents = append(snap.Documents, string(doc))
			}
		}
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out, nil
}

func (s *Scheduler) prune() (int, error) {
	snaps, err := s.list()
	if err != nil {
		return 0, err
	}
	removed := 0
	for i := s.keep; i < len(snaps); i++ {
		if err := os.RemoveAll(filepath.Join(s.dir, snaps[i].Name)); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
