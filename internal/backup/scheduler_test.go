package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/HndrkDrs/WeekWise/internal/storage"
)

type failingStore struct{}

func (failingStore) Load(context.Context, storage.Document) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func (failingStore) Save(context.Context, storage.Document, []byte) error {
	return errors.New("disk on fire")
}

type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (n *recordingNotifier) Notify(level, title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.titles = append(n.titles, title)
}

func newTestStore(t *testing.T) *storage.FileStore {
	t.Helper()
	s, err := storage.NewFileStore(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}
	return s
}

// fakeClock advances one second per call.
func fakeClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func TestRunWritesSnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if err := store.Save(ctx, storage.DocumentBookings, []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(t.TempDir(), "backups")
	s := NewScheduler(store, dir, 5, nil)
	s.now = fakeClock(time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC))

	snap, err := s.Run(ctx)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if snap.Name != "20260213T120001.000Z" {
		t.Errorf("Name = %q", snap.Name)
	}
	if !reflect.DeepEqual(snap.Documents, []string{"bookings"}) {
		t.Errorf("Documents = %v, want only bookings (settings was never saved)", snap.Documents)
	}

	data, err := os.ReadFile(filepath.Join(dir, snap.Name, "bookings.json"))
	if err != nil {
		t.Fatalf("snapshot file missing: %v", err)
	}
	want, _ := store.Load(ctx, storage.DocumentBookings)
	if string(data) != string(want) {
		t.Errorf("snapshot = %q, want %q", data, want)
	}
}

func TestRunPrunesOldSnapshots(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(context.Background(), storage.DocumentSettings, []byte(`{}`)); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	s := NewScheduler(store, dir, 2, nil)
	s.now = fakeClock(time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC))

	var names []string
	for i := 0; i < 4; i++ {
		snap, err := s.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() %d failed: %v", i, err)
		}
		names = append(names, snap.Name)
	}

	// Unrelated entries are left alone.
	if err := os.Mkdir(filepath.Join(dir, "manual"), 0o755); err != nil {
		t.Fatal(err)
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List() returned %d snapshots, want 2", len(list))
	}
	if list[0].Name != names[3] || list[1].Name != names[2] {
		t.Errorf("List() = %v, want the two newest, newest first", list)
	}
	if !reflect.DeepEqual(list[0].Documents, []string{"settings"}) {
		t.Errorf("Documents = %v", list[0].Documents)
	}
	if !list[0].Taken.Equal(time.Date(2026, 2, 13, 12, 0, 4, 0, time.UTC)) {
		t.Errorf("Taken = %v", list[0].Taken)
	}
	if _, err := os.Stat(filepath.Join(dir, "manual")); err != nil {
		t.Error("pruning removed an unrelated directory")
	}
}

func TestRunFailureLeavesNoSnapshot(t *testing.T) {
	dir := t.TempDir()
	s := NewScheduler(failingStore{}, dir, 3, nil)

	if _, err := s.Run(context.Background()); err == nil {
		t.Fatal("Run() should fail when the store cannot be read")
	}
	list, err := s.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("failed run left %v", list)
	}
}

func TestListWithoutDirectory(t *testing.T) {
	s := NewScheduler(newTestStore(t), filepath.Join(t.TempDir(), "missing"), 3, nil)
	list, err := s.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("List() = %v, want an empty list", list)
	}
}

func TestStartSchedule(t *testing.T) {
	s := NewScheduler(newTestStore(t), t.TempDir(), 3, nil)

	if !s.NextRun().IsZero() {
		t.Error("NextRun() should be zero before Start")
	}
	if err := s.Start("not a schedule"); err == nil {
		t.Error("Start() should reject an invalid spec")
	}
	if err := s.Start("@daily"); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer s.Stop()

	next := s.NextRun()
	if next.IsZero() || next.Before(time.Now()) || next.After(time.Now().Add(25*time.Hour)) {
		t.Errorf("NextRun() = %v, want within a day", next)
	}
}

func TestScheduledFailureNotifies(t *testing.T) {
	n := &recordingNotifier{}
	s := NewScheduler(failingStore{}, t.TempDir(), 3, n)

	// Every second, seconds field enabled by the parser.
	if err := s.Start("* * * * * *"); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		n.mu.Lock()
		got := len(n.titles)
		n.mu.Unlock()
		if got > 0 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	s.Stop()

	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.titles) == 0 || n.titles[0] != "Backup failed" {
		t.Errorf("notifications = %v, want a failure notice", n.titles)
	}
}
