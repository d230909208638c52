package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
)

func openTestRepository(t *testing.T, historyLimit int) *DocumentRepository {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "db", "weekwise.db"))
	if err != nil {
		t.Fatalf("NewDB() failed: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}
	repo := NewDocumentRepository(db, historyLimit)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestDocumentRepository(t *testing.T) {
	testStoreContract(t, openTestRepository(t, 3))
}

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "weekwise.db"))
	if err != nil {
		t.Fatalf("NewDB() failed: %v", err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if err := Migrate(db); err != nil {
			t.Fatalf("Migrate() run %d failed: %v", i+1, err)
		}
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("schema_migrations has %d rows, want 2", n)
	}
}

func TestDocumentRepositoryHistory(t *testing.T) {
	repo := openTestRepository(t, 3)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		if err := repo.Save(ctx, DocumentSettings, []byte(fmt.Sprintf(`{"rev":%d}`, i))); err != nil {
			t.Fatalf("Save() %d failed: %v", i, err)
		}
	}

	history, err := repo.History(ctx, DocumentSettings)
	if err != nil {
		t.Fatalf("History() failed: %v", err)
	}
	// Five saves archive four revisions, pruned to the limit.
	if len(history) != 3 {
		t.Fatalf("History() returned %d revisions, want 3", len(history))
	}
	if history[0].ID <= history[1].ID || history[1].ID <= history[2].ID {
		t.Errorf("History() not newest first: %+v", history)
	}
	for _, rev := range history {
		if rev.ReplacedAt.IsZero() || rev.Size == 0 {
			t.Errorf("revision %+v lacks metadata", rev)
		}
	}

	other, err := repo.History(ctx, DocumentBookings)
	if err != nil {
		t.Fatalf("History() failed: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("bookings history = %+v, want empty", other)
	}

	data, err := repo.Load(ctx, DocumentSettings)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if string(data) != "{\n    \"rev\": 5\n}\n" {
		t.Errorf("Load() = %q, want the latest revision", data)
	}
}

func TestDocumentRepositoryWithoutHistory(t *testing.T) {
	repo := openTestRepository(t, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.Save(ctx, DocumentBookings, []byte(`[]`)); err != nil {
			t.Fatalf("Save() failed: %v", err)
		}
	}
	history, err := repo.History(ctx, DocumentBookings)
	if err != nil {
		t.Fatalf("History() failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("History() = %+v, want none with history disabled", history)
	}
	if _, err := repo.History(ctx, Document("users")); !errors.Is(err, ErrUnknownDocument) {
		t.Errorf("History() error = %v, want ErrUnknownDocument", err)
	}
}
