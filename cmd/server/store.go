package main

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/HndrkDrs/WeekWise/internal/config"
	"github.com/HndrkDrs/WeekWise/internal/storage"
)

const databaseFile = "weekwise.db"

// openStore opens the configured backend. The returned func releases it.
func openStore(cfg *config.Config) (storage.Store, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		db, err := storage.NewDB(filepath.Join(cfg.DataDir, databaseFile))
		if err != nil {
			return nil, nil, err
		}
		if err := storage.Migrate(db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		log.Println("Database migrations complete")
		repo := storage.NewDocumentRepository(db, cfg.HistoryLimit())
		return repo, func() { repo.Close() }, nil

	default:
		fs, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	}
}
