// Package service holds the application state and funnels every mutation
// through a named operation that performs one whole-document save and one
// change notification.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/HndrkDrs/WeekWise/internal/auth"
	"github.com/HndrkDrs/WeekWise/internal/planner"
	"github.com/HndrkDrs/WeekWise/internal/storage"
	"github.com/HndrkDrs/WeekWise/internal/storage/models"
)

// Notifier is told about every successful save.
type Notifier interface {
	BookingsChanged(count int)
	SettingsChanged(mode string)
}

type nopNotifier struct{}

func (nopNotifier) BookingsChanged(int)    {}
func (nopNotifier) SettingsChanged(string) {}

// Planner is the single owner of the in-memory settings and bookings.
// State only advances after the store accepted the write.
type Planner struct {
	store    storage.Store
	notify   Notifier
	sessions *auth.Sessions
	now      func() time.Time

	mu       sync.RWMutex
	settings *models.Settings
	bookings []models.Booking
}

// New creates a planner. Load must be called before use.
func New(store storage.Store, sessions *auth.Sessions, notify Notifier) *Planner {
	if notify == nil {
		notify = nopNotifier{}
	}
	return &Planner{
		store:    store,
		notify:   notify,
		sessions: sessions,
		now:      time.Now,
		settings: planner.DefaultSettings(auth.DefaultHash),
		bookings: []models.Booking{},
	}
}

// Load reads both documents. A missing settings document is initialized
// with defaults; legacy bookings are migrated and written back once.
// Corrupt documents are an error and are never replaced.
func (p *Planner) Load(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, err := p.readSettings(ctx)
	if err != nil {
		return err
	}
	if s == nil {
		s = planner.DefaultSettings(auth.DefaultHash)
		if err := p.saveSettings(ctx, s); err != nil {
			return err
		}
		log.Printf("Initialized settings with defaults")
	}
	p.settings = s

	raw, err := p.store.Load(ctx, storage.DocumentBookings)
	if err != nil {
		return fmt.Errorf("loading bookings: %w", err)
	}
	if raw == nil {
		p.bookings = []models.Booking{}
	} else {
		bookings, m, err := planner.LoadBookings(raw)
		if err != nil {
			return fmt.Errorf("loading bookings: %w: %v", storage.ErrCorruptDocument, err)
		}
		for _, rec := range m.Rejected {
			log.Printf("Skipping booking %q: day %v cannot be migrated", rec.Field("title"), rec["day"])
		}
		if m.Changed {
			if err := p.saveBookings(ctx, bookings); err != nil {
				return err
			}
			log.Printf("Migrated bookings document (%d bookings)", len(bookings))
		}
		p.bookings = bookings
	}

	if !auth.Configured(p.settings.LoginHash) {
		log.Printf("No admin password set; run the set-password command")
	}
	return nil
}

// readSettings returns nil when the document does not exist yet.
func (p *Planner) readSettings(ctx context.Context) (*models.Settings, error) {
	raw, err := p.store.Load(ctx, storage.DocumentSettings)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if raw == nil || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	s, err := planner.LoadSettings(raw, auth.DefaultHash)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w: %v", storage.ErrCorruptDocument, err)
	}
	return s, nil
}

func (p *Planner) saveSettings(ctx context.Context, s *models.Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := p.store.Save(ctx, storage.DocumentSettings, data); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

func (p *Planner) saveBookings(ctx context.Context, bookings []models.Booking) error {
	if bookings == nil {
		bookings = []models.Booking{}
	}
	data, err := json.Marshal(bookings)
	if err != nil {
		return fmt.Errorf("encoding bookings: %w", err)
	}
	if err := p.store.Save(ctx, storage.DocumentBookings, data); err != nil {
		return fmt.Errorf("saving bookings: %w", err)
	}
	return nil
}

// commitBookings saves next and, only on success, makes it current.
// Callers hold p.mu.
func (p *Planner) commitBookings(ctx context.Context, next []models.Booking) error {
	if err := p.saveBookings(ctx, next); err != nil {
		return err
	}
	p.bookings = next
	p.notify.BookingsChanged(len(next))
	return nil
}

// commitSettings is commitBookings for the settings document.
func (p *Planner) commitSettings(ctx context.Context, next *models.Settings) error {
	if err := p.saveSettings(ctx, next); err != nil {
		return err
	}
	p.settings = next
	p.notify.SettingsChanged(next.Mode)
	return nil
}

// commitBoth saves bookings then settings. If the settings write fails the
// previous bookings are written back so both documents stay consistent.
func (p *Planner) commitBoth(ctx context.Context, s *models.Settings, bookings []models.Booking) error {
	if err := p.saveBookings(ctx, bookings); err != nil {
		return err
	}
	if err := p.saveSettings(ctx, s); err != nil {
		if rbErr := p.saveBookings(ctx, p.bookings); rbErr != nil {
			log.Printf("Error restoring bookings after failed settings save: %v", rbErr)
		}
		return err
	}
	p.bookings = bookings
	p.settings = s
	p.notify.BookingsChanged(len(bookings))
	p.notify.SettingsChanged(s.Mode)
	return nil
}

// Settings returns a copy of the current settings.
func (p *Planner) Settings() *models.Settings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return planner.CloneSettings(p.settings)
}

// Bookings returns a copy of the current bookings.
func (p *Planner) Bookings() []models.Booking {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]models.Booking{}, p.bookings...)
}

// View builds the render model.
func (p *Planner) View(f planner.Filters, authenticated bool) planner.View {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return planner.BuildView(p.settings, p.bookings, f, authenticated)
}

// Mode returns the current schedule mode.
func (p *Planner) Mode() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings.Mode
}

// Check verifies the store is readable.
func (p *Planner) Check(ctx context.Context) error {
	_, err := p.store.Load(ctx, storage.DocumentSettings)
	return err
}
