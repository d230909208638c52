package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/HndrkDrs/WeekWise/internal/ics"
	"github.com/HndrkDrs/WeekWise/internal/planner"
	"github.com/HndrkDrs/WeekWise/internal/storage"
)

// LoadDocument returns a stored document as the API exposes it: the empty
// value when it does not exist and settings without loginhash. The token
// history is only included for admins.
func (p *Planner) LoadDocument(ctx context.Context, doc storage.Document, admin bool) ([]byte, error) {
	raw, err := p.store.Load(ctx, doc)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return doc.EmptyValue(), nil
	}
	if doc != storage.DocumentSettings {
		return raw, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrCorruptDocument, err)
	}
	if fields == nil {
		return raw, nil
	}
	delete(fields, "loginhash")
	if !admin {
		delete(fields, "icsTokens")
	}
	return json.Marshal(fields)
}

// SaveDocument replaces a whole document. The payload is normalized the same
// way stored documents are on load. Settings go through the same state
// machine as UpdateSettings, with opts carrying the caller's decisions. The
// login hash and the token history cannot be changed this way.
func (p *Planner) SaveDocument(ctx context.Context, doc storage.Document, data []byte, opts planner.TransitionOptions) error {
	if !json.Valid(data) {
		return storage.ErrCorruptDocument
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	switch doc {
	case storage.DocumentBookings:
		bookings, m, err := planner.LoadBookings(data)
		if err != nil {
			return fmt.Errorf("%w: %v", planner.ErrInvalidBooking, err)
		}
		if len(m.Rejected) > 0 {
			return fmt.Errorf("%w: %d bookings have an unknown day", planner.ErrInvalidBooking, len(m.Rejected))
		}
		return p.commitBookings(ctx, bookings)

	case storage.DocumentSettings:
		s, err := planner.LoadSettings(data, p.settings.LoginHash)
		if err != nil {
			return fmt.Errorf("%w: %v", storage.ErrCorruptDocument, err)
		}
		t, err := planner.ApplySettings(p.settings, s, p.bookings, opts, p.now())
		if err != nil {
			return err
		}
		if !t.BookingsChanged {
			return p.commitSettings(ctx, t.Settings)
		}
		if err := p.commitBoth(ctx, t.Settings, t.Bookings); err != nil {
			return err
		}
		if t.Moved > 0 {
			log.Printf("Settings document moved %d bookings", t.Moved)
		}
		return nil

	default:
		return storage.ErrUnknownDocument
	}
}

// Feed renders the calendar feed from the stored documents. Missing or
// unreadable documents yield the error calendar.
func (p *Planner) Feed(ctx context.Context, q ics.Query, opts ics.Options) ics.Feed {
	s, err := p.readSettings(ctx)
	if err == nil && s == nil {
		err = fmt.Errorf("settings document is missing")
	}
	if err != nil {
		log.Printf("Error serving calendar feed: %v", err)
		return ics.ErrorFeed()
	}

	raw, err := p.store.Load(ctx, storage.DocumentBookings)
	if err != nil || raw == nil {
		if err == nil {
			err = fmt.Errorf("bookings document is missing")
		}
		log.Printf("Error serving calendar feed: %v", err)
		return ics.ErrorFeed()
	}
	bookings, _, err := planner.ReadBookings(raw)
	if err != nil {
		log.Printf("Error serving calendar feed: %v", err)
		return ics.ErrorFeed()
	}

	if opts.Now.IsZero() {
		opts.Now = p.now()
	}
	return ics.Generate(s, bookings, q, opts)
}

