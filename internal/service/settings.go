package service

import (
	"context"
	"log"
	"time"

	"github.com/HndrkDrs/WeekWise/internal/auth"
	"github.com/HndrkDrs/WeekWise/internal/planner"
	"github.com/HndrkDrs/WeekWise/internal/storage/models"
)

// UpdateSettings saves new settings through the mode and start-date state
// machine. Bookings are saved too when the transition moved or stripped any.
func (p *Planner) UpdateSettings(ctx context.Context, next *models.Settings, opts planner.TransitionOptions) (planner.Transition, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, err := planner.ApplySettings(p.settings, next, p.bookings, opts, p.now())
	if err != nil {
		return planner.Transition{}, err
	}

	if t.BookingsChanged {
		err = p.commitBoth(ctx, t.Settings, t.Bookings)
	} else {
		err = p.commitSettings(ctx, t.Settings)
	}
	if err != nil {
		return planner.Transition{}, err
	}
	if t.Moved > 0 {
		log.Printf("Settings change moved %d bookings", t.Moved)
	}
	return t, nil
}

// RotateToken issues a new subscription token. Every earlier token stops
// working immediately.
func (p *Planner) RotateToken(ctx context.Context) (models.ICSToken, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := planner.CloneSettings(p.settings)
	tok := planner.RotateToken(next, p.now())
	if err := p.commitSettings(ctx, next); err != nil {
		return models.ICSToken{}, err
	}
	log.Printf("Issued new subscription token (%d total)", len(next.ICSTokens))
	return tok, nil
}

// Login checks the admin password and issues a session token.
func (p *Planner) Login(password string) (string, time.Time, error) {
	p.mu.RLock()
	stored := p.settings.LoginHash
	p.mu.RUnlock()

	if err := auth.CheckPassword(stored, password); err != nil {
		return "", time.Time{}, err
	}
	return p.sessions.Issue(stored)
}

// Authenticate verifies a session token against the current password.
func (p *Planner) Authenticate(token string) error {
	p.mu.RLock()
	stored := p.settings.LoginHash
	p.mu.RUnlock()

	if !auth.Configured(stored) {
		return auth.ErrInvalidSession
	}
	return p.sessions.Verify(token, stored)
}

// Configured reports whether an admin password has been set.
func (p *Planner) Configured() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return auth.Configured(p.settings.LoginHash)
}

// ChangePassword replaces the admin password after checking the current
// one. Existing sessions are revoked with the old hash.
func (p *Planner) ChangePassword(ctx context.Context, current, next string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := auth.CheckPassword(p.settings.LoginHash, current); err != nil {
		return err
	}
	return p.setPassword(ctx, next)
}

// SetPassword replaces the admin password without checking the old one.
// It backs the offline set-password command.
func (p *Planner) SetPassword(ctx context.Context, password string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.setPassword(ctx, password)
}

func (p *Planner) setPassword(ctx context.Context, password string) error {
	h, err := auth.HashNewPassword(password)
	if err != nil {
		return err
	}
	next := planner.CloneSettings(p.settings)
	next.LoginHash = h
	return p.commitSettings(ctx, next)
}
