package auth

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSession is returned for missing, expired or forged session tokens.
var ErrInvalidSession = errors.New("invalid session")

const sessionSubject = "admin"

// Sessions issues and verifies admin session tokens (HS256 JWTs). The
// signing key mixes in the current login hash, so changing the password
// revokes every outstanding session.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessions creates a session issuer.
func NewSessions(secret []byte, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Sessions{secret: secret, ttl: ttl, now: time.Now}
}

func (s *Sessions) key(loginHash int32) []byte {
	k := make([]byte, len(s.secret), len(s.secret)+4)
	copy(k, s.secret)
	return binary.BigEndian.AppendUint32(k, uint32(loginHash))
}

// Issue creates a session token bound to loginHash.
func (s *Sessions) Issue(loginHash int32) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   sessionSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key(loginHash))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing session: %w", err)
	}
	return token, exp, nil
}

// Verify checks a session token against the current login hash.
func (s *Sessions) Verify(token string, loginHash int32) error {
	if token == "" {
		return ErrInvalidSession
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.key(loginHash), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithSubject(sessionSubject),
		jwt.WithTimeFunc(s.now),
		jwt.WithLeeway(5*time.Second),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	return nil
}
