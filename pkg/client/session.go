package client

import (
	"errors"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired is returned when a session is built from a token whose
// expiry has already passed.
var ErrTokenExpired = errors.New("token expired")

// SessionState is the persistable part of a session: the raw token plus
// the claims the client needs without re-decoding it.
type SessionState struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the state's token lifetime has passed.
func (s SessionState) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Store persists session state between client runs, the way a browser
// keeps a token in local storage.
type Store interface {
	Save(state SessionState) error
	Load() (SessionState, bool, error)
	Clear() error
}

// Session holds a live identity token and an auto-logout timer scheduled
// from the token's embedded expiry. Close cancels the timer, so the
// expiry callback never outlives the session.
type Session struct {
	mu       sync.Mutex
	state    SessionState
	timer    *time.Timer
	onExpire func()
	active   bool
}

// tokenClaims mirrors the server's identity token payload.
type tokenClaims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// NewSession decodes the token (without verifying the signature; the
// server did that) and schedules the auto-logout timer. onExpire runs
// once when the token lifetime passes, unless the session is closed
// first.
func NewSession(token string, onExpire func()) (*Session, error) {
	state, err := stateFromToken(token)
	if err != nil {
		return nil, err
	}
	if state.Expired() {
		return nil, ErrTokenExpired
	}

	s := &Session{state: state, onExpire: onExpire, active: true}
	s.timer = time.AfterFunc(time.Until(state.ExpiresAt), s.expire)
	return s, nil
}

// Token returns the raw token and whether the session is still live.
func (s *Session) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || s.state.Expired() {
		return "", false
	}
	return s.state.Token, true
}

// State returns a copy of the session state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close deactivates the session and cancels the auto-logout timer
// without invoking the expiry callback.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	if s.timer != nil {
		s.timer.Stop()
	}
}

func (s *Session) expire() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	cb := s.onExpire
	s.mu.Unlock()

	if cb != nil {
		cb()
	}
}

func stateFromToken(token string) (SessionState, error) {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return SessionState{}, err
	}

	state := SessionState{
		Token:  token,
		UserID: claims.UserID,
		Name:   claims.Name,
		Role:   claims.Role,
	}
	if claims.ExpiresAt != nil {
		state.ExpiresAt = claims.ExpiresAt.Time
	}
	return state, nil
}
