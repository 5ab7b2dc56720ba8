// Package session holds the operator's authentication token for the console.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/garyjia/erp-admin-console/internal/application/port"
)

// Local storage keys owned by the session
const (
	TokenKey      = "authToken"
	SignedInAtKey = "authSignedInAt"
)

// ErrEmptyToken is returned by Login for a blank token
var ErrEmptyToken = errors.New("empty session token")

// LoginRoute is where unauthenticated operators are sent
const LoginRoute = "/login"

// Session is the single owner of the auth token. Call Init once at startup.
type Session struct {
	store      port.LocalStorage
	tx         port.TransactionManager
	now        func() time.Time
	mu         sync.RWMutex
	token      string
	signedInAt time.Time
	onClear    []func(ctx context.Context)
}

// Option configures a Session
type Option func(*Session)

// WithClock sets the clock used for token expiry
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithTransactions makes token writes atomic through tm
func WithTransactions(tm port.TransactionManager) Option {
	return func(s *Session) {
		s.tx = tm
	}
}

// OnClear registers fn to run after the session is cleared
func OnClear(fn func(ctx context.Context)) Option {
	return func(s *Session) {
		s.onClear = append(s.onClear, fn)
	}
}

// New creates a Session backed by store
func New(store port.LocalStorage, opts ...Option) *Session {
	s := &Session{
		store: store,
		tx:    direct{},
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init loads a previously persisted token
func (s *Session) Init(ctx context.Context) error {
	token, ok, err := s.store.Get(ctx, TokenKey)
	if err != nil {
		return fmt.Errorf("failed to load session token: %w", err)
	}
	var signedInAt time.Time
	if ok {
		raw, found, err := s.store.Get(ctx, SignedInAtKey)
		if err != nil {
			return fmt.Errorf("failed to load sign-in time: %w", err)
		}
		if found {
			signedInAt, _ = time.Parse(time.RFC3339, raw)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.signedInAt = signedInAt
	return nil
}

// Login persists token and makes it current
func (s *Session) Login(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	at := s.now().UTC()
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.Set(ctx, TokenKey, token); err != nil {
			return err
		}
		return s.store.Set(ctx, SignedInAtKey, at.Format(time.RFC3339))
	})
	if err != nil {
		return fmt.Errorf("failed to persist session token: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.signedInAt = at
	s.mu.Unlock()
	return nil
}

// Token returns the current token, empty when logged out
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SignedInAt returns when the current token was stored, false when unknown
func (s *Session) SignedInAt() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || s.signedInAt.IsZero() {
		return time.Time{}, false
	}
	return s.signedInAt, true
}

// Authenticated reports whether a token is present and not past its exp claim
func (s *Session) Authenticated() bool {
	token := s.Token()
	if token == "" {
		return false
	}
	exp, ok := ExpiresAt(token)
	return !ok || s.now().Before(exp)
}

// Clear removes the token from memory and storage, then runs the OnClear hooks
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.signedInAt = time.Time{}
	s.mu.Unlock()

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.Delete(ctx, TokenKey); err != nil {
			return err
		}
		return s.store.Delete(ctx, SignedInAtKey)
	})
	for _, fn := range s.onClear {
		fn(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to delete session token: %w", err)
	}
	return nil
}

// ExpiresAt reads the exp claim of a JWT without verifying its signature.
// Opaque tokens and JWTs without exp report false.
func ExpiresAt(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// direct runs fn without a transaction
type direct struct{}

func (direct) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
