// Package session owns the authenticated-user lifecycle: login, registration,
// logout, profile refresh and the derived authentication status consumed by
// the rest of the client.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/Enterzhang/novels2.0/internal/errs"
	"github.com/Enterzhang/novels2.0/internal/model"
	"github.com/Enterzhang/novels2.0/internal/store"
)

// State of the session lifecycle.
type State int

const (
	StateUnauthenticated State = iota
	StateLoading
	StateAuthenticated
	StateError
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateError:
		return "error"
	}
	return "unknown"
}

// UserAPI is the slice of the pipeline the manager depends on.
type UserAPI interface {
	Login(ctx context.Context, username, password string) (*model.Credentials, error)
	Register(ctx context.Context, reg model.Registration) (*model.User, error)
	Profile(ctx context.Context) (*model.User, error)
	UpdateProfile(ctx context.Context, upd model.ProfileUpdate) (*model.User, error)
}

// Manager is the session state machine. All mutation goes through its
// operations; nothing else writes the session keys of the store.
type Manager struct {
	api   UserAPI
	store store.Store
	log   *zap.Logger

	mu      sync.Mutex
	state   State
	user    *model.User
	lastErr string
}

// New builds a manager and bootstraps it from the cached snapshot: a stored
// user is good enough for immediate use, fresh data arrives on the next
// RefreshUserInfo.
func New(api UserAPI, st store.Store, log *zap.Logger) *Manager {
	m := &Manager{api: api, store: st, log: log, state: StateUnauthenticated}

	var u model.User
	ok, err := st.Load(store.KeyUser, &u)
	if err != nil {
		log.Warn("load cached user", zap.Error(err))
	}
	if ok {
		m.user = &u
		m.state = StateAuthenticated
	}
	return m
}

// Login authenticates and, on success, persists token and snapshot together
// before becoming Authenticated. A payload missing either half is a failure
// and writes nothing. Failures are re-raised to the caller for presentation.
func (m *Manager) Login(ctx context.Context, username, password string) (*model.User, error) {
	m.setLoading()

	creds, err := m.api.Login(ctx, username, password)
	if err != nil {
		m.setError(err)
		return nil, err
	}
	if creds.AccessToken == "" || creds.User == nil {
		err := fmt.Errorf("%w: login response missing token or user", errs.ErrUnavailable)
		m.setError(err)
		return nil, err
	}
	if err := m.persist(creds.AccessToken, creds.User); err != nil {
		m.setError(err)
		return nil, err
	}

	m.mu.Lock()
	m.user = creds.User
	m.state = StateAuthenticated
	m.lastErr = ""
	m.mu.Unlock()

	m.log.Info("login", zap.String("username", username))
	return creds.User, nil
}

// persist writes both session keys; a failed second write rolls back the
// first so the store never holds a token without a snapshot or vice versa.
func (m *Manager) persist(token string, u *model.User) error {
	if err := m.store.Save(store.KeyToken, token); err != nil {
		return err
	}
	if err := m.store.Save(store.KeyUser, u); err != nil {
		_ = m.store.Delete(store.KeyToken)
		return err
	}
	return nil
}

// Register creates an account. No session side effects: callers that chain
// an immediate Login must treat a failed login as a login failure, not a
// registration failure.
func (m *Manager) Register(ctx context.Context, reg model.Registration) (*model.User, error) {
	u, err := m.api.Register(ctx, reg)
	if err != nil {
		m.log.Warn("register", zap.String("username", reg.Username), zap.Error(err))
		return nil, err
	}
	m.log.Info("register", zap.String("username", reg.Username))
	return u, nil
}

// RefreshUserInfo refetches the profile and overwrites the cached snapshot.
// Without a stored token it returns nil immediately and never touches the
// network: issuing the call would only trip the pipeline's expiry teardown
// on a client that is already signed out. On failure the stale snapshot is
// kept; stale-but-present beats erased.
func (m *Manager) RefreshUserInfo(ctx context.Context) *model.User {
	var tok string
	ok, err := m.store.Load(store.KeyToken, &tok)
	if err != nil || !ok || tok == "" {
		return nil
	}

	u, err := m.api.Profile(ctx)
	if err != nil {
		m.log.Warn("refresh profile", zap.Error(err))
		return nil
	}
	if err := m.store.Save(store.KeyUser, u); err != nil {
		m.log.Warn("cache profile", zap.Error(err))
	}

	m.mu.Lock()
	m.user = u
	m.state = StateAuthenticated
	m.mu.Unlock()
	return u
}

// UpdateUserInfo submits a profile mutation and replaces the snapshot with
// the server's canonical record, never a client-side merge.
func (m *Manager) UpdateUserInfo(ctx context.Context, upd model.ProfileUpdate) (*model.User, error) {
	u, err := m.api.UpdateProfile(ctx, upd)
	if err != nil {
		m.mu.Lock()
		m.lastErr = err.Error()
		m.mu.Unlock()
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: update response missing user", errs.ErrUnavailable)
	}
	if err := m.store.Save(store.KeyUser, u); err != nil {
		m.log.Warn("cache profile", zap.Error(err))
	}

	m.mu.Lock()
	m.user = u
	m.mu.Unlock()
	return u, nil
}

// Logout is synchronous and local-only; it cannot fail and never calls the
// network.
func (m *Manager) Logout() {
	if err := m.store.Delete(store.KeyToken); err != nil {
		m.log.Warn("delete token", zap.Error(err))
	}
	if err := m.store.Delete(store.KeyUser); err != nil {
		m.log.Warn("delete user", zap.Error(err))
	}

	m.mu.Lock()
	m.user = nil
	m.state = StateUnauthenticated
	m.lastErr = ""
	m.mu.Unlock()

	m.log.Info("logout")
}

// Invalidate drops the in-memory session after the pipeline evicted a
// rejected credential. The store is already clean at that point.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	m.user = nil
	m.state = StateUnauthenticated
	m.mu.Unlock()
}

// IsAuthenticated reports whether a user snapshot is present. It flips
// exactly on login, logout and credential eviction.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil
}

// User returns a copy of the cached snapshot, or nil when signed out.
func (m *Manager) User() *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Err returns the last human-readable failure message, empty outside the
// error state.
func (m *Manager) Err() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// TokenExpiry reads the exp claim of the stored token without validating the
// signature. Display only; the server stays the authority on validity.
func (m *Manager) TokenExpiry() (time.Time, bool) {
	var tok string
	ok, err := m.store.Load(store.KeyToken, &tok)
	if err != nil || !ok || tok == "" {
		return time.Time{}, false
	}

	var claims jwt.RegisteredClaims
	_, _ = jwt.ParseWithClaims(tok, &claims, func(*jwt.Token) (any, error) { return nil, nil },
		jwt.WithoutClaimsValidation(),
	)
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

func (m *Manager) setLoading() {
	m.mu.Lock()
	m.state = StateLoading
	m.lastErr = ""
	m.mu.Unlock()
}

func (m *Manager) setError(err error) {
	m.mu.Lock()
	m.state = StateError
	m.lastErr = err.Error()
	m.mu.Unlock()
}
