// Package session owns the client's authentication lifecycle: a small
// state machine over {uninitialized, loading, authenticated,
// unauthenticated} plus the single writer of the durable session store.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/badalot/crm-banking-insurance/internal/domain/model"
	"github.com/badalot/crm-banking-insurance/internal/repo/apihttp"
	"github.com/badalot/crm-banking-insurance/internal/repo/storage"
)

type State string

const (
	StateUninitialized   State = "uninitialized"
	StateLoading         State = "loading"
	StateAuthenticated   State = "authenticated"
	StateUnauthenticated State = "unauthenticated"
)

var (
	ErrLoginInProgress = errors.New("another login attempt is in progress")
	ErrSuperseded      = errors.New("superseded by logout")
)

// AuthAPI is the slice of the backend the manager needs. apihttp.AuthRepo
// implements it.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (model.Session, error)
	Me(ctx context.Context) (model.User, error)
}

// Snapshot is what subscribers and pages see. User is nil unless the state
// is authenticated; the pointed-to value must be treated as read-only.
type Snapshot struct {
	State State
	User  *model.User
}

type Manager struct {
	store storage.Store
	api   AuthAPI
	log   *zap.Logger

	mu         sync.Mutex
	state      State
	session    model.Session
	generation uint64
	subs       map[int]func(Snapshot)
	nextSubID  int
	now        func() time.Time
}

func NewManager(store storage.Store, api AuthAPI, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		store: store,
		api:   api,
		log:   log,
		state: StateUninitialized,
		subs:  make(map[int]func(Snapshot)),
		now:   time.Now,
	}
}

// Init rehydrates the session from durable storage and re-validates it
// against the backend. A network failure keeps the stored session so work
// can continue offline; a rejected token clears it. Calling Init more than
// once is a no-op.
func (m *Manager) Init(ctx context.Context) {
	m.mu.Lock()
	if m.state != StateUninitialized {
		m.mu.Unlock()
		return
	}
	m.state = StateLoading
	gen := m.generation
	m.mu.Unlock()
	m.notify()

	stored, ok, err := m.store.Load(ctx)
	if err != nil {
		m.log.Warn("session store unavailable", zap.Error(err))
	}
	if err != nil || !ok {
		m.settle(gen, StateUnauthenticated, model.Session{})
		return
	}

	if expired := tokenExpired(stored.Token, m.now().UTC()); expired {
		m.log.Debug("stored token already expired, skipping revalidation")
		if clearErr := m.store.Clear(ctx); clearErr != nil {
			m.log.Warn("clear expired session", zap.Error(clearErr))
		}
		m.settle(gen, StateUnauthenticated, model.Session{})
		return
	}

	// Expose the candidate token so the /auth/me round-trip can carry it.
	m.mu.Lock()
	if m.generation != gen {
		m.mu.Unlock()
		return
	}
	m.session = stored
	m.mu.Unlock()

	user, err := m.api.Me(ctx)
	switch {
	case err == nil:
		refreshed := model.Session{Token: stored.Token, User: user}
		if !m.settle(gen, StateAuthenticated, refreshed) {
			return
		}
		if saveErr := m.store.Save(ctx, refreshed); saveErr != nil {
			m.log.Warn("persist refreshed session", zap.Error(saveErr))
		}
	case apihttp.IsKind(err, apihttp.KindNetwork):
		m.log.Warn("revalidation unreachable, continuing with stored session", zap.Error(err))
		m.settle(gen, StateAuthenticated, stored)
	default:
		// 401 lands here after the invalidation hook has already bumped
		// the generation; the explicit clear covers the remaining paths.
		m.log.Info("stored session rejected", zap.Error(err))
		if m.settle(gen, StateUnauthenticated, model.Session{}) {
			if clearErr := m.store.Clear(ctx); clearErr != nil {
				m.log.Warn("clear rejected session", zap.Error(clearErr))
			}
		}
	}
}

// Login drives unauthenticated -> loading -> authenticated (or back). The
// typed error from the HTTP boundary passes through so callers can branch
// on its kind.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.mu.Lock()
	if m.state == StateLoading {
		m.mu.Unlock()
		return ErrLoginInProgress
	}
	m.state = StateLoading
	m.session = model.Session{}
	gen := m.generation
	m.mu.Unlock()
	m.notify()

	newSession, err := m.api.Login(ctx, email, password)
	if err != nil {
		m.settle(gen, StateUnauthenticated, model.Session{})
		return err
	}

	if !m.settle(gen, StateAuthenticated, newSession) {
		return ErrSuperseded
	}
	if saveErr := m.store.Save(ctx, newSession); saveErr != nil {
		m.log.Warn("persist session", zap.Error(saveErr))
	}
	m.log.Info("logged in", zap.String("user_id", newSession.User.ID))
	return nil
}

// Logout clears the store and forces unauthenticated. It is synchronous,
// idempotent and never blocked by the network; it also supersedes any
// rehydration or login still in flight.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.generation++
	m.session = model.Session{}
	changed := m.state != StateUnauthenticated
	m.state = StateUnauthenticated
	m.mu.Unlock()

	if err := m.store.Clear(context.Background()); err != nil {
		m.log.Warn("clear session store", zap.Error(err))
	}
	if changed {
		m.notify()
	}
}

// Invalidate is the forced logout wired to the HTTP client's 401/403 hook.
func (m *Manager) Invalidate() {
	m.Logout()
}

// Token implements apihttp.TokenSource.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Token
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CurrentUser returns a copy of the authenticated profile, or nil.
func (m *Manager) CurrentUser() *model.User {
	return m.Snapshot().User
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Subscribe registers an observer for state changes and returns its
// unsubscribe function. Observers run on the goroutine that caused the
// transition and must not call back into the manager synchronously.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.mu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// settle applies a transition unless a logout has superseded it. Reports
// whether the transition took effect.
func (m *Manager) settle(gen uint64, state State, session model.Session) bool {
	m.mu.Lock()
	if m.generation != gen {
		m.mu.Unlock()
		return false
	}
	m.state = state
	m.session = session
	m.mu.Unlock()
	m.notify()
	return true
}

func (m *Manager) notify() {
	m.mu.Lock()
	snapshot := m.snapshotLocked()
	observers := make([]func(Snapshot), 0, len(m.subs))
	for _, fn := range m.subs {
		observers = append(observers, fn)
	}
	m.mu.Unlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}

func (m *Manager) snapshotLocked() Snapshot {
	snapshot := Snapshot{State: m.state}
	if m.state == StateAuthenticated && !m.session.IsZero() {
		user := m.session.User
		snapshot.User = &user
	}
	return snapshot
}
