package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/kaanoon/internal/client/models"
	"github.com/dmitrijs2005/kaanoon/internal/logging"
)

// State is a snapshot of the session. Authenticated is true exactly when
// User is set. While Resolving is true nothing else is meaningful yet.
type State struct {
	User          *models.UserProfile
	Authenticated bool
	Resolving     bool
}

// Session is the single per-process session context. It is created once by
// the App and handed to whatever needs it.
type Session struct {
	tokens   TokenStore
	resolver *Resolver
	logger   logging.Logger

	mu    sync.RWMutex
	state State

	// notifyMu serialises state changes together with observer calls, so
	// observers see transitions in order.
	notifyMu  sync.Mutex
	observers map[int]func(State)
	nextID    int

	initOnce  sync.Once
	initErr   error
	loggingIn atomic.Bool
}

func New(tokens TokenStore, resolver *Resolver, logger logging.Logger) *Session {
	return &Session{
		tokens:    tokens,
		resolver:  resolver,
		logger:    logger.With("component", "session"),
		state:     State{Resolving: true},
		observers: make(map[int]func(State)),
	}
}

// State returns the current snapshot.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn to be called with every new state. Observers run
// one at a time and must not start Session transitions themselves. The
// returned func removes the observer.
func (s *Session) Subscribe(fn func(State)) (unsubscribe func()) {
	s.notifyMu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.notifyMu.Unlock()

	return func() {
		s.notifyMu.Lock()
		delete(s.observers, id)
		s.notifyMu.Unlock()
	}
}

func (s *Session) setUser(user *models.UserProfile, resolving bool) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.state = State{User: user, Authenticated: user != nil, Resolving: resolving}
	st := s.state
	s.mu.Unlock()

	for _, fn := range s.observers {
		fn(st)
	}
}

// Initialize resolves the stored credential. Only the first call does any
// work; later and concurrent calls wait for it and return its result.
// Resolving is false afterwards whatever the outcome.
func (s *Session) Initialize(ctx context.Context) error {
	s.initOnce.Do(func() {
		user, err := s.resolver.Resolve(ctx)
		if err != nil {
			s.initErr = err
			s.logger.Info(ctx, "session not restored", "error", err)
		} else if user != nil {
			s.logger.Info(ctx, "session restored", "email", user.Email)
		}
		s.setUser(user, false)
	})
	return s.initErr
}

// Login stores token and re-resolves the profile. A credential that does
// not yield a profile is discarded and the session stays signed out.
func (s *Session) Login(ctx context.Context, token string) (NavigationIntent, error) {
	if !s.loggingIn.CompareAndSwap(false, true) {
		return Go(NavigateNone), ErrBusy
	}
	defer s.loggingIn.Store(false)

	if token == "" {
		return Go(NavigateNone), fmt.Errorf("%w: empty credential", ErrLoginFailed)
	}

	if err := s.tokens.Save(ctx, token); err != nil {
		return Go(NavigateNone), fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}

	user, err := s.resolver.Resolve(ctx)
	if err == nil && user == nil {
		err = errors.New("credential was not stored")
	}
	if err != nil {
		if cerr := s.tokens.Clear(ctx); cerr != nil {
			s.logger.Error(ctx, "failed to clear credential", "error", cerr)
		}
		s.setUser(nil, false)
		s.logger.Warn(ctx, "login failed", "error", err)
		return Go(NavigateNone), fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}

	s.setUser(user, false)
	s.logger.Info(ctx, "signed in", "email", user.Email)
	return Go(NavigateDashboard), nil
}

// Logout forgets the credential and the user.
func (s *Session) Logout(ctx context.Context) NavigationIntent {
	if err := s.tokens.Clear(ctx); err != nil {
		s.logger.Error(ctx, "failed to clear credential", "error", err)
	}
	s.setUser(nil, s.State().Resolving)
	s.logger.Info(ctx, "signed out")
	return Go(NavigateHome)
}
