package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AlexZinkM/multi-wallet/internal/model"

	"go.uber.org/zap"
)

// Action is a state transition on the session store
type Action interface {
	apply(s *model.AuthSession)
}

// LoginSuccess records an authenticated provider and address
type LoginSuccess struct {
	Provider      string
	Address       string
	Username      string
	ProfilePicURL string
}

func (a LoginSuccess) apply(s *model.AuthSession) {
	// a different address means a different account: drop its cached profile
	if s.Address != a.Address {
		s.Username = ""
		s.ProfilePicURL = ""
	}
	s.Provider = a.Provider
	s.Address = a.Address
	s.IsLoggedIn = true
	if a.Username != "" {
		s.Username = a.Username
	}
	if a.ProfilePicURL != "" {
		s.ProfilePicURL = a.ProfilePicURL
	}
}

// LogoutSuccess clears the session
type LogoutSuccess struct{}

func (LogoutSuccess) apply(s *model.AuthSession) {
	*s = model.AuthSession{}
}

// ProfileFetched fills the cached profile for Address.
// It is ignored when the session moved to another address meanwhile.
type ProfileFetched struct {
	Address       string
	Username      string
	ProfilePicURL string
}

func (a ProfileFetched) apply(s *model.AuthSession) {
	if s.Address != a.Address {
		return
	}
	s.Username = a.Username
	s.ProfilePicURL = a.ProfilePicURL
}

// Persister saves the session across process restarts
type Persister interface {
	Load(ctx context.Context) (*model.AuthSession, error)
	Save(ctx context.Context, s model.AuthSession) error
	Clear(ctx context.Context) error
}

// Store is the process-wide session state. All writes go through Dispatch.
type Store struct {
	// persistMu is held from apply through Save/Clear so writes land in dispatch order
	persistMu sync.Mutex
	mu        sync.RWMutex
	state     model.AuthSession
	persister Persister
	logger    *zap.Logger
	now       func() time.Time
}

// NewStore creates a store; persister may be nil for memory-only sessions
func NewStore(persister Persister, logger *zap.Logger) *Store {
	return &Store{
		persister: persister,
		logger:    logger.Named("session"),
		now:       time.Now,
	}
}

// Restore loads the persisted session. A missing session is not an error.
func (s *Store) Restore(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	loaded, err := s.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	if loaded == nil {
		return nil
	}

	s.mu.Lock()
	s.state = *loaded
	s.mu.Unlock()

	s.logger.Info("session restored",
		zap.String("provider", loaded.Provider),
		zap.String("address", loaded.Address),
		zap.Bool("logged_in", loaded.IsLoggedIn))
	return nil
}

// State returns a copy of the current session
func (s *Store) State() model.AuthSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies an action and persists the result.
// Persistence failures are logged; the in-memory state stays authoritative.
func (s *Store) Dispatch(ctx context.Context, action Action) model.AuthSession {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	action.apply(&s.state)
	if s.state.IsLoggedIn {
		s.state.UpdatedAt = s.now()
	}
	next := s.state
	s.mu.Unlock()

	if s.persister == nil {
		return next
	}

	var err error
	if next.IsLoggedIn {
		err = s.persister.Save(ctx, next)
	} else {
		err = s.persister.Clear(ctx)
	}
	if err != nil {
		s.logger.Error("failed to persist session", zap.String("action", fmt.Sprintf("%T", action)), zap.Error(err))
	}
	return next
}
