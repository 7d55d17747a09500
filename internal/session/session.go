// package session owns the single authenticated session for the process.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cine/internal/models"
	"github.com/desertthunder/cine/internal/services"
	"github.com/desertthunder/cine/internal/shared"
)

// TokenRepository abstracts the durable token slot.
//
// Contract: at most one token stored at a time, read once at startup,
// written on login, cleared on logout or invalidation.
type TokenRepository interface {
	Save(token string) error
	Load() (string, error)
	Clear() error
}

// Store is the sole owner and mutator of the process Session.
//
// Construct one per process and pass it down explicitly; readers receive
// session values by copy and must treat the token as immutable per call.
type Store struct {
	mu      sync.Mutex
	session models.Session
	account services.Account
	repo    TokenRepository
	logger  *log.Logger
}

// NewStore creates a Store with the given account API and token persistence.
func NewStore(account services.Account, repo TokenRepository, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{
		account: account,
		repo:    repo,
		logger:  logger,
	}
}

// Init restores a persisted session at startup.
//
// When a token is found, the profile is rehydrated; any rehydration failure
// tears the session down (fail closed) so a stale token never survives as a
// half-logged-in state. A missing token is not an error.
func (s *Store) Init(ctx context.Context) error {
	token, err := s.repo.Load()
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	if token == "" {
		return nil
	}

	s.mu.Lock()
	s.session = models.Session{Token: token}
	s.mu.Unlock()

	return s.rehydrate(ctx, token)
}

// Login installs a new bearer token, replacing any prior session, and
// rehydrates the profile behind it.
//
// The token is persisted before rehydration so a crash mid-rehydration
// resolves itself on next startup (Init repeats the fetch and fails closed
// if the token went stale).
func (s *Store) Login(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("%w: empty token", shared.ErrAuthFailed)
	}

	if err := s.repo.Save(token); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.mu.Lock()
	s.session = models.Session{Token: token}
	s.mu.Unlock()

	return s.rehydrate(ctx, token)
}

// Logout clears the persisted token and the in-memory session synchronously.
//
// Never fails: persistence errors are logged and the in-memory state is
// cleared regardless.
func (s *Store) Logout() {
	s.mu.Lock()
	s.session = models.Session{}
	s.mu.Unlock()

	if err := s.repo.Clear(); err != nil {
		s.logger.Warnf("failed to clear persisted token: %v", err)
	}
}

// Current returns a copy of the live session.
func (s *Store) Current() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// rehydrate fetches the profile for token and commits it only if token is
// still the current session token.
//
// The identity check is the fence that lets a concurrent Logout (or a
// replacing Login) win: a stale rehydration result is dropped instead of
// resurrecting a dead session.
func (s *Store) rehydrate(ctx context.Context, token string) error {
	user, err := s.account.Profile(ctx, token)

	s.mu.Lock()
	if s.session.Token != token {
		s.mu.Unlock()
		s.logger.Debug("session changed during rehydration, dropping result")
		return nil
	}

	if err != nil {
		s.session = models.Session{}
		s.mu.Unlock()
		if clearErr := s.repo.Clear(); clearErr != nil {
			s.logger.Warnf("failed to clear persisted token: %v", clearErr)
		}
		return fmt.Errorf("%w: profile rehydration: %v", shared.ErrAuthFailed, err)
	}

	s.session.User = user
	s.mu.Unlock()
	return nil
}
