package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/desertthunder/cine/internal/models"
	"github.com/desertthunder/cine/internal/shared"
	tu "github.com/desertthunder/cine/internal/testing"
)

// memoryRepo is an in-memory TokenRepository for store tests.
type memoryRepo struct {
	mu      sync.Mutex
	token   string
	saveErr error
	loadErr error
}

func (r *memoryRepo) Save(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.token = token
	return nil
}

func (r *memoryRepo) Load() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.token, r.loadErr
}

func (r *memoryRepo) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token = ""
	return nil
}

func (r *memoryRepo) stored() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.token
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Init", func(t *testing.T) {
		t.Run("no persisted token is not an error", func(t *testing.T) {
			store := NewStore(&tu.MockAccount{}, &memoryRepo{}, nil)

			if err := store.Init(ctx); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if store.Current().Authenticated() {
				t.Error("expected anonymous session")
			}
		})

		t.Run("persisted token rehydrates the profile", func(t *testing.T) {
			account := &tu.MockAccount{
				ProfileFn: func(ctx context.Context, token string) (*models.User, error) {
					if token != "tok-1" {
						t.Errorf("expected rehydration with stored token, got %q", token)
					}
					return &models.User{ID: "u1", Email: "user@example.com", DisplayName: "User"}, nil
				},
			}
			store := NewStore(account, &memoryRepo{token: "tok-1"}, nil)

			if err := store.Init(ctx); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			session := store.Current()
			if session.Token != "tok-1" {
				t.Errorf("expected token to be installed, got %q", session.Token)
			}
			if session.User == nil || session.User.ID != "u1" {
				t.Errorf("expected rehydrated user, got %+v", session.User)
			}
		})

		t.Run("stale token fails closed", func(t *testing.T) {
			repo := &memoryRepo{token: "stale"}
			account := &tu.MockAccount{
				ProfileFn: func(ctx context.Context, token string) (*models.User, error) {
					return nil, shared.ErrUnauthorized
				},
			}
			store := NewStore(account, repo, nil)

			err := store.Init(ctx)
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
			if store.Current().Authenticated() {
				t.Error("expected session to be torn down")
			}
			if repo.stored() != "" {
				t.Error("expected persisted token to be cleared")
			}
		})
	})

	t.Run("Login", func(t *testing.T) {
		t.Run("persists token before rehydration", func(t *testing.T) {
			repo := &memoryRepo{}
			store := NewStore(&tu.MockAccount{}, repo, nil)

			if err := store.Login(ctx, "tok-9"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if repo.stored() != "tok-9" {
				t.Errorf("expected token persisted, got %q", repo.stored())
			}
			if !store.Current().Authenticated() {
				t.Error("expected authenticated session")
			}
		})

		t.Run("empty token rejected", func(t *testing.T) {
			store := NewStore(&tu.MockAccount{}, &memoryRepo{}, nil)

			if err := store.Login(ctx, ""); !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
		})

		t.Run("persistence failure aborts login", func(t *testing.T) {
			repo := &memoryRepo{saveErr: errors.New("disk full")}
			store := NewStore(&tu.MockAccount{}, repo, nil)

			if err := store.Login(ctx, "tok-9"); err == nil {
				t.Error("expected error when persistence fails")
			}
			if store.Current().Authenticated() {
				t.Error("expected session to stay anonymous")
			}
		})
	})

	t.Run("Logout", func(t *testing.T) {
		repo := &memoryRepo{}
		store := NewStore(&tu.MockAccount{}, repo, nil)

		if err := store.Login(ctx, "tok-1"); err != nil {
			t.Fatalf("login failed: %v", err)
		}

		store.Logout()

		if store.Current().Authenticated() {
			t.Error("expected anonymous session after logout")
		}
		if repo.stored() != "" {
			t.Error("expected persisted token to be cleared")
		}
	})

	t.Run("Logout During Rehydration Wins", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})

		account := &tu.MockAccount{
			ProfileFn: func(ctx context.Context, token string) (*models.User, error) {
				close(started)
				<-release
				return &models.User{ID: "u1", DisplayName: "Ghost", Email: "ghost@example.com"}, nil
			},
		}
		repo := &memoryRepo{}
		store := NewStore(account, repo, nil)

		done := make(chan error, 1)
		go func() {
			done <- store.Login(ctx, "tok-1")
		}()

		<-started
		store.Logout()
		close(release)

		if err := <-done; err != nil {
			t.Fatalf("login returned error: %v", err)
		}

		session := store.Current()
		if session.Authenticated() || session.User != nil {
			t.Errorf("expected stale rehydration to be dropped, got %+v", session)
		}
	})
}
