// package services defines typed clients for the streaming backend HTTP API
package services

import (
	"context"

	"github.com/desertthunder/cine/internal/models"
)

// Catalog defines the read-side operations of the video catalog.
//
// Implementations return explicit errors classified with the sentinels in
// [internal/shared]; callers that want the display-friendly "empty on
// error" behavior apply it themselves.
type Catalog interface {
	// FetchFeed retrieves the curated feed for a category.
	// An empty category requests the uncategorized "all" feed.
	FetchFeed(ctx context.Context, category string) ([]models.Video, error)

	// FetchVideoByID retrieves a single video descriptor.
	// Returns shared.ErrVideoNotFound when the id does not resolve.
	FetchVideoByID(ctx context.Context, id string) (*models.Video, error)

	// SearchVideos runs a free-text search; result order is defined by the backend.
	SearchVideos(ctx context.Context, query string) ([]models.Video, error)

	// FetchTrending retrieves up to limit currently-trending videos.
	FetchTrending(ctx context.Context, limit int) ([]models.Video, error)
}

// Account defines the authenticated operations of the backend.
//
// Tokens are opaque bearer strings; implementations must not cache them,
// since the session store owns token lifetime.
type Account interface {
	// Login exchanges credentials for a bearer token (OAuth2 password grant).
	// Returns shared.ErrUnauthorized for rejected credentials.
	Login(ctx context.Context, email, password string) (*models.Token, error)

	// Register creates a new account.
	// Returns shared.ErrConflict when the email is taken, shared.ErrValidation otherwise.
	Register(ctx context.Context, email, password, displayName string) (*models.User, error)

	// Profile fetches the user behind a token.
	Profile(ctx context.Context, token string) (*models.User, error)

	// WatchHistory fetches the most recent watched videos, newest first.
	WatchHistory(ctx context.Context, token string, limit int) ([]models.Video, error)

	// RecordWatch records that a video was watched. Best-effort on the
	// caller's side; this method still reports the error so the caller
	// can decide to log it.
	RecordWatch(ctx context.Context, token, videoID string) error
}

// Prober reports backend liveness.
type Prober interface {
	Health(ctx context.Context) error
}
