// package models defines the data model for the streaming client
package models

import (
	"fmt"
	"strings"
)

// Video is a catalog entry as served by the backend.
//
// JSON field names match the backend wire format (camelCase). Videos are
// immutable once fetched; the client never mutates them locally.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnailUrl"`
	VideoURL     string `json:"videoUrl"`
	Category     string `json:"category"`
	Duration     string `json:"duration"`
	Trending     bool   `json:"trending"`
	Views        int64  `json:"views"`
	ReleasedAt   string `json:"releasedAt"`
}

// Validate checks that a video carries the fields the client relies on.
func (v Video) Validate() error {
	if strings.TrimSpace(v.ID) == "" {
		return fmt.Errorf("video id is required")
	}
	if strings.TrimSpace(v.Title) == "" {
		return fmt.Errorf("video title is required")
	}
	return nil
}

// Preferences holds per-user display preferences.
type Preferences struct {
	FavoriteCategories []string `json:"favoriteCategories"`
	Autoplay           bool     `json:"autoplay"`
}

// User is the backend profile; the client holds a read-only copy tied to
// the session lifetime.
type User struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	DisplayName  string      `json:"displayName"`
	PhotoURL     string      `json:"photoUrl,omitempty"`
	Disabled     bool        `json:"disabled"`
	WatchHistory []string    `json:"watchHistory,omitempty"`
	Preferences  Preferences `json:"preferences,omitempty"`
}

// Validate checks registration-relevant user fields.
func (u User) Validate() error {
	if !strings.Contains(u.Email, "@") {
		return fmt.Errorf("invalid email: %q", u.Email)
	}
	if strings.TrimSpace(u.DisplayName) == "" {
		return fmt.Errorf("display name is required")
	}
	return nil
}

// Token is the OAuth2 password-grant response from the backend.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Session pairs a bearer token with the profile derived from it.
//
// A nil User with a non-empty Token means rehydration has not committed yet;
// a zero Session is anonymous.
type Session struct {
	Token string
	User  *User
}

// Authenticated reports whether the session carries a token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}
