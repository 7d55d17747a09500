// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/cine/internal/models"
)

// MockCatalog is a test double for [services.Catalog]
type MockCatalog struct {
	FeedFn     func(ctx context.Context, category string) ([]models.Video, error)
	VideoFn    func(ctx context.Context, id string) (*models.Video, error)
	SearchFn   func(ctx context.Context, query string) ([]models.Video, error)
	TrendingFn func(ctx context.Context, limit int) ([]models.Video, error)
}

func (m *MockCatalog) FetchFeed(ctx context.Context, category string) ([]models.Video, error) {
	if m.FeedFn != nil {
		return m.FeedFn(ctx, category)
	}
	return []models.Video{}, nil
}

func (m *MockCatalog) FetchVideoByID(ctx context.Context, id string) (*models.Video, error) {
	if m.VideoFn != nil {
		return m.VideoFn(ctx, id)
	}
	return &models.Video{ID: id, Title: "mock"}, nil
}

func (m *MockCatalog) SearchVideos(ctx context.Context, query string) ([]models.Video, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, query)
	}
	return []models.Video{}, nil
}

func (m *MockCatalog) FetchTrending(ctx context.Context, limit int) ([]models.Video, error) {
	if m.TrendingFn != nil {
		return m.TrendingFn(ctx, limit)
	}
	return []models.Video{}, nil
}

// MockAccount is a test double for [services.Account]
type MockAccount struct {
	LoginFn       func(ctx context.Context, email, password string) (*models.Token, error)
	RegisterFn    func(ctx context.Context, email, password, displayName string) (*models.User, error)
	ProfileFn     func(ctx context.Context, token string) (*models.User, error)
	HistoryFn     func(ctx context.Context, token string, limit int) ([]models.Video, error)
	RecordWatchFn func(ctx context.Context, token, videoID string) error
}

func (m *MockAccount) Login(ctx context.Context, email, password string) (*models.Token, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, email, password)
	}
	return &models.Token{AccessToken: "mock-token", TokenType: "bearer"}, nil
}

func (m *MockAccount) Register(ctx context.Context, email, password, displayName string) (*models.User, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, email, password, displayName)
	}
	return &models.User{ID: "mock-user", Email: email, DisplayName: displayName}, nil
}

func (m *MockAccount) Profile(ctx context.Context, token string) (*models.User, error) {
	if m.ProfileFn != nil {
		return m.ProfileFn(ctx, token)
	}
	return &models.User{ID: "mock-user", Email: "mock@example.com", DisplayName: "Mock"}, nil
}

func (m *MockAccount) WatchHistory(ctx context.Context, token string, limit int) ([]models.Video, error) {
	if m.HistoryFn != nil {
		return m.HistoryFn(ctx, token, limit)
	}
	return []models.Video{}, nil
}

func (m *MockAccount) RecordWatch(ctx context.Context, token, videoID string) error {
	if m.RecordWatchFn != nil {
		return m.RecordWatchFn(ctx, token, videoID)
	}
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
