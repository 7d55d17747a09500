// Client implementation of [Catalog], [Account] and [Prober] for the
// Cinephile REST backend.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cine/internal/models"
	"github.com/desertthunder/cine/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// defaultRate bounds outgoing requests; the backend feed endpoints are
// cache-backed, so a small burst is plenty for the TUI's parallel loads.
const (
	defaultRate  = rate.Limit(10)
	defaultBurst = 10
)

// Client talks to the backend REST API under its versioned prefix.
//
// The base URL is resolved once at construction; all operations are pure
// request/response with no retries and no local state.
type Client struct {
	config     *shared.Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
	oauth      *oauth2.Config
}

// NewClient creates a backend API client from the resolved configuration.
//
// A nil httpClient falls back to [http.DefaultClient]; a nil logger gets a
// default stderr logger.
func NewClient(config *shared.Config, httpClient *http.Client, logger *log.Logger) *Client {
	if config == nil {
		config = shared.DefaultConfig()
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	oauthConfig := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  config.Endpoint("/auth/login"),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(defaultRate, defaultBurst),
		logger:     logger,
		oauth:      oauthConfig,
	}
}

// apiError is the backend's error envelope ({"detail": "..."}).
type apiError struct {
	Detail string `json:"detail"`
}

// get performs a rate-limited GET and decodes a JSON body into result.
//
// Non-2xx statuses are classified onto the shared sentinels so callers can
// branch with errors.Is.
func (c *Client) get(ctx context.Context, endpoint, token string, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp); err != nil {
		return err
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: malformed response: %v", shared.ErrAPIRequest, err)
		}
	}

	return nil
}

// classifyStatus maps non-success statuses to sentinel errors.
func classifyStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	detail := decodeDetail(resp)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", shared.ErrUnauthorized, detail)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrVideoNotFound, detail)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", shared.ErrConflict, detail)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		// The backend reports duplicate registrations as a 400 with a
		// descriptive detail string.
		if strings.Contains(strings.ToLower(detail), "exists") {
			return fmt.Errorf("%w: %s", shared.ErrConflict, detail)
		}
		return fmt.Errorf("%w: %s", shared.ErrValidation, detail)
	default:
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, detail)
	}
}

func decodeDetail(resp *http.Response) string {
	var body apiError
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Detail == "" {
		return resp.Status
	}
	return body.Detail
}

// FetchFeed retrieves the ordered feed for a category.
func (c *Client) FetchFeed(ctx context.Context, category string) ([]models.Video, error) {
	endpoint := c.config.Endpoint("/videos/feed")
	if category != "" {
		endpoint += "?category=" + url.QueryEscape(category)
	}

	var videos []models.Video
	if err := c.get(ctx, endpoint, "", &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// FetchVideoByID retrieves a single video descriptor.
func (c *Client) FetchVideoByID(ctx context.Context, id string) (*models.Video, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: video id", shared.ErrMissingArgument)
	}

	var video models.Video
	endpoint := c.config.Endpoint("/videos/" + url.PathEscape(id))
	if err := c.get(ctx, endpoint, "", &video); err != nil {
		return nil, err
	}
	return &video, nil
}

// SearchVideos runs a free-text search in backend relevance order.
func (c *Client) SearchVideos(ctx context.Context, query string) ([]models.Video, error) {
	endpoint := c.config.Endpoint("/videos/search/query") + "?q=" + url.QueryEscape(query)

	var videos []models.Video
	if err := c.get(ctx, endpoint, "", &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// FetchTrending retrieves up to limit currently-trending videos.
func (c *Client) FetchTrending(ctx context.Context, limit int) ([]models.Video, error) {
	if limit <= 0 {
		limit = 10
	}
	endpoint := c.config.Endpoint("/videos/trending/now") + "?limit=" + strconv.Itoa(limit)

	var videos []models.Video
	if err := c.get(ctx, endpoint, "", &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// Login exchanges credentials for a bearer token.
//
// The backend token endpoint follows the OAuth2 password-grant convention
// (form-encoded username/password), so the [oauth2] package drives the
// exchange directly.
func (c *Client) Login(ctx context.Context, email, password string) (*models.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.oauth.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, fmt.Errorf("%w: status %d", shared.ErrUnauthorized, retrieveErr.Response.StatusCode)
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}

	return &models.Token{AccessToken: token.AccessToken, TokenType: token.TokenType}, nil
}

// Register creates a new account from a JSON payload.
func (c *Client) Register(ctx context.Context, email, password, displayName string) (*models.User, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	payload, err := json.Marshal(map[string]string{
		"email":       email,
		"password":    password,
		"displayName": displayName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal registration: %w", err)
	}

	endpoint := c.config.Endpoint("/auth/register")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(payload)))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp); err != nil {
		return nil, err
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", shared.ErrAPIRequest, err)
	}
	return &user, nil
}

// Profile fetches the user profile behind a bearer token.
func (c *Client) Profile(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}

	var user models.User
	if err := c.get(ctx, c.config.Endpoint("/user/profile"), token, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// WatchHistory fetches the most recently watched videos.
func (c *Client) WatchHistory(ctx context.Context, token string, limit int) ([]models.Video, error) {
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}
	if limit <= 0 {
		limit = 20
	}

	endpoint := c.config.Endpoint("/user/watch-history") + "?limit=" + strconv.Itoa(limit)

	var videos []models.Video
	if err := c.get(ctx, endpoint, token, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// RecordWatch records a watch event for a video.
func (c *Client) RecordWatch(ctx context.Context, token, videoID string) error {
	if token == "" {
		return shared.ErrNotAuthenticated
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	endpoint := c.config.Endpoint("/user/watch-history") + "?video_id=" + url.QueryEscape(videoID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	return classifyStatus(resp)
}

// Health probes the backend liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	if err := c.get(ctx, c.config.Endpoint("/health"), "", nil); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	return nil
}
