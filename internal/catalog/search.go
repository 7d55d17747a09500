package catalog

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cine/internal/models"
	"github.com/desertthunder/cine/internal/services"
	"github.com/desertthunder/cine/internal/shared"
)

const (
	// DefaultQuietPeriod is how long a query must sit unchanged before a
	// search request fires.
	DefaultQuietPeriod = 500 * time.Millisecond

	// MinQueryLength is the shortest query that triggers a request;
	// anything shorter clears the result set without touching the network.
	MinQueryLength = 2
)

// SearchResult is the outcome of one completed query.
//
// Results are scoped to the query they answer; a newer query supersedes
// (never merges with) an older result set.
type SearchResult struct {
	Query  string
	Videos []models.Video
	Err    error
}

// Searcher debounces free-text queries against the catalog.
//
// Each keystroke goes through Update. A change cancels any pending timer
// (last write wins) and restarts the quiet period. Every accepted query
// also bumps a generation counter; a response is delivered only if its
// generation is still the latest when it lands, so a slow in-flight
// request can never clobber the results of a newer one.
type Searcher struct {
	mu         sync.Mutex
	catalog    services.Catalog
	quiet      time.Duration
	timer      *time.Timer
	generation uint64
	results    chan SearchResult
	logger     *log.Logger
}

// NewSearcher creates a Searcher. A non-positive quiet period falls back to
// [DefaultQuietPeriod].
func NewSearcher(catalog services.Catalog, quiet time.Duration, logger *log.Logger) *Searcher {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Searcher{
		catalog: catalog,
		quiet:   quiet,
		results: make(chan SearchResult, 1),
		logger:  logger,
	}
}

// Results returns the channel completed searches are delivered on.
//
// Only the latest result is retained: an unread stale result is replaced
// rather than queued behind.
func (s *Searcher) Results() <-chan SearchResult {
	return s.results
}

// Update registers a query change.
//
// Queries shorter than [MinQueryLength] clear the result set immediately.
// Longer queries schedule a search after the quiet period, cancelling any
// previously scheduled one.
func (s *Searcher) Update(ctx context.Context, query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	gen := s.generation

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if utf8.RuneCountInString(query) < MinQueryLength {
		s.deliver(SearchResult{Query: query})
		return
	}

	s.timer = time.AfterFunc(s.quiet, func() {
		s.run(ctx, gen, query)
	})
}

// Stop cancels any pending scheduled search.
func (s *Searcher) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// run issues the network request for a fired timer and delivers the result
// unless a newer query superseded it while the request was in flight.
func (s *Searcher) run(ctx context.Context, gen uint64, query string) {
	videos, err := s.catalog.SearchVideos(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.logger.Debugf("dropping stale search result for %q", query)
		return
	}

	if err != nil {
		s.logger.Warnf("search %q failed: %v", query, err)
	}
	s.deliver(SearchResult{Query: query, Videos: videos, Err: err})
}

// deliver replaces any unread result with the new one without blocking.
func (s *Searcher) deliver(result SearchResult) {
	for {
		select {
		case s.results <- result:
			return
		default:
			select {
			case <-s.results:
			default:
			}
		}
	}
}
