// package catalog builds the home-feed snapshot and manages search state.
//
// The aggregator fans one feed fetch per configured category out onto
// goroutines and joins them before committing a snapshot. Long-running
// loads emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package catalog

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cine/internal/models"
	"github.com/desertthunder/cine/internal/services"
	"github.com/desertthunder/cine/internal/shared"
)

// Snapshot is the in-memory mapping of category to video list for one load.
//
// Sections is rebuilt wholesale on each load; its keys correspond exactly
// to the configured category set, with the empty category under "all".
type Snapshot struct {
	Categories []string                  // configured categories in declared order
	Sections   map[string][]models.Video // keyed by shared.SectionKey
	History    []models.Video            // recent watch history, empty when anonymous
}

// Keys returns the snapshot keys in declared category order.
func (s *Snapshot) Keys() []string {
	keys := make([]string, len(s.Categories))
	for i, c := range s.Categories {
		keys[i] = shared.SectionKey(c)
	}
	return keys
}

// Hero returns the promoted video: the first entry of the first non-empty
// category in declared order. Deterministic, order-sensitive, not a ranking.
func (s *Snapshot) Hero() *models.Video {
	for _, c := range s.Categories {
		section := s.Sections[shared.SectionKey(c)]
		if len(section) > 0 {
			return &section[0]
		}
	}
	return nil
}

// VideoCache persists fetched feeds for offline rendering.
type VideoCache interface {
	ReplaceCategory(category string, videos []models.Video) error
	ListByCategory(category string) ([]models.Video, error)
}

// Aggregator loads category feeds concurrently into snapshots.
type Aggregator struct {
	catalog      services.Catalog
	account      services.Account
	cache        VideoCache
	categories   []string
	historyLimit int
	logger       *log.Logger
}

// AggregatorOpts contains the dependencies for creating an Aggregator.
type AggregatorOpts struct {
	Catalog      services.Catalog
	Account      services.Account
	Cache        VideoCache // optional; nil disables the offline cache
	Categories   []string
	HistoryLimit int
	Logger       *log.Logger
}

// NewAggregator creates an Aggregator for the configured category set.
func NewAggregator(opts AggregatorOpts) *Aggregator {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 10
	}
	return &Aggregator{
		catalog:      opts.Catalog,
		account:      opts.Account,
		cache:        opts.Cache,
		categories:   opts.Categories,
		historyLimit: opts.HistoryLimit,
		logger:       opts.Logger,
	}
}

// Load fetches every configured category feed concurrently and assembles
// the snapshot once all fetches complete (all-or-nothing join).
//
// A failed category degrades to an empty section and is logged; it never
// fails the whole load. When token is non-empty the watch history is
// fetched alongside the feeds; history failures are silent. The committed
// snapshot always carries exactly one key per configured category.
func (a *Aggregator) Load(ctx context.Context, token string, progress chan<- ProgressUpdate) (*Snapshot, error) {
	logger := shared.WithLogger(a.logger, "load", shared.GenerateID())

	snapshot := &Snapshot{
		Categories: a.categories,
		Sections:   make(map[string][]models.Video, len(a.categories)),
	}

	sections := make([][]models.Video, len(a.categories))
	var history []models.Video

	var wg sync.WaitGroup
	for i, category := range a.categories {
		wg.Add(1)
		go func(i int, category string) {
			defer wg.Done()
			sendProgress(progress, fetchFeedUpdate(i+1, len(a.categories), category))

			videos, err := a.catalog.FetchFeed(ctx, category)
			if err != nil {
				logger.Warnf("feed %q failed: %v", shared.SectionKey(category), err)
				return
			}
			sections[i] = videos
		}(i, category)
	}

	if token != "" && a.account != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sendProgress(progress, fetchHistoryUpdate(a.historyLimit))

			videos, err := a.account.WatchHistory(ctx, token, a.historyLimit)
			if err != nil {
				logger.Warnf("watch history failed: %v", err)
				return
			}
			history = videos
		}()
	}

	wg.Wait()

	for i, category := range a.categories {
		snapshot.Sections[shared.SectionKey(category)] = sections[i]
	}
	snapshot.History = history

	a.writeCache(snapshot, progress)

	return snapshot, ctx.Err()
}

// LoadCached rebuilds a snapshot from the local cache without touching the
// network. Sections missing from the cache come back empty.
func (a *Aggregator) LoadCached() (*Snapshot, error) {
	if a.cache == nil {
		return nil, shared.ErrServiceUnavailable
	}

	snapshot := &Snapshot{
		Categories: a.categories,
		Sections:   make(map[string][]models.Video, len(a.categories)),
	}

	for _, category := range a.categories {
		videos, err := a.cache.ListByCategory(category)
		if err != nil {
			a.logger.Warnf("cache read for %q failed: %v", shared.SectionKey(category), err)
		}
		snapshot.Sections[shared.SectionKey(category)] = videos
	}

	return snapshot, nil
}

// writeCache persists each fetched section. Cache failures never surface.
func (a *Aggregator) writeCache(snapshot *Snapshot, progress chan<- ProgressUpdate) {
	if a.cache == nil {
		return
	}

	sendProgress(progress, cacheWriteUpdate(len(a.categories)))
	for _, category := range a.categories {
		section := snapshot.Sections[shared.SectionKey(category)]
		if len(section) == 0 {
			continue
		}
		if err := a.cache.ReplaceCategory(category, section); err != nil {
			a.logger.Warnf("cache write for %q failed: %v", shared.SectionKey(category), err)
		}
	}
}
