package catalog

import (
	"fmt"

	"github.com/desertthunder/cine/internal/shared"
)

// ProgressUpdate represents a progress event during a catalog load.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	FetchFeed Phase = iota
	FetchHistory
	CacheWrite
)

func (p Phase) String() string {
	switch p {
	case FetchFeed:
		return "fetch_feed"
	case FetchHistory:
		return "fetch_history"
	case CacheWrite:
		return "cache_write"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default so progress reporting never stalls a fetch.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func fetchFeedUpdate(step, total int, category string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFeed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching %s feed...", step, total, shared.SectionKey(category)),
	}
}

func fetchHistoryUpdate(limit int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchHistory,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching last %d watched videos...", limit),
	}
}

func cacheWriteUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CacheWrite,
		Step:    1,
		Total:   total,
		Message: "Caching feeds locally...",
	}
}
