package ui

import (
	"github.com/desertthunder/cine/internal/catalog"
	"github.com/desertthunder/cine/internal/playback"
)

// catalogLoadedMsg carries the committed snapshot of a finished catalog load.
type catalogLoadedMsg struct {
	snapshot *catalog.Snapshot
	err      error
}

// catalogProgressMsg forwards one aggregator progress update.
type catalogProgressMsg catalog.ProgressUpdate

// searchResultMsg forwards one completed search from the Searcher.
type searchResultMsg catalog.SearchResult

// videoLoadedMsg reports the outcome of a playback session load.
type videoLoadedMsg struct {
	state playback.State
	err   error
}

// playbackToggledMsg reports the state after a play/pause toggle.
type playbackToggledMsg struct {
	state playback.State
	err   error
}
