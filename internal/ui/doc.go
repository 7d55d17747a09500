// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing and playing videos:
//  1. [BrowseView] : Navigate the category sections of the home feed
//  2. [SearchView] : Debounced free-text search across the catalog
//  3. [PlayerView] : Drive a playback session (play/pause, watch recording)
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Catalog loads report progress through a channel from the Aggregator, providing
// non-blocking status reporting while the sections fetch; search results arrive
// on the Searcher's results channel and are forwarded as messages.
//
// Keyboard navigation uses vim-style bindings (j/k, tab, enter, esc, /, space, q)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
