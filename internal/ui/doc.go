// Package ui implements an interactive terminal movie browser using bubbletea's Elm architecture.
//
// The TUI has two screens:
//  1. [ListScreen] : popular movies with debounced search and load more
//  2. [DetailScreen] : details and cast of one movie with a favorite toggle
//
// The [Model] owns a [controller.ListController] and a [controller.DetailController].
// Their render callbacks write into single-slot mailboxes that the model drains with a waiting command,
// so a callback never blocks on the bubbletea loop and the loop always sees the newest state.
//
// Search input is debounced: every edit schedules a tick tagged with a sequence number and only the tick
// carrying the latest number issues the search.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, /, m, r, f, o, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
