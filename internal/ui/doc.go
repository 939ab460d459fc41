// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI loads the catalog, watchlist, and viewed list in parallel, then offers:
//  1. [BrowseView] : The catalog with a title search (/)
//  2. [WatchlistView] : Movies the user wants to see
//  3. [ViewedView] : Rated movies with an average
//  4. [DetailView] : Complex-level detail for one movie, or a not-found notice
//  5. [RatingView] : Star picker driven by a rating workflow
//
// A failed catalog load shows [CatalogErrorView] with a manual retry. Failed collection loads
// leave that list empty with an "unavailable" note. Failed watchlist changes are logged and
// the list simply does not change.
//
// Remote calls run as [tea.Cmd]s; their results arrive as [Msg] values and are applied in
// Update, so the last response to arrive wins.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
