package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/reelx/internal/formatter"
	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/rating"
	"github.com/desertthunder/reelx/internal/shared"
)

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoadingView:
		return m.renderLoading()
	case CatalogErrorView:
		return m.renderCatalogError()
	case BrowseView, WatchlistView, ViewedView:
		return m.renderLists()
	case DetailView:
		return m.renderDetail()
	case RatingView:
		return m.renderRating()
	default:
		return ""
	}
}

func (m *Model) renderLoading() string {
	title := styles.title.Render("reelx")
	msg := m.progress.Message
	if msg == "" {
		msg = "Loading..."
	}
	return fmt.Sprintf("%s\n%s", title, msg)
}

func (m *Model) renderCatalogError() string {
	title := styles.err.Render("Could not load the catalog")
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.retry, m.keys.quit})
	return fmt.Sprintf("%s\n\n%v\n\n%s", title, m.err, helpView)
}

func (m *Model) renderTabs() string {
	tabs := []struct {
		view  ViewState
		label string
	}{
		{BrowseView, fmt.Sprintf("Catalog (%d)", len(m.browse.Items()))},
		{WatchlistView, fmt.Sprintf("Watchlist (%d)", len(m.watchlist.Items()))},
		{ViewedView, fmt.Sprintf("Viewed (%d)", len(m.viewed.Items()))},
	}

	parts := make([]string, len(tabs))
	for i, t := range tabs {
		if t.view == m.view {
			parts[i] = styles.active.Render(t.label)
		} else {
			parts[i] = styles.tab.Render(t.label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderLists() string {
	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.view {
	case BrowseView:
		if m.searching || m.search.Value() != "" {
			b.WriteString(m.search.View())
			b.WriteString("\n")
		}
		b.WriteString(m.browse.View())
	case WatchlistView:
		if m.sync.WatchlistUnavailable() {
			b.WriteString(styles.warn.Render("Watchlist is not available right now. Press r to reload."))
			b.WriteString("\n")
		}
		b.WriteString(m.watchlist.View())
	case ViewedView:
		if m.sync.ViewedUnavailable() {
			b.WriteString(styles.warn.Render("Viewed list is not available right now. Press r to reload."))
			b.WriteString("\n")
		} else {
			stats := formatter.Stats(m.sync.Viewed())
			b.WriteString(styles.help.Render(fmt.Sprintf("%d rated • average %.1f", stats.Count, stats.Average)))
			b.WriteString("\n")
		}
		b.WriteString(m.viewed.View())
	}

	keys := []key.Binding{m.keys.enter, m.keys.tab, m.keys.watchlist, m.keys.rate}
	switch m.view {
	case BrowseView:
		keys = append(keys, m.keys.search)
	case WatchlistView, ViewedView:
		keys = append(keys, m.keys.remove)
	}
	keys = append(keys, m.keys.retry, m.keys.quit)

	b.WriteString("\n\n")
	b.WriteString(m.help.ShortHelpView(keys))
	return b.String()
}

func (m *Model) renderDetail() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.watchlist, m.keys.rate, m.keys.back, m.keys.quit})

	switch {
	case errors.Is(m.detailErr, shared.ErrNotFound):
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("Movie not found"), m.help.ShortHelpView([]key.Binding{m.keys.back}))
	case m.detailErr != nil:
		return fmt.Sprintf("%s\n\n%v\n\n%s", styles.err.Render("Could not load movie"), m.detailErr, m.help.ShortHelpView([]key.Binding{m.keys.back}))
	case m.detail == nil:
		return "Loading movie..."
	}

	d := m.detail
	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("%s %s (%d)", Badge(*d), d.DisplayTitle(), d.Year)))
	b.WriteString("\n")

	if d.Director != "" {
		fmt.Fprintf(&b, "Director: %s\n", d.Director)
	}
	if d.Genre != "" {
		fmt.Fprintf(&b, "Genre:    %s\n", d.Genre)
	}
	if d.Synopsis != "" {
		width := max(m.width-4, 40)
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Render(d.Synopsis))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.sync.InWatchlist(d.ID) {
		b.WriteString(styles.ok.Render("● On your watchlist"))
		b.WriteString("\n")
	}
	if r := m.sync.Rating(d.ID); r > 0 {
		b.WriteString(styles.star.Render(fmt.Sprintf("%s %s", Stars(r), rating.Label(r))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpView)
	return b.String()
}

func (m *Model) renderRating() string {
	w := m.workflow
	var b strings.Builder

	b.WriteString(styles.title.Render(fmt.Sprintf("Rate %s", w.Movie().DisplayTitle())))
	b.WriteString("\n")
	b.WriteString(styles.star.Render(Stars(w.Rating())))
	if label := w.Label(); label != "" {
		b.WriteString("  " + label)
	}
	b.WriteString("\n\n")

	switch {
	case m.pending:
		b.WriteString("Saving... (esc to close, the rating still saves)")
	case m.ratingErr != nil && errors.Is(m.ratingErr, shared.ErrNetworkFailure):
		b.WriteString(styles.err.Render("Not saved. Press enter to try again."))
	case m.ratingErr != nil:
		b.WriteString(styles.err.Render(m.ratingErr.Error()))
	case w.Rating() < models.MinRating:
		b.WriteString(styles.help.Render("Pick 1-5 stars"))
	}
	b.WriteString("\n\n")

	submit := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit"))
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.stars, submit, m.keys.back}))

	return styles.modal.Render(b.String())
}
