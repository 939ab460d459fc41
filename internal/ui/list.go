package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/reelx/internal/models"
)

var _ list.DefaultItem = movieItem{}

// movieItem wraps [models.Movie] with its collection state to implement [list.Item].
type movieItem struct {
	movie       models.Movie
	inWatchlist bool
	rating      int
}

func (i movieItem) FilterValue() string { return i.movie.DisplayTitle() }
func (i movieItem) Title() string {
	return fmt.Sprintf("%s %s (%d)", Badge(i.movie), i.movie.DisplayTitle(), i.movie.Year)
}
func (i movieItem) Description() string {
	desc := ""
	if i.inWatchlist {
		desc = "● watchlist"
	}
	if i.rating > 0 {
		if desc != "" {
			desc += " • "
		}
		desc += styles.star.Render(Stars(i.rating))
	}
	if desc == "" {
		desc = "—"
	}
	return desc
}

func newMovieList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}

func movieItems(movies []models.Movie, watchIDs map[int]struct{}, ratingOf func(int) int) []list.Item {
	items := make([]list.Item, len(movies))
	for i, m := range movies {
		_, in := watchIDs[m.ID]
		items[i] = movieItem{movie: m, inWatchlist: in, rating: ratingOf(m.ID)}
	}
	return items
}

func viewedItems(entries []models.ViewedEntry, watchIDs map[int]struct{}) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		_, in := watchIDs[e.ID]
		items[i] = movieItem{movie: e.Movie, inWatchlist: in, rating: e.Rating}
	}
	return items
}
