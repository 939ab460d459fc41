package ui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/rating"
)

// posterGradients are the background pairs used for poster placeholders.
var posterGradients = [][2]lipgloss.Color{
	{"#667EEA", "#764BA2"},
	{"#F093FB", "#F5576C"},
	{"#4FACFE", "#00F2FE"},
	{"#43E97B", "#38F9D7"},
	{"#FA709A", "#FEE140"},
	{"#30CFD0", "#330867"},
	{"#A8EDEA", "#FED6E3"},
	{"#FF9A9E", "#FECFEF"},
}

// PosterPalette picks a placeholder gradient for a movie id. The same id always maps to the same pair.
func PosterPalette(movieID int) [2]lipgloss.Color {
	i := movieID % len(posterGradients)
	if i < 0 {
		i += len(posterGradients)
	}
	return posterGradients[i]
}

// Initial returns the upper-cased first letter of the movie's display title, or "?".
func Initial(m models.Movie) string {
	title := strings.TrimSpace(m.DisplayTitle())
	if title == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(title)
	return string(unicode.ToUpper(r))
}

// Stars renders r as filled and empty stars.
func Stars(r int) string { return rating.Stars(r) }

// Badge renders the poster placeholder for m.
func Badge(m models.Movie) string {
	pair := PosterPalette(m.ID)
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(pair[0]).
		BorderStyle(lipgloss.Border{Left: "▌"}).
		BorderLeft(true).
		BorderForeground(pair[1]).
		Padding(0, 1).
		Render(Initial(m))
}
