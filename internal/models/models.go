// package models defines the data model for the movie collection client
package models

import "fmt"

// UserID identifies the single user whose collections are synchronized.
type UserID int

func (u UserID) String() string { return fmt.Sprintf("%d", int(u)) }

// DetailLevel selects how much movie data the service returns.
type DetailLevel string

const (
	DetailSummary DetailLevel = "summary"
	DetailComplex DetailLevel = "complex"
)

const (
	MinRating = 1
	MaxRating = 5
)

// ValidRating reports whether r is a submittable star rating.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// Movie is a catalog entry as returned by the service.
type Movie struct {
	ID        int    `json:"id"`
	Title     string `json:"title,omitempty"`
	Name      string `json:"name,omitempty"` // alternate display name when title is absent
	Year      int    `json:"year"`
	PosterURL string `json:"poster_url,omitempty"`
	Genre     string `json:"genre,omitempty"`
	Director  string `json:"director,omitempty"`
	Synopsis  string `json:"synopsis,omitempty"`
}

// DisplayTitle returns Title, falling back to Name.
func (m Movie) DisplayTitle() string {
	if m.Title != "" {
		return m.Title
	}
	return m.Name
}

// ViewedEntry is a rated movie. The service returns it flattened: movie fields plus "rating".
type ViewedEntry struct {
	Movie
	Rating int `json:"rating"`
}

// Snapshot holds both collections in service order.
type Snapshot struct {
	Watchlist []Movie       `json:"watchlist"`
	Viewed    []ViewedEntry `json:"viewed"`
}

// AverageRating returns the mean rating of entries, or 0 for none.
func AverageRating(entries []ViewedEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0
	for _, e := range entries {
		sum += e.Rating
	}
	return float64(sum) / float64(len(entries))
}
