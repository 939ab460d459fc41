// package formatter exports watchlist and viewed collections to JSON, CSV, Markdown, and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/rating"
	"github.com/desertthunder/reelx/internal/shared"
)

// Format is an export file format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// Formats lists every supported [Format].
var Formats = []Format{FormatJSON, FormatCSV, FormatMarkdown, FormatText}

// ParseFormat maps user input to a [Format]. "md" and "text" are accepted aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
	}
}

// Ext returns the file extension for f.
func (f Format) Ext() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatMarkdown:
		return "md"
	case FormatText:
		return "txt"
	default:
		return "json"
	}
}

// ViewedStats summarizes a viewed list.
type ViewedStats struct {
	Count        int     `json:"count"`
	Average      float64 `json:"average_rating"`
	Distribution [6]int  `json:"distribution"` // index = stars, index 0 unused
}

// Stats computes [ViewedStats] for entries.
func Stats(entries []models.ViewedEntry) ViewedStats {
	stats := ViewedStats{Count: len(entries), Average: models.AverageRating(entries)}
	for _, e := range entries {
		if models.ValidRating(e.Rating) {
			stats.Distribution[e.Rating]++
		}
	}
	return stats
}

// ExportWatchlist renders movies in format f.
func ExportWatchlist(movies []models.Movie, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return WatchlistToCSV(movies)
	case FormatMarkdown:
		return WatchlistToMarkdown(movies, nil)
	case FormatText:
		return WatchlistToText(movies), nil
	default:
		return shared.MarshalJSON(movies, true)
	}
}

// ExportViewed renders entries in format f.
func ExportViewed(entries []models.ViewedEntry, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ViewedToCSV(entries)
	case FormatMarkdown:
		return ViewedToMarkdown(entries), nil
	case FormatText:
		return ViewedToText(entries), nil
	default:
		return shared.MarshalJSON(struct {
			Stats  ViewedStats          `json:"stats"`
			Movies []models.ViewedEntry `json:"movies"`
		}{Stats(entries), entries}, true)
	}
}

// WatchlistToCSV converts movies to CSV with columns: ID, Title, Year, Genre, Director, Poster
func WatchlistToCSV(movies []models.Movie) ([]byte, error) {
	rows := make([][]string, 0, len(movies))
	for _, m := range movies {
		rows = append(rows, []string{
			strconv.Itoa(m.ID), m.DisplayTitle(), strconv.Itoa(m.Year), m.Genre, m.Director, m.PosterURL,
		})
	}
	return writeCSV([]string{"ID", "Title", "Year", "Genre", "Director", "Poster"}, rows)
}

// ViewedToCSV converts entries to CSV with columns: ID, Title, Year, Rating
func ViewedToCSV(entries []models.ViewedEntry) ([]byte, error) {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(e.ID), e.DisplayTitle(), strconv.Itoa(e.Year), strconv.Itoa(e.Rating),
		})
	}
	return writeCSV([]string{"ID", "Title", "Year", "Rating"}, rows)
}

func writeCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, record := range rows {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// WatchlistToMarkdown renders the watchlist. posters maps movie id to a local image path.
func WatchlistToMarkdown(movies []models.Movie, posters map[int]string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Watchlist\n\n")
	fmt.Fprintf(&buf, "**Movies**: %d\n\n", len(movies))

	for i, m := range movies {
		fmt.Fprintf(&buf, "%d. **%s** (%d)", i+1, m.DisplayTitle(), m.Year)
		if m.Director != "" {
			fmt.Fprintf(&buf, " - %s", m.Director)
		}
		buf.WriteString("\n")
		if img, ok := posters[m.ID]; ok {
			fmt.Fprintf(&buf, "\n   ![%s](%s)\n\n", m.DisplayTitle(), img)
		}
	}
	return buf.Bytes(), nil
}

// ViewedToMarkdown renders the viewed list with rating statistics.
func ViewedToMarkdown(entries []models.ViewedEntry) []byte {
	var buf bytes.Buffer
	stats := Stats(entries)

	buf.WriteString("# Viewed\n\n")
	fmt.Fprintf(&buf, "**Movies**: %d\n", stats.Count)
	fmt.Fprintf(&buf, "**Average rating**: %.1f\n\n", stats.Average)

	buf.WriteString("## Ratings\n\n")
	buf.WriteString("| Stars | Count |\n|---|---|\n")
	for r := models.MaxRating; r >= models.MinRating; r-- {
		fmt.Fprintf(&buf, "| %s | %d |\n", rating.Stars(r), stats.Distribution[r])
	}

	buf.WriteString("\n## Movies\n\n")
	for i, e := range entries {
		fmt.Fprintf(&buf, "%d. %s (%d) %s\n", i+1, e.DisplayTitle(), e.Year, rating.Stars(e.Rating))
	}
	return buf.Bytes()
}

// WatchlistToText renders the watchlist as plain text.
func WatchlistToText(movies []models.Movie) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Watchlist: %d movies\n\n", len(movies))
	for i, m := range movies {
		fmt.Fprintf(&buf, "%d. %s (%d)\n", i+1, m.DisplayTitle(), m.Year)
	}
	return buf.Bytes()
}

// ViewedToText renders the viewed list as plain text with the average rating.
func ViewedToText(entries []models.ViewedEntry) []byte {
	var buf bytes.Buffer
	stats := Stats(entries)
	fmt.Fprintf(&buf, "Viewed: %d movies\n", stats.Count)
	fmt.Fprintf(&buf, "Average rating: %.1f\n\n", stats.Average)
	for i, e := range entries {
		fmt.Fprintf(&buf, "%d. %s (%d) - %d/5\n", i+1, e.DisplayTitle(), e.Year, e.Rating)
	}
	return buf.Bytes()
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// MarkdownExportResult contains information about files created by WriteWatchlistMarkdown
type MarkdownExportResult struct {
	Directory string
	Files     []string
	Posters   []string
}

// WriteWatchlistMarkdown writes {outputDir}/README.md and, when withPosters is set,
// downloads each movie's poster to {outputDir}/posters/{id}.jpg.
//
// Poster failures are reported to warn and skipped.
func WriteWatchlistMarkdown(movies []models.Movie, outputDir string, withPosters bool, warn io.Writer) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = "watchlist"
	}
	if warn == nil {
		warn = os.Stderr
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir, Files: []string{}}
	posters := map[int]string{}

	if withPosters {
		posterDir := filepath.Join(outputDir, "posters")
		for _, m := range movies {
			if m.PosterURL == "" {
				continue
			}
			if err := os.MkdirAll(posterDir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create poster directory: %w", err)
			}

			data, err := DownloadImage(m.PosterURL)
			if err != nil {
				fmt.Fprintf(warn, "Warning: poster for %q: %v\n", m.DisplayTitle(), err)
				continue
			}

			name := fmt.Sprintf("%d.jpg", m.ID)
			path := filepath.Join(posterDir, name)
			if err := os.WriteFile(path, data, 0644); err != nil {
				fmt.Fprintf(warn, "Warning: failed to save poster: %v\n", err)
				continue
			}
			posters[m.ID] = "posters/" + name
			result.Posters = append(result.Posters, path)
			result.Files = append(result.Files, path)
		}
	}

	mdData, err := WatchlistToMarkdown(movies, posters)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	result.Files = append(result.Files, mdFile)
	return result, nil
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Manifest summarizes a multi-file collection export.
type Manifest struct {
	ExportedAt time.Time     `json:"exported_at"`
	UserID     models.UserID `json:"user_id"`
	Watchlist  int           `json:"watchlist_count"`
	Viewed     ViewedStats   `json:"viewed"`
	Files      []string      `json:"files"`
	Errors     []string      `json:"errors,omitempty"`
}

// WriteManifest writes m as indented JSON to path.
func WriteManifest(m *Manifest, path string) error {
	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return WriteFile(path, data)
}
