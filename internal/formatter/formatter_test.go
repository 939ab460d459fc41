package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/shared"
)

var (
	watchlist = []models.Movie{
		{ID: 1, Title: "Heat", Year: 1995, Director: "Michael Mann", Genre: "Crime"},
		{ID: 3, Name: "Stalker", Year: 1979},
	}
	viewed = []models.ViewedEntry{
		{Movie: models.Movie{ID: 2, Title: "Se7en", Year: 1995}, Rating: 5},
		{Movie: models.Movie{ID: 4, Title: "Alien", Year: 1979}, Rating: 4},
		{Movie: models.Movie{ID: 5, Title: "Cats", Year: 2019}, Rating: 1},
	}
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"", FormatJSON},
		{"JSON", FormatJSON},
		{"csv", FormatCSV},
		{"md", FormatMarkdown},
		{"markdown", FormatMarkdown},
		{"text", FormatText},
		{" txt ", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}

	t.Run("Unknown", func(t *testing.T) {
		_, err := ParseFormat("xml")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestStats(t *testing.T) {
	stats := Stats(viewed)
	if stats.Count != 3 {
		t.Errorf("expected count 3, got %d", stats.Count)
	}
	if stats.Average < 3.33 || stats.Average > 3.34 {
		t.Errorf("expected average ~3.33, got %f", stats.Average)
	}
	if stats.Distribution[5] != 1 || stats.Distribution[4] != 1 || stats.Distribution[1] != 1 {
		t.Errorf("unexpected distribution %v", stats.Distribution)
	}

	empty := Stats(nil)
	if empty.Count != 0 || empty.Average != 0 {
		t.Errorf("expected zero stats, got %+v", empty)
	}
}

func TestExporters(t *testing.T) {
	t.Run("WatchlistToCSV", func(t *testing.T) {
		data, err := WatchlistToCSV(watchlist)
		if err != nil {
			t.Fatalf("WatchlistToCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
		}
		if lines[0] != "ID,Title,Year,Genre,Director,Poster" {
			t.Errorf("CSV missing headers, got: %s", lines[0])
		}
		if lines[1] != "1,Heat,1995,Crime,Michael Mann," {
			t.Errorf("unexpected first row: %s", lines[1])
		}
		if !strings.HasPrefix(lines[2], "3,Stalker,1979") {
			t.Errorf("expected name fallback in second row, got: %s", lines[2])
		}
	})

	t.Run("ViewedToCSV", func(t *testing.T) {
		data, err := ViewedToCSV(viewed)
		if err != nil {
			t.Fatalf("ViewedToCSV failed: %v", err)
		}
		output := string(data)
		if !strings.Contains(output, "ID,Title,Year,Rating") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "2,Se7en,1995,5") {
			t.Errorf("CSV missing Se7en row, got: %s", output)
		}
	})

	t.Run("WatchlistToMarkdown", func(t *testing.T) {
		data, err := WatchlistToMarkdown(watchlist, map[int]string{1: "posters/1.jpg"})
		if err != nil {
			t.Fatalf("WatchlistToMarkdown failed: %v", err)
		}
		output := string(data)
		for _, want := range []string{"# Watchlist", "**Movies**: 2", "1. **Heat** (1995) - Michael Mann", "![Heat](posters/1.jpg)", "2. **Stalker** (1979)"} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ViewedToMarkdown", func(t *testing.T) {
		output := string(ViewedToMarkdown(viewed))
		for _, want := range []string{"# Viewed", "**Average rating**: 3.3", "| ★★★★★ | 1 |", "| ★★☆☆☆ | 0 |", "1. Se7en (1995) ★★★★★"} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("Text", func(t *testing.T) {
		w := string(WatchlistToText(watchlist))
		if !strings.Contains(w, "Watchlist: 2 movies") || !strings.Contains(w, "2. Stalker (1979)") {
			t.Errorf("unexpected watchlist text:\n%s", w)
		}

		v := string(ViewedToText(viewed))
		if !strings.Contains(v, "Average rating: 3.3") || !strings.Contains(v, "3. Cats (2019) - 1/5") {
			t.Errorf("unexpected viewed text:\n%s", v)
		}
	})

	t.Run("ExportViewed JSON", func(t *testing.T) {
		data, err := ExportViewed(viewed, FormatJSON)
		if err != nil {
			t.Fatalf("ExportViewed failed: %v", err)
		}

		var decoded struct {
			Stats  ViewedStats          `json:"stats"`
			Movies []models.ViewedEntry `json:"movies"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Stats.Count != 3 || len(decoded.Movies) != 3 {
			t.Errorf("unexpected decoded export %+v", decoded)
		}
		if decoded.Movies[0].Rating != 5 || decoded.Movies[0].Title != "Se7en" {
			t.Errorf("expected flattened movie + rating, got %+v", decoded.Movies[0])
		}
	})

	t.Run("ExportWatchlist Dispatch", func(t *testing.T) {
		for _, f := range Formats {
			data, err := ExportWatchlist(watchlist, f)
			if err != nil {
				t.Errorf("%s: unexpected error %v", f, err)
			}
			if !bytes.Contains(data, []byte("Heat")) {
				t.Errorf("%s: output missing title", f)
			}
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("EmptyURL", func(t *testing.T) {
		_, err := DownloadImage("")
		if err == nil {
			t.Error("DownloadImage with empty URL should return error")
		}
	})

	t.Run("Non-200", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := DownloadImage(server.URL)
		if err == nil || !strings.Contains(err.Error(), "status 404") {
			t.Errorf("expected status error, got %v", err)
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteWatchlistMarkdown With Posters", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/missing.jpg" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write([]byte("jpeg"))
		}))
		defer server.Close()

		movies := []models.Movie{
			{ID: 1, Title: "Heat", Year: 1995, PosterURL: server.URL + "/heat.jpg"},
			{ID: 2, Title: "Se7en", Year: 1995, PosterURL: server.URL + "/missing.jpg"},
			{ID: 3, Title: "Alien", Year: 1979},
		}

		dir := filepath.Join(t.TempDir(), "watchlist")
		var warn bytes.Buffer
		result, err := WriteWatchlistMarkdown(movies, dir, true, &warn)
		if err != nil {
			t.Fatalf("WriteWatchlistMarkdown failed: %v", err)
		}

		if len(result.Posters) != 1 {
			t.Fatalf("expected 1 poster, got %v", result.Posters)
		}
		if data, err := os.ReadFile(filepath.Join(dir, "posters", "1.jpg")); err != nil || string(data) != "jpeg" {
			t.Errorf("poster not written: %v", err)
		}
		if !strings.Contains(warn.String(), "Se7en") {
			t.Errorf("expected warning for missing poster, got %q", warn.String())
		}

		md, err := os.ReadFile(filepath.Join(dir, "README.md"))
		if err != nil {
			t.Fatalf("README.md not written: %v", err)
		}
		if !strings.Contains(string(md), "![Heat](posters/1.jpg)") {
			t.Errorf("README missing poster link:\n%s", md)
		}
	})

	t.Run("WriteWatchlistMarkdown Without Posters", func(t *testing.T) {
		dir := t.TempDir()
		result, err := WriteWatchlistMarkdown(watchlist, dir, false, nil)
		if err != nil {
			t.Fatalf("WriteWatchlistMarkdown failed: %v", err)
		}
		if len(result.Files) != 1 {
			t.Errorf("expected only README.md, got %v", result.Files)
		}
	})

	t.Run("WriteFile Creates Parents", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a", "b", "viewed.csv")
		if err := WriteFile(path, []byte("x")); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("file not created: %v", err)
		}
	})

	t.Run("WriteManifest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "manifest.json")
		m := &Manifest{UserID: 1, Watchlist: 2, Viewed: Stats(viewed), Files: []string{"watchlist.json"}}
		if err := WriteManifest(m, path); err != nil {
			t.Fatalf("WriteManifest failed: %v", err)
		}

		data, _ := os.ReadFile(path)
		var decoded Manifest
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid manifest: %v", err)
		}
		if decoded.Watchlist != 2 || decoded.Viewed.Count != 3 {
			t.Errorf("unexpected manifest %+v", decoded)
		}
	})
}
