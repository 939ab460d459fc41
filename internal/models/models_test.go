package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestMovie(t *testing.T) {
	t.Run("DisplayTitle prefers title", func(t *testing.T) {
		m := Movie{ID: 1, Title: "Heat", Name: "Heat (1995)"}
		if got := m.DisplayTitle(); got != "Heat" {
			t.Errorf("expected Heat, got %s", got)
		}
	})

	t.Run("DisplayTitle falls back to name", func(t *testing.T) {
		m := Movie{ID: 2, Name: "Se7en"}
		if got := m.DisplayTitle(); got != "Se7en" {
			t.Errorf("expected Se7en, got %s", got)
		}
	})

	t.Run("summary payload leaves detail fields empty", func(t *testing.T) {
		var m Movie
		if err := json.Unmarshal([]byte(`{"id":1,"title":"Heat","year":1995,"poster_url":"/p/1.jpg"}`), &m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.Genre != "" || m.Director != "" || m.Synopsis != "" {
			t.Errorf("expected empty detail fields, got %+v", m)
		}
		if m.PosterURL != "/p/1.jpg" {
			t.Errorf("expected poster url, got %s", m.PosterURL)
		}
	})
}

func TestViewedEntry(t *testing.T) {
	t.Run("decodes flattened record", func(t *testing.T) {
		var v ViewedEntry
		if err := json.Unmarshal([]byte(`{"id":1,"title":"Heat","year":1995,"rating":4}`), &v); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.ID != 1 || v.Title != "Heat" || v.Rating != 4 {
			t.Errorf("unexpected entry %+v", v)
		}
	})

	t.Run("AverageRating", func(t *testing.T) {
		if got := AverageRating(nil); got != 0 {
			t.Errorf("expected 0 for empty, got %v", got)
		}
		entries := []ViewedEntry{{Rating: 4}, {Rating: 5}, {Rating: 3}}
		if got := AverageRating(entries); got != 4 {
			t.Errorf("expected 4, got %v", got)
		}
	})
}

func TestValidRating(t *testing.T) {
	for r := -1; r <= 6; r++ {
		want := r >= 1 && r <= 5
		if got := ValidRating(r); got != want {
			t.Errorf("ValidRating(%d) = %v, want %v", r, got, want)
		}
	}
}

func TestActivity(t *testing.T) {
	t.Run("successful activity", func(t *testing.T) {
		a := NewActivity(1, ActionMarkViewed, 10, 4, nil)
		if !a.Success() || a.Error() != "" {
			t.Errorf("expected success without error, got success=%v err=%q", a.Success(), a.Error())
		}
		if err := a.Validate(); err != nil {
			t.Errorf("expected valid activity, got %v", err)
		}
	})

	t.Run("failed activity keeps message", func(t *testing.T) {
		a := NewActivity(1, ActionAddWatchlist, 10, 0, errors.New("status 500"))
		if a.Success() {
			t.Error("expected failure")
		}
		if a.Error() != "status 500" {
			t.Errorf("expected error message, got %q", a.Error())
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name     string
			activity *Activity
		}{
			{name: "zero user", activity: NewActivity(0, ActionAddWatchlist, 1, 0, nil)},
			{name: "unknown action", activity: NewActivity(1, Action("bogus"), 1, 0, nil)},
			{name: "zero movie", activity: NewActivity(1, ActionRemoveViewed, 0, 0, nil)},
			{name: "viewed without rating", activity: NewActivity(1, ActionMarkViewed, 1, 0, nil)},
		}
		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				if err := tt.activity.Validate(); err == nil {
					t.Error("expected validation error")
				}
			})
		}
	})
}
