// package catalog holds the summary movie catalog and the title search filter.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/services"
	"github.com/desertthunder/reelx/internal/shared"
)

// Store is the in-memory summary catalog.
//
// Detail fetches go to the service on every call and are never cached.
type Store struct {
	mu      sync.RWMutex
	service services.CollectionService
	logger  *log.Logger
	movies  []models.Movie
	loaded  bool
}

// NewStore creates an empty catalog backed by service.
func NewStore(service services.CollectionService, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{service: service, logger: logger}
}

// Load fetches the catalog and replaces the loaded copy.
//
// Any failure is reported as [shared.ErrNetworkFailure]; the previous catalog is kept.
func (s *Store) Load(ctx context.Context) ([]models.Movie, error) {
	movies, err := s.service.ListMovies(ctx)
	if err != nil {
		s.logger.Error("catalog load failed", "error", err)
		if errors.Is(err, shared.ErrNetworkFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", shared.ErrNetworkFailure, err)
	}

	s.mu.Lock()
	s.movies = movies
	s.loaded = true
	s.mu.Unlock()

	s.logger.Debug("catalog loaded", "count", len(movies))
	return append([]models.Movie(nil), movies...), nil
}

// LoadDetail fetches one movie at complex detail.
//
// A missing movie is [shared.ErrNotFound]; everything else is [shared.ErrNetworkFailure].
func (s *Store) LoadDetail(ctx context.Context, movieID int) (*models.Movie, error) {
	movie, err := s.service.GetMovie(ctx, movieID, models.DetailComplex)
	switch {
	case err == nil:
		return movie, nil
	case errors.Is(err, shared.ErrNotFound), errors.Is(err, shared.ErrNetworkFailure):
		return nil, err
	default:
		return nil, fmt.Errorf("%w: %w", shared.ErrNetworkFailure, err)
	}
}

// Movies returns a copy of the loaded catalog in service order.
func (s *Store) Movies() []models.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Movie(nil), s.movies...)
}

// Loaded reports whether a catalog load has succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Find looks up a movie by id in the loaded catalog.
func (s *Store) Find(movieID int) (models.Movie, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Lookup(s.movies, movieID)
}

// Lookup finds movieID in movies.
func Lookup(movies []models.Movie, movieID int) (models.Movie, bool) {
	for _, m := range movies {
		if m.ID == movieID {
			return m, true
		}
	}
	return models.Movie{}, false
}

// Filter returns the movies whose display title contains query, ignoring case.
//
// An empty query returns movies unchanged.
func Filter(movies []models.Movie, query string) []models.Movie {
	if query == "" {
		return movies
	}

	needle := strings.ToLower(query)
	matched := make([]models.Movie, 0, len(movies))
	for _, m := range movies {
		if strings.Contains(strings.ToLower(m.DisplayTitle()), needle) {
			matched = append(matched, m)
		}
	}
	return matched
}
