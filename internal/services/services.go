// package services defines interface CollectionService for the movie catalog HTTP API
package services

import (
	"context"

	"github.com/desertthunder/reelx/internal/models"
)

// CollectionService defines the remote catalog and per-user collection operations.
type CollectionService interface {
	// ListMovies retrieves the full catalog at summary detail.
	ListMovies(ctx context.Context) ([]models.Movie, error)

	// GetMovie retrieves a single movie at the requested detail level.
	GetMovie(ctx context.Context, movieID int, level models.DetailLevel) (*models.Movie, error)

	GetWatchlist(ctx context.Context, userID models.UserID) ([]models.Movie, error)
	AddToWatchlist(ctx context.Context, userID models.UserID, movieID int) (*Record, error)
	RemoveFromWatchlist(ctx context.Context, userID models.UserID, movieID int) error

	GetViewed(ctx context.Context, userID models.UserID) ([]models.ViewedEntry, error)

	// UpsertViewed creates or replaces the rating for movieID.
	UpsertViewed(ctx context.Context, userID models.UserID, movieID, rating int) (*Record, error)
	RemoveFromViewed(ctx context.Context, userID models.UserID, movieID int) error
}

// Record is the acknowledgement body returned by mutation endpoints.
type Record struct {
	Message string `json:"message"`
}

type watchlistRequest struct {
	MovieID int `json:"movie_id"`
}

type viewedRequest struct {
	MovieID int `json:"movie_id"`
	Rating  int `json:"rating"`
}
