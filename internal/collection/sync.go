// package collection keeps the user's watchlist and viewed list in step with the remote service.
//
// Every mutation is confirm-then-reflect: local state changes only after the service
// acknowledges the call, so a failed call leaves both collections untouched.
package collection

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/services"
	"github.com/desertthunder/reelx/internal/shared"
)

// Recorder receives one [models.Activity] per mutation attempt.
type Recorder interface {
	Record(ctx context.Context, activity *models.Activity) error
}

// SyncOpts configures a [Sync].
type SyncOpts struct {
	Service  services.CollectionService
	UserID   models.UserID
	Logger   *log.Logger
	Recorder Recorder // optional
}

// Sync owns the in-memory watchlist and viewed collections for one user.
type Sync struct {
	mu       sync.RWMutex
	service  services.CollectionService
	userID   models.UserID
	logger   *log.Logger
	recorder Recorder

	watchlist []models.Movie
	viewed    []models.ViewedEntry

	watchlistUnavailable bool
	viewedUnavailable    bool
}

// NewSync creates an empty Sync for opts.UserID.
func NewSync(opts SyncOpts) *Sync {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Sync{
		service:   opts.Service,
		userID:    opts.UserID,
		logger:    shared.WithLogger(logger, "user", opts.UserID),
		recorder:  opts.Recorder,
		watchlist: []models.Movie{},
		viewed:    []models.ViewedEntry{},
	}
}

// UserID returns the user this Sync was created for.
func (s *Sync) UserID() models.UserID { return s.userID }

// LoadWatchlist replaces the watchlist with the service's copy.
//
// On failure the watchlist becomes empty and [Sync.WatchlistUnavailable] reports true.
func (s *Sync) LoadWatchlist(ctx context.Context) ([]models.Movie, error) {
	movies, err := s.service.GetWatchlist(ctx, s.userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.logger.Warn("watchlist unavailable", "error", err)
		s.watchlist = []models.Movie{}
		s.watchlistUnavailable = true
		return nil, err
	}

	s.watchlist = slices.Clone(movies)
	s.watchlistUnavailable = false
	return slices.Clone(movies), nil
}

// LoadViewed replaces the viewed list with the service's copy.
//
// On failure the list becomes empty and [Sync.ViewedUnavailable] reports true.
func (s *Sync) LoadViewed(ctx context.Context) ([]models.ViewedEntry, error) {
	entries, err := s.service.GetViewed(ctx, s.userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.logger.Warn("viewed list unavailable", "error", err)
		s.viewed = []models.ViewedEntry{}
		s.viewedUnavailable = true
		return nil, err
	}

	s.viewed = slices.Clone(entries)
	s.viewedUnavailable = false
	return slices.Clone(entries), nil
}

// WatchlistUnavailable reports whether the last watchlist load failed.
func (s *Sync) WatchlistUnavailable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.watchlistUnavailable
}

// ViewedUnavailable reports whether the last viewed load failed.
func (s *Sync) ViewedUnavailable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewedUnavailable
}

// AddToWatchlist asks the service to add movieID, then appends the matching catalog movie.
//
// A movieID missing from catalog is still sent; only the local append is skipped.
// Failures are logged and returned with the watchlist untouched.
func (s *Sync) AddToWatchlist(ctx context.Context, movieID int, catalog []models.Movie) error {
	_, err := s.service.AddToWatchlist(ctx, s.userID, movieID)
	s.record(ctx, models.ActionAddWatchlist, movieID, 0, err)
	if err != nil {
		s.logger.Error("add to watchlist failed", "movie", movieID, "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range catalog {
		if m.ID == movieID {
			s.watchlist = append(s.watchlist, m)
			break
		}
	}
	return nil
}

// RemoveFromWatchlist asks the service to remove movieID, then filters it out locally.
func (s *Sync) RemoveFromWatchlist(ctx context.Context, movieID int) error {
	err := s.service.RemoveFromWatchlist(ctx, s.userID, movieID)
	s.record(ctx, models.ActionRemoveWatchlist, movieID, 0, err)
	if err != nil {
		s.logger.Error("remove from watchlist failed", "movie", movieID, "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchlist = withoutMovie(s.watchlist, movieID)
	return nil
}

// MarkViewed records rating for movie and drops it from the local watchlist.
//
// The watchlist removal is local only: no watchlist DELETE is sent, so a later
// [Sync.LoadWatchlist] may return the movie again unless the service unlinks it itself.
func (s *Sync) MarkViewed(ctx context.Context, movie models.Movie, rating int) error {
	if !models.ValidRating(rating) {
		return fmt.Errorf("%w: got %d", shared.ErrInvalidRating, rating)
	}

	_, err := s.service.UpsertViewed(ctx, s.userID, movie.ID, rating)
	s.record(ctx, models.ActionMarkViewed, movie.ID, rating, err)
	if err != nil {
		s.logger.Error("mark viewed failed", "movie", movie.ID, "rating", rating, "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.IndexFunc(s.viewed, func(v models.ViewedEntry) bool { return v.ID == movie.ID }); i >= 0 {
		s.viewed[i].Rating = rating
	} else {
		s.viewed = append(s.viewed, models.ViewedEntry{Movie: movie, Rating: rating})
	}
	s.watchlist = withoutMovie(s.watchlist, movie.ID)
	return nil
}

// RemoveFromViewed asks the service to delete the rating, then filters it out locally.
func (s *Sync) RemoveFromViewed(ctx context.Context, movieID int) error {
	err := s.service.RemoveFromViewed(ctx, s.userID, movieID)
	s.record(ctx, models.ActionRemoveViewed, movieID, 0, err)
	if err != nil {
		s.logger.Error("remove from viewed failed", "movie", movieID, "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewed = slices.DeleteFunc(slices.Clone(s.viewed), func(v models.ViewedEntry) bool { return v.ID == movieID })
	return nil
}

// Watchlist returns a copy of the watchlist in service order.
func (s *Sync) Watchlist() []models.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.watchlist)
}

// Viewed returns a copy of the viewed list in service order.
func (s *Sync) Viewed() []models.ViewedEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.viewed)
}

// WatchlistIDs returns the membership set of the current watchlist.
func (s *Sync) WatchlistIDs() map[int]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return MembershipSet(s.watchlist)
}

// InWatchlist reports whether movieID is on the current watchlist.
func (s *Sync) InWatchlist(movieID int) bool {
	_, ok := s.WatchlistIDs()[movieID]
	return ok
}

// Rating returns the current rating for movieID, or 0 when it is not viewed.
func (s *Sync) Rating(movieID int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.viewed {
		if v.ID == movieID {
			return v.Rating
		}
	}
	return 0
}

// Snapshot copies both collections.
func (s *Sync) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Snapshot{
		Watchlist: slices.Clone(s.watchlist),
		Viewed:    slices.Clone(s.viewed),
	}
}

// MembershipSet derives the id set of movies.
func MembershipSet(movies []models.Movie) map[int]struct{} {
	set := make(map[int]struct{}, len(movies))
	for _, m := range movies {
		set[m.ID] = struct{}{}
	}
	return set
}

func (s *Sync) record(ctx context.Context, action models.Action, movieID, rating int, opErr error) {
	if s.recorder == nil {
		return
	}
	activity := models.NewActivity(s.userID, action, movieID, rating, opErr)
	if err := s.recorder.Record(ctx, activity); err != nil {
		s.logger.Warn("failed to record activity", "action", action, "movie", movieID, "error", err)
	}
}

func withoutMovie(movies []models.Movie, movieID int) []models.Movie {
	return slices.DeleteFunc(slices.Clone(movies), func(m models.Movie) bool { return m.ID == movieID })
}
