package tasks

import (
	"context"

	"github.com/desertthunder/reelx/internal/catalog"
	"github.com/desertthunder/reelx/internal/collection"
	"github.com/desertthunder/reelx/internal/models"
	"github.com/sourcegraph/conc"
)

// SessionResult is the outcome of [SessionLoader.Load].
type SessionResult struct {
	Catalog      []models.Movie
	Snapshot     models.Snapshot
	WatchlistErr error // non-nil when the watchlist is unavailable
	ViewedErr    error // non-nil when the viewed list is unavailable
}

// WatchlistUnavailable reports whether the watchlist load failed.
func (r *SessionResult) WatchlistUnavailable() bool { return r.WatchlistErr != nil }

// ViewedUnavailable reports whether the viewed load failed.
func (r *SessionResult) ViewedUnavailable() bool { return r.ViewedErr != nil }

// SessionLoader performs the session start loads.
type SessionLoader struct {
	catalog *catalog.Store
	sync    *collection.Sync
}

// NewSessionLoader creates a loader over store and sync.
func NewSessionLoader(store *catalog.Store, sync *collection.Sync) *SessionLoader {
	return &SessionLoader{catalog: store, sync: sync}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Load fetches the catalog, watchlist, and viewed list concurrently.
//
// A catalog failure is returned as the error. Collection failures are tolerated:
// they are reported in the result and leave the matching collection empty.
func (l *SessionLoader) Load(ctx context.Context, progress chan<- ProgressUpdate) (*SessionResult, error) {
	result := &SessionResult{}
	var catalogErr error
	var wg conc.WaitGroup

	wg.Go(func() {
		sendProgress(progress, loadStartedUpdate(LoadCatalog))
		result.Catalog, catalogErr = l.catalog.Load(ctx)
		sendProgress(progress, loadFinishedUpdate(LoadCatalog, len(result.Catalog), catalogErr))
	})
	wg.Go(func() {
		sendProgress(progress, loadStartedUpdate(LoadWatchlist))
		movies, err := l.sync.LoadWatchlist(ctx)
		result.WatchlistErr = err
		sendProgress(progress, loadFinishedUpdate(LoadWatchlist, len(movies), err))
	})
	wg.Go(func() {
		sendProgress(progress, loadStartedUpdate(LoadViewed))
		entries, err := l.sync.LoadViewed(ctx)
		result.ViewedErr = err
		sendProgress(progress, loadFinishedUpdate(LoadViewed, len(entries), err))
	})
	wg.Wait()

	result.Snapshot = l.sync.Snapshot()
	if catalogErr != nil {
		return result, catalogErr
	}

	sendProgress(progress, sessionReadyUpdate(result))
	return result, nil
}

// LoadCollections reloads only the watchlist and viewed list, concurrently.
func (l *SessionLoader) LoadCollections(ctx context.Context) (watchlistErr, viewedErr error) {
	var wg conc.WaitGroup

	wg.Go(func() {
		_, watchlistErr = l.sync.LoadWatchlist(ctx)
	})
	wg.Go(func() {
		_, viewedErr = l.sync.LoadViewed(ctx)
	})
	wg.Wait()
	return watchlistErr, viewedErr
}
