// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/services"
	"github.com/desertthunder/reelx/internal/shared"
)

var _ services.CollectionService = (*FakeService)(nil)

// FakeService is an in-memory test double for [services.CollectionService].
//
// Set a method name in Fail (e.g. "AddToWatchlist") to make that call return [shared.ErrNetworkFailure].
// Calls counts every invocation by method name.
type FakeService struct {
	mu        sync.Mutex
	Catalog   []models.Movie
	Watchlist map[models.UserID][]models.Movie
	Viewed    map[models.UserID][]models.ViewedEntry
	Fail      map[string]bool
	Calls     map[string]int
	gates     map[string]chan struct{}
}

// NewFakeService creates a FakeService seeded with catalog.
func NewFakeService(catalog ...models.Movie) *FakeService {
	return &FakeService{
		Catalog:   catalog,
		Watchlist: map[models.UserID][]models.Movie{},
		Viewed:    map[models.UserID][]models.ViewedEntry{},
		Fail:      map[string]bool{},
		Calls:     map[string]int{},
		gates:     map[string]chan struct{}{},
	}
}

// SetFail toggles failure injection for a method.
func (f *FakeService) SetFail(method string, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Fail[method] = fail
}

// CallCount returns how many times method was invoked.
func (f *FakeService) CallCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[method]
}

// Gate makes every later call to method block until a value is sent on the returned channel,
// so tests can choose the order in which in-flight calls resolve.
func (f *FakeService) Gate(method string) chan<- struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := make(chan struct{})
	f.gates[method] = g
	return g
}

func (f *FakeService) wait(ctx context.Context, method string) error {
	f.mu.Lock()
	g := f.gates[method]
	f.mu.Unlock()
	if g == nil {
		return nil
	}
	select {
	case <-g:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %s: %w", shared.ErrNetworkFailure, method, ctx.Err())
	}
}

func (f *FakeService) enter(method string) error {
	f.Calls[method]++
	if f.Fail[method] {
		return fmt.Errorf("%w: %s: status 500", shared.ErrNetworkFailure, method)
	}
	return nil
}

func (f *FakeService) find(id int) (models.Movie, bool) {
	for _, m := range f.Catalog {
		if m.ID == id {
			return m, true
		}
	}
	return models.Movie{}, false
}

func (f *FakeService) ListMovies(ctx context.Context) ([]models.Movie, error) {
	if err := f.wait(ctx, "ListMovies"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListMovies"); err != nil {
		return nil, err
	}
	return append([]models.Movie{}, f.Catalog...), nil
}

func (f *FakeService) GetMovie(ctx context.Context, movieID int, level models.DetailLevel) (*models.Movie, error) {
	if err := f.wait(ctx, "GetMovie"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetMovie"); err != nil {
		return nil, err
	}
	m, ok := f.find(movieID)
	if !ok {
		return nil, fmt.Errorf("%w: id %d", shared.ErrNotFound, movieID)
	}
	if level != models.DetailComplex {
		m.Genre, m.Director, m.Synopsis = "", "", ""
	}
	return &m, nil
}

func (f *FakeService) GetWatchlist(ctx context.Context, userID models.UserID) ([]models.Movie, error) {
	if err := f.wait(ctx, "GetWatchlist"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetWatchlist"); err != nil {
		return nil, err
	}
	return append([]models.Movie{}, f.Watchlist[userID]...), nil
}

func (f *FakeService) AddToWatchlist(ctx context.Context, userID models.UserID, movieID int) (*services.Record, error) {
	if err := f.wait(ctx, "AddToWatchlist"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("AddToWatchlist"); err != nil {
		return nil, err
	}
	for _, m := range f.Watchlist[userID] {
		if m.ID == movieID {
			return &services.Record{Message: "Already in watchlist"}, nil
		}
	}
	if m, ok := f.find(movieID); ok {
		f.Watchlist[userID] = append(f.Watchlist[userID], m)
	}
	return &services.Record{Message: "Added to watchlist"}, nil
}

func (f *FakeService) RemoveFromWatchlist(ctx context.Context, userID models.UserID, movieID int) error {
	if err := f.wait(ctx, "RemoveFromWatchlist"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("RemoveFromWatchlist"); err != nil {
		return err
	}
	kept := f.Watchlist[userID][:0]
	for _, m := range f.Watchlist[userID] {
		if m.ID != movieID {
			kept = append(kept, m)
		}
	}
	f.Watchlist[userID] = kept
	return nil
}

func (f *FakeService) GetViewed(ctx context.Context, userID models.UserID) ([]models.ViewedEntry, error) {
	if err := f.wait(ctx, "GetViewed"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetViewed"); err != nil {
		return nil, err
	}
	return append([]models.ViewedEntry{}, f.Viewed[userID]...), nil
}

func (f *FakeService) UpsertViewed(ctx context.Context, userID models.UserID, movieID, rating int) (*services.Record, error) {
	if err := f.wait(ctx, "UpsertViewed"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UpsertViewed"); err != nil {
		return nil, err
	}
	for i, v := range f.Viewed[userID] {
		if v.ID == movieID {
			f.Viewed[userID][i].Rating = rating
			return &services.Record{Message: "Rating updated"}, nil
		}
	}
	m, _ := f.find(movieID)
	m.ID = movieID
	f.Viewed[userID] = append(f.Viewed[userID], models.ViewedEntry{Movie: m, Rating: rating})
	return &services.Record{Message: "Marked as viewed"}, nil
}

func (f *FakeService) RemoveFromViewed(ctx context.Context, userID models.UserID, movieID int) error {
	if err := f.wait(ctx, "RemoveFromViewed"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("RemoveFromViewed"); err != nil {
		return err
	}
	kept := f.Viewed[userID][:0]
	for _, v := range f.Viewed[userID] {
		if v.ID != movieID {
			kept = append(kept, v)
		}
	}
	f.Viewed[userID] = kept
	return nil
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}
