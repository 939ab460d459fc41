package collection

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/shared"
	tu "github.com/desertthunder/reelx/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser models.UserID = 1

var (
	heat  = models.Movie{ID: 1, Title: "Heat", Year: 1995}
	se7en = models.Movie{ID: 2, Title: "Se7en", Year: 1995}
)

type memRecorder struct {
	mu         sync.Mutex
	activities []*models.Activity
	err        error
}

func (r *memRecorder) Record(_ context.Context, a *models.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activities = append(r.activities, a)
	return r.err
}

func newSync(t *testing.T, svc *tu.FakeService, rec Recorder) *Sync {
	t.Helper()
	return NewSync(SyncOpts{
		Service:  svc,
		UserID:   testUser,
		Logger:   shared.NewLogger(io.Discard),
		Recorder: rec,
	})
}

func watchlistIDs(s *Sync) []int {
	ids := []int{}
	for _, m := range s.Watchlist() {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestSync(t *testing.T) {
	ctx := context.Background()
	catalog := []models.Movie{heat, se7en}

	t.Run("LoadWatchlist", func(t *testing.T) {
		t.Run("Replaces Wholesale", func(t *testing.T) {
			svc := tu.NewFakeService(catalog...)
			svc.Watchlist[testUser] = []models.Movie{se7en, heat}
			s := newSync(t, svc, nil)

			movies, err := s.LoadWatchlist(ctx)
			require.NoError(t, err)
			assert.Len(t, movies, 2)
			assert.Equal(t, []int{2, 1}, watchlistIDs(s), "service order must be preserved")
			assert.False(t, s.WatchlistUnavailable())
		})

		t.Run("Failure Empties And Flags", func(t *testing.T) {
			svc := tu.NewFakeService(catalog...)
			svc.Watchlist[testUser] = []models.Movie{heat}
			s := newSync(t, svc, nil)
			_, err := s.LoadWatchlist(ctx)
			require.NoError(t, err)

			svc.SetFail("GetWatchlist", true)
			_, err = s.LoadWatchlist(ctx)
			assert.ErrorIs(t, err, shared.ErrNetworkFailure)
			assert.Empty(t, s.Watchlist())
			assert.Empty(t, s.WatchlistIDs())
			assert.True(t, s.WatchlistUnavailable())
		})

		t.Run("Success Clears Flag", func(t *testing.T) {
			svc := tu.NewFakeService(catalog...)
			svc.SetFail("GetWatchlist", true)
			s := newSync(t, svc, nil)
			_, _ = s.LoadWatchlist(ctx)
			require.True(t, s.WatchlistUnavailable())

			svc.SetFail("GetWatchlist", false)
			_, err := s.LoadWatchlist(ctx)
			require.NoError(t, err)
			assert.False(t, s.WatchlistUnavailable())
		})
	})

	t.Run("LoadViewed", func(t *testing.T) {
		t.Run("Replaces Wholesale", func(t *testing.T) {
			svc := tu.NewFakeService(catalog...)
			svc.Viewed[testUser] = []models.ViewedEntry{{Movie: se7en, Rating: 5}}
			s := newSync(t, svc, nil)

			_, err := s.LoadViewed(ctx)
			require.NoError(t, err)
			assert.Equal(t, 5, s.Rating(2))
			assert.False(t, s.ViewedUnavailable())
		})

		t.Run("Failure Empties And Flags", func(t *testing.T) {
			svc := tu.NewFakeService(catalog...)
			svc.SetFail("GetViewed", true)
			s := newSync(t, svc, nil)

			_, err := s.LoadViewed(ctx)
			assert.ErrorIs(t, err, shared.ErrNetworkFailure)
			assert.Empty(t, s.Viewed())
			assert.True(t, s.ViewedUnavailable())
		})
	})

	t.Run("AddToWatchlist", func(t *testing.T) {
		t.Run("Appends Catalog Movie", func(t *testing.T) {
			svc := tu.NewFakeService(catalog...)
			s := newSync(t, svc, nil)

			require.NoError(t, s.AddToWatchlist(ctx, 1, catalog))
			assert.Equal(t, []int{1}, watchlistIDs(s))
			assert.True(t, s.InWatchlist(1))
			assert.False(t, s.InWatchlist(2))
		})

		t.Run("Round Trips Through Reload", func(t *testing.T) {
			svc := tu.NewFakeService(catalog...)
			s := newSync(t, svc, nil)

			require.NoError(t, s.AddToWatchlist(ctx, 2, catalog))
			movies, err := s.LoadWatchlist(ctx)
			require.NoError(t, err)
			assert.Contains(t, MembershipSet(movies), 2)
		})

		t.Run("Failure Leaves State Unchanged", func(t *testing.T) {
			svc := tu.NewFakeService(catalog...)
			s := newSync(t, svc, nil)
			require.NoError(t, s.AddToWatchlist(ctx, 2, catalog))
			before := s.Snapshot()

			svc.SetFail("AddToWatchlist", true)
			err := s.AddToWatchlist(ctx, 1, catalog)
			assert.ErrorIs(t, err, shared.ErrNetworkFailure)
			assert.Equal(t, before, s.Snapshot())
			assert.Equal(t, 2, svc.CallCount("AddToWatchlist"), "no automatic retry")
		})

		t.Run("Unknown To Catalog Skips Local Append", func(t *testing.T) {
			svc := tu.NewFakeService(catalog...)
			s := newSync(t, svc, nil)

			require.NoError(t, s.AddToWatchlist(ctx, 99, catalog))
			assert.Empty(t, s.Watchlist())
			assert.Equal(t, 1, svc.CallCount("AddToWatchlist"))
		})
	})

	t.Run("RemoveFromWatchlist", func(t *testing.T) {
		t.Run("Filters Member", func(t *testing.T) {
			svc := tu.NewFakeService(catalog...)
			svc.Watchlist[testUser] = []models.Movie{heat, se7en}
			s := newSync(t, svc, nil)
			_, err := s.LoadWatchlist(ctx)
			require.NoError(t, err)

			require.NoError(t, s.RemoveFromWatchlist(ctx, 1))
			assert.Equal(t, []int{2}, watchlistIDs(s))
			assert.NotContains(t, s.WatchlistIDs(), 1)
		})

		t.Run("Non Member Succeeds Without Change", func(t *testing.T) {
			svc := tu.NewFakeService(catalog...)
			svc.Watchlist[testUser] = []models.Movie{heat}
			s := newSync(t, svc, nil)
			_, err := s.LoadWatchlist(ctx)
			require.NoError(t, err)

			require.NoError(t, s.RemoveFromWatchlist(ctx, 2))
			assert.Equal(t, []int{1}, watchlistIDs(s))
		})

		t.Run("Failure Leaves State Unchanged", func(t *testing.T) {
			svc := tu.NewFakeService(catalog...)
			svc.Watchlist[testUser] = []models.Movie{heat}
			s := newSync(t, svc, nil)
			_, err := s.LoadWatchlist(ctx)
			require.NoError(t, err)

			svc.SetFail("RemoveFromWatchlist", true)
			err = s.RemoveFromWatchlist(ctx, 1)
			assert.ErrorIs(t, err, shared.ErrNetworkFailure)
			assert.Equal(t, []int{1}, watchlistIDs(s))
		})
	})

	t.Run("MarkViewed", func(t *testing.T) {
		t.Run("Removes From Local Watchlist Only", func(t *testing.T) {
			svc := tu.NewFakeService(catalog...)
			svc.Watchlist[testUser] = []models.Movie{heat, se7en}
			s := newSync(t, svc, nil)
			_, err := s.LoadWatchlist(ctx)
			require.NoError(t, err)

			require.NoError(t, s.MarkViewed(ctx, heat, 4))
			assert.Equal(t, []int{2}, watchlistIDs(s))
			assert.Equal(t, 4, s.Rating(1))
			assert.Zero(t, svc.CallCount("RemoveFromWatchlist"), "no remote watchlist removal")

			movies, err := s.LoadWatchlist(ctx)
			require.NoError(t, err)
			assert.Contains(t, MembershipSet(movies), 1, "movie reappears after reload")
		})

		t.Run("Not Previously In Watchlist", func(t *testing.T) {
			svc := tu.NewFakeService(catalog...)
			s := newSync(t, svc, nil)

			require.NoError(t, s.MarkViewed(ctx, se7en, 2))
			assert.Empty(t, s.Watchlist())
			assert.Equal(t, 2, s.Rating(2))
		})

		t.Run("Upserts In Place", func(t *testing.T) {
			svc := tu.NewFakeService(catalog...)
			s := newSync(t, svc, nil)

			require.NoError(t, s.MarkViewed(ctx, heat, 2))
			require.NoError(t, s.MarkViewed(ctx, se7en, 3))
			require.NoError(t, s.MarkViewed(ctx, heat, 5))

			viewed := s.Viewed()
			require.Len(t, viewed, 2)
			assert.Equal(t, 1, viewed[0].ID)
			assert.Equal(t, 5, viewed[0].Rating)
			assert.Equal(t, 2, viewed[1].ID)
		})

		t.Run("Failure Leaves Both Collections Unchanged", func(t *testing.T) {
			svc := tu.NewFakeService(catalog...)
			svc.Watchlist[testUser] = []models.Movie{heat}
			s := newSync(t, svc, nil)
			_, err := s.LoadWatchlist(ctx)
			require.NoError(t, err)
			before := s.Snapshot()

			svc.SetFail("UpsertViewed", true)
			err = s.MarkViewed(ctx, heat, 4)
			assert.ErrorIs(t, err, shared.ErrNetworkFailure)
			assert.Equal(t, before, s.Snapshot())
		})

		t.Run("Invalid Rating Rejected Locally", func(t *testing.T) {
			for _, r := range []int{0, -1, 6} {
				svc := tu.NewFakeService(catalog...)
				s := newSync(t, svc, nil)

				err := s.MarkViewed(ctx, heat, r)
				assert.ErrorIs(t, err, shared.ErrInvalidRating)
				assert.Zero(t, svc.CallCount("UpsertViewed"))
			}
		})
	})

	t.Run("RemoveFromViewed", func(t *testing.T) {
		t.Run("Filters Entry", func(t *testing.T) {
			svc := tu.NewFakeService(catalog...)
			s := newSync(t, svc, nil)
			require.NoError(t, s.MarkViewed(ctx, heat, 3))

			require.NoError(t, s.RemoveFromViewed(ctx, 1))
			assert.Empty(t, s.Viewed())
		})

		t.Run("Failure Leaves State Unchanged", func(t *testing.T) {
			svc := tu.NewFakeService(catalog...)
			s := newSync(t, svc, nil)
			require.NoError(t, s.MarkViewed(ctx, heat, 3))

			svc.SetFail("RemoveFromViewed", true)
			assert.ErrorIs(t, s.RemoveFromViewed(ctx, 1), shared.ErrNetworkFailure)
			assert.Len(t, s.Viewed(), 1)
		})
	})

	t.Run("Recorder", func(t *testing.T) {
		t.Run("Journals Every Attempt", func(t *testing.T) {
			svc := tu.NewFakeService(catalog...)
			rec := &memRecorder{}
			s := newSync(t, svc, rec)

			require.NoError(t, s.AddToWatchlist(ctx, 1, catalog))
			svc.SetFail("RemoveFromWatchlist", true)
			_ = s.RemoveFromWatchlist(ctx, 1)
			require.NoError(t, s.MarkViewed(ctx, heat, 4))

			require.Len(t, rec.activities, 3)
			assert.Equal(t, models.ActionAddWatchlist, rec.activities[0].Action())
			assert.True(t, rec.activities[0].Success())
			assert.Equal(t, models.ActionRemoveWatchlist, rec.activities[1].Action())
			assert.False(t, rec.activities[1].Success())
			assert.NotEmpty(t, rec.activities[1].Error())
			assert.Equal(t, models.ActionMarkViewed, rec.activities[2].Action())
			assert.Equal(t, 4, rec.activities[2].Rating())
			assert.Equal(t, testUser, rec.activities[2].UserID())
		})

		t.Run("Errors Do Not Change Outcome", func(t *testing.T) {
			svc := tu.NewFakeService(catalog...)
			rec := &memRecorder{err: errors.New("disk full")}
			s := newSync(t, svc, rec)

			require.NoError(t, s.AddToWatchlist(ctx, 1, catalog))
			assert.True(t, s.InWatchlist(1))
		})
	})

	t.Run("Snapshot Is A Copy", func(t *testing.T) {
		svc := tu.NewFakeService(catalog...)
		s := newSync(t, svc, nil)
		require.NoError(t, s.AddToWatchlist(ctx, 1, catalog))

		snap := s.Snapshot()
		snap.Watchlist[0].Title = "changed"
		assert.Equal(t, "Heat", s.Watchlist()[0].Title)
	})

	t.Run("Scenario", func(t *testing.T) {
		t.Run("Add Then Mark Viewed Then Remove", func(t *testing.T) {
			svc := tu.NewFakeService(catalog...)
			s := newSync(t, svc, nil)
			_, err := s.LoadWatchlist(ctx)
			require.NoError(t, err)

			require.NoError(t, s.AddToWatchlist(ctx, 1, catalog))
			assert.Equal(t, map[int]struct{}{1: {}}, s.WatchlistIDs())

			require.NoError(t, s.MarkViewed(ctx, heat, 4))
			assert.Empty(t, s.Watchlist())
			viewed := s.Viewed()
			require.Len(t, viewed, 1)
			assert.Equal(t, 1, viewed[0].ID)
			assert.Equal(t, 4, viewed[0].Rating)

			require.NoError(t, s.RemoveFromViewed(ctx, 1))
			assert.Empty(t, s.Viewed())
		})

		t.Run("Watchlist Load Failure Degrades", func(t *testing.T) {
			svc := tu.NewFakeService(catalog...)
			svc.SetFail("GetWatchlist", true)
			s := newSync(t, svc, nil)

			_, err := s.LoadWatchlist(ctx)
			assert.ErrorIs(t, err, shared.ErrNetworkFailure)
			assert.Empty(t, s.Watchlist())
			assert.True(t, s.WatchlistUnavailable())

			movies, err := svc.ListMovies(ctx)
			require.NoError(t, err)
			assert.Len(t, movies, 2)
			require.NoError(t, s.MarkViewed(ctx, se7en, 5))
		})
	})
}

func TestMembershipSet(t *testing.T) {
	assert.Empty(t, MembershipSet(nil))
	assert.Equal(t, map[int]struct{}{1: {}, 2: {}}, MembershipSet([]models.Movie{heat, se7en}))
}

func TestSyncOutOfOrderResponses(t *testing.T) {
	ctx := context.Background()
	catalog := []models.Movie{heat, se7en}

	tests := []struct {
		name          string
		resolveFirst  string
		resolveSecond string
		wantMember    bool
	}{
		{"Add Resolves Last", "RemoveFromWatchlist", "AddToWatchlist", true},
		{"Remove Resolves Last", "AddToWatchlist", "RemoveFromWatchlist", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := tu.NewFakeService(catalog...)
			s := newSync(t, svc, nil)

			gates := map[string]chan<- struct{}{
				"AddToWatchlist":      svc.Gate("AddToWatchlist"),
				"RemoveFromWatchlist": svc.Gate("RemoveFromWatchlist"),
			}
			done := map[string]chan error{
				"AddToWatchlist":      make(chan error, 1),
				"RemoveFromWatchlist": make(chan error, 1),
			}

			go func() { done["AddToWatchlist"] <- s.AddToWatchlist(ctx, heat.ID, catalog) }()
			go func() { done["RemoveFromWatchlist"] <- s.RemoveFromWatchlist(ctx, heat.ID) }()

			for _, method := range []string{tt.resolveFirst, tt.resolveSecond} {
				gates[method] <- struct{}{}
				require.NoError(t, <-done[method], method)
			}

			assert.Equal(t, tt.wantMember, s.InWatchlist(heat.ID))
			_, inSet := s.WatchlistIDs()[heat.ID]
			assert.Equal(t, tt.wantMember, inSet)
			assert.Equal(t, tt.wantMember, len(s.Watchlist()) == 1)
		})
	}
}

// retainingService hands out its own backing slices, like a cache-backed client might.
type retainingService struct {
	*tu.FakeService
	watchlist []models.Movie
	viewed    []models.ViewedEntry
}

func (r *retainingService) GetWatchlist(context.Context, models.UserID) ([]models.Movie, error) {
	return r.watchlist, nil
}

func (r *retainingService) GetViewed(context.Context, models.UserID) ([]models.ViewedEntry, error) {
	return r.viewed, nil
}

func TestSyncDoesNotAliasServiceSlices(t *testing.T) {
	ctx := context.Background()
	catalog := []models.Movie{heat, se7en}

	watchlist := make([]models.Movie, 1, 4)
	watchlist[0] = heat
	svc := &retainingService{
		FakeService: tu.NewFakeService(catalog...),
		watchlist:   watchlist,
		viewed:      []models.ViewedEntry{{Movie: se7en, Rating: 5}},
	}
	s := NewSync(SyncOpts{Service: svc, UserID: testUser, Logger: shared.NewLogger(io.Discard)})

	_, err := s.LoadWatchlist(ctx)
	require.NoError(t, err)
	_, err = s.LoadViewed(ctx)
	require.NoError(t, err)

	require.NoError(t, s.MarkViewed(ctx, se7en, 2))
	assert.Equal(t, 5, svc.viewed[0].Rating, "rating rewrite leaked into the service's slice")
	assert.Equal(t, 2, s.Rating(se7en.ID))

	require.NoError(t, s.AddToWatchlist(ctx, se7en.ID, catalog))
	assert.Zero(t, svc.watchlist[:2][1], "append leaked into the service's backing array")
	assert.Len(t, s.Watchlist(), 2)
}
