package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/reelx/internal/catalog"
	"github.com/desertthunder/reelx/internal/collection"
	"github.com/desertthunder/reelx/internal/formatter"
	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/shared"
	tu "github.com/desertthunder/reelx/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var movies = []models.Movie{
	{ID: 1, Title: "Heat", Year: 1995},
	{ID: 2, Title: "Se7en", Year: 1995},
}

func newLoader(svc *tu.FakeService) (*SessionLoader, *collection.Sync) {
	logger := shared.NewLogger(io.Discard)
	sync := collection.NewSync(collection.SyncOpts{Service: svc, UserID: 1, Logger: logger})
	return NewSessionLoader(catalog.NewStore(svc, logger), sync), sync
}

func drain(ch chan ProgressUpdate) []ProgressUpdate {
	close(ch)
	var out []ProgressUpdate
	for u := range ch {
		out = append(out, u)
	}
	return out
}

func TestSessionLoader(t *testing.T) {
	ctx := context.Background()

	t.Run("Loads All Three", func(t *testing.T) {
		svc := tu.NewFakeService(movies...)
		svc.Watchlist[1] = []models.Movie{movies[1]}
		svc.Viewed[1] = []models.ViewedEntry{{Movie: movies[0], Rating: 4}}
		loader, _ := newLoader(svc)

		progress := make(chan ProgressUpdate, 16)
		result, err := loader.Load(ctx, progress)
		require.NoError(t, err)

		assert.Len(t, result.Catalog, 2)
		assert.Len(t, result.Snapshot.Watchlist, 1)
		assert.Len(t, result.Snapshot.Viewed, 1)
		assert.False(t, result.WatchlistUnavailable())
		assert.False(t, result.ViewedUnavailable())

		updates := drain(progress)
		require.NotEmpty(t, updates)
		assert.Equal(t, SessionReady, updates[len(updates)-1].Phase)
	})

	t.Run("Catalog Failure Is Fatal", func(t *testing.T) {
		svc := tu.NewFakeService(movies...)
		svc.SetFail("ListMovies", true)
		loader, _ := newLoader(svc)

		result, err := loader.Load(ctx, nil)
		assert.ErrorIs(t, err, shared.ErrNetworkFailure)
		require.NotNil(t, result)
		assert.Empty(t, result.Catalog)
	})

	t.Run("Collection Failures Are Tolerated", func(t *testing.T) {
		svc := tu.NewFakeService(movies...)
		svc.SetFail("GetWatchlist", true)
		svc.SetFail("GetViewed", true)
		loader, sync := newLoader(svc)

		progress := make(chan ProgressUpdate, 16)
		result, err := loader.Load(ctx, progress)
		require.NoError(t, err)

		assert.Len(t, result.Catalog, 2)
		assert.True(t, result.WatchlistUnavailable())
		assert.True(t, result.ViewedUnavailable())
		assert.Empty(t, result.Snapshot.Watchlist)
		assert.True(t, sync.WatchlistUnavailable())

		failed := 0
		for _, u := range drain(progress) {
			if u.Err != nil {
				failed++
			}
		}
		assert.Equal(t, 2, failed)
	})

	t.Run("Progress Never Blocks", func(t *testing.T) {
		loader, _ := newLoader(tu.NewFakeService(movies...))

		progress := make(chan ProgressUpdate)
		_, err := loader.Load(ctx, progress)
		assert.NoError(t, err)
	})

	t.Run("LoadCollections", func(t *testing.T) {
		svc := tu.NewFakeService(movies...)
		svc.SetFail("GetViewed", true)
		loader, sync := newLoader(svc)
		svc.Watchlist[1] = []models.Movie{movies[0]}

		wErr, vErr := loader.LoadCollections(ctx)
		assert.NoError(t, wErr)
		assert.ErrorIs(t, vErr, shared.ErrNetworkFailure)
		assert.True(t, sync.InWatchlist(1))
		assert.Zero(t, svc.CallCount("ListMovies"))
	})
}

func TestPhase(t *testing.T) {
	assert.Equal(t, "load_catalog", LoadCatalog.String())
	assert.Equal(t, "export_collection", ExportCollection.String())
	assert.Equal(t, "", Phase(99).String())
}

func TestExportCollections(t *testing.T) {
	ctx := context.Background()
	snap := models.Snapshot{
		Watchlist: []models.Movie{movies[0]},
		Viewed:    []models.ViewedEntry{{Movie: movies[1], Rating: 5}},
	}

	t.Run("Writes Every Format And Manifest", func(t *testing.T) {
		dir := t.TempDir()
		progress := make(chan ProgressUpdate, 32)

		result, err := ExportCollections(ctx, progress, snap, ExportOpts{
			Formats:   formatter.Formats,
			OutputDir: dir,
			UserID:    1,
		})
		require.NoError(t, err)

		assert.Equal(t, 8, result.Successful)
		assert.Zero(t, result.Failed)
		assert.FileExists(t, filepath.Join(dir, "watchlist.json"))
		assert.FileExists(t, filepath.Join(dir, "viewed.csv"))
		assert.FileExists(t, filepath.Join(dir, "viewed.md"))
		assert.FileExists(t, filepath.Join(dir, "watchlist", "README.md"))
		assert.FileExists(t, filepath.Join(dir, "watchlist.txt"))

		data, err := os.ReadFile(result.ManifestPath)
		require.NoError(t, err)
		var manifest formatter.Manifest
		require.NoError(t, json.Unmarshal(data, &manifest))
		assert.Equal(t, 1, manifest.Watchlist)
		assert.Equal(t, 1, manifest.Viewed.Count)
		assert.Len(t, manifest.Files, 8)
		assert.NotEmpty(t, drain(progress))
	})

	t.Run("Defaults To JSON", func(t *testing.T) {
		dir := t.TempDir()
		result, err := ExportCollections(ctx, nil, snap, ExportOpts{OutputDir: dir})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Successful)
	})

	t.Run("Canceled Context Fails Each Job", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		result, err := ExportCollections(cctx, nil, snap, ExportOpts{OutputDir: t.TempDir()})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Failed)
		for _, r := range result.Results {
			assert.True(t, errors.Is(r.Error, context.Canceled))
		}
	})
}
