package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/shared"
	"golang.org/x/time/rate"
)

const defaultBaseURL string = "http://localhost:5000"

var _ CollectionService = (*CollectionClient)(nil)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// Unwrap lets errors.Is match [shared.ErrNetworkFailure].
func (e *StatusError) Unwrap() error { return shared.ErrNetworkFailure }

// ClientOpts configures a [CollectionClient].
type ClientOpts struct {
	BaseURL    string
	HTTPClient *http.Client
	RateLimit  float64 // requests per second, 0 disables
}

// CollectionClient implements [CollectionService] over HTTP.
type CollectionClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewCollectionClient creates a new client for the service at opts.BaseURL.
func NewCollectionClient(opts ClientOpts) *CollectionClient {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	c := &CollectionClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
	}
	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	return c
}

// BaseURL returns the service root this client talks to.
func (c *CollectionClient) BaseURL() string { return c.baseURL }

func (c *CollectionClient) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limiter: %w", shared.ErrNetworkFailure, err)
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %w", shared.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{Method: method, Path: endpoint, StatusCode: resp.StatusCode}
		var errResp struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			statusErr.Detail = errResp.Error
			if statusErr.Detail == "" {
				statusErr.Detail = errResp.Message
			}
		}
		return statusErr
	}

	if result != nil {
		// An empty 2xx body is still a success.
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: failed to decode response: %w", shared.ErrNetworkFailure, err)
		}
	}

	return nil
}

// ListMovies retrieves the catalog.
//
// Calls GET /movies.
func (c *CollectionClient) ListMovies(ctx context.Context) ([]models.Movie, error) {
	var movies []models.Movie
	if err := c.doRequest(ctx, http.MethodGet, "/movies", nil, &movies); err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []models.Movie{}
	}
	return movies, nil
}

// GetMovie retrieves one movie. A 404 is reported as [shared.ErrNotFound].
//
// Calls GET /movies/{id}?level={level}.
func (c *CollectionClient) GetMovie(ctx context.Context, movieID int, level models.DetailLevel) (*models.Movie, error) {
	if level == "" {
		level = models.DetailComplex
	}
	endpoint := fmt.Sprintf("/movies/%d?level=%s", movieID, url.QueryEscape(string(level)))

	var movie models.Movie
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &movie); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: id %d", shared.ErrNotFound, movieID)
		}
		return nil, err
	}
	return &movie, nil
}

// GetWatchlist retrieves the user's watchlist in service order.
//
// Calls GET /users/{uid}/watchlist.
func (c *CollectionClient) GetWatchlist(ctx context.Context, userID models.UserID) ([]models.Movie, error) {
	var movies []models.Movie
	if err := c.doRequest(ctx, http.MethodGet, userPath(userID, "watchlist"), nil, &movies); err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []models.Movie{}
	}
	return movies, nil
}

// AddToWatchlist adds movieID to the user's watchlist.
//
// Calls POST /users/{uid}/watchlist with {"movie_id": id}.
func (c *CollectionClient) AddToWatchlist(ctx context.Context, userID models.UserID, movieID int) (*Record, error) {
	var rec Record
	if err := c.doRequest(ctx, http.MethodPost, userPath(userID, "watchlist"), watchlistRequest{MovieID: movieID}, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// RemoveFromWatchlist removes movieID from the user's watchlist.
//
// Calls DELETE /users/{uid}/watchlist/{movieId}.
func (c *CollectionClient) RemoveFromWatchlist(ctx context.Context, userID models.UserID, movieID int) error {
	return c.doRequest(ctx, http.MethodDelete, userPath(userID, fmt.Sprintf("watchlist/%d", movieID)), nil, nil)
}

// GetViewed retrieves the user's rated movies in service order.
//
// Calls GET /users/{uid}/viewed.
func (c *CollectionClient) GetViewed(ctx context.Context, userID models.UserID) ([]models.ViewedEntry, error) {
	var entries []models.ViewedEntry
	if err := c.doRequest(ctx, http.MethodGet, userPath(userID, "viewed"), nil, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.ViewedEntry{}
	}
	return entries, nil
}

// UpsertViewed records or replaces a rating.
//
// Calls POST /users/{uid}/viewed with {"movie_id": id, "rating": r}.
func (c *CollectionClient) UpsertViewed(ctx context.Context, userID models.UserID, movieID, rating int) (*Record, error) {
	var rec Record
	body := viewedRequest{MovieID: movieID, Rating: rating}
	if err := c.doRequest(ctx, http.MethodPost, userPath(userID, "viewed"), body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// RemoveFromViewed deletes the user's rating for movieID.
//
// Calls DELETE /users/{uid}/viewed/{movieId}.
func (c *CollectionClient) RemoveFromViewed(ctx context.Context, userID models.UserID, movieID int) error {
	return c.doRequest(ctx, http.MethodDelete, userPath(userID, fmt.Sprintf("viewed/%d", movieID)), nil, nil)
}

func userPath(userID models.UserID, rest string) string {
	return fmt.Sprintf("/users/%d/%s", int(userID), rest)
}
