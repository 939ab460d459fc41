package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"slices"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reelx/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MockOpts configures a [MockService].
type MockOpts struct {
	UnlinkOnView bool
	Logger       *log.Logger // nil disables request logging
}

type watchRow struct {
	movieID int
	added   int64
}

type viewedRow struct {
	movieID int
	rating  int
	viewed  int64
}

// MockService is an in-memory movie collection service.
type MockService struct {
	mu        sync.Mutex
	movies    []models.Movie
	watchlist map[models.UserID][]watchRow
	viewed    map[models.UserID][]viewedRow
	clock     int64
	opts      MockOpts
}

// NewMockService creates a service whose catalog is seed. Seed movies should carry complex detail.
func NewMockService(seed []models.Movie, opts MockOpts) *MockService {
	return &MockService{
		movies:    slices.Clone(seed),
		watchlist: map[models.UserID][]watchRow{},
		viewed:    map[models.UserID][]viewedRow{},
		opts:      opts,
	}
}

// Routes builds the chi router for the service.
func (s *MockService) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if s.opts.Logger != nil {
		r.Use(RequestLogger(s.opts.Logger))
	}
	r.Use(CORS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "service": "reelx-mock"})
	})

	r.Route("/movies", func(r chi.Router) {
		r.Get("/", s.listMovies)
		r.Get("/{movieID}", s.getMovie)
	})

	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/watchlist", s.getWatchlist)
		r.Post("/watchlist", s.addWatchlist)
		r.Delete("/watchlist/{movieID}", s.removeWatchlist)
		r.Get("/viewed", s.getViewed)
		r.Post("/viewed", s.upsertViewed)
		r.Delete("/viewed/{movieID}", s.removeViewed)
	})

	return r
}

func (s *MockService) listMovies(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Movie, 0, len(s.movies))
	for _, m := range s.movies {
		out = append(out, summary(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *MockService) getMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "movieID")
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, found := s.find(id)
	if !found {
		writeError(w, http.StatusNotFound, "movie not found")
		return
	}

	switch r.URL.Query().Get("level") {
	case string(models.DetailSummary), "basic":
		writeJSON(w, http.StatusOK, summary(m))
	default:
		writeJSON(w, http.StatusOK, m)
	}
}

func (s *MockService) getWatchlist(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := slices.Clone(s.watchlist[uid])
	slices.SortStableFunc(rows, func(a, b watchRow) int { return int(b.added - a.added) })

	out := make([]models.Movie, 0, len(rows))
	for _, row := range rows {
		if m, found := s.find(row.movieID); found {
			out = append(out, summary(m))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *MockService) addWatchlist(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var body struct {
		MovieID int `json:"movie_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.MovieID <= 0 {
		writeError(w, http.StatusBadRequest, "movie_id is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.find(body.MovieID); !found {
		writeError(w, http.StatusNotFound, "movie not found")
		return
	}
	if slices.ContainsFunc(s.watchlist[uid], func(row watchRow) bool { return row.movieID == body.MovieID }) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Already in watchlist"})
		return
	}

	s.watchlist[uid] = append(s.watchlist[uid], watchRow{movieID: body.MovieID, added: s.tick()})
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Added to watchlist"})
}

func (s *MockService) removeWatchlist(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "movieID")
	if !ok {
		return
	}

	s.mu.Lock()
	s.watchlist[uid] = slices.DeleteFunc(s.watchlist[uid], func(row watchRow) bool { return row.movieID == id })
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "Removed from watchlist"})
}

func (s *MockService) getViewed(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := slices.Clone(s.viewed[uid])
	slices.SortStableFunc(rows, func(a, b viewedRow) int { return int(b.viewed - a.viewed) })

	out := make([]models.ViewedEntry, 0, len(rows))
	for _, row := range rows {
		if m, found := s.find(row.movieID); found {
			out = append(out, models.ViewedEntry{Movie: summary(m), Rating: row.rating})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *MockService) upsertViewed(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var body struct {
		MovieID int `json:"movie_id"`
		Rating  int `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.MovieID <= 0 {
		writeError(w, http.StatusBadRequest, "movie_id is required")
		return
	}
	if !models.ValidRating(body.Rating) {
		writeError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.find(body.MovieID); !found {
		writeError(w, http.StatusNotFound, "movie not found")
		return
	}

	rows := s.viewed[uid]
	if i := slices.IndexFunc(rows, func(row viewedRow) bool { return row.movieID == body.MovieID }); i >= 0 {
		rows[i].rating = body.Rating
		rows[i].viewed = s.tick()
		writeJSON(w, http.StatusOK, map[string]string{"message": "Rating updated"})
		return
	}

	s.viewed[uid] = append(rows, viewedRow{movieID: body.MovieID, rating: body.Rating, viewed: s.tick()})
	if s.opts.UnlinkOnView {
		s.watchlist[uid] = slices.DeleteFunc(s.watchlist[uid], func(row watchRow) bool { return row.movieID == body.MovieID })
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Marked as viewed"})
}

func (s *MockService) removeViewed(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(w, r, "movieID")
	if !ok {
		return
	}

	s.mu.Lock()
	s.viewed[uid] = slices.DeleteFunc(s.viewed[uid], func(row viewedRow) bool { return row.movieID == id })
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "Removed from viewed"})
}

// find must be called with mu held.
func (s *MockService) find(id int) (models.Movie, bool) {
	for _, m := range s.movies {
		if m.ID == id {
			return m, true
		}
	}
	return models.Movie{}, false
}

// tick must be called with mu held.
func (s *MockService) tick() int64 {
	s.clock++
	return s.clock
}

func summary(m models.Movie) models.Movie {
	return models.Movie{ID: m.ID, Title: m.Title, Name: m.Name, Year: m.Year, PosterURL: m.PosterURL}
}

func userID(w http.ResponseWriter, r *http.Request) (models.UserID, bool) {
	id, ok := pathInt(w, r, "userID")
	return models.UserID(id), ok
}

func pathInt(w http.ResponseWriter, r *http.Request, key string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, key))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s", key))
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// LoadSeed reads a JSON array of movies from path.
func LoadSeed(path string) ([]models.Movie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var movies []models.Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return movies, nil
}

// SampleCatalog returns the built-in demo catalog.
func SampleCatalog() []models.Movie {
	return []models.Movie{
		{ID: 1, Title: "Heat", Year: 1995, Genre: "Crime", Director: "Michael Mann",
			Synopsis: "A group of professional bank robbers start to feel the heat from police after they unknowingly leave a clue at their latest heist."},
		{ID: 2, Title: "Se7en", Year: 1995, Genre: "Thriller", Director: "David Fincher",
			Synopsis: "Two detectives hunt a serial killer who uses the seven deadly sins as his motives."},
		{ID: 3, Title: "The Thing", Year: 1982, Genre: "Horror", Director: "John Carpenter",
			Synopsis: "A research team in Antarctica is hunted by a shape-shifting alien that assumes the appearance of its victims."},
		{ID: 4, Title: "Alien", Year: 1979, Genre: "Science Fiction", Director: "Ridley Scott",
			Synopsis: "The crew of a commercial spacecraft encounter a deadly lifeform after investigating an unknown transmission."},
		{ID: 5, Title: "Spirited Away", Year: 2001, Genre: "Animation", Director: "Hayao Miyazaki",
			Synopsis: "A ten-year-old girl wanders into a world ruled by gods, witches, and spirits."},
		{ID: 6, Title: "Stalker", Year: 1979, Genre: "Drama", Director: "Andrei Tarkovsky",
			Synopsis: "A guide leads two men through an area known as the Zone to find a room that grants wishes."},
		{ID: 7, Title: "Parasite", Year: 2019, Genre: "Thriller", Director: "Bong Joon-ho",
			Synopsis: "Greed and class discrimination threaten the newly formed relationship between two families."},
		{ID: 8, Title: "Mad Max: Fury Road", Year: 2015, Genre: "Action", Director: "George Miller",
			Synopsis: "In a post-apocalyptic wasteland, a woman rebels against a tyrannical ruler in search of her homeland."},
	}
}
