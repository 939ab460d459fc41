// Package server provides an in-memory implementation of the movie collection service.
//
// # Mock Service
//
// [MockService] serves the full REST surface the client talks to:
//
//	GET    /movies
//	GET    /movies/{id}?level=summary|complex
//	GET    /users/{uid}/watchlist
//	POST   /users/{uid}/watchlist          {"movie_id": 1}
//	DELETE /users/{uid}/watchlist/{movieId}
//	GET    /users/{uid}/viewed
//	POST   /users/{uid}/viewed             {"movie_id": 1, "rating": 4}
//	DELETE /users/{uid}/viewed/{movieId}
//
// Collections are returned newest first. A duplicate watchlist add answers 200
// "Already in watchlist"; a repeated rating answers 200 "Rating updated".
//
// When UnlinkOnView is set, a first rating also removes the movie from the user's
// watchlist server-side. With it unset, the service leaves the watchlist alone and a
// client reload will show the movie again.
//
// # Middleware
//
// [Middleware] wraps handlers; [RequestLogger] and [CORS] are applied by [MockService.Routes]
// alongside chi's Recoverer and RequestID.
package server
