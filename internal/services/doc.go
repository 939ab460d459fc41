// Package services defines the [CollectionService] interface for the remote movie catalog/collection service
// and implements it over HTTP with [CollectionClient].
//
// # Service Interface
//
// The interface mirrors the service's REST surface one call per endpoint:
//
//	GET    /movies                          -> ListMovies
//	GET    /movies/{id}?level=...           -> GetMovie
//	GET    /users/{uid}/watchlist           -> GetWatchlist
//	POST   /users/{uid}/watchlist           -> AddToWatchlist
//	DELETE /users/{uid}/watchlist/{movieId} -> RemoveFromWatchlist
//	GET    /users/{uid}/viewed              -> GetViewed
//	POST   /users/{uid}/viewed              -> UpsertViewed
//	DELETE /users/{uid}/viewed/{movieId}    -> RemoveFromViewed
//
// The client is stateless: the user id is passed on every call rather than stored.
//
// # Error Handling
//
// Any non-2xx status is a failure. Errors wrap sentinels from the shared package:
//   - [shared.ErrNetworkFailure] : transport error or non-success status ([StatusError])
//   - [shared.ErrNotFound] : GetMovie received 404
//
// There are no automatic retries and no default timeout; callers decide both.
//
// # Pacing
//
// An optional [rate.Limiter] spaces requests when the service is rate limited.
package services
