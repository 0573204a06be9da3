// Package services defines the [Service] interface for music streaming
// providers and implements it for Spotify and Tidal.
//
// # Service Interface
//
// Both providers implement a common capability abstraction so the
// reconciliation engine never depends on a concrete SDK, only on these
// contracts; tests substitute hand-written mocks.
//
// # Spotify Implementation
//
// [SpotifyService] wraps the zmb3/spotify SDK. Authentication uses an OAuth2
// refresh token: the [oauth2] client exchanges it for access tokens and
// refreshes them transparently.
//
// # Tidal Implementation
//
// [TidalService] speaks to the Tidal v1 REST API directly over HTTP with a
// bearer token. All calls pass through a client-side [rate.Limiter]; playlist
// mutations carry the If-None-Match ETag the API requires.
//
// # Caching
//
// Both adapters keep two run-scoped caches: the track listing per collection
// and the favorited-ID set. Caches are populated on first read and
// invalidated after every mutating call that could stale them (add, remove,
// favorite). Callers always observe post-mutation state.
//
// # Error Handling
//
// Collection-level failures wrap [shared.ErrProvider]; a missing collection
// in FindCollectionByName is not an error (nil, nil). Search failures are
// returned as-is and absorbed by the engine's retry layer.
package services
