// Package server implements the playlist stats HTTP service.
//
// # Routes
//
//	GET /playlist?playlist_id=<id>         summary of a playlist (see [models.PlaylistStats])
//	GET /playlist/tracks?playlist_id=<id>  flattened per-track rows with genre flags
//	GET /health                            liveness probe
//
// When the playlist_id parameter is absent the configured default playlist is used. An empty value is passed
// through to the source unchanged.
//
// Errors are JSON objects of the form {"error": "..."}: an unknown playlist is 404, a malformed id 400 and any
// other upstream failure 502.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// # Snapshots
//
// A [PlaylistHandler] given a [Recorder] persists every summary it serves. Recording failures are logged and
// do not affect the response.
package server
