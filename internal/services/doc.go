// Package services implements the two HTTP clients playstats depends on.
//
// # Spotify
//
// [SpotifyService] implements [PlaylistSource] against the Spotify Web API using the OAuth2 client credentials
// flow, so no user login is involved. [SpotifyService.PlaylistTracks] follows the playlist's track pagination,
// skips items whose track is null, then looks up artists 50 ids at a time to attach genres. Requests share a
// [rate.Limiter].
//
// # Stats Service
//
// [StatsClient] is the loader's outbound side: one GET to /playlist?playlist_id=<id> decoded into a typed
// [models.PlaylistStats]. Decoding goes through an intermediate payload with pointer fields so absent keys are
// reported instead of rendered as zero values.
//
// # Error Handling
//
// Errors wrap sentinels from the shared package:
//   - [shared.ErrRequestFailed] : transport failure, unreadable or non-JSON body
//   - [shared.ErrValidation] : JSON parsed but the summary is missing fields or malformed
//   - [shared.ErrServiceStatus] : the stats service answered with a non-2xx status
//   - [shared.ErrPlaylistNotFound] : Spotify has no playlist with that id
//   - [shared.ErrNotAuthenticated], [shared.ErrAuthFailed] : client credentials rejected
//   - [shared.ErrAPIRequest] : any other Spotify failure
package services
