// Package models defines the domain entities shared by the stats service, the loader and the snapshot store.
//
// The package contains three groups of types:
//
// 1. Playlist data fetched from Spotify
//   - [Track] : a track with its artists, popularity and duration
//   - [Artist] : an artist with genres
//
// 2. Stats service wire types
//   - [PlaylistStats] : the aggregate summary served at /playlist
//   - [TrackName] : one entry of the summary's track list
//   - [TrackRecord] : one per-track row served at /playlist/tracks
//
// 3. Persistent entities
//   - [Snapshot] : a summary the stats service served, stored in sqlite
package models
