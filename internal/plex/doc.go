// Package plex talks to a Plex Media Server's HTTP API: searching a music
// library section for candidate tracks, creating and managing playlists,
// and uploading playlist artwork.
//
// Plex answers most endpoints with XML MediaContainer documents and
// authenticates every request through the X-Plex-Token query parameter.
package plex
