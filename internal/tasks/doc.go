// Package tasks orchestrates playlist conversions: fetching a source
// playlist, normalizing its tracks, resolving each against the library
// through a bounded worker pool, and materializing the matched tracks as a
// server playlist.
//
// Long-running operations report progress over an optional channel; sends
// never block, so a slow or absent consumer cannot stall a conversion.
package tasks
