// Package models defines the domain entities passed between the
// conversion pipeline's stages.
//
// The package contains two categories of types:
//
// 1. Per-run values, created fresh for every conversion and discarded after
// the result is produced:
//   - [CanonicalTrack] : the normalized (title, artist) matching unit
//   - [PlaylistMeta] : name and cover image of the source playlist
//   - [RawTrack] : transient provider-native record, never persisted
//   - [ImportOutcome] : terminal summary of a materialized playlist
//   - [ConversionResult] : outcome surfaced to the caller
//
// 2. Persistent entities backed by SQLite:
//   - [ImportRun] : audit record of one conversion run
//
// Match decisions are never persisted; [ImportRun] stores counts and
// unmatched titles for auditing only.
package models
