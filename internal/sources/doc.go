// Package sources implements playlist fetching from external streaming
// catalogs and local playlist files.
//
// A playlist descriptor (URL or file path) is parsed exactly once at the
// boundary into a [Source] tag; per-provider [Fetcher] implementations own
// their auth/session lifecycle and return provider-native [models.RawTrack]
// records plus [models.PlaylistMeta]. No matching logic lives here.
//
// Fetch failures are fatal to a conversion run: any transport or parse
// error is wrapped with the provider name and [shared.ErrFetch] so the
// pipeline can abort before matching starts.
package sources
