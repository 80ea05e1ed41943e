package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Fetch-stage errors: the whole source is unusable and the run aborts
	// before any matching starts.
	ErrFetch             = fmt.Errorf("playlist fetch failed")
	ErrUnsupportedSource = fmt.Errorf("unsupported playlist source")
	ErrTokenFetch        = fmt.Errorf("token fetch failed")

	// Library and materialization errors
	ErrLibraryRequest   = fmt.Errorf("library API request failed")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrNoMatches        = fmt.Errorf("no matching tracks found in library")
	ErrMaterialize      = fmt.Errorf("playlist creation failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
