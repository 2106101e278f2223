package crawler

import "errors"

// Crawler errors.
//
// Design decision: We use package-level sentinel errors rather than creating
// new error instances at the failure site. This allows callers to use
// errors.Is() for programmatic handling while still providing human-readable
// messages.
var (
	// ErrInvalidSeed is returned when the seed URL cannot be parsed or is
	// not an absolute http/https URL. The traversal cannot classify links
	// as internal without a parseable origin host.
	ErrInvalidSeed = errors.New("invalid seed URL: must be an absolute http or https URL")

	// ErrEmptyBody is returned by the fetcher when a response body cannot
	// be read. The page is abandoned like any other transport failure.
	ErrEmptyBody = errors.New("failed to read response body")
)
