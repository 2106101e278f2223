package model

import (
	"net/url"
	"strings"
)

// URL is a normalized URL string used as a graph node identity.
//
// Design decision: We wrap the normalized string in a dedicated type rather
// than passing bare strings because:
//  1. Node identity must always come from Normalize; the type makes
//     accidental comparison of un-normalized strings a compile-time smell
//  2. Equality and map-key hashing derive from the underlying string
//  3. Methods for host/path extraction live next to the identity
type URL string

// Normalize canonicalizes a raw URL string for use as a node identity.
// It strips trailing slashes so that two URLs differing only by a trailing
// slash map to the same node. No other transformation is applied: case,
// query ordering, and default ports are left untouched. Query strings are
// part of the identity; fragments are stripped earlier, during extraction.
//
// Normalize is pure, never fails, and is idempotent:
// Normalize(string(Normalize(u))) == Normalize(u) for all u.
func Normalize(raw string) URL {
	return URL(strings.TrimRight(raw, "/"))
}

// String returns the URL as a plain string.
func (u URL) String() string {
	return string(u)
}

// Host returns the host component of the URL, or the empty string when the
// URL cannot be parsed or has no host (relative URLs).
func (u URL) Host() string {
	parsed, err := url.Parse(string(u))
	if err != nil {
		return ""
	}
	return parsed.Host
}

// PathComponent returns the path component of the URL, or "/" when the URL
// has no path. Used for compact node labels in graph rendering.
func (u URL) PathComponent() string {
	parsed, err := url.Parse(string(u))
	if err != nil || parsed.Path == "" {
		return "/"
	}
	return parsed.Path
}
