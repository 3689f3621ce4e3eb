// Package canonical maps the referral link shapes LifeCompass shares in the
// wild down to a single opaque referral code.
package canonical

import (
	"net/url"
	"strings"
)

// pathMarker is the path segment carrying the code in deep links and
// gateway-relay URLs (lifecompass://r/<code>, https://lifecompass.app/r/<code>,
// or the same segment embedded after a hosting prefix).
const pathMarker = "/r/"

// Query parameter names for the non-path link shapes
const (
	legacyParam = "ref" // legacy shared-link format
	storeParam  = "ct"  // store-metadata passthrough
)

// Shape identifies which link form a code was extracted from
type Shape int

const (
	ShapePath        Shape = iota + 1 // /r/<code> deep link or gateway relay
	ShapeLegacyQuery                  // ref= query parameter
	ShapeStoreQuery                   // ct= store-metadata passthrough
)

// Match is a successfully extracted referral code and the shape it came from
type Match struct {
	Code  string
	Shape Shape
}

// Canonicalize extracts a referral code from a raw link. Shapes are tried in
// priority order: the /r/<code> path segment (deep link or gateway relay),
// then the ref= query parameter, then the ct= query parameter. Codes are
// opaque; no character-set or length validation happens here. Returns
// ok=false for anything unrecognized, never panics on malformed input.
func Canonicalize(raw string) (string, bool) {
	m, ok := Extract(raw)
	return m.Code, ok
}

// Extract is Canonicalize plus the shape the code was found in, for callers
// that record where a referral came from
func Extract(raw string) (Match, bool) {
	if raw == "" {
		return Match{}, false
	}

	if code, ok := fromPath(raw); ok {
		return Match{Code: code, Shape: ShapePath}, true
	}
	if code, ok := fromQuery(raw, legacyParam); ok {
		return Match{Code: code, Shape: ShapeLegacyQuery}, true
	}
	if code, ok := fromQuery(raw, storeParam); ok {
		return Match{Code: code, Shape: ShapeStoreQuery}, true
	}
	return Match{}, false
}

// fromPath finds the /r/ segment anywhere in the link, which covers both the
// direct path form and gateway-relay URLs that embed it after a hosting
// prefix. The code is everything after the marker up to the next '?'.
func fromPath(raw string) (string, bool) {
	idx := strings.Index(raw, pathMarker)
	if idx < 0 {
		return "", false
	}

	code := raw[idx+len(pathMarker):]
	if q := strings.IndexByte(code, '?'); q >= 0 {
		code = code[:q]
	}
	if code == "" {
		return "", false
	}
	return code, true
}

// fromQuery extracts a named query parameter value from the link
func fromQuery(raw, param string) (string, bool) {
	u, err := url.Parse(raw)
	if err == nil {
		if code := u.Query().Get(param); code != "" {
			return code, true
		}
		return "", false
	}

	// Unparseable as a URL; scan the query portion by hand rather than
	// rejecting the link outright
	q := strings.IndexByte(raw, '?')
	if q < 0 {
		return "", false
	}
	for _, pair := range strings.Split(raw[q+1:], "&") {
		key, value, found := strings.Cut(pair, "=")
		if found && key == param && value != "" {
			return value, true
		}
	}
	return "", false
}
