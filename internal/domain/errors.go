package domain

import "errors"

var (
	// ErrUnknownDomain signals a domain identifier outside the enumerated set.
	ErrUnknownDomain = errors.New("unknown domain")
	// ErrEncodingFailure signals the embedding provider could not vectorize
	// the query text.
	ErrEncodingFailure = errors.New("encoding failure")
	// ErrIndexUnavailable signals the tenant's vector index cannot be
	// reached or opened.
	ErrIndexUnavailable = errors.New("vector index unavailable")
	// ErrNoActiveSearch signals a page request with no prior search in the
	// session.
	ErrNoActiveSearch = errors.New("no active search")
)
