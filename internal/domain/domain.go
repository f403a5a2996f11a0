package domain

import (
	"fmt"
	"strings"
)

// KeyPrefix namespaces every key this service writes.
const KeyPrefix = "simsearch:"

// Domain identifies one isolated data partition. Each domain owns its own
// vector index and record keyspace; no query or join ever crosses domains.
type Domain string

const (
	Admin   Domain = "admin"
	IT      Domain = "it"
	Finance Domain = "finance"
	HR      Domain = "hr"
)

// All returns every known domain in stable order.
func All() []Domain {
	return []Domain{Admin, IT, Finance, HR}
}

// Parse normalizes an identifier (case-insensitive) to a known Domain.
func Parse(s string) (Domain, error) {
	switch Domain(strings.ToLower(strings.TrimSpace(s))) {
	case Admin:
		return Admin, nil
	case IT:
		return IT, nil
	case Finance:
		return Finance, nil
	case HR:
		return HR, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDomain, s)
	}
}

// String implements fmt.Stringer.
func (d Domain) String() string { return string(d) }
