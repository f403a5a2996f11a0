package health

import "context"

// StorePinger checks that the backing store answers.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// EmbedderChecker checks embedding provider availability.
type EmbedderChecker interface {
	HealthCheck(ctx context.Context) error
}
