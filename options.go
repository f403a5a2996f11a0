package simsearch

import "go.uber.org/zap"

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs    []string
	username string
	password string
	db       int

	dimensions    int
	cacheOff      bool
	embedder      Embedder
	openaiAPIKey  string
	openaiBaseURL string
	model         string

	logger *zap.Logger
}

// WithRedis sets the Redis connection parameters.
func WithRedis(addrs []string, password string) Option {
	return func(c *clientConfig) {
		c.addrs = addrs
		c.password = password
	}
}

// WithRedisAuth sets username and logical database for Redis ACL setups.
func WithRedisAuth(username string, db int) Option {
	return func(c *clientConfig) {
		c.username = username
		c.db = db
	}
}

// WithOpenAI configures the OpenAI-compatible embedding provider.
// baseURL may be empty for the default endpoint.
func WithOpenAI(apiKey, baseURL, model string) Option {
	return func(c *clientConfig) {
		c.openaiAPIKey = apiKey
		c.openaiBaseURL = baseURL
		c.model = model
	}
}

// WithEmbedder plugs in a custom embedding provider instead of OpenAI.
func WithEmbedder(e Embedder) Option {
	return func(c *clientConfig) {
		c.embedder = e
	}
}

// WithDimensions overrides the embedding dimensionality.
func WithDimensions(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.dimensions = n
		}
	}
}

// WithoutEmbeddingCache disables the Redis-backed embedding cache.
func WithoutEmbeddingCache() Option {
	return func(c *clientConfig) {
		c.cacheOff = true
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}
