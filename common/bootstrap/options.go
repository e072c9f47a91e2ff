package bootstrap

import (
	"github.com/callready/scriptd/common/config"
	"github.com/callready/scriptd/common/logger"
	"github.com/callready/scriptd/common/store"
)

// Option configures the bootstrap process
type Option func(*options)

type options struct {
	skipStore    bool
	skipCache    bool
	customLogger *logger.Logger
	customConfig *config.Config
	customStore  store.DocumentStore
}

// WithoutStore skips document store initialization
func WithoutStore() Option {
	return func(o *options) {
		o.skipStore = true
	}
}

// WithoutCache skips cache initialization
func WithoutCache() Option {
	return func(o *options) {
		o.skipCache = true
	}
}

// WithCustomLogger uses a custom logger instead of creating one
func WithCustomLogger(log *logger.Logger) Option {
	return func(o *options) {
		o.customLogger = log
	}
}

// WithCustomConfig uses a custom config instead of loading from env
func WithCustomConfig(cfg *config.Config) Option {
	return func(o *options) {
		o.customConfig = cfg
	}
}

// WithCustomStore uses a pre-built document store (tests, embedding)
func WithCustomStore(s store.DocumentStore) Option {
	return func(o *options) {
		o.customStore = s
	}
}

func defaultOptions() *options {
	return &options{}
}
