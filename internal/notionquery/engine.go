// Package notionquery queries Notion databases against a declared schema and
// flattens each result row into typed fields.
package notionquery

import (
	"go.uber.org/zap"

	"github.com/longkey1/notionquery/internal/notion/types"
)

// DefaultRelationConcurrency is the number of related pages fetched at once
const DefaultRelationConcurrency = 4

// Engine runs discovery and schema queries against a Notion client. It holds
// no per-call state, so one Engine may serve concurrent callers.
type Engine struct {
	client              types.Client
	logger              *zap.Logger
	relationConcurrency int
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRelationConcurrency bounds how many related pages are fetched at once.
// 1 fetches them sequentially.
func WithRelationConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.relationConcurrency = n
		}
	}
}

// New creates an Engine over client
func New(client types.Client, opts ...Option) *Engine {
	e := &Engine{
		client:              client,
		logger:              zap.NewNop(),
		relationConcurrency: DefaultRelationConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
