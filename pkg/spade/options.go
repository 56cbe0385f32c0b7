package spade

import (
	"github.com/jtomasevic/spade/pkg/logging"
	"github.com/jtomasevic/spade/pkg/pattern_mining"
	"github.com/jtomasevic/spade/pkg/significance"
)

type options struct {
	logger    *logging.Logger
	listener  Listener
	surrogate significance.SurrogateFunc
	strategy  pattern_mining.Strategy
}

type Option func(*options)

// WithLogger replaces the logger built from Config.Log.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithListener(l Listener) Option {
	return func(o *options) { o.listener = l }
}

// WithSurrogateFunc overrides Config.Surrogates.Method.
func WithSurrogateFunc(fn significance.SurrogateFunc) Option {
	return func(o *options) { o.surrogate = fn }
}

// WithStrategy overrides Config.Strategy.
func WithStrategy(s pattern_mining.Strategy) Option {
	return func(o *options) { o.strategy = s }
}
