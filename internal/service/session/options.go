package session

import (
	"context"
	"time"
)

type Option func(*Options)

type Options struct {
	TopK        int
	TurnTimeout time.Duration
	Context     context.Context
}

func WithTopK(k int) Option {
	return func(o *Options) {
		if k >= 1 {
			o.TopK = k
		}
	}
}

func WithTurnTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.TurnTimeout = timeout
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		TopK:        5,
		TurnTimeout: 30 * time.Second,
		Context:     context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
