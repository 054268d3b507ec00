package ingest

import (
	"context"
	"time"
)

type Option func(*Options)

type Options struct {
	Parallelism  int
	EmbedTimeout time.Duration
	Context      context.Context
}

func WithParallelism(n int) Option {
	return func(o *Options) {
		if n >= 1 {
			o.Parallelism = n
		}
	}
}

func WithEmbedTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.EmbedTimeout = timeout
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Parallelism:  4,
		EmbedTimeout: 30 * time.Second,
		Context:      context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
