package loader

import (
	"context"
	"time"
)

type Option func(*Options)

type Options struct {
	MaxChunkSize int
	HTTPTimeout  time.Duration
	Context      context.Context
}

func WithMaxChunkSize(size int) Option {
	return func(o *Options) {
		o.MaxChunkSize = size
	}
}

func WithHTTPTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.HTTPTimeout = timeout
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		MaxChunkSize: 1000,
		HTTPTimeout:  30 * time.Second,
		Context:      context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
