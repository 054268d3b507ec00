package composer

import "context"

type Option func(*Options)

type Options struct {
	MaxContextLength int
	Context          context.Context
}

func WithMaxContextLength(length int) Option {
	return func(o *Options) {
		o.MaxContextLength = length
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		MaxContextLength: 12000,
		Context:          context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
