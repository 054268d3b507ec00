package retriever

import "context"

type Option func(*Options)

type Options struct {
	DefaultK int
	Context  context.Context
}

func WithDefaultK(k int) Option {
	return func(o *Options) {
		if k >= 1 {
			o.DefaultK = k
		}
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		DefaultK: 5,
		Context:  context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
