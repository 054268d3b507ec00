package assistant

import (
	"context"
	"time"

	"github.com/me-nabi/pdf-assistant/history"
)

type Option func(*Options)

type Options struct {
	SessionId        string
	TopK             int
	MaxContextLength int
	Parallelism      int
	Timeout          time.Duration
	History          history.History
	Context          context.Context
}

func WithSessionId(id string) Option {
	return func(o *Options) {
		o.SessionId = id
	}
}

func WithTopK(k int) Option {
	return func(o *Options) {
		if k >= 1 {
			o.TopK = k
		}
	}
}

func WithMaxContextLength(length int) Option {
	return func(o *Options) {
		o.MaxContextLength = length
	}
}

func WithParallelism(n int) Option {
	return func(o *Options) {
		if n >= 1 {
			o.Parallelism = n
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

func WithHistory(h history.History) Option {
	return func(o *Options) {
		o.History = h
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		TopK:             5,
		MaxContextLength: 12000,
		Parallelism:      4,
		Timeout:          30 * time.Second,
		Context:          context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
