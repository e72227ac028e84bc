package service

import (
	"context"
	"time"

	"catalogue/internal/storage"
)

// ImageStore commits staged images and removes stored ones.
type ImageStore interface {
	Commit(ctx context.Context, rec storage.Uploadable) (*storage.Stored, error)
	Rollback(rec storage.Uploadable, stored *storage.Stored)
	Remove(mapping, name string) error
}

// Option configures a service.
type Option func(*options)

type options struct {
	clock func() time.Time
}

// WithClock sets the time source used to stamp updatedAt.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

func collectOptions(opts []Option) options {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
