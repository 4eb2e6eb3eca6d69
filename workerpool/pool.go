package workerpool

import (
	"context"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/pitabwire/util"

	"github.com/kwanza/weave/config"
)

// Pool defines the common methods for worker pool operations. It allows
// holders to carry either a single ants.Pool or an ants.MultiPool.
type Pool interface {
	Submit(ctx context.Context, task func()) error
	Shutdown()
}

// Options defines configurable options for the internal worker pool.
type Options struct {
	PoolCount          int
	SinglePoolCapacity int
	Concurrency        int
	ExpiryDuration     time.Duration
	Nonblocking        bool
	PreAlloc           bool
	PanicHandler       func(any)
	Logger             *util.LogEntry
	DisablePurge       bool
}

// Option defines a function that configures worker pool options.
type Option func(*Options)

// WithPoolCount sets the number of worker pools.
func WithPoolCount(count int) Option {
	return func(opts *Options) {
		opts.PoolCount = count
	}
}

// WithSinglePoolCapacity sets the capacity for a single worker pool.
func WithSinglePoolCapacity(capacity int) Option {
	return func(opts *Options) {
		opts.SinglePoolCapacity = capacity
	}
}

// WithPoolExpiryDuration sets the expiry duration for workers.
func WithPoolExpiryDuration(duration time.Duration) Option {
	return func(opts *Options) {
		opts.ExpiryDuration = duration
	}
}

// WithPoolNonblocking sets the non-blocking option for the pool.
func WithPoolNonblocking(nonblocking bool) Option {
	return func(opts *Options) {
		opts.Nonblocking = nonblocking
	}
}

// WithPoolPanicHandler sets a panic handler for the pool.
func WithPoolPanicHandler(handler func(any)) Option {
	return func(opts *Options) {
		opts.PanicHandler = handler
	}
}

// WithPoolLogger sets a logger for the pool.
func WithPoolLogger(logger *util.LogEntry) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

func defaultOpts(cfg config.ConfigurationWorkerPool, log *util.LogEntry) *Options {
	return &Options{
		Concurrency:        runtime.NumCPU() * cfg.GetCPUFactor(),
		SinglePoolCapacity: cfg.GetCapacity(),
		PoolCount:          cfg.GetCount(),
		ExpiryDuration:     cfg.GetExpiryDuration(),
		Nonblocking:        true,
		Logger:             log,
	}
}

// New creates a worker pool from configuration and options.
func New(ctx context.Context, cfg config.ConfigurationWorkerPool, opts ...Option) (Pool, error) {
	poolOpts := defaultOpts(cfg, util.Log(ctx))
	for _, opt := range opts {
		opt(poolOpts)
	}

	var antsOpts []ants.Option
	if poolOpts.ExpiryDuration > 0 {
		antsOpts = append(antsOpts, ants.WithExpiryDuration(poolOpts.ExpiryDuration))
	}
	antsOpts = append(antsOpts, ants.WithNonblocking(poolOpts.Nonblocking))
	if poolOpts.PreAlloc {
		antsOpts = append(antsOpts, ants.WithPreAlloc(poolOpts.PreAlloc))
	}
	if poolOpts.Concurrency > 0 {
		antsOpts = append(antsOpts, ants.WithMaxBlockingTasks(poolOpts.Concurrency))
	}
	if poolOpts.PanicHandler != nil {
		antsOpts = append(antsOpts, ants.WithPanicHandler(poolOpts.PanicHandler))
	}
	if poolOpts.Logger != nil {
		antsOpts = append(antsOpts, ants.WithLogger(poolOpts.Logger))
	}
	antsOpts = append(antsOpts, ants.WithDisablePurge(poolOpts.DisablePurge))

	if poolOpts.PoolCount <= 1 {
		p, err := ants.NewPool(poolOpts.SinglePoolCapacity, antsOpts...)
		if err != nil {
			return nil, err
		}
		return &singlePoolWrapper{pool: p}, nil
	}

	mp, err := ants.NewMultiPool(poolOpts.PoolCount, poolOpts.SinglePoolCapacity, ants.LeastTasks, antsOpts...)
	if err != nil {
		return nil, err
	}
	return &multiPoolWrapper{multiPool: mp}, nil
}

// singlePoolWrapper adapts *ants.Pool to the Pool interface.
type singlePoolWrapper struct {
	pool *ants.Pool
}

func (w *singlePoolWrapper) Submit(ctx context.Context, task func()) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	return w.pool.Submit(task)
}

func (w *singlePoolWrapper) Shutdown() {
	w.pool.Release()
}

// multiPoolWrapper adapts *ants.MultiPool to the Pool interface.
type multiPoolWrapper struct {
	multiPool *ants.MultiPool
}

func (w *multiPoolWrapper) Submit(ctx context.Context, task func()) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	return w.multiPool.Submit(task)
}

func (w *multiPoolWrapper) Shutdown() {
	w.multiPool.Free()
}
