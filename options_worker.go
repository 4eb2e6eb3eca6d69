package weave

import (
	"context"

	"github.com/kwanza/weave/config"
	"github.com/kwanza/weave/workerpool"
)

// WithWorkerPool Option that sets up the worker pool used for
// asynchronous work such as locale loads. Requires a configuration object
// implementing config.ConfigurationWorkerPool.
func WithWorkerPool(opts ...workerpool.Option) Option {
	return func(ctx context.Context, r *Runtime) {
		cfg, ok := r.Config().(config.ConfigurationWorkerPool)
		if !ok {
			r.Log(ctx).Error("worker pool configuration is not setup")
			return
		}

		pool, err := workerpool.New(ctx, cfg, opts...)
		if err != nil {
			r.addStartupError(err)
			return
		}
		r.pool = pool
	}
}
