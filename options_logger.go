package weave

import (
	"context"
	"log/slog"

	"github.com/pitabwire/util"

	"github.com/kwanza/weave/config"
)

// WithLogger Option that initialises the runtime's logger, honouring any
// logging settings carried by the configuration object.
func WithLogger(opts ...util.Option) Option {
	return func(ctx context.Context, r *Runtime) {
		if r.Config() != nil {
			cfg, ok := r.Config().(config.ConfigurationLogLevel)
			if ok {
				logLevel, err := util.ParseLevel(cfg.LoggingLevel())
				if err == nil {
					opts = append(opts, util.WithLogLevel(logLevel))
				}
				opts = append(opts,
					util.WithLogTimeFormat(cfg.LoggingTimeFormat()),
					util.WithLogNoColor(!cfg.LoggingColored()))
				if cfg.LoggingShowStackTrace() {
					opts = append(opts, util.WithLogStackTrace())
				}
			}
		}

		log := util.NewLogger(ctx, opts...)
		r.logger = log.WithField("service", r.Name())
	}
}

// Log obtains a context aware logger tied to this runtime.
func (r *Runtime) Log(ctx context.Context) *util.LogEntry {
	if r.logger == nil {
		return util.Log(ctx)
	}
	return r.logger.WithContext(ctx)
}

// SLog exposes the underlying slog logger.
func (r *Runtime) SLog(ctx context.Context) *slog.Logger {
	return r.Log(ctx).SLog()
}
