package weave

import (
	"context"
)

// WithConfig Option that helps to specify or override the configuration
// object of the runtime.
func WithConfig(configuration any) Option {
	return func(_ context.Context, r *Runtime) {
		r.configuration = configuration
	}
}
