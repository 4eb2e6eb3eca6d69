// Package weave ties together two small utilities for loosely coupled
// programs: a context request/provide protocol over an explicit node tree
// (package contextual) and a runtime localization switcher with
// asynchronous locale loading (package localization).
package weave

import (
	"context"
	"errors"

	"github.com/pitabwire/util"

	"github.com/kwanza/weave/localization"
	"github.com/kwanza/weave/workerpool"
)

type contextKey string

func (c contextKey) String() string {
	return "weave/" + string(c)
}

const ctxKeyRuntime = contextKey("runtimeKey")

// Runtime holds together the configured components of an application: the
// logger, configuration object, worker pool and localization runtime. An
// instance is scoped to stay for the lifetime of the application and is
// pushed and pulled from contexts to make it easy to pass around.
type Runtime struct {
	name          string
	logger        *util.LogEntry
	configuration any
	pool          workerpool.Pool
	localizer     *localization.Runtime
	localeSetup   *localeSetup
	startupErrors []error
}

type localeSetup struct {
	source    string
	targets   []string
	loader    localization.Loader
	transform bool
}

// Option configures a Runtime during construction.
type Option func(ctx context.Context, r *Runtime)

// New creates a runtime with the given name and options and stores it in
// the returned context.
func New(ctx context.Context, name string, opts ...Option) (context.Context, *Runtime) {
	r := &Runtime{name: name}

	for _, opt := range opts {
		opt(ctx, r)
	}

	if r.logger == nil {
		r.logger = util.NewLogger(ctx).WithField("service", name)
	}

	r.setupLocalization(ctx)

	return ToContext(ctx, r), r
}

func (r *Runtime) setupLocalization(ctx context.Context) {
	setup := r.localeSetup
	if setup == nil {
		r.localizer = localization.NewRuntime()
		return
	}

	var runtimeOpts []localization.RuntimeOption
	if r.pool != nil {
		runtimeOpts = append(runtimeOpts, localization.WithSubmitter(r.pool))
	}
	r.localizer = localization.NewRuntime(runtimeOpts...)

	var err error
	if setup.transform {
		err = r.localizer.ConfigureTransform(localization.TransformConfig{SourceLocale: setup.source})
	} else {
		err = r.localizer.ConfigureRuntime(localization.Config{
			SourceLocale:  setup.source,
			TargetLocales: setup.targets,
			Loader:        setup.loader,
		})
	}
	if err != nil {
		r.Log(ctx).WithError(err).Error("could not configure localization")
		r.addStartupError(err)
	}
}

// Name returns the runtime's name.
func (r *Runtime) Name() string {
	return r.name
}

// Config returns the configuration object supplied via WithConfig, if any.
func (r *Runtime) Config() any {
	return r.configuration
}

// Localization exposes the localization runtime.
func (r *Runtime) Localization() *localization.Runtime {
	return r.localizer
}

// WorkerPool exposes the worker pool supplied via WithWorkerPool, if any.
func (r *Runtime) WorkerPool() workerpool.Pool {
	return r.pool
}

// GetLocale returns the active locale.
func (r *Runtime) GetLocale() string {
	return r.localizer.GetLocale()
}

// SetLocale switches the active locale. See localization.Runtime.SetLocale.
func (r *Runtime) SetLocale(ctx context.Context, locale string) (localization.Ready, error) {
	return r.localizer.SetLocale(ctx, locale)
}

// Msg resolves a message id against the active locale's template table.
func (r *Runtime) Msg(id string, source any, args ...any) any {
	return r.localizer.Msg(id, source, args...)
}

// MsgString is Msg constrained to string results.
func (r *Runtime) MsgString(id, source string, args ...any) string {
	return r.localizer.MsgString(id, source, args...)
}

// Err aggregates any errors raised while applying options.
func (r *Runtime) Err() error {
	return errors.Join(r.startupErrors...)
}

// Stop releases resources held by the runtime.
func (r *Runtime) Stop(_ context.Context) {
	if r.pool != nil {
		r.pool.Shutdown()
	}
}

func (r *Runtime) addStartupError(err error) {
	r.startupErrors = append(r.startupErrors, err)
}

// ToContext pushes a runtime into the supplied context.
func ToContext(ctx context.Context, r *Runtime) context.Context {
	return context.WithValue(ctx, ctxKeyRuntime, r)
}

// FromContext obtains a runtime being propagated through the context.
func FromContext(ctx context.Context) *Runtime {
	r, ok := ctx.Value(ctxKeyRuntime).(*Runtime)
	if !ok {
		return nil
	}

	return r
}
