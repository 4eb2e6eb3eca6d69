package localization

import (
	"context"
	"sync"

	"github.com/pitabwire/util"
)

// Submitter runs loader invocations asynchronously. The workerpool
// package's Pool satisfies it; the default submitter just spawns a
// goroutine per load.
type Submitter interface {
	Submit(ctx context.Context, task func()) error
}

type goSubmitter struct{}

func (goSubmitter) Submit(_ context.Context, task func()) error {
	go task()
	return nil
}

// readiness is a single-slot broadcast future. A fresh cell replaces it
// only once the previous one has settled, so callers awaiting
// overlapping transitions share one outcome.
type readiness struct {
	done    chan struct{}
	err     error
	settled bool
}

func newReadiness() *readiness {
	return &readiness{done: make(chan struct{})}
}

func settledReadiness() *readiness {
	cell := newReadiness()
	cell.settle(nil)
	return cell
}

// settle is only called while holding the owning runtime's lock.
func (r *readiness) settle(err error) {
	if r.settled {
		return
	}
	r.err = err
	r.settled = true
	close(r.done)
}

// Ready signals completion of the most recent locale transition. Callers
// must re-check GetLocale after waiting: the transition that settled the
// cell may target a different locale than the one they asked for, if a
// later SetLocale call superseded theirs.
type Ready struct {
	cell *readiness
}

// Done returns a channel closed when the transition settles.
func (r Ready) Done() <-chan struct{} {
	if r.cell == nil {
		return nil
	}
	return r.cell.done
}

// Err reports the transition outcome. It only returns a meaningful value
// once Done is closed.
func (r Ready) Err() error {
	if r.cell == nil {
		return nil
	}
	select {
	case <-r.cell.done:
		return r.cell.err
	default:
		return nil
	}
}

// Wait blocks until the transition settles or ctx is done.
func (r Ready) Wait(ctx context.Context) error {
	if r.cell == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.cell.done:
		return r.cell.err
	}
}

// Runtime owns the active locale and coordinates asynchronous locale
// loads. It is configured exactly once and is safe for use from
// concurrent goroutines; all state mutation happens under one lock.
//
// Transitions are totally ordered by call sequence. A later SetLocale
// supersedes an earlier one still in flight and only the latest call's
// target can ever commit, so a slow early load never clobbers a newer,
// faster one. Supersession is soft: the superseded load still runs to
// completion, its result is simply discarded at a generation check.
type Runtime struct {
	mu sync.Mutex

	configured    bool
	transformOnly bool

	sourceLocale string
	validLocales map[string]struct{}
	loader       Loader
	submit       Submitter

	activeLocale  string
	loadingLocale string
	templates     map[string]any
	generation    uint64
	ready         *readiness
}

// RuntimeOption customises a Runtime before configuration.
type RuntimeOption func(*Runtime)

// WithSubmitter routes asynchronous loader invocations through the
// supplied submitter instead of bare goroutines.
func WithSubmitter(s Submitter) RuntimeOption {
	return func(r *Runtime) {
		if s != nil {
			r.submit = s
		}
	}
}

// NewRuntime creates an unconfigured runtime.
func NewRuntime(opts ...RuntimeOption) *Runtime {
	r := &Runtime{
		submit: goSubmitter{},
		ready:  settledReadiness(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ConfigureRuntime configures the runtime for dynamic locale switching.
// It fails with ErrAlreadyConfigured if the runtime was configured before
// in either mode.
func (r *Runtime) ConfigureRuntime(cfg Config) error {
	source, err := canonicalLocale(cfg.SourceLocale)
	if err != nil {
		return err
	}

	valid := make(map[string]struct{}, len(cfg.TargetLocales)+1)
	valid[source] = struct{}{}
	for _, target := range cfg.TargetLocales {
		canonical, cErr := canonicalLocale(target)
		if cErr != nil {
			return cErr
		}
		valid[canonical] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.configured {
		return ErrAlreadyConfigured
	}

	r.configured = true
	r.sourceLocale = source
	r.validLocales = valid
	r.loader = cfg.Loader
	r.activeLocale = source
	return nil
}

// ConfigureTransform configures the runtime for ahead-of-time translated
// programs: the locale is permanently the source locale and SetLocale is
// unavailable.
func (r *Runtime) ConfigureTransform(cfg TransformConfig) error {
	source, err := canonicalLocale(cfg.SourceLocale)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.configured {
		return ErrAlreadyConfigured
	}

	r.configured = true
	r.transformOnly = true
	r.sourceLocale = source
	r.validLocales = map[string]struct{}{source: {}}
	r.activeLocale = source
	return nil
}

// GetLocale returns the active locale. It never fails and never blocks;
// before configuration it returns the empty string.
func (r *Runtime) GetLocale() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeLocale
}

// SetLocale begins switching the runtime to locale and returns a Ready
// that settles when the most recently requested transition completes.
//
// Requesting the locale that is already active, or already being loaded,
// joins the pending transition instead of starting a new one; an
// in-flight load takes precedence over the active locale for that check.
// Any other locale starts a fresh transition that supersedes whatever was
// in flight: the superseded load's eventual outcome, success or failure,
// is discarded without touching state.
func (r *Runtime) SetLocale(ctx context.Context, locale string) (Ready, error) {
	r.mu.Lock()

	if !r.configured {
		r.mu.Unlock()
		return Ready{}, ErrNotConfigured
	}
	if r.transformOnly {
		r.mu.Unlock()
		return Ready{}, ErrLocalePinned
	}

	canonical, err := canonicalLocale(locale)
	if err != nil {
		r.mu.Unlock()
		return Ready{}, err
	}
	if _, ok := r.validLocales[canonical]; !ok {
		r.mu.Unlock()
		return Ready{}, &InvalidLocaleError{Locale: locale}
	}

	pending := r.loadingLocale
	if pending == "" {
		pending = r.activeLocale
	}
	if canonical == pending {
		ready := Ready{cell: r.ready}
		r.mu.Unlock()
		return ready, nil
	}

	// A fresh transition. Re-arm the readiness cell only if the previous
	// one already settled; otherwise the callers of the superseded
	// transition share this one's outcome.
	r.generation++
	generation := r.generation
	r.loadingLocale = canonical
	if r.ready.settled {
		r.ready = newReadiness()
	}
	ready := Ready{cell: r.ready}

	if canonical == r.sourceLocale {
		// Source strings are used literally, there is nothing to load.
		r.templates = nil
		r.activeLocale = canonical
		r.loadingLocale = ""
		r.ready.settle(nil)
		r.mu.Unlock()
		return ready, nil
	}

	loader := r.loader
	r.mu.Unlock()

	task := func() {
		r.runLoad(ctx, loader, canonical, generation)
	}
	if submitErr := r.submit.Submit(ctx, task); submitErr != nil {
		r.failTransition(canonical, generation, submitErr)
	}

	return ready, nil
}

// runLoad invokes the loader and commits the result if this transition is
// still the current one.
func (r *Runtime) runLoad(ctx context.Context, loader Loader, locale string, generation uint64) {
	module, err := loader(ctx, locale)

	r.mu.Lock()
	defer r.mu.Unlock()

	if generation != r.generation {
		log := util.Log(ctx).WithField("locale", locale)
		if err != nil {
			log.WithError(err).Debug("discarding failure of superseded locale load")
		} else {
			log.Debug("discarding result of superseded locale load")
		}
		return
	}

	r.loadingLocale = ""
	if err != nil {
		r.ready.settle(err)
		return
	}

	r.activeLocale = locale
	if module != nil {
		r.templates = module.Templates
	} else {
		r.templates = nil
	}
	r.ready.settle(nil)
}

func (r *Runtime) failTransition(locale string, generation uint64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if generation != r.generation {
		return
	}
	if r.loadingLocale == locale {
		r.loadingLocale = ""
	}
	r.ready.settle(err)
}
