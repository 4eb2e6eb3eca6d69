package weave

import (
	"context"

	"github.com/kwanza/weave/config"
	"github.com/kwanza/weave/localization"
)

// WithLocales Option that configures runtime locale switching with the
// supplied loader.
func WithLocales(source string, targets []string, loader localization.Loader) Option {
	return func(_ context.Context, r *Runtime) {
		r.localeSetup = &localeSetup{source: source, targets: targets, loader: loader}
	}
}

// WithTranslations Option that configures runtime locale switching backed
// by go-i18n message files in the given folder, one per target locale.
func WithTranslations(translationsFolder, source string, targets ...string) Option {
	return func(_ context.Context, r *Runtime) {
		r.localeSetup = &localeSetup{
			source:  source,
			targets: targets,
			loader:  localization.NewBundleLoader(translationsFolder),
		}
	}
}

// WithConfiguredLocales Option that draws the locale setup from the
// runtime's configuration object.
func WithConfiguredLocales() Option {
	return func(ctx context.Context, r *Runtime) {
		cfg, ok := r.Config().(config.ConfigurationLocalization)
		if !ok {
			r.Log(ctx).Error("localization configuration is not setup")
			return
		}

		r.localeSetup = &localeSetup{
			source:  cfg.GetSourceLocale(),
			targets: cfg.GetTargetLocales(),
			loader:  localization.NewBundleLoader(cfg.GetTranslationsFolder()),
		}
	}
}

// WithPinnedLocale Option that configures transform mode: translations
// are baked in ahead of time and the locale is permanently the source
// locale.
func WithPinnedLocale(source string) Option {
	return func(_ context.Context, r *Runtime) {
		r.localeSetup = &localeSetup{source: source, transform: true}
	}
}
