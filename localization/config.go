package localization

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

var (
	// ErrAlreadyConfigured is returned when a runtime is configured a
	// second time. Configuration happens exactly once per runtime.
	ErrAlreadyConfigured = errors.New("localization: already configured")

	// ErrNotConfigured is returned when the locale mutator is used
	// before any configuration has happened.
	ErrNotConfigured = errors.New("localization: not configured")

	// ErrLocalePinned is returned by SetLocale on a runtime configured
	// in transform mode, where the locale is permanently fixed to the
	// source locale.
	ErrLocalePinned = errors.New("localization: locale is pinned to the source locale")
)

// InvalidLocaleError reports a locale outside the configured set.
type InvalidLocaleError struct {
	Locale string
}

func (e *InvalidLocaleError) Error() string {
	return fmt.Sprintf("localization: locale %q is not in the configured set", e.Locale)
}

// Module is what a Loader resolves for a target locale: a table mapping
// message ids to template-like values. A value may be a plain string, any
// renderable value, or a TemplateFunc invoked with the call-site
// parameters.
type Module struct {
	Templates map[string]any
}

// Loader fetches the translation module for a target locale. It is only
// ever invoked with locales drawn from the configured target set, never
// with the source locale.
type Loader func(ctx context.Context, locale string) (*Module, error)

// Config is the immutable setup for a runtime-mode localization runtime.
type Config struct {
	// SourceLocale is the locale the embedded template values are
	// authored in. It is never passed to the loader.
	SourceLocale string

	// TargetLocales are the locales the runtime may switch to.
	TargetLocales []string

	// Loader resolves modules for target locales.
	Loader Loader
}

// TransformConfig is the setup for transform mode, where translations are
// baked in ahead of time and the locale never changes.
type TransformConfig struct {
	SourceLocale string
}

// canonicalLocale validates a locale tag and returns its canonical form,
// so "en-us" and "en-US" configure and match as the same locale.
func canonicalLocale(locale string) (string, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return "", fmt.Errorf("localization: invalid locale tag %q: %w", locale, err)
	}
	return tag.String(), nil
}
