package localization

import "context"

// defaultRuntime backs the package-level functions for programs that want
// one process-wide localization runtime. Libraries and tests should
// prefer explicit Runtime instances.
var defaultRuntime = NewRuntime()

// ConfigureRuntime configures the default runtime for dynamic locale
// switching.
func ConfigureRuntime(cfg Config) error {
	return defaultRuntime.ConfigureRuntime(cfg)
}

// ConfigureTransform configures the default runtime in transform mode.
func ConfigureTransform(cfg TransformConfig) error {
	return defaultRuntime.ConfigureTransform(cfg)
}

// GetLocale returns the default runtime's active locale.
func GetLocale() string {
	return defaultRuntime.GetLocale()
}

// SetLocale switches the default runtime's locale.
func SetLocale(ctx context.Context, locale string) (Ready, error) {
	return defaultRuntime.SetLocale(ctx, locale)
}

// Msg resolves id against the default runtime's active template table.
func Msg(id string, source any, args ...any) any {
	return defaultRuntime.Msg(id, source, args...)
}

// MsgString is Msg constrained to string results.
func MsgString(id, source string, args ...any) string {
	return defaultRuntime.MsgString(id, source, args...)
}
