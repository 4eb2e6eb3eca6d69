package localization

import "fmt"

// TemplateFunc is a parameterized template-like value. When a message
// resolves to one, Msg invokes it with the call-site arguments and
// returns its result.
type TemplateFunc func(args ...any) any

// Msg resolves id against the active locale's template table. When a
// non-source locale is active and its table carries the id, the localized
// value replaces the call-site source value; otherwise the source value
// is used verbatim. Either way, a function value is invoked with args and
// its result returned, any other value is returned as-is. There is no
// failure path: an absent id silently falls back to the source value.
func (r *Runtime) Msg(id string, source any, args ...any) any {
	r.mu.Lock()
	value := source
	if r.templates != nil {
		if localized, ok := r.templates[id]; ok {
			value = localized
		}
	}
	r.mu.Unlock()

	switch fn := value.(type) {
	case TemplateFunc:
		return fn(args...)
	case func(args ...any) any:
		return fn(args...)
	case func(args ...any) string:
		return fn(args...)
	default:
		return value
	}
}

// MsgString is Msg for callers that only deal in strings. Non-string
// results are formatted with fmt.Sprint.
func (r *Runtime) MsgString(id, source string, args ...any) string {
	value := r.Msg(id, source, args...)
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
