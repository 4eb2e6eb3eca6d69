package contextual

// DisposeFunc unsubscribes the callback it was handed to. Calling it more
// than once has no additional effect.
type DisposeFunc func()

// Request asks the ancestor chain for the value bound to a key. It is
// created by a requester, dispatched once and consumed by at most one
// provider. When multiple is set the callback may be invoked repeatedly
// as the provided value changes, and the provider hands the requester a
// DisposeFunc so it can unsubscribe.
type Request struct {
	key      any
	callback func(value any, dispose DisposeFunc)
	multiple bool
	stopped  bool
}

// NewRequest assembles an untyped request envelope. Most callers should
// use the typed Dispatch helper instead.
func NewRequest(key any, callback func(value any, dispose DisposeFunc), multiple bool) *Request {
	return &Request{key: key, callback: callback, multiple: multiple}
}

// Key returns the identity token the requester is asking for.
func (r *Request) Key() any {
	return r.key
}

// Multiple reports whether the requester wants repeated deliveries.
func (r *Request) Multiple() bool {
	return r.multiple
}

// Deliver hands a value to the requester. Providers pass a non-nil dispose
// only for multiple-delivery subscriptions.
func (r *Request) Deliver(value any, dispose DisposeFunc) {
	r.callback(value, dispose)
}

// StopPropagation marks the request as handled so no further ancestor
// sees it. The first matching provider wins.
func (r *Request) StopPropagation() {
	r.stopped = true
}

// Stopped reports whether a provider has already claimed the request.
func (r *Request) Stopped() bool {
	return r.stopped
}

// Dispatch broadcasts a request for key up the ancestor chain starting at
// node n. There is no return value and no error channel: a request with no
// matching provider anywhere above is simply never answered, and the
// requester has to cope with that.
func Dispatch[T any](n *Node, key *Key[T], callback func(value T, dispose DisposeFunc), multiple bool) {
	req := NewRequest(key, func(value any, dispose DisposeFunc) {
		typed, ok := value.(T)
		if !ok {
			var zero T
			typed = zero
		}
		callback(typed, dispose)
	}, multiple)
	n.Dispatch(req)
}
