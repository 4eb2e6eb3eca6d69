package contextual

// Provider answers requests for a single key using a backing container.
// It bridges requests travelling up the tree to the container's
// subscriber registry: a matching request is claimed, propagation stops
// and the requester's callback is registered on the container.
//
// A provider only answers while it is connected. Connect it when the
// hosting node becomes live in the tree and disconnect it when the host
// leaves, so subscriptions never outlive the host.
type Provider[T any] struct {
	node      *Node
	key       *Key[T]
	container *Container[T]
	detach    func()
}

// NewProvider creates a provider for key on node, seeded with an initial
// value. The provider is created disconnected.
func NewProvider[T any](node *Node, key *Key[T], value T) *Provider[T] {
	return &Provider[T]{
		node:      node,
		key:       key,
		container: NewContainer(value),
	}
}

// Container exposes the backing container.
func (p *Provider[T]) Container() *Container[T] {
	return p.container
}

// Value returns the currently provided value.
func (p *Provider[T]) Value() T {
	return p.container.Value()
}

// SetValue updates the provided value and re-notifies subscribers.
func (p *Provider[T]) SetValue(value T) {
	p.container.SetValue(value)
}

// Connect attaches the provider's listener to its node. Connecting twice
// is a no-op.
func (p *Provider[T]) Connect() {
	if p.detach != nil {
		return
	}
	p.detach = p.node.AddListener(p.intercept)
}

// Disconnect removes the listener and drops every registered
// subscription, so callbacks belonging to a dead host are never invoked
// again.
func (p *Provider[T]) Disconnect() {
	if p.detach == nil {
		return
	}
	p.detach()
	p.detach = nil
	p.container.Clear()
}

// intercept inspects a request travelling through the provider's node.
// Requests for other keys pass through untouched so an ancestor further
// up may still answer them.
func (p *Provider[T]) intercept(req *Request) {
	if req.Key() != any(p.key) {
		return
	}

	req.StopPropagation()

	if req.Multiple() {
		p.container.Subscribe(func(value T, dispose DisposeFunc) {
			req.Deliver(value, dispose)
		}, true)
		return
	}

	p.container.Subscribe(func(value T, _ DisposeFunc) {
		req.Deliver(value, nil)
	}, false)
}
