package contextual

import (
	"sync"

	"github.com/rs/xid"
)

// Listener inspects a request travelling up the tree. A listener that
// answers the request must call StopPropagation on it.
type Listener func(req *Request)

// Node is a member of a tree that can originate requests and host
// listeners that intercept them. The tree shape is explicit: every node
// knows its parent and dispatch walks the parent chain.
type Node struct {
	mu        sync.Mutex
	parent    *Node
	listeners map[string]Listener
	order     []string
}

// NewNode creates a detached node. Use SetParent to place it in a tree.
func NewNode() *Node {
	return &Node{listeners: make(map[string]Listener)}
}

// SetParent places the node under parent. A nil parent detaches it.
func (n *Node) SetParent(parent *Node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.parent = parent
}

// Parent returns the node's current parent, or nil at the root.
func (n *Node) Parent() *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.parent
}

// AddListener registers a listener on this node and returns a removal
// function. Removal is idempotent.
func (n *Node) AddListener(l Listener) func() {
	id := xid.New().String()

	n.mu.Lock()
	n.listeners[id] = l
	n.order = append(n.order, id)
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if _, ok := n.listeners[id]; !ok {
			return
		}
		delete(n.listeners, id)
		for i, lid := range n.order {
			if lid == id {
				n.order = append(n.order[:i], n.order[i+1:]...)
				break
			}
		}
	}
}

// Dispatch walks the request up the ancestor chain starting at this node.
// Propagation halts as soon as a listener stops the request.
func (n *Node) Dispatch(req *Request) {
	for node := n; node != nil; node = node.Parent() {
		node.deliver(req)
		if req.Stopped() {
			return
		}
	}
}

func (n *Node) deliver(req *Request) {
	n.mu.Lock()
	snapshot := make([]Listener, 0, len(n.order))
	for _, id := range n.order {
		snapshot = append(snapshot, n.listeners[id])
	}
	n.mu.Unlock()

	for _, l := range snapshot {
		l(req)
		if req.Stopped() {
			return
		}
	}
}
