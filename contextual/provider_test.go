package contextual_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kwanza/weave/contextual"
)

// buildChain links nodes so that chain[0] is the leaf and the last entry
// is the root.
func buildChain(count int) []*contextual.Node {
	nodes := make([]*contextual.Node, count)
	for i := range nodes {
		nodes[i] = contextual.NewNode()
		if i > 0 {
			nodes[i-1].SetParent(nodes[i])
		}
	}
	return nodes
}

func TestProviderAnswersMatchingRequest(t *testing.T) {
	nodes := buildChain(3)
	key := contextual.NewKey[string]("theme")

	provider := contextual.NewProvider(nodes[2], key, "dark")
	provider.Connect()

	var got string
	contextual.Dispatch(nodes[0], key, func(value string, _ contextual.DisposeFunc) {
		got = value
	}, false)

	require.Equal(t, "dark", got)
}

func TestProviderMatchesByKeyIdentityNotLabel(t *testing.T) {
	nodes := buildChain(2)
	keyA := contextual.NewKey[string]("theme")
	keyB := contextual.NewKey[string]("theme")

	provider := contextual.NewProvider(nodes[1], keyA, "dark")
	provider.Connect()

	answered := false
	contextual.Dispatch(nodes[0], keyB, func(string, contextual.DisposeFunc) {
		answered = true
	}, false)

	require.False(t, answered, "two keys with the same label must never match")
}

func TestNearestProviderWins(t *testing.T) {
	nodes := buildChain(3)
	key := contextual.NewKey[string]("theme")

	near := contextual.NewProvider(nodes[1], key, "near")
	near.Connect()
	far := contextual.NewProvider(nodes[2], key, "far")
	far.Connect()

	var got []string
	contextual.Dispatch(nodes[0], key, func(value string, _ contextual.DisposeFunc) {
		got = append(got, value)
	}, false)

	require.Equal(t, []string{"near"}, got, "propagation must stop at the first matching provider")
	require.Zero(t, far.Container().SubscriberCount())
}

func TestUnansweredRequestIsSilent(t *testing.T) {
	nodes := buildChain(3)
	key := contextual.NewKey[int]("count")

	answered := false
	require.NotPanics(t, func() {
		contextual.Dispatch(nodes[0], key, func(int, contextual.DisposeFunc) {
			answered = true
		}, false)
	})

	require.False(t, answered)
}

func TestMultipleRequestFollowsProviderUpdates(t *testing.T) {
	nodes := buildChain(2)
	key := contextual.NewKey[int]("count")

	provider := contextual.NewProvider(nodes[1], key, 1)
	provider.Connect()

	var got []int
	var disposeFn contextual.DisposeFunc
	contextual.Dispatch(nodes[0], key, func(value int, dispose contextual.DisposeFunc) {
		got = append(got, value)
		disposeFn = dispose
	}, true)

	provider.SetValue(2)
	require.Equal(t, []int{1, 2}, got)
	require.NotNil(t, disposeFn, "multiple requests must receive a dispose handle")

	disposeFn()
	provider.SetValue(3)
	require.Equal(t, []int{1, 2}, got)
}

func TestSingleRequestReceivesNoDisposeAndNoUpdates(t *testing.T) {
	nodes := buildChain(2)
	key := contextual.NewKey[int]("count")

	provider := contextual.NewProvider(nodes[1], key, 1)
	provider.Connect()

	var got []int
	contextual.Dispatch(nodes[0], key, func(value int, dispose contextual.DisposeFunc) {
		require.Nil(t, dispose)
		got = append(got, value)
	}, false)

	provider.SetValue(2)
	require.Equal(t, []int{1}, got)
}

func TestDisconnectedProviderIgnoresRequests(t *testing.T) {
	nodes := buildChain(2)
	key := contextual.NewKey[string]("theme")

	provider := contextual.NewProvider(nodes[1], key, "dark")

	answered := false
	contextual.Dispatch(nodes[0], key, func(string, contextual.DisposeFunc) {
		answered = true
	}, false)

	require.False(t, answered, "a provider that never connected must not intercept")

	provider.Connect()
	contextual.Dispatch(nodes[0], key, func(string, contextual.DisposeFunc) {
		answered = true
	}, false)
	require.True(t, answered)
}

func TestDisconnectClearsSubscriptions(t *testing.T) {
	nodes := buildChain(2)
	key := contextual.NewKey[string]("theme")

	provider := contextual.NewProvider(nodes[1], key, "dark")
	provider.Connect()

	var got []string
	contextual.Dispatch(nodes[0], key, func(value string, _ contextual.DisposeFunc) {
		got = append(got, value)
	}, true)
	require.Equal(t, 1, provider.Container().SubscriberCount())

	provider.Disconnect()
	require.Zero(t, provider.Container().SubscriberCount())

	provider.SetValue("light")
	require.Equal(t, []string{"dark"}, got, "subscriptions must not outlive the host")

	answered := false
	contextual.Dispatch(nodes[0], key, func(string, contextual.DisposeFunc) {
		answered = true
	}, false)
	require.False(t, answered)
}

func TestReconnectAfterDisconnect(t *testing.T) {
	nodes := buildChain(2)
	key := contextual.NewKey[string]("theme")

	provider := contextual.NewProvider(nodes[1], key, "dark")
	provider.Connect()
	provider.Disconnect()
	provider.Connect()

	var got string
	contextual.Dispatch(nodes[0], key, func(value string, _ contextual.DisposeFunc) {
		got = value
	}, false)

	require.Equal(t, "dark", got)
}

func TestRequestFromProviderNodeIsAnswered(t *testing.T) {
	node := contextual.NewNode()
	key := contextual.NewKey[string]("theme")

	provider := contextual.NewProvider(node, key, "dark")
	provider.Connect()

	var got string
	contextual.Dispatch(node, key, func(value string, _ contextual.DisposeFunc) {
		got = value
	}, false)

	require.Equal(t, "dark", got, "the chain walk starts at the dispatching node itself")
}
