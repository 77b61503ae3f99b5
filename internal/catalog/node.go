package catalog

import "github.com/nmxmxh/rosmaster/internal/nodeclient"

// Registration is the (caller_id, api) pair identifying one endpoint of
// one relationship (§3 Registration).
type Registration struct {
	CallerID string
	API      string
}

// Node is a logical participant keyed by caller_id (§3 Node). It exists in
// the node table iff at least one of its four relationship sets is
// non-empty.
type Node struct {
	CallerID string
	API      string
	handle   *nodeclient.Handle

	paramSubscriptions map[string]struct{} // trailing-slash keys
	topicSubscriptions map[string]struct{}
	topicPublications  map[string]struct{}
	services           map[string]struct{}
}

func newNode(callerID, api string, handle *nodeclient.Handle) *Node {
	return &Node{
		CallerID:           callerID,
		API:                api,
		handle:             handle,
		paramSubscriptions: make(map[string]struct{}),
		topicSubscriptions: make(map[string]struct{}),
		topicPublications:  make(map[string]struct{}),
		services:           make(map[string]struct{}),
	}
}

// hasAnyRegistration reports whether the Node has at least one relationship
// remaining, the invariant gating node-table membership (§3, §8).
func (n *Node) hasAnyRegistration() bool {
	return len(n.paramSubscriptions) > 0 ||
		len(n.topicSubscriptions) > 0 ||
		len(n.topicPublications) > 0 ||
		len(n.services) > 0
}
