package catalog

import (
	"context"
	"strings"

	"github.com/nmxmxh/rosmaster/internal/names"
	"github.com/nmxmxh/rosmaster/internal/paramtree"
)

// RegisterParamSubscriber implements §4.4's param-subscriber registration:
// the key is canonicalized to trailing-slash form before insertion so
// prefix comparisons in OnParamUpdate denote subtree containment.
func (m *Manager) RegisterParamSubscriber(callerID, key, callerAPI string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	canon := names.Canon(key)
	node := m.ensureNode(callerID, callerAPI)
	node.paramSubscriptions[canon] = struct{}{}
	insert(m.paramSubscribers, canon, Registration{CallerID: callerID, API: callerAPI})
}

// UnregisterParamSubscriber removes callerID's subscription to key.
// Idempotent: an absent registration is silently ignored.
func (m *Manager) UnregisterParamSubscriber(callerID, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	canon := names.Canon(key)
	node, ok := m.nodes[callerID]
	if !ok {
		return
	}
	if _, had := node.paramSubscriptions[canon]; !had {
		return
	}
	delete(node.paramSubscriptions, canon)
	remove(m.paramSubscribers, canon, callerID)
	m.checkNode(node)
}

// OnParamUpdate implements §4.4's parameter change propagation. paramValue
// is the value just written (an empty mapping, for deletions); oldValue is
// the value key held immediately before the write (nil if it did not
// exist), used to tell a genuinely removed descendant from one that never
// existed. callerIDToIgnore is the writer, which never self-notifies.
func (m *Manager) OnParamUpdate(paramKey string, paramValue, oldValue paramtree.Value, callerIDToIgnore string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.notifyObserver("param_update", map[string]string{"key": paramKey})

	if len(m.paramSubscribers) == 0 {
		return
	}

	k := names.Canon(paramKey)
	newKeys, newIsMapping := descendantsOf(k, paramValue)
	oldKeys, _ := descendantsOf(k, oldValue)

	for subKey, set := range m.paramSubscribers {
		switch {
		case strings.HasPrefix(k, subKey):
			// Covering case: subKey is k itself or an ancestor of k. The
			// subscriber is watching at or above the write point, but the
			// delivery always carries the write key itself and its full
			// value, never the subscriber's (possibly higher) key.
			m.deliverParamUpdate(k, paramValue, set, callerIDToIgnore)
		case strings.HasPrefix(subKey, k):
			// subKey is inside the rewritten subtree. Only a key that
			// existed before and is now gone counts as a removal; a key
			// that never existed gets no delivery at all.
			_, stillPresent := newKeys[subKey]
			_, previouslyPresent := oldKeys[subKey]
			if !stillPresent && previouslyPresent {
				m.deliverParamUpdate(subKey, emptyMapping(), set, callerIDToIgnore)
			}
		}
	}

	if !newIsMapping {
		return
	}
	for descendant := range newKeys {
		set, ok := m.paramSubscribers[descendant]
		if !ok {
			continue
		}
		relative := names.Split(strings.TrimPrefix(descendant, k))
		value, ok := paramtree.ValueAtRelativePath(paramValue, relative)
		if !ok {
			continue
		}
		m.deliverParamUpdate(descendant, value, set, callerIDToIgnore)
	}
}

// descendantsOf reports the trailing-slash descendant keys reachable from
// v (rooted at canonKey) along with whether v is itself a mapping; a
// non-mapping v (including nil) yields an empty set and false.
func descendantsOf(canonKey string, v paramtree.Value) (map[string]struct{}, bool) {
	if _, ok := v.(map[string]paramtree.Value); !ok {
		return nil, false
	}
	return paramtree.AllDescendantKeys(canonKey, v), true
}

func emptyMapping() paramtree.Value {
	return map[string]paramtree.Value{}
}

// deliverParamUpdate asynchronously invokes paramUpdate(plainKey, value) on
// every subscriber in set except callerIDToIgnore. subKey is in trailing-
// slash canonical form; the wire delivery uses the plain form (§4.4).
func (m *Manager) deliverParamUpdate(subKey string, value paramtree.Value, set regSet, callerIDToIgnore string) {
	plainKey := plainFromCanon(subKey)
	for _, callerID := range callerIDList(set) {
		if callerID == callerIDToIgnore {
			continue
		}
		node, ok := m.nodes[callerID]
		if !ok {
			continue
		}
		handle := node.handle
		wireValue := paramtree.ToWire(value)
		m.dispatcher.Schedule("paramUpdate:"+plainKey+":"+callerID, func(ctx context.Context) error {
			return handle.ParamUpdate(ctx, plainKey, wireValue)
		})
	}
}

func plainFromCanon(key string) string {
	if key == "/" {
		return "/"
	}
	return strings.TrimSuffix(key, "/")
}
