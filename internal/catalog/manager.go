// Package catalog implements the Registration Manager of §4.4: the
// node/topic/service catalog, incremental publisher-to-subscriber
// matching, node identity and retirement rules, and parameter
// change-propagation to subscribers.
//
// Grounded on the teacher's pkg/registration (manager.go, registration.go):
// that package's map-of-sets-by-key catalog and register/unregister
// lifecycle is the structural model here, generalized from its one-shot
// service inventory to the four independent relationship kinds (§3
// Catalog indices) this system's graph master needs. Outbound
// notifications are scheduled on internal/notify exactly as §5 requires:
// the event loop (the Manager's mutex-guarded methods) never suspends on
// outbound I/O.
package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/nmxmxh/rosmaster/internal/names"
	"github.com/nmxmxh/rosmaster/internal/nodeclient"
	"github.com/nmxmxh/rosmaster/internal/notify"
	"github.com/nmxmxh/rosmaster/internal/paramtree"
	"github.com/nmxmxh/rosmaster/pkg/errors"
	"go.uber.org/zap"
)

// regSet is a set of Registrations for one catalog key, keyed by caller_id
// (a node registers at most one Registration per key per relationship).
type regSet map[string]Registration

// Manager owns the four catalog indices, the node table, and the
// parameter-change notification rules. All mutating methods are
// synchronized by mu, modeling §5's single logical event loop: no two
// callers observe each other's partial mutations.
type Manager struct {
	mu sync.Mutex

	nodes map[string]*Node

	paramSubscribers catalogIndex // trailing-slash key -> subscribers
	publishers       catalogIndex // topic -> publisher registrations
	subscribers      catalogIndex // topic -> subscriber registrations
	services         catalogIndex // service -> provider registrations
	topicTypes       map[string]string

	dispatcher *notify.Dispatcher
	log        *zap.Logger

	observer func(kind string, data interface{})
}

// SetObserver installs a callback invoked synchronously (under mu) on
// every catalog change the optional internal/bridge and internal/livefeed
// exports care about: node eviction, topic registration/retirement,
// publisher-list changes, and parameter updates. It is not part of §4.4's
// contract; nil (the
// default) disables it entirely at zero cost.
func (m *Manager) SetObserver(fn func(kind string, data interface{})) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observer = fn
}

func (m *Manager) notifyObserver(kind string, data interface{}) {
	if m.observer != nil {
		m.observer(kind, data)
	}
}

// catalogIndex names the shape of the four catalog indices: key -> regSet.
type catalogIndex = map[string]regSet

// New builds an empty Manager. dispatcher schedules all outbound
// notifications asynchronously (§4.3, §5).
func New(dispatcher *notify.Dispatcher, log *zap.Logger) *Manager {
	return &Manager{
		nodes:            make(map[string]*Node),
		paramSubscribers: make(catalogIndex),
		publishers:       make(catalogIndex),
		subscribers:      make(catalogIndex),
		services:         make(catalogIndex),
		topicTypes:       make(map[string]string),
		dispatcher:       dispatcher,
		log:              log,
	}
}

// insert adds reg into index[key], creating the entry if absent.
func insert(index catalogIndex, key string, reg Registration) {
	set, ok := index[key]
	if !ok {
		set = make(regSet)
		index[key] = set
	}
	set[reg.CallerID] = reg
}

// remove deletes callerID's Registration from index[key], deleting the key
// entirely if the set becomes empty (§3 invariant (b)).
func remove(index catalogIndex, key, callerID string) {
	set, ok := index[key]
	if !ok {
		return
	}
	delete(set, callerID)
	if len(set) == 0 {
		delete(index, key)
	}
}

// apiList renders a regSet's APIs in a deterministic (sorted by caller_id)
// order, per the Design Notes recommendation for testable determinism.
func apiList(set regSet) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = set[id].API
	}
	return out
}

func callerIDList(set regSet) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ensureNode implements §4.4 Identity. If callerID is new, a Node is
// created. If it exists with the same callerAPI, it is returned unchanged.
// If it exists with a different callerAPI, the prior node is shut down and
// purged from every catalog index before the new Node is installed.
func (m *Manager) ensureNode(callerID, callerAPI string) *Node {
	if existing, ok := m.nodes[callerID]; ok {
		if existing.API == callerAPI {
			return existing
		}
		m.evict(existing, "new node registered with same name")
	}
	n := newNode(callerID, callerAPI, nodeclient.New(callerAPI, m.log))
	m.nodes[callerID] = n
	return n
}

// evict purges every Registration belonging to node from all four catalog
// indices and asynchronously shuts down and closes its outbound client.
// Per the Design Notes open question, eviction and the subsequent install
// of the new node happen while m.mu is held, so no concurrent reader
// observes the half-evicted state.
func (m *Manager) evict(node *Node, reason string) {
	for topic := range node.topicPublications {
		remove(m.publishers, topic, node.CallerID)
	}
	for topic := range node.topicSubscriptions {
		remove(m.subscribers, topic, node.CallerID)
	}
	for svc := range node.services {
		remove(m.services, svc, node.CallerID)
	}
	for key := range node.paramSubscriptions {
		remove(m.paramSubscribers, key, node.CallerID)
	}
	delete(m.nodes, node.CallerID)

	affectedTopics := make([]string, 0, len(node.topicPublications))
	for topic := range node.topicPublications {
		affectedTopics = append(affectedTopics, topic)
	}

	handle := node.handle
	m.dispatcher.Schedule("evict:"+node.CallerID, func(ctx context.Context) error {
		handle.ShutdownThenClose(ctx, reason)
		return nil
	})
	for _, topic := range affectedTopics {
		m.scheduleSubscriberUpdateLocked(topic)
	}
	m.notifyObserver("evict", map[string]string{"caller_id": node.CallerID, "reason": reason})
}

// checkNode implements §4.4 Retirement: if node has no relationships left
// in any of its four sets, it is removed from the node table and its
// outbound client is closed asynchronously.
func (m *Manager) checkNode(node *Node) {
	if node.hasAnyRegistration() {
		return
	}
	delete(m.nodes, node.CallerID)
	handle := node.handle
	m.dispatcher.Schedule("retire:"+node.CallerID, func(ctx context.Context) error {
		handle.Close()
		return nil
	})
}

// GetServiceAPI returns the API of any one registered provider (chosen
// deterministically: lexicographically smallest caller_id, per the Design
// Notes recommendation). ErrNotFound if the service has no provider.
func (m *Manager) GetServiceAPI(service string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.services[service]
	if !ok || len(set) == 0 {
		return "", errors.ErrNotFound
	}
	ids := callerIDList(set)
	return set[ids[0]].API, nil
}

// GetCallerAPI returns nodeName's node-API URL, ErrNotFound if unknown.
func (m *Manager) GetCallerAPI(nodeName string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[nodeName]
	if !ok {
		return "", errors.ErrNotFound
	}
	return n.API, nil
}

// GetPublishedTopics returns (topic, type) pairs for every topic under
// subgraph (a plain-key prefix; "" or "/" matches everything).
func (m *Manager) GetPublishedTopics(subgraph string) map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := names.Plain(subgraph)
	if prefix == "/" {
		prefix = ""
	}
	out := make(map[string]string)
	for topic := range m.publishers {
		if prefix == "" || hasTopicPrefix(topic, prefix) {
			out[topic] = m.topicTypes[topic]
		}
	}
	return out
}

func hasTopicPrefix(topic, prefix string) bool {
	if topic == prefix {
		return true
	}
	return len(topic) > len(prefix) && topic[:len(prefix)] == prefix && (prefix == "/" || topic[len(prefix)] == '/')
}

// GetTopicTypes returns every (topic, type) entry recorded so far.
func (m *Manager) GetTopicTypes() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.topicTypes))
	for k, v := range m.topicTypes {
		out[k] = v
	}
	return out
}

// SystemState is the triple returned by getSystemState (§4.5), restricted
// to non-empty entries.
type SystemState struct {
	Publishers  map[string][]string
	Subscribers map[string][]string
	Services    map[string][]string
}

// GetSystemState snapshots the full catalog.
func (m *Manager) GetSystemState() SystemState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return SystemState{
		Publishers:  snapshotCallerIDs(m.publishers),
		Subscribers: snapshotCallerIDs(m.subscribers),
		Services:    snapshotCallerIDs(m.services),
	}
}

func snapshotCallerIDs(index catalogIndex) map[string][]string {
	out := make(map[string][]string, len(index))
	for key, set := range index {
		if len(set) == 0 {
			continue
		}
		out[key] = callerIDList(set)
	}
	return out
}
