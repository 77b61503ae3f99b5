// Package rpcmaster implements the RPC Facade of §4.5: it is the only
// place that translates the Parameter Cache's and Registration Manager's
// sentinel errors into the wire's (status, statusMessage, value) triple,
// and the only place that knows about both components at once.
//
// Grounded on the teacher's internal/server (server.go, registration.go):
// that package's pattern of one facade type holding references to every
// backing component and exposing a flat method surface is the structural
// model here, adapted from gRPC-service dispatch to the XML-RPC method
// table built by internal/xmlrpc.
package rpcmaster

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/nmxmxh/rosmaster/internal/catalog"
	"github.com/nmxmxh/rosmaster/internal/paramtree"
	rosmasterErrors "github.com/nmxmxh/rosmaster/pkg/errors"
	"go.uber.org/zap"
)

const (
	statusSuccess = 1
	statusFailure = -1
)

// Result is the wire-level (status, statusMessage, value) triple every
// method returns (§6).
type Result struct {
	Status  int
	Message string
	Value   interface{}
}

func ok(value interface{}) Result { return Result{Status: statusSuccess, Value: value} }

func fail(message string, value interface{}) Result {
	if value == nil {
		value = int64(0)
	}
	return Result{Status: statusFailure, Message: message, Value: value}
}

// Facade dispatches the inbound RPC surface to the Parameter Cache and
// Registration Manager. The parameter tree is not internally synchronized
// (see internal/paramtree's doc comment); treeMu is the single master-wide
// lock that serializes every call into it, matching §5's single logical
// event loop.
type Facade struct {
	tree    *paramtree.Tree
	treeMu  sync.Mutex
	catalog *catalog.Manager
	log     *zap.Logger

	uri        string
	shutdownFn func(msg string)
}

// New builds a Facade over tree and cat. shutdownFn is invoked
// asynchronously by the shutdown method; uri is set once by SetURI after
// the transport has bound its listener and resolved its advertised address
// (§6).
func New(tree *paramtree.Tree, cat *catalog.Manager, log *zap.Logger, shutdownFn func(msg string)) *Facade {
	return &Facade{tree: tree, catalog: cat, log: log, shutdownFn: shutdownFn}
}

// SetURI records the master's own advertised RPC endpoint, observable only
// after the transport binds (ephemeral ports, §6).
func (f *Facade) SetURI(uri string) { f.uri = uri }

// GetPid returns the master process's pid.
func (f *Facade) GetPid(_ string) Result { return ok(os.Getpid()) }

// GetURI returns the master's own advertised RPC endpoint.
func (f *Facade) GetURI(_ string) Result { return ok(f.uri) }

// Shutdown asynchronously terminates the master process. The RPC itself
// still returns success synchronously; the actual process exit happens
// out-of-band so the response reaches the caller first.
func (f *Facade) Shutdown(callerID, msg string) Result {
	f.log.Info("shutdown requested", zap.String("caller_id", callerID), zap.String("msg", msg))
	if f.shutdownFn != nil {
		go f.shutdownFn(msg)
	}
	return ok(1)
}

// DeleteParam implements §4.5's direct delegation to the Parameter Cache,
// followed by the §4.4 change-propagation pass.
func (f *Facade) DeleteParam(callerID, key string) Result {
	f.treeMu.Lock()
	oldValue, _ := f.tree.Get(key)
	err := f.tree.Delete(key)
	f.treeMu.Unlock()
	if err != nil {
		return translateErr(err)
	}
	f.catalog.OnParamUpdate(key, map[string]paramtree.Value{}, oldValue, callerID)
	return ok(1)
}

// SetParam writes value at key and then runs change propagation.
func (f *Facade) SetParam(callerID, key string, value interface{}) Result {
	v := paramtree.FromWire(value)
	f.treeMu.Lock()
	oldValue, _ := f.tree.Get(key)
	err := f.tree.Set(key, v)
	f.treeMu.Unlock()
	if err != nil {
		return translateErr(err)
	}
	f.catalog.OnParamUpdate(key, v, oldValue, callerID)
	return ok(1)
}

// GetParam reads key from the Parameter Cache.
func (f *Facade) GetParam(_, key string) Result {
	f.treeMu.Lock()
	v, err := f.tree.Get(key)
	f.treeMu.Unlock()
	if err != nil {
		return translateErr(err)
	}
	return ok(paramtree.ToWire(v))
}

// HasParam reports whether key exists.
func (f *Facade) HasParam(_, key string) Result {
	f.treeMu.Lock()
	has := f.tree.Has(key)
	f.treeMu.Unlock()
	return ok(has)
}

// SearchParam implements the nearest-enclosing-namespace lookup (§4.2).
func (f *Facade) SearchParam(callerID, key string) Result {
	f.treeMu.Lock()
	found, err := f.tree.Search(key, callerID)
	f.treeMu.Unlock()
	if err != nil {
		return ok("") // ROS convention: no match is success with an empty string, not a failure.
	}
	return ok(found)
}

// GetParamNames lists every leaf key currently stored.
func (f *Facade) GetParamNames(_ string) Result {
	f.treeMu.Lock()
	keys := f.tree.Keys()
	f.treeMu.Unlock()
	out := make([]interface{}, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return ok(out)
}

// SubscribeParam registers a param subscriber and returns the parameter's
// current value (an empty mapping if absent), per §4.5.
func (f *Facade) SubscribeParam(callerID, callerAPI, key string) Result {
	f.catalog.RegisterParamSubscriber(callerID, key, callerAPI)
	f.treeMu.Lock()
	v, err := f.tree.Get(key)
	f.treeMu.Unlock()
	if err != nil {
		v = map[string]paramtree.Value{}
	}
	return ok(paramtree.ToWire(v))
}

// UnsubscribeParam removes a param subscription.
func (f *Facade) UnsubscribeParam(callerID, key string) Result {
	f.catalog.UnregisterParamSubscriber(callerID, key)
	return ok(1)
}

// RegisterService records a service provider.
func (f *Facade) RegisterService(callerID, service, serviceAPI, callerAPI string) Result {
	f.catalog.RegisterService(callerID, service, serviceAPI, callerAPI)
	return ok(1)
}

// UnregisterService removes a service provider.
func (f *Facade) UnregisterService(callerID, service, _ string) Result {
	f.catalog.UnregisterService(callerID, service)
	return ok(1)
}

// LookupService returns the API of any one registered provider.
func (f *Facade) LookupService(_, service string) Result {
	api, err := f.catalog.GetServiceAPI(service)
	if err != nil {
		return fail(fmt.Sprintf("no provider for service [%s]", service), nil)
	}
	return ok(api)
}

// RegisterSubscriber registers a topic subscriber and returns the current
// publisher API list (§4.5).
func (f *Facade) RegisterSubscriber(callerID, topic, topicType, callerAPI string) Result {
	pubs := f.catalog.RegisterSubscriber(callerID, topic, topicType, callerAPI)
	return ok(toStringList(pubs))
}

// UnregisterSubscriber removes a topic subscription.
func (f *Facade) UnregisterSubscriber(callerID, topic, callerAPI string) Result {
	f.catalog.UnregisterSubscriber(callerID, topic, callerAPI)
	return ok(1)
}

// RegisterPublisher registers a topic publisher, schedules subscriber
// updates, and returns the current subscriber API list (§4.5).
func (f *Facade) RegisterPublisher(callerID, topic, topicType, callerAPI string) Result {
	subs := f.catalog.RegisterPublisher(callerID, topic, topicType, callerAPI)
	return ok(toStringList(subs))
}

// UnregisterPublisher removes a topic publication and schedules subscriber
// updates.
func (f *Facade) UnregisterPublisher(callerID, topic, callerAPI string) Result {
	f.catalog.UnregisterPublisher(callerID, topic, callerAPI)
	return ok(1)
}

// LookupNode returns callerAPI for nodeName.
func (f *Facade) LookupNode(_, nodeName string) Result {
	api, err := f.catalog.GetCallerAPI(nodeName)
	if err != nil {
		return fail(fmt.Sprintf("unknown node [%s]", nodeName), nil)
	}
	return ok(api)
}

// GetPublishedTopics returns [topic, type] pairs under subgraph.
func (f *Facade) GetPublishedTopics(_, subgraph string) Result {
	topics := f.catalog.GetPublishedTopics(subgraph)
	names := make([]string, 0, len(topics))
	for t := range topics {
		names = append(names, t)
	}
	sort.Strings(names)
	out := make([]interface{}, 0, len(names))
	for _, t := range names {
		out = append(out, []interface{}{t, topics[t]})
	}
	return ok(out)
}

// GetTopicTypes returns every (topic, type) entry recorded so far.
func (f *Facade) GetTopicTypes(_ string) Result {
	types := f.catalog.GetTopicTypes()
	names := make([]string, 0, len(types))
	for t := range types {
		names = append(names, t)
	}
	sort.Strings(names)
	out := make([]interface{}, 0, len(names))
	for _, t := range names {
		out = append(out, []interface{}{t, types[t]})
	}
	return ok(out)
}

// GetSystemState returns the (publishers, subscribers, services) triple,
// restricted to non-empty entries, each rendered as [key, [caller_ids]].
func (f *Facade) GetSystemState(_ string) Result {
	state := f.catalog.GetSystemState()
	return ok([]interface{}{
		renderStateMap(state.Publishers),
		renderStateMap(state.Subscribers),
		renderStateMap(state.Services),
	})
}

func renderStateMap(m map[string][]string) []interface{} {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]interface{}, 0, len(keys))
	for _, k := range keys {
		out = append(out, []interface{}{k, toStringList(m[k])})
	}
	return out
}

func toStringList(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func translateErr(err error) Result {
	switch {
	case errors.Is(err, rosmasterErrors.ErrNotFound):
		return fail("", 0)
	case errors.Is(err, rosmasterErrors.ErrInvalidValue):
		return fail("setting root requires a mapping value", 0)
	default:
		return fail(err.Error(), 0)
	}
}
