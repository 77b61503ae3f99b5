package rpcmaster

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/nmxmxh/rosmaster/internal/catalog"
	"github.com/nmxmxh/rosmaster/internal/notify"
	"github.com/nmxmxh/rosmaster/internal/paramtree"
	"github.com/nmxmxh/rosmaster/internal/xmlrpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestFacade(t *testing.T) *Facade {
	t.Helper()
	log := zap.NewNop()
	d := notify.New(2, log)
	d.Start()
	t.Cleanup(d.Stop)
	cat := catalog.New(d, log)
	f := New(paramtree.New(), cat, log, nil)
	f.SetURI("http://master:11311/")
	return f
}

func TestGetPidAndURI(t *testing.T) {
	f := newTestFacade(t)
	pid := f.GetPid("caller")
	assert.Equal(t, statusSuccess, pid.Status)

	uri := f.GetURI("caller")
	assert.Equal(t, "http://master:11311/", uri.Value)
}

func TestSetGetHasDeleteParam(t *testing.T) {
	f := newTestFacade(t)

	res := f.SetParam("caller", "/robot/name", "r2d2")
	require.Equal(t, statusSuccess, res.Status)

	has := f.HasParam("caller", "/robot/name")
	assert.Equal(t, true, has.Value)

	got := f.GetParam("caller", "/robot/name")
	assert.Equal(t, "r2d2", got.Value)

	del := f.DeleteParam("caller", "/robot/name")
	require.Equal(t, statusSuccess, del.Status)

	missing := f.GetParam("caller", "/robot/name")
	assert.Equal(t, statusFailure, missing.Status)
}

func TestSetParamStructRoundTripsToWireShapes(t *testing.T) {
	f := newTestFacade(t)

	res := f.SetParam("caller", "/a", map[string]interface{}{
		"b": int64(1),
		"c": int64(2),
	})
	require.Equal(t, statusSuccess, res.Status)

	got := f.GetParam("caller", "/a/b")
	assert.Equal(t, int64(1), got.Value)

	whole := f.GetParam("caller", "/a")
	m, ok := whole.Value.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, int64(1), m["b"])
}

func TestSearchParamNoMatchIsSuccessWithEmptyString(t *testing.T) {
	f := newTestFacade(t)
	res := f.SearchParam("caller", "nonexistent")
	assert.Equal(t, statusSuccess, res.Status)
	assert.Equal(t, "", res.Value)
}

func TestSearchParamResolvesNearestEnclosingNamespace(t *testing.T) {
	f := newTestFacade(t)
	require.Equal(t, statusSuccess, f.SetParam("caller", "/a/b/c", int64(1)).Status)
	require.Equal(t, statusSuccess, f.SetParam("caller", "/x/b/c", int64(2)).Status)

	res := f.SearchParam("/x/node", "b/c")
	assert.Equal(t, "/x/b/c", res.Value)
}

func TestGetParamNamesListsLeavesOnly(t *testing.T) {
	f := newTestFacade(t)
	require.Equal(t, statusSuccess, f.SetParam("caller", "/a/b", int64(1)).Status)
	require.Equal(t, statusSuccess, f.SetParam("caller", "/a/c", int64(2)).Status)

	res := f.GetParamNames("caller")
	names, ok := res.Value.([]interface{})
	require.True(t, ok)
	assert.ElementsMatch(t, []interface{}{"/a/b", "/a/c"}, names)
}

func TestRegisterPublisherAndSubscriberReturnCurrentLists(t *testing.T) {
	f := newTestFacade(t)

	sub := newFakeRPCNode(t)
	pub := newFakeRPCNode(t)

	subRes := f.RegisterSubscriber("S", "/t", "int32", sub.srv.URL)
	pubs, ok := subRes.Value.([]interface{})
	require.True(t, ok)
	assert.Empty(t, pubs)

	pubRes := f.RegisterPublisher("P", "/t", "int32", pub.srv.URL)
	subs, ok := pubRes.Value.([]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{sub.srv.URL}, subs)
}

func TestRegisterAndLookupService(t *testing.T) {
	f := newTestFacade(t)
	res := f.RegisterService("N", "/add_two_ints", "http://n/", "http://n-api/")
	require.Equal(t, statusSuccess, res.Status)

	lookup := f.LookupService("caller", "/add_two_ints")
	assert.Equal(t, "http://n/", lookup.Value)

	f.UnregisterService("N", "/add_two_ints", "http://n/")
	missing := f.LookupService("caller", "/add_two_ints")
	assert.Equal(t, statusFailure, missing.Status)
}

func TestLookupNodeUnknownFails(t *testing.T) {
	f := newTestFacade(t)
	res := f.LookupNode("caller", "nosuchnode")
	assert.Equal(t, statusFailure, res.Status)
}

func TestGetSystemStateReflectsRegistrations(t *testing.T) {
	f := newTestFacade(t)
	pub := newFakeRPCNode(t)
	f.RegisterPublisher("P", "/t", "int32", pub.srv.URL)

	res := f.GetSystemState("caller")
	triple, ok := res.Value.([]interface{})
	require.True(t, ok)
	require.Len(t, triple, 3)
	publishers, ok := triple[0].([]interface{})
	require.True(t, ok)
	require.Len(t, publishers, 1)
}

func TestHandlersDispatchGetPid(t *testing.T) {
	f := newTestFacade(t)
	h := f.Handlers()
	method, ok := h["getPid"]
	require.True(t, ok)

	out, err := method(context.Background(), []xmlrpc.Value{"caller"})
	require.NoError(t, err)
	arr, ok := out.([]interface{})
	require.True(t, ok)
	assert.Equal(t, int64(statusSuccess), arr[0])
}

func TestSystemMulticallPreservesOrderAndIsolatesFailures(t *testing.T) {
	f := newTestFacade(t)
	h := f.Handlers()

	calls := []interface{}{
		map[string]interface{}{
			"methodName": "setParam",
			"params":     []interface{}{"caller", "/a", "1"},
		},
		map[string]interface{}{
			"methodName": "bogusMethod",
			"params":     []interface{}{"caller"},
		},
		map[string]interface{}{
			"methodName": "getParam",
			"params":     []interface{}{"caller", "/a"},
		},
	}

	out, err := h["system.multicall"](context.Background(), []xmlrpc.Value{calls})
	require.NoError(t, err)
	results, ok := out.([]interface{})
	require.True(t, ok)
	require.Len(t, results, 3)

	first := results[0].([]interface{})
	assert.Equal(t, int64(statusSuccess), first[0])

	second := results[1].([]interface{})
	assert.Equal(t, int64(statusFailure), second[0])

	third := results[2].([]interface{})
	assert.Equal(t, int64(statusSuccess), third[0])
	assert.Equal(t, "1", third[2])
}

// fakeRPCNode is a minimal XML-RPC stub standing in for a node's API
// endpoint, so facade-level tests exercising registration don't need a
// real node process.
type fakeRPCNode struct {
	srv *httptest.Server
}

func newFakeRPCNode(t *testing.T) *fakeRPCNode {
	t.Helper()
	methods := map[string]xmlrpc.Method{
		"publisherUpdate": func(ctx context.Context, params []xmlrpc.Value) (xmlrpc.Value, error) {
			return []interface{}{int64(1), "", int64(1)}, nil
		},
		"paramUpdate": func(ctx context.Context, params []xmlrpc.Value) (xmlrpc.Value, error) {
			return []interface{}{int64(1), "", int64(1)}, nil
		},
		"shutdown": func(ctx context.Context, params []xmlrpc.Value) (xmlrpc.Value, error) {
			return []interface{}{int64(1), "", int64(1)}, nil
		},
	}
	n := &fakeRPCNode{srv: httptest.NewServer(xmlrpc.NewHandler(methods, zap.NewNop()))}
	t.Cleanup(n.srv.Close)
	return n
}
