package nodeclient

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/nmxmxh/rosmaster/internal/xmlrpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublisherUpdateCallsRemoteNode(t *testing.T) {
	var gotTopic string
	var gotURLs []interface{}
	methods := map[string]xmlrpc.Method{
		"publisherUpdate": func(ctx context.Context, params []xmlrpc.Value) (xmlrpc.Value, error) {
			gotTopic = params[1].(string)
			gotURLs = params[2].([]interface{})
			return []interface{}{int64(1), "", int64(1)}, nil
		},
	}
	srv := httptest.NewServer(xmlrpc.NewHandler(methods, zap.NewNop()))
	defer srv.Close()

	h := New(srv.URL, zap.NewNop())
	err := h.PublisherUpdate(context.Background(), "/turtle1/cmd_vel", []string{"http://a/", "http://b/"})
	require.NoError(t, err)
	assert.Equal(t, "/turtle1/cmd_vel", gotTopic)
	assert.Equal(t, []interface{}{"http://a/", "http://b/"}, gotURLs)
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	// An address nothing listens on: every call fails fast with a
	// connection error.
	h := New("http://127.0.0.1:1", zap.NewNop())
	for i := 0; i < 5; i++ {
		err := h.PublisherUpdate(context.Background(), "/t", nil)
		assert.Error(t, err)
	}
	assert.True(t, h.IsOpen())
}

func TestCloseAllowsReopen(t *testing.T) {
	h := New("http://127.0.0.1:1", zap.NewNop())
	_ = h.PublisherUpdate(context.Background(), "/t", nil)
	h.Close()
	// A fresh client/breaker pair is built lazily on next use; this must
	// not panic even though the prior pair was released.
	err := h.PublisherUpdate(context.Background(), "/t", nil)
	assert.Error(t, err)
}
