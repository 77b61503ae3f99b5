package livefeed

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBroadcastReachesConnectedObserver(t *testing.T) {
	hub := NewHub(zap.NewNop())
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()
	defer hub.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the server goroutine a moment to register the connection before
	// broadcasting, since Upgrade and the registration happen concurrently
	// with the client's dial returning.
	time.Sleep(50 * time.Millisecond)

	hub.Broadcast(Event{Kind: "evict", Data: map[string]string{"caller_id": "N1"}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "evict", got.Kind)
}

func TestBroadcastWithNoObserversDoesNotBlock(t *testing.T) {
	hub := NewHub(zap.NewNop())
	done := make(chan struct{})
	go func() {
		hub.Broadcast(Event{Kind: "param_update", Data: "/x"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked with no connected observers")
	}
}
