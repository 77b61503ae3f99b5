// Package nodeclient implements the Node Handle of §4.3: a lazily
// constructed outbound client bound to one node's API URL, used by the
// Registration Manager to deliver publisherUpdate / paramUpdate /
// shutdown callbacks.
//
// Each Handle wraps its github.com/sony/gobreaker circuit breaker, keyed by
// the node's API URL per SPEC_FULL's domain-stack table: repeated outbound
// failures (timeout, connection refused) open the breaker so further sends
// to a node that is already gone fail fast instead of waiting out the full
// HTTP timeout on every notification. This changes only the cost of
// talking to a dead node, never the delivery semantics of §7 — there is
// still no retry and no rollback.
package nodeclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nmxmxh/rosmaster/internal/xmlrpc"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// CallTimeout bounds every outbound call's HTTP round trip.
const CallTimeout = 5 * time.Second

// Handle is the outbound notifier for one node. The client and breaker are
// allocated lazily on first use and released by Close; Reopening after
// Close is permitted (a fresh client/breaker pair is built on next use).
type Handle struct {
	callerAPI string
	log       *zap.Logger

	mu      sync.Mutex
	client  *xmlrpc.Client
	breaker *gobreaker.CircuitBreaker
}

// New builds a Handle bound to callerAPI. The outbound client is not
// constructed until the first call.
func New(callerAPI string, log *zap.Logger) *Handle {
	return &Handle{callerAPI: callerAPI, log: log}
}

// CallerAPI returns the node-API URL this handle was built for.
func (h *Handle) CallerAPI() string { return h.callerAPI }

func (h *Handle) ensure() (*xmlrpc.Client, *gobreaker.CircuitBreaker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.client == nil {
		h.client = xmlrpc.NewClient(h.callerAPI, CallTimeout)
	}
	if h.breaker == nil {
		h.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        h.callerAPI,
			MaxRequests: 1,
			Interval:    0,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		})
	}
	return h.client, h.breaker
}

// IsOpen reports whether the breaker is currently open (node presumed
// unreachable). Used by the catalog's stale-node sweep (driven by
// internal/reaper) to force-retire nodes whose breaker is open when the
// sweep runs.
func (h *Handle) IsOpen() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.breaker != nil && h.breaker.State() == gobreaker.StateOpen
}

func (h *Handle) call(ctx context.Context, method string, params ...xmlrpc.Value) error {
	client, breaker := h.ensure()
	ctx, cancel := context.WithTimeout(ctx, CallTimeout)
	defer cancel()
	_, err := breaker.Execute(func() (interface{}, error) {
		return client.Call(ctx, method, params...)
	})
	if err != nil {
		return fmt.Errorf("nodeclient: %s to %s: %w", method, h.callerAPI, err)
	}
	return nil
}

// PublisherUpdate invokes the node's publisherUpdate(topic, publisher_uris)
// callback with a snapshot of the publisher URL list (§4.3, §6).
func (h *Handle) PublisherUpdate(ctx context.Context, topic string, publisherURLs []string) error {
	urls := make([]xmlrpc.Value, len(publisherURLs))
	for i, u := range publisherURLs {
		urls[i] = u
	}
	return h.call(ctx, "publisherUpdate", "/master", topic, xmlrpc.Value(urls))
}

// ParamUpdate invokes the node's paramUpdate(key, value) callback.
func (h *Handle) ParamUpdate(ctx context.Context, key string, value xmlrpc.Value) error {
	return h.call(ctx, "paramUpdate", "/master", key, value)
}

// Shutdown invokes the node's shutdown(msg) callback, telling it to exit.
func (h *Handle) Shutdown(ctx context.Context, msg string) error {
	return h.call(ctx, "shutdown", "/master", msg)
}

// Close releases the handle's outbound client and breaker. Re-opening
// after Close is permitted: the next call lazily rebuilds both.
func (h *Handle) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.client = nil
	h.breaker = nil
}

// ShutdownThenClose sends shutdown(msg) and then releases the client. It
// is used by the catalog's eviction path: when a node re-registers under a
// new API URL (§4.4 Identity) and when the stale-node sweep force-retires
// a node. check_node retirement (§4.4 Retirement) calls Close alone.
func (h *Handle) ShutdownThenClose(ctx context.Context, msg string) {
	if err := h.Shutdown(ctx, msg); err != nil {
		h.log.Warn("shutdown callback failed", zap.String("caller_api", h.callerAPI), zap.Error(err))
	}
	h.Close()
}
