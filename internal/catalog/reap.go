package catalog

// ReapStaleNodes force-retires every node whose outbound Handle has its
// circuit breaker open (presumed unreachable) at the time of the call.
// This is the internal/reaper maintenance feature's only entry point into
// the catalog: it reuses the same purge-and-shutdown path as the identity
// eviction rule (§4.4), just without installing a replacement node. It
// returns the number of nodes reaped.
func (m *Manager) ReapStaleNodes() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var stale []*Node
	for _, n := range m.nodes {
		if n.handle.IsOpen() {
			stale = append(stale, n)
		}
	}
	for _, n := range stale {
		m.evict(n, "stale node reaped: outbound circuit breaker open")
	}
	return len(stale)
}
