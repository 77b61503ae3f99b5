package catalog

// RegisterService records callerID as a provider of service at serviceAPI.
// serviceAPI is the service-API endpoint (distinct from the node's own
// node-API callerAPI, per §3's Registration data model) and is what
// GetServiceAPI later returns. No notification follows (§4.4: "services
// only record").
func (m *Manager) RegisterService(callerID, service, serviceAPI, callerAPI string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	node := m.ensureNode(callerID, callerAPI)
	node.services[service] = struct{}{}
	insert(m.services, service, Registration{CallerID: callerID, API: serviceAPI})
}

// UnregisterService removes callerID as a provider of service. Idempotent:
// an absent registration is silently ignored.
func (m *Manager) UnregisterService(callerID, service string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.nodes[callerID]
	if !ok {
		return
	}
	if _, had := node.services[service]; !had {
		return
	}
	delete(node.services, service)
	remove(m.services, service, callerID)
	m.checkNode(node)
}
