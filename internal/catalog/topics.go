package catalog

import "context"

// RegisterPublisher implements §4.4's publisher registration template. It
// records the topic type the first time a concrete (non-wildcard) type is
// seen, schedules a subscriber update for the topic, and returns the
// current subscriber API list so the RPC facade can hand it back (§4.5).
func (m *Manager) RegisterPublisher(callerID, topic, topicType, callerAPI string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	node := m.ensureNode(callerID, callerAPI)
	node.topicPublications[topic] = struct{}{}
	insert(m.publishers, topic, Registration{CallerID: callerID, API: callerAPI})
	m.recordTopicType(topic, topicType)
	m.scheduleSubscriberUpdateLocked(topic)
	m.notifyObserver("publisher_update", map[string]interface{}{
		"topic": topic, "publishers": apiList(m.publishers[topic]),
	})

	return apiList(m.subscribers[topic])
}

// UnregisterPublisher removes callerID's publication of topic. Absent
// registrations are a no-op (idempotent, §4.4). A subscriber update is
// always scheduled, even for a no-op removal, matching the spec's
// unregister template ("unregistering a publisher also schedules a
// subscriber update"); subscribers simply see the same list again.
func (m *Manager) UnregisterPublisher(callerID, topic, callerAPI string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.nodes[callerID]
	if ok {
		if _, had := node.topicPublications[topic]; had {
			delete(node.topicPublications, topic)
			remove(m.publishers, topic, callerID)
			m.checkNode(node)
		}
	}
	m.scheduleSubscriberUpdateLocked(topic)
	if _, stillPublished := m.publishers[topic]; !stillPublished {
		m.notifyObserver("topic_retired", topic)
	} else {
		m.notifyObserver("publisher_update", map[string]interface{}{
			"topic": topic, "publishers": apiList(m.publishers[topic]),
		})
	}
}

// RegisterSubscriber implements §4.4's subscriber registration template.
// Unlike RegisterPublisher, no immediate notification is sent: the caller
// learns the current publisher list from this call's return value.
func (m *Manager) RegisterSubscriber(callerID, topic, topicType, callerAPI string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	node := m.ensureNode(callerID, callerAPI)
	node.topicSubscriptions[topic] = struct{}{}
	insert(m.subscribers, topic, Registration{CallerID: callerID, API: callerAPI})
	m.recordTopicType(topic, topicType)

	return apiList(m.publishers[topic])
}

// UnregisterSubscriber removes callerID's subscription to topic. No
// notification follows: subscriber removal never changes what publishers
// see.
func (m *Manager) UnregisterSubscriber(callerID, topic, callerAPI string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.nodes[callerID]
	if !ok {
		return
	}
	if _, had := node.topicSubscriptions[topic]; !had {
		return
	}
	delete(node.topicSubscriptions, topic)
	remove(m.subscribers, topic, callerID)
	m.checkNode(node)
}

func (m *Manager) recordTopicType(topic, topicType string) {
	if topicType == "*" {
		return
	}
	if _, ok := m.topicTypes[topic]; !ok {
		m.topicTypes[topic] = topicType
		m.notifyObserver("topic_registered", map[string]string{"topic": topic, "type": topicType})
	}
}

// scheduleSubscriberUpdateLocked computes the current publisher API list
// for topic and asynchronously invokes publisherUpdate on every current
// subscriber (§4.4 schedule_subscriber_update). Must be called with m.mu
// held; the publisher list is snapshotted before scheduling so a later
// mutation cannot corrupt an in-flight payload (§5).
func (m *Manager) scheduleSubscriberUpdateLocked(topic string) {
	publisherURLs := apiList(m.publishers[topic])
	subs := m.subscribers[topic]
	for _, callerID := range callerIDList(subs) {
		node, ok := m.nodes[callerID]
		if !ok {
			continue
		}
		handle := node.handle
		m.dispatcher.Schedule("publisherUpdate:"+topic+":"+callerID, func(ctx context.Context) error {
			return handle.PublisherUpdate(ctx, topic, publisherURLs)
		})
	}
}
