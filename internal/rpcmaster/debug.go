package rpcmaster

import (
	"net/http"

	rosmasterjson "github.com/nmxmxh/rosmaster/pkg/json"
)

// debugState is the JSON-friendly shape of GetSystemState, used by the
// optional /debug/state introspection endpoint (SPEC_FULL domain-stack:
// json-iterator).
type debugState struct {
	Publishers  map[string][]string `json:"publishers"`
	Subscribers map[string][]string `json:"subscribers"`
	Services    map[string][]string `json:"services"`
	TopicTypes  map[string]string   `json:"topic_types"`
}

// DebugStateHandler serves a JSON dump of the current catalog state. It is
// a debugging/observability surface, not part of the node-facing contract
// (SPEC_FULL "Supplemented Features").
func (f *Facade) DebugStateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := f.catalog.GetSystemState()
		out := debugState{
			Publishers:  state.Publishers,
			Subscribers: state.Subscribers,
			Services:    state.Services,
			TopicTypes:  f.catalog.GetTopicTypes(),
		}
		w.Header().Set("Content-Type", "application/json")
		if err := rosmasterjson.NewEncoder(w).Encode(out); err != nil {
			f.log.Warn("failed to encode debug state")
		}
	}
}
