package websocket

import (
	"encoding/json"
	"log"
)

// ChangeEvent is the precise incremental update pushed to clients: which
// entity changed, its id, the action that changed it and the resulting
// status. Clients apply the delta instead of re-fetching whole collections.
type ChangeEvent struct {
	Entity   string `json:"entity"`
	EntityID string `json:"entity_id"`
	Action   string `json:"action"`
	Status   string `json:"status,omitempty"`
}

// Publish queues a change event for broadcast without ever blocking the
// caller. A nil hub (tests, workers without realtime) is a no-op; a full
// broadcast buffer drops the event, since clients re-sync by querying anyway.
func (h *Hub) Publish(ev ChangeEvent) {
	if h == nil {
		return
	}
	b, err := json.Marshal(ev)
	if err != nil {
		log.Println("failed to marshal change event:", err)
		return
	}
	select {
	case h.Broadcast <- b:
	default:
		log.Println("change event dropped: broadcast buffer full")
	}
}
