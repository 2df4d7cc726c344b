package response

import (
	"encoding/json"
	"time"

	"github.com/trackium/trackd/src/utils/model"
)

type Event struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

func EventsToResponse(events []model.DomainEvent) []Event {
	out := make([]Event, len(events))
	for i := range events {
		out[i] = Event{
			ID:        events[i].ID,
			Kind:      string(events[i].Kind),
			Payload:   events[i].Payload.Bytes,
			CreatedAt: events[i].CreatedAt,
		}
	}
	return out
}
