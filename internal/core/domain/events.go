package domain

// EventType defines the type of real-time event.
type EventType string

const (
	EventDatasetImported EventType = "DATASET_IMPORTED"
	EventPong            EventType = "PONG"
)

// Event is the payload sent over WebSocket.
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload"`
}
