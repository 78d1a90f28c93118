package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType names what happened to the transaction store.
type EventType string

const (
	EventSaleRecorded     EventType = "sale.recorded"
	EventPurchaseRecorded EventType = "purchase.recorded"
	EventDataReset        EventType = "data.reset"
)

// TransactionEvent is a lightweight notification that the transaction store changed.
// It carries no amounts: consumers rebuild reports from the database.
type TransactionEvent struct {
	Type      EventType `json:"type"`
	ID        int64     `json:"id,omitempty"`
	Date      string    `json:"date,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionEvent creates an event stamped with the current time.
func NewTransactionEvent(eventType EventType, id int64, date string) *TransactionEvent {
	return &TransactionEvent{
		Type:      eventType,
		ID:        id,
		Date:      date,
		Timestamp: time.Now(),
	}
}

// Valid reports whether the event type is known.
func (t EventType) Valid() bool {
	switch t {
	case EventSaleRecorded, EventPurchaseRecorded, EventDataReset:
		return true
	}
	return false
}

// ToJSON converts the event to JSON bytes
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON decodes an event and rejects unknown types.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if !e.Type.Valid() {
		return nil, fmt.Errorf("unknown event type %q", e.Type)
	}
	return &e, nil
}
