package amqp

import (
	"encoding/json"
	"time"
)

// Actions recorded on the audit stream.
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionArchived = "archived"
	ActionDeleted  = "deleted"
)

// Entities recorded on the audit stream.
const (
	EntityCategory    = "category"
	EntityTransaction = "transaction"
	EntityBudget      = "budget"
)

// LedgerEvent is the compact record published after a successful ledger
// mutation. The audit worker persists these; nothing in the request path
// depends on them.
type LedgerEvent struct {
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	Action    string    `json:"action"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEvent creates an event stamped with the current time.
func NewLedgerEvent(entity, entityID, action, userID string) *LedgerEvent {
	return &LedgerEvent{
		Entity:    entity,
		EntityID:  entityID,
		Action:    action,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON parses an event from JSON bytes.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var ev LedgerEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
