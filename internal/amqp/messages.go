package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record kinds carried by ledger events.
const (
	KindReceivable = "receivable"
	KindPayable    = "payable"
)

// Actions carried by ledger events.
const (
	ActionUpsert      = "upsert"
	ActionDelete      = "delete"
	ActionDeleteGroup = "delete_group"
)

// LedgerEvent announces a change to one ledger record, or to a whole
// installment group. It carries ids only: consumers read the current state
// from the database, so redelivery and reordering are harmless.
type LedgerEvent struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Action    string    `json:"action"`
	RecordID  int64     `json:"record_id,omitempty"`
	GroupID   int64     `json:"group_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEvent creates an event for a single record.
func NewLedgerEvent(kind, action string, recordID int64) *LedgerEvent {
	return &LedgerEvent{
		ID:        uuid.NewString(),
		Kind:      kind,
		Action:    action,
		RecordID:  recordID,
		Timestamp: time.Now(),
	}
}

// NewGroupDeletedEvent creates an event for a removed installment group.
func NewGroupDeletedEvent(groupID int64) *LedgerEvent {
	return &LedgerEvent{
		ID:        uuid.NewString(),
		Kind:      KindPayable,
		Action:    ActionDeleteGroup,
		GroupID:   groupID,
		Timestamp: time.Now(),
	}
}

// Validate checks the event names a known kind and action with the id it needs.
func (m *LedgerEvent) Validate() error {
	if m.Kind != KindReceivable && m.Kind != KindPayable {
		return fmt.Errorf("unknown record kind %q", m.Kind)
	}
	switch m.Action {
	case ActionUpsert, ActionDelete:
		if m.RecordID <= 0 {
			return fmt.Errorf("%s event without record id", m.Action)
		}
	case ActionDeleteGroup:
		if m.Kind != KindPayable || m.GroupID <= 0 {
			return fmt.Errorf("group deletion needs a payable group id")
		}
	default:
		return fmt.Errorf("unknown action %q", m.Action)
	}
	return nil
}

// RoutingKey is the per-kind routing key, e.g. "ledger.payable".
func (m *LedgerEvent) RoutingKey(prefix string) string {
	return prefix + "." + m.Kind
}

func (m *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventFromJSON decodes and validates an event.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var msg LedgerEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
