package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds published after successful ledger mutations.
const (
	KindTransactionAdded   = "transaction.added"
	KindTransactionEdited  = "transaction.edited"
	KindTransactionDeleted = "transaction.deleted"
	KindTransfer           = "transfer"
	KindAccountAdded       = "account.added"
	KindAccountDeleted     = "account.deleted"
	KindCategoryAdded      = "category.added"
	KindCategoryDeleted    = "category.deleted"
)

// LedgerEvent is a small notification that the ledger changed. It carries
// enough to identify the change, not the full record.
type LedgerEvent struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id,omitempty"`
	Account   string    `json:"account,omitempty"`
	Amount    string    `json:"amount,omitempty"`
	Version   uint64    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEvent creates an event stamped with the current time
func NewLedgerEvent(kind string, version uint64) *LedgerEvent {
	return &LedgerEvent{
		Kind:      kind,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventFromJSON creates an event from JSON bytes
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var msg LedgerEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
