package events

import (
	"encoding/json"
	"time"

	"dompet/internal/core"
)

// Op names a confirmed transaction mutation.
type Op string

const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
	OpDeleted Op = "deleted"
)

// Change describes a mutation the API has confirmed.
type Change struct {
	Op         Op          `json:"op"`
	ID         int64       `json:"id,omitempty"`
	Type       core.TxType `json:"type,omitempty"`
	Amount     int64       `json:"amount,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// NewChange stamps a change for tx with the current time. Type and amount
// are left empty for deletions.
func NewChange(op Op, tx core.Transaction) Change {
	c := Change{Op: op, ID: tx.ID, OccurredAt: time.Now().UTC()}
	if op != OpDeleted {
		c.Type = tx.Type
		c.Amount = tx.Amount
	}
	return c
}

// ToJSON converts the change to JSON bytes
func (c Change) ToJSON() ([]byte, error) {
	return json.Marshal(c)
}
