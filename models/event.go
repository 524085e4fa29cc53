package models

import "fmt"

// Event is a ticketable happening with a fixed face price, a resale
// ceiling, and a fixed capacity. Events are written once at creation and
// never mutated or deleted afterwards; id uniqueness is the creator's
// responsibility (re-creating an id overwrites the record).
type Event struct {
	ID             uint64 `json:"id"`
	Name           []byte `json:"name"`
	Creator        string `json:"creator"`
	Price          uint64 `json:"price"`
	MaxResalePrice uint64 `json:"max_resale_price"`
	Capacity       uint64 `json:"capacity"`
}

// EventKey is the state store key for an event record.
func EventKey(id uint64) string {
	return fmt.Sprintf("event:%d", id)
}
