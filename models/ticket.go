package models

import "fmt"

// Ticket records one holder's claim against one event. A slot key
// (event, holder) carries at most one ticket, so a holder can hold at
// most one ticket per event.
type Ticket struct {
	EventID        uint64 `json:"event_id"`
	Holder         string `json:"holder"`
	Price          uint64 `json:"price"`
	IsPaid         bool   `json:"is_paid"`
	IsScanned      bool   `json:"is_scanned"`
	MaxResalePrice uint64 `json:"max_resale_price"`
}

// TicketKey is the state store key for a ticket slot.
func TicketKey(eventID uint64, holder string) string {
	return fmt.Sprintf("ticket:%d:%s", eventID, holder)
}

// TicketPrefix matches every ticket slot issued for an event. Counting
// keys under this prefix yields the issued count for availability.
func TicketPrefix(eventID uint64) string {
	return fmt.Sprintf("ticket:%d:", eventID)
}
