package services

import (
	"context"
	"encoding/json"
	"fmt"

	"ticket-ledger/internal/status"
	"ticket-ledger/models"
	"ticket-ledger/monitoring"
	"ticket-ledger/store"
)

// TicketService is the ticket engine: it validates and applies one
// command at a time against the state store, enforcing the capacity,
// payment, scan, and resale-ceiling invariants. Every mutating call
// either applies exactly one atomic state change and publishes one
// domain notification, or applies nothing and returns a rejection from
// internal/status.
//
// The service itself is not safe for concurrent use; the dispatcher
// serializes all calls.
type TicketService struct {
	store    store.Store
	notifier Notifier
	policy   models.ResalePolicy
}

func NewTicketService(st store.Store, notifier Notifier, policy models.ResalePolicy) *TicketService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	if !policy.Valid() {
		policy = models.ResalePolicyFixed
	}
	return &TicketService{store: st, notifier: notifier, policy: policy}
}

// CreateEvent registers an event. Re-using an id overwrites the previous
// record; keeping ids unique is the creator's responsibility.
func (s *TicketService) CreateEvent(ctx context.Context, caller string, id uint64, name []byte, price, maxResalePrice, capacity uint64) (models.Event, error) {
	ev := models.Event{
		ID:             id,
		Name:           name,
		Creator:        caller,
		Price:          price,
		MaxResalePrice: s.policy.Ceiling(price, maxResalePrice),
		Capacity:       capacity,
	}
	s.putEvent(ctx, ev)
	monitoring.SetAvailability(id, s.availability(ctx, ev))

	s.notify(ctx, Notification{Type: NotifyEventCreated, EventID: id, Event: &ev})
	return ev, nil
}

// GetEvent returns the stored event record.
func (s *TicketService) GetEvent(ctx context.Context, id uint64) (models.Event, error) {
	return s.getEvent(ctx, id)
}

// Availability returns the event's remaining capacity, derived by
// counting issued ticket slots under the event's key prefix. The count
// is always recomputed from ground truth; there is no cached counter to
// drift.
func (s *TicketService) Availability(ctx context.Context, id uint64) (uint64, error) {
	ev, err := s.getEvent(ctx, id)
	if err != nil {
		return 0, err
	}
	avail := s.availability(ctx, ev)
	monitoring.SetAvailability(id, avail)
	return avail, nil
}

// BuyTicket issues a new ticket for holder, unpaid and unscanned, with
// the price and resale ceiling copied from the event.
func (s *TicketService) BuyTicket(ctx context.Context, eventID uint64, holder string) (models.Ticket, error) {
	ev, err := s.getEvent(ctx, eventID)
	if err != nil {
		return models.Ticket{}, err
	}
	if s.store.Contains(ctx, models.TicketKey(eventID, holder)) {
		// Overwriting would silently reset the holder's existing
		// ticket, including its paid flag.
		return models.Ticket{}, status.ErrTicketAlreadyHeld
	}
	if s.availability(ctx, ev) == 0 {
		return models.Ticket{}, status.ErrNoTicketsAvailable
	}

	t := models.Ticket{
		EventID:        eventID,
		Holder:         holder,
		Price:          ev.Price,
		MaxResalePrice: ev.MaxResalePrice,
	}
	s.putTicket(ctx, t)
	monitoring.SetAvailability(eventID, s.availability(ctx, ev))

	s.notify(ctx, Notification{Type: NotifyTicketPurchased, EventID: eventID, Ticket: &t})
	return t, nil
}

// SetPaidStatus overwrites the payment flag of an issued ticket. A slot
// that was never issued rejects: writing through it would mint a ticket
// outside BuyTicket and break the capacity accounting.
func (s *TicketService) SetPaidStatus(ctx context.Context, eventID uint64, holder string, isPaid bool) (models.Ticket, error) {
	t, ok := s.getTicket(ctx, eventID, holder)
	if !ok {
		return models.Ticket{}, status.ErrTicketNotFound
	}

	t.IsPaid = isPaid
	s.putTicket(ctx, t)

	s.notify(ctx, Notification{Type: NotifyPaymentStatusSet, EventID: eventID, Ticket: &t})
	return t, nil
}

// GetTicket returns the stored ticket for the slot, or the zero ticket
// and false when the slot was never issued.
func (s *TicketService) GetTicket(ctx context.Context, eventID uint64, holder string) (models.Ticket, bool) {
	return s.getTicket(ctx, eventID, holder)
}

// ScanTicket validates a ticket for entry. The scanned flag moves
// false to true exactly once; an unpaid ticket never scans.
func (s *TicketService) ScanTicket(ctx context.Context, eventID uint64, holder string) (models.Ticket, error) {
	t, ok := s.getTicket(ctx, eventID, holder)
	if !ok {
		return models.Ticket{}, status.ErrTicketNotFound
	}
	if !t.IsPaid {
		return models.Ticket{}, status.ErrTicketNotPaid
	}
	if t.IsScanned {
		return models.Ticket{}, status.ErrTicketAlreadyScanned
	}

	t.IsScanned = true
	s.putTicket(ctx, t)

	s.notify(ctx, Notification{Type: NotifyTicketScanned, EventID: eventID, Ticket: &t})
	return t, nil
}

// ResellTicket moves a paid, unscanned ticket from the seller's slot to
// the buyer's. The asking price may not exceed the ticket's resale
// ceiling and the buyer must not already hold a ticket for the event.
// The move is realized as a store-level swap of the seller's slot with
// the vacant buyer slot, which leaves the seller's slot vacant.
func (s *TicketService) ResellTicket(ctx context.Context, eventID uint64, seller, buyer string, askingPrice uint64) (models.Ticket, error) {
	if _, err := s.getEvent(ctx, eventID); err != nil {
		return models.Ticket{}, err
	}
	t, ok := s.getTicket(ctx, eventID, seller)
	if !ok {
		return models.Ticket{}, status.ErrTicketNotFound
	}
	if !t.IsPaid {
		return models.Ticket{}, status.ErrTicketNotPaid
	}
	if t.IsScanned {
		return models.Ticket{}, status.ErrTicketAlreadyScanned
	}
	if askingPrice > t.MaxResalePrice {
		return models.Ticket{}, status.ErrResellPriceTooHigh
	}
	if s.store.Contains(ctx, models.TicketKey(eventID, buyer)) {
		return models.Ticket{}, status.ErrTicketAlreadyHeld
	}

	t.Holder = buyer
	s.store.Put(ctx, models.TicketKey(eventID, seller), mustMarshal(t))
	s.store.Swap(ctx, models.TicketKey(eventID, seller), models.TicketKey(eventID, buyer))

	s.notify(ctx, Notification{Type: NotifyTicketResold, EventID: eventID, Ticket: &t, AskingPrice: askingPrice})
	return t, nil
}

func (s *TicketService) availability(ctx context.Context, ev models.Event) uint64 {
	issued := uint64(len(s.store.KeysWithPrefix(ctx, models.TicketPrefix(ev.ID))))
	if issued >= ev.Capacity {
		return 0
	}
	return ev.Capacity - issued
}

func (s *TicketService) getEvent(ctx context.Context, id uint64) (models.Event, error) {
	raw, ok := s.store.Get(ctx, models.EventKey(id))
	if !ok {
		return models.Event{}, status.ErrEventNotFound
	}
	var ev models.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		// A record that no longer decodes is store corruption, which is
		// host failure, not a command rejection.
		panic(fmt.Errorf("decode event %d: %w", id, err))
	}
	return ev, nil
}

func (s *TicketService) putEvent(ctx context.Context, ev models.Event) {
	s.store.Put(ctx, models.EventKey(ev.ID), mustMarshal(ev))
}

func (s *TicketService) getTicket(ctx context.Context, eventID uint64, holder string) (models.Ticket, bool) {
	raw, ok := s.store.Get(ctx, models.TicketKey(eventID, holder))
	if !ok {
		return models.Ticket{}, false
	}
	var t models.Ticket
	if err := json.Unmarshal(raw, &t); err != nil {
		panic(fmt.Errorf("decode ticket %d/%s: %w", eventID, holder, err))
	}
	return t, true
}

func (s *TicketService) putTicket(ctx context.Context, t models.Ticket) {
	s.store.Put(ctx, models.TicketKey(t.EventID, t.Holder), mustMarshal(t))
}

func mustMarshal(v any) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("encode record: %w", err))
	}
	return raw
}
