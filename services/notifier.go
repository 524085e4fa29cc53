package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	pubnub "github.com/pubnub/go"

	"ticket-ledger/models"
	"ticket-ledger/monitoring"
)

// Notification types, one per successful mutating command.
const (
	NotifyEventCreated     = "event_created"
	NotifyTicketPurchased  = "ticket_purchased"
	NotifyPaymentStatusSet = "payment_status_set"
	NotifyTicketScanned    = "ticket_scanned"
	NotifyTicketResold     = "ticket_resold"
)

// Notification is the domain event published after a successful
// mutating command. Exactly one is published per such command;
// subscribers must not assume anything stronger about delivery.
type Notification struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	EventID     uint64         `json:"event_id"`
	Event       *models.Event  `json:"event,omitempty"`
	Ticket      *models.Ticket `json:"ticket,omitempty"`
	AskingPrice uint64         `json:"asking_price,omitempty"`
}

// Notifier delivers domain notifications to external subscribers. How
// and where they are delivered is the adapter's business, not the
// engine's.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

func (s *TicketService) notify(ctx context.Context, n Notification) {
	n.ID = uuid.NewString()
	monitoring.TrackNotification(n.Type)
	s.notifier.Notify(ctx, n)
}

// NoopNotifier drops every notification.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, Notification) {}

// LogNotifier writes notifications to the structured log. It is the
// default when no PubNub keys are configured.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, n Notification) {
	slog.Info("domain notification", "id", n.ID, "type", n.Type, "eventID", n.EventID)
}

// PubNubNotifier publishes notifications to a per-event PubNub channel.
type PubNubNotifier struct {
	pn *pubnub.PubNub
}

func NewPubNubNotifier(pn *pubnub.PubNub) *PubNubNotifier {
	return &PubNubNotifier{pn: pn}
}

func (p *PubNubNotifier) Notify(_ context.Context, n Notification) {
	channel := fmt.Sprintf("ticket-ledger-events-%d", n.EventID)
	_, _, err := p.pn.Publish().
		Channel(channel).
		Message(n).
		Execute()
	if err != nil {
		slog.Error("publish notification", "channel", channel, "type", n.Type, "error", err)
	}
}
