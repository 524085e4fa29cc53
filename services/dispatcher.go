package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ticket-ledger/internal/status"
	"ticket-ledger/models"
	"ticket-ledger/monitoring"
)

type request struct {
	cmd   models.Command
	reply chan models.Outcome
}

// Dispatcher serializes command execution: a single goroutine reads
// commands from an ordered queue and applies them through the ticket
// service one at a time. That goroutine is the engine's only caller, so
// no command ever observes partial effects of another.
//
// Submit is safe from any number of goroutines; ordering between
// concurrent submitters is their arrival order on the queue.
type Dispatcher struct {
	service *TicketService
	queue   chan request
}

func NewDispatcher(service *TicketService, queueSize int) *Dispatcher {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Dispatcher{
		service: service,
		queue:   make(chan request, queueSize),
	}
}

// Run processes commands until ctx is cancelled. Commands already
// picked up run to completion; there is no mid-command cancellation.
func (d *Dispatcher) Run(ctx context.Context) {
	slog.Info("dispatcher started", "queueSize", cap(d.queue))
	for {
		select {
		case <-ctx.Done():
			slog.Info("dispatcher stopped")
			return
		case req := <-d.queue:
			req.reply <- d.apply(ctx, req.cmd)
		}
	}
}

// Submit enqueues one command and waits for its outcome. The returned
// error only reports submission failure (context cancelled); rejections
// travel inside the outcome. A command accepted onto the queue executes
// even if the submitter stops waiting.
func (d *Dispatcher) Submit(ctx context.Context, cmd models.Command) (models.Outcome, error) {
	req := request{cmd: cmd, reply: make(chan models.Outcome, 1)}

	select {
	case d.queue <- req:
	case <-ctx.Done():
		return models.Outcome{}, ctx.Err()
	}

	select {
	case out := <-req.reply:
		return out, nil
	case <-ctx.Done():
		return models.Outcome{}, ctx.Err()
	}
}

func (d *Dispatcher) apply(ctx context.Context, cmd models.Command) models.Outcome {
	out := models.Outcome{
		ID:      uuid.NewString(),
		Command: cmd.CommandName(),
	}

	start := time.Now()
	switch c := cmd.(type) {
	case models.CreateEvent:
		ev, err := d.service.CreateEvent(ctx, c.Caller, c.EventID, c.Name, c.Price, c.MaxResalePrice, c.Capacity)
		out.Event, out.Err = &ev, err
	case models.GetEvent:
		ev, err := d.service.GetEvent(ctx, c.EventID)
		out.Event, out.Err = &ev, err
	case models.GetAvailability:
		out.Availability, out.Err = d.service.Availability(ctx, c.EventID)
	case models.BuyTicket:
		t, err := d.service.BuyTicket(ctx, c.EventID, c.Holder)
		out.Ticket, out.Err = &t, err
	case models.SetPaidStatus:
		t, err := d.service.SetPaidStatus(ctx, c.EventID, c.Holder, c.IsPaid)
		out.Ticket, out.Err = &t, err
	case models.GetTicket:
		t, found := d.service.GetTicket(ctx, c.EventID, c.Holder)
		out.Ticket, out.TicketFound = &t, found
	case models.ScanTicket:
		t, err := d.service.ScanTicket(ctx, c.EventID, c.Holder)
		out.Ticket, out.Err = &t, err
	case models.ResellTicket:
		t, err := d.service.ResellTicket(ctx, c.EventID, c.Seller, c.Buyer, c.AskingPrice)
		out.Ticket, out.Err = &t, err
	default:
		out.Err = fmt.Errorf("unknown command %T", cmd)
	}
	monitoring.TrackCommandDuration(out.Command, time.Since(start))

	if out.Err != nil {
		out.Event, out.Ticket = nil, nil
		if reason, ok := status.Reason(out.Err); ok {
			monitoring.TrackCommand(out.Command, reason)
			monitoring.TrackRejection(reason)
		} else {
			monitoring.TrackCommand(out.Command, "error")
		}
		slog.Info("command rejected", "id", out.ID, "command", out.Command, "error", out.Err)
		return out
	}

	monitoring.TrackCommand(out.Command, "success")
	return out
}
