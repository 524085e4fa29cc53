package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-ledger/internal/status"
	"ticket-ledger/models"
	"ticket-ledger/store"
)

func setupDispatcher(t *testing.T) (*Dispatcher, context.CancelFunc) {
	t.Helper()
	service := NewTicketService(store.NewMemoryStore(), NoopNotifier{}, models.ResalePolicyFixed)
	dispatcher := NewDispatcher(service, 16)

	ctx, cancel := context.WithCancel(context.Background())
	go dispatcher.Run(ctx)
	t.Cleanup(cancel)

	return dispatcher, cancel
}

func TestDispatcher_AppliesCommandsInOrder(t *testing.T) {
	dispatcher, _ := setupDispatcher(t)
	ctx := context.Background()

	out, err := dispatcher.Submit(ctx, models.CreateEvent{
		Caller: "promoter", EventID: 1, Price: 100, MaxResalePrice: 120, Capacity: 1,
	})
	require.NoError(t, err)
	require.NoError(t, out.Err)
	require.NotNil(t, out.Event)
	assert.Equal(t, "create_event", out.Command)
	assert.NotEmpty(t, out.ID)

	out, err = dispatcher.Submit(ctx, models.BuyTicket{Caller: "alice", EventID: 1, Holder: "alice"})
	require.NoError(t, err)
	require.NoError(t, out.Err)
	assert.Equal(t, "alice", out.Ticket.Holder)

	// Delivery order alone linearizes commands on the same event: the
	// second purchase sees the first one's effect.
	out, err = dispatcher.Submit(ctx, models.BuyTicket{Caller: "bob", EventID: 1, Holder: "bob"})
	require.NoError(t, err)
	assert.ErrorIs(t, out.Err, status.ErrNoTicketsAvailable)
	assert.Nil(t, out.Ticket)

	out, err = dispatcher.Submit(ctx, models.GetAvailability{Caller: "anyone", EventID: 1})
	require.NoError(t, err)
	require.NoError(t, out.Err)
	assert.Equal(t, uint64(0), out.Availability)
}

func TestDispatcher_GetTicketReportsPresence(t *testing.T) {
	dispatcher, _ := setupDispatcher(t)
	ctx := context.Background()

	_, err := dispatcher.Submit(ctx, models.CreateEvent{Caller: "promoter", EventID: 1, Price: 100, MaxResalePrice: 120, Capacity: 2})
	require.NoError(t, err)
	_, err = dispatcher.Submit(ctx, models.BuyTicket{Caller: "alice", EventID: 1, Holder: "alice"})
	require.NoError(t, err)

	out, err := dispatcher.Submit(ctx, models.GetTicket{Caller: "alice", EventID: 1, Holder: "alice"})
	require.NoError(t, err)
	require.NoError(t, out.Err)
	assert.True(t, out.TicketFound)
	assert.Equal(t, "alice", out.Ticket.Holder)

	// A never-issued slot yields the zero ticket, flagged as absent
	// rather than sentinel-valued.
	out, err = dispatcher.Submit(ctx, models.GetTicket{Caller: "bob", EventID: 1, Holder: "bob"})
	require.NoError(t, err)
	require.NoError(t, out.Err)
	assert.False(t, out.TicketFound)
	assert.Equal(t, models.Ticket{}, *out.Ticket)
}

func TestDispatcher_CapacityHoldsUnderConcurrentSubmitters(t *testing.T) {
	dispatcher, _ := setupDispatcher(t)
	ctx := context.Background()

	const capacity = 4
	const buyers = 20

	_, err := dispatcher.Submit(ctx, models.CreateEvent{Caller: "promoter", EventID: 1, Price: 100, MaxResalePrice: 120, Capacity: capacity})
	require.NoError(t, err)

	results := make(chan error, buyers)
	for i := 0; i < buyers; i++ {
		go func(i int) {
			holder := fmt.Sprintf("holder-%d", i)
			out, err := dispatcher.Submit(ctx, models.BuyTicket{Caller: holder, EventID: 1, Holder: holder})
			if err != nil {
				results <- err
				return
			}
			results <- out.Err
		}(i)
	}

	issued := 0
	for i := 0; i < buyers; i++ {
		err := <-results
		if err == nil {
			issued++
		} else {
			assert.ErrorIs(t, err, status.ErrNoTicketsAvailable)
		}
	}
	assert.Equal(t, capacity, issued)

	out, err := dispatcher.Submit(ctx, models.GetAvailability{Caller: "anyone", EventID: 1})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), out.Availability)
}

func TestDispatcher_SubmitAfterShutdown(t *testing.T) {
	service := NewTicketService(store.NewMemoryStore(), NoopNotifier{}, models.ResalePolicyFixed)
	dispatcher := NewDispatcher(service, 1)

	// No Run goroutine: a cancelled submit context must not block.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := dispatcher.Submit(ctx, models.GetEvent{Caller: "anyone", EventID: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
