package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go"

	"ticket-ledger/config"
	"ticket-ledger/models"
	"ticket-ledger/services"
	"ticket-ledger/store"
	"ticket-ledger/utils"
)

// commandEnvelope is the wire form of one command on the input stream.
// The caller field is trusted as-is: authenticating it is the job of
// whatever feeds the stream, not of this process.
type commandEnvelope struct {
	Command        string `json:"command"`
	Caller         string `json:"caller"`
	EventID        uint64 `json:"event_id"`
	Name           string `json:"name"`
	Price          uint64 `json:"price"`
	MaxResalePrice uint64 `json:"max_resale_price"`
	Capacity       uint64 `json:"capacity"`
	Holder         string `json:"holder"`
	Buyer          string `json:"buyer"`
	AskingPrice    uint64 `json:"asking_price"`
	IsPaid         bool   `json:"is_paid"`
}

type outcomeEnvelope struct {
	ID           string         `json:"id"`
	Command      string         `json:"command"`
	Status       string         `json:"status"`
	Error        string         `json:"error,omitempty"`
	Event        *models.Event  `json:"event,omitempty"`
	Ticket       *models.Ticket `json:"ticket,omitempty"`
	TicketFound  *bool          `json:"ticket_found,omitempty"`
	Availability *uint64        `json:"availability,omitempty"`
}

// Start wires the ledger together and runs the command loop: one JSON
// command per input line, applied in input order, one JSON outcome per
// output line.
func Start() error {
	cfg := config.LoadConfig()

	st, cleanup, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	service := services.NewTicketService(st, newNotifier(cfg), models.ResalePolicy(cfg.ResalePolicy))
	dispatcher := services.NewDispatcher(service, cfg.CommandQueueSize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel)
	go dispatcher.Run(ctx)

	if cfg.EnableMetrics {
		go serveMetrics(cfg.MetricsPort)
	}

	slog.Info("ticket ledger ready",
		"store", cfg.StoreBackend,
		"resalePolicy", cfg.ResalePolicy,
		"environment", cfg.Environment)

	return commandLoop(ctx, dispatcher)
}

func commandLoop(ctx context.Context, dispatcher *services.Dispatcher) error {
	scanner := bufio.NewScanner(os.Stdin)
	encoder := json.NewEncoder(os.Stdout)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var env commandEnvelope
		if err := json.Unmarshal(line, &env); err != nil {
			slog.Error("malformed command line", "error", err)
			continue
		}

		cmd, err := env.toCommand()
		if err != nil {
			slog.Error("unusable command", "command", env.Command, "error", err)
			continue
		}

		out, err := dispatcher.Submit(ctx, cmd)
		if err != nil {
			// Context cancelled: the process is shutting down.
			return nil
		}
		if err := encoder.Encode(toEnvelope(out)); err != nil {
			return fmt.Errorf("write outcome: %w", err)
		}
	}
	return scanner.Err()
}

func (e commandEnvelope) toCommand() (models.Command, error) {
	switch e.Command {
	case "create_event":
		return models.CreateEvent{
			Caller:         e.Caller,
			EventID:        e.EventID,
			Name:           []byte(e.Name),
			Price:          e.Price,
			MaxResalePrice: e.MaxResalePrice,
			Capacity:       e.Capacity,
		}, nil
	case "get_event":
		return models.GetEvent{Caller: e.Caller, EventID: e.EventID}, nil
	case "get_availability":
		return models.GetAvailability{Caller: e.Caller, EventID: e.EventID}, nil
	case "buy_ticket":
		return models.BuyTicket{Caller: e.Caller, EventID: e.EventID, Holder: e.holder()}, nil
	case "set_paid_status":
		return models.SetPaidStatus{Caller: e.Caller, EventID: e.EventID, Holder: e.holder(), IsPaid: e.IsPaid}, nil
	case "get_ticket":
		return models.GetTicket{Caller: e.Caller, EventID: e.EventID, Holder: e.holder()}, nil
	case "scan_ticket":
		return models.ScanTicket{Caller: e.Caller, EventID: e.EventID, Holder: e.holder()}, nil
	case "resell_ticket":
		return models.ResellTicket{
			Caller:      e.Caller,
			EventID:     e.EventID,
			Seller:      e.holder(),
			Buyer:       e.Buyer,
			AskingPrice: e.AskingPrice,
		}, nil
	}
	return nil, fmt.Errorf("unknown command %q", e.Command)
}

// holder defaults to the authenticated caller when the envelope names
// no explicit holder.
func (e commandEnvelope) holder() string {
	if e.Holder != "" {
		return e.Holder
	}
	return e.Caller
}

func toEnvelope(out models.Outcome) outcomeEnvelope {
	env := outcomeEnvelope{
		ID:      out.ID,
		Command: out.Command,
		Status:  "ok",
		Event:   out.Event,
		Ticket:  out.Ticket,
	}
	if out.Err != nil {
		env.Status = "rejected"
		env.Error = out.Err.Error()
		return env
	}
	if out.Command == "get_availability" {
		env.Availability = &out.Availability
	}
	if out.Command == "get_ticket" {
		found := out.TicketFound
		env.TicketFound = &found
	}
	return env
}

func newStore(cfg *config.Config) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case "memory":
		return store.NewMemoryStore(), func() {}, nil
	case "redis":
		client := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
		return store.NewRedisStore(client), func() { client.Close() }, nil
	case "sqlite":
		st, err := store.OpenSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { st.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

func newNotifier(cfg *config.Config) services.Notifier {
	if cfg.PubNubPublishKey == "" || cfg.PubNubSubscribeKey == "" {
		return services.LogNotifier{}
	}

	pnConfig := pubnub.NewConfig()
	pnConfig.PublishKey = cfg.PubNubPublishKey
	pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
	pnConfig.SecretKey = cfg.PubNubSecretKey

	return services.NewPubNubNotifier(pubnub.NewPubNub(pnConfig))
}

func serveMetrics(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Printf("metrics server stopped: %v", err)
	}
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	slog.Info("shutdown signal received")
	cancel()
}
