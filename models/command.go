package models

// Command is one pre-authenticated instruction for the ticket engine.
// Commands are delivered one at a time in a fixed total order by the
// dispatcher; the engine never sees two commands concurrently.
type Command interface {
	CommandName() string
}

type CreateEvent struct {
	Caller         string
	EventID        uint64
	Name           []byte
	Price          uint64
	MaxResalePrice uint64
	Capacity       uint64
}

type GetEvent struct {
	Caller  string
	EventID uint64
}

type GetAvailability struct {
	Caller  string
	EventID uint64
}

type BuyTicket struct {
	Caller  string
	EventID uint64
	Holder  string
}

type SetPaidStatus struct {
	Caller  string
	EventID uint64
	Holder  string
	IsPaid  bool
}

type GetTicket struct {
	Caller  string
	EventID uint64
	Holder  string
}

type ScanTicket struct {
	Caller  string
	EventID uint64
	Holder  string
}

type ResellTicket struct {
	Caller      string
	EventID     uint64
	Seller      string
	Buyer       string
	AskingPrice uint64
}

func (CreateEvent) CommandName() string     { return "create_event" }
func (GetEvent) CommandName() string        { return "get_event" }
func (GetAvailability) CommandName() string { return "get_availability" }
func (BuyTicket) CommandName() string       { return "buy_ticket" }
func (SetPaidStatus) CommandName() string   { return "set_paid_status" }
func (GetTicket) CommandName() string       { return "get_ticket" }
func (ScanTicket) CommandName() string      { return "scan_ticket" }
func (ResellTicket) CommandName() string    { return "resell_ticket" }

// Outcome is the engine's answer to one command: exactly one per
// command, either a success payload or a typed rejection in Err.
type Outcome struct {
	ID           string
	Command      string
	Err          error
	Event        *Event
	Ticket       *Ticket
	TicketFound  bool
	Availability uint64
}
