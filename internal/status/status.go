package status

import "errors"

// Rejections returned by the ticket engine. All of them are local and
// recoverable: a rejected command applies no state change.
var (
	ErrEventNotFound        = errors.New("event: event not found")
	ErrTicketNotFound       = errors.New("ticket: ticket not found")
	ErrNoTicketsAvailable   = errors.New("ticket: no tickets available")
	ErrTicketNotPaid        = errors.New("ticket: ticket not paid")
	ErrTicketAlreadyScanned = errors.New("ticket: ticket already scanned")
	ErrResellPriceTooHigh   = errors.New("ticket: resell price exceeds ceiling")
	ErrTicketAlreadyHeld    = errors.New("ticket: holder already has a ticket")
)

// Reason maps a rejection to a stable label for metrics and outcome
// reporting. The second return is false for non-rejection errors.
func Reason(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrEventNotFound):
		return "event_not_found", true
	case errors.Is(err, ErrTicketNotFound):
		return "ticket_not_found", true
	case errors.Is(err, ErrNoTicketsAvailable):
		return "no_tickets_available", true
	case errors.Is(err, ErrTicketNotPaid):
		return "ticket_not_paid", true
	case errors.Is(err, ErrTicketAlreadyScanned):
		return "ticket_already_scanned", true
	case errors.Is(err, ErrResellPriceTooHigh):
		return "resell_price_too_high", true
	case errors.Is(err, ErrTicketAlreadyHeld):
		return "ticket_already_held", true
	}
	return "", false
}
