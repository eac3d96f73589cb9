package interfaces

import (
	"context"

	"github.com/secmon-lab/riskreg/pkg/domain/types"
)

// TicketRequest describes the ticket to open for a risk
type TicketRequest struct {
	Title       string
	Description string
	RiskID      types.RiskID
}

// Ticket is a ticket created by the tracker
type Ticket struct {
	ID  string // tracker key, e.g. "owner/repo#12"
	URL string
}

// TicketService opens tickets in an external tracker
type TicketService interface {
	CreateTicket(ctx context.Context, req TicketRequest) (*Ticket, error)
}
