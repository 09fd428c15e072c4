package models

import (
	"time"
)

// Ticket types (tiers). Each tier has its own capacity and unit price
// in the event configuration.
const (
	TicketTypeStandard = "standard"
	TicketTypePremium  = "premium"
)

// Ticket statuses. A ticket starts as sold and can only move between
// sold and cancelled; deletion is a hard delete, not a status.
const (
	TicketStatusSold      = "sold"
	TicketStatusCancelled = "cancelled"
)

type Ticket struct {
	ID         string    `json:"id"`
	Reference  string    `json:"reference"`
	TicketType string    `json:"ticketType"` // standard, premium
	BuyerName  string    `json:"buyerName"`
	BuyerPhone string    `json:"buyerPhone"`
	Quantity   int       `json:"quantity"`
	Status     string    `json:"status"` // sold, cancelled
	SoldAt     time.Time `json:"soldAt"`
	Notes      string    `json:"notes,omitempty"`
}

// CreateTicketRequest is the payload accepted by POST /api/tickets.
type CreateTicketRequest struct {
	TicketType string `json:"ticketType"`
	BuyerName  string `json:"buyerName"`
	BuyerPhone string `json:"buyerPhone"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes"`
}

func IsValidTicketType(t string) bool {
	return t == TicketTypeStandard || t == TicketTypePremium
}
