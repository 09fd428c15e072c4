package models

// Defaults applied when the event_config singleton does not exist yet.
const (
	DefaultTotalStandardTickets         = 100
	DefaultTotalPremiumTickets          = 50
	DefaultStandardPrice        float64 = 100
	DefaultPremiumPrice         float64 = 150
)

// EventConfig is the singleton record holding capacity and unit price
// per ticket tier. Read-only through the HTTP surface.
type EventConfig struct {
	ID                   string  `json:"id"`
	TotalStandardTickets int     `json:"totalStandardTickets"`
	TotalPremiumTickets  int     `json:"totalPremiumTickets"`
	StandardPrice        float64 `json:"standardPrice"`
	PremiumPrice         float64 `json:"premiumPrice"`
}

// TotalFor returns the configured capacity for a ticket type.
func (c *EventConfig) TotalFor(ticketType string) int {
	if ticketType == TicketTypePremium {
		return c.TotalPremiumTickets
	}
	return c.TotalStandardTickets
}

// PriceFor returns the configured unit price for a ticket type.
func (c *EventConfig) PriceFor(ticketType string) float64 {
	if ticketType == TicketTypePremium {
		return c.PremiumPrice
	}
	return c.StandardPrice
}
