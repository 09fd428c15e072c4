package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"ticket-sales/internal/status"
	"ticket-sales/models"
	"ticket-sales/utils"
)

const (
	TicketsCollection = "tickets"
	ConfigCollection  = "event_config"
)

// Every config record carries the same singleton key; a unique index on
// it keeps the collection at one record.
const configSingletonKey = "config"

// TicketStore provides durable persistence for ticket records and the
// event configuration singleton. All access goes through the injected
// app handle; nothing here keeps global state.
type TicketStore struct {
	app core.App
}

func NewTicketStore(app core.App) *TicketStore {
	return &TicketStore{app: app}
}

// Insert persists a new ticket sale. Status defaults to sold, quantity
// to 1 and sold_at to now.
func (s *TicketStore) Insert(req *models.CreateTicketRequest) (*models.Ticket, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	collection, err := s.app.FindCollectionByNameOrId(TicketsCollection)
	if err != nil {
		return nil, fmt.Errorf("%w: find tickets collection: %v", status.ErrStoreUnavailable, err)
	}

	reference, err := utils.GenerateCode(4)
	if err != nil {
		return nil, fmt.Errorf("generate reference: %w", err)
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	record := core.NewRecord(collection)
	record.Set("reference", reference)
	record.Set("ticket_type", req.TicketType)
	record.Set("buyer_name", strings.TrimSpace(req.BuyerName))
	record.Set("buyer_phone", strings.TrimSpace(req.BuyerPhone))
	record.Set("quantity", quantity)
	record.Set("status", models.TicketStatusSold)
	record.Set("sold_at", types.NowDateTime())
	record.Set("notes", req.Notes)

	if err := s.app.Save(record); err != nil {
		return nil, fmt.Errorf("%w: save ticket: %v", status.ErrStoreUnavailable, err)
	}

	return recordToTicket(record), nil
}

// FindAll returns every ticket record, most recent sale first.
func (s *TicketStore) FindAll() ([]*models.Ticket, error) {
	records := []*core.Record{}
	err := s.app.RecordQuery(TicketsCollection).
		OrderBy("sold_at DESC").
		All(&records)
	if err != nil {
		return nil, fmt.Errorf("%w: list tickets: %v", status.ErrStoreUnavailable, err)
	}

	tickets := make([]*models.Ticket, len(records))
	for i, record := range records {
		tickets[i] = recordToTicket(record)
	}
	return tickets, nil
}

// UpdateStatus sets the ticket's status, the only field mutable after
// creation. Re-applying the current status is a no-op success.
func (s *TicketStore) UpdateStatus(id, newStatus string) (*models.Ticket, error) {
	record, err := s.findRecord(id)
	if err != nil {
		return nil, err
	}

	record.Set("status", newStatus)
	if err := s.app.Save(record); err != nil {
		return nil, fmt.Errorf("%w: update ticket status: %v", status.ErrStoreUnavailable, err)
	}

	return recordToTicket(record), nil
}

// DeleteByID permanently removes the ticket and returns the removed
// record.
func (s *TicketStore) DeleteByID(id string) (*models.Ticket, error) {
	record, err := s.findRecord(id)
	if err != nil {
		return nil, err
	}

	ticket := recordToTicket(record)
	if err := s.app.Delete(record); err != nil {
		return nil, fmt.Errorf("%w: delete ticket: %v", status.ErrStoreUnavailable, err)
	}

	return ticket, nil
}

// SumQuantity returns the summed quantity across tickets matching both
// filters, 0 when none match.
func (s *TicketStore) SumQuantity(ticketType, ticketStatus string) (int, error) {
	var sum int
	err := s.app.DB().
		Select("COALESCE(SUM(quantity), 0)").
		From(TicketsCollection).
		Where(dbx.HashExp{"ticket_type": ticketType, "status": ticketStatus}).
		Row(&sum)
	if err != nil {
		return 0, fmt.Errorf("%w: sum quantity: %v", status.ErrStoreUnavailable, err)
	}
	return sum, nil
}

// GetOrCreateConfig returns the event configuration singleton, creating
// it with defaults on first access. Two simultaneous first reads can
// race on creation; the unique singleton index fails the loser's insert
// and recoverConfigRace returns the winner's record instead.
func (s *TicketStore) GetOrCreateConfig() (*models.EventConfig, error) {
	record := &core.Record{}
	err := s.app.RecordQuery(ConfigCollection).Limit(1).One(record)
	if err == nil {
		return recordToConfig(record), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: find event config: %v", status.ErrStoreUnavailable, err)
	}

	cfg, err := s.createDefaultConfig()
	if err != nil {
		return s.recoverConfigRace(err)
	}

	slog.Info("event config initialized with defaults", "id", cfg.ID)
	return cfg, nil
}

func (s *TicketStore) createDefaultConfig() (*models.EventConfig, error) {
	collection, err := s.app.FindCollectionByNameOrId(ConfigCollection)
	if err != nil {
		return nil, fmt.Errorf("%w: find event_config collection: %v", status.ErrStoreUnavailable, err)
	}

	record := core.NewRecord(collection)
	record.Set("singleton", configSingletonKey)
	record.Set("total_standard_tickets", models.DefaultTotalStandardTickets)
	record.Set("total_premium_tickets", models.DefaultTotalPremiumTickets)
	record.Set("standard_price", models.DefaultStandardPrice)
	record.Set("premium_price", models.DefaultPremiumPrice)

	if err := s.app.Save(record); err != nil {
		return nil, fmt.Errorf("%w: create event config: %v", status.ErrStoreUnavailable, err)
	}

	return recordToConfig(record), nil
}

// recoverConfigRace runs after a failed config insert: when another
// request created the singleton first, return that record; otherwise
// surface the original save error.
func (s *TicketStore) recoverConfigRace(saveErr error) (*models.EventConfig, error) {
	record := &core.Record{}
	if err := s.app.RecordQuery(ConfigCollection).Limit(1).One(record); err != nil {
		return nil, saveErr
	}
	return recordToConfig(record), nil
}

// HealthCheck verifies the underlying database answers queries.
func (s *TicketStore) HealthCheck() error {
	var one int
	if err := s.app.DB().NewQuery("SELECT 1").Row(&one); err != nil {
		return fmt.Errorf("%w: %v", status.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *TicketStore) findRecord(id string) (*core.Record, error) {
	if id == "" {
		return nil, status.ErrTicketNotFound
	}
	record, err := s.app.FindRecordById(TicketsCollection, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, status.ErrTicketNotFound
		}
		return nil, fmt.Errorf("%w: find ticket: %v", status.ErrStoreUnavailable, err)
	}
	return record, nil
}

func validateCreate(req *models.CreateTicketRequest) error {
	if !models.IsValidTicketType(req.TicketType) {
		return fmt.Errorf("%w: ticketType must be %q or %q", status.ErrValidation,
			models.TicketTypeStandard, models.TicketTypePremium)
	}
	if strings.TrimSpace(req.BuyerName) == "" {
		return fmt.Errorf("%w: buyerName is required", status.ErrValidation)
	}
	if strings.TrimSpace(req.BuyerPhone) == "" {
		return fmt.Errorf("%w: buyerPhone is required", status.ErrValidation)
	}
	return nil
}

func recordToTicket(record *core.Record) *models.Ticket {
	return &models.Ticket{
		ID:         record.Id,
		Reference:  record.GetString("reference"),
		TicketType: record.GetString("ticket_type"),
		BuyerName:  record.GetString("buyer_name"),
		BuyerPhone: record.GetString("buyer_phone"),
		Quantity:   record.GetInt("quantity"),
		Status:     record.GetString("status"),
		SoldAt:     record.GetDateTime("sold_at").Time(),
		Notes:      record.GetString("notes"),
	}
}

func recordToConfig(record *core.Record) *models.EventConfig {
	return &models.EventConfig{
		ID:                   record.Id,
		TotalStandardTickets: record.GetInt("total_standard_tickets"),
		TotalPremiumTickets:  record.GetInt("total_premium_tickets"),
		StandardPrice:        record.GetFloat("standard_price"),
		PremiumPrice:         record.GetFloat("premium_price"),
	}
}
