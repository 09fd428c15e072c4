package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-sales/internal/status"
	"ticket-sales/models"

	_ "ticket-sales/migrations"
)

// setupTestStore boots a throwaway PocketBase app; the registered
// migrations create the tickets and event_config collections.
func setupTestStore(t *testing.T) (*TicketStore, *tests.TestApp) {
	t.Helper()

	testApp, err := tests.NewTestApp(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(testApp.Cleanup)

	return NewTicketStore(testApp), testApp
}

func TestTicketStore_Insert_AppliesDefaults(t *testing.T) {
	s, _ := setupTestStore(t)

	ticket, err := s.Insert(&models.CreateTicketRequest{
		TicketType: models.TicketTypeStandard,
		BuyerName:  "Jane",
		BuyerPhone: "555-0100",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, ticket.ID)
	assert.NotEmpty(t, ticket.Reference)
	assert.Equal(t, models.TicketStatusSold, ticket.Status)
	assert.Equal(t, 1, ticket.Quantity)
	assert.WithinDuration(t, time.Now(), ticket.SoldAt, 5*time.Second)
}

func TestTicketStore_Insert_KeepsExplicitQuantity(t *testing.T) {
	s, _ := setupTestStore(t)

	ticket, err := s.Insert(&models.CreateTicketRequest{
		TicketType: models.TicketTypePremium,
		BuyerName:  "Max",
		BuyerPhone: "555-0101",
		Quantity:   3,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, ticket.Quantity)
}

func TestTicketStore_UpdateStatus_CancelRestoreRoundTrip(t *testing.T) {
	s, _ := setupTestStore(t)

	ticket, err := s.Insert(&models.CreateTicketRequest{
		TicketType: models.TicketTypeStandard,
		BuyerName:  "Jane",
		BuyerPhone: "555-0100",
	})
	require.NoError(t, err)

	cancelled, err := s.UpdateStatus(ticket.ID, models.TicketStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusCancelled, cancelled.Status)

	// re-applying the current status is a no-op success
	again, err := s.UpdateStatus(ticket.ID, models.TicketStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusCancelled, again.Status)

	restored, err := s.UpdateStatus(ticket.ID, models.TicketStatusSold)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusSold, restored.Status)
}

func TestTicketStore_DeleteByID_RemovesTicket(t *testing.T) {
	s, _ := setupTestStore(t)

	ticket, err := s.Insert(&models.CreateTicketRequest{
		TicketType: models.TicketTypeStandard,
		BuyerName:  "Jane",
		BuyerPhone: "555-0100",
		Quantity:   2,
	})
	require.NoError(t, err)

	deleted, err := s.DeleteByID(ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, deleted.ID)

	all, err := s.FindAll()
	require.NoError(t, err)
	assert.Empty(t, all)

	sum, err := s.SumQuantity(models.TicketTypeStandard, models.TicketStatusSold)
	require.NoError(t, err)
	assert.Zero(t, sum)

	// the id is gone for every subsequent operation
	_, err = s.UpdateStatus(ticket.ID, models.TicketStatusCancelled)
	assert.ErrorIs(t, err, status.ErrTicketNotFound)

	_, err = s.DeleteByID(ticket.ID)
	assert.ErrorIs(t, err, status.ErrTicketNotFound)
}

func TestTicketStore_SumQuantity_FiltersTypeAndStatus(t *testing.T) {
	s, _ := setupTestStore(t)

	_, err := s.Insert(&models.CreateTicketRequest{
		TicketType: models.TicketTypeStandard,
		BuyerName:  "Jane",
		BuyerPhone: "555-0100",
		Quantity:   2,
	})
	require.NoError(t, err)

	_, err = s.Insert(&models.CreateTicketRequest{
		TicketType: models.TicketTypePremium,
		BuyerName:  "Max",
		BuyerPhone: "555-0101",
	})
	require.NoError(t, err)

	cancelledTicket, err := s.Insert(&models.CreateTicketRequest{
		TicketType: models.TicketTypeStandard,
		BuyerName:  "Ana",
		BuyerPhone: "555-0102",
		Quantity:   5,
	})
	require.NoError(t, err)
	_, err = s.UpdateStatus(cancelledTicket.ID, models.TicketStatusCancelled)
	require.NoError(t, err)

	testCases := []struct {
		ticketType   string
		ticketStatus string
		want         int
	}{
		{models.TicketTypeStandard, models.TicketStatusSold, 2},
		{models.TicketTypePremium, models.TicketStatusSold, 1},
		{models.TicketTypeStandard, models.TicketStatusCancelled, 5},
		{models.TicketTypePremium, models.TicketStatusCancelled, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.ticketType+"/"+tc.ticketStatus, func(t *testing.T) {
			sum, err := s.SumQuantity(tc.ticketType, tc.ticketStatus)
			require.NoError(t, err)
			assert.Equal(t, tc.want, sum)
		})
	}
}

func TestTicketStore_GetOrCreateConfig_CreatesDefaultsOnce(t *testing.T) {
	s, testApp := setupTestStore(t)

	cfg, err := s.GetOrCreateConfig()
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.ID)
	assert.Equal(t, models.DefaultTotalStandardTickets, cfg.TotalStandardTickets)
	assert.Equal(t, models.DefaultTotalPremiumTickets, cfg.TotalPremiumTickets)
	assert.Equal(t, models.DefaultStandardPrice, cfg.StandardPrice)
	assert.Equal(t, models.DefaultPremiumPrice, cfg.PremiumPrice)

	again, err := s.GetOrCreateConfig()
	require.NoError(t, err)
	assert.Equal(t, cfg.ID, again.ID)

	total, err := testApp.CountRecords(ConfigCollection)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestTicketStore_CreateDefaultConfig_SingletonGuard(t *testing.T) {
	s, _ := setupTestStore(t)

	_, err := s.createDefaultConfig()
	require.NoError(t, err)

	_, err = s.createDefaultConfig()
	assert.ErrorIs(t, err, status.ErrStoreUnavailable)
}

func TestTicketStore_RecoverConfigRace_ReturnsWinner(t *testing.T) {
	s, _ := setupTestStore(t)

	winner, err := s.GetOrCreateConfig()
	require.NoError(t, err)

	saveErr := fmt.Errorf("%w: create event config: unique constraint", status.ErrStoreUnavailable)
	cfg, err := s.recoverConfigRace(saveErr)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, cfg.ID)
}

func TestTicketStore_RecoverConfigRace_NoWinner(t *testing.T) {
	s, _ := setupTestStore(t)

	saveErr := fmt.Errorf("%w: create event config: disk I/O error", status.ErrStoreUnavailable)
	_, err := s.recoverConfigRace(saveErr)
	assert.ErrorIs(t, err, status.ErrStoreUnavailable)
}

func TestTicketStore_HealthCheck(t *testing.T) {
	s, _ := setupTestStore(t)

	assert.NoError(t, s.HealthCheck())
}
