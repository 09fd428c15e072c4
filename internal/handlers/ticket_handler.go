package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ticket-sales/internal/services"
	"ticket-sales/internal/status"
	"ticket-sales/internal/store"
	"ticket-sales/models"
	"ticket-sales/monitoring"
)

// Ticket status actions accepted by PATCH /api/tickets/{id}.
const (
	ActionCancel  = "cancel"
	ActionRestore = "restore"
)

type TicketHandler struct {
	store *store.TicketStore
	stats *services.StatsService
}

func NewTicketHandler(ticketStore *store.TicketStore, statsService *services.StatsService) *TicketHandler {
	return &TicketHandler{
		store: ticketStore,
		stats: statsService,
	}
}

// List - all tickets, most recent sale first
func (h *TicketHandler) List(e *core.RequestEvent) error {
	tickets, err := h.store.FindAll()
	if err != nil {
		monitoring.TrackTicketOperation("list", "error")
		return toAPIError(err)
	}

	monitoring.TrackTicketOperation("list", "success")
	return e.JSON(http.StatusOK, tickets)
}

// Create - record a new ticket sale
func (h *TicketHandler) Create(e *core.RequestEvent) error {
	var req models.CreateTicketRequest
	if err := e.BindBody(&req); err != nil {
		monitoring.TrackTicketOperation("create", "error")
		return apis.NewBadRequestError("Invalid request body", err)
	}

	ticket, err := h.store.Insert(&req)
	if err != nil {
		monitoring.TrackTicketOperation("create", "error")
		return toAPIError(err)
	}

	h.stats.Invalidate(e.Request.Context())
	monitoring.TrackTicketOperation("create", "success")
	return e.JSON(http.StatusCreated, ticket)
}

// UpdateStatus - cancel or restore a ticket via {action} body
func (h *TicketHandler) UpdateStatus(e *core.RequestEvent) error {
	var req struct {
		Action string `json:"action"`
	}
	if err := e.BindBody(&req); err != nil {
		monitoring.TrackTicketOperation("update_status", "error")
		return apis.NewBadRequestError("Invalid request body", err)
	}

	return h.applyAction(e, req.Action)
}

// Cancel - alias for PATCH with {action: "cancel"}
func (h *TicketHandler) Cancel(e *core.RequestEvent) error {
	return h.applyAction(e, ActionCancel)
}

// Restore - alias for PATCH with {action: "restore"}
func (h *TicketHandler) Restore(e *core.RequestEvent) error {
	return h.applyAction(e, ActionRestore)
}

// Delete - permanently remove a ticket record
func (h *TicketHandler) Delete(e *core.RequestEvent) error {
	id := e.Request.PathValue("id")

	if _, err := h.store.DeleteByID(id); err != nil {
		monitoring.TrackTicketOperation("delete", "error")
		return toAPIError(err)
	}

	h.stats.Invalidate(e.Request.Context())
	monitoring.TrackTicketOperation("delete", "success")
	return e.JSON(http.StatusOK, map[string]string{"message": "Ticket deleted"})
}

func (h *TicketHandler) applyAction(e *core.RequestEvent, action string) error {
	newStatus, err := statusForAction(action)
	if err != nil {
		monitoring.TrackTicketOperation("update_status", "error")
		return toAPIError(err)
	}

	id := e.Request.PathValue("id")
	ticket, err := h.store.UpdateStatus(id, newStatus)
	if err != nil {
		monitoring.TrackTicketOperation(action, "error")
		return toAPIError(err)
	}

	h.stats.Invalidate(e.Request.Context())
	monitoring.TrackTicketOperation(action, "success")
	return e.JSON(http.StatusOK, ticket)
}

// statusForAction resolves the two-state machine transitions. Both
// transitions are idempotent: re-applying the target status is fine.
func statusForAction(action string) (string, error) {
	switch action {
	case ActionCancel:
		return models.TicketStatusCancelled, nil
	case ActionRestore:
		return models.TicketStatusSold, nil
	default:
		return "", fmt.Errorf("%w: use %q or %q, got %q", status.ErrInvalidAction,
			ActionCancel, ActionRestore, action)
	}
}

// toAPIError maps store errors onto distinct HTTP responses instead of
// a catch-all 500.
func toAPIError(err error) error {
	switch {
	case errors.Is(err, status.ErrTicketNotFound):
		return apis.NewNotFoundError("Ticket not found", err)
	case errors.Is(err, status.ErrValidation):
		return apis.NewBadRequestError(err.Error(), err)
	case errors.Is(err, status.ErrInvalidAction):
		return apis.NewBadRequestError(err.Error(), err)
	case errors.Is(err, status.ErrStoreUnavailable):
		return apis.NewApiError(http.StatusServiceUnavailable, "Store unavailable, try again later", err)
	default:
		return apis.NewInternalServerError("Something went wrong", err)
	}
}
