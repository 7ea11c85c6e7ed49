package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/miniticket/internal/api/dto"
	"github.com/spec-kit/miniticket/internal/auth"
	"github.com/spec-kit/miniticket/internal/domain"
	"github.com/spec-kit/miniticket/internal/service"
	apperrors "github.com/spec-kit/miniticket/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs the handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Create handles POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		return apperrors.NewValidationError("title and description required", nil)
	}

	ticket, err := h.service.Create(c.UserContext(), principal, req.Title, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(ticketResponse(ticket, nil))
}

// List handles GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	tickets, err := h.service.List(c.UserContext(), principal)
	if err != nil {
		return err
	}

	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		item := &tickets[i]
		var owner *dto.TicketOwner
		if principal.IsAdmin() {
			owner = &dto.TicketOwner{Name: item.OwnerName, Email: item.OwnerEmail}
		}
		items = append(items, ticketResponse(&item.Ticket, owner))
	}
	return c.JSON(items)
}

// UpdateStatus handles PUT /tickets/:id.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.UpdateStatus(c.UserContext(), principal, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(ticketResponse(ticket, nil))
}

// History handles GET /tickets/:id/history.
func (h *TicketsHandler) History(c *fiber.Ctx) error {
	entries, err := h.service.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	items := make([]dto.StatusChangeResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.StatusChangeResponse{
			ID:          entry.ID,
			TicketID:    entry.TicketID,
			OldStatus:   entry.OldStatus,
			NewStatus:   entry.NewStatus,
			ChangedByID: entry.ChangedByID,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return c.JSON(items)
}

func ticketResponse(ticket *domain.Ticket, owner *dto.TicketOwner) dto.TicketResponse {
	return dto.TicketResponse{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      ticket.Status,
		OwnerID:     ticket.OwnerID,
		Owner:       owner,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}
