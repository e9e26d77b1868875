package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service   *service.TicketService
	validator *RequestValidator
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, validator *RequestValidator) *TicketsHandler {
	return &TicketsHandler{service: ticketService, validator: validator}
}

// Create POST /api/tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := h.validator.bind(c, &req); err != nil {
		return err
	}

	ticket, err := h.service.Create(c.UserContext(), caller, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ListMine GET /api/tickets/my.
func (h *TicketsHandler) ListMine(c *fiber.Ctx) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.ListMine(c.UserContext(), caller)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListAll GET /api/tickets/all.
func (h *TicketsHandler) ListAll(c *fiber.Ctx) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.ListAll(c.UserContext(), caller)
	if err != nil {
		return err
	}
	items := make([]dto.TicketWithOwnerResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketWithOwnerResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateStatus PATCH /api/tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := h.validator.bind(c, &req); err != nil {
		return err
	}

	ticket, err := h.service.UpdateStatus(c.UserContext(), caller, utils.CopyString(c.Params("id")), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

func callerIdentity(c *fiber.Ctx) (domain.Identity, error) {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return domain.Identity{}, apperrors.NewUnauthorized("not authorized, no token")
	}
	return identity, nil
}
