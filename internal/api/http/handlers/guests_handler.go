package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/rsvp-service/internal/api/dto"
	"github.com/spec-kit/rsvp-service/internal/service"
	apperrors "github.com/spec-kit/rsvp-service/pkg/util"
)

// GuestsHandler manages the public confirmation endpoints.
type GuestsHandler struct {
	confirmations *service.ConfirmationService
	listings      *service.ListingService
}

// NewGuestsHandler constructs handler.
func NewGuestsHandler(confirmations *service.ConfirmationService, listings *service.ListingService) *GuestsHandler {
	return &GuestsHandler{confirmations: confirmations, listings: listings}
}

// Confirm POST /api/confirm.
func (h *GuestsHandler) Confirm(c *fiber.Ctx) error {
	var req dto.ConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError(service.MsgInvalidName)
	}

	if _, err := h.confirmations.Confirm(c.UserContext(), req.Name); err != nil {
		return err
	}

	return c.JSON(dto.ConfirmResponse{
		Success: true,
		Message: service.MsgConfirmed,
	})
}

// List GET /api/confirm.
func (h *GuestsHandler) List(c *fiber.Ctx) error {
	guests, err := h.listings.ListConfirmed(c.UserContext())
	if err != nil {
		return err
	}

	records := make([]dto.GuestRecord, 0, len(guests))
	for i := range guests {
		records = append(records, dto.NewGuestRecord(&guests[i]))
	}
	return c.JSON(records)
}
