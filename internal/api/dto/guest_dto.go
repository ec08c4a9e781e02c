package dto

import (
	"time"

	"github.com/spec-kit/rsvp-service/internal/domain"
)

// ConfirmRequest payload for confirmation submissions.
type ConfirmRequest struct {
	Name string `json:"name"`
}

// ConfirmResponse standard response for the confirm endpoint.
type ConfirmResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// GuestRecord is the normalized wire shape for a confirmed guest,
// identical for both store backends.
type GuestRecord struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ConfirmedAt time.Time `json:"confirmedAt"`
}

// NewGuestRecord maps a domain guest onto the wire shape.
func NewGuestRecord(g *domain.Guest) GuestRecord {
	return GuestRecord{
		ID:          g.ID,
		Name:        g.Name,
		ConfirmedAt: g.ConfirmedAt,
	}
}
