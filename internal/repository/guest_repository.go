// Package repository implements guest persistence behind a single store
// contract with two interchangeable backends: a whole-file JSON store and
// a pooled Postgres store.
package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/rsvp-service/internal/domain"
)

// ErrNotFound is returned when no active guest matches a lookup.
var ErrNotFound = errors.New("guest not found")

// ErrDuplicateGuest is returned when an insert would violate name
// uniqueness among active guests. Handlers translate this into an
// HTTP 409 response.
var ErrDuplicateGuest = errors.New("guest name already confirmed")

// GuestRepository defines persistence access for confirmed guests.
//
// Name comparison is case-insensitive everywhere; soft-deleted guests are
// invisible to every method. ListActive returns guests in confirmation
// order (ascending id).
type GuestRepository interface {
	// FindActiveByName returns the active guest whose name matches under
	// case-insensitive comparison, or ErrNotFound.
	FindActiveByName(ctx context.Context, name string) (*domain.Guest, error)
	// Insert creates a new active guest with a fresh id and the current
	// time as confirmation timestamp. Returns ErrDuplicateGuest when an
	// active guest with an equal name already exists.
	Insert(ctx context.Context, name string) (*domain.Guest, error)
	// ListActive returns all active guests ordered by id ascending.
	ListActive(ctx context.Context) ([]domain.Guest, error)
}
