// Package service implements business logic and orchestration between the
// HTTP handlers and the guest store.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/rsvp-service/internal/cache"
	"github.com/spec-kit/rsvp-service/internal/domain"
	"github.com/spec-kit/rsvp-service/internal/events"
	"github.com/spec-kit/rsvp-service/internal/repository"
	apperrors "github.com/spec-kit/rsvp-service/pkg/util"
)

// User-facing messages, part of the wire contract.
const (
	MsgConfirmed   = "Presença confirmada!"
	MsgDuplicate   = "Nome já confirmado"
	MsgInvalidName = "Nome inválido"
	MsgStoreError  = "Erro no servidor"
)

// ConfirmationService coordinates the confirmation workflow.
type ConfirmationService struct {
	guests     repository.GuestRepository
	listCache  *cache.GuestListCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewConfirmationService constructs the service. Cache and dispatcher may
// be nil.
func NewConfirmationService(guests repository.GuestRepository, listCache *cache.GuestListCache, dispatcher events.Dispatcher, logger *zap.Logger) *ConfirmationService {
	return &ConfirmationService{
		guests:     guests,
		listCache:  listCache,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Confirm registers the submitted name as a confirmed guest.
//
// The pre-insert duplicate lookup is advisory; the store itself enforces
// uniqueness (partial unique index, or the file store's locked
// check-and-append), so a concurrent identical submission surfaces as
// repository.ErrDuplicateGuest from Insert and maps to the same conflict.
// On every failure path the store is unchanged.
func (s *ConfirmationService) Confirm(ctx context.Context, rawName string) (*domain.Guest, error) {
	name, ok := ValidateName(rawName)
	if !ok {
		return nil, apperrors.NewValidationError(MsgInvalidName)
	}

	_, err := s.guests.FindActiveByName(ctx, name)
	switch {
	case err == nil:
		return nil, apperrors.NewConflict(MsgDuplicate)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, apperrors.NewInternalError(MsgStoreError, err)
	}

	guest, err := s.guests.Insert(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateGuest) {
			return nil, apperrors.NewConflict(MsgDuplicate)
		}
		return nil, apperrors.NewInternalError(MsgStoreError, err)
	}

	s.listCache.Invalidate(ctx)
	s.publishConfirmed(ctx, guest)

	return guest, nil
}

func (s *ConfirmationService) publishConfirmed(ctx context.Context, guest *domain.Guest) {
	if s.dispatcher == nil {
		return
	}
	err := s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventGuestConfirmed,
		Timestamp: time.Now().UTC(),
		Payload: events.GuestConfirmedPayload{
			GuestID:     guest.ID,
			Name:        guest.Name,
			ConfirmedAt: guest.ConfirmedAt,
		},
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("publish guest_confirmed", zap.Error(err))
	}
}
