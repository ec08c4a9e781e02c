package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/rsvp-service/internal/domain"
	"github.com/spec-kit/rsvp-service/internal/events"
	"github.com/spec-kit/rsvp-service/internal/repository"
	apperrors "github.com/spec-kit/rsvp-service/pkg/util"
)

// fakeGuestRepository is an in-memory GuestRepository for service tests.
type fakeGuestRepository struct {
	guests    []domain.Guest
	findErr   error
	insertErr error
	listErr   error
}

func (f *fakeGuestRepository) FindActiveByName(_ context.Context, name string) (*domain.Guest, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for i := range f.guests {
		g := &f.guests[i]
		if g.Active() && strings.EqualFold(g.Name, name) {
			return g, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeGuestRepository) Insert(_ context.Context, name string) (*domain.Guest, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	guest := domain.Guest{
		ID:          int64(len(f.guests)) + 1,
		Name:        name,
		ConfirmedAt: time.Now().UTC(),
	}
	f.guests = append(f.guests, guest)
	return &guest, nil
}

func (f *fakeGuestRepository) ListActive(_ context.Context) ([]domain.Guest, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var active []domain.Guest
	for _, g := range f.guests {
		if g.Active() {
			active = append(active, g)
		}
	}
	return active, nil
}

func domainErrorFrom(t *testing.T, err error) *apperrors.DomainError {
	t.Helper()
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %T: %v", err, err)
	}
	return domainErr
}

func TestConfirmSuccess(t *testing.T) {
	repo := &fakeGuestRepository{}
	dispatcher := events.NewInMemoryDispatcher()

	var published []events.Event
	dispatcher.Subscribe(events.EventGuestConfirmed, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	svc := NewConfirmationService(repo, nil, dispatcher, zap.NewNop())
	guest, err := svc.Confirm(context.Background(), "  Maria Silva ")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if guest.Name != "Maria Silva" {
		t.Errorf("stored name = %q, want trimmed %q", guest.Name, "Maria Silva")
	}
	if len(repo.guests) != 1 {
		t.Errorf("expected exactly one record, got %d", len(repo.guests))
	}
	if len(published) != 1 {
		t.Fatalf("expected one guest_confirmed event, got %d", len(published))
	}
	payload, ok := published[0].Payload.(events.GuestConfirmedPayload)
	if !ok {
		t.Fatalf("unexpected payload type %T", published[0].Payload)
	}
	if payload.Name != "Maria Silva" {
		t.Errorf("event payload name = %q", payload.Name)
	}
	if published[0].ID == "" {
		t.Error("event id should be assigned")
	}
}

func TestConfirmInvalidInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		repo := &fakeGuestRepository{}
		svc := NewConfirmationService(repo, nil, nil, zap.NewNop())

		_, err := svc.Confirm(context.Background(), input)
		domainErr := domainErrorFrom(t, err)
		if domainErr.HTTPStatus != http.StatusBadRequest {
			t.Errorf("Confirm(%q) status = %d, want 400", input, domainErr.HTTPStatus)
		}
		if domainErr.Message != MsgInvalidName {
			t.Errorf("Confirm(%q) message = %q, want %q", input, domainErr.Message, MsgInvalidName)
		}
		if len(repo.guests) != 0 {
			t.Errorf("Confirm(%q) must not create a record", input)
		}
	}
}

func TestConfirmDuplicate(t *testing.T) {
	repo := &fakeGuestRepository{}
	svc := NewConfirmationService(repo, nil, nil, zap.NewNop())
	ctx := context.Background()

	if _, err := svc.Confirm(ctx, "JOAO"); err != nil {
		t.Fatalf("first confirm: %v", err)
	}

	_, err := svc.Confirm(ctx, "joao")
	domainErr := domainErrorFrom(t, err)
	if domainErr.HTTPStatus != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", domainErr.HTTPStatus)
	}
	if domainErr.Message != MsgDuplicate {
		t.Errorf("duplicate message = %q, want %q", domainErr.Message, MsgDuplicate)
	}
	if len(repo.guests) != 1 {
		t.Errorf("expected exactly one record, got %d", len(repo.guests))
	}
	if repo.guests[0].Name != "JOAO" {
		t.Errorf("stored name = %q, want first submission's case", repo.guests[0].Name)
	}
}

func TestConfirmRaceLostToConstraint(t *testing.T) {
	// The advisory lookup misses but the store reports the conflict, as a
	// concurrent identical submission would under the unique index.
	repo := &fakeGuestRepository{insertErr: repository.ErrDuplicateGuest}
	svc := NewConfirmationService(repo, nil, nil, zap.NewNop())

	_, err := svc.Confirm(context.Background(), "Pedro")
	domainErr := domainErrorFrom(t, err)
	if domainErr.HTTPStatus != http.StatusConflict {
		t.Errorf("constraint conflict status = %d, want 409", domainErr.HTTPStatus)
	}
	if domainErr.Message != MsgDuplicate {
		t.Errorf("constraint conflict message = %q, want %q", domainErr.Message, MsgDuplicate)
	}
}

func TestConfirmStoreUnavailable(t *testing.T) {
	cause := errors.New("connection refused")
	testCases := []struct {
		name string
		repo *fakeGuestRepository
	}{
		{name: "lookup fails", repo: &fakeGuestRepository{findErr: cause}},
		{name: "insert fails", repo: &fakeGuestRepository{insertErr: cause}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewConfirmationService(tc.repo, nil, nil, zap.NewNop())
			_, err := svc.Confirm(context.Background(), "Maria")
			domainErr := domainErrorFrom(t, err)
			if domainErr.HTTPStatus != http.StatusInternalServerError {
				t.Errorf("status = %d, want 500", domainErr.HTTPStatus)
			}
			if domainErr.Message != MsgStoreError {
				t.Errorf("message = %q, want generic %q", domainErr.Message, MsgStoreError)
			}
			if !errors.Is(err, cause) {
				t.Error("cause should stay wrapped for internal logging")
			}
		})
	}
}

func TestListConfirmedExcludesSoftDeleted(t *testing.T) {
	deleted := time.Now().UTC()
	repo := &fakeGuestRepository{guests: []domain.Guest{
		{ID: 1, Name: "Maria Silva", ConfirmedAt: time.Now().UTC()},
		{ID: 2, Name: "Pedro", ConfirmedAt: time.Now().UTC(), DeletedAt: &deleted},
		{ID: 3, Name: "Joana", ConfirmedAt: time.Now().UTC()},
	}}
	svc := NewListingService(repo, nil)

	guests, err := svc.ListConfirmed(context.Background())
	if err != nil {
		t.Fatalf("ListConfirmed: %v", err)
	}
	if len(guests) != 2 {
		t.Fatalf("expected 2 active guests, got %d", len(guests))
	}
	for _, g := range guests {
		if g.Name == "Pedro" {
			t.Error("soft-deleted guest must not appear in listing")
		}
	}
}

func TestListConfirmedStoreUnavailable(t *testing.T) {
	repo := &fakeGuestRepository{listErr: errors.New("disk gone")}
	svc := NewListingService(repo, nil)

	_, err := svc.ListConfirmed(context.Background())
	domainErr := domainErrorFrom(t, err)
	if domainErr.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", domainErr.HTTPStatus)
	}
}
