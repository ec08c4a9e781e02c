package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/rsvp-service/internal/domain"
)

// fileGuest is the on-disk record shape: a flat JSON array of these.
type fileGuest struct {
	Name        string    `json:"name"`
	ConfirmedAt time.Time `json:"confirmedAt"`
}

// FileGuestRepository stores the whole guest collection in one JSON file.
// Every operation reads the entire file, works on the decoded slice, and
// writes the entire file back. All access funnels through a single mutex;
// the duplicate check and the append for Insert happen under the same
// critical section, so concurrent identical submissions cannot both land.
//
// Records carry no materialized id; the 1-based position in the array
// stands in for it. The public surface never deletes, so positions are
// stable.
type FileGuestRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileGuestRepository creates the store for the given file path,
// ensuring the parent directory exists. A missing file reads as an empty
// collection.
func NewFileGuestRepository(path string) (*FileGuestRepository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create guest store dir: %w", err)
		}
	}
	return &FileGuestRepository{path: path}, nil
}

func (r *FileGuestRepository) FindActiveByName(ctx context.Context, name string) (*domain.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}
	for i, rec := range records {
		if strings.EqualFold(rec.Name, name) {
			return toGuest(i, rec), nil
		}
	}
	return nil, ErrNotFound
}

func (r *FileGuestRepository) Insert(ctx context.Context, name string) (*domain.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if strings.EqualFold(rec.Name, name) {
			return nil, ErrDuplicateGuest
		}
	}

	rec := fileGuest{Name: name, ConfirmedAt: time.Now().UTC()}
	records = append(records, rec)
	if err := r.save(records); err != nil {
		return nil, err
	}
	return toGuest(len(records)-1, rec), nil
}

func (r *FileGuestRepository) ListActive(ctx context.Context) ([]domain.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}
	guests := make([]domain.Guest, 0, len(records))
	for i, rec := range records {
		guests = append(guests, *toGuest(i, rec))
	}
	return guests, nil
}

func (r *FileGuestRepository) load() ([]fileGuest, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read guest file: %w", err)
	}
	var records []fileGuest
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode guest file: %w", err)
	}
	return records, nil
}

func (r *FileGuestRepository) save(records []fileGuest) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode guest file: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write guest file: %w", err)
	}
	return nil
}

func toGuest(index int, rec fileGuest) *domain.Guest {
	return &domain.Guest{
		ID:          int64(index) + 1,
		Name:        rec.Name,
		ConfirmedAt: rec.ConfirmedAt,
	}
}
