package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func newTestFileRepo(t *testing.T) *FileGuestRepository {
	t.Helper()
	repo, err := NewFileGuestRepository(filepath.Join(t.TempDir(), "guests.json"))
	if err != nil {
		t.Fatalf("NewFileGuestRepository: %v", err)
	}
	return repo
}

func TestFileRepositoryMissingFileReadsEmpty(t *testing.T) {
	repo := newTestFileRepo(t)

	guests, err := repo.ListActive(context.Background())
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(guests) != 0 {
		t.Errorf("expected empty list, got %d guests", len(guests))
	}

	if _, err := repo.FindActiveByName(context.Background(), "Maria"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindActiveByName on empty store = %v, want ErrNotFound", err)
	}
}

func TestFileRepositoryInsertAndList(t *testing.T) {
	repo := newTestFileRepo(t)
	ctx := context.Background()

	first, err := repo.Insert(ctx, "Maria Silva")
	if err != nil {
		t.Fatalf("insert first: %v", err)
	}
	second, err := repo.Insert(ctx, "Pedro")
	if err != nil {
		t.Fatalf("insert second: %v", err)
	}

	if first.ID != 1 || second.ID != 2 {
		t.Errorf("expected position-derived ids 1 and 2, got %d and %d", first.ID, second.ID)
	}
	if second.ConfirmedAt.Before(first.ConfirmedAt) {
		t.Errorf("confirmedAt should be non-decreasing across insertion order")
	}

	guests, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(guests) != 2 {
		t.Fatalf("expected 2 guests, got %d", len(guests))
	}
	if guests[0].Name != "Maria Silva" || guests[1].Name != "Pedro" {
		t.Errorf("listing not in insertion order: %q, %q", guests[0].Name, guests[1].Name)
	}
}

func TestFileRepositoryFindIsCaseInsensitive(t *testing.T) {
	repo := newTestFileRepo(t)
	ctx := context.Background()

	if _, err := repo.Insert(ctx, "JOAO"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	testCases := []struct {
		name   string
		lookup string
		found  bool
	}{
		{name: "exact case", lookup: "JOAO", found: true},
		{name: "lower case", lookup: "joao", found: true},
		{name: "mixed case", lookup: "Joao", found: true},
		{name: "different name", lookup: "Maria", found: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			guest, err := repo.FindActiveByName(ctx, tc.lookup)
			if tc.found {
				if err != nil {
					t.Fatalf("FindActiveByName(%q): %v", tc.lookup, err)
				}
				if guest.Name != "JOAO" {
					t.Errorf("stored name = %q, want original case %q", guest.Name, "JOAO")
				}
				return
			}
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("FindActiveByName(%q) = %v, want ErrNotFound", tc.lookup, err)
			}
		})
	}
}

func TestFileRepositoryInsertRejectsDuplicates(t *testing.T) {
	repo := newTestFileRepo(t)
	ctx := context.Background()

	if _, err := repo.Insert(ctx, "Maria Silva"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := repo.Insert(ctx, "maria silva"); !errors.Is(err, ErrDuplicateGuest) {
		t.Fatalf("second insert = %v, want ErrDuplicateGuest", err)
	}

	guests, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(guests) != 1 {
		t.Errorf("expected exactly one record after duplicate rejection, got %d", len(guests))
	}
}

func TestFileRepositoryConcurrentIdenticalInserts(t *testing.T) {
	repo := newTestFileRepo(t)
	ctx := context.Background()

	const attempts = 20
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		duplicates int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Insert(ctx, "Pedro")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrDuplicateGuest):
				duplicates++
			default:
				t.Errorf("unexpected insert error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("expected exactly one successful insert, got %d", successes)
	}
	if duplicates != attempts-1 {
		t.Errorf("expected %d duplicate rejections, got %d", attempts-1, duplicates)
	}

	guests, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(guests) != 1 {
		t.Errorf("expected a single record after concurrent inserts, got %d", len(guests))
	}
}

func TestFileRepositoryPersistedLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guests.json")
	repo, err := NewFileGuestRepository(path)
	if err != nil {
		t.Fatalf("NewFileGuestRepository: %v", err)
	}
	if _, err := repo.Insert(context.Background(), "Maria Silva"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read store file: %v", err)
	}

	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("store file is not a JSON array: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0]["name"] != "Maria Silva" {
		t.Errorf("name field = %v, want %q", records[0]["name"], "Maria Silva")
	}
	if _, ok := records[0]["confirmedAt"].(string); !ok {
		t.Errorf("confirmedAt field missing or not a timestamp string: %v", records[0]["confirmedAt"])
	}
}
