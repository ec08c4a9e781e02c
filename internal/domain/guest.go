package domain

import "time"

// Guest is the domain model for a person who confirmed attendance.
// Among active guests (DeletedAt unset) names are unique under
// case-insensitive comparison; the stored name keeps its original case.
type Guest struct {
	ID          int64
	Name        string
	ConfirmedAt time.Time
	DeletedAt   *time.Time
}

// Active reports whether the guest has not been soft-deleted.
func (g *Guest) Active() bool {
	return g.DeletedAt == nil
}
