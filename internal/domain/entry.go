package domain

import (
	"context"
	"time"
)

// TimeEntry records a span of work by one user against one project.
// Duration is derived: whole seconds between start and end, nil while the
// entry is still open (no end time).
type TimeEntry struct {
	ID         int64
	UserID     int64
	ProjectID  int64
	StartTime  time.Time
	EndTime    *time.Time
	Duration   *int64
	Notes      string
	IsBillable bool
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// ProjectName is populated by reads that join the projects table.
	ProjectName string
}

// ComputeDuration recalculates Duration from StartTime and EndTime.
func (e *TimeEntry) ComputeDuration() {
	if e.EndTime == nil {
		e.Duration = nil
		return
	}
	secs := int64(e.EndTime.Sub(e.StartTime) / time.Second)
	e.Duration = &secs
}

// TimeEntryFilter narrows List and Summary queries. Date bounds are
// inclusive and apply to StartTime.
type TimeEntryFilter struct {
	ProjectID *int64
	Start     *time.Time
	End       *time.Time
	Billable  *bool
}

// TimeEntrySummary aggregates a user's matching entries. Open entries
// contribute 0 seconds.
type TimeEntrySummary struct {
	TotalEntries    int
	TotalSeconds    int64
	BillableSeconds int64
}

// TimeEntryRepository defines persistence operations for time entries.
// Every lookup is scoped by the owning user id.
type TimeEntryRepository interface {
	Create(ctx context.Context, entry *TimeEntry) error
	GetByID(ctx context.Context, id, userID int64) (*TimeEntry, error)
	// List returns the user's entries ordered by start time descending.
	List(ctx context.Context, userID int64, filter TimeEntryFilter) ([]TimeEntry, error)
	Update(ctx context.Context, entry *TimeEntry) error
	Delete(ctx context.Context, id, userID int64) error
	Summary(ctx context.Context, userID int64, filter TimeEntryFilter) (*TimeEntrySummary, error)
}
