package domain

import (
	"context"
	"time"
)

// Project groups time entries for reporting.
type Project struct {
	ID          int64
	Name        string
	Description string
	Status      string
	Color       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const (
	ProjectStatusActive    = "active"
	ProjectStatusArchived  = "archived"
	ProjectStatusCompleted = "completed"
)

// DefaultProjectColor is the hex color assigned when a project is created
// without one.
const DefaultProjectColor = "#3B82F6"

// ProjectStats aggregates the time entries associated with a project.
// TotalSeconds sums entry durations, counting open entries as 0.
type ProjectStats struct {
	TotalSeconds int64
	EntryCount   int
}

// ProjectPatch carries a partial update; nil fields are left unchanged.
type ProjectPatch struct {
	Name        *string
	Description *string
	Status      *string
	Color       *string
}

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, id int64) (*Project, error)
	// List returns projects ordered by creation time descending,
	// optionally filtered by status (empty string means all).
	List(ctx context.Context, status string) ([]Project, error)
	// Stats returns aggregates for a single project.
	Stats(ctx context.Context, projectID int64) (*ProjectStats, error)
	// StatsAll returns aggregates keyed by project id for every project
	// that has at least one time entry.
	StatsAll(ctx context.Context) (map[int64]ProjectStats, error)
	Update(ctx context.Context, project *Project) error
	// Delete removes the project; associated time entries are removed with it.
	Delete(ctx context.Context, id int64) error
}
