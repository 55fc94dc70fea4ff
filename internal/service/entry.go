package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"timekeeper/internal/domain"
)

// TimeEntryService handles time entry CRUD and aggregation. Every operation
// is scoped to the calling user's id; callers never see other users' entries.
type TimeEntryService struct {
	entries  domain.TimeEntryRepository
	projects domain.ProjectRepository
}

// NewTimeEntryService creates a new TimeEntryService.
func NewTimeEntryService(entries domain.TimeEntryRepository, projects domain.ProjectRepository) *TimeEntryService {
	return &TimeEntryService{entries: entries, projects: projects}
}

// EntryFilter narrows List and Summarize. Date values are raw strings from
// the query and validated here; empty means unset.
type EntryFilter struct {
	ProjectID *int64
	StartDate string
	EndDate   string
	Billable  *bool
}

func (s *TimeEntryService) buildFilter(in EntryFilter) (domain.TimeEntryFilter, error) {
	filter := domain.TimeEntryFilter{ProjectID: in.ProjectID, Billable: in.Billable}
	if in.StartDate != "" {
		t, err := parseTimestamp(in.StartDate)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid start_date format", domain.ErrInvalidInput)
		}
		filter.Start = &t
	}
	if in.EndDate != "" {
		t, err := parseTimestamp(in.EndDate)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid end_date format", domain.ErrInvalidInput)
		}
		filter.End = &t
	}
	return filter, nil
}

// List returns the user's entries newest first, optionally filtered.
func (s *TimeEntryService) List(ctx context.Context, userID int64, in EntryFilter) ([]domain.TimeEntry, error) {
	filter, err := s.buildFilter(in)
	if err != nil {
		return nil, err
	}
	return s.entries.List(ctx, userID, filter)
}

// Get returns one of the user's entries.
func (s *TimeEntryService) Get(ctx context.Context, userID, id int64) (*domain.TimeEntry, error) {
	return s.entries.GetByID(ctx, id, userID)
}

// CreateEntryInput carries the fields for logging a time entry. StartTime
// and EndTime are raw timestamp strings; IsBillable defaults to true when
// absent.
type CreateEntryInput struct {
	ProjectID  int64
	StartTime  string
	EndTime    string
	Notes      string
	IsBillable *bool
}

// Create validates and persists a new entry for the user, computing the
// duration immediately when an end time is supplied.
func (s *TimeEntryService) Create(ctx context.Context, userID int64, in CreateEntryInput) (*domain.TimeEntry, error) {
	if in.ProjectID == 0 || in.StartTime == "" {
		return nil, fmt.Errorf("%w: project_id and start_time are required", domain.ErrInvalidInput)
	}

	// Referential integrity: the project must exist before anything is
	// written.
	if _, err := s.projects.GetByID(ctx, in.ProjectID); err != nil {
		return nil, err
	}

	start, err := parseTimestamp(in.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start_time format", domain.ErrInvalidInput)
	}

	entry := &domain.TimeEntry{
		UserID:     userID,
		ProjectID:  in.ProjectID,
		StartTime:  start,
		Notes:      in.Notes,
		IsBillable: true,
	}
	if in.IsBillable != nil {
		entry.IsBillable = *in.IsBillable
	}
	if in.EndTime != "" {
		end, err := parseTimestamp(in.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid end_time format", domain.ErrInvalidInput)
		}
		entry.EndTime = &end
	}
	entry.ComputeDuration()

	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}

	// Reload through the read path so the response carries the project name.
	created, err := s.entries.GetByID(ctx, entry.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("reload entry: %w", err)
	}
	return created, nil
}

// EntryPatch carries a partial update; nil fields are left unchanged.
type EntryPatch struct {
	ProjectID  *int64
	StartTime  *string
	EndTime    *string
	Notes      *string
	IsBillable *bool
}

// Update applies the non-nil patch fields to one of the user's entries,
// re-validating the project reference when it changes and recomputing the
// duration whenever an end time is present afterwards.
func (s *TimeEntryService) Update(ctx context.Context, userID, id int64, patch EntryPatch) (*domain.TimeEntry, error) {
	entry, err := s.entries.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if patch.ProjectID != nil {
		if _, err := s.projects.GetByID(ctx, *patch.ProjectID); err != nil {
			return nil, err
		}
		entry.ProjectID = *patch.ProjectID
	}
	if patch.StartTime != nil {
		start, err := parseTimestamp(*patch.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid start_time format", domain.ErrInvalidInput)
		}
		entry.StartTime = start
	}
	if patch.EndTime != nil {
		end, err := parseTimestamp(*patch.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid end_time format", domain.ErrInvalidInput)
		}
		entry.EndTime = &end
	}
	if patch.Notes != nil {
		entry.Notes = *patch.Notes
	}
	if patch.IsBillable != nil {
		entry.IsBillable = *patch.IsBillable
	}

	entry.ComputeDuration()

	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, err
	}

	updated, err := s.entries.GetByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("reload entry: %w", err)
	}
	return updated, nil
}

// Delete removes one of the user's entries.
func (s *TimeEntryService) Delete(ctx context.Context, userID, id int64) error {
	return s.entries.Delete(ctx, id, userID)
}

// Summary is the aggregate over a user's matching entries, in hours rounded
// to 2 decimals. Open entries contribute 0.
type Summary struct {
	TotalEntries     int
	TotalHours       float64
	BillableHours    float64
	NonBillableHours float64
}

// Summarize aggregates the user's entries matching the filter.
func (s *TimeEntryService) Summarize(ctx context.Context, userID int64, in EntryFilter) (*Summary, error) {
	filter, err := s.buildFilter(in)
	if err != nil {
		return nil, err
	}

	agg, err := s.entries.Summary(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	return &Summary{
		TotalEntries:     agg.TotalEntries,
		TotalHours:       secondsToHours(agg.TotalSeconds),
		BillableHours:    secondsToHours(agg.BillableSeconds),
		NonBillableHours: secondsToHours(agg.TotalSeconds - agg.BillableSeconds),
	}, nil
}

// timestampLayouts are accepted in order: RFC 3339 (trailing Z marks UTC),
// a zoneless timestamp taken as UTC, and a bare date.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

var errBadTimestamp = errors.New("unrecognized timestamp")

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errBadTimestamp
}
