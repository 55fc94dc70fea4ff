package service

import (
	"context"
	"fmt"
	"math"

	"timekeeper/internal/domain"
)

// ProjectService handles project CRUD and aggregate statistics.
type ProjectService struct {
	projects domain.ProjectRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projects domain.ProjectRepository) *ProjectService {
	return &ProjectService{projects: projects}
}

// ProjectStats is a project's aggregates in reporting units.
type ProjectStats struct {
	TotalHours float64
	EntryCount int
}

// ProjectWithStats pairs a project with its optional aggregates.
type ProjectWithStats struct {
	Project domain.Project
	Stats   *ProjectStats
}

// List returns all projects newest first, optionally filtered by status and
// enriched with per-project totals.
func (s *ProjectService) List(ctx context.Context, status string, includeStats bool) ([]ProjectWithStats, error) {
	projects, err := s.projects.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	var statsByID map[int64]domain.ProjectStats
	if includeStats {
		statsByID, err = s.projects.StatsAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("aggregate project stats: %w", err)
		}
	}

	result := make([]ProjectWithStats, len(projects))
	for i, p := range projects {
		result[i] = ProjectWithStats{Project: p}
		if includeStats {
			st := statsByID[p.ID] // zero value for projects with no entries
			result[i].Stats = &ProjectStats{
				TotalHours: secondsToHours(st.TotalSeconds),
				EntryCount: st.EntryCount,
			}
		}
	}
	return result, nil
}

// Get returns a single project, optionally with its aggregates.
func (s *ProjectService) Get(ctx context.Context, id int64, includeStats bool) (*ProjectWithStats, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &ProjectWithStats{Project: *project}
	if includeStats {
		st, err := s.projects.Stats(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("aggregate project stats: %w", err)
		}
		result.Stats = &ProjectStats{
			TotalHours: secondsToHours(st.TotalSeconds),
			EntryCount: st.EntryCount,
		}
	}
	return result, nil
}

// CreateProjectInput carries the fields for creating a project. Status and
// color fall back to defaults when empty.
type CreateProjectInput struct {
	Name        string
	Description string
	Status      string
	Color       string
}

// Create validates and persists a new project.
func (s *ProjectService) Create(ctx context.Context, in CreateProjectInput) (*domain.Project, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: project name is required", domain.ErrInvalidInput)
	}
	if in.Status == "" {
		in.Status = domain.ProjectStatusActive
	}
	if in.Color == "" {
		in.Color = domain.DefaultProjectColor
	}

	project := &domain.Project{
		Name:        in.Name,
		Description: in.Description,
		Status:      in.Status,
		Color:       in.Color,
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return project, nil
}

// Update applies the non-nil patch fields to an existing project.
func (s *ProjectService) Update(ctx context.Context, id int64, patch domain.ProjectPatch) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, fmt.Errorf("%w: project name is required", domain.ErrInvalidInput)
		}
		project.Name = *patch.Name
	}
	if patch.Description != nil {
		project.Description = *patch.Description
	}
	if patch.Status != nil {
		project.Status = *patch.Status
	}
	if patch.Color != nil {
		project.Color = *patch.Color
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes a project and, by cascade, all of its time entries.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	return s.projects.Delete(ctx, id)
}

// secondsToHours converts a duration sum to hours rounded to 2 decimals.
func secondsToHours(seconds int64) float64 {
	return math.Round(float64(seconds)/3600*100) / 100
}
