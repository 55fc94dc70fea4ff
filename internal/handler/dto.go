package handler

import (
	"math"
	"time"

	"timekeeper/internal/domain"
	"timekeeper/internal/service"
)

// UserDTO is the JSON representation of a user. The password hash is never
// part of it.
type UserDTO struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

// ProjectDTO is the JSON representation of a project. TotalHours and
// EntryCount appear only when stats were requested.
type ProjectDTO struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Color       string   `json:"color"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	TotalHours  *float64 `json:"total_hours,omitempty"`
	EntryCount  *int     `json:"entry_count,omitempty"`
}

func toProjectDTO(p service.ProjectWithStats) ProjectDTO {
	dto := ProjectDTO{
		ID:          p.Project.ID,
		Name:        p.Project.Name,
		Description: p.Project.Description,
		Status:      p.Project.Status,
		Color:       p.Project.Color,
		CreatedAt:   p.Project.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.Project.UpdatedAt.Format(time.RFC3339),
	}
	if p.Stats != nil {
		dto.TotalHours = &p.Stats.TotalHours
		dto.EntryCount = &p.Stats.EntryCount
	}
	return dto
}

func toProjectDTOs(projects []service.ProjectWithStats) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = toProjectDTO(p)
	}
	return dtos
}

// TimeEntryDTO is the JSON representation of a time entry. EndTime,
// Duration, and DurationHours are null while the entry is open.
type TimeEntryDTO struct {
	ID            int64    `json:"id"`
	UserID        int64    `json:"user_id"`
	ProjectID     int64    `json:"project_id"`
	ProjectName   string   `json:"project_name"`
	StartTime     string   `json:"start_time"`
	EndTime       *string  `json:"end_time"`
	Duration      *int64   `json:"duration"`
	DurationHours *float64 `json:"duration_hours"`
	Notes         string   `json:"notes"`
	IsBillable    bool     `json:"is_billable"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

func toTimeEntryDTO(e *domain.TimeEntry) TimeEntryDTO {
	dto := TimeEntryDTO{
		ID:          e.ID,
		UserID:      e.UserID,
		ProjectID:   e.ProjectID,
		ProjectName: e.ProjectName,
		StartTime:   e.StartTime.Format(time.RFC3339),
		Notes:       e.Notes,
		IsBillable:  e.IsBillable,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.Format(time.RFC3339),
	}
	if e.EndTime != nil {
		end := e.EndTime.Format(time.RFC3339)
		dto.EndTime = &end
	}
	if e.Duration != nil {
		dto.Duration = e.Duration
		hours := math.Round(float64(*e.Duration)/3600*100) / 100
		dto.DurationHours = &hours
	}
	return dto
}

func toTimeEntryDTOs(entries []domain.TimeEntry) []TimeEntryDTO {
	dtos := make([]TimeEntryDTO, len(entries))
	for i := range entries {
		dtos[i] = toTimeEntryDTO(&entries[i])
	}
	return dtos
}

// SummaryDTO is the JSON representation of a time entry summary.
type SummaryDTO struct {
	TotalEntries     int     `json:"total_entries"`
	TotalHours       float64 `json:"total_hours"`
	BillableHours    float64 `json:"billable_hours"`
	NonBillableHours float64 `json:"non_billable_hours"`
}

func toSummaryDTO(s *service.Summary) SummaryDTO {
	return SummaryDTO{
		TotalEntries:     s.TotalEntries,
		TotalHours:       s.TotalHours,
		BillableHours:    s.BillableHours,
		NonBillableHours: s.NonBillableHours,
	}
}
