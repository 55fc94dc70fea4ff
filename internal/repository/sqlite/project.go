package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"timekeeper/internal/domain"
)

// maxListRows bounds unpaginated list queries. The API exposes no paging
// parameters, so reads are capped instead of unbounded.
const maxListRows = 1000

// ProjectRepository implements domain.ProjectRepository using SQLite.
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new SQLite-backed ProjectRepository.
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db.SqlDB}
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (name, description, status, color, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		project.Name, project.Description, project.Status, project.Color, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	project.ID = id
	project.CreatedAt = now
	project.UpdatedAt = now
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	project := &domain.Project{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, status, color, created_at, updated_at
		 FROM projects WHERE id = ?`, id,
	).Scan(&project.ID, &project.Name, &project.Description, &project.Status,
		&project.Color, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query project by id: %w", err)
	}
	return project, nil
}

func (r *ProjectRepository) List(ctx context.Context, status string) ([]domain.Project, error) {
	query := `SELECT id, name, description, status, color, created_at, updated_at
		 FROM projects`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, maxListRows)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Status,
			&p.Color, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) Stats(ctx context.Context, projectID int64) (*domain.ProjectStats, error) {
	stats := &domain.ProjectStats{}
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(COALESCE(duration, 0)), 0), COUNT(*)
		 FROM time_entries WHERE project_id = ?`, projectID,
	).Scan(&stats.TotalSeconds, &stats.EntryCount)
	if err != nil {
		return nil, fmt.Errorf("query project stats: %w", err)
	}
	return stats, nil
}

func (r *ProjectRepository) StatsAll(ctx context.Context) (map[int64]domain.ProjectStats, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT project_id, COALESCE(SUM(COALESCE(duration, 0)), 0), COUNT(*)
		 FROM time_entries GROUP BY project_id`)
	if err != nil {
		return nil, fmt.Errorf("query project stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[int64]domain.ProjectStats)
	for rows.Next() {
		var projectID int64
		var s domain.ProjectStats
		if err := rows.Scan(&projectID, &s.TotalSeconds, &s.EntryCount); err != nil {
			return nil, fmt.Errorf("scan project stats: %w", err)
		}
		stats[projectID] = s
	}
	return stats, rows.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE projects SET name = ?, description = ?, status = ?, color = ?, updated_at = ?
		 WHERE id = ?`,
		project.Name, project.Description, project.Status, project.Color, now, project.ID,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	project.UpdatedAt = now
	return nil
}

// Delete removes a project. The foreign key cascade removes its time entries
// in the same statement's transaction.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
