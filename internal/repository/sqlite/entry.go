package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"timekeeper/internal/domain"
)

// TimeEntryRepository implements domain.TimeEntryRepository using SQLite.
type TimeEntryRepository struct {
	db *sql.DB
}

// NewTimeEntryRepository creates a new SQLite-backed TimeEntryRepository.
func NewTimeEntryRepository(db *DB) *TimeEntryRepository {
	return &TimeEntryRepository{db: db.SqlDB}
}

func (r *TimeEntryRepository) Create(ctx context.Context, entry *domain.TimeEntry) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO time_entries (user_id, project_id, start_time, end_time, duration, notes, is_billable, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.UserID, entry.ProjectID, entry.StartTime, entry.EndTime,
		entry.Duration, entry.Notes, entry.IsBillable, now, now,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert time entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	entry.ID = id
	entry.CreatedAt = now
	entry.UpdatedAt = now
	return nil
}

func (r *TimeEntryRepository) GetByID(ctx context.Context, id, userID int64) (*domain.TimeEntry, error) {
	e := &domain.TimeEntry{}
	err := r.db.QueryRowContext(ctx,
		`SELECT e.id, e.user_id, e.project_id, e.start_time, e.end_time, e.duration,
		 e.notes, e.is_billable, e.created_at, e.updated_at, p.name
		 FROM time_entries e
		 JOIN projects p ON p.id = e.project_id
		 WHERE e.id = ? AND e.user_id = ?`, id, userID,
	).Scan(&e.ID, &e.UserID, &e.ProjectID, &e.StartTime, &e.EndTime, &e.Duration,
		&e.Notes, &e.IsBillable, &e.CreatedAt, &e.UpdatedAt, &e.ProjectName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query time entry: %w", err)
	}
	return e, nil
}

func (r *TimeEntryRepository) List(ctx context.Context, userID int64, filter domain.TimeEntryFilter) ([]domain.TimeEntry, error) {
	query := `SELECT e.id, e.user_id, e.project_id, e.start_time, e.end_time, e.duration,
		 e.notes, e.is_billable, e.created_at, e.updated_at, p.name
		 FROM time_entries e
		 JOIN projects p ON p.id = e.project_id
		 WHERE e.user_id = ?`
	args := []any{userID}
	query, args = applyEntryFilter(query, args, filter)
	query += ` ORDER BY e.start_time DESC, e.id DESC LIMIT ?`
	args = append(args, maxListRows)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query time entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.TimeEntry
	for rows.Next() {
		var e domain.TimeEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.ProjectID, &e.StartTime, &e.EndTime, &e.Duration,
			&e.Notes, &e.IsBillable, &e.CreatedAt, &e.UpdatedAt, &e.ProjectName); err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *TimeEntryRepository) Update(ctx context.Context, entry *domain.TimeEntry) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE time_entries SET project_id = ?, start_time = ?, end_time = ?,
		 duration = ?, notes = ?, is_billable = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		entry.ProjectID, entry.StartTime, entry.EndTime, entry.Duration,
		entry.Notes, entry.IsBillable, now, entry.ID, entry.UserID,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update time entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	entry.UpdatedAt = now
	return nil
}

func (r *TimeEntryRepository) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM time_entries WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete time entry: %w", err)
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

func (r *TimeEntryRepository) Summary(ctx context.Context, userID int64, filter domain.TimeEntryFilter) (*domain.TimeEntrySummary, error) {
	query := `SELECT COUNT(*),
		 COALESCE(SUM(COALESCE(duration, 0)), 0),
		 COALESCE(SUM(CASE WHEN is_billable THEN COALESCE(duration, 0) ELSE 0 END), 0)
		 FROM time_entries e WHERE e.user_id = ?`
	args := []any{userID}
	query, args = applyEntryFilter(query, args, filter)

	summary := &domain.TimeEntrySummary{}
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&summary.TotalEntries, &summary.TotalSeconds, &summary.BillableSeconds)
	if err != nil {
		return nil, fmt.Errorf("query time entry summary: %w", err)
	}
	return summary, nil
}

// applyEntryFilter appends WHERE clauses for the optional filter fields.
// Date bounds are inclusive on start_time.
func applyEntryFilter(query string, args []any, filter domain.TimeEntryFilter) (string, []any) {
	if filter.ProjectID != nil {
		query += ` AND e.project_id = ?`
		args = append(args, *filter.ProjectID)
	}
	if filter.Start != nil {
		query += ` AND e.start_time >= ?`
		args = append(args, *filter.Start)
	}
	if filter.End != nil {
		query += ` AND e.start_time <= ?`
		args = append(args, *filter.End)
	}
	if filter.Billable != nil {
		query += ` AND e.is_billable = ?`
		args = append(args, *filter.Billable)
	}
	return query, args
}

// isForeignKeyError checks for a SQLite foreign key violation, raised when
// an entry references a project or user that does not exist.
func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
