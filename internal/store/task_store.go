package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/YardenSamorai/taskos-sync/internal/model"
)

// InsertTask inserts a new task row. If the task has no ID, a new UUID is
// generated.
func (s *SQLiteStore) InsertTask(ctx context.Context, task model.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = now
	}

	var dueDate interface{}
	if task.DueDate != nil {
		dueDate = task.DueDate.UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, workspace_id, title, description, status, priority,
			assignee_id, due_date, metadata, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.WorkspaceID, task.Title, task.Description,
		string(task.Status), string(task.Priority),
		task.AssigneeID, dueDate, task.Metadata.Encode(),
		task.CreatedAt.UTC(), task.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting task %s: %w", task.ID, err)
	}

	return nil
}

// GetTaskByID retrieves a single task by its ID.
func (s *SQLiteStore) GetTaskByID(
	ctx context.Context,
	id string,
) (*model.Task, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM tasks WHERE id = ?", id)

	task, err := scanTaskRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("getting task %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}

	return &task, nil
}

// GetTasks retrieves tasks matching the provided filter options.
func (s *SQLiteStore) GetTasks(
	ctx context.Context,
	opts TaskFilter,
) ([]model.Task, error) {
	var conditions []string
	var args []interface{}

	if opts.WorkspaceID != nil {
		conditions = append(conditions, "workspace_id = ?")
		args = append(args, *opts.WorkspaceID)
	}
	if opts.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, string(*opts.Status))
	}
	if opts.Priority != nil {
		conditions = append(conditions, "priority = ?")
		args = append(args, string(*opts.Priority))
	}
	if opts.AssigneeID != nil {
		conditions = append(conditions, "assignee_id = ?")
		args = append(args, *opts.AssigneeID)
	}
	if opts.Query != nil && *opts.Query != "" {
		conditions = append(conditions, "(title LIKE ? OR description LIKE ?)")
		q := "%" + *opts.Query + "%"
		args = append(args, q, q)
	}

	query := "SELECT * FROM tasks"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	// Determine sort column.
	sortBy := "updated_at"
	if opts.SortBy != "" {
		allowedSorts := map[string]bool{
			"title":      true,
			"status":     true,
			"priority":   true,
			"created_at": true,
			"updated_at": true,
		}
		if allowedSorts[opts.SortBy] {
			sortBy = opts.SortBy
		}
	}

	direction := "ASC"
	if opts.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", sortBy, direction)

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", opts.Offset)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// UpdateTaskMetadata replaces the task's provenance metadata blob.
func (s *SQLiteStore) UpdateTaskMetadata(
	ctx context.Context,
	id string,
	metadata model.ProvenanceMap,
) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET metadata = ?, updated_at = ? WHERE id = ?",
		metadata.Encode(), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating metadata for task %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating metadata for task %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("updating metadata for task %s: %w", id, ErrNotFound)
	}

	return nil
}

// AssignTask sets the task's assignee.
func (s *SQLiteStore) AssignTask(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET assignee_id = ?, updated_at = ? WHERE id = ?",
		userID, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("assigning task %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("assigning task %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("assigning task %s: %w", id, ErrNotFound)
	}

	return nil
}

// scanTask scans a task row from a sqlx.Rows result set.
func scanTask(rows *sqlx.Rows) (model.Task, error) {
	var (
		task      model.Task
		status    string
		priority  string
		dueDate   sql.NullTime
		metadata  string
		createdAt time.Time
		updatedAt time.Time
	)

	err := rows.Scan(
		&task.ID, &task.WorkspaceID, &task.Title, &task.Description,
		&status, &priority, &task.AssigneeID, &dueDate, &metadata,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("scanning task row: %w", err)
	}

	applyTaskFields(&task, status, priority, dueDate, metadata, createdAt, updatedAt)
	return task, nil
}

// scanTaskRow scans a single task row from a sqlx.Row.
func scanTaskRow(row *sqlx.Row) (model.Task, error) {
	var (
		task      model.Task
		status    string
		priority  string
		dueDate   sql.NullTime
		metadata  string
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(
		&task.ID, &task.WorkspaceID, &task.Title, &task.Description,
		&status, &priority, &task.AssigneeID, &dueDate, &metadata,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return model.Task{}, err
	}

	applyTaskFields(&task, status, priority, dueDate, metadata, createdAt, updatedAt)
	return task, nil
}

// applyTaskFields copies scanned column values into the task. Malformed
// metadata decodes to an empty provenance map rather than an error: a task
// with an unreadable blob is simply not linked to any provider.
func applyTaskFields(
	task *model.Task,
	status, priority string,
	dueDate sql.NullTime,
	metadata string,
	createdAt, updatedAt time.Time,
) {
	task.Status = model.Status(status)
	task.Priority = model.Priority(priority)
	if dueDate.Valid {
		d := dueDate.Time
		task.DueDate = &d
	}
	task.Metadata = model.ParseProvenance(metadata)
	task.CreatedAt = createdAt
	task.UpdatedAt = updatedAt
}
