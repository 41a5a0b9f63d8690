package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/YardenSamorai/taskos-sync/internal/model"
)

// AppendActivity inserts a new activity log entry. Entries are append-only;
// no update or delete is exposed.
func (s *SQLiteStore) AppendActivity(
	ctx context.Context,
	entry model.ActivityEntry,
) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	metadataJSON, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("marshaling activity metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO activity_log (
			id, workspace_id, user_id, action, entity_type, entity_id,
			metadata, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.WorkspaceID, entry.UserID,
		entry.Action, entry.EntityType, entry.EntityID,
		string(metadataJSON), entry.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("appending activity entry: %w", err)
	}

	return nil
}

// GetActivity retrieves the most recent activity entries for a workspace,
// newest first.
func (s *SQLiteStore) GetActivity(
	ctx context.Context,
	workspaceID string,
	limit int,
) ([]model.ActivityEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryxContext(ctx, `
		SELECT * FROM activity_log
		WHERE workspace_id = ?
		ORDER BY created_at DESC
		LIMIT ?`,
		workspaceID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying activity log: %w", err)
	}
	defer rows.Close()

	var entries []model.ActivityEntry
	for rows.Next() {
		var (
			entry     model.ActivityEntry
			metadata  string
			createdAt time.Time
		)
		err := rows.Scan(
			&entry.ID, &entry.WorkspaceID, &entry.UserID,
			&entry.Action, &entry.EntityType, &entry.EntityID,
			&metadata, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning activity row: %w", err)
		}

		entry.CreatedAt = createdAt
		if metadata != "" {
			if err := json.Unmarshal([]byte(metadata), &entry.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshaling activity metadata: %w", err)
			}
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
