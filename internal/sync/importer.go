package sync

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/YardenSamorai/taskos-sync/internal/model"
)

// ImportRequest names the remote items to pull into a workspace.
type ImportRequest struct {
	UserID      string
	WorkspaceID string
	Provider    model.Provider
	ContainerID string
	RemoteIDs   []string
}

// ImportResult reports how many tasks an import created.
type ImportResult struct {
	Imported int
}

// Import pulls the requested remote items into the workspace as local
// tasks, one provenance record each. Items are processed sequentially in
// request order. A failure on one item is logged and skipped; the rest
// of the batch continues. Items are always refetched in full, so a stale
// listing on the caller's side cannot import truncated fields.
//
// Re-importing an already linked item creates a second task; callers are
// expected to not re-request ids they already hold.
func (e *Engine) Import(
	ctx context.Context,
	req ImportRequest,
) (ImportResult, error) {
	adapter, tok, err := e.adapterFor(ctx, req.UserID, req.Provider)
	if err != nil {
		return ImportResult{}, err
	}

	var result ImportResult
	for _, remoteID := range req.RemoteIDs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		detail, err := adapter.GetItem(ctx, req.ContainerID, remoteID)
		if err != nil {
			e.logger.Warn("skipping item: fetch failed",
				"provider", req.Provider,
				"container", req.ContainerID,
				"remote_id", remoteID,
				"error", err,
			)
			continue
		}

		task := model.Task{
			ID:          uuid.NewString(),
			WorkspaceID: req.WorkspaceID,
			Title:       detail.Title,
			Description: detail.Description,
			Status:      detail.Status,
			Priority:    detail.Priority,
			DueDate:     detail.DueDate,
			Metadata: model.ProvenanceMap{
				req.Provider: {
					RemoteID:    detail.ID,
					RemoteKey:   detail.Key,
					ContainerID: req.ContainerID,
					TenantID:    tok.TenantID,
					URL:         detail.URL,
				},
			},
		}

		if err := e.store.InsertTask(ctx, task); err != nil {
			return result, fmt.Errorf("inserting imported task: %w", err)
		}

		// Assignment is best-effort; the task is already imported.
		if err := e.store.AssignTask(ctx, task.ID, req.UserID); err != nil {
			e.logger.Warn("assigning imported task failed",
				"task_id", task.ID, "error", err,
			)
		}

		e.appendActivity(ctx, model.ActivityEntry{
			WorkspaceID: req.WorkspaceID,
			UserID:      req.UserID,
			Action:      model.ActionImported(req.Provider),
			EntityType:  model.EntityTypeTask,
			EntityID:    task.ID,
			Metadata:    task.Metadata[req.Provider],
		})

		result.Imported++
	}

	return result, nil
}

// appendActivity records an audit entry; failures are logged only, the
// sync operation itself already succeeded.
func (e *Engine) appendActivity(ctx context.Context, entry model.ActivityEntry) {
	if err := e.store.AppendActivity(ctx, entry); err != nil {
		e.logger.Warn("recording activity failed",
			"action", entry.Action,
			"entity_id", entry.EntityID,
			"error", err,
		)
	}
}
