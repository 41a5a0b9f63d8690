package sync

import (
	"context"
	"fmt"

	"github.com/YardenSamorai/taskos-sync/internal/model"
	"github.com/YardenSamorai/taskos-sync/internal/provider"
)

// ExportRequest names the local task to push out as a new remote item.
type ExportRequest struct {
	UserID      string
	Provider    model.Provider
	TaskID      string
	ContainerID string
}

// ExportResult identifies the remote item an export created.
type ExportResult struct {
	RemoteID string
	URL      string
}

// Export creates a remote item from a local task and records the linkage
// in the task's provenance metadata. An existing record for the same
// provider is overwritten; records for other providers are untouched.
func (e *Engine) Export(
	ctx context.Context,
	req ExportRequest,
) (ExportResult, error) {
	adapter, tok, err := e.adapterFor(ctx, req.UserID, req.Provider)
	if err != nil {
		return ExportResult{}, err
	}

	task, err := e.store.GetTaskByID(ctx, req.TaskID)
	if err != nil {
		return ExportResult{}, fmt.Errorf("loading task %s: %w", req.TaskID, err)
	}

	created, err := adapter.CreateItem(ctx, req.ContainerID, provider.CreateFields{
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
	})
	if err != nil {
		return ExportResult{}, fmt.Errorf(
			"creating %s item for task %s: %w", req.Provider, req.TaskID, err,
		)
	}

	record := model.ProvenanceRecord{
		RemoteID:    created.ID,
		RemoteKey:   created.Key,
		ContainerID: req.ContainerID,
		TenantID:    tok.TenantID,
		URL:         created.URL,
	}

	metadata := task.Metadata
	if metadata == nil {
		metadata = model.ProvenanceMap{}
	}
	metadata[req.Provider] = record

	if err := e.store.UpdateTaskMetadata(ctx, task.ID, metadata); err != nil {
		return ExportResult{}, fmt.Errorf(
			"recording provenance on task %s: %w", task.ID, err,
		)
	}

	e.appendActivity(ctx, model.ActivityEntry{
		WorkspaceID: task.WorkspaceID,
		UserID:      req.UserID,
		Action:      model.ActionCreatedIssue(req.Provider),
		EntityType:  model.EntityTypeTask,
		EntityID:    task.ID,
		Metadata:    record,
	})

	return ExportResult{RemoteID: created.ID, URL: created.URL}, nil
}
