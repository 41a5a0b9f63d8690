package sync

import (
	"context"
	"fmt"

	"github.com/YardenSamorai/taskos-sync/internal/model"
	"github.com/YardenSamorai/taskos-sync/internal/provider"
)

// PushRequest names the linked task whose fields should be pushed back to
// its remote counterpart.
type PushRequest struct {
	UserID   string
	Provider model.Provider
	TaskID   string
}

// PushStatus pushes the task's scalar fields to the linked remote item,
// then tries to move the item's workflow state to match the task's
// status via the provider's transition protocol.
//
// The field update always runs. The state move is best-effort: when the
// transition listing fails or no transition matches the status keywords,
// the remote item keeps its current state and PushStatus still succeeds.
// A transition that matched but failed to apply is an error.
func (e *Engine) PushStatus(ctx context.Context, req PushRequest) error {
	adapter, _, err := e.adapterFor(ctx, req.UserID, req.Provider)
	if err != nil {
		return err
	}

	task, err := e.store.GetTaskByID(ctx, req.TaskID)
	if err != nil {
		return fmt.Errorf("loading task %s: %w", req.TaskID, err)
	}

	rec, ok := task.Metadata[req.Provider]
	if !ok || rec.RemoteID == "" {
		return provider.ErrNotLinked
	}

	err = adapter.UpdateItem(ctx, rec.ContainerID, rec.RemoteID, provider.UpdateFields{
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
	})
	if err != nil {
		return fmt.Errorf(
			"updating %s item %s: %w", req.Provider, rec.RemoteID, err,
		)
	}

	transitions, err := adapter.ListTransitions(ctx, rec.ContainerID, rec.RemoteID)
	if err != nil {
		e.logger.Warn("listing transitions failed; state not pushed",
			"provider", req.Provider,
			"remote_id", rec.RemoteID,
			"error", err,
		)
		return nil
	}

	match := MatchTransition(task.Status, transitions)
	if match == nil {
		e.logger.Debug("no transition matches status; state not pushed",
			"provider", req.Provider,
			"remote_id", rec.RemoteID,
			"status", task.Status,
		)
		return nil
	}

	err = adapter.ApplyTransition(ctx, rec.ContainerID, rec.RemoteID, match.ID)
	if err != nil {
		return fmt.Errorf(
			"applying transition %q on %s item %s: %w",
			match.Name, req.Provider, rec.RemoteID, err,
		)
	}

	return nil
}
