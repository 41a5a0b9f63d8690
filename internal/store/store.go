package store

import (
	"context"
	"errors"
	"time"

	"github.com/YardenSamorai/taskos-sync/internal/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// TaskFilter controls filtering, sorting, and pagination for task queries.
type TaskFilter struct {
	WorkspaceID *string
	Status      *model.Status
	Priority    *model.Priority
	AssigneeID  *string
	Query       *string
	SortBy      string // "created_at", "updated_at", "title", "priority", "status"
	SortDesc    bool
	Limit       int
	Offset      int
}

// Store defines the persistence interface for tasks, integrations, and the
// activity log.
type Store interface {
	// === Tasks ===

	InsertTask(ctx context.Context, task model.Task) error
	GetTaskByID(ctx context.Context, id string) (*model.Task, error)
	GetTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error)
	UpdateTaskMetadata(ctx context.Context, id string, metadata model.ProvenanceMap) error
	AssignTask(ctx context.Context, id, userID string) error

	// === Integrations ===

	UpsertIntegration(ctx context.Context, integ model.Integration) (string, error)
	GetIntegration(ctx context.Context, userID string, p model.Provider) (*model.Integration, error)
	SetIntegrationTokens(ctx context.Context, id, accessToken, refreshToken string, expiresAt *time.Time) error
	SetIntegrationActive(ctx context.Context, id string, active bool) error
	DeleteIntegration(ctx context.Context, id string) error

	// === Activity log (append-only) ===

	AppendActivity(ctx context.Context, entry model.ActivityEntry) error
	GetActivity(ctx context.Context, workspaceID string, limit int) ([]model.ActivityEntry, error)
}
