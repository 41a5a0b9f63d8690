package model

import (
	"fmt"
	"time"
)

// Activity action names recorded by the sync engines.
const (
	EntityTypeTask = "task"
)

// ActionImported returns the activity action for an import from p.
func ActionImported(p Provider) string {
	return fmt.Sprintf("imported_from_%s", p)
}

// ActionCreatedIssue returns the activity action for a remote item created
// from a local task.
func ActionCreatedIssue(p Provider) string {
	return fmt.Sprintf("created_%s_issue", p)
}

// ActivityEntry is one append-only audit record. Entries are never mutated
// or deleted by the sync subsystem.
type ActivityEntry struct {
	// ID is the internal unique identifier for this entry.
	ID string `json:"id"`

	// WorkspaceID is the workspace the action happened in.
	WorkspaceID string `json:"workspace_id"`

	// UserID is the user who performed the action.
	UserID string `json:"user_id"`

	// Action names what happened (see ActionImported, ActionCreatedIssue).
	Action string `json:"action"`

	// EntityType is the kind of entity acted on (always "task" here).
	EntityType string `json:"entity_type"`

	// EntityID is the id of the affected entity.
	EntityID string `json:"entity_id"`

	// Metadata carries the provenance fields of the sync action for audit.
	Metadata ProvenanceRecord `json:"metadata"`

	// CreatedAt is when the entry was recorded.
	CreatedAt time.Time `json:"created_at"`
}
