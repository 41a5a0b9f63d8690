package model

import "time"

// Status is the normalized workflow status of a task.
type Status string

const (
	StatusBacklog    Status = "backlog"
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusReview     Status = "review"
	StatusDone       Status = "done"
)

// Priority is the normalized priority level of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ValidStatus reports whether s is one of the defined status constants.
func ValidStatus(s Status) bool {
	switch s {
	case StatusBacklog, StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the defined priority constants.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task is a work item inside a workspace. Tasks imported from or exported
// to an external tracker carry a provenance record per provider in Metadata.
type Task struct {
	// ID is the internal unique identifier for this task.
	ID string `json:"id"`

	// WorkspaceID is the workspace the task belongs to.
	WorkspaceID string `json:"workspace_id"`

	// Title is the human-readable summary of the task.
	Title string `json:"title"`

	// Description is the full body text, stripped to plain text when the
	// task originates from a provider with rich-text descriptions.
	Description string `json:"description"`

	// Status is the normalized workflow status.
	Status Status `json:"status"`

	// Priority is the normalized priority level.
	Priority Priority `json:"priority"`

	// AssigneeID is the user assigned to the task, if any.
	AssigneeID string `json:"assignee_id,omitempty"`

	// DueDate is the optional due date (date precision).
	DueDate *time.Time `json:"due_date,omitempty"`

	// Metadata maps a provider tag to the provenance record linking this
	// task to a remote item. It is the sole linkage between the two.
	Metadata ProvenanceMap `json:"metadata,omitempty"`

	// CreatedAt is when the task row was created locally.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the task row was last modified locally.
	UpdatedAt time.Time `json:"updated_at"`
}
