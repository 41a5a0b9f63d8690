// Package provider defines the uniform capability set every external
// issue-tracker adapter implements, plus the error taxonomy shared by the
// sync engines.
package provider

import (
	"context"
	"time"

	"github.com/YardenSamorai/taskos-sync/internal/model"
)

// maxListItems caps how many items a single ListItems call may return.
const MaxListItems = 100

// Container is a provider-specific grouping unit for items: a repository,
// a Jira project, or a DevOps project.
type Container struct {
	// ID is the identifier used in API calls (e.g. "owner/repo", "PROJ").
	ID string

	// Name is the display name.
	Name string

	// URL is the browse link to the container, when available.
	URL string
}

// ListFilter narrows a ListItems call.
type ListFilter struct {
	// State filters by remote state vocabulary ("open", "Active", ...).
	// Empty means the provider's default listing.
	State string

	// Query is a free-text search term.
	Query string

	// Limit caps the result size; values outside (0, MaxListItems] are
	// clamped to MaxListItems.
	Limit int
}

// Item is a field-truncated listing entry. List responses omit bodies on
// every provider, so an Item is never enough to import from; use GetItem.
type Item struct {
	ID        string
	Key       string
	Title     string
	State     string
	URL       string
	UpdatedAt time.Time
}

// ItemDetail is a full item fetch with fields already normalized to the
// internal vocabulary and the description stripped to plain text.
type ItemDetail struct {
	ID          string
	Key         string
	Title       string
	Description string
	Status      model.Status
	Priority    model.Priority
	DueDate     *time.Time
	URL         string
}

// CreateFields are the writable fields for a new remote item.
type CreateFields struct {
	Title       string
	Description string
	Priority    model.Priority
	DueDate     *time.Time
}

// UpdateFields are the writable scalar fields for a remote item update.
// Workflow state is never changed here; use the transition protocol.
type UpdateFields struct {
	Title       string
	Description string
	Priority    model.Priority
	DueDate     *time.Time
}

// CreatedItem identifies a freshly created remote item.
type CreatedItem struct {
	ID  string
	Key string
	URL string
}

// Transition is one edge in the provider's workflow-state graph.
type Transition struct {
	// ID is the identifier passed to ApplyTransition.
	ID string

	// Name is the transition's display name.
	Name string

	// TargetState is the name of the state the transition leads to.
	TargetState string
}

// Adapter is the uniform capability set over one provider's REST API.
// Implementations are bound to a single authenticated principal and tenant.
type Adapter interface {
	// Provider returns the provider tag this adapter serves.
	Provider() model.Provider

	// ListContainers lists the projects/repositories visible under org.
	ListContainers(ctx context.Context, org string) ([]Container, error)

	// ListItems retrieves a capped, field-truncated listing from container.
	ListItems(ctx context.Context, container string, f ListFilter) ([]Item, error)

	// GetItem fetches one item in full detail. Required before import.
	GetItem(ctx context.Context, container, id string) (*ItemDetail, error)

	// CreateItem creates a remote item and returns its identifier and
	// browse URL.
	CreateItem(ctx context.Context, container string, f CreateFields) (*CreatedItem, error)

	// UpdateItem patches scalar fields without touching workflow state.
	UpdateItem(ctx context.Context, container, id string, f UpdateFields) error

	// ListTransitions returns the state transitions currently valid for
	// the item.
	ListTransitions(ctx context.Context, container, id string) ([]Transition, error)

	// ApplyTransition performs one previously discovered transition.
	ApplyTransition(ctx context.Context, container, id, transitionID string) error
}

// ClampLimit normalizes a requested listing size to (0, MaxListItems].
func ClampLimit(limit int) int {
	if limit <= 0 || limit > MaxListItems {
		return MaxListItems
	}
	return limit
}
