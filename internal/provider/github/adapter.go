package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/YardenSamorai/taskos-sync/internal/model"
	"github.com/YardenSamorai/taskos-sync/internal/provider"
)

// Synthetic transition ids. GitHub has no workflow graph, so the adapter
// models the open/closed pair as a two-node graph to keep the
// discover-then-apply protocol uniform across providers.
const (
	transitionClose  = "close"
	transitionReopen = "reopen"
)

// Adapter implements provider.Adapter for GitHub issues. Containers are
// "owner/repo" slugs; item ids are issue numbers.
type Adapter struct {
	client *Client
}

// NewAdapter creates a new GitHub adapter.
func NewAdapter(token string) *Adapter {
	return &Adapter{client: NewClient(token)}
}

// Provider returns the provider tag for GitHub.
func (a *Adapter) Provider() model.Provider {
	return model.ProviderGitHub
}

// ListContainers lists the repositories under an organization, or the
// token's own repositories when org is empty.
func (a *Adapter) ListContainers(
	ctx context.Context,
	org string,
) ([]provider.Container, error) {
	path := "/user/repos?per_page=100&sort=updated"
	if org != "" {
		path = fmt.Sprintf("/orgs/%s/repos?per_page=100&sort=updated", org)
	}

	var repos []Repo
	if err := a.client.Get(ctx, path, &repos); err != nil {
		return nil, fmt.Errorf("listing GitHub repositories: %w", err)
	}

	containers := make([]provider.Container, 0, len(repos))
	for _, r := range repos {
		containers = append(containers, provider.Container{
			ID:   r.FullName,
			Name: r.Name,
			URL:  r.HTMLURL,
		})
	}

	return containers, nil
}

// ListItems retrieves a capped issue listing for the repository. Pull
// requests share the issues endpoint and are filtered out.
func (a *Adapter) ListItems(
	ctx context.Context,
	container string,
	f provider.ListFilter,
) ([]provider.Item, error) {
	limit := provider.ClampLimit(f.Limit)

	var issues []Issue
	if f.Query != "" {
		q := fmt.Sprintf("repo:%s is:issue %s", container, f.Query)
		if f.State != "" {
			q += " state:" + f.State
		}
		path := fmt.Sprintf(
			"/search/issues?q=%s&per_page=%d", url.QueryEscape(q), limit,
		)
		var resp SearchResponse
		if err := a.client.Get(ctx, path, &resp); err != nil {
			return nil, fmt.Errorf("searching GitHub issues: %w", err)
		}
		issues = resp.Items
	} else {
		state := f.State
		if state == "" {
			state = "open"
		}
		path := fmt.Sprintf(
			"/repos/%s/issues?state=%s&per_page=%d", container, state, limit,
		)
		if err := a.client.Get(ctx, path, &issues); err != nil {
			return nil, fmt.Errorf("listing GitHub issues: %w", err)
		}
	}

	items := make([]provider.Item, 0, len(issues))
	for _, issue := range issues {
		if issue.PullRequest != nil {
			continue
		}
		number := strconv.Itoa(issue.Number)
		items = append(items, provider.Item{
			ID:        number,
			Key:       "#" + number,
			Title:     issue.Title,
			State:     issue.State,
			URL:       issue.HTMLURL,
			UpdatedAt: issue.UpdatedAt,
		})
	}

	return items, nil
}

// GetItem retrieves one issue in full detail. GitHub bodies are Markdown
// and are stored as-is; there is no rich-text format to strip.
func (a *Adapter) GetItem(
	ctx context.Context,
	container, id string,
) (*provider.ItemDetail, error) {
	path := fmt.Sprintf("/repos/%s/issues/%s", container, id)

	var issue Issue
	if err := a.client.Get(ctx, path, &issue); err != nil {
		return nil, fmt.Errorf("fetching GitHub issue %s/%s: %w", container, id, err)
	}

	number := strconv.Itoa(issue.Number)
	return &provider.ItemDetail{
		ID:          number,
		Key:         "#" + number,
		Title:       issue.Title,
		Description: strings.TrimSpace(issue.Body),
		Status:      MapStatus(issue.State, issue.Labels),
		Priority:    MapPriority(issue.Labels),
		URL:         issue.HTMLURL,
	}, nil
}

// CreateItem opens a new issue in the repository. The internal priority is
// carried as a label; GitHub has no due-date field, so due dates are not
// pushed.
func (a *Adapter) CreateItem(
	ctx context.Context,
	container string,
	f provider.CreateFields,
) (*provider.CreatedItem, error) {
	payload := map[string]interface{}{
		"title":  f.Title,
		"body":   f.Description,
		"labels": []string{PriorityLabel(f.Priority)},
	}

	var issue Issue
	path := fmt.Sprintf("/repos/%s/issues", container)
	if err := a.client.Post(ctx, path, payload, &issue); err != nil {
		return nil, fmt.Errorf("creating GitHub issue in %s: %w", container, err)
	}

	number := strconv.Itoa(issue.Number)
	return &provider.CreatedItem{
		ID:  number,
		Key: "#" + number,
		URL: issue.HTMLURL,
	}, nil
}

// UpdateItem patches the issue's title, body, and priority label. State is
// left to the transition protocol.
func (a *Adapter) UpdateItem(
	ctx context.Context,
	container, id string,
	f provider.UpdateFields,
) error {
	// Replace only priority labels, preserving the rest.
	path := fmt.Sprintf("/repos/%s/issues/%s", container, id)

	var current Issue
	if err := a.client.Get(ctx, path, &current); err != nil {
		return fmt.Errorf("fetching GitHub issue %s/%s: %w", container, id, err)
	}

	labels := []string{PriorityLabel(f.Priority)}
	for _, l := range current.Labels {
		if !strings.HasPrefix(strings.ToLower(l.Name), "priority:") {
			labels = append(labels, l.Name)
		}
	}

	payload := map[string]interface{}{
		"title":  f.Title,
		"body":   f.Description,
		"labels": labels,
	}

	if err := a.client.Patch(ctx, path, payload, nil); err != nil {
		return fmt.Errorf("updating GitHub issue %s/%s: %w", container, id, err)
	}

	return nil
}

// ListTransitions synthesizes the valid state changes for the issue from
// its current open/closed state.
func (a *Adapter) ListTransitions(
	ctx context.Context,
	container, id string,
) ([]provider.Transition, error) {
	path := fmt.Sprintf("/repos/%s/issues/%s", container, id)

	var issue Issue
	if err := a.client.Get(ctx, path, &issue); err != nil {
		return nil, fmt.Errorf("fetching GitHub issue %s/%s: %w", container, id, err)
	}

	if strings.EqualFold(issue.State, "closed") {
		return []provider.Transition{
			{ID: transitionReopen, Name: "Reopen", TargetState: "Open"},
		}, nil
	}
	return []provider.Transition{
		{ID: transitionClose, Name: "Close", TargetState: "Closed"},
	}, nil
}

// ApplyTransition performs a synthetic transition by patching the issue
// state.
func (a *Adapter) ApplyTransition(
	ctx context.Context,
	container, id, transitionID string,
) error {
	var payload map[string]interface{}
	switch transitionID {
	case transitionClose:
		payload = map[string]interface{}{
			"state": "closed", "state_reason": "completed",
		}
	case transitionReopen:
		payload = map[string]interface{}{
			"state": "open", "state_reason": "reopened",
		}
	default:
		return fmt.Errorf("unknown transition %q for issue %s/%s", transitionID, container, id)
	}

	path := fmt.Sprintf("/repos/%s/issues/%s", container, id)
	if err := a.client.Patch(ctx, path, payload, nil); err != nil {
		return fmt.Errorf("applying transition %s to %s/%s: %w", transitionID, container, id, err)
	}

	return nil
}
