package jira

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/YardenSamorai/taskos-sync/internal/model"
	"github.com/YardenSamorai/taskos-sync/internal/provider"
)

// dueDateLayout is the calendar-date format Jira uses for duedate fields.
const dueDateLayout = "2006-01-02"

// listFields are the Jira fields requested during list queries. List
// responses deliberately omit description; import always refetches.
var listFields = []string{"summary", "status", "updated"}

// detailFields are the fields requested for a full item fetch.
var detailFields = "summary,description,status,priority,duedate"

// Adapter implements provider.Adapter for Jira Cloud.
type Adapter struct {
	client  *Client
	siteURL string
}

// NewAdapter creates a Jira Cloud adapter bound to one cloud instance.
// siteURL is the instance's browse base (e.g. https://acme.atlassian.net)
// used to construct links; it may be empty, in which case API self links
// are returned instead.
func NewAdapter(cloudID, siteURL, token string) *Adapter {
	return &Adapter{
		client:  NewClient(cloudID, token),
		siteURL: strings.TrimRight(siteURL, "/"),
	}
}

// Provider returns the provider tag for Jira.
func (a *Adapter) Provider() model.Provider {
	return model.ProviderJira
}

// ListContainers lists the Jira projects visible to the token. The org
// argument acts as an optional name filter; the cloud instance itself is
// already fixed by the client.
func (a *Adapter) ListContainers(
	ctx context.Context,
	org string,
) ([]provider.Container, error) {
	path := "/rest/api/3/project/search?maxResults=100"
	if org != "" {
		path += "&query=" + url.QueryEscape(org)
	}

	var resp ProjectSearchResponse
	if err := a.client.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("listing Jira projects: %w", err)
	}

	containers := make([]provider.Container, 0, len(resp.Values))
	for _, p := range resp.Values {
		containers = append(containers, provider.Container{
			ID:   p.Key,
			Name: p.Name,
			URL:  a.browseURL("/browse/" + p.Key),
		})
	}

	return containers, nil
}

// ListItems retrieves a capped page of issues in the given project.
func (a *Adapter) ListItems(
	ctx context.Context,
	container string,
	f provider.ListFilter,
) ([]provider.Item, error) {
	jql := fmt.Sprintf("project = %q", container)
	if f.State != "" {
		jql += fmt.Sprintf(" AND status = %q", f.State)
	}
	if f.Query != "" {
		jql += fmt.Sprintf(` AND text ~ "%s"`, escapeJQL(f.Query))
	}
	jql += " ORDER BY updated DESC"

	body := map[string]interface{}{
		"jql":        jql,
		"fields":     listFields,
		"maxResults": provider.ClampLimit(f.Limit),
	}

	var resp SearchResponse
	if err := a.client.Post(ctx, "/rest/api/3/search", body, &resp); err != nil {
		return nil, fmt.Errorf("listing Jira issues: %w", err)
	}

	items := make([]provider.Item, 0, len(resp.Issues))
	for _, issue := range resp.Issues {
		items = append(items, provider.Item{
			ID:        issue.ID,
			Key:       issue.Key,
			Title:     issue.Fields.Summary,
			State:     issue.Fields.Status.Name,
			URL:       a.issueURL(issue),
			UpdatedAt: parseJiraTime(issue.Fields.Updated),
		})
	}

	return items, nil
}

// GetItem retrieves one issue in full detail, with the ADF description
// flattened to plain text and fields mapped to the internal vocabulary.
func (a *Adapter) GetItem(
	ctx context.Context,
	container, id string,
) (*provider.ItemDetail, error) {
	path := fmt.Sprintf("/rest/api/3/issue/%s?fields=%s", id, detailFields)

	var issue Issue
	if err := a.client.Get(ctx, path, &issue); err != nil {
		return nil, fmt.Errorf("fetching Jira issue %s: %w", id, err)
	}

	detail := &provider.ItemDetail{
		ID:          issue.ID,
		Key:         issue.Key,
		Title:       issue.Fields.Summary,
		Description: FlattenADF(issue.Fields.Description),
		Status:      MapStatus(issue.Fields.Status),
		Priority:    MapPriority(issue.Fields.Priority),
		URL:         a.issueURL(issue),
	}

	if issue.Fields.DueDate != "" {
		if due, err := time.Parse(dueDateLayout, issue.Fields.DueDate); err == nil {
			detail.DueDate = &due
		}
	}

	return detail, nil
}

// CreateItem creates a new issue of type Task in the given project.
func (a *Adapter) CreateItem(
	ctx context.Context,
	container string,
	f provider.CreateFields,
) (*provider.CreatedItem, error) {
	fields := map[string]interface{}{
		"project":   map[string]string{"key": container},
		"issuetype": map[string]string{"name": "Task"},
		"summary":   f.Title,
		"priority":  map[string]string{"name": RemotePriority(f.Priority)},
	}
	if f.Description != "" {
		fields["description"] = TextToADF(f.Description)
	}
	if f.DueDate != nil {
		fields["duedate"] = f.DueDate.Format(dueDateLayout)
	}

	var created CreatedIssue
	err := a.client.Post(
		ctx, "/rest/api/3/issue",
		map[string]interface{}{"fields": fields},
		&created,
	)
	if err != nil {
		return nil, fmt.Errorf("creating Jira issue: %w", err)
	}

	return &provider.CreatedItem{
		ID:  created.ID,
		Key: created.Key,
		URL: a.browseOrSelf(created.Key, created.Self),
	}, nil
}

// UpdateItem patches the issue's scalar fields. Workflow state is left to
// the transition protocol.
func (a *Adapter) UpdateItem(
	ctx context.Context,
	container, id string,
	f provider.UpdateFields,
) error {
	fields := map[string]interface{}{
		"summary":  f.Title,
		"priority": map[string]string{"name": RemotePriority(f.Priority)},
	}
	if f.Description != "" {
		fields["description"] = TextToADF(f.Description)
	}
	if f.DueDate != nil {
		fields["duedate"] = f.DueDate.Format(dueDateLayout)
	}

	path := fmt.Sprintf("/rest/api/3/issue/%s", id)
	err := a.client.Put(
		ctx, path, map[string]interface{}{"fields": fields}, nil,
	)
	if err != nil {
		return fmt.Errorf("updating Jira issue %s: %w", id, err)
	}

	return nil
}

// ListTransitions returns the transitions currently valid for the issue.
func (a *Adapter) ListTransitions(
	ctx context.Context,
	container, id string,
) ([]provider.Transition, error) {
	path := fmt.Sprintf("/rest/api/3/issue/%s/transitions", id)

	var resp TransitionsResponse
	if err := a.client.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetching transitions for %s: %w", id, err)
	}

	transitions := make([]provider.Transition, 0, len(resp.Transitions))
	for _, t := range resp.Transitions {
		transitions = append(transitions, provider.Transition{
			ID:          t.ID,
			Name:        t.Name,
			TargetState: t.To.Name,
		})
	}

	return transitions, nil
}

// ApplyTransition performs a status transition on the issue.
func (a *Adapter) ApplyTransition(
	ctx context.Context,
	container, id, transitionID string,
) error {
	path := fmt.Sprintf("/rest/api/3/issue/%s/transitions", id)
	payload := map[string]interface{}{
		"transition": map[string]string{"id": transitionID},
	}

	// Transition endpoint returns 204 No Content on success.
	if err := a.client.Post(ctx, path, payload, nil); err != nil {
		return fmt.Errorf("applying transition %s to %s: %w", transitionID, id, err)
	}

	return nil
}

// issueURL builds the browse link for an issue.
func (a *Adapter) issueURL(issue Issue) string {
	return a.browseOrSelf(issue.Key, issue.Self)
}

// browseOrSelf prefers a site browse link, falling back to the API self
// link when no site URL is configured.
func (a *Adapter) browseOrSelf(key, self string) string {
	if a.siteURL != "" {
		return a.siteURL + "/browse/" + key
	}
	return self
}

// browseURL prefixes a path with the site URL when one is configured.
func (a *Adapter) browseURL(path string) string {
	if a.siteURL == "" {
		return ""
	}
	return a.siteURL + path
}

// parseJiraTime parses a Jira timestamp string. Jira uses the format
// "2006-01-02T15:04:05.000+0000".
func parseJiraTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}

	layouts := []string{
		"2006-01-02T15:04:05.000-0700",
		"2006-01-02T15:04:05-0700",
		time.RFC3339,
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	return time.Time{}
}

// escapeJQL escapes special characters in a JQL text search query value.
func escapeJQL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}
