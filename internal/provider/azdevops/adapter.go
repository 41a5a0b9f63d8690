package azdevops

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/YardenSamorai/taskos-sync/internal/model"
	"github.com/YardenSamorai/taskos-sync/internal/provider"
)

// workItemType is the type used for items created by the sync engine.
const workItemType = "Task"

// dueDateLayout is the calendar-date form accepted by the scheduling
// fields.
const dueDateLayout = "2006-01-02"

// Adapter implements provider.Adapter for Azure DevOps work items.
// Containers are project names; item ids are work item ids.
type Adapter struct {
	client       *Client
	organization string
}

// NewAdapter creates an Azure DevOps adapter for one organization.
func NewAdapter(organization, token string) *Adapter {
	return &Adapter{
		client:       NewClient(organization, token),
		organization: organization,
	}
}

// Provider returns the provider tag for Azure DevOps.
func (a *Adapter) Provider() model.Provider {
	return model.ProviderAzureDevOps
}

// ListContainers lists the team projects in the organization. The org
// argument is unused; the organization is fixed by the client.
func (a *Adapter) ListContainers(
	ctx context.Context,
	org string,
) ([]provider.Container, error) {
	path := "/_apis/projects?" + apiVersion

	var resp ProjectList
	if err := a.client.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("listing DevOps projects: %w", err)
	}

	containers := make([]provider.Container, 0, len(resp.Value))
	for _, p := range resp.Value {
		containers = append(containers, provider.Container{
			ID:   p.Name,
			Name: p.Name,
			URL: fmt.Sprintf(
				"https://dev.azure.com/%s/%s", a.organization, p.Name,
			),
		})
	}

	return containers, nil
}

// ListItems runs a WIQL query for matching work item ids, then batch-loads
// title and state. Bodies are not fetched; import always refetches.
func (a *Adapter) ListItems(
	ctx context.Context,
	container string,
	f provider.ListFilter,
) ([]provider.Item, error) {
	query := fmt.Sprintf(
		"SELECT [System.Id] FROM WorkItems WHERE [System.TeamProject] = '%s'",
		escapeWIQL(container),
	)
	if f.State != "" {
		query += fmt.Sprintf(" AND [System.State] = '%s'", escapeWIQL(f.State))
	}
	if f.Query != "" {
		query += fmt.Sprintf(
			" AND [System.Title] CONTAINS '%s'", escapeWIQL(f.Query),
		)
	}
	query += " ORDER BY [System.ChangedDate] DESC"

	path := fmt.Sprintf("/%s/_apis/wit/wiql?%s", container, apiVersion)

	var wiql WiqlResult
	err := a.client.Post(ctx, path, WiqlQuery{Query: query}, &wiql)
	if err != nil {
		return nil, fmt.Errorf("querying DevOps work items: %w", err)
	}

	limit := provider.ClampLimit(f.Limit)
	if len(wiql.WorkItems) > limit {
		wiql.WorkItems = wiql.WorkItems[:limit]
	}
	if len(wiql.WorkItems) == 0 {
		return []provider.Item{}, nil
	}

	ids := make([]string, 0, len(wiql.WorkItems))
	for _, ref := range wiql.WorkItems {
		ids = append(ids, strconv.Itoa(ref.ID))
	}

	batchPath := fmt.Sprintf(
		"/_apis/wit/workitems?ids=%s&fields=%s,%s,%s&%s",
		strings.Join(ids, ","),
		fieldTitle, fieldState, fieldChangedDate,
		apiVersion,
	)

	var list WorkItemList
	if err := a.client.Get(ctx, batchPath, &list); err != nil {
		return nil, fmt.Errorf("loading DevOps work items: %w", err)
	}

	items := make([]provider.Item, 0, len(list.Value))
	for _, wi := range list.Value {
		id := strconv.Itoa(wi.ID)
		items = append(items, provider.Item{
			ID:        id,
			Title:     wi.stringField(fieldTitle),
			State:     wi.stringField(fieldState),
			URL:       a.itemURL(container, wi),
			UpdatedAt: wi.timeField(fieldChangedDate),
		})
	}

	return items, nil
}

// GetItem retrieves one work item in full detail, with the HTML
// description stripped to plain text and fields mapped to the internal
// vocabulary.
func (a *Adapter) GetItem(
	ctx context.Context,
	container, id string,
) (*provider.ItemDetail, error) {
	path := fmt.Sprintf(
		"/%s/_apis/wit/workitems/%s?$expand=links&%s",
		container, id, apiVersion,
	)

	var wi WorkItem
	if err := a.client.Get(ctx, path, &wi); err != nil {
		return nil, fmt.Errorf("fetching DevOps work item %s: %w", id, err)
	}

	priorityValue, hasPriority := wi.floatField(fieldPriority)

	detail := &provider.ItemDetail{
		ID:          strconv.Itoa(wi.ID),
		Title:       wi.stringField(fieldTitle),
		Description: stripHTML(wi.stringField(fieldDescription)),
		Status:      MapStatus(wi.stringField(fieldState)),
		Priority:    MapPriority(priorityValue, hasPriority),
		URL:         a.itemURL(container, wi),
	}

	if due := wi.timeField(fieldDueDate); !due.IsZero() {
		detail.DueDate = &due
	}

	return detail, nil
}

// CreateItem creates a new work item of type Task in the project.
func (a *Adapter) CreateItem(
	ctx context.Context,
	container string,
	f provider.CreateFields,
) (*provider.CreatedItem, error) {
	ops := []PatchOp{
		{Op: "add", Path: "/fields/" + fieldTitle, Value: f.Title},
		{Op: "add", Path: "/fields/" + fieldPriority, Value: RemotePriority(f.Priority)},
	}
	if f.Description != "" {
		ops = append(ops, PatchOp{
			Op: "add", Path: "/fields/" + fieldDescription, Value: f.Description,
		})
	}
	if f.DueDate != nil {
		ops = append(ops, PatchOp{
			Op: "add", Path: "/fields/" + fieldDueDate,
			Value: f.DueDate.Format(dueDateLayout),
		})
	}

	path := fmt.Sprintf(
		"/%s/_apis/wit/workitems/$%s?%s", container, workItemType, apiVersion,
	)

	var created WorkItem
	if err := a.client.PostPatchOps(ctx, path, ops, &created); err != nil {
		return nil, fmt.Errorf("creating DevOps work item in %s: %w", container, err)
	}

	return &provider.CreatedItem{
		ID:  strconv.Itoa(created.ID),
		URL: a.itemURL(container, created),
	}, nil
}

// UpdateItem patches the work item's scalar fields. State is left to the
// transition protocol.
func (a *Adapter) UpdateItem(
	ctx context.Context,
	container, id string,
	f provider.UpdateFields,
) error {
	ops := []PatchOp{
		{Op: "add", Path: "/fields/" + fieldTitle, Value: f.Title},
		{Op: "add", Path: "/fields/" + fieldPriority, Value: RemotePriority(f.Priority)},
	}
	if f.Description != "" {
		ops = append(ops, PatchOp{
			Op: "add", Path: "/fields/" + fieldDescription, Value: f.Description,
		})
	}
	if f.DueDate != nil {
		ops = append(ops, PatchOp{
			Op: "add", Path: "/fields/" + fieldDueDate,
			Value: f.DueDate.Format(dueDateLayout),
		})
	}

	path := fmt.Sprintf(
		"/%s/_apis/wit/workitems/%s?%s", container, id, apiVersion,
	)

	if err := a.client.PatchOps(ctx, path, ops, nil); err != nil {
		return fmt.Errorf("updating DevOps work item %s: %w", id, err)
	}

	return nil
}

// ListTransitions synthesizes transitions from the work item type's state
// list: every state other than the current one is reachable, which is how
// the default inherited processes behave.
func (a *Adapter) ListTransitions(
	ctx context.Context,
	container, id string,
) ([]provider.Transition, error) {
	itemPath := fmt.Sprintf(
		"/%s/_apis/wit/workitems/%s?%s", container, id, apiVersion,
	)
	var wi WorkItem
	if err := a.client.Get(ctx, itemPath, &wi); err != nil {
		return nil, fmt.Errorf("fetching DevOps work item %s: %w", id, err)
	}
	currentState := wi.stringField(fieldState)

	statesPath := fmt.Sprintf(
		"/%s/_apis/wit/workitemtypes/%s/states?%s",
		container, workItemType, apiVersion,
	)
	var states StateList
	if err := a.client.Get(ctx, statesPath, &states); err != nil {
		return nil, fmt.Errorf("listing DevOps states for %s: %w", id, err)
	}

	transitions := make([]provider.Transition, 0, len(states.Value))
	for _, s := range states.Value {
		if strings.EqualFold(s.Name, currentState) {
			continue
		}
		transitions = append(transitions, provider.Transition{
			ID:          s.Name,
			Name:        "Move to " + s.Name,
			TargetState: s.Name,
		})
	}

	return transitions, nil
}

// ApplyTransition moves the work item to the target state named by
// transitionID.
func (a *Adapter) ApplyTransition(
	ctx context.Context,
	container, id, transitionID string,
) error {
	ops := []PatchOp{
		{Op: "add", Path: "/fields/" + fieldState, Value: transitionID},
	}

	path := fmt.Sprintf(
		"/%s/_apis/wit/workitems/%s?%s", container, id, apiVersion,
	)

	if err := a.client.PatchOps(ctx, path, ops, nil); err != nil {
		return fmt.Errorf("moving DevOps work item %s to %s: %w", id, transitionID, err)
	}

	return nil
}

// itemURL builds the browse link for a work item, preferring the html
// link from the response.
func (a *Adapter) itemURL(container string, wi WorkItem) string {
	if wi.Links != nil && wi.Links.HTML != nil {
		return wi.Links.HTML.Href
	}
	return fmt.Sprintf(
		"https://dev.azure.com/%s/%s/_workitems/edit/%d",
		a.organization, container, wi.ID,
	)
}

// htmlTagPattern matches HTML tags for stripping.
var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTML removes HTML tags from a string and collapses whitespace.
// Work item descriptions are stored as HTML fragments; local tasks keep
// plain text only.
func stripHTML(html string) string {
	if html == "" {
		return ""
	}

	// Replace common block-level tags with newlines.
	result := html
	for _, tag := range []string{"<br>", "<br/>", "<br />", "</p>", "</div>", "</li>"} {
		result = strings.ReplaceAll(result, tag, "\n")
	}

	// Strip all remaining HTML tags.
	result = htmlTagPattern.ReplaceAllString(result, "")

	// Decode common HTML entities.
	replacer := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", "\"",
		"&#39;", "'",
		"&nbsp;", " ",
	)
	result = replacer.Replace(result)

	// Collapse multiple consecutive blank lines.
	for strings.Contains(result, "\n\n\n") {
		result = strings.ReplaceAll(result, "\n\n\n", "\n\n")
	}

	return strings.TrimSpace(result)
}

// escapeWIQL escapes single quotes in a WIQL string literal.
func escapeWIQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
