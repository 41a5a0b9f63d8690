package azdevops

import "time"

// Work item field reference names used by this adapter.
const (
	fieldTitle       = "System.Title"
	fieldDescription = "System.Description"
	fieldState       = "System.State"
	fieldChangedDate = "System.ChangedDate"
	fieldPriority    = "Microsoft.VSTS.Common.Priority"
	fieldDueDate     = "Microsoft.VSTS.Scheduling.DueDate"
)

// PatchOp is a single JSON Patch operation.
type PatchOp struct {
	Op    string      `json:"op"`
	Path  string      `json:"path"`
	Value interface{} `json:"value"`
}

// Project represents a team project.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
}

// ProjectList is the response from GET /_apis/projects.
type ProjectList struct {
	Count int       `json:"count"`
	Value []Project `json:"value"`
}

// WiqlQuery is the request body for POST /_apis/wit/wiql.
type WiqlQuery struct {
	Query string `json:"query"`
}

// WiqlResult is the response from a WIQL query; it carries ids only.
type WiqlResult struct {
	WorkItems []WorkItemRef `json:"workItems"`
}

// WorkItemRef is an id/url pair from a WIQL result.
type WorkItemRef struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

// WorkItem represents a work item with its fields bag.
type WorkItem struct {
	ID     int                    `json:"id"`
	Rev    int                    `json:"rev"`
	Fields map[string]interface{} `json:"fields"`
	Links  *WorkItemLinks         `json:"_links,omitempty"`
	URL    string                 `json:"url"`
}

// WorkItemLinks holds the hyperlinks attached to a work item response.
type WorkItemLinks struct {
	HTML *Link `json:"html,omitempty"`
}

// Link is a single href.
type Link struct {
	Href string `json:"href"`
}

// WorkItemList is the response from GET /_apis/wit/workitems?ids=...
type WorkItemList struct {
	Count int        `json:"count"`
	Value []WorkItem `json:"value"`
}

// StateList is the response from GET
// /_apis/wit/workitemtypes/{type}/states.
type StateList struct {
	Count int     `json:"count"`
	Value []State `json:"value"`
}

// State is one workflow state of a work item type.
type State struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Color    string `json:"color,omitempty"`
}

// ErrorResponse is the standard Azure DevOps error response format.
type ErrorResponse struct {
	Message  string `json:"message"`
	TypeName string `json:"typeName,omitempty"`
}

// stringField reads a string-typed field from the fields bag.
func (w *WorkItem) stringField(name string) string {
	if v, ok := w.Fields[name].(string); ok {
		return v
	}
	return ""
}

// floatField reads a numeric field from the fields bag. JSON numbers
// decode as float64.
func (w *WorkItem) floatField(name string) (float64, bool) {
	v, ok := w.Fields[name].(float64)
	return v, ok
}

// timeField parses an RFC 3339 field from the fields bag.
func (w *WorkItem) timeField(name string) time.Time {
	s := w.stringField(name)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
