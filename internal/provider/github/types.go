package github

import "time"

// Repo represents a repository from the REST API.
type Repo struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	HTMLURL  string `json:"html_url"`
	Private  bool   `json:"private"`
}

// Issue represents a GitHub issue. Pull requests also appear on the
// issues endpoints and are identified by a non-nil PullRequest field.
type Issue struct {
	ID          int64      `json:"id"`
	Number      int        `json:"number"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	State       string     `json:"state"`
	StateReason string     `json:"state_reason"`
	HTMLURL     string     `json:"html_url"`
	Labels      []Label    `json:"labels"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PullRequest *struct{}  `json:"pull_request,omitempty"`
}

// Label is an issue label.
type Label struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// SearchResponse is the response from GET /search/issues.
type SearchResponse struct {
	TotalCount int     `json:"total_count"`
	Items      []Issue `json:"items"`
}

// ErrorResponse is the standard GitHub error response format.
type ErrorResponse struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url"`
}
