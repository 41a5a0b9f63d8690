package jira

import (
	"strings"

	"github.com/YardenSamorai/taskos-sync/internal/model"
)

// MapStatus maps a Jira status to the internal status vocabulary. It first
// checks the status name for a "review" substring, then falls back to the
// status category key. Unknown values map to todo, never to an error.
func MapStatus(status Status) model.Status {
	name := strings.ToLower(status.Name)
	if strings.Contains(name, "review") {
		return model.StatusReview
	}
	if strings.Contains(name, "backlog") {
		return model.StatusBacklog
	}

	switch strings.ToLower(status.StatusCategory.Key) {
	case "new":
		return model.StatusTodo
	case "indeterminate":
		return model.StatusInProgress
	case "done":
		return model.StatusDone
	default:
		return model.StatusTodo
	}
}

// priorityByName maps Jira priority names to internal levels.
var priorityByName = map[string]model.Priority{
	"highest": model.PriorityUrgent,
	"high":    model.PriorityHigh,
	"medium":  model.PriorityMedium,
	"low":     model.PriorityLow,
	"lowest":  model.PriorityLow,
}

// MapPriority maps a Jira priority to the internal vocabulary. A nil or
// unknown priority maps to medium.
func MapPriority(priority *Priority) model.Priority {
	if priority == nil {
		return model.PriorityMedium
	}
	if p, ok := priorityByName[strings.ToLower(priority.Name)]; ok {
		return p
	}
	return model.PriorityMedium
}

// remotePriority is the inverse table used for create and push-back.
var remotePriority = map[model.Priority]string{
	model.PriorityUrgent: "Highest",
	model.PriorityHigh:   "High",
	model.PriorityMedium: "Medium",
	model.PriorityLow:    "Low",
}

// RemotePriority maps an internal priority to the Jira priority name.
// Unknown values map to Medium.
func RemotePriority(p model.Priority) string {
	if name, ok := remotePriority[p]; ok {
		return name
	}
	return "Medium"
}
