package azdevops

import (
	"strings"

	"github.com/YardenSamorai/taskos-sync/internal/model"
)

// MapStatus maps a work item state name to the internal vocabulary by
// substring match on well-known state names. Unknown states map to todo.
func MapStatus(state string) model.Status {
	name := strings.ToLower(state)
	switch {
	case strings.Contains(name, "backlog"):
		return model.StatusBacklog
	case strings.Contains(name, "review"), strings.Contains(name, "resolved"):
		return model.StatusReview
	case strings.Contains(name, "active"),
		strings.Contains(name, "doing"),
		strings.Contains(name, "committed"),
		strings.Contains(name, "in progress"):
		return model.StatusInProgress
	case strings.Contains(name, "done"),
		strings.Contains(name, "closed"),
		strings.Contains(name, "completed"),
		strings.Contains(name, "removed"):
		return model.StatusDone
	default:
		return model.StatusTodo
	}
}

// MapPriority maps the numeric Microsoft.VSTS.Common.Priority field
// (1 highest .. 4 lowest) to the internal vocabulary. Absent or
// out-of-range values map to medium.
func MapPriority(value float64, present bool) model.Priority {
	if !present {
		return model.PriorityMedium
	}
	switch int(value) {
	case 1:
		return model.PriorityUrgent
	case 2:
		return model.PriorityHigh
	case 3:
		return model.PriorityMedium
	case 4:
		return model.PriorityLow
	default:
		return model.PriorityMedium
	}
}

// remotePriority is the inverse table used for create and push-back.
var remotePriority = map[model.Priority]int{
	model.PriorityUrgent: 1,
	model.PriorityHigh:   2,
	model.PriorityMedium: 3,
	model.PriorityLow:    4,
}

// RemotePriority maps an internal priority to the numeric remote field.
// Unknown values map to 3 (medium).
func RemotePriority(p model.Priority) int {
	if v, ok := remotePriority[p]; ok {
		return v
	}
	return remotePriority[model.PriorityMedium]
}
