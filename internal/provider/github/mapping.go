package github

import (
	"strings"

	"github.com/YardenSamorai/taskos-sync/internal/model"
)

// GitHub has a two-state issue model; the richer internal vocabulary is
// carried on labels. MapStatus reads state first, then looks for a
// workflow label. Anything unrecognized maps to todo.
func MapStatus(state string, labels []Label) model.Status {
	if strings.EqualFold(state, "closed") {
		return model.StatusDone
	}

	for _, l := range labels {
		name := strings.ToLower(l.Name)
		switch {
		case strings.Contains(name, "in progress"),
			strings.Contains(name, "in-progress"),
			strings.Contains(name, "doing"):
			return model.StatusInProgress
		case strings.Contains(name, "review"):
			return model.StatusReview
		case strings.Contains(name, "backlog"):
			return model.StatusBacklog
		}
	}

	return model.StatusTodo
}

// labelPriority maps label fragments to internal priorities.
var labelPriority = []struct {
	fragment string
	priority model.Priority
}{
	{"urgent", model.PriorityUrgent},
	{"critical", model.PriorityUrgent},
	{"p0", model.PriorityUrgent},
	{"high", model.PriorityHigh},
	{"p1", model.PriorityHigh},
	{"medium", model.PriorityMedium},
	{"p2", model.PriorityMedium},
	{"low", model.PriorityLow},
	{"p3", model.PriorityLow},
}

// MapPriority derives an internal priority from issue labels. Issues with
// no recognizable priority label map to medium.
func MapPriority(labels []Label) model.Priority {
	for _, l := range labels {
		name := strings.ToLower(l.Name)
		for _, m := range labelPriority {
			if strings.Contains(name, m.fragment) {
				return m.priority
			}
		}
	}
	return model.PriorityMedium
}

// remoteLabel is the inverse table used for create and push-back.
var remoteLabel = map[model.Priority]string{
	model.PriorityUrgent: "priority: urgent",
	model.PriorityHigh:   "priority: high",
	model.PriorityMedium: "priority: medium",
	model.PriorityLow:    "priority: low",
}

// PriorityLabel maps an internal priority to the label applied on the
// remote issue. Unknown values map to the medium label.
func PriorityLabel(p model.Priority) string {
	if label, ok := remoteLabel[p]; ok {
		return label
	}
	return remoteLabel[model.PriorityMedium]
}
