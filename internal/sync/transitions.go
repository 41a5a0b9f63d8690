package sync

import (
	"strings"

	"github.com/YardenSamorai/taskos-sync/internal/model"
	"github.com/YardenSamorai/taskos-sync/internal/provider"
)

// statusKeywords maps each internal status to the remote state-name
// fragments that count as "this status" on any provider. Matching is
// case-insensitive substring search; order within a set matters, the
// earliest keyword with a matching transition wins.
var statusKeywords = map[model.Status][]string{
	model.StatusDone: {
		"done", "closed", "resolved", "complete",
	},
	model.StatusInProgress: {
		"progress", "start", "doing", "active", "review",
	},
	model.StatusReview: {
		"progress", "start", "doing", "active", "review",
	},
	model.StatusTodo: {
		"to do", "todo", "open", "reopen", "new", "backlog",
	},
	model.StatusBacklog: {
		"to do", "todo", "open", "reopen", "new", "backlog",
	},
}

// MatchTransition picks the transition whose target state matches the
// task's status. Transitions without a target state fall back to
// matching on the transition name. Returns nil when nothing matches;
// a nil result means the remote item keeps its current state.
func MatchTransition(
	status model.Status,
	transitions []provider.Transition,
) *provider.Transition {
	keywords, ok := statusKeywords[status]
	if !ok {
		return nil
	}

	for _, keyword := range keywords {
		for i := range transitions {
			target := transitions[i].TargetState
			if target == "" {
				target = transitions[i].Name
			}
			if strings.Contains(strings.ToLower(target), keyword) {
				return &transitions[i]
			}
		}
	}

	return nil
}
