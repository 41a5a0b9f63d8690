package azdevops

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/YardenSamorai/taskos-sync/internal/model"
)

func TestMapStatus(t *testing.T) {
	tests := []struct {
		state string
		want  model.Status
	}{
		{"New", model.StatusTodo},
		{"To Do", model.StatusTodo},
		{"Backlog", model.StatusBacklog},
		{"Active", model.StatusInProgress},
		{"Doing", model.StatusInProgress},
		{"Committed", model.StatusInProgress},
		{"In Progress", model.StatusInProgress},
		{"Resolved", model.StatusReview},
		{"In Review", model.StatusReview},
		{"Done", model.StatusDone},
		{"Closed", model.StatusDone},
		{"Completed", model.StatusDone},
		{"Removed", model.StatusDone},
		{"Custom State", model.StatusTodo},
		{"", model.StatusTodo},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			assert.Equal(t, tt.want, MapStatus(tt.state))
		})
	}
}

func TestMapPriority(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		present bool
		want    model.Priority
	}{
		{"1 is urgent", 1, true, model.PriorityUrgent},
		{"2 is high", 2, true, model.PriorityHigh},
		{"3 is medium", 3, true, model.PriorityMedium},
		{"4 is low", 4, true, model.PriorityLow},
		{"out of range", 9, true, model.PriorityMedium},
		{"zero value", 0, true, model.PriorityMedium},
		{"absent field", 0, false, model.PriorityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapPriority(tt.value, tt.present))
		})
	}
}

func TestRemotePriority(t *testing.T) {
	assert.Equal(t, 1, RemotePriority(model.PriorityUrgent))
	assert.Equal(t, 2, RemotePriority(model.PriorityHigh))
	assert.Equal(t, 3, RemotePriority(model.PriorityMedium))
	assert.Equal(t, 4, RemotePriority(model.PriorityLow))
	assert.Equal(t, 3, RemotePriority(model.Priority("nope")))
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain text untouched", "no markup here", "no markup here"},
		{
			"paragraphs and breaks",
			"<div><p>first</p><p>second<br>third</p></div>",
			"first\nsecond\nthird",
		},
		{
			"entities decoded",
			"a &amp; b &lt;c&gt; &quot;d&quot; &#39;e&#39;&nbsp;f",
			"a & b <c> \"d\" 'e' f",
		},
		{
			"blank runs collapse",
			"<p>a</p><p></p><p></p><p>b</p>",
			"a\n\nb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripHTML(tt.in))
		})
	}
}

func TestEscapeWIQL(t *testing.T) {
	assert.Equal(t, "it''s", escapeWIQL("it's"))
	assert.Equal(t, "plain", escapeWIQL("plain"))
}
