package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YardenSamorai/taskos-sync/internal/model"
	"github.com/YardenSamorai/taskos-sync/internal/store"
	"github.com/YardenSamorai/taskos-sync/tests/testutil"
)

func TestInsertAndGetTask(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	due := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	task := model.Task{
		WorkspaceID: "ws-1",
		Title:       "Ship the importer",
		Description: "with provenance",
		Status:      model.StatusInProgress,
		Priority:    model.PriorityHigh,
		DueDate:     &due,
		Metadata: model.ProvenanceMap{
			model.ProviderJira: {
				RemoteID:    "10042",
				RemoteKey:   "PROJ-42",
				ContainerID: "PROJ",
				URL:         "https://acme.atlassian.net/browse/PROJ-42",
			},
		},
	}
	require.NoError(t, s.InsertTask(ctx, task))

	ws := "ws-1"
	tasks, err := s.GetTasks(ctx, store.TaskFilter{WorkspaceID: &ws})
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	got := tasks[0]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Ship the importer", got.Title)
	assert.Equal(t, model.StatusInProgress, got.Status)
	assert.Equal(t, model.PriorityHigh, got.Priority)
	require.NotNil(t, got.DueDate)
	assert.True(t, due.Equal(*got.DueDate))

	rec, ok := got.Metadata[model.ProviderJira]
	require.True(t, ok)
	assert.Equal(t, "PROJ-42", rec.RemoteKey)

	byID, err := s.GetTaskByID(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, got.ID, byID.ID)
}

func TestGetTaskByIDNotFound(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.GetTaskByID(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetTasksFilters(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	insert := func(title string, status model.Status, priority model.Priority) {
		require.NoError(t, s.InsertTask(ctx, model.Task{
			WorkspaceID: "ws-1", Title: title,
			Status: status, Priority: priority,
		}))
	}
	insert("alpha", model.StatusTodo, model.PriorityLow)
	insert("beta", model.StatusDone, model.PriorityHigh)
	insert("gamma", model.StatusDone, model.PriorityLow)

	done := model.StatusDone
	tasks, err := s.GetTasks(ctx, store.TaskFilter{Status: &done})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	low := model.PriorityLow
	tasks, err = s.GetTasks(ctx, store.TaskFilter{Status: &done, Priority: &low})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "gamma", tasks[0].Title)

	q := "bet"
	tasks, err = s.GetTasks(ctx, store.TaskFilter{Query: &q})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "beta", tasks[0].Title)

	tasks, err = s.GetTasks(ctx, store.TaskFilter{SortBy: "title", Limit: 2})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "alpha", tasks[0].Title)
	assert.Equal(t, "beta", tasks[1].Title)
}

func TestUpdateTaskMetadata(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertTask(ctx, model.Task{
		ID: "task-1", WorkspaceID: "ws-1", Title: "t",
		Status: model.StatusTodo, Priority: model.PriorityMedium,
	}))

	meta := model.ProvenanceMap{
		model.ProviderGitHub: {RemoteID: "9", ContainerID: "acme/widgets"},
	}
	require.NoError(t, s.UpdateTaskMetadata(ctx, "task-1", meta))

	got, err := s.GetTaskByID(ctx, "task-1")
	require.NoError(t, err)
	assert.Equal(t, meta, got.Metadata)

	err = s.UpdateTaskMetadata(ctx, "missing", meta)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAssignTask(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertTask(ctx, model.Task{
		ID: "task-1", WorkspaceID: "ws-1", Title: "t",
		Status: model.StatusTodo, Priority: model.PriorityMedium,
	}))

	require.NoError(t, s.AssignTask(ctx, "task-1", "user-7"))

	got, err := s.GetTaskByID(ctx, "task-1")
	require.NoError(t, err)
	assert.Equal(t, "user-7", got.AssigneeID)

	assert.ErrorIs(t, s.AssignTask(ctx, "missing", "user-7"), store.ErrNotFound)
}

func TestUpsertIntegrationReusesRowID(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	first, err := s.UpsertIntegration(ctx, model.Integration{
		UserID:            "user-1",
		Provider:          model.ProviderJira,
		AccessToken:       "sealed-a",
		ProviderAccountID: "acme.atlassian.net",
		IsActive:          true,
		Metadata:          map[string]string{"cloud_id": "cloud-uuid"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, first)

	// Reconnecting the same pair replaces the row instead of adding one.
	second, err := s.UpsertIntegration(ctx, model.Integration{
		UserID:      "user-1",
		Provider:    model.ProviderJira,
		AccessToken: "sealed-b",
		IsActive:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	got, err := s.GetIntegration(ctx, "user-1", model.ProviderJira)
	require.NoError(t, err)
	assert.Equal(t, "sealed-b", got.AccessToken)
}

func TestGetIntegrationNotFound(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.GetIntegration(context.Background(), "user-1", model.ProviderGitHub)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSetIntegrationTokens(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	id, err := s.UpsertIntegration(ctx, model.Integration{
		UserID:       "user-1",
		Provider:     model.ProviderGitHub,
		AccessToken:  "sealed-old-access",
		RefreshToken: "sealed-old-refresh",
		IsActive:     true,
	})
	require.NoError(t, err)

	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, s.SetIntegrationTokens(
		ctx, id, "sealed-new-access", "", &expiry,
	))

	got, err := s.GetIntegration(ctx, "user-1", model.ProviderGitHub)
	require.NoError(t, err)
	assert.Equal(t, "sealed-new-access", got.AccessToken)
	// Empty replacement keeps the stored refresh token.
	assert.Equal(t, "sealed-old-refresh", got.RefreshToken)
	require.NotNil(t, got.TokenExpiresAt)
	assert.True(t, expiry.Equal(got.TokenExpiresAt.UTC()))

	require.NoError(t, s.SetIntegrationTokens(
		ctx, id, "sealed-newer-access", "sealed-new-refresh", nil,
	))
	got, err = s.GetIntegration(ctx, "user-1", model.ProviderGitHub)
	require.NoError(t, err)
	assert.Equal(t, "sealed-new-refresh", got.RefreshToken)
	assert.Nil(t, got.TokenExpiresAt)

	err = s.SetIntegrationTokens(ctx, "missing", "a", "b", nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSetIntegrationActiveAndDelete(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	id, err := s.UpsertIntegration(ctx, model.Integration{
		UserID:   "user-1",
		Provider: model.ProviderAzureDevOps,
		IsActive: true,
	})
	require.NoError(t, err)

	require.NoError(t, s.SetIntegrationActive(ctx, id, false))
	got, err := s.GetIntegration(ctx, "user-1", model.ProviderAzureDevOps)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	require.NoError(t, s.DeleteIntegration(ctx, id))
	_, err = s.GetIntegration(ctx, "user-1", model.ProviderAzureDevOps)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestActivityLog(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour).UTC()
	for i, action := range []string{"imported_from_github", "created_jira_issue"} {
		require.NoError(t, s.AppendActivity(ctx, model.ActivityEntry{
			WorkspaceID: "ws-1",
			UserID:      "user-1",
			Action:      action,
			EntityType:  model.EntityTypeTask,
			EntityID:    "task-1",
			Metadata:    model.ProvenanceRecord{RemoteID: "17"},
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := s.GetActivity(ctx, "ws-1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "created_jira_issue", entries[0].Action)
	assert.Equal(t, "imported_from_github", entries[1].Action)
	assert.Equal(t, "17", entries[0].Metadata.RemoteID)

	entries, err = s.GetActivity(ctx, "ws-1", 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "created_jira_issue", entries[0].Action)

	entries, err = s.GetActivity(ctx, "other-ws", 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
