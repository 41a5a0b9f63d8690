package azdevops

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YardenSamorai/taskos-sync/internal/model"
	"github.com/YardenSamorai/taskos-sync/internal/provider"
)

func testAdapter(t *testing.T, handler http.Handler) *Adapter {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a := NewAdapter("acme-org", "test-token")
	a.client.baseURL = srv.URL
	return a
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestListItems(t *testing.T) {
	var wiql WiqlQuery
	a := testAdapter(t, http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Method == http.MethodPost:
				assert.Equal(t, "/Widgets/_apis/wit/wiql", r.URL.Path)
				require.NoError(t, json.NewDecoder(r.Body).Decode(&wiql))
				writeJSON(t, w, map[string]interface{}{
					"workItems": []map[string]interface{}{
						{"id": 101}, {"id": 102},
					},
				})
			default:
				assert.Equal(t, "/_apis/wit/workitems", r.URL.Path)
				assert.Equal(t, "101,102", r.URL.Query().Get("ids"))
				writeJSON(t, w, map[string]interface{}{
					"value": []map[string]interface{}{
						{
							"id": 101,
							"fields": map[string]interface{}{
								"System.Title": "First item",
								"System.State": "Active",
							},
						},
						{
							"id": 102,
							"fields": map[string]interface{}{
								"System.Title": "Second item",
								"System.State": "New",
							},
						},
					},
				})
			}
		},
	))

	items, err := a.ListItems(context.Background(), "Widgets", provider.ListFilter{
		State: "Active",
	})
	require.NoError(t, err)

	assert.Contains(t, wiql.Query, "[System.TeamProject] = 'Widgets'")
	assert.Contains(t, wiql.Query, "[System.State] = 'Active'")

	require.Len(t, items, 2)
	assert.Equal(t, "101", items[0].ID)
	assert.Equal(t, "First item", items[0].Title)
	assert.Equal(t, "Active", items[0].State)
	assert.Equal(t,
		"https://dev.azure.com/acme-org/Widgets/_workitems/edit/101",
		items[0].URL,
	)
}

func TestGetItem(t *testing.T) {
	a := testAdapter(t, http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/Widgets/_apis/wit/workitems/101", r.URL.Path)
			writeJSON(t, w, map[string]interface{}{
				"id": 101,
				"fields": map[string]interface{}{
					"System.Title":                      "Fix login redirect",
					"System.Description":                "<div><p>Users land on a 404.</p></div>",
					"System.State":                      "Active",
					"Microsoft.VSTS.Common.Priority":    float64(1),
					"Microsoft.VSTS.Scheduling.DueDate": "2026-09-15T00:00:00Z",
				},
				"_links": map[string]interface{}{
					"html": map[string]string{
						"href": "https://dev.azure.com/acme-org/Widgets/_workitems/edit/101",
					},
				},
			})
		},
	))

	detail, err := a.GetItem(context.Background(), "Widgets", "101")
	require.NoError(t, err)

	assert.Equal(t, "101", detail.ID)
	assert.Equal(t, "Users land on a 404.", detail.Description)
	assert.Equal(t, model.StatusInProgress, detail.Status)
	assert.Equal(t, model.PriorityUrgent, detail.Priority)
	require.NotNil(t, detail.DueDate)
	assert.Equal(t,
		"https://dev.azure.com/acme-org/Widgets/_workitems/edit/101",
		detail.URL,
	)
}

func TestCreateItemSendsJSONPatch(t *testing.T) {
	var ops []PatchOp
	a := testAdapter(t, http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/Widgets/_apis/wit/workitems/$Task", r.URL.Path)
			assert.Equal(t, contentTypeJSONPatch, r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&ops))

			writeJSON(t, w, map[string]interface{}{"id": 200})
		},
	))

	created, err := a.CreateItem(context.Background(), "Widgets", provider.CreateFields{
		Title:       "New work item",
		Description: "body",
		Priority:    model.PriorityLow,
	})
	require.NoError(t, err)
	assert.Equal(t, "200", created.ID)

	byPath := map[string]interface{}{}
	for _, op := range ops {
		assert.Equal(t, "add", op.Op)
		byPath[op.Path] = op.Value
	}
	assert.Equal(t, "New work item", byPath["/fields/System.Title"])
	assert.Equal(t, "body", byPath["/fields/System.Description"])
	assert.Equal(t, float64(4), byPath["/fields/Microsoft.VSTS.Common.Priority"])
}

func TestListTransitionsSynthesized(t *testing.T) {
	a := testAdapter(t, http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/Widgets/_apis/wit/workitems/101":
				writeJSON(t, w, map[string]interface{}{
					"id": 101,
					"fields": map[string]interface{}{
						"System.State": "Active",
					},
				})
			case "/Widgets/_apis/wit/workitemtypes/Task/states":
				writeJSON(t, w, map[string]interface{}{
					"value": []map[string]string{
						{"name": "New"},
						{"name": "Active"},
						{"name": "Closed"},
					},
				})
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		},
	))

	transitions, err := a.ListTransitions(context.Background(), "Widgets", "101")
	require.NoError(t, err)

	// Every state except the current one.
	require.Len(t, transitions, 2)
	assert.Equal(t, "New", transitions[0].TargetState)
	assert.Equal(t, "Move to New", transitions[0].Name)
	assert.Equal(t, "Closed", transitions[1].TargetState)
}

func TestApplyTransition(t *testing.T) {
	var ops []PatchOp
	a := testAdapter(t, http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, contentTypeJSONPatch, r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&ops))
			writeJSON(t, w, map[string]interface{}{"id": 101})
		},
	))

	err := a.ApplyTransition(context.Background(), "Widgets", "101", "Closed")
	require.NoError(t, err)

	require.Len(t, ops, 1)
	assert.Equal(t, "/fields/System.State", ops[0].Path)
	assert.Equal(t, "Closed", ops[0].Value)
}

func TestClientAuthErrorOnSignInPage(t *testing.T) {
	// Insufficient scopes surface as 203 with an HTML sign-in page.
	a := testAdapter(t, http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNonAuthoritativeInfo)
			w.Write([]byte("<html>Sign in</html>"))
		},
	))

	_, err := a.GetItem(context.Background(), "Widgets", "101")
	assert.True(t, provider.IsAuthError(err))
}

func TestClientRemoteError(t *testing.T) {
	a := testAdapter(t, http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			writeJSON(t, w, map[string]string{
				"message": "TF401232: Work item 101 does not exist",
			})
		},
	))

	_, err := a.GetItem(context.Background(), "Widgets", "101")
	require.True(t, provider.IsRemoteError(err))
	assert.Contains(t, err.Error(), "TF401232")
}
