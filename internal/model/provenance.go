package model

import "encoding/json"

// Provider identifies one of the external issue trackers a task can be
// linked to.
type Provider string

const (
	ProviderGitHub      Provider = "github"
	ProviderJira        Provider = "jira"
	ProviderAzureDevOps Provider = "azure_devops"
)

// Providers lists all supported provider tags.
var Providers = []Provider{ProviderGitHub, ProviderJira, ProviderAzureDevOps}

// ValidProvider reports whether p is one of the supported providers.
func ValidProvider(p Provider) bool {
	switch p {
	case ProviderGitHub, ProviderJira, ProviderAzureDevOps:
		return true
	}
	return false
}

// ProvenanceRecord links a local task to one remote item. It is the only
// connection between the two; there is no separate join table.
type ProvenanceRecord struct {
	// RemoteID is the remote item's identifier. Providers that use numeric
	// ids are normalized to their decimal string form.
	RemoteID string `json:"remoteId"`

	// RemoteKey is the human-facing key where the provider has one
	// (e.g. a Jira issue key like PROJ-42).
	RemoteKey string `json:"remoteKey,omitempty"`

	// ContainerID is the provider-specific grouping unit the item lives in
	// (repository, project key, or DevOps project).
	ContainerID string `json:"containerId"`

	// TenantID is the provider tenant, where relevant (Jira cloud id,
	// DevOps organization).
	TenantID string `json:"tenantId,omitempty"`

	// URL is the browse link to the remote item.
	URL string `json:"url"`
}

// ProvenanceMap holds at most one provenance record per provider.
type ProvenanceMap map[Provider]ProvenanceRecord

// ParseProvenance decodes a serialized provenance blob. Absent or
// malformed input yields an empty map: a task with unreadable metadata is
// simply not linked to any provider, never an error.
func ParseProvenance(raw string) ProvenanceMap {
	if raw == "" {
		return ProvenanceMap{}
	}
	var m ProvenanceMap
	if err := json.Unmarshal([]byte(raw), &m); err != nil || m == nil {
		return ProvenanceMap{}
	}
	return m
}

// Encode serializes the map for storage. An empty map encodes to "{}".
func (m ProvenanceMap) Encode() string {
	if len(m) == 0 {
		return "{}"
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(data)
}
