package sync

import (
	"github.com/YardenSamorai/taskos-sync/internal/credential"
	"github.com/YardenSamorai/taskos-sync/internal/model"
	"github.com/YardenSamorai/taskos-sync/internal/provider"
	"github.com/YardenSamorai/taskos-sync/internal/provider/azdevops"
	"github.com/YardenSamorai/taskos-sync/internal/provider/github"
	"github.com/YardenSamorai/taskos-sync/internal/provider/jira"
)

// DefaultAdapterFactory binds each provider tag to its real adapter.
// Adding a provider means adding a case here and nowhere else.
func DefaultAdapterFactory(
	p model.Provider,
	tok credential.Token,
) provider.Adapter {
	switch p {
	case model.ProviderGitHub:
		return github.NewAdapter(tok.AccessToken)
	case model.ProviderJira:
		return jira.NewAdapter(tok.TenantID, tok.SiteURL, tok.AccessToken)
	case model.ProviderAzureDevOps:
		return azdevops.NewAdapter(tok.TenantID, tok.AccessToken)
	default:
		// Callers validate the tag before dispatch; see Engine.adapterFor.
		return nil
	}
}
