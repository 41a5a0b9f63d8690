// Package credential manages per-user, per-provider token pairs: sealed
// storage, transparent refresh ahead of expiry, and tenant resolution.
package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/YardenSamorai/taskos-sync/internal/model"
	"github.com/YardenSamorai/taskos-sync/internal/provider"
	"github.com/YardenSamorai/taskos-sync/internal/store"
)

// refreshWindow is the look-ahead before expiry within which a token is
// refreshed rather than returned as-is.
const refreshWindow = 5 * time.Minute

// Token is a ready-to-use access token and the tenant it is scoped to.
type Token struct {
	AccessToken string
	TenantID    string

	// SiteURL is the browse base recorded at connect time (e.g. the Jira
	// site URL). Empty when the provider needs none.
	SiteURL string
}

// IntegrationStore is the slice of store.Store the service needs; tests
// substitute a fake.
type IntegrationStore interface {
	GetIntegration(ctx context.Context, userID string, p model.Provider) (*model.Integration, error)
	SetIntegrationTokens(ctx context.Context, id, accessToken, refreshToken string, expiresAt *time.Time) error
}

// Service hands out valid access tokens for (user, provider) pairs,
// refreshing them transparently when they are about to expire.
type Service struct {
	store      IntegrationStore
	cipher     *Cipher
	cfg        *model.AppConfig
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a credential service. The cipher guards tokens at
// rest; cfg supplies OAuth client credentials and token endpoints.
func NewService(
	st IntegrationStore,
	cipher *Cipher,
	cfg *model.AppConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		store:  st,
		cipher: cipher,
		cfg:    cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
		now:    time.Now,
	}
}

// ValidToken returns a usable access token for the (user, provider) pair.
// Returns provider.ErrNotConnected when no active integration exists and
// provider.ErrReconnectRequired when the stored tokens cannot be made
// valid without user interaction.
func (s *Service) ValidToken(
	ctx context.Context,
	userID string,
	p model.Provider,
) (Token, error) {
	integ, err := s.store.GetIntegration(ctx, userID, p)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Token{}, provider.ErrNotConnected
		}
		return Token{}, fmt.Errorf("loading %s integration: %w", p, err)
	}

	if !integ.IsActive {
		return Token{}, provider.ErrNotConnected
	}

	if s.needsRefresh(integ) {
		integ, err = s.refresh(ctx, integ)
		if err != nil {
			return Token{}, err
		}
	}

	access, err := s.cipher.Open(integ.AccessToken)
	if err != nil {
		return Token{}, fmt.Errorf("unsealing %s access token: %w", p, err)
	}
	if access == "" {
		return Token{}, provider.ErrReconnectRequired
	}

	return Token{
		AccessToken: access,
		TenantID:    tenantID(integ),
		SiteURL:     integ.Metadata["site_url"],
	}, nil
}

// needsRefresh reports whether the stored access token is missing or inside
// the refresh look-ahead window. Tokens without an expiry never refresh.
func (s *Service) needsRefresh(integ *model.Integration) bool {
	if integ.AccessToken == "" {
		return true
	}
	if integ.TokenExpiresAt == nil {
		return false
	}
	return s.now().Add(refreshWindow).After(*integ.TokenExpiresAt)
}

// tokenResponse is the OAuth token endpoint response shape shared by all
// three providers.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Error        string `json:"error"`
	ErrorDesc    string `json:"error_description"`
}

// refresh exchanges the stored refresh token for a fresh access token and
// persists the result. A failed exchange is terminal: the caller gets
// provider.ErrReconnectRequired and must re-authorize. No silent retry.
func (s *Service) refresh(
	ctx context.Context,
	integ *model.Integration,
) (*model.Integration, error) {
	if integ.RefreshToken == "" {
		return nil, provider.ErrReconnectRequired
	}

	refreshToken, err := s.cipher.Open(integ.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("unsealing %s refresh token: %w", integ.Provider, err)
	}
	if refreshToken == "" {
		return nil, provider.ErrReconnectRequired
	}

	oauth := s.cfg.OAuthFor(integ.Provider)
	if oauth.TokenURL == "" {
		return nil, fmt.Errorf(
			"no token endpoint configured for %s: %w",
			integ.Provider, provider.ErrReconnectRequired,
		)
	}

	s.logger.Info("refreshing access token",
		"provider", integ.Provider,
		"integration_id", integ.ID,
	)

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", oauth.ClientID)
	form.Set("client_secret", oauth.ClientSecret)

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, oauth.TokenURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("creating refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn("token refresh failed",
			"provider", integ.Provider, "error", err,
		)
		return nil, provider.ErrReconnectRequired
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading refresh response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Warn("token refresh rejected",
			"provider", integ.Provider, "status", resp.StatusCode,
		)
		return nil, provider.ErrReconnectRequired
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, fmt.Errorf("parsing refresh response: %w", err)
	}
	if tok.AccessToken == "" || tok.Error != "" {
		s.logger.Warn("token refresh returned no token",
			"provider", integ.Provider, "oauth_error", tok.Error,
		)
		return nil, provider.ErrReconnectRequired
	}

	sealedAccess, err := s.cipher.Seal(tok.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("sealing refreshed access token: %w", err)
	}

	// Refresh tokens are not guaranteed to rotate; keep the old one when
	// the response omits a new one.
	sealedRefresh := ""
	if tok.RefreshToken != "" {
		sealedRefresh, err = s.cipher.Seal(tok.RefreshToken)
		if err != nil {
			return nil, fmt.Errorf("sealing rotated refresh token: %w", err)
		}
	}

	var expiresAt *time.Time
	if tok.ExpiresIn > 0 {
		t := s.now().Add(time.Duration(tok.ExpiresIn) * time.Second)
		expiresAt = &t
	}

	err = s.store.SetIntegrationTokens(
		ctx, integ.ID, sealedAccess, sealedRefresh, expiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("persisting refreshed tokens: %w", err)
	}

	updated := *integ
	updated.AccessToken = sealedAccess
	if sealedRefresh != "" {
		updated.RefreshToken = sealedRefresh
	}
	updated.TokenExpiresAt = expiresAt

	return &updated, nil
}

// tenantID resolves the tenant an access token is scoped to: the resolved
// Jira cloud id when present, otherwise the provider account id
// (organization name, site, or login).
func tenantID(integ *model.Integration) string {
	if cloudID, ok := integ.Metadata["cloud_id"]; ok && cloudID != "" {
		return cloudID
	}
	return integ.ProviderAccountID
}
