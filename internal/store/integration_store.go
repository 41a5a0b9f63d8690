package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/YardenSamorai/taskos-sync/internal/model"
)

// UpsertIntegration inserts or replaces the integration row for the
// (user, provider) pair and returns the row id.
func (s *SQLiteStore) UpsertIntegration(
	ctx context.Context,
	integ model.Integration,
) (string, error) {
	if integ.ID == "" {
		// Reuse the existing row id when the pair is already connected so
		// re-connecting does not orphan the old row.
		existing, err := s.GetIntegration(ctx, integ.UserID, integ.Provider)
		if err == nil {
			integ.ID = existing.ID
		} else if !errors.Is(err, ErrNotFound) {
			return "", err
		} else {
			integ.ID = uuid.New().String()
		}
	}

	metadataJSON, err := json.Marshal(integ.Metadata)
	if err != nil {
		return "", fmt.Errorf("marshaling integration metadata: %w", err)
	}

	now := time.Now().UTC()
	if integ.CreatedAt.IsZero() {
		integ.CreatedAt = now
	}

	var expiresAt interface{}
	if integ.TokenExpiresAt != nil {
		expiresAt = integ.TokenExpiresAt.UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO integrations (
			id, user_id, provider, access_token, refresh_token,
			provider_account_id, token_expires_at, is_active, metadata,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		integ.ID, integ.UserID, string(integ.Provider),
		integ.AccessToken, integ.RefreshToken,
		integ.ProviderAccountID, expiresAt,
		boolToInt(integ.IsActive), string(metadataJSON),
		integ.CreatedAt.UTC(), now,
	)
	if err != nil {
		return "", fmt.Errorf("upserting integration %s: %w", integ.ID, err)
	}

	return integ.ID, nil
}

// GetIntegration retrieves the integration row for a (user, provider)
// pair, whether active or not. Returns ErrNotFound if none exists.
func (s *SQLiteStore) GetIntegration(
	ctx context.Context,
	userID string,
	p model.Provider,
) (*model.Integration, error) {
	row := s.db.QueryRowxContext(ctx,
		"SELECT * FROM integrations WHERE user_id = ? AND provider = ?",
		userID, string(p),
	)

	integ, err := scanIntegration(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf(
				"getting %s integration for user %s: %w", p, userID, ErrNotFound,
			)
		}
		return nil, fmt.Errorf(
			"getting %s integration for user %s: %w", p, userID, err,
		)
	}

	return &integ, nil
}

// SetIntegrationTokens persists refreshed tokens and the recomputed expiry.
// An empty refreshToken keeps the stored one: refresh tokens are not
// guaranteed to rotate.
func (s *SQLiteStore) SetIntegrationTokens(
	ctx context.Context,
	id, accessToken, refreshToken string,
	expiresAt *time.Time,
) error {
	var expires interface{}
	if expiresAt != nil {
		expires = expiresAt.UTC()
	}

	query := `UPDATE integrations
		SET access_token = ?, token_expires_at = ?, updated_at = ?
		WHERE id = ?`
	args := []interface{}{accessToken, expires, time.Now().UTC(), id}

	if refreshToken != "" {
		query = `UPDATE integrations
			SET access_token = ?, refresh_token = ?, token_expires_at = ?, updated_at = ?
			WHERE id = ?`
		args = []interface{}{accessToken, refreshToken, expires, time.Now().UTC(), id}
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating tokens for integration %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating tokens for integration %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("updating tokens for integration %s: %w", id, ErrNotFound)
	}

	return nil
}

// SetIntegrationActive toggles the soft-disable flag on an integration.
func (s *SQLiteStore) SetIntegrationActive(
	ctx context.Context,
	id string,
	active bool,
) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE integrations SET is_active = ?, updated_at = ? WHERE id = ?",
		boolToInt(active), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("toggling integration %s: %w", id, err)
	}
	return nil
}

// DeleteIntegration removes an integration row (disconnect).
func (s *SQLiteStore) DeleteIntegration(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM integrations WHERE id = ?", id,
	)
	if err != nil {
		return fmt.Errorf("deleting integration %s: %w", id, err)
	}
	return nil
}

// scanIntegration scans an integration row from a sqlx.Row.
func scanIntegration(row *sqlx.Row) (model.Integration, error) {
	var (
		integ     model.Integration
		provider  string
		expiresAt sql.NullTime
		active    int
		metadata  string
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(
		&integ.ID, &integ.UserID, &provider,
		&integ.AccessToken, &integ.RefreshToken,
		&integ.ProviderAccountID, &expiresAt, &active, &metadata,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return model.Integration{}, err
	}

	integ.Provider = model.Provider(provider)
	if expiresAt.Valid {
		t := expiresAt.Time
		integ.TokenExpiresAt = &t
	}
	integ.IsActive = active != 0
	integ.CreatedAt = createdAt
	integ.UpdatedAt = updatedAt

	if metadata != "" {
		if err := json.Unmarshal([]byte(metadata), &integ.Metadata); err != nil {
			return model.Integration{}, fmt.Errorf("unmarshaling integration metadata: %w", err)
		}
	}

	return integ, nil
}
