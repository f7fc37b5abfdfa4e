package persistence

import (
	"context"
	"database/sql"
	"time"

	"autopost/domain/model"
)

// OAuthTokenRepository stores Google OAuth credentials per user and provider
type OAuthTokenRepository struct{ db *sql.DB }

func NewOAuthTokenRepository(db *sql.DB) *OAuthTokenRepository {
	return &OAuthTokenRepository{db: db}
}

func (r *OAuthTokenRepository) UpsertToken(ctx context.Context, t *model.OAuthToken) error {
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	q := `INSERT INTO oauth_tokens (user_id, provider, access_token, refresh_token, expires_at, scope, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		  ON CONFLICT (user_id, provider) DO UPDATE SET
			access_token=EXCLUDED.access_token,
			refresh_token=EXCLUDED.refresh_token,
			expires_at=EXCLUDED.expires_at,
			scope=EXCLUDED.scope,
			updated_at=EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, q, t.UserID, t.Provider, t.AccessToken, t.RefreshToken, t.ExpiresAt, t.Scope, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *OAuthTokenRepository) GetToken(ctx context.Context, userID int64, provider string) (*model.OAuthToken, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, provider, access_token, refresh_token, expires_at, scope, created_at, updated_at FROM oauth_tokens WHERE user_id=$1 AND provider=$2`,
		userID, provider)
	tok := &model.OAuthToken{}
	var refresh, scope sql.NullString
	var exp sql.NullTime
	if err := row.Scan(&tok.ID, &tok.UserID, &tok.Provider, &tok.AccessToken, &refresh, &exp, &scope, &tok.CreatedAt, &tok.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if refresh.Valid {
		v := refresh.String
		tok.RefreshToken = &v
	}
	if exp.Valid {
		tok.ExpiresAt = &exp.Time
	}
	if scope.Valid {
		v := scope.String
		tok.Scope = &v
	}
	return tok, nil
}

func (r *OAuthTokenRepository) DeleteToken(ctx context.Context, userID int64, provider string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM oauth_tokens WHERE user_id=$1 AND provider=$2`, userID, provider)
	return err
}
