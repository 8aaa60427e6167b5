// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/angelamos/wholesale-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, session *Session) error
	FindByDigest(ctx context.Context, tokenDigest string) (*Session, error)
	IsSessionActive(ctx context.Context, tokenDigest string) (bool, error)
	Deactivate(ctx context.Context, tokenDigest string) error
	DeactivateAllForUser(ctx context.Context, userID string) error
	TouchActivity(ctx context.Context, tokenDigest string) error
	ListActiveForUser(ctx context.Context, userID string) ([]Session, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, session *Session) error {
	query := `
		INSERT INTO sessions (
			id, user_id, token_digest, ip_address, user_agent,
			expires_at, last_activity_at, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW(), true
		)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &session.CreatedAt, query,
		session.ID,
		session.UserID,
		session.TokenDigest,
		session.IPAddress,
		session.UserAgent,
		session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

func (r *repository) FindByDigest(
	ctx context.Context,
	tokenDigest string,
) (*Session, error) {
	query := `
		SELECT
			id, user_id, token_digest, ip_address, user_agent,
			expires_at, last_activity_at, is_active, created_at
		FROM sessions
		WHERE token_digest = $1`

	var session Session
	err := r.db.GetContext(ctx, &session, query, tokenDigest)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find session: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}

	return &session, nil
}

func (r *repository) IsSessionActive(
	ctx context.Context,
	tokenDigest string,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM sessions
			WHERE token_digest = $1
				AND is_active = true
				AND expires_at > NOW()
		)`

	var active bool
	if err := r.db.GetContext(ctx, &active, query, tokenDigest); err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}

	return active, nil
}

// Deactivate is idempotent: revoking an already revoked or unknown
// session is not an error.
func (r *repository) Deactivate(
	ctx context.Context,
	tokenDigest string,
) error {
	query := `
		UPDATE sessions
		SET is_active = false
		WHERE token_digest = $1 AND is_active = true`

	if _, err := r.db.ExecContext(ctx, query, tokenDigest); err != nil {
		return fmt.Errorf("deactivate session: %w", err)
	}

	return nil
}

func (r *repository) DeactivateAllForUser(
	ctx context.Context,
	userID string,
) error {
	query := `
		UPDATE sessions
		SET is_active = false
		WHERE user_id = $1 AND is_active = true`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("deactivate user sessions: %w", err)
	}

	return nil
}

func (r *repository) TouchActivity(
	ctx context.Context,
	tokenDigest string,
) error {
	query := `
		UPDATE sessions
		SET last_activity_at = NOW()
		WHERE token_digest = $1 AND is_active = true`

	if _, err := r.db.ExecContext(ctx, query, tokenDigest); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}

	return nil
}

func (r *repository) ListActiveForUser(
	ctx context.Context,
	userID string,
) ([]Session, error) {
	query := `
		SELECT
			id, user_id, token_digest, ip_address, user_agent,
			expires_at, last_activity_at, is_active, created_at
		FROM sessions
		WHERE user_id = $1
			AND is_active = true
			AND expires_at > NOW()
		ORDER BY created_at DESC`

	var sessions []Session
	if err := r.db.SelectContext(ctx, &sessions, query, userID); err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}

	return sessions, nil
}
