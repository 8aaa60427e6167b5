// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/angelamos/wholesale-api/internal/core"
)

const userColumns = `id, username, email, password_hash, full_name, tier,
	       status, failed_login_attempts, last_login_at, created_at, updated_at`

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsernameOrEmail(ctx context.Context, identity string) (*User, error)
	GetTier(ctx context.Context, id string) (string, error)
	Update(ctx context.Context, id string, fields UpdateFields) (*User, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateTier(ctx context.Context, id, tier string) error
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	RecordLoginSuccess(ctx context.Context, id string) error
	RecordLoginFailure(ctx context.Context, id string) error
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
}

// UpdateFields is the explicit partial-update contract: a nil field is
// left untouched. Replaces ad-hoc SQL assembly from request maps.
type UpdateFields struct {
	Email    *string
	FullName *string
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, full_name, tier, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, user, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Tier,
		user.Status,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE id = $1`, userColumns)

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// GetByUsernameOrEmail matches either identity column exactly,
// case-sensitive.
func (r *repository) GetByUsernameOrEmail(
	ctx context.Context,
	identity string,
) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE username = $1 OR email = $1`, userColumns)

	var user User
	err := r.db.GetContext(ctx, &user, query, identity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by identity: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by identity: %w", err)
	}

	return &user, nil
}

func (r *repository) GetTier(ctx context.Context, id string) (string, error) {
	query := `SELECT tier FROM users WHERE id = $1`

	var tier string
	err := r.db.GetContext(ctx, &tier, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get user tier: %w", core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get user tier: %w", err)
	}

	return tier, nil
}

func (r *repository) Update(
	ctx context.Context,
	id string,
	fields UpdateFields,
) (*User, error) {
	var sets []string
	var args []any
	argIdx := 1

	if fields.Email != nil {
		sets = append(sets, fmt.Sprintf("email = $%d", argIdx))
		args = append(args, *fields.Email)
		argIdx++
	}

	if fields.FullName != nil {
		sets = append(sets, fmt.Sprintf("full_name = $%d", argIdx))
		args = append(args, *fields.FullName)
		argIdx++
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE users
		SET %s
		WHERE id = $%d
		RETURNING %s`,
		strings.Join(sets, ", "), argIdx, userColumns)

	var user User
	err := r.db.GetContext(ctx, &user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, fmt.Errorf("update user: %w", core.ErrDuplicateKey)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	return &user, nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	id, status string,
) error {
	query := `
		UPDATE users
		SET status = $2, updated_at = NOW()
		WHERE id = $1`

	return r.execExpectingRow(ctx, "update status", query, id, status)
}

func (r *repository) UpdateTier(ctx context.Context, id, tier string) error {
	query := `
		UPDATE users
		SET tier = $2, updated_at = NOW()
		WHERE id = $1`

	return r.execExpectingRow(ctx, "update tier", query, id, tier)
}

func (r *repository) RecordLoginSuccess(
	ctx context.Context,
	id string,
) error {
	query := `
		UPDATE users
		SET failed_login_attempts = 0, last_login_at = NOW(), updated_at = NOW()
		WHERE id = $1`

	return r.execExpectingRow(ctx, "record login success", query, id)
}

func (r *repository) UpdatePasswordHash(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`

	return r.execExpectingRow(ctx, "update password hash", query, id, passwordHash)
}

func (r *repository) RecordLoginFailure(
	ctx context.Context,
	id string,
) error {
	query := `
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1, updated_at = NOW()
		WHERE id = $1`

	return r.execExpectingRow(ctx, "record login failure", query, id)
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "TRUE")

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(username ILIKE $%d OR email ILIKE $%d OR full_name ILIKE $%d)",
			argIdx, argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Tier != "" {
		conditions = append(conditions, fmt.Sprintf("tier = $%d", argIdx))
		args = append(args, params.Tier)
		argIdx++
	}

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM users WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func (r *repository) execExpectingRow(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
