// AngelaMos | 2026
// repository.go

package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelamos/wholesale-api/internal/core"
)

type Repository interface {
	Insert(ctx context.Context, entry *Entry) error
	List(ctx context.Context, params ListParams) ([]Entry, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, entry *Entry) error {
	query := `
		INSERT INTO audit_logs (
			id, action, resource, resource_id, details,
			ip_address, user_agent, actor_id, outcome
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &entry.CreatedAt, query,
		entry.ID,
		entry.Action,
		entry.Resource,
		entry.ResourceID,
		entry.Details,
		entry.IPAddress,
		entry.UserAgent,
		entry.ActorID,
		entry.Outcome,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	return nil
}

// List returns entries newest first.
func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Entry, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "TRUE")

	if params.Resource != "" {
		conditions = append(conditions, fmt.Sprintf("resource = $%d", argIdx))
		args = append(args, params.Resource)
		argIdx++
	}

	if params.ActorID != "" {
		conditions = append(conditions, fmt.Sprintf("actor_id = $%d", argIdx))
		args = append(args, params.ActorID)
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT id, action, resource, resource_id, details,
		       ip_address, user_agent, actor_id, outcome, created_at
		FROM audit_logs
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		strings.Join(conditions, " AND "), argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var entries []Entry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}

	return entries, nil
}
