// AngelaMos | 2026
// recorder.go

package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/angelamos/wholesale-api/internal/metrics"
)

// Recorder appends audit entries. Implementations must never let a
// persistence failure reach the business operation being described.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Record appends one entry, fire-and-forget. A write failure is logged to
// the operational channel and swallowed; audit is best-effort
// observability, not a transactional participant.
func (s *Service) Record(ctx context.Context, event Event) {
	details, err := json.Marshal(event.Details)
	if err != nil {
		s.logger.Error("audit details not serializable",
			"action", event.Action,
			"resource", event.Resource,
			"error", err,
		)
		details = []byte("{}")
	}

	entry := &Entry{
		ID:        uuid.New().String(),
		Action:    event.Action,
		Resource:  event.Resource,
		Details:   details,
		IPAddress: event.IPAddress,
		UserAgent: event.UserAgent,
		Outcome:   event.Outcome,
	}

	if event.ResourceID != "" {
		entry.ResourceID = &event.ResourceID
	}
	if event.ActorID != "" {
		entry.ActorID = &event.ActorID
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		metrics.ObserveAuditWriteFailure()
		s.logger.Error("audit write failed",
			"action", event.Action,
			"resource", event.Resource,
			"outcome", event.Outcome,
			"error", err,
		)
	}
}

func (s *Service) List(
	ctx context.Context,
	params ListParams,
) ([]Entry, error) {
	return s.repo.List(ctx, params)
}
