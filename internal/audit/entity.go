// AngelaMos | 2026
// entity.go

package audit

import (
	"encoding/json"
	"time"
)

// Entry is an immutable record of a privileged action. There is no update
// or delete path, by contract.
type Entry struct {
	ID         string          `db:"id"`
	Action     string          `db:"action"`
	Resource   string          `db:"resource"`
	ResourceID *string         `db:"resource_id"`
	Details    json.RawMessage `db:"details"`
	IPAddress  string          `db:"ip_address"`
	UserAgent  string          `db:"user_agent"`
	ActorID    *string         `db:"actor_id"`
	Outcome    string          `db:"outcome"`
	CreatedAt  time.Time       `db:"created_at"`
}

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Event is the input to Record. Details takes any serializable payload;
// no schema is enforced beyond "must marshal".
type Event struct {
	Action     string
	Resource   string
	ResourceID string
	Details    map[string]any
	IPAddress  string
	UserAgent  string
	ActorID    string
	Outcome    string
}

type EntryResponse struct {
	ID         string          `json:"id"`
	Action     string          `json:"action"`
	Resource   string          `json:"resource"`
	ResourceID *string         `json:"resource_id,omitempty"`
	Details    json.RawMessage `json:"details,omitempty"`
	IPAddress  string          `json:"ip_address"`
	UserAgent  string          `json:"user_agent"`
	ActorID    *string         `json:"actor_id,omitempty"`
	Outcome    string          `json:"outcome"`
	CreatedAt  time.Time       `json:"created_at"`
}

type ListResponse struct {
	Entries []EntryResponse `json:"entries"`
}

// Listing page size is capped; larger requests are clamped, not rejected.
const maxPageSize = 100

type ListParams struct {
	Page     int
	PageSize int
	Resource string
	ActorID  string
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 50
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToEntryResponse(e *Entry) EntryResponse {
	return EntryResponse{
		ID:         e.ID,
		Action:     e.Action,
		Resource:   e.Resource,
		ResourceID: e.ResourceID,
		Details:    e.Details,
		IPAddress:  e.IPAddress,
		UserAgent:  e.UserAgent,
		ActorID:    e.ActorID,
		Outcome:    e.Outcome,
		CreatedAt:  e.CreatedAt,
	}
}
