// AngelaMos | 2026
// recorder_test.go

package audit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
)

type fakeAuditRepo struct {
	entries   []*Entry
	insertErr error
}

func (f *fakeAuditRepo) Insert(ctx context.Context, entry *Entry) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) List(
	ctx context.Context,
	params ListParams,
) ([]Entry, error) {
	out := make([]Entry, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, *e)
	}
	return out, nil
}

func newTestRecorder(repo Repository) *Service {
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRecordPersistsEntry(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := newTestRecorder(repo)

	svc.Record(context.Background(), Event{
		Action:     "order.create",
		Resource:   "orders",
		ResourceID: "order-1",
		Details:    map[string]any{"order_number": "ORD-X"},
		IPAddress:  "10.0.0.1",
		UserAgent:  "test-agent",
		ActorID:    "user-1",
		Outcome:    OutcomeSuccess,
	})

	if len(repo.entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(repo.entries))
	}

	entry := repo.entries[0]
	if entry.ID == "" {
		t.Fatal("entry must carry a generated id")
	}
	if entry.Action != "order.create" || entry.Resource != "orders" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.ResourceID == nil || *entry.ResourceID != "order-1" {
		t.Fatalf("resource id not preserved: %v", entry.ResourceID)
	}
	if entry.ActorID == nil || *entry.ActorID != "user-1" {
		t.Fatalf("actor id not preserved: %v", entry.ActorID)
	}

	var details map[string]any
	if err := json.Unmarshal(entry.Details, &details); err != nil {
		t.Fatalf("details must be valid JSON: %v", err)
	}
	if details["order_number"] != "ORD-X" {
		t.Fatalf("details not preserved: %v", details)
	}
}

func TestRecordOmitsEmptyOptionalFields(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := newTestRecorder(repo)

	svc.Record(context.Background(), Event{
		Action:   "auth.login",
		Resource: "sessions",
		Outcome:  OutcomeFailure,
	})

	entry := repo.entries[0]
	if entry.ResourceID != nil {
		t.Fatalf("empty resource id must map to NULL, got %v",
			*entry.ResourceID)
	}
	if entry.ActorID != nil {
		t.Fatalf("empty actor id must map to NULL, got %v", *entry.ActorID)
	}
}

func TestRecordSwallowsWriteFailure(t *testing.T) {
	repo := &fakeAuditRepo{insertErr: errors.New("connection refused")}
	svc := newTestRecorder(repo)

	// Must not panic or surface the error to the caller.
	svc.Record(context.Background(), Event{
		Action:   "order.create",
		Resource: "orders",
		Outcome:  OutcomeSuccess,
	})

	if len(repo.entries) != 0 {
		t.Fatal("failed insert must not record an entry")
	}
}

func TestRecordUnserializableDetails(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := newTestRecorder(repo)

	svc.Record(context.Background(), Event{
		Action:   "order.create",
		Resource: "orders",
		Details:  map[string]any{"bad": make(chan int)},
		Outcome:  OutcomeSuccess,
	})

	if len(repo.entries) != 1 {
		t.Fatalf("expected the entry despite bad details, got %d",
			len(repo.entries))
	}
	if string(repo.entries[0].Details) != "{}" {
		t.Fatalf("unserializable details must fall back to {}, got %s",
			repo.entries[0].Details)
	}
}

func TestListParamsNormalize(t *testing.T) {
	tests := []struct {
		name         string
		in           ListParams
		wantPage     int
		wantPageSize int
	}{
		{"defaults", ListParams{}, 1, 50},
		{"clamped", ListParams{Page: 2, PageSize: 500}, 2, 100},
		{"kept", ListParams{Page: 3, PageSize: 25}, 3, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Normalize()
			if tt.in.Page != tt.wantPage || tt.in.PageSize != tt.wantPageSize {
				t.Fatalf("got page=%d size=%d, want page=%d size=%d",
					tt.in.Page, tt.in.PageSize, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}
