// AngelaMos | 2026
// repository_test.go

package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/angelamos/wholesale-api/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	return NewRepository(sqlx.NewDb(mockDB, "sqlmock")), mock
}

func userRow(id, username, email string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "username", "email", "password_hash", "full_name", "tier",
		"status", "failed_login_attempts", "last_login_at",
		"created_at", "updated_at",
	}).AddRow(
		id, username, email, "$argon2id$...", "Test User", TierBasic,
		StatusActive, 0, nil, now, now,
	)
}

func TestGetByUsernameOrEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("alice").
		WillReturnRows(userRow("u1", "alice", "alice@example.com"))

	u, err := repo.GetByUsernameOrEmail(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByUsernameOrEmail: %v", err)
	}
	if u.ID != "u1" || u.Username != "alice" {
		t.Fatalf("unexpected user: %+v", u)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByUsernameOrEmailNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByUsernameOrEmail(context.Background(), "nobody")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordLoginFailureIncrements(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE users").
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.RecordLoginFailure(context.Background(), "u1"); err != nil {
		t.Fatalf("RecordLoginFailure: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRecordLoginSuccessUnknownUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE users").
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RecordLoginSuccess(context.Background(), "ghost")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePasswordHash(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE users").
		WithArgs("u1", "$argon2id$new").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdatePasswordHash(
		context.Background(), "u1", "$argon2id$new")
	if err != nil {
		t.Fatalf("UpdatePasswordHash: %v", err)
	}
}

func TestGetTier(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT tier FROM users").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"tier"}).AddRow(TierAdmin))

	tier, err := repo.GetTier(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetTier: %v", err)
	}
	if tier != TierAdmin {
		t.Fatalf("unexpected tier %q", tier)
	}
}
