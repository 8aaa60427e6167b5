// AngelaMos | 2026
// repository_test.go

package rbac

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
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

func TestHasPermissionUnionQuery(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("u1", "orders", "create").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	allowed, err := repo.HasPermission(
		context.Background(), "u1", "orders", "create")
	if err != nil {
		t.Fatalf("HasPermission: %v", err)
	}
	if !allowed {
		t.Fatal("expected allowed")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHasPermissionDenied(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("u1", "audit_logs", "read").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	allowed, err := repo.HasPermission(
		context.Background(), "u1", "audit_logs", "read")
	if err != nil {
		t.Fatalf("HasPermission: %v", err)
	}
	if allowed {
		t.Fatal("expected denied")
	}
}

func TestAssignRoleIdempotent(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO user_roles").
		WithArgs("u1", "r1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_roles").
		WithArgs("u1", "r1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.AssignRole(context.Background(), "u1", "r1"); err != nil {
		t.Fatalf("AssignRole: %v", err)
	}
	if err := repo.AssignRole(context.Background(), "u1", "r1"); err != nil {
		t.Fatalf("repeat AssignRole must succeed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRevokePermissionUnknownGrant(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM user_permissions").
		WithArgs("u1", "p1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RevokePermission(context.Background(), "u1", "p1")
	if err != nil {
		t.Fatalf("revoking an absent grant must succeed: %v", err)
	}
}
