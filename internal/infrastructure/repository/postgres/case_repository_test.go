package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kittipatc/opsdesk/internal/core/domain"
)

func newCaseRepoWithMock(t *testing.T) (*CaseRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &CaseRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestCaseGetByIDReturnsNotFound(t *testing.T) {
	repo, mock, done := newCaseRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, title, description, category").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCaseListFiltersByStatus(t *testing.T) {
	repo, mock, done := newCaseRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, title, description, category").
		WithArgs(20, "open").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "description", "category", "assignee", "priority",
			"status", "created_at", "updated_at", "closed_at",
		}).AddRow(
			"case-1", "refund dispute", "customer charged twice", "billing", "somchai", 2,
			"open", now, now, nil,
		))

	out, err := repo.List(context.Background(), domain.CaseStatusOpen, 20)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 case, got %d", len(out))
	}
	if out[0].Status != domain.CaseStatusOpen || out[0].Priority != 2 {
		t.Fatalf("unexpected case: %+v", out[0])
	}
	if out[0].ClosedAt != nil {
		t.Fatalf("expected nil ClosedAt for open case")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCaseUpdateReturnsNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newCaseRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE cases").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &domain.Case{ID: "missing", Status: domain.CaseStatusClosed})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
