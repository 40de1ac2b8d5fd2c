package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

var userRowColumns = []string{"id", "username", "email", "password", "first_name", "last_name", "is_active", "date_joined"}

func TestPostgresGetByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	joined := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("WHERE username = \\$1").
		WithArgs("erin").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(4, "erin", "e@example.com", "$2a$hash", "Erin", "", true, joined))
	mock.ExpectQuery("WHERE username = \\$1").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	u, err := repo.GetByUsername(context.Background(), "erin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != 4 || !u.IsActive || !u.DateJoined.Equal(joined) {
		t.Fatalf("unexpected user %+v", u)
	}
	if _, err := repo.GetByUsername(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCreate_MapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})

	created, err := repo.Create(context.Background(), User{Username: "frank", Password: "x", IsActive: true})
	if err != nil || created.ID != 11 {
		t.Fatalf("unexpected create result %+v %v", created, err)
	}
	if _, err := repo.Create(context.Background(), User{Username: "frank", Password: "x"}); !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresSetActive_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE users SET is_active").
		WithArgs(false, 12).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.SetActive(context.Background(), 12, false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
