package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parasjain182005/Travel-Website/internal/domain"
	apperrors "github.com/parasjain182005/Travel-Website/pkg/errors"
)

var userCols = []string{"id", "username", "email", "password_hash", "photo", "role", "status", "created_at", "updated_at"}

func sampleUser() domain.User {
	return domain.User{
		ID:           "u-1",
		Username:     "alice",
		Email:        "a@b.com",
		PasswordHash: "$2a$10$hash",
		Photo:        domain.DefaultPhoto,
		Role:         domain.RoleUser,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func userValues(u domain.User) []any {
	return []any{u.ID, u.Username, u.Email, u.PasswordHash, u.Photo, u.Role, u.Status, u.CreatedAt, u.UpdatedAt}
}

func TestUserRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	u := sampleUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(userValues(u)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), &u))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_Duplicates(t *testing.T) {
	tests := []struct {
		constraint string
		message    string
	}{
		{"users_email_key", "Email already in use"},
		{"users_username_key", "Username already in use"},
	}
	for _, tc := range tests {
		t.Run(tc.constraint, func(t *testing.T) {
			mock := newMock(t)
			repo := NewUserRepository(mock)
			u := sampleUser()

			mock.ExpectExec("INSERT INTO users").
				WithArgs(userValues(u)...).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tc.constraint})

			err := repo.Create(context.Background(), &u)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrConflict)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tc.message, appErr.Message)
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	want := sampleUser()

	mock.ExpectQuery("FROM users WHERE email = ").
		WithArgs("a@b.com").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(userValues(want)...))

	got, err := repo.GetByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("FROM users WHERE id = ").WithArgs("u-9").WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "u-9")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserRepository_Update(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	u := sampleUser()
	u.Username = "alice2"

	mock.ExpectExec("UPDATE users").
		WithArgs("alice2", u.Photo, u.Role, u.Status, pgxmock.AnyArg(), u.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.Update(context.Background(), &u))
}

func TestUserRepository_SetStatus_KeepsRow(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec("UPDATE users SET status").
		WithArgs(domain.StatusInactive, "u-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.SetStatus(context.Background(), "u-1", domain.StatusInactive))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_List_FiltersByStatus(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	u := sampleUser()

	cols := append(append([]string{}, userCols...), "total_count")
	mock.ExpectQuery("FROM users").
		WithArgs(domain.StatusActive, 10, 10).
		WillReturnRows(pgxmock.NewRows(cols).AddRow(append(userValues(u), 11)...))

	users, total, err := repo.List(context.Background(), domain.StatusActive, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
}
