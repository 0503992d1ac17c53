package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/parasjain182005/Travel-Website/internal/domain"
	"github.com/parasjain182005/Travel-Website/pkg/database"
	apperrors "github.com/parasjain182005/Travel-Website/pkg/errors"
)

const userColumns = `id, username, email, password_hash, photo, role, status, created_at, updated_at`

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a PostgreSQL-backed user repository.
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (err error) {
	query := `
		INSERT INTO users (id, username, email, password_hash, photo, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	ctx, end := database.TraceQuery(ctx, "users.create", query)
	defer func() { end(err) }()

	_, err = r.db.Exec(ctx, query,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Photo, u.Role, u.Status, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if constraint, ok := database.UniqueViolation(err); ok {
			return userConflict(constraint)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, "users.get", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail retrieves a user by email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "users.get_by_email", `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// Update writes the mutable user fields.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) (err error) {
	u.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE users
		SET username = $1, photo = $2, role = $3, status = $4, updated_at = $5
		WHERE id = $6`

	ctx, end := database.TraceQuery(ctx, "users.update", query)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, query, u.Username, u.Photo, u.Role, u.Status, u.UpdatedAt, u.ID)
	if err != nil {
		if constraint, ok := database.UniqueViolation(err); ok {
			return userConflict(constraint)
		}
		return fmt.Errorf("update user: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", u.ID)
	}
	return nil
}

// SetStatus changes the account status.
func (r *UserRepository) SetStatus(ctx context.Context, id, status string) (err error) {
	query := `UPDATE users SET status = $1, updated_at = NOW() WHERE id = $2`

	ctx, end := database.TraceQuery(ctx, "users.set_status", query)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("set user status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", id)
	}
	return nil
}

// List returns a page of users, optionally restricted to one status.
func (r *UserRepository) List(ctx context.Context, status string, page, perPage int) (_ []domain.User, _ int, err error) {
	query := `
		SELECT ` + userColumns + `, count(*) OVER() AS total_count
		FROM users
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	ctx, end := database.TraceQuery(ctx, "users.list", query)
	defer func() { end(err) }()

	limit, offset := limitOffset(page, perPage)
	rows, err := r.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	var total int
	for rows.Next() {
		var u domain.User
		if err = rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Photo, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate user rows: %w", err)
	}
	return users, total, nil
}

func (r *UserRepository) getOne(ctx context.Context, op, query string, arg any) (_ *domain.User, err error) {
	ctx, end := database.TraceQuery(ctx, op, query)
	defer func() { end(err) }()

	var u domain.User
	err = r.db.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Photo, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func userConflict(constraint string) error {
	if constraint == "users_username_key" {
		return apperrors.Conflict("Username already in use")
	}
	return apperrors.Conflict("Email already in use")
}
