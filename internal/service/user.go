package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/parasjain182005/Travel-Website/internal/domain"
	"github.com/parasjain182005/Travel-Website/internal/repository"
	apperrors "github.com/parasjain182005/Travel-Website/pkg/errors"
	"github.com/parasjain182005/Travel-Website/pkg/logger"
	"github.com/parasjain182005/Travel-Website/pkg/validator"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// TokenIssuer issues access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID, role string) (string, time.Time, error)
}

// UserService implements registration, login and account management.
type UserService struct {
	users  repository.UserRepository
	tokens TokenIssuer
	logger *slog.Logger
	cost   int
}

// NewUserService creates a user service.
func NewUserService(users repository.UserRepository, tokens TokenIssuer, logger *slog.Logger) *UserService {
	return &UserService{users: users, tokens: tokens, logger: logger, cost: bcryptCost}
}

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Username string `json:"username" validate:"required,trimmedmin=1,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Photo    string `json:"photo" validate:"omitempty,url"`
}

// LoginInput holds the parameters for user login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserInput holds the editable account fields. Nil fields are kept.
// Role may only be changed by an admin.
type UpdateUserInput struct {
	Username *string `json:"username" validate:"omitempty,trimmedmin=1,max=50"`
	Photo    *string `json:"photo" validate:"omitempty,url"`
	Role     *string `json:"role" validate:"omitempty,oneof=user admin moderator"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// Register creates an account and signs the new user in. A taken email or
// username is a conflict and leaves the existing account untouched.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validator.Validate(in); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperrors.Conflict("Email already in use")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	photo := in.Photo
	if photo == "" {
		photo = domain.DefaultPhoto
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Photo:        photo,
		Role:         domain.RoleUser,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.WithContext(ctx, s.logger).InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	return s.signIn(user)
}

// Login verifies credentials and issues a token.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validator.Validate(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid email or password")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}
	if !user.IsActive() {
		return nil, apperrors.Unauthorized("account is deactivated")
	}

	logger.WithContext(ctx, s.logger).InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))
	return s.signIn(user)
}

func (s *UserService) signIn(user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// GetUser returns an account visible to the actor.
func (s *UserService) GetUser(ctx context.Context, actor Actor, id string) (*domain.User, error) {
	if !actor.Owns(id) && !actor.IsAdmin() {
		return nil, apperrors.Forbidden("you can only view your own account")
	}
	return s.users.GetByID(ctx, id)
}

// ListUsers returns a page of all accounts.
func (s *UserService) ListUsers(ctx context.Context, page, perPage int) ([]domain.User, int, error) {
	return s.users.List(ctx, "", page, perPage)
}

// ListActiveUsers returns a page of accounts that have not been deactivated.
func (s *UserService) ListActiveUsers(ctx context.Context, page, perPage int) ([]domain.User, int, error) {
	return s.users.List(ctx, domain.StatusActive, page, perPage)
}

// UpdateUser edits an account. Users may edit themselves; admins anyone.
func (s *UserService) UpdateUser(ctx context.Context, actor Actor, id string, in UpdateUserInput) (*domain.User, error) {
	if !actor.Owns(id) && !actor.IsAdmin() {
		return nil, apperrors.Forbidden("you can only update your own account")
	}
	if in.Role != nil && !actor.IsAdmin() {
		return nil, apperrors.Forbidden("only admins can change roles")
	}
	if err := validator.Validate(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Username != nil {
		user.Username = strings.TrimSpace(*in.Username)
	}
	if in.Photo != nil {
		user.Photo = *in.Photo
	}
	if in.Role != nil {
		user.Role = *in.Role
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeactivateUser soft-deletes an account. The row is kept with status
// inactive and can no longer sign in.
func (s *UserService) DeactivateUser(ctx context.Context, actor Actor, id string) error {
	if !actor.Owns(id) && !actor.IsAdmin() {
		return apperrors.Forbidden("you can only deactivate your own account")
	}
	if err := s.users.SetStatus(ctx, id, domain.StatusInactive); err != nil {
		return err
	}
	logger.WithContext(ctx, s.logger).InfoContext(ctx, "user deactivated",
		slog.String("user_id", id),
		slog.String("by", actor.UserID),
	)
	return nil
}
