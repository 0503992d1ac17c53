package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/parasjain182005/Travel-Website/internal/domain"
	"github.com/parasjain182005/Travel-Website/pkg/database"
	apperrors "github.com/parasjain182005/Travel-Website/pkg/errors"
)

const reviewColumns = `id, tour_id, COALESCE(user_id::text, ''), username, review_text, rating, created_at, updated_at`

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	db database.DBTX
}

// NewReviewRepository creates a PostgreSQL-backed review repository.
func NewReviewRepository(db database.DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review. A missing tour surfaces as not found.
func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) (err error) {
	query := `
		INSERT INTO reviews (id, tour_id, user_id, username, review_text, rating, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8)`

	ctx, end := database.TraceQuery(ctx, "reviews.create", query)
	defer func() { end(err) }()

	_, err = r.db.Exec(ctx, query,
		rv.ID, rv.TourID, rv.UserID, rv.Username, rv.ReviewText, rv.Rating, rv.CreatedAt, rv.UpdatedAt,
	)
	if err != nil {
		if constraint, ok := foreignKeyViolation(err); ok {
			if constraint == "reviews_user_id_fkey" {
				return apperrors.NotFound("user", rv.UserID)
			}
			return apperrors.NotFound("tour", rv.TourID)
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// GetByID retrieves a review by its ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (_ *domain.Review, err error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "reviews.get", query)
	defer func() { end(err) }()

	var rv domain.Review
	err = r.db.QueryRow(ctx, query, id).Scan(
		&rv.ID, &rv.TourID, &rv.UserID, &rv.Username, &rv.ReviewText, &rv.Rating, &rv.CreatedAt, &rv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", id)
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return &rv, nil
}

// Update writes the review text and rating.
func (r *ReviewRepository) Update(ctx context.Context, rv *domain.Review) (err error) {
	rv.UpdatedAt = time.Now().UTC()
	query := `UPDATE reviews SET review_text = $1, rating = $2, updated_at = $3 WHERE id = $4`

	ctx, end := database.TraceQuery(ctx, "reviews.update", query)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, query, rv.ReviewText, rv.Rating, rv.UpdatedAt, rv.ID)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", rv.ID)
	}
	return nil
}

// Delete removes a review.
func (r *ReviewRepository) Delete(ctx context.Context, id string) (err error) {
	query := `DELETE FROM reviews WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "reviews.delete", query)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", id)
	}
	return nil
}

// ListByTour returns the tour's reviews, newest first.
func (r *ReviewRepository) ListByTour(ctx context.Context, tourID string) (_ []domain.Review, err error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE tour_id = $1 ORDER BY created_at DESC`

	ctx, end := database.TraceQuery(ctx, "reviews.list_by_tour", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, tourID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var rv domain.Review
		if err = rows.Scan(
			&rv.ID, &rv.TourID, &rv.UserID, &rv.Username, &rv.ReviewText, &rv.Rating, &rv.CreatedAt, &rv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}
	return reviews, nil
}

// Summary returns the unrounded mean rating and count of the tour's reviews.
func (r *ReviewRepository) Summary(ctx context.Context, tourID string) (_ domain.RatingSummary, err error) {
	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM reviews
		WHERE tour_id = $1`

	ctx, end := database.TraceQuery(ctx, "reviews.summary", query)
	defer func() { end(err) }()

	var s domain.RatingSummary
	if err = r.db.QueryRow(ctx, query, tourID).Scan(&s.AverageRating, &s.ReviewCount); err != nil {
		return domain.RatingSummary{}, fmt.Errorf("get review summary: %w", err)
	}
	return s, nil
}

func foreignKeyViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23503" {
		return "", false
	}
	return pgErr.ConstraintName, true
}
