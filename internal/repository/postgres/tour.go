package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/parasjain182005/Travel-Website/internal/domain"
	"github.com/parasjain182005/Travel-Website/pkg/database"
	apperrors "github.com/parasjain182005/Travel-Website/pkg/errors"
	"github.com/parasjain182005/Travel-Website/pkg/pagination"
)

const tourColumns = `id, title, slug, city, address, distance, photo, description, price,
	max_group_size, featured, average_rating, review_count, created_at, updated_at`

// searchQueryExpr matches the search column, which holds both simple and
// english lexemes, with either form of the user's query.
const searchQueryExpr = "(websearch_to_tsquery('simple', $%[1]d) || websearch_to_tsquery('english', $%[1]d))"

// TourRepository implements repository.TourRepository using PostgreSQL.
type TourRepository struct {
	db database.DBTX
}

// NewTourRepository creates a PostgreSQL-backed tour repository.
func NewTourRepository(db database.DBTX) *TourRepository {
	return &TourRepository{db: db}
}

// Create inserts a new tour.
func (r *TourRepository) Create(ctx context.Context, t *domain.Tour) (err error) {
	query := `
		INSERT INTO tours (id, title, slug, city, address, distance, photo, description, price,
			max_group_size, featured, average_rating, review_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	ctx, end := database.TraceQuery(ctx, "tours.create", query)
	defer func() { end(err) }()

	_, err = r.db.Exec(ctx, query,
		t.ID, t.Title, t.Slug, t.City, t.Address, t.Distance, t.Photo, t.Desc, t.Price,
		t.MaxGroupSize, t.Featured, t.AverageRating, t.ReviewCount, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if _, ok := database.UniqueViolation(err); ok {
			return apperrors.Conflict("Tour with this title already exists")
		}
		return fmt.Errorf("insert tour: %w", err)
	}
	return nil
}

// GetByID retrieves a tour by its ID.
func (r *TourRepository) GetByID(ctx context.Context, id string) (_ *domain.Tour, err error) {
	query := `SELECT ` + tourColumns + ` FROM tours WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "tours.get", query)
	defer func() { end(err) }()

	t, err := scanTour(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("tour", id)
		}
		return nil, fmt.Errorf("get tour: %w", err)
	}
	return t, nil
}

// Exists reports whether the tour exists.
func (r *TourRepository) Exists(ctx context.Context, id string) (_ bool, err error) {
	query := `SELECT EXISTS(SELECT 1 FROM tours WHERE id = $1)`

	ctx, end := database.TraceQuery(ctx, "tours.exists", query)
	defer func() { end(err) }()

	var exists bool
	if err = r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check tour exists: %w", err)
	}
	return exists, nil
}

// Update writes the editable tour fields.
func (r *TourRepository) Update(ctx context.Context, t *domain.Tour) (err error) {
	t.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE tours
		SET title = $1, slug = $2, city = $3, address = $4, distance = $5, photo = $6,
		    description = $7, price = $8, max_group_size = $9, featured = $10, updated_at = $11
		WHERE id = $12`

	ctx, end := database.TraceQuery(ctx, "tours.update", query)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, query,
		t.Title, t.Slug, t.City, t.Address, t.Distance, t.Photo,
		t.Desc, t.Price, t.MaxGroupSize, t.Featured, t.UpdatedAt,
		t.ID,
	)
	if err != nil {
		if _, ok := database.UniqueViolation(err); ok {
			return apperrors.Conflict("Tour with this title already exists")
		}
		return fmt.Errorf("update tour: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("tour", t.ID)
	}
	return nil
}

// Delete removes a tour; its reviews are removed by the foreign key cascade.
func (r *TourRepository) Delete(ctx context.Context, id string) (err error) {
	query := `DELETE FROM tours WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "tours.delete", query)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete tour: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("tour", id)
	}
	return nil
}

// List returns a page of tours, newest first.
func (r *TourRepository) List(ctx context.Context, page, perPage int) ([]domain.Tour, int, error) {
	return r.Search(ctx, domain.TourFilter{Page: page, PerPage: perPage})
}

// ListByIDs returns the tours whose ids are in ids.
func (r *TourRepository) ListByIDs(ctx context.Context, ids []string) (_ []domain.Tour, err error) {
	if len(ids) == 0 {
		return []domain.Tour{}, nil
	}
	query := `SELECT ` + tourColumns + `, 0 AS total_count FROM tours WHERE id = ANY($1::uuid[])`

	ctx, end := database.TraceQuery(ctx, "tours.list_by_ids", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list tours by id: %w", err)
	}
	tours, _, err := collectTours(rows)
	return tours, err
}

// ListFeatured returns up to limit featured tours.
func (r *TourRepository) ListFeatured(ctx context.Context, limit int) (_ []domain.Tour, err error) {
	query := `SELECT ` + tourColumns + `, 0 AS total_count
		FROM tours
		WHERE featured
		ORDER BY created_at DESC
		LIMIT $1`

	ctx, end := database.TraceQuery(ctx, "tours.list_featured", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list featured tours: %w", err)
	}
	tours, _, err := collectTours(rows)
	return tours, err
}

// Search returns tours matching filter. Query is matched with Postgres full
// text search over title, city and description; results are then ranked.
func (r *TourRepository) Search(ctx context.Context, f domain.TourFilter) (_ []domain.Tour, _ int, err error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
		orderBy    = "created_at DESC"
	)

	if q := strings.TrimSpace(f.Query); q != "" {
		tsq := fmt.Sprintf(searchQueryExpr, argIndex)
		conditions = append(conditions, "search @@ "+tsq)
		orderBy = "ts_rank(search, " + tsq + ") DESC, created_at DESC"
		args = append(args, q)
		argIndex++
	}
	if c := strings.TrimSpace(f.City); c != "" {
		conditions = append(conditions, fmt.Sprintf("lower(city) = lower($%d)", argIndex))
		args = append(args, c)
		argIndex++
	}
	if f.MinDistance > 0 {
		conditions = append(conditions, fmt.Sprintf("distance >= $%d", argIndex))
		args = append(args, f.MinDistance)
		argIndex++
	}
	if f.MinGroupSize > 0 {
		conditions = append(conditions, fmt.Sprintf("max_group_size >= $%d", argIndex))
		args = append(args, f.MinGroupSize)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM tours
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		tourColumns, whereClause, orderBy, argIndex, argIndex+1,
	)

	limit, offset := limitOffset(f.Page, f.PerPage)
	args = append(args, limit, offset)

	ctx, end := database.TraceQuery(ctx, "tours.search", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search tours: %w", err)
	}
	return collectTours(rows)
}

// Count returns the number of tours.
func (r *TourRepository) Count(ctx context.Context) (_ int, err error) {
	query := `SELECT COUNT(*) FROM tours`

	ctx, end := database.TraceQuery(ctx, "tours.count", query)
	defer func() { end(err) }()

	var n int
	if err = r.db.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tours: %w", err)
	}
	return n, nil
}

// RefreshRating stores the current review aggregate on the tour row.
// The aggregate is computed inside the UPDATE so the cached values always
// come from a single snapshot of the reviews table.
func (r *TourRepository) RefreshRating(ctx context.Context, id string) (_ domain.RatingSummary, err error) {
	query := `
		UPDATE tours t
		SET average_rating = s.avg_rating, review_count = s.review_count, updated_at = NOW()
		FROM (
			SELECT COALESCE(AVG(rating), 0) AS avg_rating, COUNT(*)::int AS review_count
			FROM reviews
			WHERE tour_id = $1
		) s
		WHERE t.id = $1
		RETURNING t.average_rating, t.review_count`

	ctx, end := database.TraceQuery(ctx, "tours.refresh_rating", query)
	defer func() { end(err) }()

	var s domain.RatingSummary
	if err = r.db.QueryRow(ctx, query, id).Scan(&s.AverageRating, &s.ReviewCount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RatingSummary{}, apperrors.NotFound("tour", id)
		}
		return domain.RatingSummary{}, fmt.Errorf("refresh tour rating: %w", err)
	}
	return s, nil
}

func scanTour(row pgx.Row, extra ...any) (*domain.Tour, error) {
	var t domain.Tour
	dest := []any{
		&t.ID, &t.Title, &t.Slug, &t.City, &t.Address, &t.Distance, &t.Photo, &t.Desc, &t.Price,
		&t.MaxGroupSize, &t.Featured, &t.AverageRating, &t.ReviewCount, &t.CreatedAt, &t.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &t, nil
}

func collectTours(rows pgx.Rows) ([]domain.Tour, int, error) {
	defer rows.Close()

	tours := []domain.Tour{}
	var total int
	for rows.Next() {
		t, err := scanTour(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan tour row: %w", err)
		}
		tours = append(tours, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate tour rows: %w", err)
	}
	return tours, total, nil
}

func limitOffset(page, perPage int) (int, int) {
	limit := perPage
	if limit <= 0 {
		limit = 20
	}
	return limit, (pagination.ClampPage(page, limit) - 1) * limit
}
