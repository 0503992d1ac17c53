package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/parasjain182005/Travel-Website/internal/domain"
	"github.com/parasjain182005/Travel-Website/internal/repository"
	"github.com/parasjain182005/Travel-Website/internal/search"
	"github.com/parasjain182005/Travel-Website/pkg/logger"
	"github.com/parasjain182005/Travel-Website/pkg/slug"
	"github.com/parasjain182005/Travel-Website/pkg/validator"
)

// DefaultFeaturedLimit caps the featured tour list.
const DefaultFeaturedLimit = 8

const reindexBatchSize = 100

// TourService implements tour management and browsing.
type TourService struct {
	tours   repository.TourRepository
	reviews repository.ReviewRepository
	index   search.Engine
	logger  *slog.Logger
}

// NewTourService creates a tour service.
func NewTourService(tours repository.TourRepository, reviews repository.ReviewRepository, logger *slog.Logger) *TourService {
	return &TourService{tours: tours, reviews: reviews, logger: logger}
}

// UseSearchIndex routes SearchTours through idx and keeps idx in step with
// tour writes. Index failures are logged and never fail the write.
func (s *TourService) UseSearchIndex(idx search.Engine) {
	s.index = idx
}

// CreateTourInput holds the parameters for creating a tour.
type CreateTourInput struct {
	Title        string  `json:"title" validate:"required,trimmedmin=1"`
	City         string  `json:"city" validate:"required"`
	Address      string  `json:"address" validate:"required"`
	Distance     float64 `json:"distance" validate:"gte=1"`
	Photo        string  `json:"photo" validate:"required"`
	Desc         string  `json:"desc" validate:"required"`
	Price        float64 `json:"price" validate:"gte=0"`
	MaxGroupSize int     `json:"maxGroupSize" validate:"gte=1"`
	Featured     bool    `json:"featured"`
}

// UpdateTourInput holds the editable tour fields. Nil fields are kept.
type UpdateTourInput struct {
	Title        *string  `json:"title" validate:"omitempty,trimmedmin=1"`
	City         *string  `json:"city" validate:"omitempty,min=1"`
	Address      *string  `json:"address" validate:"omitempty,min=1"`
	Distance     *float64 `json:"distance" validate:"omitempty,gte=1"`
	Photo        *string  `json:"photo" validate:"omitempty,min=1"`
	Desc         *string  `json:"desc" validate:"omitempty,min=1"`
	Price        *float64 `json:"price" validate:"omitempty,gte=0"`
	MaxGroupSize *int     `json:"maxGroupSize" validate:"omitempty,gte=1"`
	Featured     *bool    `json:"featured"`
}

// CreateTour validates and stores a new tour. Its rating starts at {0, 0}.
func (s *TourService) CreateTour(ctx context.Context, in CreateTourInput) (*domain.Tour, error) {
	if err := validator.Validate(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	title := strings.TrimSpace(in.Title)
	tour := &domain.Tour{
		ID:           uuid.New().String(),
		Title:        title,
		Slug:         slug.Generate(title),
		City:         strings.TrimSpace(in.City),
		Address:      strings.TrimSpace(in.Address),
		Distance:     in.Distance,
		Photo:        in.Photo,
		Desc:         in.Desc,
		Price:        in.Price,
		MaxGroupSize: in.MaxGroupSize,
		Featured:     in.Featured,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.tours.Create(ctx, tour); err != nil {
		return nil, err
	}
	s.indexTour(ctx, tour)

	logger.WithContext(ctx, s.logger).InfoContext(ctx, "tour created",
		slog.String("tour_id", tour.ID),
		slog.String("slug", tour.Slug),
	)
	return tour, nil
}

// UpdateTour applies in to an existing tour. Changing the title regenerates
// the slug.
func (s *TourService) UpdateTour(ctx context.Context, id string, in UpdateTourInput) (*domain.Tour, error) {
	if err := validator.Validate(in); err != nil {
		return nil, err
	}

	tour, err := s.tours.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		tour.Title = strings.TrimSpace(*in.Title)
		tour.Slug = slug.Generate(tour.Title)
	}
	if in.City != nil {
		tour.City = strings.TrimSpace(*in.City)
	}
	if in.Address != nil {
		tour.Address = strings.TrimSpace(*in.Address)
	}
	if in.Distance != nil {
		tour.Distance = *in.Distance
	}
	if in.Photo != nil {
		tour.Photo = *in.Photo
	}
	if in.Desc != nil {
		tour.Desc = *in.Desc
	}
	if in.Price != nil {
		tour.Price = *in.Price
	}
	if in.MaxGroupSize != nil {
		tour.MaxGroupSize = *in.MaxGroupSize
	}
	if in.Featured != nil {
		tour.Featured = *in.Featured
	}

	if err := s.tours.Update(ctx, tour); err != nil {
		return nil, err
	}
	s.indexTour(ctx, tour)
	return tour, nil
}

// DeleteTour removes a tour together with its reviews.
func (s *TourService) DeleteTour(ctx context.Context, id string) error {
	if err := s.tours.Delete(ctx, id); err != nil {
		return err
	}
	if s.index != nil {
		if err := s.index.Delete(ctx, id); err != nil {
			logger.WithContext(ctx, s.logger).WarnContext(ctx, "search index delete failed",
				slog.String("tour_id", id),
				slog.String("error", err.Error()),
			)
		}
	}
	logger.WithContext(ctx, s.logger).InfoContext(ctx, "tour deleted", slog.String("tour_id", id))
	return nil
}

// GetTour returns a tour with its reviews.
func (s *TourService) GetTour(ctx context.Context, id string) (*domain.Tour, error) {
	tour, err := s.tours.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListByTour(ctx, id)
	if err != nil {
		return nil, err
	}
	tour.Reviews = reviews
	return tour, nil
}

// ListTours returns a page of tours.
func (s *TourService) ListTours(ctx context.Context, page, perPage int) ([]domain.Tour, int, error) {
	return s.tours.List(ctx, page, perPage)
}

// ListFeatured returns featured tours.
func (s *TourService) ListFeatured(ctx context.Context, limit int) ([]domain.Tour, error) {
	if limit <= 0 || limit > 100 {
		limit = DefaultFeaturedLimit
	}
	return s.tours.ListFeatured(ctx, limit)
}

// SearchTours filters tours by text, city, distance and group size.
func (s *TourService) SearchTours(ctx context.Context, filter domain.TourFilter) ([]domain.Tour, int, error) {
	if s.index == nil {
		return s.tours.Search(ctx, filter)
	}

	hits, err := s.index.Search(ctx, filter)
	if err != nil {
		logger.WithContext(ctx, s.logger).WarnContext(ctx, "search index unavailable, using database search",
			slog.String("error", err.Error()),
		)
		return s.tours.Search(ctx, filter)
	}

	// Hits are hydrated from the database so cached ratings are current.
	found, err := s.tours.ListByIDs(ctx, hits.IDs)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[string]domain.Tour, len(found))
	for _, t := range found {
		byID[t.ID] = t
	}
	tours := make([]domain.Tour, 0, len(hits.IDs))
	for _, id := range hits.IDs {
		if t, ok := byID[id]; ok {
			tours = append(tours, t)
		}
	}
	return tours, hits.Total, nil
}

// ReindexSearch loads every tour into the search index and returns how many
// were indexed.
func (s *TourService) ReindexSearch(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, nil
	}

	indexed := 0
	for page := 1; ; page++ {
		batch, total, err := s.tours.List(ctx, page, reindexBatchSize)
		if err != nil {
			return indexed, err
		}
		if len(batch) == 0 {
			break
		}
		if err := s.index.BulkIndex(ctx, batch); err != nil {
			return indexed, err
		}
		indexed += len(batch)
		if indexed >= total {
			break
		}
	}

	logger.WithContext(ctx, s.logger).InfoContext(ctx, "search index rebuilt", slog.Int("tours", indexed))
	return indexed, nil
}

func (s *TourService) indexTour(ctx context.Context, tour *domain.Tour) {
	if s.index == nil {
		return
	}
	if err := s.index.Index(ctx, tour); err != nil {
		logger.WithContext(ctx, s.logger).WarnContext(ctx, "search index update failed",
			slog.String("tour_id", tour.ID),
			slog.String("error", err.Error()),
		)
	}
}

// CountTours returns the number of tours.
func (s *TourService) CountTours(ctx context.Context) (int, error) {
	return s.tours.Count(ctx)
}
