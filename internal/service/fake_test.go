package service

import (
	"context"
	"sort"
	"sync"

	"github.com/parasjain182005/Travel-Website/internal/domain"
	apperrors "github.com/parasjain182005/Travel-Website/pkg/errors"
)

// memStore backs in-memory tour and review repositories so rating tests can
// observe the cached aggregate end to end.
type memStore struct {
	mu         sync.Mutex
	tours      map[string]domain.Tour
	reviews    map[string]domain.Review
	refreshErr error
}

func newMemStore(tours ...domain.Tour) *memStore {
	s := &memStore{tours: map[string]domain.Tour{}, reviews: map[string]domain.Review{}}
	for _, t := range tours {
		s.tours[t.ID] = t
	}
	return s
}

func (s *memStore) ratings(tourID string) []float64 {
	var out []float64
	for _, r := range s.reviews {
		if r.TourID == tourID {
			out = append(out, r.Rating)
		}
	}
	return out
}

func (s *memStore) tour(id string) domain.Tour {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tours[id]
}

type memTours struct{ s *memStore }

func (m memTours) Create(_ context.Context, t *domain.Tour) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.tours {
		if existing.Title == t.Title {
			return apperrors.Conflict("Tour with this title already exists")
		}
	}
	m.s.tours[t.ID] = *t
	return nil
}

func (m memTours) GetByID(_ context.Context, id string) (*domain.Tour, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	t, ok := m.s.tours[id]
	if !ok {
		return nil, apperrors.NotFound("tour", id)
	}
	return &t, nil
}

func (m memTours) Exists(_ context.Context, id string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_, ok := m.s.tours[id]
	return ok, nil
}

func (m memTours) Update(_ context.Context, t *domain.Tour) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.tours[t.ID]; !ok {
		return apperrors.NotFound("tour", t.ID)
	}
	m.s.tours[t.ID] = *t
	return nil
}

func (m memTours) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.tours[id]; !ok {
		return apperrors.NotFound("tour", id)
	}
	delete(m.s.tours, id)
	for rid, r := range m.s.reviews {
		if r.TourID == id {
			delete(m.s.reviews, rid)
		}
	}
	return nil
}

func (m memTours) List(_ context.Context, _, _ int) ([]domain.Tour, int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]domain.Tour, 0, len(m.s.tours))
	for _, t := range m.s.tours {
		out = append(out, t)
	}
	return out, len(out), nil
}

func (m memTours) ListFeatured(ctx context.Context, limit int) ([]domain.Tour, error) {
	all, _, _ := m.List(ctx, 1, limit)
	var out []domain.Tour
	for _, t := range all {
		if t.Featured && len(out) < limit {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m memTours) Search(ctx context.Context, _ domain.TourFilter) ([]domain.Tour, int, error) {
	return m.List(ctx, 1, 0)
}

func (m memTours) Count(_ context.Context) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return len(m.s.tours), nil
}

func (m memTours) RefreshRating(_ context.Context, id string) (domain.RatingSummary, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.refreshErr != nil {
		return domain.RatingSummary{}, m.s.refreshErr
	}
	t, ok := m.s.tours[id]
	if !ok {
		return domain.RatingSummary{}, apperrors.NotFound("tour", id)
	}
	summary := domain.ComputeRating(m.s.ratings(id))
	t.AverageRating = summary.AverageRating
	t.ReviewCount = summary.ReviewCount
	m.s.tours[id] = t
	return summary, nil
}

type memReviews struct{ s *memStore }

func (m memReviews) Create(_ context.Context, r *domain.Review) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.tours[r.TourID]; !ok {
		return apperrors.NotFound("tour", r.TourID)
	}
	m.s.reviews[r.ID] = *r
	return nil
}

func (m memReviews) GetByID(_ context.Context, id string) (*domain.Review, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.reviews[id]
	if !ok {
		return nil, apperrors.NotFound("review", id)
	}
	return &r, nil
}

func (m memReviews) Update(_ context.Context, r *domain.Review) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.reviews[r.ID]; !ok {
		return apperrors.NotFound("review", r.ID)
	}
	m.s.reviews[r.ID] = *r
	return nil
}

func (m memReviews) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.reviews[id]; !ok {
		return apperrors.NotFound("review", id)
	}
	delete(m.s.reviews, id)
	return nil
}

func (m memReviews) ListByTour(_ context.Context, tourID string) ([]domain.Review, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []domain.Review
	for _, r := range m.s.reviews {
		if r.TourID == tourID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m memReviews) Summary(_ context.Context, tourID string) (domain.RatingSummary, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return domain.ComputeRating(m.s.ratings(tourID)), nil
}

func (m memTours) ListByIDs(_ context.Context, ids []string) ([]domain.Tour, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := []domain.Tour{}
	for _, id := range ids {
		if t, ok := m.s.tours[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}
