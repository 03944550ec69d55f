// Package catalog содержит операции над каталогом журналов и планов.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/magazine-subscriptions/internal/cache"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/lib/sl"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/models"
)

// MagazinesKey ключ кеша полного списка журналов.
const MagazinesKey = "magazines:all"

type Repository interface {
	CreateMagazine(ctx context.Context, m models.Magazine) (*models.Magazine, error)
	ListMagazines(ctx context.Context) ([]*models.Magazine, error)
	GetMagazine(ctx context.Context, id int) (*models.Magazine, error)
	CreatePlan(ctx context.Context, p models.Plan) (*models.Plan, error)
}

type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

type Service struct {
	repo  Repository
	cache Cache
	guard *cache.Guard
	ttl   time.Duration
	log   *slog.Logger
}

func NewService(repo Repository, c Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: c,
		guard: cache.NewGuard(),
		ttl:   ttl,
		log:   log,
	}
}

// CreateMagazine сохраняет журнал и сбрасывает кеш списка журналов.
func (s *Service) CreateMagazine(ctx context.Context, req models.DummyMagazine) (*models.Magazine, error) {
	const op = "catalog.CreateMagazine"
	magazine, err := s.repo.CreateMagazine(ctx, models.Magazine{
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   req.BasePrice,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.guard.Invalidate(ctx, s.cache, MagazinesKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", MagazinesKey), sl.Err(err))
	}
	return magazine, nil
}

// ListMagazines возвращает все журналы без фильтрации и пагинации.
func (s *Service) ListMagazines(ctx context.Context) ([]*models.Magazine, error) {
	const op = "catalog.ListMagazines"
	snapshot, usable := s.guard.Snapshot(ctx, s.cache, MagazinesKey)
	if usable {
		var cached []*models.Magazine
		found, err := s.cache.Get(ctx, MagazinesKey, &cached)
		if err != nil {
			s.log.Warn("failed to read from cache", slog.String("key", MagazinesKey), sl.Err(err))
		} else if found {
			return cached, nil
		}
	}

	magazines, err := s.repo.ListMagazines(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !usable {
		return magazines, nil
	}
	if err := s.cache.Set(ctx, MagazinesKey, magazines, s.ttl); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", MagazinesKey), sl.Err(err))
	}
	if err := s.guard.Settle(ctx, s.cache, MagazinesKey, snapshot); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", MagazinesKey), sl.Err(err))
	}
	return magazines, nil
}

func (s *Service) GetMagazine(ctx context.Context, id int) (*models.Magazine, error) {
	const op = "catalog.GetMagazine"
	magazine, err := s.repo.GetMagazine(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return magazine, nil
}

func (s *Service) CreatePlan(ctx context.Context, req models.DummyPlan) (*models.Plan, error) {
	const op = "catalog.CreatePlan"
	plan, err := s.repo.CreatePlan(ctx, models.Plan{
		Title:         req.Title,
		Description:   req.Description,
		RenewalPeriod: req.RenewalPeriod,
		Discount:      req.Discount,
		Tier:          req.Tier,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return plan, nil
}
