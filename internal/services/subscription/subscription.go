// Package subscription реализует жизненный цикл подписок: создание, выдачу активных
// подписок пользователя, продление (деактивация старой записи и создание новой) и отмену.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/magazine-subscriptions/internal/cache"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/events"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/lib/sl"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/models"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/storage"
)

var (
	ErrInvalidRenewalDate = errors.New("renewal_date must be in format YYYY-MM-DD")
	ErrOwnerMismatch      = errors.New("subscription belongs to another user")
)

// Repository определяет методы хранилища подписок.
type Repository interface {
	// CreateSubscription добавляет активную подписку и возвращает её с ID.
	CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
	// DeactivateSubscription снимает флаг активности и возвращает деактивированную запись.
	DeactivateSubscription(ctx context.Context, id int) (*models.Subscription, error)
	// ListActiveSubscriptions возвращает активные подписки пользователя.
	ListActiveSubscriptions(ctx context.Context, userID int) ([]*models.Subscription, error)
	// WithinTx выполняет fn в одной транзакции.
	WithinTx(ctx context.Context, fn func(tx storage.SubscriptionTx) error) error
}

// MagazineReader нужен для цены по умолчанию.
type MagazineReader interface {
	GetMagazine(ctx context.Context, id int) (*models.Magazine, error)
}

// Cache описывает методы для кеширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Service управляет подписками, кешем активных подписок и публикацией событий.
type Service struct {
	repo      Repository
	magazines MagazineReader
	cache     Cache
	guard     *cache.Guard
	events    events.Publisher
	ttl       time.Duration
	log       *slog.Logger
}

func NewService(repo Repository, magazines MagazineReader, c Cache, publisher events.Publisher, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		magazines: magazines,
		cache:     c,
		guard:     cache.NewGuard(),
		events:    publisher,
		ttl:       ttl,
		log:       log,
	}
}

// ActiveKey ключ кеша активных подписок пользователя.
func ActiveKey(userID int) string {
	return fmt.Sprintf("subscriptions:active:user:%d", userID)
}

func parseRenewalDate(raw string) (time.Time, error) {
	date, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return time.Time{}, ErrInvalidRenewalDate
	}
	return date, nil
}

// Create создаёт активную подписку. Если цена не передана, берётся базовая цена журнала
// без учёта скидки плана.
func (s *Service) Create(ctx context.Context, req models.DummyEntry) (*models.Subscription, error) {
	const op = "subscription.Create"
	renewalDate, err := parseRenewalDate(req.RenewalDate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	price := req.Price
	if price == 0 {
		magazine, err := s.magazines.GetMagazine(ctx, req.MagazineID)
		if errors.Is(err, storage.ErrMagazineNotFound) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrReferenceNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		price = magazine.BasePrice
	}

	created, err := s.repo.CreateSubscription(ctx, models.Subscription{
		UserID:      req.UserID,
		MagazineID:  req.MagazineID,
		PlanID:      req.PlanID,
		Price:       price,
		RenewalDate: renewalDate,
		IsActive:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created new subscription", slog.Int("id", created.ID), slog.Int("user_id", created.UserID))

	s.invalidate(ctx, created.UserID)
	s.publish(ctx, models.EventSubscriptionCreated, *created, 0)
	return created, nil
}

// ListActiveForUser возвращает активные подписки пользователя, сначала пытаясь взять их из кеша.
// Если после записи ключ не удалось удалить, кеш для пользователя не используется.
func (s *Service) ListActiveForUser(ctx context.Context, userID int) ([]*models.Subscription, error) {
	const op = "subscription.ListActiveForUser"
	key := ActiveKey(userID)

	snapshot, usable := s.guard.Snapshot(ctx, s.cache, key)
	if usable {
		var cached []*models.Subscription
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
		} else if found {
			return cached, nil
		}
	}

	subs, err := s.repo.ListActiveSubscriptions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !usable {
		return subs, nil
	}
	if err := s.cache.Set(ctx, key, subs, s.ttl); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
	}
	if err := s.guard.Settle(ctx, s.cache, key, snapshot); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), sl.Err(err))
	}
	return subs, nil
}

// Renew деактивирует активную подписку id и создаёт вместо неё новую с переданными
// журналом, планом и датой. Цена переносится из старой записи без изменений.
// Обе записи фиксируются в одной транзакции.
func (s *Service) Renew(ctx context.Context, id int, req models.DummyRenewal) (*models.Subscription, error) {
	const op = "subscription.Renew"
	renewalDate, err := parseRenewalDate(req.RenewalDate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var previous, renewed *models.Subscription
	err = s.repo.WithinTx(ctx, func(tx storage.SubscriptionTx) error {
		var err error
		previous, err = tx.DeactivateSubscription(ctx, id)
		if err != nil {
			return err
		}
		if req.UserID != 0 && req.UserID != previous.UserID {
			return ErrOwnerMismatch
		}
		renewed, err = tx.CreateSubscription(ctx, models.Subscription{
			UserID:      previous.UserID,
			MagazineID:  req.MagazineID,
			PlanID:      req.PlanID,
			Price:       previous.Price,
			RenewalDate: renewalDate,
			IsActive:    true,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("renewed subscription", slog.Int("previous_id", previous.ID), slog.Int("id", renewed.ID))

	s.invalidate(ctx, renewed.UserID)
	s.publish(ctx, models.EventSubscriptionRenewed, *renewed, previous.ID)
	return renewed, nil
}

// Cancel деактивирует активную подписку. Повторная отмена даёт storage.ErrSubscriptionNotFound.
func (s *Service) Cancel(ctx context.Context, id int) error {
	const op = "subscription.Cancel"
	canceled, err := s.repo.DeactivateSubscription(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("canceled subscription", slog.Int("id", canceled.ID))

	s.invalidate(ctx, canceled.UserID)
	s.publish(ctx, models.EventSubscriptionCanceled, *canceled, 0)
	return nil
}

func (s *Service) invalidate(ctx context.Context, userID int) {
	key := ActiveKey(userID)
	if err := s.guard.Invalidate(ctx, s.cache, key); err != nil {
		s.log.Warn("failed to remove from cache, bypassing it until removal succeeds",
			slog.String("key", key), sl.Err(err))
	}
}

func (s *Service) publish(ctx context.Context, eventType models.EventType, sub models.Subscription, previousID int) {
	if err := s.events.Publish(ctx, eventType, sub, previousID); err != nil {
		s.log.Warn("failed to publish event",
			slog.String("type", string(eventType)),
			slog.Int("subscription_id", sub.ID),
			sl.Err(err),
		)
	}
}
