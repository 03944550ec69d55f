// Package storage описывает общие для всех реализаций хранилища ошибки
// и контракт транзакционного доступа к подпискам.
package storage

import (
	"context"
	"errors"

	"github.com/magabrotheeeer/magazine-subscriptions/internal/models"
)

var (
	ErrSubscriptionNotFound = errors.New("active subscription not found")
	ErrMagazineNotFound     = errors.New("magazine not found")
	ErrReferenceNotFound    = errors.New("referenced magazine or plan does not exist")
	ErrUserExists           = errors.New("user with this username or email already exists")
	ErrUserNotFound         = errors.New("user not found")
)

// SubscriptionTx операции над подписками, доступные внутри одной транзакции.
type SubscriptionTx interface {
	// CreateSubscription вставляет запись и возвращает её вместе с сгенерированным ID.
	CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
	// DeactivateSubscription снимает флаг активности, только если он был установлен,
	// и возвращает уже деактивированную запись. Если активной записи нет,
	// ErrSubscriptionNotFound.
	DeactivateSubscription(ctx context.Context, id int) (*models.Subscription, error)
}
