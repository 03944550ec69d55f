package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/magabrotheeeer/magazine-subscriptions/internal/models"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/storage"
)

var subscriptionColumns = []string{
	"id", "user_id", "magazine_id", "plan_id", "price", "renewal_date", "is_active",
}

func scanSubscription(row pgx.Row) (*models.Subscription, error) {
	var sub models.Subscription
	if err := row.Scan(&sub.ID, &sub.UserID, &sub.MagazineID, &sub.PlanID,
		&sub.Price, &sub.RenewalDate, &sub.IsActive); err != nil {
		return nil, err
	}
	return &sub, nil
}

func createSubscription(ctx context.Context, q querier, sub models.Subscription) (*models.Subscription, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query, args, err := psql.Insert("subscriptions").
		Columns("user_id", "magazine_id", "plan_id", "price", "renewal_date", "is_active").
		Values(sub.UserID, sub.MagazineID, sub.PlanID, sub.Price, sub.RenewalDate, true).
		Suffix("RETURNING " + strings.Join(subscriptionColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := scanSubscription(q.QueryRow(ctx, query, args...))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrReferenceNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

func deactivateSubscription(ctx context.Context, q querier, id int) (*models.Subscription, error) {
	const op = "storage.DeactivateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	// Условие на is_active делает снятие флага атомарной проверкой-и-записью:
	// из конкурирующих запросов строку получит только один.
	query, args, err := psql.Update("subscriptions").
		Set("is_active", false).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"is_active": true}).
		Suffix("RETURNING " + strings.Join(subscriptionColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sub, err := scanSubscription(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrSubscriptionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// CreateSubscription вставляет новую активную подписку и возвращает созданную запись.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	return createSubscription(ctx, s.pool, sub)
}

// DeactivateSubscription снимает флаг активности с подписки вне транзакции.
func (s *Storage) DeactivateSubscription(ctx context.Context, id int) (*models.Subscription, error) {
	return deactivateSubscription(ctx, s.pool, id)
}

// ListActiveSubscriptions возвращает все активные подписки пользователя.
func (s *Storage) ListActiveSubscriptions(ctx context.Context, userID int) ([]*models.Subscription, error) {
	const op = "storage.ListActiveSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query, args, err := psql.Select(subscriptionColumns...).
		From("subscriptions").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"is_active": true}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]*models.Subscription, 0)
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func (t *txStorage) CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	return createSubscription(ctx, t.q, sub)
}

func (t *txStorage) DeactivateSubscription(ctx context.Context, id int) (*models.Subscription, error) {
	return deactivateSubscription(ctx, t.q, id)
}
