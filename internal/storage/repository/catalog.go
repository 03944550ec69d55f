package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/magabrotheeeer/magazine-subscriptions/internal/models"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/storage"
)

// CreateMagazine добавляет журнал в каталог и возвращает созданную запись.
func (s *Storage) CreateMagazine(ctx context.Context, m models.Magazine) (*models.Magazine, error) {
	const op = "storage.CreateMagazine"

	query, args, err := psql.Insert("magazines").
		Columns("name", "description", "base_price").
		Values(m.Name, m.Description, m.BasePrice).
		Suffix("RETURNING id, name, description, base_price").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var created models.Magazine
	if err := s.pool.QueryRow(ctx, query, args...).Scan(
		&created.ID, &created.Name, &created.Description, &created.BasePrice); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &created, nil
}

// ListMagazines возвращает все журналы каталога без фильтрации и пагинации.
func (s *Storage) ListMagazines(ctx context.Context) ([]*models.Magazine, error) {
	const op = "storage.ListMagazines"

	query, args, err := psql.Select("id", "name", "description", "base_price").
		From("magazines").
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

	result := make([]*models.Magazine, 0)
	for rows.Next() {
		var m models.Magazine
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.BasePrice); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetMagazine возвращает журнал по ID.
func (s *Storage) GetMagazine(ctx context.Context, id int) (*models.Magazine, error) {
	const op = "storage.GetMagazine"

	query, args, err := psql.Select("id", "name", "description", "base_price").
		From("magazines").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var m models.Magazine
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&m.ID, &m.Name, &m.Description, &m.BasePrice); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrMagazineNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &m, nil
}

// CreatePlan добавляет план подписки и возвращает созданную запись.
func (s *Storage) CreatePlan(ctx context.Context, p models.Plan) (*models.Plan, error) {
	const op = "storage.CreatePlan"

	query, args, err := psql.Insert("plans").
		Columns("title", "description", "renewal_period", "discount", "tier").
		Values(p.Title, p.Description, p.RenewalPeriod, p.Discount, p.Tier).
		Suffix("RETURNING id, title, description, renewal_period, discount, tier").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var created models.Plan
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&created.ID, &created.Title, &created.Description,
		&created.RenewalPeriod, &created.Discount, &created.Tier); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &created, nil
}
