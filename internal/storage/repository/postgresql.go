// Package repository реализует хранилище данных на основе PostgreSQL
// для пользователей, каталога журналов и планов, а также подписок.
// Запросы собираются через squirrel и выполняются через пул соединений pgx:
// каждый вызов берёт соединение из пула и гарантированно возвращает его.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/magabrotheeeer/magazine-subscriptions/internal/config"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/storage"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool часть pgxpool.Pool, которой пользуется хранилище.
type Pool interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage инкапсулирует пул соединений с PostgreSQL.
type Storage struct {
	pool Pool
}

// Connect создаёт пул соединений по настройкам и проверяет его ping'ом.
// Подключение повторяется cfg.ConnectRetries раз с растущей паузой.
func Connect(ctx context.Context, cfg config.Storage) (*pgxpool.Pool, error) {
	const op = "storage.Connect"

	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime

	attempts := max(cfg.ConnectRetries, 1)
	for i := range attempts {
		var pool *pgxpool.Pool
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%s: %w", op, ctx.Err())
			case <-time.After(time.Duration(i+1) * cfg.ConnectInterval):
			}
		}
	}
	return nil, fmt.Errorf("%s: %w", op, err)
}

// New оборачивает пул соединений (в тестах его мок).
func New(pool Pool) *Storage {
	return &Storage{pool: pool}
}

// Ping проверяет доступность базы данных.
func (s *Storage) Ping(ctx context.Context) error {
	const op = "storage.Ping"
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() {
	s.pool.Close()
}

// WithinTx выполняет fn в одной транзакции. Ошибка fn откатывает транзакцию
// и возвращается как есть, чтобы вызывающий мог сравнить её через errors.Is.
func (s *Storage) WithinTx(ctx context.Context, fn func(tx storage.SubscriptionTx) error) error {
	const op = "storage.WithinTx"

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}

	if err := fn(&txStorage{q: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, fmt.Errorf("%s: rollback: %w", op, rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

// txStorage выполняет запросы подписок в рамках открытой транзакции.
type txStorage struct {
	q querier
}
