// Package pgtest поднимает PostgreSQL для интеграционных тестов
// и содержит фабрику тестовых данных поверх пула соединений.
package pgtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// ConnectionString возвращает строку подключения к чистой тестовой базе.
// Если задан TEST_DATABASE_URL, используется он, иначе запускается контейнер.
// В режиме -short тест пропускается.
func ConnectionString(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		return dsn
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

// Pool открывает пул к тестовой базе и закрывает его по окончании теста.
func Pool(t *testing.T, dsn string) *pgxpool.Pool {
	t.Helper()
	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pool.Ping(context.Background()))
	return pool
}

// Factory содержит методы для создания тестовых данных.
type Factory struct {
	pool *pgxpool.Pool
}

// NewFactory создает фабрику поверх пула.
func NewFactory(pool *pgxpool.Pool) *Factory {
	return &Factory{pool: pool}
}

// CreateMagazine вставляет журнал и возвращает его ID.
func (f *Factory) CreateMagazine(t *testing.T, name string, basePrice float64) int {
	t.Helper()
	var id int
	err := f.pool.QueryRow(context.Background(),
		`INSERT INTO magazines (name, base_price) VALUES ($1, $2) RETURNING id`,
		name, basePrice).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreatePlan вставляет план и возвращает его ID.
func (f *Factory) CreatePlan(t *testing.T, title string, renewalPeriod int) int {
	t.Helper()
	var id int
	err := f.pool.QueryRow(context.Background(),
		`INSERT INTO plans (title, renewal_period, discount, tier) VALUES ($1, $2, 0, 1) RETURNING id`,
		title, renewalPeriod).Scan(&id)
	require.NoError(t, err)
	return id
}

// SubscriptionActive возвращает флаг активности подписки.
func (f *Factory) SubscriptionActive(t *testing.T, id int) bool {
	t.Helper()
	var active bool
	err := f.pool.QueryRow(context.Background(),
		`SELECT is_active FROM subscriptions WHERE id = $1`, id).Scan(&active)
	require.NoError(t, err)
	return active
}

// CountSubscriptions возвращает число всех подписок пользователя.
func (f *Factory) CountSubscriptions(t *testing.T, userID int) int {
	t.Helper()
	var count int
	err := f.pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM subscriptions WHERE user_id = $1`, userID).Scan(&count)
	require.NoError(t, err)
	return count
}
