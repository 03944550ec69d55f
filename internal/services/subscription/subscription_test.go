package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/magazine-subscriptions/internal/events"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/models"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/storage"
)

type TxMock struct{ mock.Mock }

func (m *TxMock) CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *TxMock) DeactivateSubscription(ctx context.Context, id int) (*models.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

// RepoMock выполняет fn из WithinTx на вложенном TxMock, как настоящая транзакция.
type RepoMock struct {
	TxMock
	tx *TxMock
}

func (m *RepoMock) ListActiveSubscriptions(ctx context.Context, userID int) ([]*models.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func (m *RepoMock) WithinTx(ctx context.Context, fn func(tx storage.SubscriptionTx) error) error {
	if err := m.Called(ctx).Error(0); err != nil {
		return err
	}
	return fn(m.tx)
}

type MagazineMock struct{ mock.Mock }

func (m *MagazineMock) GetMagazine(ctx context.Context, id int) (*models.Magazine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Magazine), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(ctx context.Context, eventType models.EventType, sub models.Subscription, previousID int) error {
	return m.Called(ctx, eventType, sub, previousID).Error(0)
}

type mocks struct {
	repo      *RepoMock
	tx        *TxMock
	magazines *MagazineMock
	cache     *CacheMock
	publisher *PublisherMock
}

func newMocks() *mocks {
	tx := new(TxMock)
	return &mocks{
		repo:      &RepoMock{tx: tx},
		tx:        tx,
		magazines: new(MagazineMock),
		cache:     new(CacheMock),
		publisher: new(PublisherMock),
	}
}

func (m *mocks) service() *Service {
	return NewService(m.repo, m.magazines, m.cache, m.publisher, time.Hour, newNoopLogger())
}

func (m *mocks) assert(t *testing.T) {
	m.repo.AssertExpectations(t)
	m.tx.AssertExpectations(t)
	m.magazines.AssertExpectations(t)
	m.cache.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func date(s string) time.Time {
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestService_Create(t *testing.T) {
	stored := &models.Subscription{
		ID: 10, UserID: 1, MagazineID: 1, PlanID: 1,
		Price: 9.99, RenewalDate: date("2025-01-01"), IsActive: true,
	}

	tests := []struct {
		name       string
		req        models.DummyEntry
		setupMocks func(m *mocks)
		want       *models.Subscription
		wantErr    error
	}{
		{
			name: "with explicit price",
			req:  models.DummyEntry{UserID: 1, MagazineID: 1, PlanID: 1, RenewalDate: "2025-01-01", Price: 9.99},
			setupMocks: func(m *mocks) {
				m.repo.On("CreateSubscription", mock.Anything, models.Subscription{
					UserID: 1, MagazineID: 1, PlanID: 1, Price: 9.99,
					RenewalDate: date("2025-01-01"), IsActive: true,
				}).Return(stored, nil).Once()
				m.cache.On("Invalidate", mock.Anything, "subscriptions:active:user:1").Return(nil).Once()
				m.publisher.On("Publish", mock.Anything, models.EventSubscriptionCreated, *stored, 0).Return(nil).Once()
			},
			want: stored,
		},
		{
			name: "price defaults to magazine base price",
			req:  models.DummyEntry{UserID: 1, MagazineID: 1, PlanID: 1, RenewalDate: "2025-01-01"},
			setupMocks: func(m *mocks) {
				m.magazines.On("GetMagazine", mock.Anything, 1).
					Return(&models.Magazine{ID: 1, Name: "Tech Weekly", BasePrice: 9.99}, nil).Once()
				m.repo.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(s models.Subscription) bool {
					return s.Price == 9.99 && s.IsActive
				})).Return(stored, nil).Once()
				m.cache.On("Invalidate", mock.Anything, "subscriptions:active:user:1").Return(nil).Once()
				m.publisher.On("Publish", mock.Anything, models.EventSubscriptionCreated, *stored, 0).Return(nil).Once()
			},
			want: stored,
		},
		{
			name:       "invalid date",
			req:        models.DummyEntry{UserID: 1, MagazineID: 1, PlanID: 1, RenewalDate: "01-01-2025", Price: 1},
			setupMocks: func(_ *mocks) {},
			wantErr:    ErrInvalidRenewalDate,
		},
		{
			name: "unknown magazine for default price",
			req:  models.DummyEntry{UserID: 1, MagazineID: 99, PlanID: 1, RenewalDate: "2025-01-01"},
			setupMocks: func(m *mocks) {
				m.magazines.On("GetMagazine", mock.Anything, 99).
					Return(nil, storage.ErrMagazineNotFound).Once()
			},
			wantErr: storage.ErrReferenceNotFound,
		},
		{
			name: "unknown plan",
			req:  models.DummyEntry{UserID: 1, MagazineID: 1, PlanID: 42, RenewalDate: "2025-01-01", Price: 5},
			setupMocks: func(m *mocks) {
				m.repo.On("CreateSubscription", mock.Anything, mock.Anything).
					Return(nil, storage.ErrReferenceNotFound).Once()
			},
			wantErr: storage.ErrReferenceNotFound,
		},
		{
			name: "side effects failing do not fail create",
			req:  models.DummyEntry{UserID: 1, MagazineID: 1, PlanID: 1, RenewalDate: "2025-01-01", Price: 9.99},
			setupMocks: func(m *mocks) {
				m.repo.On("CreateSubscription", mock.Anything, mock.Anything).Return(stored, nil).Once()
				m.cache.On("Invalidate", mock.Anything, "subscriptions:active:user:1").
					Return(errors.New("redis down")).Once()
				m.publisher.On("Publish", mock.Anything, models.EventSubscriptionCreated, *stored, 0).
					Return(errors.New("broker down")).Once()
			},
			want: stored,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMocks()
			tt.setupMocks(m)

			got, err := m.service().Create(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			m.assert(t)
		})
	}
}

func TestService_ListActiveForUser(t *testing.T) {
	subs := []*models.Subscription{
		{ID: 1, UserID: 5, MagazineID: 1, PlanID: 1, Price: 3, RenewalDate: date("2025-01-01"), IsActive: true},
	}

	tests := []struct {
		name       string
		setupMocks func(m *mocks)
		want       []*models.Subscription
		wantErr    bool
	}{
		{
			name: "cache hit",
			setupMocks: func(m *mocks) {
				m.cache.On("Get", mock.Anything, "subscriptions:active:user:5", mock.Anything).
					Run(func(args mock.Arguments) {
						dst := args.Get(2).(*[]*models.Subscription)
						*dst = subs
					}).Return(true, nil).Once()
			},
			want: subs,
		},
		{
			name: "cache miss reads store and fills cache",
			setupMocks: func(m *mocks) {
				m.cache.On("Get", mock.Anything, "subscriptions:active:user:5", mock.Anything).Return(false, nil).Once()
				m.repo.On("ListActiveSubscriptions", mock.Anything, 5).Return(subs, nil).Once()
				m.cache.On("Set", mock.Anything, "subscriptions:active:user:5", subs, time.Hour).Return(nil).Once()
			},
			want: subs,
		},
		{
			name: "cache error falls back to store",
			setupMocks: func(m *mocks) {
				m.cache.On("Get", mock.Anything, "subscriptions:active:user:5", mock.Anything).
					Return(false, errors.New("redis down")).Once()
				m.repo.On("ListActiveSubscriptions", mock.Anything, 5).Return(subs, nil).Once()
				m.cache.On("Set", mock.Anything, "subscriptions:active:user:5", subs, time.Hour).
					Return(errors.New("redis down")).Once()
			},
			want: subs,
		},
		{
			name: "store error",
			setupMocks: func(m *mocks) {
				m.cache.On("Get", mock.Anything, "subscriptions:active:user:5", mock.Anything).Return(false, nil).Once()
				m.repo.On("ListActiveSubscriptions", mock.Anything, 5).Return(nil, errors.New("db down")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMocks()
			tt.setupMocks(m)

			got, err := m.service().ListActiveForUser(context.Background(), 5)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			m.assert(t)
		})
	}
}

func TestService_Renew(t *testing.T) {
	previous := &models.Subscription{
		ID: 10, UserID: 1, MagazineID: 1, PlanID: 1,
		Price: 9.99, RenewalDate: date("2025-01-01"), IsActive: false,
	}
	renewed := &models.Subscription{
		ID: 11, UserID: 1, MagazineID: 1, PlanID: 2,
		Price: 9.99, RenewalDate: date("2025-02-01"), IsActive: true,
	}
	req := models.DummyRenewal{MagazineID: 1, PlanID: 2, RenewalDate: "2025-02-01"}

	tests := []struct {
		name       string
		req        models.DummyRenewal
		setupMocks func(m *mocks)
		want       *models.Subscription
		wantErr    error
	}{
		{
			name: "price carried over",
			req:  req,
			setupMocks: func(m *mocks) {
				m.repo.On("WithinTx", mock.Anything).Return(nil).Once()
				m.tx.On("DeactivateSubscription", mock.Anything, 10).Return(previous, nil).Once()
				m.tx.On("CreateSubscription", mock.Anything, models.Subscription{
					UserID: 1, MagazineID: 1, PlanID: 2, Price: 9.99,
					RenewalDate: date("2025-02-01"), IsActive: true,
				}).Return(renewed, nil).Once()
				m.cache.On("Invalidate", mock.Anything, "subscriptions:active:user:1").Return(nil).Once()
				m.publisher.On("Publish", mock.Anything, models.EventSubscriptionRenewed, *renewed, 10).Return(nil).Once()
			},
			want: renewed,
		},
		{
			name: "matching owner",
			req:  models.DummyRenewal{UserID: 1, MagazineID: 1, PlanID: 2, RenewalDate: "2025-02-01"},
			setupMocks: func(m *mocks) {
				m.repo.On("WithinTx", mock.Anything).Return(nil).Once()
				m.tx.On("DeactivateSubscription", mock.Anything, 10).Return(previous, nil).Once()
				m.tx.On("CreateSubscription", mock.Anything, mock.Anything).Return(renewed, nil).Once()
				m.cache.On("Invalidate", mock.Anything, "subscriptions:active:user:1").Return(nil).Once()
				m.publisher.On("Publish", mock.Anything, models.EventSubscriptionRenewed, *renewed, 10).Return(nil).Once()
			},
			want: renewed,
		},
		{
			name: "not active",
			req:  req,
			setupMocks: func(m *mocks) {
				m.repo.On("WithinTx", mock.Anything).Return(nil).Once()
				m.tx.On("DeactivateSubscription", mock.Anything, 10).
					Return(nil, storage.ErrSubscriptionNotFound).Once()
			},
			wantErr: storage.ErrSubscriptionNotFound,
		},
		{
			name: "owner mismatch creates nothing",
			req:  models.DummyRenewal{UserID: 2, MagazineID: 1, PlanID: 2, RenewalDate: "2025-02-01"},
			setupMocks: func(m *mocks) {
				m.repo.On("WithinTx", mock.Anything).Return(nil).Once()
				m.tx.On("DeactivateSubscription", mock.Anything, 10).Return(previous, nil).Once()
			},
			wantErr: ErrOwnerMismatch,
		},
		{
			name: "insert failure",
			req:  req,
			setupMocks: func(m *mocks) {
				m.repo.On("WithinTx", mock.Anything).Return(nil).Once()
				m.tx.On("DeactivateSubscription", mock.Anything, 10).Return(previous, nil).Once()
				m.tx.On("CreateSubscription", mock.Anything, mock.Anything).
					Return(nil, storage.ErrReferenceNotFound).Once()
			},
			wantErr: storage.ErrReferenceNotFound,
		},
		{
			name:       "invalid date",
			req:        models.DummyRenewal{MagazineID: 1, PlanID: 2, RenewalDate: "tomorrow"},
			setupMocks: func(_ *mocks) {},
			wantErr:    ErrInvalidRenewalDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMocks()
			tt.setupMocks(m)

			got, err := m.service().Renew(context.Background(), 10, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			m.assert(t)
		})
	}
}

func TestService_Cancel(t *testing.T) {
	canceled := &models.Subscription{
		ID: 11, UserID: 1, MagazineID: 1, PlanID: 2,
		Price: 9.99, RenewalDate: date("2025-02-01"), IsActive: false,
	}

	t.Run("success", func(t *testing.T) {
		m := newMocks()
		m.repo.On("DeactivateSubscription", mock.Anything, 11).Return(canceled, nil).Once()
		m.cache.On("Invalidate", mock.Anything, "subscriptions:active:user:1").Return(nil).Once()
		m.publisher.On("Publish", mock.Anything, models.EventSubscriptionCanceled, *canceled, 0).Return(nil).Once()

		require.NoError(t, m.service().Cancel(context.Background(), 11))
		m.assert(t)
	})

	t.Run("already inactive", func(t *testing.T) {
		m := newMocks()
		m.repo.On("DeactivateSubscription", mock.Anything, 11).
			Return(nil, storage.ErrSubscriptionNotFound).Once()

		err := m.service().Cancel(context.Background(), 11)
		assert.ErrorIs(t, err, storage.ErrSubscriptionNotFound)
		m.assert(t)
	})
}

// memCache хранит значения в JSON, как Redis, и умеет отказывать в удалении ключей.
type memCache struct {
	data           map[string][]byte
	failInvalidate bool
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string, result any) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, result)
}

func (c *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memCache) Invalidate(_ context.Context, key string) error {
	if c.failInvalidate {
		return errors.New("redis down")
	}
	delete(c.data, key)
	return nil
}

func TestService_ListAfterFailedInvalidation(t *testing.T) {
	active := &models.Subscription{
		ID: 1, UserID: 5, MagazineID: 1, PlanID: 1, Price: 9.99, RenewalDate: date("2025-01-01"), IsActive: true,
	}
	canceled := *active
	canceled.IsActive = false

	repo := &RepoMock{tx: new(TxMock)}
	repo.On("ListActiveSubscriptions", mock.Anything, 5).Return([]*models.Subscription{active}, nil).Once()
	repo.On("DeactivateSubscription", mock.Anything, 1).Return(&canceled, nil).Once()
	repo.On("ListActiveSubscriptions", mock.Anything, 5).Return([]*models.Subscription{}, nil)

	c := newMemCache()
	svc := NewService(repo, new(MagazineMock), c, events.Noop{}, time.Hour, newNoopLogger())
	ctx := context.Background()

	got, err := svc.ListActiveForUser(ctx, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Contains(t, c.data, ActiveKey(5))

	c.failInvalidate = true
	require.NoError(t, svc.Cancel(ctx, 1))

	got, err = svc.ListActiveForUser(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, got, "canceled subscription must not be served from cache")

	c.failInvalidate = false
	got, err = svc.ListActiveForUser(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotContains(t, c.data, ActiveKey(5))

	got, err = svc.ListActiveForUser(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
	repo.AssertExpectations(t)
}

func TestService_ListRacingCancel(t *testing.T) {
	active := &models.Subscription{
		ID: 1, UserID: 5, MagazineID: 1, PlanID: 1, Price: 9.99, RenewalDate: date("2025-01-01"), IsActive: true,
	}
	canceled := *active
	canceled.IsActive = false

	c := newMemCache()
	repo := &RepoMock{tx: new(TxMock)}
	svc := NewService(repo, new(MagazineMock), c, events.Noop{}, time.Hour, newNoopLogger())
	ctx := context.Background()

	// отмена фиксируется, пока читатель держит уже прочитанный старый список
	repo.On("ListActiveSubscriptions", mock.Anything, 5).
		Run(func(mock.Arguments) {
			require.NoError(t, svc.Cancel(ctx, 1))
		}).
		Return([]*models.Subscription{active}, nil).Once()
	repo.On("DeactivateSubscription", mock.Anything, 1).Return(&canceled, nil).Once()
	repo.On("ListActiveSubscriptions", mock.Anything, 5).Return([]*models.Subscription{}, nil).Once()

	got, err := svc.ListActiveForUser(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.NotContains(t, c.data, ActiveKey(5))

	got, err = svc.ListActiveForUser(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
	repo.AssertExpectations(t)
}
