package list

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/magazine-subscriptions/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListActiveForUser(ctx context.Context, userID int) ([]*models.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		url            string
		setupMock      func(m *MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "активные подписки",
			url:  "/subscriptions/1",
			setupMock: func(m *MockService) {
				m.On("ListActiveForUser", mock.Anything, 1).Return([]*models.Subscription{{
					ID: 3, UserID: 1, MagazineID: 1, PlanID: 2, Price: 9.99,
					RenewalDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), IsActive: true,
				}}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody: `[{"id":3,"user_id":1,"magazine_id":1,"plan_id":2,"price":9.99,` +
				`"renewal_date":"2025-02-01","active":true}]`,
		},
		{
			name: "нет активных подписок",
			url:  "/subscriptions/2",
			setupMock: func(m *MockService) {
				m.On("ListActiveForUser", mock.Anything, 2).Return([]*models.Subscription{}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name:           "некорректный id",
			url:            "/subscriptions/abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid id"}`,
		},
		{
			name:           "нулевой id",
			url:            "/subscriptions/0",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid id"}`,
		},
		{
			name: "ошибка сервиса",
			url:  "/subscriptions/5",
			setupMock: func(m *MockService) {
				m.On("ListActiveForUser", mock.Anything, 5).Return(nil, errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to list subscriptions"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", strings.TrimPrefix(tt.url, "/subscriptions/"))
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
