package renew

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/magazine-subscriptions/internal/models"
	subservice "github.com/magabrotheeeer/magazine-subscriptions/internal/services/subscription"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/storage"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Renew(ctx context.Context, id int, req models.DummyRenewal) (*models.Subscription, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func TestRenewHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	valid := models.DummyRenewal{MagazineID: 1, PlanID: 2, RenewalDate: "2025-02-01"}
	validBody := `{"magazine_id":1,"plan_id":2,"renewal_date":"2025-02-01"}`

	tests := []struct {
		name           string
		id             string
		body           string
		setupMock      func(m *MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное продление",
			id:   "1",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Renew", mock.Anything, 1, valid).Return(&models.Subscription{
					ID: 2, UserID: 1, MagazineID: 1, PlanID: 2, Price: 9.99,
					RenewalDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), IsActive: true,
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"id":2,"user_id":1,"magazine_id":1,"plan_id":2,"price":9.99,` +
				`"renewal_date":"2025-02-01","active":true}`,
		},
		{
			name: "подписка не найдена",
			id:   "99",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Renew", mock.Anything, 99, valid).
					Return(nil, fmt.Errorf("subscription.Renew: %w", storage.ErrSubscriptionNotFound)).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"active subscription not found"}`,
		},
		{
			name: "чужая подписка",
			id:   "1",
			body: `{"user_id":2,"magazine_id":1,"plan_id":2,"renewal_date":"2025-02-01"}`,
			setupMock: func(m *MockService) {
				m.On("Renew", mock.Anything, 1, mock.Anything).
					Return(nil, fmt.Errorf("subscription.Renew: %w", subservice.ErrOwnerMismatch)).Once()
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"subscription belongs to another user"}`,
		},
		{
			name: "некорректная дата",
			id:   "1",
			body: `{"magazine_id":1,"plan_id":2,"renewal_date":"01.02.2025"}`,
			setupMock: func(m *MockService) {
				m.On("Renew", mock.Anything, 1, mock.Anything).
					Return(nil, fmt.Errorf("subscription.Renew: %w", subservice.ErrInvalidRenewalDate)).Once()
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"renewal_date must be in format YYYY-MM-DD"}`,
		},
		{
			name: "несуществующий план",
			id:   "1",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Renew", mock.Anything, 1, valid).Return(nil, storage.ErrReferenceNotFound).Once()
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"magazine or plan not found"}`,
		},
		{
			name:           "нет magazine_id",
			id:             "1",
			body:           `{"plan_id":2,"renewal_date":"2025-02-01"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field MagazineID is a required field"}`,
		},
		{
			name:           "некорректный id",
			id:             "abc",
			body:           validBody,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid id"}`,
		},
		{
			name: "ошибка сервиса",
			id:   "1",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Renew", mock.Anything, 1, valid).Return(nil, errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to renew subscription"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPut, "/subscriptions/"+tt.id, bytes.NewBufferString(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
