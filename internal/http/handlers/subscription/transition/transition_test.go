package transition

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/tutor-marketplace/internal/domain/errs"
	"github.com/magabrotheeeer/tutor-marketplace/internal/models"
)

// MockService реализует интерфейс transition.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) RequestTransition(ctx context.Context, token, ipAddress, subID string, target models.SubscriptionStatus) (*models.Subscription, error) {
	args := m.Called(ctx, token, ipAddress, subID, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

const (
	testToken = "aaaaaaaaaaaaaaaaaaaaaaaa"
	testSubID = "ffffffffffffffffffffffff"
)

func TestTransitionHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	validBody := Request{SessionToken: testToken, SubID: testSubID}

	tests := []struct {
		name           string
		target         models.SubscriptionStatus
		requestBody    any
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешное принятие заявки",
			target:      models.StatusWaitingPayment,
			requestBody: validBody,
			setupMock: func(m *MockService) {
				m.On("RequestTransition", mock.Anything, testToken, mock.Anything, testSubID, models.StatusWaitingPayment).
					Return(&models.Subscription{
						ID:     testSubID,
						Status: models.StatusWaitingPayment,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"waiting_payment"`,
		},
		{
			name:           "некорректный JSON",
			target:         models.StatusWaitingPayment,
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "отсутствующие поля перечисляются в missing_parameters",
			target:         models.StatusWaitingPayment,
			requestBody:    Request{},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"missing_parameters":["SessionToken","SubID"]`,
		},
		{
			name:           "токен неверной длины",
			target:         models.StatusWaitingPayment,
			requestBody:    Request{SessionToken: "short", SubID: testSubID},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field SessionToken must be exactly 24 characters long`,
		},
		{
			name:        "нет сессии",
			target:      models.StatusWaitingPayment,
			requestBody: validBody,
			setupMock: func(m *MockService) {
				m.On("RequestTransition", mock.Anything, testToken, mock.Anything, testSubID, models.StatusWaitingPayment).
					Return(nil, errs.ErrUnauthenticated)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthenticated"`,
		},
		{
			name:        "заявка не найдена",
			target:      models.StatusPaid,
			requestBody: validBody,
			setupMock: func(m *MockService) {
				m.On("RequestTransition", mock.Anything, testToken, mock.Anything, testSubID, models.StatusPaid).
					Return(nil, errs.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"subscription not found"`,
		},
		{
			name:        "переход из конечного состояния",
			target:      models.StatusStudentCanceled,
			requestBody: validBody,
			setupMock: func(m *MockService) {
				m.On("RequestTransition", mock.Anything, testToken, mock.Anything, testSubID, models.StatusStudentCanceled).
					Return(nil, errs.ErrIllegalTransition)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"error":"illegal transition"`,
		},
		{
			name:        "переход недоступен этой стороне",
			target:      models.StatusWaitingPayment,
			requestBody: validBody,
			setupMock: func(m *MockService) {
				m.On("RequestTransition", mock.Anything, testToken, mock.Anything, testSubID, models.StatusWaitingPayment).
					Return(nil, errs.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"error":"forbidden"`,
		},
		{
			name:        "проигранная гонка",
			target:      models.StatusTutorRejected,
			requestBody: validBody,
			setupMock: func(m *MockService) {
				m.On("RequestTransition", mock.Anything, testToken, mock.Anything, testSubID, models.StatusTutorRejected).
					Return(nil, errs.ErrConflict)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"error":"conflicting update"`,
		},
		{
			name:        "ошибка сервиса",
			target:      models.StatusWaitingPayment,
			requestBody: validBody,
			setupMock: func(m *MockService) {
				m.On("RequestTransition", mock.Anything, testToken, mock.Anything, testSubID, models.StatusWaitingPayment).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"failed to update subscription"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &MockService{}
			tt.setupMock(service)
			handler := New(logger, service, tt.target)

			var body bytes.Buffer
			if s, ok := tt.requestBody.(string); ok {
				body.WriteString(s)
			} else {
				assert.NoError(t, json.NewEncoder(&body).Encode(tt.requestBody))
			}

			req := httptest.NewRequest(http.MethodPut, "/subscriptions/acceptSubscription", &body)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			service.AssertExpectations(t)
		})
	}
}
