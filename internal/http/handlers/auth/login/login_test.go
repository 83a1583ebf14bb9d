package login

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

// MockService реализует интерфейс login.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, login, rawPassword, ipAddress string) (*models.Session, error) {
	args := m.Called(ctx, login, rawPassword, ipAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		requestBody    any
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешный вход",
			requestBody: Request{Nickname: "ivan", Password: "secret"},
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "ivan", "secret", mock.Anything).
					Return(&models.Session{
						Token:  "aaaaaaaaaaaaaaaaaaaaaaaa",
						UserID: "bbbbbbbbbbbbbbbbbbbbbbbb",
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"token":"aaaaaaaaaaaaaaaaaaaaaaaa"`,
		},
		{
			name:        "неверные учётные данные маскируются пустым ответом",
			requestBody: Request{Nickname: "ivan", Password: "wrong"},
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "ivan", "wrong", mock.Anything).
					Return(nil, errs.ErrUnauthenticated)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{}`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "отсутствующие поля",
			requestBody:    Request{},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"missing_parameters":["Nickname","Password"]`,
		},
		{
			name:        "ошибка сервиса",
			requestBody: Request{Nickname: "ivan", Password: "secret"},
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "ivan", "secret", mock.Anything).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"internal error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &MockService{}
			tt.setupMock(service)
			handler := New(logger, service)

			var body bytes.Buffer
			if s, ok := tt.requestBody.(string); ok {
				body.WriteString(s)
			} else {
				assert.NoError(t, json.NewEncoder(&body).Encode(tt.requestBody))
			}

			req := httptest.NewRequest(http.MethodPost, "/user/login", &body)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			service.AssertExpectations(t)
		})
	}
}
