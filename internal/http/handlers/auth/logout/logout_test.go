package logout

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockService реализует интерфейс logout.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Logout(ctx context.Context, token, ipAddress string) (int64, error) {
	args := m.Called(ctx, token, ipAddress)
	return args.Get(0).(int64), args.Error(1)
}

func TestLogoutHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		token          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "сессия удалена",
			token: "aaaaaaaaaaaaaaaaaaaaaaaa",
			setupMock: func(m *MockService) {
				m.On("Logout", mock.Anything, "aaaaaaaaaaaaaaaaaaaaaaaa", mock.Anything).
					Return(int64(1), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"deleted_count":1`,
		},
		{
			name:  "сессии уже не было",
			token: "aaaaaaaaaaaaaaaaaaaaaaaa",
			setupMock: func(m *MockService) {
				m.On("Logout", mock.Anything, "aaaaaaaaaaaaaaaaaaaaaaaa", mock.Anything).
					Return(int64(0), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"deleted_count":0`,
		},
		{
			name:           "токен неверного формата",
			token:          "short",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid session token"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &MockService{}
			tt.setupMock(service)

			router := chi.NewRouter()
			router.Delete("/user/logout/{token}", New(logger, service).ServeHTTP)

			req := httptest.NewRequest(http.MethodDelete, "/user/logout/"+tt.token, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			service.AssertExpectations(t)
		})
	}
}
