package register

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/account-manager/internal/models"
	"github.com/magabrotheeeer/account-manager/internal/services"
)

// MockService реализует интерфейс register.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, name, email, rawPassword string) (*models.Account, error) {
	args := m.Called(ctx, name, email, rawPassword)
	if res := args.Get(0); res != nil {
		return res.(*models.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestRegisterHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная регистрация",
			body: `{"name":"Alice","email":"alice@example.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				account := &models.Account{
					ID:       1,
					Name:     "Alice",
					Email:    "alice@example.com",
					IsActive: true,
				}
				m.On("Register", mock.Anything, "Alice", "alice@example.com", "secret123").
					Return(account, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"email":"alice@example.com"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{not json`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid request body`,
		},
		{
			name:           "пропущено обязательное поле",
			body:           `{"email":"alice@example.com","password":"secret123"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Name is a required field`,
		},
		{
			name:           "слишком короткий пароль",
			body:           `{"name":"Alice","email":"alice@example.com","password":"123"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Password is too short`,
		},
		{
			name: "email уже занят",
			body: `{"name":"Alice","email":"alice@example.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "Alice", "alice@example.com", "secret123").
					Return(nil, services.ErrDuplicateEmail)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `email already registered`,
		},
		{
			name: "некорректный формат email",
			body: `{"name":"Alice","email":"not-an-email","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "Alice", "not-an-email", "secret123").
					Return(nil, services.ErrInvalidEmail)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid email format`,
		},
		{
			name: "ошибка сервиса",
			body: `{"name":"Alice","email":"alice@example.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "Alice", "alice@example.com", "secret123").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `failed to register account`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/register/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
