package updatefull

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/account-manager/internal/http/mware"
	"github.com/magabrotheeeer/account-manager/internal/models"
	"github.com/magabrotheeeer/account-manager/internal/services"
)

// MockService реализует интерфейс updatefull.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) UpdateFull(ctx context.Context, email, name, newEmail, rawPassword string, isActive bool) (*models.Account, error) {
	args := m.Called(ctx, email, name, newEmail, rawPassword, isActive)
	if res := args.Get(0); res != nil {
		return res.(*models.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestUpdateFullHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	updated := &models.Account{
		ID:       1,
		Name:     "New Name",
		Email:    "new@example.com",
		IsActive: true,
	}

	validBody := `{"email":"alice@example.com","name":"New Name","new_email":"new@example.com","password":"secret123","is_active":true}`

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное полное обновление",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("UpdateFull", mock.Anything, "alice@example.com",
					"New Name", "new@example.com", "secret123", true).Return(updated, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"email":"new@example.com"`,
		},
		{
			name:           "пропущен email",
			body:           `{"name":"New Name","new_email":"new@example.com","password":"secret123","is_active":true}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Email is a required field`,
		},
		{
			name:           "пропущено обязательное поле",
			body:           `{"email":"alice@example.com","name":"New Name","password":"secret123","is_active":true}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field NewEmail is a required field`,
		},
		{
			name:           "пропущен is_active",
			body:           `{"email":"alice@example.com","name":"New Name","new_email":"new@example.com","password":"secret123"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field IsActive is a required field`,
		},
		{
			name: "новый email занят",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("UpdateFull", mock.Anything, "alice@example.com",
					"New Name", "new@example.com", "secret123", true).
					Return(nil, services.ErrDuplicateEmail)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `email already registered`,
		},
		{
			name: "запись не найдена",
			body: `{"email":"missing@example.com","name":"New Name","new_email":"new@example.com","password":"secret123","is_active":true}`,
			setupMock: func(m *MockService) {
				m.On("UpdateFull", mock.Anything, "missing@example.com",
					"New Name", "new@example.com", "secret123", true).
					Return(nil, services.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `account not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPut, "/account_full_update", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}

// Целевая запись берётся из тела запроса, а не из subject токена.
func TestUpdateFullHandler_TargetsBodyEmailNotTokenSubject(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	mockService := new(MockService)
	updated := &models.Account{ID: 2, Name: "New Name", Email: "new@example.com", IsActive: true}
	mockService.On("UpdateFull", mock.Anything, "target@example.com",
		"New Name", "new@example.com", "secret123", true).Return(updated, nil)

	handler := New(logger, mockService)

	body := `{"email":"target@example.com","name":"New Name","new_email":"new@example.com","password":"secret123","is_active":true}`
	req := httptest.NewRequest(http.MethodPut, "/account_full_update", strings.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), mware.AccountKey, "self@example.com"))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertCalled(t, "UpdateFull", mock.Anything, "target@example.com",
		"New Name", "new@example.com", "secret123", true)
}
