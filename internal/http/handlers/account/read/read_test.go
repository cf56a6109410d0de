package read

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/licenseflow/license-portal/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) GetByID(ctx context.Context, id string) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func requestWithID(id string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/accounts/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestHandler_ServeHTTP(t *testing.T) {
	account := &models.Account{
		ID:            "acc-1",
		Email:         "firm@example.com",
		PasswordHash:  "should-not-leak",
		CompanyName:   "Firm Ltd.",
		LicenseExpiry: time.Now().UTC().Add(30 * 24 * time.Hour),
		IsActive:      true,
	}

	t.Run("успешное чтение без хэша пароля", func(t *testing.T) {
		service := new(MockService)
		service.On("GetByID", mock.Anything, "acc-1").Return(account, nil).Once()
		handler := New(newNoopLogger(), service)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestWithID("acc-1"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"company_name":"Firm Ltd."`)
		assert.NotContains(t, w.Body.String(), "should-not-leak")
		service.AssertExpectations(t)
	})

	t.Run("учетная запись не найдена", func(t *testing.T) {
		service := new(MockService)
		service.On("GetByID", mock.Anything, "missing").Return(nil, nil).Once()
		handler := New(newNoopLogger(), service)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestWithID("missing"))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "account not found")
	})

	t.Run("ошибка сервиса", func(t *testing.T) {
		service := new(MockService)
		service.On("GetByID", mock.Anything, "acc-1").Return(nil, errors.New("db error")).Once()
		handler := New(newNoopLogger(), service)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestWithID("acc-1"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
