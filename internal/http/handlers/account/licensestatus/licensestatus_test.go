package licensestatus

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/licenseflow/license-portal/internal/http/middlewarectx"
	"github.com/licenseflow/license-portal/internal/models"
	"github.com/licenseflow/license-portal/internal/services/directory"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) License(ctx context.Context, id string) (*models.LicenseInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LicenseInfo), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func requestWithUID(uid string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/license", nil)
	if uid == "" {
		return req
	}
	return req.WithContext(context.WithValue(req.Context(), middlewarectx.UID, uid))
}

func TestHandler_ServeHTTP(t *testing.T) {
	info := &models.LicenseInfo{
		AccountID:     "acc-1",
		CompanyName:   "Firm Ltd.",
		LicenseExpiry: time.Now().UTC().Add(3 * 24 * time.Hour),
		IsActive:      true,
		DaysRemaining: 2,
		Status:        "expiring",
	}

	t.Run("возвращает состояние лицензии из сессии", func(t *testing.T) {
		service := new(MockService)
		service.On("License", mock.Anything, "acc-1").Return(info, nil).Once()
		handler := New(newNoopLogger(), service)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestWithUID("acc-1"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"expiring"`)
		assert.Contains(t, w.Body.String(), `"days_remaining":2`)
		service.AssertExpectations(t)
	})

	t.Run("сессия без идентификатора", func(t *testing.T) {
		service := new(MockService)
		handler := New(newNoopLogger(), service)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestWithUID(""))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		service.AssertNotCalled(t, "License", mock.Anything, mock.Anything)
	})

	t.Run("учетная запись не найдена", func(t *testing.T) {
		service := new(MockService)
		service.On("License", mock.Anything, "ghost").
			Return(nil, directory.ErrNotFound).Once()
		handler := New(newNoopLogger(), service)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestWithUID("ghost"))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
