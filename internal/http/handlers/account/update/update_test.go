package update

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/licenseflow/license-portal/internal/models"
	"github.com/licenseflow/license-portal/internal/services/directory"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Update(ctx context.Context, id string, req models.UpdateAccountData) error {
	args := m.Called(ctx, id, req)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func requestWithID(id, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPatch, "/accounts/"+id, strings.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestHandler_ServeHTTP(t *testing.T) {
	t.Run("частичное обновление передает только заданные поля", func(t *testing.T) {
		service := new(MockService)
		service.On("Update", mock.Anything, "acc-1", mock.Anything).Return(nil).Once()
		handler := New(newNoopLogger(), service)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestWithID("acc-1", `{"company_name":"Renamed Ltd."}`))

		assert.Equal(t, http.StatusOK, w.Code)

		upd := service.Calls[0].Arguments.Get(2).(models.UpdateAccountData)
		require.NotNil(t, upd.CompanyName)
		assert.Equal(t, "Renamed Ltd.", *upd.CompanyName)
		assert.Nil(t, upd.Email)
		assert.Nil(t, upd.LicenseDuration)
		assert.Nil(t, upd.IsActive)
		service.AssertExpectations(t)
	})

	t.Run("деактивация через is_active", func(t *testing.T) {
		service := new(MockService)
		service.On("Update", mock.Anything, "acc-1", mock.Anything).Return(nil).Once()
		handler := New(newNoopLogger(), service)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestWithID("acc-1", `{"is_active":false}`))

		assert.Equal(t, http.StatusOK, w.Code)
		upd := service.Calls[0].Arguments.Get(2).(models.UpdateAccountData)
		require.NotNil(t, upd.IsActive)
		assert.False(t, *upd.IsActive)
	})

	t.Run("некорректный JSON", func(t *testing.T) {
		service := new(MockService)
		handler := New(newNoopLogger(), service)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestWithID("acc-1", `{not json`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("отрицательная длительность лицензии", func(t *testing.T) {
		service := new(MockService)
		handler := New(newNoopLogger(), service)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestWithID("acc-1", `{"license_duration":-5}`))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("учетная запись не найдена", func(t *testing.T) {
		service := new(MockService)
		service.On("Update", mock.Anything, "missing", mock.Anything).
			Return(directory.ErrNotFound).Once()
		handler := New(newNoopLogger(), service)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestWithID("missing", `{"company_name":"Ghost Ltd."}`))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "account not found")
	})
}
