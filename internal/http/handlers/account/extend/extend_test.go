package extend

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

	"github.com/licenseflow/license-portal/internal/services/directory"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Extend(ctx context.Context, id string, additionalDays int) error {
	args := m.Called(ctx, id, additionalDays)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func requestWithID(id, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/accounts/"+id+"/extend", strings.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "успешное продление",
			id:   "acc-1",
			body: `{"additional_days":90}`,
			setupMock: func(s *MockService) {
				s.On("Extend", mock.Anything, "acc-1", 90).Return(nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "некорректный JSON",
			id:             "acc-1",
			body:           `{not json`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "ноль дней",
			id:             "acc-1",
			body:           `{"additional_days":0}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "отрицательное число дней",
			id:             "acc-1",
			body:           `{"additional_days":-30}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "учетная запись не найдена",
			id:   "missing",
			body: `{"additional_days":30}`,
			setupMock: func(s *MockService) {
				s.On("Extend", mock.Anything, "missing", 30).
					Return(directory.ErrNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "account not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			tt.setupMock(service)
			handler := New(newNoopLogger(), service)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, requestWithID(tt.id, tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			service.AssertExpectations(t)
		})
	}
}
