// Package read реализует HTTP-обработчик получения учетной записи по ID.
package read

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/licenseflow/license-portal/internal/http/response"
	"github.com/licenseflow/license-portal/internal/lib/sl"
	"github.com/licenseflow/license-portal/internal/models"
)

// Service описывает интерфейс бизнес-логики чтения учетной записи.
type Service interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
}

// AccountView — представление учетной записи в ответе.
type AccountView struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	CompanyName     string     `json:"company_name"`
	ContactPerson   string     `json:"contact_person"`
	Phone           string     `json:"phone,omitempty"`
	Address         string     `json:"address,omitempty"`
	LicenseExpiry   time.Time  `json:"license_expiry"`
	LicenseDuration int        `json:"license_duration"`
	IsActive        bool       `json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
}

// Handler обрабатывает HTTP-запросы на чтение учетной записи по ID.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить учетную запись по ID
// @Description Возвращает учетную запись компании без хэша пароля
// @Tags Accounts
// @Produce  json
// @Param id path string true "ID учетной записи"
// @Success 200 {object} response.OKResponse "Учетная запись"
// @Failure 404 {object} response.ErrorResponse "Учетная запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	account, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		log.Error("failed to get account", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get account"))
		return
	}
	if account == nil {
		log.Error("account not found", slog.String("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("account not found"))
		return
	}

	log.Info("account read", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(AccountView{
		ID:              account.ID,
		Email:           account.Email,
		CompanyName:     account.CompanyName,
		ContactPerson:   account.ContactPerson,
		Phone:           account.Phone,
		Address:         account.Address,
		LicenseExpiry:   account.LicenseExpiry,
		LicenseDuration: account.LicenseDuration,
		IsActive:        account.IsActive,
		CreatedAt:       account.CreatedAt,
		UpdatedAt:       account.UpdatedAt,
		LastLogin:       account.LastLogin,
	}))
}
