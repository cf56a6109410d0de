// Package list реализует HTTP-обработчик списка учетных записей компаний.
//
// Handler возвращает все учетные записи, новые первыми, вместе с
// вычисленным состоянием лицензии каждой записи.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/licenseflow/license-portal/internal/http/response"
	"github.com/licenseflow/license-portal/internal/lib/license"
	"github.com/licenseflow/license-portal/internal/lib/sl"
	"github.com/licenseflow/license-portal/internal/models"
)

// Service описывает интерфейс бизнес-логики списка учетных записей.
type Service interface {
	List(ctx context.Context) ([]*models.Account, error)
}

// AccountView — представление учетной записи в ответе списка.
// Хэш пароля наружу не отдается.
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
	LicenseStatus   string     `json:"license_status"`
	DaysRemaining   int        `json:"days_remaining"`
}

// Handler обрабатывает HTTP-запросы на получение списка учетных записей.
type Handler struct {
	log         *slog.Logger
	service     Service
	warningDays int
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service, warningDays int) *Handler {
	if warningDays <= 0 {
		warningDays = license.DefaultWarningDays
	}
	return &Handler{
		log:         log,
		service:     service,
		warningDays: warningDays,
	}
}

// ServeHTTP godoc
// @Summary Список учетных записей компаний
// @Description Возвращает все учетные записи, новые первыми, с состоянием лицензий
// @Tags Accounts
// @Produce  json
// @Success 200 {object} response.OKResponse "Список учетных записей"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /accounts [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	accounts, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list accounts", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list accounts"))
		return
	}

	now := time.Now().UTC()
	views := make([]AccountView, 0, len(accounts))
	for _, account := range accounts {
		summary := license.Evaluate(account.LicenseExpiry, now, h.warningDays)
		views = append(views, AccountView{
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
			LicenseStatus:   string(summary.Status),
			DaysRemaining:   summary.DaysRemaining,
		})
	}

	log.Info("accounts listed", slog.Int("count", len(views)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"accounts": views,
		"count":    len(views),
	}))
}
