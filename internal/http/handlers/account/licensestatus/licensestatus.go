// Package licensestatus реализует HTTP-обработчик просмотра состояния
// собственной лицензии вошедшей компанией. Идентификатор учетной записи
// берется из токена сессии, а не из URL.
package licensestatus

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/licenseflow/license-portal/internal/http/middlewarectx"
	"github.com/licenseflow/license-portal/internal/http/response"
	"github.com/licenseflow/license-portal/internal/lib/sl"
	"github.com/licenseflow/license-portal/internal/models"
	"github.com/licenseflow/license-portal/internal/services/directory"
)

// Service описывает интерфейс бизнес-логики получения состояния лицензии.
type Service interface {
	License(ctx context.Context, id string) (*models.LicenseInfo, error)
}

// Handler обрабатывает HTTP-запросы на просмотр состояния лицензии.
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
// @Summary Состояние лицензии текущей компании
// @Description Возвращает статус лицензии (active, expiring, expired) и число оставшихся дней
// @Tags License
// @Produce  json
// @Success 200 {object} response.OKResponse "Состояние лицензии"
// @Failure 401 {object} response.ErrorResponse "Сессия не содержит идентификатора"
// @Failure 404 {object} response.ErrorResponse "Учетная запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /accounts/me/license [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.licensestatus"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid, ok := r.Context().Value(middlewarectx.UID).(string)
	if !ok || uid == "" {
		log.Error("account identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("account identification missing"))
		return
	}

	info, err := h.service.License(r.Context(), uid)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			log.Error("account not found", slog.String("id", uid))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("account not found"))
			return
		}
		log.Error("failed to get license status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get license status"))
		return
	}

	log.Info("license status read", slog.String("id", uid), slog.String("status", info.Status))
	render.JSON(w, r, response.OKWithData(info))
}
