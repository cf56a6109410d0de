// Package extend реализует HTTP-обработчик продления лицензии учетной записи.
//
// Дополнительные дни прибавляются к текущей длительности, после чего
// дата истечения пересчитывается от момента продления.
package extend

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/licenseflow/license-portal/internal/http/response"
	"github.com/licenseflow/license-portal/internal/lib/sl"
	"github.com/licenseflow/license-portal/internal/services/directory"
)

// Request — входные данные для продления лицензии.
type Request struct {
	AdditionalDays int `json:"additional_days" validate:"required,gt=0"`
}

// Service описывает интерфейс бизнес-логики продления лицензии.
type Service interface {
	Extend(ctx context.Context, id string, additionalDays int) error
}

// Handler обрабатывает HTTP-запросы на продление лицензии.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Продлить лицензию учетной записи
// @Description Прибавляет дни к длительности лицензии и пересчитывает дату истечения от текущего момента
// @Tags Accounts
// @Accept  json
// @Produce  json
// @Param id path string true "ID учетной записи"
// @Param request body Request true "Количество дополнительных дней"
// @Success 200 {object} response.OKResponse "Лицензия продлена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Учетная запись не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации данных"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /accounts/{id}/extend [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.extend"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.Extend(r.Context(), id, req.AdditionalDays); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			log.Error("account not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("account not found"))
			return
		}
		log.Error("failed to extend license", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to extend license"))
		return
	}

	log.Info("license extended", slog.String("id", id), slog.Int("additional_days", req.AdditionalDays))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id":              id,
		"additional_days": req.AdditionalDays,
	}))
}
