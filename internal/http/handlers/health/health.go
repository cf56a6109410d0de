// Package health реализует HTTP-обработчик проверки живости сервиса.
package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/licenseflow/license-portal/internal/cache"
	"github.com/licenseflow/license-portal/internal/http/response"
	"github.com/licenseflow/license-portal/internal/storage/repository"
)

type Handler struct {
	log     *slog.Logger
	storage *repository.Storage
	cache   *cache.Cache
}

func New(log *slog.Logger, storage *repository.Storage, cache *cache.Cache) *Handler {
	return &Handler{
		log:     log,
		storage: storage,
		cache:   cache,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": "ok",
	}))
}
