// Package licenseportal предоставляет маршруты для основного приложения.
package licenseportal

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/licenseflow/license-portal/internal/cache"
	"github.com/licenseflow/license-portal/internal/config"
	"github.com/licenseflow/license-portal/internal/http/handlers/account/create"
	"github.com/licenseflow/license-portal/internal/http/handlers/account/extend"
	"github.com/licenseflow/license-portal/internal/http/handlers/account/licensestatus"
	"github.com/licenseflow/license-portal/internal/http/handlers/account/list"
	"github.com/licenseflow/license-portal/internal/http/handlers/account/read"
	"github.com/licenseflow/license-portal/internal/http/handlers/account/remove"
	"github.com/licenseflow/license-portal/internal/http/handlers/account/update"
	"github.com/licenseflow/license-portal/internal/http/handlers/auth/adminlogin"
	"github.com/licenseflow/license-portal/internal/http/handlers/auth/login"
	"github.com/licenseflow/license-portal/internal/http/handlers/health"
	"github.com/licenseflow/license-portal/internal/http/middlewarectx"
	"github.com/licenseflow/license-portal/internal/lib/jwt"
	"github.com/licenseflow/license-portal/internal/services/adminauth"
	"github.com/licenseflow/license-portal/internal/services/directory"
	"github.com/licenseflow/license-portal/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	directoryService *directory.Service, adminService *adminauth.Service,
	maker jwt.Maker, db *repository.Storage, cacheRedis *cache.Cache) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/login", login.New(logger, directoryService, maker).ServeHTTP)
		r.Post("/admin/login", adminlogin.New(logger, adminService, maker).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(logger, maker))

			r.Get("/accounts/me/license", licensestatus.New(logger, directoryService).ServeHTTP)

			// Административная группа
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireAdmin(logger))
				r.Use(middlewarectx.RateLimitMiddleware(logger))

				r.Post("/accounts", create.New(logger, directoryService).ServeHTTP)
				r.Get("/accounts", list.New(logger, directoryService, cfg.WarningWindowDays).ServeHTTP)
				r.Get("/accounts/{id}", read.New(logger, directoryService).ServeHTTP)
				r.Patch("/accounts/{id}", update.New(logger, directoryService).ServeHTTP)
				r.Delete("/accounts/{id}", remove.New(logger, directoryService).ServeHTTP)
				r.Post("/accounts/{id}/extend", extend.New(logger, directoryService).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, db, cacheRedis).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
