// Package accountmanager предоставляет маршруты для основного приложения.
package accountmanager

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/account-manager/internal/http/handlers/account/list"
	"github.com/magabrotheeeer/account-manager/internal/http/handlers/account/read"
	"github.com/magabrotheeeer/account-manager/internal/http/handlers/account/remove"
	"github.com/magabrotheeeer/account-manager/internal/http/handlers/account/updatefull"
	"github.com/magabrotheeeer/account-manager/internal/http/handlers/account/updatepartial"
	"github.com/magabrotheeeer/account-manager/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/account-manager/internal/http/handlers/auth/token"
	"github.com/magabrotheeeer/account-manager/internal/http/mware"
	"github.com/magabrotheeeer/account-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/account-manager/internal/services"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, accountService *services.AccountService, jwtMaker jwt.Maker) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Открытые конечные точки
	r.Post("/register/", register.New(logger, accountService).ServeHTTP)
	r.Post("/token", token.New(logger, accountService).ServeHTTP)

	// Группа с JWT аутентификацией
	r.Group(func(r chi.Router) {
		r.Use(mware.JWTMiddleware(jwtMaker, logger))
		r.Get("/accounts/", list.New(logger, accountService).ServeHTTP)
		r.Get("/account/{id}/", read.New(logger, accountService).ServeHTTP)
		r.Patch("/account_partial_update", updatepartial.New(logger, accountService).ServeHTTP)
		r.Put("/account_full_update", updatefull.New(logger, accountService).ServeHTTP)
		r.Delete("/account_delete", remove.New(logger, accountService).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
