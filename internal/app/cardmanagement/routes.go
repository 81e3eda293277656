// Package cardmanagement предоставляет маршруты приложения.
package cardmanagement

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/card-management/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/card-management/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/card-management/internal/http/handlers/card/activate"
	"github.com/magabrotheeeer/card-management/internal/http/handlers/card/balance"
	"github.com/magabrotheeeer/card-management/internal/http/handlers/card/block"
	"github.com/magabrotheeeer/card-management/internal/http/handlers/card/create"
	"github.com/magabrotheeeer/card-management/internal/http/handlers/card/list"
	"github.com/magabrotheeeer/card-management/internal/http/handlers/card/listall"
	"github.com/magabrotheeeer/card-management/internal/http/handlers/card/remove"
	"github.com/magabrotheeeer/card-management/internal/http/handlers/card/requestblock"
	"github.com/magabrotheeeer/card-management/internal/http/handlers/card/transfer"
	"github.com/magabrotheeeer/card-management/internal/http/handlers/card/update"
	"github.com/magabrotheeeer/card-management/internal/http/middlewarectx"
	"github.com/magabrotheeeer/card-management/internal/lib/jwt"
	"github.com/magabrotheeeer/card-management/internal/models"
	authservice "github.com/magabrotheeeer/card-management/internal/services/auth"
	cardservice "github.com/magabrotheeeer/card-management/internal/services/card"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker, authService *authservice.Service, cardService *cardservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/cards", list.New(logger, cardService).ServeHTTP)
			r.Get("/cards/{id}/balance", balance.New(logger, cardService).ServeHTTP)
			r.Post("/cards/{id}/block", requestblock.New(logger, cardService).ServeHTTP)
			r.Post("/cards/transfer", transfer.New(logger, cardService).ServeHTTP)

			// Административные операции
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, models.RoleAdmin))

				r.Post("/admin/cards", create.New(logger, cardService).ServeHTTP)
				r.Get("/admin/cards", listall.New(logger, cardService).ServeHTTP)
				r.Put("/admin/cards/{id}", update.New(logger, cardService).ServeHTTP)
				r.Delete("/admin/cards/{id}", remove.New(logger, cardService).ServeHTTP)
				r.Post("/admin/cards/{id}/block", block.New(logger, cardService).ServeHTTP)
				r.Post("/admin/cards/{id}/activate", activate.New(logger, cardService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
