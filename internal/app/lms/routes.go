// Package lms собирает HTTP API платформы: маршруты, зависимости и жизненный цикл.
package lms

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/lms-platform/internal/config"
	"github.com/magabrotheeeer/lms-platform/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/lms-platform/internal/http/handlers/auth/refresh"
	"github.com/magabrotheeeer/lms-platform/internal/http/handlers/auth/register"
	coursecreate "github.com/magabrotheeeer/lms-platform/internal/http/handlers/course/create"
	courselist "github.com/magabrotheeeer/lms-platform/internal/http/handlers/course/list"
	courseread "github.com/magabrotheeeer/lms-platform/internal/http/handlers/course/read"
	courseremove "github.com/magabrotheeeer/lms-platform/internal/http/handlers/course/remove"
	courseupdate "github.com/magabrotheeeer/lms-platform/internal/http/handlers/course/update"
	lessoncreate "github.com/magabrotheeeer/lms-platform/internal/http/handlers/lesson/create"
	lessonlist "github.com/magabrotheeeer/lms-platform/internal/http/handlers/lesson/list"
	lessonread "github.com/magabrotheeeer/lms-platform/internal/http/handlers/lesson/read"
	lessonremove "github.com/magabrotheeeer/lms-platform/internal/http/handlers/lesson/remove"
	lessonupdate "github.com/magabrotheeeer/lms-platform/internal/http/handlers/lesson/update"
	paymentcreate "github.com/magabrotheeeer/lms-platform/internal/http/handlers/payment/create"
	paymentlist "github.com/magabrotheeeer/lms-platform/internal/http/handlers/payment/list"
	paymentread "github.com/magabrotheeeer/lms-platform/internal/http/handlers/payment/read"
	"github.com/magabrotheeeer/lms-platform/internal/http/handlers/subscription/toggle"
	"github.com/magabrotheeeer/lms-platform/internal/http/handlers/users/me"
	usercreate "github.com/magabrotheeeer/lms-platform/internal/http/handlers/users/create"
	userlist "github.com/magabrotheeeer/lms-platform/internal/http/handlers/users/list"
	userread "github.com/magabrotheeeer/lms-platform/internal/http/handlers/users/read"
	userremove "github.com/magabrotheeeer/lms-platform/internal/http/handlers/users/remove"
	userupdate "github.com/magabrotheeeer/lms-platform/internal/http/handlers/users/update"
	"github.com/magabrotheeeer/lms-platform/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/lms-platform/internal/services/auth"
	"github.com/magabrotheeeer/lms-platform/internal/services/catalog"
	paymentservice "github.com/magabrotheeeer/lms-platform/internal/services/payment"
	subservice "github.com/magabrotheeeer/lms-platform/internal/services/subscription"
	userservice "github.com/magabrotheeeer/lms-platform/internal/services/users"
)

// Services — сервисы, которые обслуживают маршруты API.
type Services struct {
	Auth         *authservice.AuthService
	Users        *userservice.Service
	Catalog      *catalog.Service
	Subscription *subservice.Service
	Payment      *paymentservice.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, limits config.RateLimit, metrics *middlewarectx.Metrics, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.StripSlashes,
		metrics.Middleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(limits.RPS, limits.Burst, logger))

		// Открытые конечные точки
		r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/token", login.New(logger, s.Auth).ServeHTTP)
		r.Post("/token/refresh", refresh.New(logger, s.Auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))

			meHandler := me.New(logger, s.Users)
			r.Get("/users/me", meHandler.ServeHTTP)
			r.Put("/users/me", meHandler.ServeHTTP)
			r.Patch("/users/me", meHandler.ServeHTTP)
			r.Delete("/users/me", meHandler.ServeHTTP)

			userUpdate := userupdate.New(logger, s.Users)
			r.Get("/users", userlist.New(logger, s.Users).ServeHTTP)
			r.Post("/users", usercreate.New(logger, s.Users).ServeHTTP)
			r.Get("/users/{id}", userread.New(logger, s.Users).ServeHTTP)
			r.Put("/users/{id}", userUpdate.ServeHTTP)
			r.Patch("/users/{id}", userUpdate.ServeHTTP)
			r.Delete("/users/{id}", userremove.New(logger, s.Users).ServeHTTP)

			courseUpdate := courseupdate.New(logger, s.Catalog)
			r.Get("/courses", courselist.New(logger, s.Catalog).ServeHTTP)
			r.Post("/courses", coursecreate.New(logger, s.Catalog).ServeHTTP)
			r.Get("/courses/{id}", courseread.New(logger, s.Catalog).ServeHTTP)
			r.Put("/courses/{id}", courseUpdate.ServeHTTP)
			r.Patch("/courses/{id}", courseUpdate.ServeHTTP)
			r.Delete("/courses/{id}", courseremove.New(logger, s.Catalog).ServeHTTP)

			lessonUpdate := lessonupdate.New(logger, s.Catalog)
			r.Get("/lessons", lessonlist.New(logger, s.Catalog).ServeHTTP)
			r.Post("/lessons", lessoncreate.New(logger, s.Catalog).ServeHTTP)
			r.Get("/lessons/{id}", lessonread.New(logger, s.Catalog).ServeHTTP)
			r.Put("/lessons/{id}", lessonUpdate.ServeHTTP)
			r.Patch("/lessons/{id}", lessonUpdate.ServeHTTP)
			r.Delete("/lessons/{id}", lessonremove.New(logger, s.Catalog).ServeHTTP)

			r.Post("/subscriptions/toggle", toggle.New(logger, s.Subscription).ServeHTTP)

			r.Get("/payments", paymentlist.New(logger, s.Payment).ServeHTTP)
			r.Post("/payments", paymentcreate.New(logger, s.Payment).ServeHTTP)
			r.Get("/payments/{id}", paymentread.New(logger, s.Payment).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
