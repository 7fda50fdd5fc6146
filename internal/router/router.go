package router

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Totarae/ResearchAggregator/internal/handlers"
	"github.com/Totarae/ResearchAggregator/internal/middleware"
)

// NewRouter создаёт и настраивает маршрутизатор
func NewRouter(handler *handlers.Handler, logger *zap.Logger, trustedSubnet string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.LoggingMiddleware(logger)) // Подключаем логирование
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS)
	r.Use(middleware.GzipMiddleware) // Gzip-сжатие

	r.Get("/", handler.Root)
	r.Get("/health", handler.Health)
	r.Get("/ping", handler.Ping)
	r.Get("/api-explanation", handler.Explanation)

	r.Route("/api", func(r chi.Router) {
		r.Get("/weather/{city}", handler.Weather)
		r.Get("/news", handler.News)
		r.Get("/exchange", handler.Exchange)
		r.Post("/research", handler.Research)
		r.Get("/runs/{id}", handler.GetRun)
		r.Get("/user/runs", handler.UserRuns)

		r.With(middleware.TrustedSubnet(trustedSubnet)).Get("/internal/stats", handler.Stats)
	})
	return r
}
