package httpserver

import (
	"net/http"
	"time"

	"finanx/internal/config"
	"finanx/internal/transport/httpserver/handler"
	authmw "finanx/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, auth *authmw.Authenticator) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.AllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Post("/auth/register", handlers.Register)
		r.Post("/auth/login", handlers.Login)
		r.Post("/auth/logout", handlers.Logout)

		r.Get("/categories", handlers.ListCategories)
		r.Get("/shares/invite/{token}", handlers.GetInviteInfo)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.Me)
			r.Post("/user/onboarding", handlers.CompleteOnboarding)

			r.Get("/transactions", handlers.ListTransactions)
			r.Post("/transactions", handlers.CreateTransaction)
			r.Put("/transactions/{id}", handlers.UpdateTransaction)
			r.Patch("/transactions/{id}", handlers.TogglePaid)
			r.Delete("/transactions/{id}", handlers.DeleteTransaction)

			r.Get("/summary", handlers.MonthlySummary)
			r.Get("/summary/yearly", handlers.YearlySummary)

			r.Get("/shares", handlers.ListShares)
			r.Post("/shares", handlers.CreateShare)
			r.Post("/shares/respond", handlers.RespondToInvite)
			r.Delete("/shares/{id}", handlers.RevokeShare)
		})
	})

	return r
}
