/*
server.go - Router and middleware configuration

PURPOSE:
  Wires URLs to handlers. Reads are public (the house dashboard is open
  to every resident), the WiFi usage declaration is self-service, and
  every other mutation sits behind the shared-password admin gate.

MIDDLEWARE STACK:
  1. Logger:    Request logging
  2. Recoverer: Panic recovery (500 instead of crash)
  3. RequestID: Unique ID per request for tracing
  4. CORS:      Cross-origin requests for the frontend

SEE ALSO:
  - handlers.go: Handler implementations
  - auth.go:     The admin gate
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates the router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", h.Login)

		// Public reads: the whole house can see the books.
		r.Get("/members", h.ListMembers)
		r.Get("/transactions", h.ListTransactions)
		r.Get("/wifi-bills", h.ListWifiBills)
		r.Get("/wifi-usage", h.ListWifiUsage)
		r.Get("/wifi-debts", h.ListWifiDebts)
		r.Get("/summary", h.GetSummary)
		r.Get("/arrears", h.GetArrears)
		r.Get("/ledger", h.GetLedger)
		r.Get("/recap", h.GetRecap)
		r.Post("/quote", h.PostQuote)

		// Self-service: members declare their own WiFi usage.
		r.Post("/wifi-usage", h.UpsertWifiUsage)

		// Admin mutations behind the shared-password gate.
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireAdmin)

			r.Post("/members", h.CreateMember)
			r.Put("/members", h.UpdateMember)
			r.Delete("/members", h.DeleteMember)

			r.Post("/transactions", h.CreateTransaction)
			r.Delete("/transactions", h.DeleteTransaction)

			r.Post("/wifi-bills", h.UpsertWifiBill)
			r.Put("/wifi-bills", h.ReplaceWifiBills)
			r.Delete("/wifi-bills/{month}", h.DeleteWifiBill)

			r.Delete("/wifi-usage", h.DeleteWifiUsage)

			r.Post("/wifi-debts", h.CreateWifiDebt)
			r.Delete("/wifi-debts", h.DeleteWifiDebt)
		})
	})

	return r
}
