// Package handler exposes the application services over a JSON HTTP API.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tmun/divvy/internal/auth"
	"github.com/tmun/divvy/internal/middleware"
	"github.com/tmun/divvy/internal/observability"
	"github.com/tmun/divvy/internal/service"
)

// Services bundles everything the router needs.
type Services struct {
	Auth        *service.AuthService
	Groups      *service.GroupService
	Expenses    *service.ExpenseService
	Settlements *service.SettlementService
	JWT         *auth.JWTManager
	Metrics     *observability.Metrics
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svc Services) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics(svc.Metrics))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Heartbeat("/ping"))
	r.Use(middleware.CORS)

	// --- Operational endpoints ---
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(svc.Metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/register", registerHandler(svc.Auth))
		r.Post("/auth/login", loginHandler(svc.Auth))

		// Everything below requires a valid session token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(svc.JWT))

			r.Post("/groups", createGroupHandler(svc.Groups))
			r.Get("/groups", listGroupsHandler(svc.Groups))
			r.Get("/groups/{groupID}", getGroupHandler(svc.Groups))
			r.Post("/groups/{groupID}/members", addMembersHandler(svc.Groups))

			r.Post("/groups/{groupID}/expenses", createExpenseHandler(svc.Expenses))
			r.Get("/groups/{groupID}/expenses", listExpensesHandler(svc.Expenses))
			r.Get("/expenses/{expenseID}", getExpenseHandler(svc.Expenses))
			r.Delete("/expenses/{expenseID}", deleteExpenseHandler(svc.Expenses))

			r.Get("/groups/{groupID}/settlements/plan", settlementPlanHandler(svc.Settlements))
			r.Get("/groups/{groupID}/settlements", listSettlementsHandler(svc.Settlements))
			r.Post("/groups/{groupID}/settlements", recordSettlementHandler(svc.Settlements))
			r.Post("/settlements/{settlementID}/confirm", confirmSettlementHandler(svc.Settlements))
		})
	})

	return r
}
