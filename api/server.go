/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:     Unique ID per request for tracing
  2. Logger:        Request logging
  3. Recoverer:     Panic recovery (500 instead of crash)
  4. CORS:          Cross-origin requests for the dashboard
  5. Latency:       Optional artificial delay (demo.latency)
  6. Authenticate:  Bearer token + stored user → leave.Actor (all routes but login/scenarios list)

ROUTE GROUPS:
  /api/auth/login       Sign in
  /api/me               Current user
  /api/users/*          Users, summaries, per-user leave and projects
  /api/leaves/*         Submit, review queue, approve/reject
  /api/calendar/*       Day and range calendars
  /api/projects/*       Projects, members, project calendar
  /api/holidays/*       Holiday configuration
  /api/settings         Company country and default quota
  /api/countries        Supported countries
  /api/invites          Invitations and expiry sweep
  /api/scenarios/*      Demo data sets

AUTHORIZATION:
  The router only authenticates. Role checks (admin vs member, self vs
  other) happen inside leave.Service and come back as 403.

SEE ALSO:
  - handlers.go: Handler implementations
  - middleware.go: Authenticate, Latency
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(Latency(h.Latency))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", h.Login)
		r.Get("/scenarios", h.ListScenarios)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(h.Tokens, h.Service.Repo))

			r.Get("/me", h.Me)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.ListUsers)
				r.Post("/", h.CreateUser)
				r.Get("/{id}", h.GetUser)
				r.Put("/{id}", h.UpdateUser)
				r.Delete("/{id}", h.DeleteUser)
				r.Get("/{id}/summary", h.GetSummary)
				r.Get("/{id}/leaves", h.ListUserLeaves)
				r.Get("/{id}/projects", h.ListUserProjects)
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/", h.SubmitLeave)
				r.Get("/pending", h.ListPendingLeaves)
				r.Get("/{id}", h.GetLeave)
				r.Post("/{id}/approve", h.ApproveLeave)
				r.Post("/{id}/reject", h.RejectLeave)
			})

			r.Route("/calendar", func(r chi.Router) {
				r.Get("/", h.GetCalendar)
				r.Get("/day", h.GetDay)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", h.ListProjects)
				r.Post("/", h.CreateProject)
				r.Get("/{id}", h.GetProject)
				r.Put("/{id}", h.UpdateProject)
				r.Delete("/{id}", h.DeleteProject)
				r.Get("/{id}/members", h.ListProjectMembers)
				r.Get("/{id}/calendar", h.GetProjectDay)
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", h.ListHolidays)
				r.Post("/", h.CreateHoliday)
				r.Delete("/{id}", h.DeleteHoliday)
			})

			r.Get("/settings", h.GetSettings)
			r.Put("/settings", h.UpdateSettings)
			r.Get("/countries", h.ListCountries)

			r.Get("/invites", h.ListInvites)
			r.Post("/invites", h.CreateInvite)
			r.Post("/invites/prune", h.PruneInvites)

			r.Get("/scenarios/current", h.GetCurrentScenario)
			r.Post("/scenarios/load", h.LoadScenario)
		})
	})

	return r
}
