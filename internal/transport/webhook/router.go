// Package webhook is the HTTP face of the bot: inbound message events
// arrive as webhook POSTs and replies leave through an outbound JSON
// sink. A few read-only endpoints expose the public tournament data.
package webhook

import (
	"net/http"

	apppublic "tourney-bot/internal/app/public"
	"tourney-bot/internal/bot"
	"tourney-bot/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(st *store.Store, d *bot.Dispatcher, publicSvc *apppublic.Service) *chi.Mux {
	eventHandlers := NewEventHandlers(d)
	publicHandlers := NewPublicHandlers(publicSvc)
	adminHandlers := NewAdminHandlers(st)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.NotFound(NotFoundJSON())

	r.With(APILogMiddleware()).Get("/healthz", adminHandlers.Health())

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Post("/events", eventHandlers.Receive())
		r.Get("/public/tournaments", publicHandlers.Tournaments())
		r.Get("/public/tournaments/{tournament_id}", publicHandlers.Tournament())
		r.Get("/public/users/{user_id}/registrations", publicHandlers.Registrations())
	})

	return r
}

// NotFoundJSON keeps unknown routes on the same JSON error shape as the
// handlers.
func NotFoundJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		WriteHTTPError(w, http.StatusNotFound, "not_found")
	}
}
