package webhook

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	apppublic "tourney-bot/internal/app/public"
	"tourney-bot/internal/bot"
	"tourney-bot/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// EventHandlers feeds inbound webhook deliveries through the dispatcher.
// A mutex serializes them: one event is processed to completion before
// the next one starts, which keeps session state free of races without
// any locking in the dispatcher itself.
type EventHandlers struct {
	dispatcher *bot.Dispatcher

	mu sync.Mutex
}

func NewEventHandlers(d *bot.Dispatcher) *EventHandlers {
	return &EventHandlers{dispatcher: d}
}

func (h *EventHandlers) Receive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ev bot.InboundEvent
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if ev.UserID <= 0 {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_user_id")
			return
		}

		h.mu.Lock()
		err := h.dispatcher.HandleEvent(r.Context(), ev)
		h.mu.Unlock()
		if err != nil {
			log.Error().Err(err).Int64("user_id", ev.UserID).Msg("event handling failed")
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

type PublicHandlers struct {
	publicSvc *apppublic.Service
}

func NewPublicHandlers(publicSvc *apppublic.Service) *PublicHandlers {
	return &PublicHandlers{publicSvc: publicSvc}
}

func (h *PublicHandlers) Tournaments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.publicSvc.ActiveTournaments(r.Context())
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *PublicHandlers) Tournament() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "tournament_id"), 10, 64)
		if err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		resp, err := h.publicSvc.Tournament(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, apppublic.ErrInvalidRequest):
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			case errors.Is(err, apppublic.ErrTournamentNotFound):
				WriteHTTPError(w, http.StatusNotFound, "tournament_not_found")
			default:
				WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			}
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *PublicHandlers) Registrations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
		if err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		resp, err := h.publicSvc.MyRegistrations(r.Context(), userID)
		if err != nil {
			if errors.Is(err, apppublic.ErrInvalidRequest) {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type AdminHandlers struct {
	store *store.Store
}

func NewAdminHandlers(st *store.Store) *AdminHandlers {
	return &AdminHandlers{store: st}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.store.Ping(r.Context()); err != nil {
			WriteHTTPError(w, http.StatusServiceUnavailable, "store_unavailable")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}
