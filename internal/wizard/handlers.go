package wizard

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/alpenride/booking-api/internal/booking"
	"github.com/alpenride/booking-api/internal/common"
)

// Handler exposes the wizard session API.
type Handler struct {
	svc *Service
}

// NewHandler wires the session endpoints.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts the session API on a chi router. idem wraps the confirm
// route so duplicate Idempotency-Key submissions never pay twice.
func (h *Handler) Routes(r chi.Router, idem func(http.Handler) http.Handler) {
	r.Post("/sessions", h.Create)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/actions", h.Dispatch)
		r.Get("/slots", h.Slots)
		r.Post("/availability/refresh", h.RefreshStock)
		r.Get("/availability/summary", h.Summary)
		r.Get("/calendar.ics", h.Calendar)
		r.With(idem).Post("/confirm", h.Confirm)
	})
}

// Create starts a new wizard session.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.CreateSession(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, view)
}

// Get returns the current session view.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, view)
}

// Dispatch applies one action to the session.
func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var action booking.Action
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "request body must be a JSON action", nil)
		return
	}
	if action.Type == "" {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "action type is required", nil)
		return
	}
	view, err := h.svc.Dispatch(r.Context(), chi.URLParam(r, "sessionID"), action)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, view)
}

// Slots returns the start-time grid for ?date=YYYY-MM-DD.
func (h *Handler) Slots(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		common.JSONError(w, http.StatusBadRequest, "INVALID_DATE", "query parameter date is required", nil)
		return
	}
	slots, err := h.svc.Slots(r.Context(), chi.URLParam(r, "sessionID"), date)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"slots": slots})
}

// RefreshStock triggers an availability fetch cycle and clamps the basket.
func (h *Handler) RefreshStock(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.RefreshStock(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, view)
}

// Summary returns aggregate availability between ?start and ?end (RFC 3339).
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_WINDOW", "query parameters start and end must be RFC 3339 timestamps", nil)
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_WINDOW", "query parameters start and end must be RFC 3339 timestamps", nil)
		return
	}
	rows, err := h.svc.Summary(r.Context(), chi.URLParam(r, "sessionID"), start, end)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"summary": rows})
}

// Confirm submits payment and finalises the booking.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Confirm(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, view)
}

// Calendar exports the confirmed booking as an iCalendar file.
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	raw, err := h.svc.CalendarICS(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="booking.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
