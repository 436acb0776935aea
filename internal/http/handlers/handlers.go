package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"gamelib-service/internal/analytics"
	"gamelib-service/internal/app/library"
	"gamelib-service/internal/domain"
	"gamelib-service/internal/enricher"
	"gamelib-service/internal/logging"
)

type nowFunc func() time.Time

// Handler wires HTTP routes to the library service and analytics engine.
type Handler struct {
	svc      *library.Service
	cfg      analytics.Config
	logger   *slog.Logger
	now      nowFunc
	statusFn func() enricher.Status
}

// NewHandler constructs a Handler with defaults. statusFn may be nil when
// enrichment is disabled; readiness then only covers the HTTP layer.
func NewHandler(svc *library.Service, cfg analytics.Config, logger *slog.Logger, statusFn func() enricher.Status) *Handler {
	return &Handler{
		svc:      svc,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		statusFn: statusFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic (e.g., for Kubernetes probes).
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	if h.statusFn == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	if h.statusFn().IsReady() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := h.statusFn().LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, http.StatusServiceUnavailable, msg, h.logger)
}

// Games handles the collection routes: list and create.
func (h *Handler) Games(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listGames(w, r)
	case http.MethodPost:
		h.createGame(w, r)
	default:
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
	}
}

// GameByID handles /games/{id} and /games/{id}/playlogs.
func (h *Handler) GameByID(w http.ResponseWriter, r *http.Request) {
	id, rest := splitGamePath(r.URL.Path)
	if id == "" {
		writeError(w, r, http.StatusNotFound, "not found", h.logger)
		return
	}

	if rest == "playlogs" {
		if !requireMethod(w, r, http.MethodPost, h.logger) {
			return
		}
		h.addPlayLog(w, r, id)
		return
	}
	if rest != "" {
		writeError(w, r, http.StatusNotFound, "not found", h.logger)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getGame(w, r, id)
	case http.MethodPut:
		h.updateGame(w, r, id)
	case http.MethodDelete:
		h.deleteGame(w, r, id)
	default:
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
	}
}

func (h *Handler) listGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.svc.Games(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	payload := domain.NewLibrarySnapshot("", games, h.now().Format(time.RFC3339))
	writeJSON(w, http.StatusOK, payload, h.logger)
}

func (h *Handler) createGame(w http.ResponseWriter, r *http.Request) {
	var game domain.Game
	if err := json.NewDecoder(r.Body).Decode(&game); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body", h.logger)
		return
	}
	game.ID = ""
	created, err := h.svc.UpsertGame(r.Context(), game)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	logger := loggerFromContext(r, h.logger)
	logging.Info(logger, "game created", slog.String(logging.FieldGameID, created.ID))
	writeJSON(w, http.StatusCreated, created, h.logger)
}

func (h *Handler) getGame(w http.ResponseWriter, r *http.Request, id string) {
	game, err := h.svc.GameByID(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, game, h.logger)
}

func (h *Handler) updateGame(w http.ResponseWriter, r *http.Request, id string) {
	var game domain.Game
	if err := json.NewDecoder(r.Body).Decode(&game); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body", h.logger)
		return
	}
	game.ID = id
	if _, err := h.svc.GameByID(r.Context(), id); err != nil {
		h.serviceError(w, r, err)
		return
	}
	updated, err := h.svc.UpsertGame(r.Context(), game)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated, h.logger)
}

func (h *Handler) deleteGame(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.svc.DeleteGame(r.Context(), id); err != nil {
		h.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addPlayLog(w http.ResponseWriter, r *http.Request, id string) {
	var log domain.PlayLog
	if err := json.NewDecoder(r.Body).Decode(&log); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body", h.logger)
		return
	}
	updated, err := h.svc.AddPlayLog(r.Context(), id, log)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, updated, h.logger)
}

func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, library.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "game not found", h.logger)
	case errors.Is(err, library.ErrInvalid):
		writeError(w, r, http.StatusBadRequest, err.Error(), h.logger)
	default:
		logger := loggerFromContext(r, h.logger)
		logging.Error(logger, "request failed", err)
		writeError(w, r, http.StatusInternalServerError, "internal error", h.logger)
	}
}

// splitGamePath extracts the ID and trailing segment from /games/{id}[/rest].
func splitGamePath(path string) (id, rest string) {
	trimmed := strings.TrimPrefix(path, "/games/")
	if trimmed == path || trimmed == "" {
		return "", ""
	}
	parts := strings.SplitN(trimmed, "/", 2)
	id = parts[0]
	if len(parts) == 2 {
		rest = strings.Trim(parts[1], "/")
	}
	return id, rest
}
