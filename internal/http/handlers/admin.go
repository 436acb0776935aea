package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"gamelib-service/internal/app/library"
	"gamelib-service/internal/http/requestutil"
	"gamelib-service/internal/logging"
	"gamelib-service/internal/snapshots"
	"gamelib-service/internal/timeutil"
)

// AdminHandler exposes admin-only endpoints (library backup and restore).
// Requests carry a bearer token verified against a bcrypt hash so the
// plaintext secret never lives in config.
type AdminHandler struct {
	svc       *library.Service
	saver     *snapshots.Saver
	store     *snapshots.FSStore
	tokenHash string
	logger    *slog.Logger
}

// NewAdminHandler constructs an AdminHandler. An empty tokenHash disables
// the endpoints entirely.
func NewAdminHandler(svc *library.Service, saver *snapshots.Saver, store *snapshots.FSStore, tokenHash string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		svc:       svc,
		saver:     saver,
		store:     store,
		tokenHash: tokenHash,
		logger:    logger,
	}
}

// Backup writes a dated backup of the current library.
func (h *AdminHandler) Backup(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	if !h.authorize(r) {
		h.logUnauthorized(r)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}
	if h.saver == nil {
		writeError(w, r, http.StatusServiceUnavailable, "backups not configured", h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	date, err := h.saver.Backup(r.Context())
	if err != nil {
		logging.Warn(logger, "admin backup failed", slog.Any("err", err))
		writeError(w, r, http.StatusInternalServerError, "failed to write backup", logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"date":   date,
		"status": "ok",
	}, logger)
	logging.Info(logger, "admin backup written", slog.String(logging.FieldDate, date))
}

// Restore replaces the library with a dated backup.
func (h *AdminHandler) Restore(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	if !h.authorize(r) {
		h.logUnauthorized(r)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}
	if h.store == nil {
		writeError(w, r, http.StatusServiceUnavailable, "backups not configured", h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if _, err := timeutil.ParseLocalDate(date); err != nil {
		logging.Warn(logger, "admin restore invalid date", slog.String(logging.FieldDate, date))
		writeError(w, r, http.StatusBadRequest, "invalid date format (expected YYYY-MM-DD)", logger)
		return
	}

	snapshot, err := h.store.LoadBackup(date)
	if err != nil {
		logging.Warn(logger, "admin restore load failed", slog.String(logging.FieldDate, date), slog.Any("err", err))
		writeError(w, r, http.StatusNotFound, "backup not found", logger)
		return
	}
	if err := h.svc.ReplaceLibrary(r.Context(), snapshot.Games); err != nil {
		logging.Warn(logger, "admin restore failed", slog.String(logging.FieldDate, date), slog.Any("err", err))
		writeError(w, r, http.StatusInternalServerError, "failed to restore library", logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date":   date,
		"count":  len(snapshot.Games),
		"status": "ok",
	}, logger)
	logging.Info(logger, "admin restore applied",
		slog.String(logging.FieldDate, date),
		slog.Int(logging.FieldCount, len(snapshot.Games)),
	)
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.tokenHash == "" {
		return false
	}
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || token == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(h.tokenHash), []byte(token)) == nil
}

func (h *AdminHandler) logUnauthorized(r *http.Request) {
	logging.Warn(h.logger, "admin unauthorized",
		slog.String(logging.FieldPath, r.URL.Path),
		slog.String("client_ip", requestutil.ClientIP(r)),
	)
}
