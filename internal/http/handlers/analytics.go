package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"gamelib-service/internal/analytics"
	"gamelib-service/internal/timeutil"
)

// Summary returns whole-library analytics.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	games, err := h.svc.Games(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.CalculateSummary(games), h.logger)
}

// GameMetrics serves the per-game routes /analytics/games/{id}/metrics and
// /analytics/games/{id}/completion.
func (h *Handler) GameMetrics(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	id, rest := splitAnalyticsGamePath(r.URL.Path)
	if id == "" {
		writeError(w, r, http.StatusNotFound, "not found", h.logger)
		return
	}
	game, err := h.svc.GameByID(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	switch rest {
	case "metrics":
		writeJSON(w, http.StatusOK, analytics.CalculateMetrics(game, h.cfg), h.logger)
	case "completion":
		games, err := h.svc.Games(r.Context())
		if err != nil {
			h.serviceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, analytics.CalculateCompletionProbability(game, games, h.now(), h.cfg), h.logger)
	default:
		writeError(w, r, http.StatusNotFound, "not found", h.logger)
	}
}

// Reports serves the windowed report routes under /analytics/reports/.
func (h *Handler) Reports(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	kind := strings.TrimPrefix(r.URL.Path, "/analytics/reports/")

	games, err := h.svc.Games(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	var window analytics.Window
	switch kind {
	case "last-active-week", "last-active-month":
		// Scans back to the most recent window with play activity; a
		// library with no events falls back to the current window.
		var found bool
		if kind == "last-active-week" {
			window, found, err = analytics.LastCompletedWeek(games, h.now())
		} else {
			window, found, err = analytics.LastCompletedMonth(games, h.now())
		}
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error(), h.logger)
			return
		}
		if !found {
			if kind == "last-active-week" {
				window = analytics.WeekWindow(h.now(), 0)
			} else {
				window = analytics.MonthWindow(h.now(), 0)
			}
		}
	case "week", "month":
		offset, ok := parseOffset(r.URL.Query().Get("offset"))
		if !ok {
			writeError(w, r, http.StatusBadRequest, "invalid offset (expected integer >= 0)", h.logger)
			return
		}
		if kind == "week" {
			window = analytics.WeekWindow(h.now(), offset)
		} else {
			window = analytics.MonthWindow(h.now(), offset)
		}
	case "range":
		start, err := timeutil.ParseLocalDate(r.URL.Query().Get("start"))
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid start date (expected YYYY-MM-DD)", h.logger)
			return
		}
		end, err := timeutil.ParseLocalDate(r.URL.Query().Get("end"))
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid end date (expected YYYY-MM-DD)", h.logger)
			return
		}
		window, err = analytics.NewWindow(start, end)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "start must not be after end", h.logger)
			return
		}
	default:
		writeError(w, r, http.StatusNotFound, "not found", h.logger)
		return
	}

	report, err := analytics.BuildReport(games, window, h.cfg)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error(), h.logger)
		return
	}
	writeJSON(w, http.StatusOK, report, h.logger)
}

// InsightsResponse bundles the heuristic insight endpoints into one payload.
type InsightsResponse struct {
	Personality analytics.PersonalityResult `json:"personality"`
	Rotation    analytics.RotationHealth    `json:"rotation"`
	HiddenGems  []analytics.GameScore       `json:"hiddenGems"`
	Regrets     []analytics.GameScore       `json:"regrets"`
}

// Insights returns personality, rotation health, gems and regrets.
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	games, err := h.svc.Games(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	payload := InsightsResponse{
		Personality: analytics.ClassifyPersonality(games),
		Rotation:    analytics.ClassifyRotation(games, h.now(), h.cfg),
		HiddenGems:  analytics.HiddenGems(games, h.cfg),
		Regrets:     analytics.RegretPurchases(games, h.cfg),
	}
	writeJSON(w, http.StatusOK, payload, h.logger)
}

// Hours returns the all-time cumulative hours counter.
func (h *Handler) Hours(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	games, err := h.svc.Games(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	counter, err := analytics.CumulativeHoursCounter(games, h.now())
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error(), h.logger)
		return
	}
	writeJSON(w, http.StatusOK, counter, h.logger)
}

// Feed returns the most recent play events, newest first. ?limit=N caps the
// result; the default is 20.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	limit := defaultFeedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, r, http.StatusBadRequest, "invalid limit (expected integer >= 1)", h.logger)
			return
		}
		limit = parsed
	}
	games, err := h.svc.Games(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	events, err := analytics.ActivityFeed(games, h.now(), limit)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error(), h.logger)
		return
	}
	if events == nil {
		events = []analytics.PlayEvent{}
	}
	writeJSON(w, http.StatusOK, events, h.logger)
}

// Streaks returns the play-day streak report.
func (h *Handler) Streaks(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	games, err := h.svc.Games(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	report, err := analytics.Streaks(games, h.now())
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error(), h.logger)
		return
	}
	writeJSON(w, http.StatusOK, report, h.logger)
}

const defaultFeedLimit = 20

// parseOffset accepts empty (0) or a non-negative integer; offset counts
// whole windows back from the current one.
func parseOffset(raw string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	offset, err := strconv.Atoi(raw)
	if err != nil || offset < 0 {
		return 0, false
	}
	return offset, true
}

// splitAnalyticsGamePath extracts the ID and trailing segment from
// /analytics/games/{id}/rest.
func splitAnalyticsGamePath(path string) (id, rest string) {
	trimmed := strings.TrimPrefix(path, "/analytics/games/")
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
