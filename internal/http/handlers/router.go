package handlers

import "net/http"

// NewRouter registers HTTP routes on a ServeMux. admin and feed may be nil
// when those surfaces are disabled.
func NewRouter(handler *Handler, admin *AdminHandler, feed http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", handler.Health)
	mux.HandleFunc("/ready", handler.Ready)
	mux.HandleFunc("/games", handler.Games)
	mux.HandleFunc("/games/", handler.GameByID)
	mux.HandleFunc("/analytics/summary", handler.Summary)
	mux.HandleFunc("/analytics/games/", handler.GameMetrics)
	mux.HandleFunc("/analytics/reports/", handler.Reports)
	mux.HandleFunc("/analytics/insights", handler.Insights)
	mux.HandleFunc("/analytics/streaks", handler.Streaks)
	mux.HandleFunc("/analytics/hours", handler.Hours)
	mux.HandleFunc("/analytics/feed", handler.Feed)
	if admin != nil {
		mux.HandleFunc("/admin/backup", admin.Backup)
		mux.HandleFunc("/admin/restore", admin.Restore)
	}
	if feed != nil {
		mux.Handle("/ws", feed)
	}
	return mux
}
