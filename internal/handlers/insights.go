package handlers

import (
	"context"
	"net/http"

	"github.com/AnshRaj112/storylens-backend/internal/services/journal"
)

// GetAnalytics handles GET /api/analytics?period=7d|15d|30d.
func (h *JournalHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	analytics, err := h.svc.GetAnalytics(ctx, journal.AnalyticsInput{Period: r.URL.Query().Get("period")})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "analytics": analytics})
}

// ListMoods handles GET /api/moods. It needs no identity.
func (h *JournalHandler) ListMoods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "moods": h.moods.All()})
}
