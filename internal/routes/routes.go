package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/storylens-backend/internal/handlers"
)

func SetupRoutes(r chi.Router, journal *handlers.JournalHandler, dashboard *handlers.DashboardHandler) {
	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Mood registry (public)
	r.Get("/api/moods", journal.ListMoods)

	// Journal entries
	r.Post("/api/entries", journal.CreateEntry)
	r.Get("/api/entries", journal.ListEntries)
	r.Get("/api/entries/{id}", journal.GetEntry)
	r.Put("/api/entries/{id}", journal.UpdateEntry)
	r.Delete("/api/entries/{id}", journal.DeleteEntry)

	// Single-slot draft
	r.Get("/api/draft", journal.GetDraft)
	r.Put("/api/draft", journal.SaveDraft)
	r.Delete("/api/draft", journal.ClearDraft)

	// Collections
	r.Post("/api/collections", journal.CreateCollection)
	r.Get("/api/collections", journal.ListCollections)
	r.Delete("/api/collections/{id}", journal.DeleteCollection)

	// Mood analytics for the dashboard
	r.Get("/api/analytics", journal.GetAnalytics)

	// WebSocket feed of dashboard invalidations
	r.Get("/ws/dashboard", dashboard.Feed)
}
