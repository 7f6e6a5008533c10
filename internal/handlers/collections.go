package handlers

import (
	"context"
	"net/http"

	"github.com/AnshRaj112/storylens-backend/internal/models"
	"github.com/AnshRaj112/storylens-backend/internal/services/journal"
)

type collectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type collectionResponse struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message,omitempty"`
	Collection *models.Collection `json:"collection"`
}

// CreateCollection handles POST /api/collections.
func (h *JournalHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req collectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	c, err := h.svc.CreateCollection(ctx, journal.CreateCollectionInput{Name: req.Name, Description: req.Description})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, collectionResponse{Success: true, Message: "Collection created", Collection: c})
}

// ListCollections handles GET /api/collections.
// "collections" is null for a signed-out caller and [] for a signed-in caller with none.
func (h *JournalHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	list, err := h.svc.ListCollections(ctx)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success     bool                `json:"success"`
		Collections []models.Collection `json:"collections"`
	}{true, list})
}

// DeleteCollection handles DELETE /api/collections/{id}.
func (h *JournalHandler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	c, err := h.svc.DeleteCollection(ctx, id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, collectionResponse{Success: true, Message: "Collection deleted", Collection: c})
}
