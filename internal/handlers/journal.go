package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/AnshRaj112/storylens-backend/internal/models"
	"github.com/AnshRaj112/storylens-backend/internal/services/journal"
)

type journalService interface {
	CreateEntry(ctx context.Context, input journal.CreateEntryInput) (*models.Entry, error)
	UpdateEntry(ctx context.Context, input journal.UpdateEntryInput) (*models.Entry, error)
	ListEntries(ctx context.Context, input journal.ListEntriesInput) ([]models.Entry, error)
	GetEntry(ctx context.Context, id uuid.UUID) (*models.Entry, error)
	DeleteEntry(ctx context.Context, id uuid.UUID) (*models.Entry, error)

	SaveDraft(ctx context.Context, input journal.SaveDraftInput) (*models.Draft, error)
	GetDraft(ctx context.Context) (*models.Draft, error)
	ClearDraft(ctx context.Context) error

	CreateCollection(ctx context.Context, input journal.CreateCollectionInput) (*models.Collection, error)
	ListCollections(ctx context.Context) ([]models.Collection, error)
	DeleteCollection(ctx context.Context, id uuid.UUID) (*models.Collection, error)

	GetAnalytics(ctx context.Context, input journal.AnalyticsInput) (*models.MoodAnalytics, error)
}

type moodLister interface {
	All() []models.Mood
}

// JournalHandler serves the entry, draft, collection and analytics endpoints.
type JournalHandler struct {
	svc   journalService
	moods moodLister
	log   *slog.Logger
}

func NewJournalHandler(svc journalService, moods moodLister, log *slog.Logger) *JournalHandler {
	return &JournalHandler{svc: svc, moods: moods, log: log.With("handler", "journal")}
}

type entryRequest struct {
	Title        string  `json:"title"`
	Content      string  `json:"content"`
	Mood         string  `json:"mood"`
	MoodQuery    string  `json:"mood_query"`
	CollectionID *string `json:"collection_id"`
}

// collectionRef parses the optional collection reference of an entry body.
// Null and "" mean the entry is unorganized.
func (req entryRequest) collectionRef() (*uuid.UUID, error) {
	if req.CollectionID == nil || strings.TrimSpace(*req.CollectionID) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*req.CollectionID))
	if err != nil {
		return nil, models.NewValidationError("collection_id", "invalid id")
	}
	return &id, nil
}

type entryResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Entry   *models.Entry `json:"entry"`
}

// CreateEntry handles POST /api/entries.
func (h *JournalHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	collectionID, err := req.collectionRef()
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	entry, err := h.svc.CreateEntry(ctx, journal.CreateEntryInput{
		Title:        req.Title,
		Content:      req.Content,
		Mood:         req.Mood,
		MoodQuery:    req.MoodQuery,
		CollectionID: collectionID,
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, entryResponse{Success: true, Message: "Journal entry created", Entry: entry})
}

// UpdateEntry handles PUT /api/entries/{id}.
func (h *JournalHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req entryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	collectionID, err := req.collectionRef()
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	entry, err := h.svc.UpdateEntry(ctx, journal.UpdateEntryInput{
		ID:           id,
		Title:        req.Title,
		Content:      req.Content,
		Mood:         req.Mood,
		MoodQuery:    req.MoodQuery,
		CollectionID: collectionID,
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, entryResponse{Success: true, Message: "Journal entry updated", Entry: entry})
}

type listEntriesFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ListEntries handles GET /api/entries?collection_id=&order=.
// A signed-out caller gets 200 with success=false so pages can render anonymously.
func (h *JournalHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	q := r.URL.Query()
	entries, err := h.svc.ListEntries(ctx, journal.ListEntriesInput{
		CollectionID: strings.TrimSpace(q.Get("collection_id")),
		Order:        strings.TrimSpace(q.Get("order")),
	})
	if errors.Is(err, models.ErrUnauthenticated) {
		writeJSON(w, http.StatusOK, listEntriesFailure{Error: "Unauthorized"})
		return
	}
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool           `json:"success"`
		Entries []models.Entry `json:"entries"`
	}{true, entries})
}

// GetEntry handles GET /api/entries/{id}.
func (h *JournalHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	entry, err := h.svc.GetEntry(ctx, id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, entryResponse{Success: true, Entry: entry})
}

// DeleteEntry handles DELETE /api/entries/{id}.
func (h *JournalHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	entry, err := h.svc.DeleteEntry(ctx, id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, entryResponse{Success: true, Message: "Journal entry deleted", Entry: entry})
}

type draftRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Mood    string `json:"mood"`
}

type draftResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Draft   *models.Draft `json:"draft"`
}

// SaveDraft handles PUT /api/draft. An all-empty body clears the draft.
func (h *JournalHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	draft, err := h.svc.SaveDraft(ctx, journal.SaveDraftInput{Title: req.Title, Content: req.Content, Mood: req.Mood})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, draftResponse{Success: true, Message: "Draft saved", Draft: draft})
}

// GetDraft handles GET /api/draft. A missing draft is "draft": null.
func (h *JournalHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	draft, err := h.svc.GetDraft(ctx)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, draftResponse{Success: true, Draft: draft})
}

// ClearDraft handles DELETE /api/draft.
func (h *JournalHandler) ClearDraft(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.ClearDraft(ctx); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, draftResponse{Success: true, Message: "Draft cleared"})
}

// pathID parses the {id} URL parameter. A malformed id cannot name an owned
// resource, so it is reported as not found.
func (h *JournalHandler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.log, models.ErrNotFound)
		return uuid.Nil, false
	}
	return id, true
}
