package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/storylens-backend/internal/models"
	"github.com/AnshRaj112/storylens-backend/internal/services/journal"
)

// serve routes one request through a chi router so URL params resolve.
func serve(h *JournalHandler, method, pattern, target, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, func(w http.ResponseWriter, req *http.Request) {
		switch pattern {
		case "/api/entries":
			if method == http.MethodPost {
				h.CreateEntry(w, req)
			} else {
				h.ListEntries(w, req)
			}
		case "/api/entries/{id}":
			switch method {
			case http.MethodPut:
				h.UpdateEntry(w, req)
			case http.MethodDelete:
				h.DeleteEntry(w, req)
			default:
				h.GetEntry(w, req)
			}
		case "/api/draft":
			switch method {
			case http.MethodPut:
				h.SaveDraft(w, req)
			case http.MethodDelete:
				h.ClearDraft(w, req)
			default:
				h.GetDraft(w, req)
			}
		case "/api/collections":
			if method == http.MethodPost {
				h.CreateCollection(w, req)
			} else {
				h.ListCollections(w, req)
			}
		case "/api/collections/{id}":
			h.DeleteCollection(w, req)
		case "/api/analytics":
			h.GetAnalytics(w, req)
		case "/api/moods":
			h.ListMoods(w, req)
		}
	})

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestCreateEntry_Created(t *testing.T) {
	t.Parallel()

	collectionID := uuid.New()
	var got journal.CreateEntryInput
	svc := &journalServiceStub{
		CreateEntryFunc: func(_ context.Context, input journal.CreateEntryInput) (*models.Entry, error) {
			got = input
			return &models.Entry{ID: uuid.New(), Title: input.Title, Mood: "happy", MoodScore: 8}, nil
		},
	}
	h := NewJournalHandler(svc, moodsStub{}, discardLogger())

	body := fmt.Sprintf(`{"title":"Day One","content":"...","mood":"HAPPY","collection_id":%q}`, collectionID)
	rec := serve(h, http.MethodPost, "/api/entries", "/api/entries", body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "Day One", out["entry"].(map[string]any)["title"])
	require.NotNil(t, got.CollectionID)
	assert.Equal(t, collectionID, *got.CollectionID)
}

func TestCreateEntry_NullCollectionIsUnorganized(t *testing.T) {
	t.Parallel()

	var got journal.CreateEntryInput
	svc := &journalServiceStub{
		CreateEntryFunc: func(_ context.Context, input journal.CreateEntryInput) (*models.Entry, error) {
			got = input
			return &models.Entry{}, nil
		},
	}
	h := NewJournalHandler(svc, moodsStub{}, discardLogger())

	rec := serve(h, http.MethodPost, "/api/entries", "/api/entries", `{"title":"t","content":"c","mood":"happy","collection_id":null}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Nil(t, got.CollectionID)
}

func TestCreateEntry_BadCollectionID(t *testing.T) {
	t.Parallel()

	h := NewJournalHandler(&journalServiceStub{}, moodsStub{}, discardLogger())
	rec := serve(h, http.MethodPost, "/api/entries", "/api/entries", `{"title":"t","content":"c","mood":"happy","collection_id":"nope"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	out := decode(t, rec)
	errs := out["errors"].([]any)
	assert.Equal(t, "collection_id", errs[0].(map[string]any)["field"])
}

func TestCreateEntry_InvalidBody(t *testing.T) {
	t.Parallel()

	h := NewJournalHandler(&journalServiceStub{}, moodsStub{}, discardLogger())
	rec := serve(h, http.MethodPost, "/api/entries", "/api/entries", `{`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decode(t, rec)["message"])
}

func TestErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"unauthenticated", models.ErrUnauthenticated, http.StatusUnauthorized, "Authentication required"},
		{"not found", fmt.Errorf("get entry: %w", models.ErrNotFound), http.StatusNotFound, "Not found"},
		{"validation", models.NewValidationError("mood", "unknown mood"), http.StatusBadRequest, "Validation failed"},
		{"admission", &models.AdmissionError{Reason: models.AdmissionRateLimit, Remaining: 0}, http.StatusTooManyRequests, "Too many requests. Please try again later."},
		{"store", models.StoreError("insert entry", errors.New("pq: connection refused")), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &journalServiceStub{
				CreateEntryFunc: func(context.Context, journal.CreateEntryInput) (*models.Entry, error) {
					return nil, tt.err
				},
			}
			h := NewJournalHandler(svc, moodsStub{}, discardLogger())
			rec := serve(h, http.MethodPost, "/api/entries", "/api/entries", `{"title":"t","content":"c","mood":"happy"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			out := decode(t, rec)
			assert.Equal(t, false, out["success"])
			assert.Equal(t, tt.wantMessage, out["message"])
			assert.NotContains(t, rec.Body.String(), "pq:")
		})
	}
}

func TestUpdateEntry_PassesPathID(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	var got journal.UpdateEntryInput
	svc := &journalServiceStub{
		UpdateEntryFunc: func(_ context.Context, input journal.UpdateEntryInput) (*models.Entry, error) {
			got = input
			return &models.Entry{ID: input.ID}, nil
		},
	}
	h := NewJournalHandler(svc, moodsStub{}, discardLogger())

	rec := serve(h, http.MethodPut, "/api/entries/{id}", "/api/entries/"+id.String(), `{"title":"t","content":"c","mood":"sad"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "sad", got.Mood)
}

func TestEntryByID_MalformedIDIsNotFound(t *testing.T) {
	t.Parallel()

	h := NewJournalHandler(&journalServiceStub{}, moodsStub{}, discardLogger())

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec := serve(h, method, "/api/entries/{id}", "/api/entries/not-a-uuid", "")
		assert.Equal(t, http.StatusNotFound, rec.Code, method)
	}
}

func TestGetAndDeleteEntry(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	svc := &journalServiceStub{
		GetEntryFunc: func(_ context.Context, got uuid.UUID) (*models.Entry, error) {
			return &models.Entry{ID: got, Title: "mine"}, nil
		},
		DeleteEntryFunc: func(_ context.Context, got uuid.UUID) (*models.Entry, error) {
			return &models.Entry{ID: got}, nil
		},
	}
	h := NewJournalHandler(svc, moodsStub{}, discardLogger())

	rec := serve(h, http.MethodGet, "/api/entries/{id}", "/api/entries/"+id.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mine", decode(t, rec)["entry"].(map[string]any)["title"])

	rec = serve(h, http.MethodDelete, "/api/entries/{id}", "/api/entries/"+id.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id.String(), decode(t, rec)["entry"].(map[string]any)["id"])
}

func TestListEntries(t *testing.T) {
	t.Parallel()

	t.Run("signed out degrades", func(t *testing.T) {
		t.Parallel()

		svc := &journalServiceStub{
			ListEntriesFunc: func(context.Context, journal.ListEntriesInput) ([]models.Entry, error) {
				return nil, models.ErrUnauthenticated
			},
		}
		rec := serve(NewJournalHandler(svc, moodsStub{}, discardLogger()), http.MethodGet, "/api/entries", "/api/entries", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		out := decode(t, rec)
		assert.Equal(t, false, out["success"])
		assert.Equal(t, "Unauthorized", out["error"])
	})

	t.Run("passes filter and returns empty list", func(t *testing.T) {
		t.Parallel()

		var got journal.ListEntriesInput
		svc := &journalServiceStub{
			ListEntriesFunc: func(_ context.Context, input journal.ListEntriesInput) ([]models.Entry, error) {
				got = input
				return nil, nil
			},
		}
		rec := serve(NewJournalHandler(svc, moodsStub{}, discardLogger()), http.MethodGet, "/api/entries", "/api/entries?collection_id=unorganized&order=asc", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, journal.ListEntriesInput{CollectionID: "unorganized", Order: "asc"}, got)
		assert.JSONEq(t, `{"success":true,"entries":[]}`, rec.Body.String())
	})
}

func TestDraftEndpoints(t *testing.T) {
	t.Parallel()

	var saved journal.SaveDraftInput
	cleared := false
	var current *models.Draft
	svc := &journalServiceStub{
		GetDraftFunc: func(context.Context) (*models.Draft, error) { return current, nil },
		SaveDraftFunc: func(_ context.Context, input journal.SaveDraftInput) (*models.Draft, error) {
			saved = input
			current = &models.Draft{Title: input.Title, Content: input.Content, Mood: input.Mood}
			return current, nil
		},
		ClearDraftFunc: func(context.Context) error {
			cleared = true
			current = nil
			return nil
		},
	}
	h := NewJournalHandler(svc, moodsStub{}, discardLogger())

	rec := serve(h, http.MethodGet, "/api/draft", "/api/draft", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Contains(t, out, "draft")
	assert.Nil(t, out["draft"])

	rec = serve(h, http.MethodPut, "/api/draft", "/api/draft", `{"title":"half","content":"way","mood":"hopeful"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, journal.SaveDraftInput{Title: "half", Content: "way", Mood: "hopeful"}, saved)

	rec = serve(h, http.MethodGet, "/api/draft", "/api/draft", "")
	assert.Equal(t, "half", decode(t, rec)["draft"].(map[string]any)["title"])

	rec = serve(h, http.MethodDelete, "/api/draft", "/api/draft", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, cleared)
}

func TestListCollections_NullVersusEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		list []models.Collection
		want string
	}{
		{"signed out", nil, `{"success":true,"collections":null}`},
		{"signed in with none", []models.Collection{}, `{"success":true,"collections":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &journalServiceStub{
				ListCollectionsFunc: func(context.Context) ([]models.Collection, error) { return tt.list, nil },
			}
			rec := serve(NewJournalHandler(svc, moodsStub{}, discardLogger()), http.MethodGet, "/api/collections", "/api/collections", "")

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestCollectionWrites(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	var created journal.CreateCollectionInput
	svc := &journalServiceStub{
		CreateCollectionFunc: func(_ context.Context, input journal.CreateCollectionInput) (*models.Collection, error) {
			created = input
			return &models.Collection{ID: id, Name: input.Name}, nil
		},
		DeleteCollectionFunc: func(_ context.Context, got uuid.UUID) (*models.Collection, error) {
			if got != id {
				return nil, models.ErrNotFound
			}
			return &models.Collection{ID: got}, nil
		},
	}
	h := NewJournalHandler(svc, moodsStub{}, discardLogger())

	rec := serve(h, http.MethodPost, "/api/collections", "/api/collections", `{"name":"Travel","description":"trips"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, journal.CreateCollectionInput{Name: "Travel", Description: "trips"}, created)

	rec = serve(h, http.MethodDelete, "/api/collections/{id}", "/api/collections/"+id.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, http.MethodDelete, "/api/collections/{id}", "/api/collections/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyticsAndMoods(t *testing.T) {
	t.Parallel()

	var period string
	svc := &journalServiceStub{
		GetAnalyticsFunc: func(_ context.Context, input journal.AnalyticsInput) (*models.MoodAnalytics, error) {
			period = input.Period
			return &models.MoodAnalytics{Period: "15d", TotalEntries: 2, MoodCounts: map[string]int{"happy": 2}}, nil
		},
	}
	h := NewJournalHandler(svc, moodsStub{{ID: "happy", Label: "Happy", Score: 8}}, discardLogger())

	rec := serve(h, http.MethodGet, "/api/analytics", "/api/analytics?period=15d", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "15d", period)
	assert.Equal(t, float64(2), decode(t, rec)["analytics"].(map[string]any)["total_entries"])

	rec = serve(h, http.MethodGet, "/api/moods", "/api/moods", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	moods := decode(t, rec)["moods"].([]any)
	require.Len(t, moods, 1)
	assert.Equal(t, "happy", moods[0].(map[string]any)["id"])
}
