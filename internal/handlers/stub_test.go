package handlers

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/AnshRaj112/storylens-backend/internal/models"
	"github.com/AnshRaj112/storylens-backend/internal/services/journal"
)

// journalServiceStub lets each test override only the calls it exercises.
type journalServiceStub struct {
	CreateEntryFunc      func(ctx context.Context, input journal.CreateEntryInput) (*models.Entry, error)
	UpdateEntryFunc      func(ctx context.Context, input journal.UpdateEntryInput) (*models.Entry, error)
	ListEntriesFunc      func(ctx context.Context, input journal.ListEntriesInput) ([]models.Entry, error)
	GetEntryFunc         func(ctx context.Context, id uuid.UUID) (*models.Entry, error)
	DeleteEntryFunc      func(ctx context.Context, id uuid.UUID) (*models.Entry, error)
	SaveDraftFunc        func(ctx context.Context, input journal.SaveDraftInput) (*models.Draft, error)
	GetDraftFunc         func(ctx context.Context) (*models.Draft, error)
	ClearDraftFunc       func(ctx context.Context) error
	CreateCollectionFunc func(ctx context.Context, input journal.CreateCollectionInput) (*models.Collection, error)
	ListCollectionsFunc  func(ctx context.Context) ([]models.Collection, error)
	DeleteCollectionFunc func(ctx context.Context, id uuid.UUID) (*models.Collection, error)
	GetAnalyticsFunc     func(ctx context.Context, input journal.AnalyticsInput) (*models.MoodAnalytics, error)
}

func (s *journalServiceStub) CreateEntry(ctx context.Context, input journal.CreateEntryInput) (*models.Entry, error) {
	return s.CreateEntryFunc(ctx, input)
}

func (s *journalServiceStub) UpdateEntry(ctx context.Context, input journal.UpdateEntryInput) (*models.Entry, error) {
	return s.UpdateEntryFunc(ctx, input)
}

func (s *journalServiceStub) ListEntries(ctx context.Context, input journal.ListEntriesInput) ([]models.Entry, error) {
	return s.ListEntriesFunc(ctx, input)
}

func (s *journalServiceStub) GetEntry(ctx context.Context, id uuid.UUID) (*models.Entry, error) {
	return s.GetEntryFunc(ctx, id)
}

func (s *journalServiceStub) DeleteEntry(ctx context.Context, id uuid.UUID) (*models.Entry, error) {
	return s.DeleteEntryFunc(ctx, id)
}

func (s *journalServiceStub) SaveDraft(ctx context.Context, input journal.SaveDraftInput) (*models.Draft, error) {
	return s.SaveDraftFunc(ctx, input)
}

func (s *journalServiceStub) GetDraft(ctx context.Context) (*models.Draft, error) {
	return s.GetDraftFunc(ctx)
}

func (s *journalServiceStub) ClearDraft(ctx context.Context) error {
	return s.ClearDraftFunc(ctx)
}

func (s *journalServiceStub) CreateCollection(ctx context.Context, input journal.CreateCollectionInput) (*models.Collection, error) {
	return s.CreateCollectionFunc(ctx, input)
}

func (s *journalServiceStub) ListCollections(ctx context.Context) ([]models.Collection, error) {
	return s.ListCollectionsFunc(ctx)
}

func (s *journalServiceStub) DeleteCollection(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	return s.DeleteCollectionFunc(ctx, id)
}

func (s *journalServiceStub) GetAnalytics(ctx context.Context, input journal.AnalyticsInput) (*models.MoodAnalytics, error) {
	return s.GetAnalyticsFunc(ctx, input)
}

type moodsStub []models.Mood

func (m moodsStub) All() []models.Mood { return m }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
