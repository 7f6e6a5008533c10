// Package journal orchestrates the entry, collection and draft workflows on top of the stores.
package journal

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/storylens-backend/internal/models"
	"github.com/AnshRaj112/storylens-backend/internal/services"
)

type identityResolver interface {
	Resolve(ctx context.Context) (*models.User, error)
}

type moodRegistry interface {
	Lookup(key string) (models.Mood, bool)
}

type entryRepo interface {
	Create(ctx context.Context, e models.Entry) (*models.Entry, error)
	Update(ctx context.Context, e models.Entry) (*models.Entry, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Entry, error)
	List(ctx context.Context, userID uuid.UUID, f models.EntryFilter) ([]models.Entry, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (*models.Entry, error)
}

type collectionRepo interface {
	Create(ctx context.Context, c models.Collection) (*models.Collection, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Collection, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Collection, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (*models.Collection, error)
}

type draftRepo interface {
	Get(ctx context.Context, userID string) (*models.Draft, error)
	Save(ctx context.Context, d models.Draft) (*models.Draft, error)
	Clear(ctx context.Context, userID string) error
}

type admissionController interface {
	Protect(ctx context.Context, req services.AdmissionRequest) services.Decision
}

type imageSearcher interface {
	Find(ctx context.Context, query string) (string, error)
}

type invalidator interface {
	Publish(ctx context.Context, event models.DashboardEvent) error
}

type analyticsCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Service runs the journal workflows for the caller found in the request context.
type Service struct {
	identity    identityResolver
	moods       moodRegistry
	entries     entryRepo
	collections collectionRepo
	drafts      draftRepo
	admission   admissionController
	images      imageSearcher
	events      invalidator
	cache       analyticsCache
	log         *slog.Logger
}

// NewService creates a new journal service.
func NewService(
	log *slog.Logger,
	identity identityResolver,
	moods moodRegistry,
	entries entryRepo,
	collections collectionRepo,
	drafts draftRepo,
	admission admissionController,
	images imageSearcher,
	events invalidator,
	cache analyticsCache,
) *Service {
	return &Service{
		identity:    identity,
		moods:       moods,
		entries:     entries,
		collections: collections,
		drafts:      drafts,
		admission:   admission,
		images:      images,
		events:      events,
		cache:       cache,
		log:         log.With("service", "journal"),
	}
}

// admit consults the admission controller for one costly write.
func (s *Service) admit(ctx context.Context, user *models.User, op string) error {
	d := s.admission.Protect(ctx, services.AdmissionRequest{Identity: user.ID.String(), Cost: 1})
	if d.Allowed {
		return nil
	}
	s.log.WarnContext(ctx, "admission denied",
		slog.String("user_id", user.ID.String()),
		slog.String("op", op),
		slog.String("reason", string(d.Reason)),
		slog.Int("remaining", d.Remaining),
		slog.Duration("reset", d.Reset),
	)
	return &models.AdmissionError{Reason: d.Reason, Remaining: d.Remaining, Reset: d.Reset}
}

// invalidate tells dashboard views of the user that they are stale. Failures are only logged.
func (s *Service) invalidate(ctx context.Context, userID uuid.UUID, resource, action string) {
	err := s.events.Publish(ctx, models.DashboardEvent{
		Type:     models.EventDashboardInvalidated,
		UserID:   userID.String(),
		Resource: resource,
		Action:   action,
	})
	if err != nil {
		s.log.WarnContext(ctx, "dashboard invalidation failed",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
	}
}

// resolveMood maps a caller-supplied key to its registry descriptor.
func (s *Service) resolveMood(key string) (models.Mood, error) {
	m, ok := s.moods.Lookup(key)
	if !ok {
		return models.Mood{}, models.NewValidationError("mood", "unknown mood")
	}
	return m, nil
}

// enrich joins the registry descriptor onto an entry read from the store.
func (s *Service) enrich(e *models.Entry) {
	if m, ok := s.moods.Lookup(e.Mood); ok {
		e.MoodData = &m
	}
}
