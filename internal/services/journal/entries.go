package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/AnshRaj112/storylens-backend/internal/models"
)

// CreateEntry publishes a new entry and empties the caller's draft slot.
func (s *Service) CreateEntry(ctx context.Context, input CreateEntryInput) (*models.Entry, error) {
	user, err := s.identity.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := s.admit(ctx, user, "create_entry"); err != nil {
		return nil, err
	}

	mood, err := s.resolveMood(input.Mood)
	if err != nil {
		return nil, err
	}
	if err := s.checkCollection(ctx, user.ID, input.CollectionID); err != nil {
		return nil, err
	}

	entry, err := s.entries.Create(ctx, models.Entry{
		ID:           uuid.New(),
		UserID:       user.ID,
		Title:        strings.TrimSpace(input.Title),
		Content:      input.Content,
		Mood:         mood.ID,
		MoodScore:    mood.Score,
		MoodImageURL: s.moodImage(ctx, mood, input.MoodQuery),
		CollectionID: input.CollectionID,
	})
	if err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}

	// Not atomic with the insert: a failure here leaves a stale draft that the next save overwrites.
	if err := s.drafts.Clear(ctx, user.ID.String()); err != nil {
		s.log.WarnContext(ctx, "failed to clear draft after publish",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	s.log.InfoContext(ctx, "entry created",
		slog.String("user_id", user.ID.String()),
		slog.String("entry_id", entry.ID.String()),
		slog.String("mood", entry.Mood),
	)
	s.invalidate(ctx, user.ID, "entry", "created")

	entry.MoodData = &mood
	return entry, nil
}

// UpdateEntry rewrites an owned entry. The draft slot is left alone.
func (s *Service) UpdateEntry(ctx context.Context, input UpdateEntryInput) (*models.Entry, error) {
	user, err := s.identity.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	mood, err := s.resolveMood(input.Mood)
	if err != nil {
		return nil, err
	}
	if _, err := s.entries.GetByID(ctx, user.ID, input.ID); err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	if err := s.checkCollection(ctx, user.ID, input.CollectionID); err != nil {
		return nil, err
	}

	entry, err := s.entries.Update(ctx, models.Entry{
		ID:           input.ID,
		UserID:       user.ID,
		Title:        strings.TrimSpace(input.Title),
		Content:      input.Content,
		Mood:         mood.ID,
		MoodScore:    mood.Score,
		MoodImageURL: s.moodImage(ctx, mood, input.MoodQuery),
		CollectionID: input.CollectionID,
	})
	if err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}

	s.log.InfoContext(ctx, "entry updated",
		slog.String("user_id", user.ID.String()),
		slog.String("entry_id", entry.ID.String()),
	)
	s.invalidate(ctx, user.ID, "entry", "updated")

	entry.MoodData = &mood
	return entry, nil
}

// ListEntries returns the caller's entries enriched with their mood descriptors.
func (s *Service) ListEntries(ctx context.Context, input ListEntriesInput) ([]models.Entry, error) {
	user, err := s.identity.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	entries, err := s.entries.List(ctx, user.ID, input.filter())
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	for i := range entries {
		s.enrich(&entries[i])
	}
	return entries, nil
}

// GetEntry returns one owned entry. A signed-out caller gets ErrNotFound like a foreign id would.
func (s *Service) GetEntry(ctx context.Context, id uuid.UUID) (*models.Entry, error) {
	user, err := s.identity.Resolve(ctx)
	if errors.Is(err, models.ErrUnauthenticated) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	entry, err := s.entries.GetByID(ctx, user.ID, id)
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	s.enrich(entry)
	return entry, nil
}

// DeleteEntry permanently removes an owned entry and returns it.
func (s *Service) DeleteEntry(ctx context.Context, id uuid.UUID) (*models.Entry, error) {
	user, err := s.identity.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.entries.Delete(ctx, user.ID, id)
	if err != nil {
		return nil, fmt.Errorf("delete entry: %w", err)
	}

	s.log.InfoContext(ctx, "entry deleted",
		slog.String("user_id", user.ID.String()),
		slog.String("entry_id", id.String()),
	)
	s.invalidate(ctx, user.ID, "entry", "deleted")

	s.enrich(entry)
	return entry, nil
}

// checkCollection rejects references to collections the user does not own.
func (s *Service) checkCollection(ctx context.Context, userID uuid.UUID, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := s.collections.GetByID(ctx, userID, *id); err != nil {
		return fmt.Errorf("get collection: %w", err)
	}
	return nil
}

// moodImage looks up an illustration for the entry. Lookup failures leave the URL empty.
func (s *Service) moodImage(ctx context.Context, mood models.Mood, query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		query = mood.ImageQuery
	}
	url, err := s.images.Find(ctx, query)
	if err != nil {
		s.log.WarnContext(ctx, "mood image lookup failed",
			slog.String("mood", mood.ID),
			slog.String("error", err.Error()),
		)
		return ""
	}
	return url
}
