package journal

import (
	"context"
	"fmt"
	"strings"

	"github.com/AnshRaj112/storylens-backend/internal/models"
)

// SaveDraft replaces the caller's draft wholesale. Saving only empty fields clears
// the slot and returns nil.
func (s *Service) SaveDraft(ctx context.Context, input SaveDraftInput) (*models.Draft, error) {
	user, err := s.identity.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if input.empty() {
		if err := s.drafts.Clear(ctx, user.ID.String()); err != nil {
			return nil, fmt.Errorf("clear draft: %w", err)
		}
		return nil, nil
	}

	moodID := ""
	if strings.TrimSpace(input.Mood) != "" {
		mood, err := s.resolveMood(input.Mood)
		if err != nil {
			return nil, err
		}
		moodID = mood.ID
	}

	draft, err := s.drafts.Save(ctx, models.Draft{
		UserID:  user.ID.String(),
		Title:   strings.TrimSpace(input.Title),
		Content: input.Content,
		Mood:    moodID,
	})
	if err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return draft, nil
}

// GetDraft returns the caller's draft, or nil when the slot is empty.
func (s *Service) GetDraft(ctx context.Context) (*models.Draft, error) {
	user, err := s.identity.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	draft, err := s.drafts.Get(ctx, user.ID.String())
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return draft, nil
}

// ClearDraft empties the caller's draft slot. Clearing an empty slot succeeds.
func (s *Service) ClearDraft(ctx context.Context) error {
	user, err := s.identity.Resolve(ctx)
	if err != nil {
		return err
	}
	if err := s.drafts.Clear(ctx, user.ID.String()); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}
