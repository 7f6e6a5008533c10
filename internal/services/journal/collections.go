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

// CreateCollection creates a collection for the caller. Duplicate names are allowed.
func (s *Service) CreateCollection(ctx context.Context, input CreateCollectionInput) (*models.Collection, error) {
	user, err := s.identity.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := s.admit(ctx, user, "create_collection"); err != nil {
		return nil, err
	}

	c, err := s.collections.Create(ctx, models.Collection{
		ID:          uuid.New(),
		UserID:      user.ID,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
	})
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	s.log.InfoContext(ctx, "collection created",
		slog.String("user_id", user.ID.String()),
		slog.String("collection_id", c.ID.String()),
	)
	s.invalidate(ctx, user.ID, "collection", "created")
	return c, nil
}

// ListCollections returns the caller's collections, newest first.
// A signed-out caller gets nil with no error; a signed-in caller with none gets an empty slice.
func (s *Service) ListCollections(ctx context.Context) ([]models.Collection, error) {
	user, err := s.identity.Resolve(ctx)
	if errors.Is(err, models.ErrUnauthenticated) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	list, err := s.collections.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	if list == nil {
		list = []models.Collection{}
	}
	return list, nil
}

// DeleteCollection removes an owned collection. Its entries become unorganized.
func (s *Service) DeleteCollection(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	user, err := s.identity.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	c, err := s.collections.Delete(ctx, user.ID, id)
	if err != nil {
		return nil, fmt.Errorf("delete collection: %w", err)
	}

	s.log.InfoContext(ctx, "collection deleted",
		slog.String("user_id", user.ID.String()),
		slog.String("collection_id", id.String()),
	)
	s.invalidate(ctx, user.ID, "collection", "deleted")
	return c, nil
}
