package postgres

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/AnshRaj112/storylens-backend/internal/models"
)

var userColumns = []string{"id", "external_id", "email", "name", "image_url", "created_at", "updated_at"}

// UserStore persists users provisioned from external identities.
type UserStore struct {
	h Handle
}

func NewUserStore(h Handle) *UserStore {
	return &UserStore{h: h}
}

// GetByExternalID returns the user linked to an identity token or ErrNotFound.
func (s *UserStore) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	q := psql.Select(userColumns...).From("users").Where(squirrel.Eq{"external_id": externalID})
	row, err := queryRow(ctx, s.h, "get user by external id", q)
	if err != nil {
		return nil, err
	}
	u, err := scanUser(row)
	return u, mapErr("get user by external id", err)
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	q := psql.Select(userColumns...).From("users").Where(squirrel.Eq{"id": id})
	row, err := queryRow(ctx, s.h, "get user by id", q)
	if err != nil {
		return nil, err
	}
	u, err := scanUser(row)
	return u, mapErr("get user by id", err)
}

// Ensure inserts the user for an identity or refreshes its profile fields.
// Empty profile claims never overwrite stored values.
func (s *UserStore) Ensure(ctx context.Context, id models.Identity) (*models.User, error) {
	now := time.Now().UTC()
	q := psql.Insert("users").
		Columns(userColumns...).
		Values(uuid.New(), id.ExternalID, id.Email, id.Name, id.ImageURL, now, now).
		Suffix(`ON CONFLICT (external_id) DO UPDATE SET
			email = COALESCE(NULLIF(EXCLUDED.email, ''), users.email),
			name = COALESCE(NULLIF(EXCLUDED.name, ''), users.name),
			image_url = COALESCE(NULLIF(EXCLUDED.image_url, ''), users.image_url),
			updated_at = EXCLUDED.updated_at
			RETURNING id, external_id, email, name, image_url, created_at, updated_at`)

	row, err := queryRow(ctx, s.h, "ensure user", q)
	if err != nil {
		return nil, err
	}
	u, err := scanUser(row)
	if err != nil {
		return nil, models.StoreError("ensure user", err)
	}
	return u, nil
}

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.ExternalID, &u.Email, &u.Name, &u.ImageURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
