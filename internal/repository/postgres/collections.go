package postgres

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/AnshRaj112/storylens-backend/internal/models"
)

const collectionReturning = "RETURNING id, user_id, name, description, created_at, updated_at"

var collectionColumns = []string{"id", "user_id", "name", "description", "created_at", "updated_at"}

// CollectionStore persists named groupings of entries.
type CollectionStore struct {
	h Handle
}

func NewCollectionStore(h Handle) *CollectionStore {
	return &CollectionStore{h: h}
}

func (s *CollectionStore) Create(ctx context.Context, c models.Collection) (*models.Collection, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	q := psql.Insert("collections").
		Columns(collectionColumns...).
		Values(c.ID, c.UserID, c.Name, c.Description, now, now).
		Suffix(collectionReturning)

	row, err := queryRow(ctx, s.h, "create collection", q)
	if err != nil {
		return nil, err
	}
	out, err := scanCollection(row)
	if err != nil {
		return nil, models.StoreError("create collection", err)
	}
	return out, nil
}

// ListByUser returns the user's collections, newest first. The slice is never nil.
func (s *CollectionStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Collection, error) {
	q := psql.Select(collectionColumns...).
		From("collections").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC")

	rows, err := query(ctx, s.h, "list collections", q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Collection, 0)
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, models.StoreError("list collections", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, models.StoreError("list collections", err)
	}
	return out, nil
}

// GetByID returns the collection only if userID owns it.
func (s *CollectionStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Collection, error) {
	q := psql.Select(collectionColumns...).
		From("collections").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"user_id": userID})

	row, err := queryRow(ctx, s.h, "get collection", q)
	if err != nil {
		return nil, err
	}
	c, err := scanCollection(row)
	return c, mapErr("get collection", err)
}

// Delete removes an owned collection. Its entries survive with collection_id cleared by the FK.
func (s *CollectionStore) Delete(ctx context.Context, userID, id uuid.UUID) (*models.Collection, error) {
	q := psql.Delete("collections").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"user_id": userID}).
		Suffix(collectionReturning)

	row, err := queryRow(ctx, s.h, "delete collection", q)
	if err != nil {
		return nil, err
	}
	c, err := scanCollection(row)
	return c, mapErr("delete collection", err)
}

func scanCollection(row scanner) (*models.Collection, error) {
	var c models.Collection
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
