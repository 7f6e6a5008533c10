package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/AnshRaj112/storylens-backend/internal/models"
)

const entryReturning = "RETURNING id, user_id, title, content, mood, mood_score, mood_image_url, collection_id, created_at, updated_at"

var entryColumns = []string{
	"id", "user_id", "title", "content", "mood", "mood_score",
	"mood_image_url", "collection_id", "created_at", "updated_at",
}

// EntryStore persists published journal entries.
type EntryStore struct {
	h Handle
}

func NewEntryStore(h Handle) *EntryStore {
	return &EntryStore{h: h}
}

func (s *EntryStore) Create(ctx context.Context, e models.Entry) (*models.Entry, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := time.Now().UTC()
	q := psql.Insert("entries").
		Columns(entryColumns...).
		Values(e.ID, e.UserID, e.Title, e.Content, e.Mood, e.MoodScore,
			nullString(e.MoodImageURL), nullUUID(e.CollectionID), now, now).
		Suffix(entryReturning)

	row, err := queryRow(ctx, s.h, "create entry", q)
	if err != nil {
		return nil, err
	}
	out, err := scanEntry(row)
	if err != nil {
		return nil, models.StoreError("create entry", err)
	}
	return out, nil
}

// Update rewrites the mutable fields of an entry owned by e.UserID.
func (s *EntryStore) Update(ctx context.Context, e models.Entry) (*models.Entry, error) {
	q := psql.Update("entries").
		Set("title", e.Title).
		Set("content", e.Content).
		Set("mood", e.Mood).
		Set("mood_score", e.MoodScore).
		Set("mood_image_url", nullString(e.MoodImageURL)).
		Set("collection_id", nullUUID(e.CollectionID)).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": e.ID}).
		Where(squirrel.Eq{"user_id": e.UserID}).
		Suffix(entryReturning)

	row, err := queryRow(ctx, s.h, "update entry", q)
	if err != nil {
		return nil, err
	}
	out, err := scanEntry(row)
	return out, mapErr("update entry", err)
}

// GetByID returns the entry only if userID owns it.
func (s *EntryStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Entry, error) {
	q := psql.Select(entryColumns...).
		From("entries").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"user_id": userID})

	row, err := queryRow(ctx, s.h, "get entry", q)
	if err != nil {
		return nil, err
	}
	e, err := scanEntry(row)
	return e, mapErr("get entry", err)
}

// List returns the user's entries ordered by creation time. The slice is never nil.
func (s *EntryStore) List(ctx context.Context, userID uuid.UUID, f models.EntryFilter) ([]models.Entry, error) {
	q := psql.Select(entryColumns...).
		From("entries").
		Where(squirrel.Eq{"user_id": userID})

	switch {
	case f.Unorganized:
		q = q.Where(squirrel.Eq{"collection_id": nil})
	case f.CollectionID != nil:
		q = q.Where(squirrel.Eq{"collection_id": *f.CollectionID})
	}
	if !f.Since.IsZero() {
		q = q.Where(squirrel.GtOrEq{"created_at": f.Since})
	}
	if f.Ascending {
		q = q.OrderBy("created_at ASC")
	} else {
		q = q.OrderBy("created_at DESC")
	}

	rows, err := query(ctx, s.h, "list entries", q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, models.StoreError("list entries", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, models.StoreError("list entries", err)
	}
	return out, nil
}

// Delete hard-deletes an owned entry and returns what was removed.
func (s *EntryStore) Delete(ctx context.Context, userID, id uuid.UUID) (*models.Entry, error) {
	q := psql.Delete("entries").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"user_id": userID}).
		Suffix(entryReturning)

	row, err := queryRow(ctx, s.h, "delete entry", q)
	if err != nil {
		return nil, err
	}
	e, err := scanEntry(row)
	return e, mapErr("delete entry", err)
}

func scanEntry(row scanner) (*models.Entry, error) {
	var (
		e          models.Entry
		imageURL   sql.NullString
		collection uuid.NullUUID
	)
	if err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Content, &e.Mood, &e.MoodScore,
		&imageURL, &collection, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.MoodImageURL = imageURL.String
	if collection.Valid {
		id := collection.UUID
		e.CollectionID = &id
	}
	return &e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
