// Package postgres holds the Postgres-backed user, collection and entry stores.
package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/AnshRaj112/storylens-backend/internal/models"
)

// Handle yields the shared pool. *database.Postgres satisfies it and opens the pool on first use.
type Handle interface {
	DB(ctx context.Context) (*sql.DB, error)
}

type staticHandle struct{ db *sql.DB }

func (h staticHandle) DB(context.Context) (*sql.DB, error) { return h.db, nil }

// FromDB wraps an already opened pool.
func FromDB(db *sql.DB) Handle {
	return staticHandle{db: db}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type scanner interface {
	Scan(dest ...any) error
}

type queryable interface {
	ToSql() (string, []any, error)
}

func queryRow(ctx context.Context, h Handle, op string, q queryable) (*sql.Row, error) {
	db, err := h.DB(ctx)
	if err != nil {
		return nil, models.StoreError(op, err)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, models.StoreError(op, err)
	}
	return db.QueryRowContext(ctx, query, args...), nil
}

func query(ctx context.Context, h Handle, op string, q queryable) (*sql.Rows, error) {
	db, err := h.DB(ctx)
	if err != nil {
		return nil, models.StoreError(op, err)
	}
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, models.StoreError(op, err)
	}
	rows, err := db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, models.StoreError(op, err)
	}
	return rows, nil
}

// mapErr turns a missing row into ErrNotFound and anything else into a store failure.
func mapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	return models.StoreError(op, err)
}
