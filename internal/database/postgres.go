package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/AnshRaj112/storylens-backend/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Postgres owns the process-wide connection pool. The pool is opened on the first
// call to DB and reused afterwards; Close tears it down.
type Postgres struct {
	cfg config.PostgresConfig
	log *slog.Logger

	once sync.Once
	mu   sync.Mutex
	db   *sql.DB
	err  error
}

// NewPostgres prepares a lazily opened pool. Nothing is dialled yet.
func NewPostgres(cfg config.PostgresConfig, log *slog.Logger) *Postgres {
	return &Postgres{cfg: cfg, log: log}
}

// DB returns the shared pool, opening, pinging and migrating it on first use.
// A failed first open is remembered; the process is expected to exit on it.
func (p *Postgres) DB(ctx context.Context) (*sql.DB, error) {
	p.once.Do(func() {
		db, err := open(ctx, p.cfg)
		if err != nil {
			p.err = err
			return
		}
		if err := Migrate(ctx, db); err != nil {
			db.Close()
			p.err = err
			return
		}
		p.mu.Lock()
		p.db = db
		p.mu.Unlock()
		p.log.Info("connected to postgres", slog.Int("max_open_conns", p.cfg.MaxOpenConns))
	})
	return p.db, p.err
}

// Close closes the pool if it was opened.
func (p *Postgres) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}

func open(ctx context.Context, cfg config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Migrate applies the embedded goose migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
