package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/AnshRaj112/storylens-backend/internal/auth"
	"github.com/AnshRaj112/storylens-backend/internal/config"
	"github.com/AnshRaj112/storylens-backend/internal/database"
	"github.com/AnshRaj112/storylens-backend/internal/handlers"
	"github.com/AnshRaj112/storylens-backend/internal/logger"
	"github.com/AnshRaj112/storylens-backend/internal/middleware"
	"github.com/AnshRaj112/storylens-backend/internal/mood"
	mongorepo "github.com/AnshRaj112/storylens-backend/internal/repository/mongo"
	"github.com/AnshRaj112/storylens-backend/internal/repository/postgres"
	"github.com/AnshRaj112/storylens-backend/internal/routes"
	"github.com/AnshRaj112/storylens-backend/internal/services"
	"github.com/AnshRaj112/storylens-backend/internal/services/journal"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// PostgreSQL: the first DB call opens, pings and migrates the pool
	log.Info("connecting to PostgreSQL")
	pg := database.NewPostgres(cfg.Postgres, log)
	defer pg.Close()
	if _, err := pg.DB(ctx); err != nil {
		return err
	}

	log.Info("connecting to Redis")
	rdb, err := database.NewRedis(ctx, cfg.Redis, log)
	if err != nil {
		return err
	}
	defer rdb.Close()

	log.Info("connecting to MongoDB")
	mongoClient, mongoDB, err := database.NewMongo(ctx, cfg.Mongo, log)
	if err != nil {
		return err
	}
	defer database.DisconnectMongo(mongoClient)

	if err := database.EnsureDraftIndexes(ctx, mongoDB); err != nil {
		log.Warn("failed to ensure draft indexes", slog.String("error", err.Error()))
	}

	images, err := services.NewImageSearchService(cfg.Cloudinary, log)
	if err != nil {
		log.Warn("cloudinary unavailable, entries get no mood image", slog.String("error", err.Error()))
	}

	users := postgres.NewUserStore(pg)
	cache := services.NewCacheService(rdb)
	identity := services.NewIdentityService(users, rdb, log)
	events := services.NewEventService(rdb, cache, log)
	moods := mood.NewRegistry()

	svc := journal.NewService(
		log,
		identity,
		moods,
		postgres.NewEntryStore(pg),
		postgres.NewCollectionStore(pg),
		mongorepo.NewDraftStore(mongoDB.Collection(database.DraftsCollection)),
		services.NewAdmissionService(rdb, cfg.Admission, log),
		images,
		events,
		cache,
	)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Production: SecurityHeaders → HostCheck → per-IP limit → per-IP write limit
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(cfg.HostName()) {
			r.Use(mw)
		}
		log.Info("production security enabled", slog.String("host", cfg.HostName()))
	} else {
		r.Use(middleware.SecurityHeaders)
	}

	r.Use(middleware.Auth(auth.NewVerifier(cfg.Identity.JWTSecret, cfg.Identity.JWTIssuer), identity, log))

	routes.SetupRoutes(r,
		handlers.NewJournalHandler(svc, moods, log),
		handlers.NewDashboardHandler(identity, events, cfg.AllowedOrigins, log),
	)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("storylens backend running", slog.String("addr", srv.Addr), slog.String("env", cfg.Environment))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
