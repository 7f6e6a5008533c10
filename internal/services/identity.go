package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/storylens-backend/internal/models"
	"github.com/AnshRaj112/storylens-backend/pkg/ctxutil"
)

const (
	// IdentityKeyPrefix is the Redis key prefix for identity -> user id mappings
	IdentityKeyPrefix = "identity:"
	// IdentityCacheTTL is 7 days
	IdentityCacheTTL = 7 * 24 * time.Hour
)

// UserRepository is the user store as seen by the identity service.
type UserRepository interface {
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Ensure(ctx context.Context, id models.Identity) (*models.User, error)
}

// IdentityService maps verified external identities to internal users.
type IdentityService struct {
	users UserRepository
	rdb   redis.UniversalClient
	log   *slog.Logger
}

func NewIdentityService(users UserRepository, rdb redis.UniversalClient, log *slog.Logger) *IdentityService {
	return &IdentityService{users: users, rdb: rdb, log: log.With("service", "identity")}
}

// Resolve returns the user behind the identity in ctx.
// No identity, or an identity that was never provisioned, yields ErrUnauthenticated.
func (s *IdentityService) Resolve(ctx context.Context) (*models.User, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, models.ErrUnauthenticated
	}

	if userID, hit := s.cachedUserID(ctx, id.ExternalID); hit {
		u, err := s.users.GetByID(ctx, userID)
		if err == nil && u.ExternalID == id.ExternalID {
			return u, nil
		}
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		s.forget(ctx, id.ExternalID)
	}

	u, err := s.users.GetByExternalID(ctx, id.ExternalID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	s.remember(ctx, u)
	return u, nil
}

// Provision creates or refreshes the user row of a verified identity.
func (s *IdentityService) Provision(ctx context.Context, id models.Identity) (*models.User, error) {
	if id.ExternalID == "" {
		return nil, models.ErrUnauthenticated
	}
	u, err := s.users.Ensure(ctx, id)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, u)
	return u, nil
}

// EnsureProvisioned provisions the identity unless a cached mapping shows it already was.
// Request middleware calls it so core operations always find a user row.
func (s *IdentityService) EnsureProvisioned(ctx context.Context, id models.Identity) error {
	if _, hit := s.cachedUserID(ctx, id.ExternalID); hit {
		return nil
	}
	_, err := s.Provision(ctx, id)
	return err
}

func (s *IdentityService) cachedUserID(ctx context.Context, externalID string) (uuid.UUID, bool) {
	if s.rdb == nil {
		return uuid.Nil, false
	}
	val, err := s.rdb.Get(ctx, IdentityKeyPrefix+externalID).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "identity cache read failed", slog.String("error", err.Error()))
		}
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

func (s *IdentityService) remember(ctx context.Context, u *models.User) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Set(ctx, IdentityKeyPrefix+u.ExternalID, u.ID.String(), IdentityCacheTTL).Err(); err != nil {
		s.log.WarnContext(ctx, "identity cache write failed", slog.String("error", err.Error()))
	}
}

func (s *IdentityService) forget(ctx context.Context, externalID string) {
	if s.rdb == nil {
		return
	}
	s.rdb.Del(ctx, IdentityKeyPrefix+externalID)
}
