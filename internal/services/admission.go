package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/storylens-backend/internal/config"
	"github.com/AnshRaj112/storylens-backend/internal/models"
)

const (
	// AdmissionKeyPrefix is the Redis key prefix for per-user write counters
	AdmissionKeyPrefix = "admission:"
	// AdmissionBlockedKeyPrefix marks users blocked for excessive writes
	AdmissionBlockedKeyPrefix = "admission_blocked:"
	// AdmissionBlockDuration is how long a user stays blocked (24 hours)
	AdmissionBlockDuration = 24 * time.Hour
	// admissionBlockFactor: a user who keeps writing past limit*factor in one window gets blocked
	admissionBlockFactor = 3
)

// AdmissionRequest identifies who is asking and how much of the quota the call consumes.
type AdmissionRequest struct {
	Identity string
	Cost     int
}

// Decision is the outcome of an admission check.
type Decision struct {
	Allowed   bool
	Reason    models.AdmissionReason
	Remaining int
	Reset     time.Duration
}

// AdmissionService is a fixed-window quota on costly writes, keyed by user.
type AdmissionService struct {
	rdb    redis.UniversalClient
	limit  int
	window time.Duration
	log    *slog.Logger
}

func NewAdmissionService(rdb redis.UniversalClient, cfg config.AdmissionConfig, log *slog.Logger) *AdmissionService {
	return &AdmissionService{
		rdb:    rdb,
		limit:  cfg.Limit,
		window: cfg.Window,
		log:    log.With("service", "admission"),
	}
}

// Protect consumes req.Cost from the caller's window. Redis failures let the request through.
func (a *AdmissionService) Protect(ctx context.Context, req AdmissionRequest) Decision {
	if req.Cost <= 0 {
		req.Cost = 1
	}
	allow := Decision{Allowed: true, Remaining: a.limit, Reset: a.window}

	blockedKey := AdmissionBlockedKeyPrefix + req.Identity
	blockedFor, err := a.rdb.PTTL(ctx, blockedKey).Result()
	if err != nil {
		a.log.WarnContext(ctx, "admission check failed, allowing", slog.String("error", err.Error()))
		return allow
	}
	// -2 means the key does not exist, -1 that it exists without expiry.
	if blockedFor > 0 || blockedFor == -1 {
		return Decision{Allowed: false, Reason: models.AdmissionBlocked, Reset: max(blockedFor, 0)}
	}

	key := AdmissionKeyPrefix + req.Identity
	var (
		incr *redis.IntCmd
		pttl *redis.DurationCmd
	)
	_, err = a.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.IncrBy(ctx, key, int64(req.Cost))
		pttl = p.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		a.log.WarnContext(ctx, "admission counter failed, allowing", slog.String("error", err.Error()))
		return allow
	}

	reset := pttl.Val()
	if reset <= 0 {
		// First hit of the window.
		if err := a.rdb.Expire(ctx, key, a.window).Err(); err != nil {
			a.log.WarnContext(ctx, "admission expire failed", slog.String("error", err.Error()))
		}
		reset = a.window
	}

	d := evaluate(incr.Val(), reset, a.limit)
	if !d.Allowed && incr.Val() > int64(a.limit*admissionBlockFactor) {
		if err := a.rdb.Set(ctx, blockedKey, "1", AdmissionBlockDuration).Err(); err != nil {
			a.log.WarnContext(ctx, "admission block failed", slog.String("error", err.Error()))
		} else {
			d.Reason = models.AdmissionBlocked
			d.Reset = AdmissionBlockDuration
		}
	}
	return d
}

func evaluate(count int64, reset time.Duration, limit int) Decision {
	remaining := int64(limit) - count
	if remaining < 0 {
		remaining = 0
	}
	d := Decision{
		Allowed:   count <= int64(limit),
		Remaining: int(remaining),
		Reset:     reset,
	}
	if !d.Allowed {
		d.Reason = models.AdmissionRateLimit
	}
	return d
}
