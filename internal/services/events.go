package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/storylens-backend/internal/models"
)

// DashboardChannelPrefix is the Redis pub/sub channel prefix for per-user dashboard events.
const DashboardChannelPrefix = "dashboard:"

// EventService announces that a user's dashboard is stale and drops their cached analytics.
type EventService struct {
	rdb   redis.UniversalClient
	cache *CacheService
	log   *slog.Logger
}

func NewEventService(rdb redis.UniversalClient, cache *CacheService, log *slog.Logger) *EventService {
	return &EventService{rdb: rdb, cache: cache, log: log.With("service", "events")}
}

// Publish drops the user's analytics cache and broadcasts the event.
func (s *EventService) Publish(ctx context.Context, event models.DashboardEvent) error {
	if event.Type == "" {
		event.Type = models.EventDashboardInvalidated
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	keys := make([]string, 0, len(models.AnalyticsPeriods))
	for _, p := range models.AnalyticsPeriods {
		keys = append(keys, AnalyticsCacheKey(event.UserID, p))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.WarnContext(ctx, "failed to drop analytics cache",
			slog.String("user_id", event.UserID), slog.String("error", err.Error()))
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.rdb.Publish(ctx, DashboardChannelPrefix+event.UserID, data).Err()
}

// Listen subscribes to the user's dashboard channel and calls fn for every event
// until ctx is done, the subscription fails or fn returns an error.
func (s *EventService) Listen(ctx context.Context, userID string, fn func(models.DashboardEvent) error) error {
	pubsub := s.rdb.Subscribe(ctx, DashboardChannelPrefix+userID)
	defer pubsub.Close()

	// Wait for the subscription confirmation so no event published afterwards is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event models.DashboardEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				s.log.WarnContext(ctx, "failed to unmarshal dashboard event", slog.String("error", err.Error()))
				continue
			}
			if err := fn(event); err != nil {
				return err
			}
		}
	}
}
