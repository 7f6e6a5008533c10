package journal

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/AnshRaj112/storylens-backend/internal/models"
	"github.com/AnshRaj112/storylens-backend/internal/services"
)

// analyticsTTL is a hint; the cache clamps it and mutations drop the key anyway.
const analyticsTTL = 6 * time.Hour

// now is replaced in tests.
var now = time.Now

// GetAnalytics summarises the caller's moods over the requested period.
func (s *Service) GetAnalytics(ctx context.Context, input AnalyticsInput) (*models.MoodAnalytics, error) {
	user, err := s.identity.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	period := input.period()
	key := services.AnalyticsCacheKey(user.ID.String(), period)

	var cached models.MoodAnalytics
	if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.log.WarnContext(ctx, "analytics cache read failed", slog.String("error", err.Error()))
	} else if hit {
		return &cached, nil
	}

	since := now().UTC().AddDate(0, 0, -periodDays[period])
	entries, err := s.entries.List(ctx, user.ID, models.EntryFilter{Since: since, Ascending: true})
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	result := summarise(period, entries)
	if err := s.cache.SetWithTTL(ctx, key, result, analyticsTTL); err != nil {
		s.log.WarnContext(ctx, "analytics cache write failed", slog.String("error", err.Error()))
	}
	return result, nil
}

// summarise expects entries in ascending creation order.
func summarise(period string, entries []models.Entry) *models.MoodAnalytics {
	out := &models.MoodAnalytics{
		Period:     period,
		MoodCounts: make(map[string]int),
		Timeline:   []models.MoodDay{},
	}
	if len(entries) == 0 {
		return out
	}

	type day struct {
		total int
		count int
	}
	days := make(map[string]*day)
	var dates []string
	total := 0

	for _, e := range entries {
		total += e.MoodScore
		out.MoodCounts[e.Mood]++

		date := e.CreatedAt.UTC().Format(time.DateOnly)
		d, ok := days[date]
		if !ok {
			d = &day{}
			days[date] = d
			dates = append(dates, date)
		}
		d.total += e.MoodScore
		d.count++
	}

	out.TotalEntries = len(entries)
	out.AverageScore = round1(float64(total) / float64(len(entries)))
	out.MostFrequent = mostFrequent(out.MoodCounts)

	sort.Strings(dates)
	for _, date := range dates {
		d := days[date]
		out.Timeline = append(out.Timeline, models.MoodDay{
			Date:         date,
			AverageScore: round1(float64(d.total) / float64(d.count)),
			EntryCount:   d.count,
		})
	}
	return out
}

// mostFrequent breaks ties alphabetically so results are stable.
func mostFrequent(counts map[string]int) string {
	best, bestN := "", 0
	for mood, n := range counts {
		if n > bestN || (n == bestN && mood < best) {
			best, bestN = mood, n
		}
	}
	return best
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
