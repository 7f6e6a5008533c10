// Package mood holds the static mood registry entries are tagged with.
package mood

import (
	"strings"

	"github.com/AnshRaj112/storylens-backend/internal/models"
)

// Registry maps upper-case mood keys to descriptors. It is read-only after construction.
type Registry struct {
	byKey map[string]models.Mood
	order []string
}

var defaultMoods = []struct {
	key  string
	mood models.Mood
}{
	{"HAPPY", models.Mood{ID: "happy", Label: "Happy", Emoji: "😊", Score: 8, Prompt: "What's making you smile today?", ImageQuery: "happy joy celebration"}},
	{"GRATEFUL", models.Mood{ID: "grateful", Label: "Grateful", Emoji: "🙏", Score: 9, Prompt: "What are you thankful for today?", ImageQuery: "gratitude thankful blessing"}},
	{"EXCITED", models.Mood{ID: "excited", Label: "Excited", Emoji: "🤩", Score: 8, Prompt: "What are you looking forward to?", ImageQuery: "excited celebration party"}},
	{"PEACEFUL", models.Mood{ID: "peaceful", Label: "Peaceful", Emoji: "😌", Score: 7, Prompt: "What brought you peace today?", ImageQuery: "peaceful calm nature"}},
	{"HOPEFUL", models.Mood{ID: "hopeful", Label: "Hopeful", Emoji: "🌟", Score: 7, Prompt: "What gives you hope?", ImageQuery: "hope sunrise future"}},
	{"CONTENT", models.Mood{ID: "content", Label: "Content", Emoji: "🙂", Score: 6, Prompt: "What felt right today?", ImageQuery: "relaxed cozy comfort"}},
	{"NEUTRAL", models.Mood{ID: "neutral", Label: "Neutral", Emoji: "😐", Score: 5, Prompt: "How was your day?", ImageQuery: "calm neutral minimal"}},
	{"CONFUSED", models.Mood{ID: "confused", Label: "Confused", Emoji: "😕", Score: 4, Prompt: "What's on your mind?", ImageQuery: "maze question fog"}},
	{"ANXIOUS", models.Mood{ID: "anxious", Label: "Anxious", Emoji: "😰", Score: 3, Prompt: "What's causing your worry?", ImageQuery: "storm clouds stress"}},
	{"FRUSTRATED", models.Mood{ID: "frustrated", Label: "Frustrated", Emoji: "😤", Score: 3, Prompt: "What's getting in your way?", ImageQuery: "frustration obstacle wall"}},
	{"SAD", models.Mood{ID: "sad", Label: "Sad", Emoji: "😢", Score: 2, Prompt: "What's troubling you?", ImageQuery: "rain melancholy lonely"}},
	{"ANGRY", models.Mood{ID: "angry", Label: "Angry", Emoji: "😠", Score: 2, Prompt: "What's frustrating you?", ImageQuery: "fire storm thunder"}},
}

// NewRegistry returns the registry with the built-in moods.
func NewRegistry() *Registry {
	r := &Registry{byKey: make(map[string]models.Mood, len(defaultMoods))}
	for _, m := range defaultMoods {
		r.byKey[m.key] = m.mood
		r.order = append(r.order, m.key)
	}
	return r
}

// Lookup resolves a mood key. Keys are case-insensitive, so both "HAPPY" and the stored id "happy" resolve.
func (r *Registry) Lookup(key string) (models.Mood, bool) {
	m, ok := r.byKey[strings.ToUpper(strings.TrimSpace(key))]
	return m, ok
}

// All returns every mood in registry order.
func (r *Registry) All() []models.Mood {
	out := make([]models.Mood, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.byKey[k])
	}
	return out
}
