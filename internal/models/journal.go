package models

import (
	"time"

	"github.com/google/uuid"
)

// UnorganizedCollection selects entries that belong to no collection.
const UnorganizedCollection = "unorganized"

// Mood describes one entry of the mood registry. Not persisted.
type Mood struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Emoji      string `json:"emoji"`
	Score      int    `json:"score"`
	Prompt     string `json:"prompt"`
	ImageQuery string `json:"image_query"`
}

// Entry is a published journal entry.
type Entry struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Mood         string     `json:"mood"`
	MoodScore    int        `json:"mood_score"`
	MoodImageURL string     `json:"mood_image_url,omitempty"`
	CollectionID *uuid.UUID `json:"collection_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// MoodData is joined from the registry at read time.
	MoodData *Mood `json:"mood_data,omitempty"`
}

// Collection groups a user's entries under a name.
type Collection struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Draft is the single unpublished scratch copy a user may keep.
type Draft struct {
	UserID    string    `bson:"user_id" json:"-"`
	Title     string    `bson:"title" json:"title"`
	Content   string    `bson:"content" json:"content"`
	Mood      string    `bson:"mood" json:"mood"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// EntryFilter narrows a listing of a user's entries.
type EntryFilter struct {
	// CollectionID restricts to one collection. Nil means no restriction.
	CollectionID *uuid.UUID
	// Unorganized restricts to entries without a collection.
	Unorganized bool
	// Since drops entries created before it when non-zero.
	Since     time.Time
	Ascending bool
}
