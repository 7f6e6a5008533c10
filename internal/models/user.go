package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the internal account row for an identity issued by the external provider.
// ExternalID never changes once the row exists.
type User struct {
	ID         uuid.UUID `json:"id"`
	ExternalID string    `json:"-"`
	Email      string    `json:"email,omitempty"`
	Name       string    `json:"name,omitempty"`
	ImageURL   string    `json:"image_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Identity is what the identity provider tells us about the caller.
type Identity struct {
	ExternalID string
	Email      string
	Name       string
	ImageURL   string
}
