package ctxutil

import (
	"context"

	"github.com/AnshRaj112/storylens-backend/internal/models"
)

type ctxKey string

const identityKey ctxKey = "identity"

// WithIdentity stores the verified caller identity in the context.
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromCtx extracts the caller identity from the context.
// Returns false if the value is missing or carries no external id.
func IdentityFromCtx(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(identityKey).(models.Identity)
	if !ok || id.ExternalID == "" {
		return models.Identity{}, false
	}
	return id, true
}
