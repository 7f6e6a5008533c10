package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/AnshRaj112/storylens-backend/internal/models"
	"github.com/AnshRaj112/storylens-backend/pkg/ctxutil"
)

type tokenVerifier interface {
	Verify(token string) (models.Identity, error)
}

type identityProvisioner interface {
	EnsureProvisioned(ctx context.Context, id models.Identity) error
}

// Auth verifies the bearer token and stores the caller identity in the request context.
// A request without a token passes through anonymously; the journal service decides
// whether the operation needs an identity. An invalid token is rejected with 401.
// WebSocket upgrades may carry the token in the "token" query parameter instead.
func Auth(verifier tokenVerifier, provisioner identityProvisioner, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := verifier.Verify(token)
			if err != nil {
				log.DebugContext(r.Context(), "rejected identity token", slog.String("error", err.Error()))
				writeUnauthorized(w)
				return
			}

			if err := provisioner.EnsureProvisioned(r.Context(), id); err != nil {
				log.ErrorContext(r.Context(), "identity provisioning failed",
					slog.String("external_id", id.ExternalID),
					slog.String("error", err.Error()),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Internal server error"})
				return
			}

			next.ServeHTTP(w, r.WithContext(ctxutil.WithIdentity(r.Context(), id)))
		})
	}
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	if h := strings.TrimSpace(r.Header.Get("Authorization")); len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		return r.URL.Query().Get("token")
	}
	return ""
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Invalid or expired token"})
}
