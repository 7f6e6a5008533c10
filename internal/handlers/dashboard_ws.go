package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AnshRaj112/storylens-backend/internal/models"
)

const (
	wsReadTimeout  = 90 * time.Second
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

type identityResolver interface {
	Resolve(ctx context.Context) (*models.User, error)
}

type dashboardEvents interface {
	Listen(ctx context.Context, userID string, fn func(models.DashboardEvent) error) error
}

// DashboardHandler streams dashboard invalidation events to the signed-in user.
type DashboardHandler struct {
	identity identityResolver
	events   dashboardEvents
	upgrader websocket.Upgrader
	log      *slog.Logger
}

// NewDashboardHandler creates the feed handler. Browsers must connect from one of allowedOrigins;
// clients that send no Origin header are accepted.
func NewDashboardHandler(identity identityResolver, events dashboardEvents, allowedOrigins []string, log *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		identity: identity,
		events:   events,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		log: log.With("handler", "dashboard_ws"),
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if strings.EqualFold(strings.TrimSpace(o), origin) {
				return true
			}
		}
		return false
	}
}

// connectedMessage is the first frame of every feed connection.
type connectedMessage struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
}

// Feed handles GET /ws/dashboard. The identity comes from the bearer header
// or the token query parameter, verified by the auth middleware.
func (h *DashboardHandler) Feed(w http.ResponseWriter, r *http.Request) {
	resolveCtx, cancelResolve := context.WithTimeout(r.Context(), requestTimeout)
	user, err := h.identity.Resolve(resolveCtx)
	cancelResolve()
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var writeMu sync.Mutex
	write := func(v any) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		return conn.WriteJSON(v)
	}

	if err := write(connectedMessage{Type: "connected", UserID: user.ID.String()}); err != nil {
		return
	}

	// Reader: the client only sends pings; any read error ends the connection.
	go func() {
		defer cancel()
		conn.SetReadLimit(4 * 1024)
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		}
	}()

	go func() {
		ticker := time.NewTicker(wsPingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	h.log.DebugContext(ctx, "dashboard feed connected", slog.String("user_id", user.ID.String()))
	err = h.events.Listen(ctx, user.ID.String(), func(e models.DashboardEvent) error {
		return write(e)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		h.log.WarnContext(ctx, "dashboard feed ended", slog.String("user_id", user.ID.String()), slog.String("error", err.Error()))
	}
}
