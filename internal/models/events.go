package models

import "time"

// EventDashboardInvalidated tells dashboard subscribers to refetch.
const EventDashboardInvalidated = "dashboard.invalidated"

// DashboardEvent is broadcast over Redis and the dashboard WebSocket after a mutation.
type DashboardEvent struct {
	Type     string    `json:"type"`
	UserID   string    `json:"user_id"`
	Resource string    `json:"resource"`
	Action   string    `json:"action"`
	At       time.Time `json:"at"`
}
