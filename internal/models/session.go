package models

import "time"

// SessionEventType enumerates identity changes other components may react to.
type SessionEventType string

const (
	SessionEventSignedIn        SessionEventType = "signed_in"
	SessionEventSignedOut       SessionEventType = "signed_out"
	SessionEventPasswordChanged SessionEventType = "password_changed"
	SessionEventRolesChanged    SessionEventType = "roles_changed"
	SessionEventProfileUpdated  SessionEventType = "profile_updated"
)

// SessionEvent is published by the auth and staff services.
type SessionEvent struct {
	Type       SessionEventType `json:"type"`
	UserID     string           `json:"user_id"`
	OccurredAt time.Time        `json:"occurred_at"`
}
