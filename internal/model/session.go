package model

import "time"

// Session maps an opaque token to an authenticated user.
// Sessions are created on login or registration and destroyed on logout.
// They carry no expiry; see DESIGN.md for the open question on TTLs.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthContext holds the authenticated identity injected into the
// request context by the session auth middleware.
type AuthContext struct {
	UserID      string
	DisplayName string
}
