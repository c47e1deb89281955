package auth

import "github.com/google/uuid"

// NewSessionToken generates a fresh opaque session token.
// Tokens are random UUIDv4 strings; they carry no embedded claims and are
// only meaningful as keys into the session store.
func NewSessionToken() string {
	return uuid.New().String()
}

// NewUserID generates a unique id for a newly registered user.
func NewUserID() string {
	return uuid.New().String()
}
