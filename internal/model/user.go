package model

import "time"

// User represents a registered account.
// SecretHash holds the argon2id PHC string, never the plaintext secret.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	SecretHash  string    `json:"-"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PublicUser is the view of a user that is safe to return to clients.
type PublicUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Public returns the client-facing view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		DisplayName: u.DisplayName,
	}
}
