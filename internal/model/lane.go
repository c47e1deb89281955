// Package model defines domain entities for the application.
package model

// Lane represents a bookable bowling lane.
// Lanes are created at startup and never mutated or deleted.
type Lane struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
