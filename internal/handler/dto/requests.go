// Package dto defines the wire-level request and response shapes.
package dto

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=1,max=64"`
	Password    string `json:"password" validate:"required,min=1,max=128"`
	DisplayName string `json:"displayName" validate:"required,min=1,max=128"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ReserveRequest is the body of POST /api/reserve.
// Start and End are RFC3339 timestamps bounding a half-open interval.
type ReserveRequest struct {
	LaneID int    `json:"laneId" validate:"required,min=1"`
	Start  string `json:"start" validate:"required"`
	End    string `json:"end" validate:"required"`
}
