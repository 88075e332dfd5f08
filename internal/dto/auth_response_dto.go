package dto

import "time"

// LoginRequest represents the credentials submitted by a staff actor.
type LoginRequest struct {
	StaffID  string `json:"staffID" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
