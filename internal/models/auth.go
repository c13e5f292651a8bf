package models

import "time"

// LoginRequest represents login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents registration request payload
type RegisterRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	BusinessName string `json:"business_name"`
}

// RefreshRequest represents refresh token request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"` // seconds
	User         *UserInfo `json:"user"`
}

// UserInfo represents the authenticated user
type UserInfo struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	BusinessName string     `json:"business_name"`
	Plan         string     `json:"plan"`
	OnboardedAt  *time.Time `json:"onboarded_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
