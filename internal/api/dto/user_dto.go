package dto

import (
	"time"

	"github.com/spec-kit/miniticket/internal/domain"
)

// SignupRequest payload for new accounts. AdminSecret is only consulted
// when Role is admin.
type SignupRequest struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	Role        domain.Role `json:"role"`
	AdminSecret string      `json:"adminsecret"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned on successful login.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
