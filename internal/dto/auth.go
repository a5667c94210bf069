package dto

import "time"

// LoginRequest defines credentials for password login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	// TenantID selects which membership the session is scoped to. Optional
	// when the user belongs to exactly one tenant.
	TenantID string `json:"tenantID"`
}

// RegisterRequest defines data for self-service user registration.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginResponse carries the issued token and its expiry.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// ImpersonateRequest lets a platform admin mint a tenant-scoped token.
type ImpersonateRequest struct {
	UserID   string `json:"userID" binding:"required"`
	TenantID string `json:"tenantID" binding:"required"`
}
