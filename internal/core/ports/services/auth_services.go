package services

import (
	"context"
	"time"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/SahayFarms/farm_books_app/internal/dto"
)

// AuthSvcFacade defines authentication and token operations.
type AuthSvcFacade interface {
	// Register creates a new user with a bcrypt password hash.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// Login verifies credentials and mints a tenant-scoped token. When
	// req.TenantID is empty and the user has exactly one membership, that
	// membership is used.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)

	// Impersonate lets a platform admin mint a token scoped to another
	// user's tenant membership. The impersonator is recorded in the session.
	Impersonate(ctx context.Context, session domain.Session, req dto.ImpersonateRequest) (*dto.LoginResponse, error)

	// GenerateToken signs a session into a JWT with expiry.
	GenerateToken(ctx context.Context, session domain.Session) (string, time.Time, error)

	// ParseToken validates a JWT and reconstructs the session.
	ParseToken(ctx context.Context, tokenString string) (*domain.Session, error)
}
