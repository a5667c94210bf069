package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SahayFarms/farm_books_app/internal/apperrors"
	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	portsrepo "github.com/SahayFarms/farm_books_app/internal/core/ports/repositories"
	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
	"github.com/SahayFarms/farm_books_app/internal/dto"
	"github.com/SahayFarms/farm_books_app/internal/utils"
	"github.com/SahayFarms/farm_books_app/pkg/config"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoMembership       = errors.New("user has no membership in the requested tenant")
	ErrAmbiguousTenant    = errors.New("tenantID required: user belongs to multiple tenants")
)

// authService implements AuthSvcFacade: password login, impersonation and
// JWT handling.
type authService struct {
	BaseService
	cfg        *config.Config
	userRepo   portsrepo.UserRepositoryFacade
	tenantRepo portsrepo.TenantRepositoryFacade
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, userRepo portsrepo.UserRepositoryFacade, tenantRepo portsrepo.TenantRepositoryFacade) portssvc.AuthSvcFacade {
	return &authService{
		cfg:        cfg,
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Register creates a new user with a bcrypt password hash.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check existing user", slog.String("email", email))
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "self-registration",
			LastUpdatedAt: now,
			LastUpdatedBy: "self-registration",
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save user", slog.String("email", email))
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.LogInfo(ctx, "User registered", slog.String("user_id", user.UserID))
	return &user, nil
}

// Login verifies credentials and mints a tenant-scoped token.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.LogError(ctx, err, "Failed to find user by email")
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.LogInfo(ctx, "Login failed: bad password", slog.String("user_id", user.UserID))
		return nil, ErrInvalidCredentials
	}

	session, err := s.buildSession(ctx, user, req.TenantID)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.GenerateToken(ctx, *session)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate token", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.LogInfo(ctx, "Login succeeded", slog.String("user_id", user.UserID), slog.String("tenant_id", session.TenantID))
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.ToUserResponse(user),
	}, nil
}

// buildSession resolves the tenant membership the session is scoped to.
// Platform admins without a tenant get an unscoped admin session.
func (s *authService) buildSession(ctx context.Context, user *domain.User, tenantID string) (*domain.Session, error) {
	memberships, err := s.tenantRepo.ListUserTenants(ctx, user.UserID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list memberships", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	if tenantID == "" {
		switch len(memberships) {
		case 0:
			if user.IsPlatformAdmin {
				return &domain.Session{UserID: user.UserID, IsPlatformAdmin: true}, nil
			}
			return nil, fmt.Errorf("%w: user belongs to no tenant", apperrors.ErrForbidden)
		case 1:
			tenantID = memberships[0].TenantID
		default:
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrAmbiguousTenant)
		}
	}

	for _, m := range memberships {
		if m.TenantID == tenantID {
			return &domain.Session{
				UserID:          user.UserID,
				TenantID:        tenantID,
				Role:            m.Role,
				IsPlatformAdmin: user.IsPlatformAdmin,
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: %v", apperrors.ErrForbidden, ErrNoMembership)
}

// Impersonate lets a platform admin mint a token scoped to another user's
// tenant membership.
func (s *authService) Impersonate(ctx context.Context, session domain.Session, req dto.ImpersonateRequest) (*dto.LoginResponse, error) {
	if !session.IsPlatformAdmin {
		return nil, fmt.Errorf("%w: impersonation requires platform admin", apperrors.ErrForbidden)
	}

	target, err := s.userRepo.FindUserByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find impersonation target: %w", err)
	}

	membership, err := s.tenantRepo.FindUserTenantRole(ctx, req.UserID, req.TenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrForbidden, ErrNoMembership)
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}

	impersonated := domain.Session{
		UserID:         target.UserID,
		TenantID:       req.TenantID,
		Role:           membership.Role,
		ImpersonatorID: session.UserID,
	}

	token, expiresAt, err := s.GenerateToken(ctx, impersonated)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate impersonation token")
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.LogInfo(ctx, "Impersonation token issued",
		slog.String("admin_id", session.UserID),
		slog.String("target_user_id", target.UserID),
		slog.String("tenant_id", req.TenantID))
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.ToUserResponse(target),
	}, nil
}

// GenerateToken signs a session into a JWT with expiry.
func (s *authService) GenerateToken(ctx context.Context, session domain.Session) (string, time.Time, error) {
	claims := utils.SessionClaims{
		TenantID:         session.TenantID,
		Role:             string(session.Role),
		IsPlatformAdmin:  session.IsPlatformAdmin,
		ImpersonatorID:   session.ImpersonatorID,
		RegisteredClaims: utils.NewSessionClaims(session.UserID, s.cfg.JWTIssuer, s.cfg.JWTExpiryDuration),
	}
	token, err := utils.GenerateJWT(claims, s.cfg.JWTSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, claims.ExpiresAt.Time, nil
}

// ParseToken validates a JWT and reconstructs the session.
func (s *authService) ParseToken(ctx context.Context, tokenString string) (*domain.Session, error) {
	claims, err := utils.ParseAndValidateJWT(tokenString, s.cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token subject missing", apperrors.ErrValidation)
	}
	return &domain.Session{
		UserID:          claims.Subject,
		TenantID:        claims.TenantID,
		Role:            domain.TenantRole(claims.Role),
		IsPlatformAdmin: claims.IsPlatformAdmin,
		ImpersonatorID:  claims.ImpersonatorID,
	}, nil
}
