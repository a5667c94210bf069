package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SahayFarms/farm_books_app/internal/apperrors"
	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/SahayFarms/farm_books_app/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// Authorize checks the session against the capability table for the action
// within the tenant. Every service entry point calls this before touching
// repositories.
func (s *BaseService) Authorize(ctx context.Context, session domain.Session, tenantID string, action domain.Action) error {
	if session.CanAct(tenantID, action) {
		return nil
	}
	s.LogDebug(ctx, "Authorization denied",
		slog.String("user_id", session.UserID),
		slog.String("tenant_id", tenantID),
		slog.String("action", string(action)))
	return fmt.Errorf("%w: action %s requires role %s", apperrors.ErrForbidden, action, domain.MinRoleFor(action))
}
