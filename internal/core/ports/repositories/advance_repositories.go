package repositories

import (
	"context"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
)

// AdvanceReader defines read operations for advances.
type AdvanceReader interface {
	FindAdvanceByID(ctx context.Context, tenantID, advanceID string) (*domain.Advance, error)
	ListAdvances(ctx context.Context, tenantID string, partyID *string, limit int, nextToken *string) ([]domain.Advance, *string, error)
	FindAdvanceByIdempotencyKey(ctx context.Context, tenantID, key string) (*domain.Advance, error)
}

// AdvanceWriter defines write operations for advances.
type AdvanceWriter interface {
	SaveAdvance(ctx context.Context, advance domain.Advance) error
	MarkAdvancePosted(ctx context.Context, tenantID, advanceID, postingGroupID, updatedBy string) error
}

// AdvanceRepositoryFacade combines advance repository interfaces.
type AdvanceRepositoryFacade interface {
	AdvanceReader
	AdvanceWriter
}
