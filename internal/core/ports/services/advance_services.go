package services

import (
	"context"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/SahayFarms/farm_books_app/internal/dto"
)

// AdvanceReaderSvc defines read operations for advances.
type AdvanceReaderSvc interface {
	GetAdvanceByID(ctx context.Context, session domain.Session, tenantID, advanceID string) (*domain.Advance, error)
	ListAdvances(ctx context.Context, session domain.Session, tenantID string, params dto.ListAdvancesParams) (*dto.ListAdvancesResponse, error)
}

// AdvanceWriterSvc defines write operations for advances.
type AdvanceWriterSvc interface {
	// CreateAdvance records and posts an advance atomically. Replays of the
	// same idempotency key return the original advance.
	CreateAdvance(ctx context.Context, session domain.Session, tenantID string, req dto.CreateAdvanceRequest) (*domain.Advance, error)
}

// AdvanceSvcFacade combines all advance-related service interfaces.
type AdvanceSvcFacade interface {
	AdvanceReaderSvc
	AdvanceWriterSvc
}
