package services

import (
	"context"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/SahayFarms/farm_books_app/internal/dto"
)

// SettlementReaderSvc defines read operations for settlements.
type SettlementReaderSvc interface {
	GetSettlementByID(ctx context.Context, session domain.Session, tenantID, settlementID string) (*domain.Settlement, error)
	ListSettlements(ctx context.Context, session domain.Session, tenantID string, cropCycleID *string) ([]domain.Settlement, error)
}

// SettlementWriterSvc defines write operations for settlements.
type SettlementWriterSvc interface {
	// CreateSettlement distributes the total among the cycle's share parties
	// per their land-allocation percentages and posts the result. Any
	// rounding remainder goes to the largest share.
	CreateSettlement(ctx context.Context, session domain.Session, tenantID string, req dto.CreateSettlementRequest) (*domain.Settlement, error)
}

// SettlementSvcFacade combines all settlement-related service interfaces.
type SettlementSvcFacade interface {
	SettlementReaderSvc
	SettlementWriterSvc
}
