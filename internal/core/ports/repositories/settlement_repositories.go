package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
)

// SettlementReader defines read operations for settlements.
type SettlementReader interface {
	FindSettlementByID(ctx context.Context, tenantID, settlementID string) (*domain.Settlement, error)
	FindSettlementByIdempotencyKey(ctx context.Context, tenantID, key string) (*domain.Settlement, error)
	ListSettlements(ctx context.Context, tenantID string, cropCycleID *string) ([]domain.Settlement, error)
}

// SettlementWriter defines write operations for settlements.
type SettlementWriter interface {
	// SaveSettlement persists the settlement with its lines, the distribution
	// posting group and entries, and the account balance deltas, all in one
	// transaction.
	SaveSettlement(ctx context.Context, settlement domain.Settlement, group domain.PostingGroup, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal) error
}

// SettlementRepositoryFacade combines settlement repository interfaces.
type SettlementRepositoryFacade interface {
	SettlementReader
	SettlementWriter
}
