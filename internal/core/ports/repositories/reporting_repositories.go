package repositories

import (
	"context"
	"time"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository provides read-only aggregate queries for reports.
type ReportingRepository interface {
	TrialBalance(ctx context.Context, tenantID string) ([]domain.TrialBalanceRow, error)
	PartyLedger(ctx context.Context, tenantID, partyID string) ([]domain.PartyLedgerRow, error)
	ReceivablesAgeing(ctx context.Context, tenantID string, asOf time.Time) ([]domain.AgeingBucket, error)
	CropCyclePnL(ctx context.Context, tenantID, cropCycleID string) (*domain.CropCyclePnL, error)
	SalesMargin(ctx context.Context, tenantID, cropCycleID string) ([]domain.SalesMarginRow, error)

	// Aggregates consumed by the reconciliation checks.
	SumOpenSalesOutstanding(ctx context.Context, tenantID string, cropCycleID *string) (decimal.Decimal, error)
	SumAccountBalanceByType(ctx context.Context, tenantID string, accountType domain.AccountType) (decimal.Decimal, error)
	// SumSalesOverReceived totals the amount by which posted sales have
	// received more than their total. Zero when no sale is overpaid.
	SumSalesOverReceived(ctx context.Context, tenantID string) (decimal.Decimal, error)

	// Persisted results of the nightly checks sweep.
	SaveCheckResults(ctx context.Context, tenantID string, checks []domain.ReconciliationCheck) error
	LatestCheckResults(ctx context.Context, tenantID string) ([]domain.ReconciliationCheck, error)
}
