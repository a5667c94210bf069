package services

import (
	"context"
	"time"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/SahayFarms/farm_books_app/internal/dto"
)

// ReportingSvcFacade defines the read-only reporting operations.
type ReportingSvcFacade interface {
	TrialBalance(ctx context.Context, session domain.Session, tenantID string) (*dto.TrialBalanceResponse, error)
	PartyLedger(ctx context.Context, session domain.Session, tenantID, partyID string) (*dto.PartyLedgerResponse, error)
	ReceivablesAgeing(ctx context.Context, session domain.Session, tenantID string, asOf time.Time) (*dto.AgeingResponse, error)
	CropCyclePnL(ctx context.Context, session domain.Session, tenantID, cropCycleID string) (*domain.CropCyclePnL, error)
	SalesMargin(ctx context.Context, session domain.Session, tenantID, cropCycleID string) (*dto.SalesMarginResponse, error)

	// RunChecks executes the consistency checks and persists the results.
	// Used by the close-cycle gate and the nightly sweep.
	RunChecks(ctx context.Context, tenantID string) ([]domain.ReconciliationCheck, error)
	LatestChecks(ctx context.Context, session domain.Session, tenantID string) (*dto.ChecksResponse, error)

	// TrialBalanceXLSX renders the trial balance as a spreadsheet.
	TrialBalanceXLSX(ctx context.Context, session domain.Session, tenantID string) ([]byte, error)
	// PartyLedgerXLSX renders a party's ledger as a spreadsheet.
	PartyLedgerXLSX(ctx context.Context, session domain.Session, tenantID, partyID string) ([]byte, error)
	// PaymentReceiptPDF renders a printable receipt for a payment.
	PaymentReceiptPDF(ctx context.Context, session domain.Session, tenantID, paymentID string) ([]byte, error)
}
