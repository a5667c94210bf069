package repositories

import (
	"context"
	"time"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
)

// ReconReader defines read operations for bank reconciliations.
type ReconReader interface {
	FindReconciliationByID(ctx context.Context, tenantID, reconID string) (*domain.BankReconciliation, error)
	FindReconciliationByIdempotencyKey(ctx context.Context, tenantID, key string) (*domain.BankReconciliation, error)
	ListReconciliations(ctx context.Context, tenantID string) ([]domain.BankReconciliation, error)
	FindStatementLineByID(ctx context.Context, reconID, lineID string) (*domain.StatementLine, error)
	ListStatementLines(ctx context.Context, reconID string) ([]domain.StatementLine, error)
}

// ReconWriter defines write operations for bank reconciliations.
type ReconWriter interface {
	SaveReconciliation(ctx context.Context, recon domain.BankReconciliation) error
	FinalizeReconciliation(ctx context.Context, tenantID, reconID, updatedBy string, updatedAt time.Time) error
	SaveStatementLine(ctx context.Context, line domain.StatementLine) error
	// ApplyStatementLineMatch sets the line's status, links the matched entry
	// when the status is MATCHED, and flips the entry's cleared flag, all in
	// one transaction. A nil ledgerEntryID leaves the ledger untouched.
	ApplyStatementLineMatch(ctx context.Context, tenantID, lineID string, status domain.StatementLineStatus, ledgerEntryID *string, cleared bool, updatedBy string, updatedAt time.Time) error
}

// ReconRepositoryFacade combines reconciliation repository interfaces.
type ReconRepositoryFacade interface {
	ReconReader
	ReconWriter
}
