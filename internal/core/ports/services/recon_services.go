package services

import (
	"context"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/SahayFarms/farm_books_app/internal/dto"
)

// ReconReaderSvc defines read operations for bank reconciliations.
type ReconReaderSvc interface {
	GetReconciliationByID(ctx context.Context, session domain.Session, tenantID, reconID string) (*domain.BankReconciliation, error)
	ListReconciliations(ctx context.Context, session domain.Session, tenantID string) ([]domain.BankReconciliation, error)
	ListStatementLines(ctx context.Context, session domain.Session, tenantID, reconID string) ([]domain.StatementLine, error)

	// ListMatchCandidates returns ledger entries eligible to match the line:
	// same sign, not matched elsewhere in this reconciliation, uncleared
	// entries ordered before cleared ones.
	ListMatchCandidates(ctx context.Context, session domain.Session, tenantID, reconID, lineID string) ([]domain.LedgerEntryCandidate, error)

	// Summary reports statement balance vs cleared book balance.
	Summary(ctx context.Context, session domain.Session, tenantID, reconID string) (*dto.ReconciliationSummaryResponse, error)
}

// ReconWriterSvc defines write operations for bank reconciliations.
type ReconWriterSvc interface {
	// CreateReconciliation opens a DRAFT reconciliation. Idempotent on the
	// request key.
	CreateReconciliation(ctx context.Context, session domain.Session, tenantID string, req dto.CreateReconciliationRequest) (*domain.BankReconciliation, error)

	AddStatementLine(ctx context.Context, session domain.Session, tenantID, reconID string, req dto.AddStatementLineRequest) (*domain.StatementLine, error)

	// VoidStatementLine voids an UNMATCHED line. A MATCHED line must be
	// unmatched first; VOIDED is terminal.
	VoidStatementLine(ctx context.Context, session domain.Session, tenantID, reconID, lineID string) error

	// MatchStatementLine links the line to a ledger entry and marks the
	// entry cleared.
	MatchStatementLine(ctx context.Context, session domain.Session, tenantID, reconID, lineID string, req dto.MatchStatementLineRequest) (*domain.StatementLine, error)

	// UnmatchStatementLine reverts a match and unclears the entry.
	UnmatchStatementLine(ctx context.Context, session domain.Session, tenantID, reconID, lineID string) (*domain.StatementLine, error)

	// SetEntryCleared toggles a bank entry's cleared flag outside matching.
	SetEntryCleared(ctx context.Context, session domain.Session, tenantID, ledgerEntryID string, cleared bool) error

	// FinalizeReconciliation is terminal: no line or match mutation after.
	FinalizeReconciliation(ctx context.Context, session domain.Session, tenantID, reconID string) (*domain.BankReconciliation, error)
}

// ReconSvcFacade combines all reconciliation-related service interfaces.
type ReconSvcFacade interface {
	ReconReaderSvc
	ReconWriterSvc
}
