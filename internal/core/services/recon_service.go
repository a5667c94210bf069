package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SahayFarms/farm_books_app/internal/apperrors"
	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/SahayFarms/farm_books_app/internal/core/matching"
	portsrepo "github.com/SahayFarms/farm_books_app/internal/core/ports/repositories"
	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
	"github.com/SahayFarms/farm_books_app/internal/dto"
)

var (
	ErrReconFinalized    = errors.New("reconciliation is finalized")
	ErrLineNotUnmatched  = errors.New("statement line is not unmatched")
	ErrLineNotMatched    = errors.New("statement line is not matched")
	ErrLineVoided        = errors.New("statement line is voided")
	ErrEntryNotEligible  = errors.New("ledger entry is not an eligible match for the line")
	ErrNotBankAccount    = errors.New("account is not a reconcilable bank account")
	ErrStatementZeroLine = errors.New("statement line amount must be non-zero")
)

// reconService runs the manual bank reconciliation workflow.
type reconService struct {
	BaseService
	reconRepo   portsrepo.ReconRepositoryFacade
	postingRepo portsrepo.PostingRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewReconService creates a new ReconService.
func NewReconService(reconRepo portsrepo.ReconRepositoryFacade, postingRepo portsrepo.PostingRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.ReconSvcFacade {
	return &reconService{
		reconRepo:   reconRepo,
		postingRepo: postingRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.ReconSvcFacade = (*reconService)(nil)

// GetReconciliationByID retrieves a reconciliation.
func (s *reconService) GetReconciliationByID(ctx context.Context, session domain.Session, tenantID, reconID string) (*domain.BankReconciliation, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionReconRead); err != nil {
		return nil, err
	}
	recon, err := s.reconRepo.FindReconciliationByID(ctx, tenantID, reconID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reconciliation %s: %w", reconID, err)
	}
	return recon, nil
}

// ListReconciliations lists the tenant's reconciliations.
func (s *reconService) ListReconciliations(ctx context.Context, session domain.Session, tenantID string) ([]domain.BankReconciliation, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionReconRead); err != nil {
		return nil, err
	}
	recons, err := s.reconRepo.ListReconciliations(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list reconciliations", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list reconciliations: %w", err)
	}
	return recons, nil
}

// ListStatementLines lists a reconciliation's statement lines.
func (s *reconService) ListStatementLines(ctx context.Context, session domain.Session, tenantID, reconID string) ([]domain.StatementLine, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionReconRead); err != nil {
		return nil, err
	}
	if _, err := s.reconRepo.FindReconciliationByID(ctx, tenantID, reconID); err != nil {
		return nil, fmt.Errorf("failed to find reconciliation %s: %w", reconID, err)
	}
	lines, err := s.reconRepo.ListStatementLines(ctx, reconID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list statement lines", slog.String("recon_id", reconID))
		return nil, fmt.Errorf("failed to list statement lines: %w", err)
	}
	return lines, nil
}

// bankCandidates loads the bank account's ledger entries up to the statement
// date as match candidates.
func (s *reconService) bankCandidates(ctx context.Context, recon *domain.BankReconciliation) ([]domain.LedgerEntryCandidate, error) {
	entries, err := s.postingRepo.ListEntriesForBankAccount(ctx, recon.TenantID, recon.BankAccountID, recon.StatementDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank account entries: %w", err)
	}
	candidates := make([]domain.LedgerEntryCandidate, len(entries))
	for i, e := range entries {
		candidates[i] = domain.LedgerEntryCandidate{
			LedgerEntryID: e.LedgerEntryID,
			PostingDate:   e.PostingDate,
			Description:   e.Description,
			DebitAmount:   e.DebitAmount,
			CreditAmount:  e.CreditAmount,
			IsCleared:     e.IsCleared,
		}
	}
	return candidates, nil
}

// ListMatchCandidates returns ledger entries the line may be matched against.
func (s *reconService) ListMatchCandidates(ctx context.Context, session domain.Session, tenantID, reconID, lineID string) ([]domain.LedgerEntryCandidate, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionReconRead); err != nil {
		return nil, err
	}

	recon, err := s.reconRepo.FindReconciliationByID(ctx, tenantID, reconID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reconciliation %s: %w", reconID, err)
	}
	line, err := s.reconRepo.FindStatementLineByID(ctx, reconID, lineID)
	if err != nil {
		return nil, fmt.Errorf("failed to find statement line %s: %w", lineID, err)
	}

	lines, err := s.reconRepo.ListStatementLines(ctx, reconID)
	if err != nil {
		return nil, fmt.Errorf("failed to list statement lines: %w", err)
	}
	candidates, err := s.bankCandidates(ctx, recon)
	if err != nil {
		return nil, err
	}

	return matching.EligibleCandidates(*line, candidates, matching.MatchedEntryIDs(lines)), nil
}

// Summary reports the statement balance against the cleared book balance.
func (s *reconService) Summary(ctx context.Context, session domain.Session, tenantID, reconID string) (*dto.ReconciliationSummaryResponse, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionReconRead); err != nil {
		return nil, err
	}

	recon, err := s.reconRepo.FindReconciliationByID(ctx, tenantID, reconID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reconciliation %s: %w", reconID, err)
	}

	entries, err := s.postingRepo.ListEntriesForBankAccount(ctx, tenantID, recon.BankAccountID, recon.StatementDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank account entries: %w", err)
	}
	cleared := decimal.Zero
	for _, e := range entries {
		if e.IsCleared {
			cleared = cleared.Add(e.DebitAmount).Sub(e.CreditAmount)
		}
	}

	lines, err := s.reconRepo.ListStatementLines(ctx, reconID)
	if err != nil {
		return nil, fmt.Errorf("failed to list statement lines: %w", err)
	}
	unmatched := 0
	for _, l := range lines {
		if l.Status == domain.LineUnmatched {
			unmatched++
		}
	}

	return &dto.ReconciliationSummaryResponse{
		ReconID:          reconID,
		StatementBalance: recon.StatementBalance,
		ClearedBalance:   cleared,
		Difference:       recon.StatementBalance.Sub(cleared),
		UnmatchedLines:   unmatched,
	}, nil
}

// CreateReconciliation opens a DRAFT reconciliation for a bank account.
func (s *reconService) CreateReconciliation(ctx context.Context, session domain.Session, tenantID string, req dto.CreateReconciliationRequest) (*domain.BankReconciliation, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionReconWork); err != nil {
		return nil, err
	}

	if existing, err := s.reconRepo.FindReconciliationByIdempotencyKey(ctx, tenantID, req.IdempotencyKey); err == nil {
		s.LogInfo(ctx, "Reconciliation replayed by idempotency key", slog.String("recon_id", existing.ReconID))
		return existing, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check idempotency key: %w", err)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, tenantID, req.BankAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", req.BankAccountID, err)
	}
	if account.Type != domain.Asset || !account.IsBank {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrNotBankAccount)
	}

	now := time.Now().UTC()
	recon := domain.BankReconciliation{
		ReconID:          uuid.NewString(),
		TenantID:         tenantID,
		BankAccountID:    req.BankAccountID,
		StatementDate:    req.StatementDate,
		StatementBalance: req.StatementBalance,
		Status:           domain.ReconDraft,
		IdempotencyKey:   req.IdempotencyKey,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     session.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: session.UserID,
		},
	}

	if err := s.reconRepo.SaveReconciliation(ctx, recon); err != nil {
		s.LogError(ctx, err, "Failed to save reconciliation", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save reconciliation: %w", err)
	}

	s.LogInfo(ctx, "Reconciliation created", slog.String("recon_id", recon.ReconID))
	return &recon, nil
}

// requireDraft loads the reconciliation and rejects mutation once finalized.
func (s *reconService) requireDraft(ctx context.Context, tenantID, reconID string) (*domain.BankReconciliation, error) {
	recon, err := s.reconRepo.FindReconciliationByID(ctx, tenantID, reconID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reconciliation %s: %w", reconID, err)
	}
	if recon.Status == domain.ReconFinalized {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrReconFinalized)
	}
	return recon, nil
}

// AddStatementLine enters one statement line into a draft reconciliation.
func (s *reconService) AddStatementLine(ctx context.Context, session domain.Session, tenantID, reconID string, req dto.AddStatementLineRequest) (*domain.StatementLine, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionReconWork); err != nil {
		return nil, err
	}
	if _, err := s.requireDraft(ctx, tenantID, reconID); err != nil {
		return nil, err
	}
	if req.Amount.IsZero() {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrStatementZeroLine)
	}

	now := time.Now().UTC()
	line := domain.StatementLine{
		LineID:      uuid.NewString(),
		ReconID:     reconID,
		LineDate:    req.LineDate,
		Amount:      req.Amount,
		Description: req.Description,
		Reference:   req.Reference,
		Status:      domain.LineUnmatched,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     session.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: session.UserID,
		},
	}

	if err := s.reconRepo.SaveStatementLine(ctx, line); err != nil {
		s.LogError(ctx, err, "Failed to save statement line", slog.String("recon_id", reconID))
		return nil, fmt.Errorf("failed to save statement line: %w", err)
	}
	return &line, nil
}

// VoidStatementLine voids an UNMATCHED line. Matched lines must be unmatched
// first and a void is terminal.
func (s *reconService) VoidStatementLine(ctx context.Context, session domain.Session, tenantID, reconID, lineID string) error {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionReconWork); err != nil {
		return err
	}
	if _, err := s.requireDraft(ctx, tenantID, reconID); err != nil {
		return err
	}

	line, err := s.reconRepo.FindStatementLineByID(ctx, reconID, lineID)
	if err != nil {
		return fmt.Errorf("failed to find statement line %s: %w", lineID, err)
	}
	if line.Status != domain.LineUnmatched {
		return fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrLineNotUnmatched)
	}

	now := time.Now().UTC()
	if err := s.reconRepo.ApplyStatementLineMatch(ctx, tenantID, lineID, domain.LineVoided, nil, false, session.UserID, now); err != nil {
		s.LogError(ctx, err, "Failed to void statement line", slog.String("line_id", lineID))
		return fmt.Errorf("failed to void statement line: %w", err)
	}

	s.LogInfo(ctx, "Statement line voided", slog.String("line_id", lineID))
	return nil
}

// MatchStatementLine links the line to an eligible ledger entry and marks the
// entry cleared.
func (s *reconService) MatchStatementLine(ctx context.Context, session domain.Session, tenantID, reconID, lineID string, req dto.MatchStatementLineRequest) (*domain.StatementLine, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionReconWork); err != nil {
		return nil, err
	}
	recon, err := s.requireDraft(ctx, tenantID, reconID)
	if err != nil {
		return nil, err
	}

	line, err := s.reconRepo.FindStatementLineByID(ctx, reconID, lineID)
	if err != nil {
		return nil, fmt.Errorf("failed to find statement line %s: %w", lineID, err)
	}
	if line.Status != domain.LineUnmatched {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrLineNotUnmatched)
	}

	lines, err := s.reconRepo.ListStatementLines(ctx, reconID)
	if err != nil {
		return nil, fmt.Errorf("failed to list statement lines: %w", err)
	}
	candidates, err := s.bankCandidates(ctx, recon)
	if err != nil {
		return nil, err
	}

	eligible := matching.EligibleCandidates(*line, candidates, matching.MatchedEntryIDs(lines))
	found := false
	for _, c := range eligible {
		if c.LedgerEntryID == req.LedgerEntryID {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrEntryNotEligible)
	}

	// Line link and cleared flag commit together, so a failed match never
	// leaves the entry cleared with the line still unmatched.
	now := time.Now().UTC()
	if err := s.reconRepo.ApplyStatementLineMatch(ctx, tenantID, lineID, domain.LineMatched, &req.LedgerEntryID, true, session.UserID, now); err != nil {
		s.LogError(ctx, err, "Failed to match statement line", slog.String("line_id", lineID))
		return nil, fmt.Errorf("failed to match statement line: %w", err)
	}

	line.Status = domain.LineMatched
	line.MatchedLedgerEntryID = &req.LedgerEntryID
	line.LastUpdatedAt = now
	line.LastUpdatedBy = session.UserID

	s.LogInfo(ctx, "Statement line matched",
		slog.String("line_id", lineID),
		slog.String("ledger_entry_id", req.LedgerEntryID))
	return line, nil
}

// UnmatchStatementLine reverts a match and unclears the entry.
func (s *reconService) UnmatchStatementLine(ctx context.Context, session domain.Session, tenantID, reconID, lineID string) (*domain.StatementLine, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionReconWork); err != nil {
		return nil, err
	}
	if _, err := s.requireDraft(ctx, tenantID, reconID); err != nil {
		return nil, err
	}

	line, err := s.reconRepo.FindStatementLineByID(ctx, reconID, lineID)
	if err != nil {
		return nil, fmt.Errorf("failed to find statement line %s: %w", lineID, err)
	}
	if !line.IsMatched() {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrLineNotMatched)
	}

	now := time.Now().UTC()
	if err := s.reconRepo.ApplyStatementLineMatch(ctx, tenantID, lineID, domain.LineUnmatched, line.MatchedLedgerEntryID, false, session.UserID, now); err != nil {
		s.LogError(ctx, err, "Failed to unmatch statement line", slog.String("line_id", lineID))
		return nil, fmt.Errorf("failed to unmatch statement line: %w", err)
	}

	line.Status = domain.LineUnmatched
	line.MatchedLedgerEntryID = nil
	line.LastUpdatedAt = now
	line.LastUpdatedBy = session.UserID

	s.LogInfo(ctx, "Statement line unmatched", slog.String("line_id", lineID))
	return line, nil
}

// SetEntryCleared toggles a bank entry's cleared flag outside of matching.
func (s *reconService) SetEntryCleared(ctx context.Context, session domain.Session, tenantID, ledgerEntryID string, cleared bool) error {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionReconWork); err != nil {
		return err
	}

	if _, err := s.postingRepo.FindEntryByID(ctx, tenantID, ledgerEntryID); err != nil {
		return fmt.Errorf("failed to find ledger entry %s: %w", ledgerEntryID, err)
	}

	now := time.Now().UTC()
	if err := s.postingRepo.SetEntryCleared(ctx, tenantID, ledgerEntryID, cleared, session.UserID, now); err != nil {
		s.LogError(ctx, err, "Failed to set cleared flag", slog.String("ledger_entry_id", ledgerEntryID))
		return fmt.Errorf("failed to set cleared flag: %w", err)
	}
	return nil
}

// FinalizeReconciliation marks the reconciliation FINALIZED. Terminal.
func (s *reconService) FinalizeReconciliation(ctx context.Context, session domain.Session, tenantID, reconID string) (*domain.BankReconciliation, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionReconFinalize); err != nil {
		return nil, err
	}

	recon, err := s.requireDraft(ctx, tenantID, reconID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.reconRepo.FinalizeReconciliation(ctx, tenantID, reconID, session.UserID, now); err != nil {
		s.LogError(ctx, err, "Failed to finalize reconciliation", slog.String("recon_id", reconID))
		return nil, fmt.Errorf("failed to finalize reconciliation: %w", err)
	}

	recon.Status = domain.ReconFinalized
	recon.LastUpdatedAt = now
	recon.LastUpdatedBy = session.UserID

	s.LogInfo(ctx, "Reconciliation finalized", slog.String("recon_id", reconID))
	return recon, nil
}
