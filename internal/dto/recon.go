package dto

import (
	"time"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Reconciliation DTOs ---

// CreateReconciliationRequest opens a draft reconciliation for a bank account.
type CreateReconciliationRequest struct {
	BankAccountID    string          `json:"bankAccountID" binding:"required"`
	StatementDate    time.Time       `json:"statementDate" binding:"required"`
	StatementBalance decimal.Decimal `json:"statementBalance" binding:"required"`
	IdempotencyKey   string          `json:"idempotencyKey" binding:"required"`
}

// ReconciliationResponse defines the data returned for a reconciliation.
type ReconciliationResponse struct {
	ReconID          string             `json:"reconID"`
	BankAccountID    string             `json:"bankAccountID"`
	StatementDate    time.Time          `json:"statementDate"`
	StatementBalance decimal.Decimal    `json:"statementBalance"`
	Status           domain.ReconStatus `json:"status"`
	CreatedAt        time.Time          `json:"createdAt"`
}

// ToReconciliationResponse converts a domain.BankReconciliation to DTO.
func ToReconciliationResponse(r *domain.BankReconciliation) ReconciliationResponse {
	return ReconciliationResponse{
		ReconID:          r.ReconID,
		BankAccountID:    r.BankAccountID,
		StatementDate:    r.StatementDate,
		StatementBalance: r.StatementBalance,
		Status:           r.Status,
		CreatedAt:        r.CreatedAt,
	}
}

// ListReconciliationsResponse wraps a list of reconciliations.
type ListReconciliationsResponse struct {
	Reconciliations []ReconciliationResponse `json:"reconciliations"`
}

// ReconciliationSummaryResponse reports the difference the reconciliation is
// trying to explain: statement balance vs cleared book balance.
type ReconciliationSummaryResponse struct {
	ReconID          string          `json:"reconID"`
	StatementBalance decimal.Decimal `json:"statementBalance"`
	ClearedBalance   decimal.Decimal `json:"clearedBalance"`
	Difference       decimal.Decimal `json:"difference"`
	UnmatchedLines   int             `json:"unmatchedLines"`
}

// --- Statement line DTOs ---

// AddStatementLineRequest enters one bank statement line manually.
type AddStatementLineRequest struct {
	LineDate    time.Time       `json:"lineDate" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
	Reference   string          `json:"reference"`
}

// MatchStatementLineRequest links a statement line to a ledger entry.
type MatchStatementLineRequest struct {
	LedgerEntryID string `json:"ledgerEntryID" binding:"required"`
}

// StatementLineResponse defines the data returned for a statement line.
type StatementLineResponse struct {
	LineID               string                     `json:"lineID"`
	LineDate             time.Time                  `json:"lineDate"`
	Amount               decimal.Decimal            `json:"amount"`
	Description          string                     `json:"description,omitempty"`
	Reference            string                     `json:"reference,omitempty"`
	Status               domain.StatementLineStatus `json:"status"`
	MatchedLedgerEntryID *string                    `json:"matchedLedgerEntryID,omitempty"`
}

// ToStatementLineResponse converts a domain.StatementLine to DTO.
func ToStatementLineResponse(l *domain.StatementLine) StatementLineResponse {
	return StatementLineResponse{
		LineID:               l.LineID,
		LineDate:             l.LineDate,
		Amount:               l.Amount,
		Description:          l.Description,
		Reference:            l.Reference,
		Status:               l.Status,
		MatchedLedgerEntryID: l.MatchedLedgerEntryID,
	}
}

// ToListStatementLinesResponse converts a slice of domain.StatementLine to DTOs.
func ToListStatementLinesResponse(ls []domain.StatementLine) []StatementLineResponse {
	list := make([]StatementLineResponse, len(ls))
	for i, l := range ls {
		list[i] = ToStatementLineResponse(&l)
	}
	return list
}

// CandidateResponse is one ledger entry eligible for matching a line.
type CandidateResponse struct {
	LedgerEntryID string          `json:"ledgerEntryID"`
	PostingDate   time.Time       `json:"postingDate"`
	Description   string          `json:"description,omitempty"`
	DebitAmount   decimal.Decimal `json:"debitAmount"`
	CreditAmount  decimal.Decimal `json:"creditAmount"`
	IsCleared     bool            `json:"isCleared"`
}

// ToCandidateResponses converts domain candidates to DTOs.
func ToCandidateResponses(cs []domain.LedgerEntryCandidate) []CandidateResponse {
	list := make([]CandidateResponse, len(cs))
	for i, c := range cs {
		list[i] = CandidateResponse{
			LedgerEntryID: c.LedgerEntryID,
			PostingDate:   c.PostingDate,
			Description:   c.Description,
			DebitAmount:   c.DebitAmount,
			CreditAmount:  c.CreditAmount,
			IsCleared:     c.IsCleared,
		}
	}
	return list
}

// SetClearedRequest toggles the cleared flag on a bank ledger entry.
type SetClearedRequest struct {
	Cleared bool `json:"cleared"`
}
