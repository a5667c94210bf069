package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconStatus indicates the state of a bank reconciliation report.
type ReconStatus string

const (
	ReconDraft     ReconStatus = "DRAFT"
	ReconFinalized ReconStatus = "FINALIZED" // Terminal: no further mutation
)

// BankReconciliation cross-checks one bank account's ledger against a bank
// statement as of a statement date.
type BankReconciliation struct {
	ReconID          string          `json:"reconID"` // Primary Key (UUID)
	TenantID         string          `json:"tenantID"`
	BankAccountID    string          `json:"bankAccountID"`
	StatementDate    time.Time       `json:"statementDate"`
	StatementBalance decimal.Decimal `json:"statementBalance"`
	Status           ReconStatus     `json:"status"`
	IdempotencyKey   string          `json:"idempotencyKey"`
	AuditFields
}

// StatementLineStatus is the state of one manually-entered statement line.
// Transitions: UNMATCHED -> MATCHED -> UNMATCHED (unmatch) and
// UNMATCHED -> VOIDED (terminal). A MATCHED line must be unmatched before void.
type StatementLineStatus string

const (
	LineUnmatched StatementLineStatus = "UNMATCHED"
	LineMatched   StatementLineStatus = "MATCHED"
	LineVoided    StatementLineStatus = "VOIDED"
)

// StatementLine is one line of the bank statement, entered manually during
// reconciliation. Lines are voided rather than deleted.
type StatementLine struct {
	LineID               string              `json:"lineID"` // Primary Key (UUID)
	ReconID              string              `json:"reconID"`
	LineDate             time.Time           `json:"lineDate"`
	Amount               decimal.Decimal     `json:"amount"` // Signed: deposits positive, withdrawals negative
	Description          string              `json:"description,omitempty"`
	Reference            string              `json:"reference,omitempty"`
	Status               StatementLineStatus `json:"status"`
	MatchedLedgerEntryID *string             `json:"matchedLedgerEntryID,omitempty"`
	AuditFields
}

// IsMatched reports whether the line is currently matched to a ledger entry.
func (l StatementLine) IsMatched() bool {
	return l.Status == LineMatched && l.MatchedLedgerEntryID != nil
}

// LedgerEntryCandidate is a ledger entry eligible for matching against a
// statement line. Exactly one of DebitAmount/CreditAmount is positive.
type LedgerEntryCandidate struct {
	LedgerEntryID string          `json:"ledgerEntryID"`
	PostingDate   time.Time       `json:"postingDate"`
	Description   string          `json:"description,omitempty"`
	DebitAmount   decimal.Decimal `json:"debitAmount"`
	CreditAmount  decimal.Decimal `json:"creditAmount"`
	IsCleared     bool            `json:"isCleared"`
}
