package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PostingGroupStatus indicates the state of a posting group.
type PostingGroupStatus string

const (
	Posted   PostingGroupStatus = "POSTED"
	Reversed PostingGroupStatus = "REVERSED"
)

// SourceType identifies the document a posting group was generated from.
type SourceType string

const (
	SourceSale       SourceType = "SALE"
	SourcePayment    SourceType = "PAYMENT"
	SourceAdvance    SourceType = "ADVANCE"
	SourceDailyBook  SourceType = "DAILY_BOOK"
	SourceSettlement SourceType = "SETTLEMENT"
	SourceManual     SourceType = "MANUAL"
	SourceReversal   SourceType = "REVERSAL"
)

// PostingGroup is the atomic batch of ledger entries produced by one posting
// action. It is immutable once posted and reversible only as a unit.
type PostingGroup struct {
	PostingGroupID string             `json:"postingGroupID"` // Primary Key (UUID)
	TenantID       string             `json:"tenantID"`
	SourceType     SourceType         `json:"sourceType"`
	SourceID       string             `json:"sourceID"`
	PostingDate    time.Time          `json:"postingDate"`
	Description    string             `json:"description"`
	Status         PostingGroupStatus `json:"status"`
	ReversalOfID   *string            `json:"reversalOfID,omitempty"` // Set on the reversing group
	ReversedByID   *string            `json:"reversedByID,omitempty"` // Set on the original once reversed
	IdempotencyKey string             `json:"idempotencyKey,omitempty"`
	Entries        []LedgerEntry      `json:"entries,omitempty"`
	AuditFields
}

// LedgerEntry is a single debit or credit line within a posting group.
// Exactly one of DebitAmount/CreditAmount is positive.
type LedgerEntry struct {
	LedgerEntryID  string          `json:"ledgerEntryID"` // Primary Key (UUID)
	PostingGroupID string          `json:"postingGroupID"`
	TenantID       string          `json:"tenantID"`
	AccountID      string          `json:"accountID"`
	DebitAmount    decimal.Decimal `json:"debitAmount"`
	CreditAmount   decimal.Decimal `json:"creditAmount"`
	PostingDate    time.Time       `json:"postingDate"`
	Description    string          `json:"description,omitempty"`
	IsCleared      bool            `json:"isCleared"` // Bank reconciliation clearing flag
	AuditFields
}

// IsDebit reports whether the entry is a debit line.
func (e LedgerEntry) IsDebit() bool {
	return e.DebitAmount.IsPositive()
}

// SignedAmount returns the entry amount signed per account-type convention:
// debits positive, credits negative.
func (e LedgerEntry) SignedAmount() decimal.Decimal {
	if e.IsDebit() {
		return e.DebitAmount
	}
	return e.CreditAmount.Neg()
}
