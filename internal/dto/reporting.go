package dto

import (
	"time"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceResponse wraps the trial balance rows plus totals.
type TrialBalanceResponse struct {
	Rows        []domain.TrialBalanceRow `json:"rows"`
	DebitTotal  decimal.Decimal          `json:"debitTotal"`
	CreditTotal decimal.Decimal          `json:"creditTotal"`
	Balanced    bool                     `json:"balanced"`
}

// PartyLedgerResponse wraps a party's ledger rows plus the closing balance.
type PartyLedgerResponse struct {
	PartyID        string                  `json:"partyID"`
	Rows           []domain.PartyLedgerRow `json:"rows"`
	ClosingBalance decimal.Decimal         `json:"closingBalance"`
}

// AgeingResponse wraps the receivables ageing report.
type AgeingResponse struct {
	AsOf    time.Time             `json:"asOf"`
	Buckets []domain.AgeingBucket `json:"buckets"`
	Total   decimal.Decimal       `json:"total"`
}

// ChecksResponse wraps the latest reconciliation check results.
type ChecksResponse struct {
	Checks []domain.ReconciliationCheck `json:"checks"`
}

// SalesMarginResponse wraps the per-sale margin report for a crop cycle.
type SalesMarginResponse struct {
	CropCycleID string                 `json:"cropCycleID"`
	Rows        []domain.SalesMarginRow `json:"rows"`
}
