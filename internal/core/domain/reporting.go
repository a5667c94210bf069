package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow is one account line of the trial balance.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	DebitTotal  decimal.Decimal `json:"debitTotal"`
	CreditTotal decimal.Decimal `json:"creditTotal"`
}

// PartyLedgerRow is one posting line on a party's ledger view.
type PartyLedgerRow struct {
	PostingDate time.Time       `json:"postingDate"`
	SourceType  SourceType      `json:"sourceType"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"` // Running balance
}

// AgeingBucket aggregates a party's outstanding receivables by age.
type AgeingBucket struct {
	PartyID     string          `json:"partyID"`
	PartyName   string          `json:"partyName"`
	Current     decimal.Decimal `json:"current"`    // 0-30 days
	Days31To60  decimal.Decimal `json:"days31to60"`
	Days61To90  decimal.Decimal `json:"days61to90"`
	Over90      decimal.Decimal `json:"over90"`
	Total       decimal.Decimal `json:"total"`
}

// CropCyclePnL summarizes revenue and expense for one crop cycle.
type CropCyclePnL struct {
	CropCycleID string          `json:"cropCycleID"`
	Name        string          `json:"name"`
	Revenue     decimal.Decimal `json:"revenue"`
	Expense     decimal.Decimal `json:"expense"`
	Net         decimal.Decimal `json:"net"`
}

// SalesMarginRow reports per-sale realized margin.
type SalesMarginRow struct {
	SaleID    string          `json:"saleID"`
	SaleNo    string          `json:"saleNo"`
	Total     decimal.Decimal `json:"total"`
	Received  decimal.Decimal `json:"received"`
	MarginPct decimal.Decimal `json:"marginPct"`
}

// CheckSeverity grades a reconciliation check result.
type CheckSeverity string

const (
	CheckPass CheckSeverity = "PASS"
	CheckWarn CheckSeverity = "WARN"
	CheckFail CheckSeverity = "FAIL"
)

// ReconciliationCheck is one PASS/WARN/FAIL internal-consistency check
// (trial balance balanced, AR control vs open sales, received within total).
type ReconciliationCheck struct {
	Name       string          `json:"name"`
	Severity   CheckSeverity   `json:"severity"`
	Difference decimal.Decimal `json:"difference"`
	Detail     string          `json:"detail,omitempty"`
	CheckedAt  time.Time       `json:"checkedAt"`
}
