package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyBookEntryType classifies a daily book line.
type DailyBookEntryType string

const (
	EntryExpense DailyBookEntryType = "EXPENSE"
	EntryIncome  DailyBookEntryType = "INCOME"
)

// DailyBookEntry is a free-form dated expense or income line, optionally tied
// to a crop cycle. Posting one generates a posting group against the chosen
// account and the tenant's cash account.
type DailyBookEntry struct {
	EntryID        string             `json:"entryID"` // Primary Key (UUID)
	TenantID       string             `json:"tenantID"`
	CropCycleID    *string            `json:"cropCycleID,omitempty"`
	EntryDate      time.Time          `json:"entryDate"`
	Description    string             `json:"description"`
	Amount         decimal.Decimal    `json:"amount"`
	EntryType      DailyBookEntryType `json:"entryType"`
	AccountID      string             `json:"accountID"` // Expense or income account
	PostingGroupID *string            `json:"postingGroupID,omitempty"`
	IdempotencyKey string             `json:"idempotencyKey"`
	AuditFields
}
