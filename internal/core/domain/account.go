package domain

import "github.com/shopspring/decimal"

// AccountType is the fundamental accounting classification of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account represents one ledger account in a tenant's chart of accounts.
// Party-linked accounts (receivable/payable per party) carry a PartyID.
type Account struct {
	AccountID string          `json:"accountID"` // Primary Key (UUID)
	TenantID  string          `json:"tenantID"`
	Code      string          `json:"code"` // Short chart code, unique per tenant
	Name      string          `json:"name"`
	Type      AccountType     `json:"type"`
	PartyID   *string         `json:"partyID,omitempty"`
	IsBank    bool            `json:"isBank"` // Bank/cash accounts are reconcilable
	IsActive  bool            `json:"isActive"`
	Balance   decimal.Decimal `json:"balance"` // Signed per accounting convention
	AuditFields
}
