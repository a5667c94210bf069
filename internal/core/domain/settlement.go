package domain

import "github.com/shopspring/decimal"

// SettlementStatus indicates the lifecycle state of a settlement.
type SettlementStatus string

const (
	SettlementDraft  SettlementStatus = "DRAFT"
	SettlementPosted SettlementStatus = "POSTED"
)

// Settlement distributes a crop cycle's pooled proceeds among share parties
// per their land-allocation share rules.
type Settlement struct {
	SettlementID   string           `json:"settlementID"` // Primary Key (UUID)
	TenantID       string           `json:"tenantID"`
	CropCycleID    string           `json:"cropCycleID"`
	TotalAmount    decimal.Decimal  `json:"totalAmount"`
	Lines          []SettlementLine `json:"lines"`
	Status         SettlementStatus `json:"status"`
	PostingGroupID *string          `json:"postingGroupID,omitempty"`
	IdempotencyKey string           `json:"idempotencyKey"`
	AuditFields
}

// SettlementLine is one party's share of a settlement.
type SettlementLine struct {
	PartyID      string          `json:"partyID"`
	SharePercent decimal.Decimal `json:"sharePercent"`
	Amount       decimal.Decimal `json:"amount"`
}
