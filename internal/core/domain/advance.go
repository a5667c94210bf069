package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdvanceStatus indicates the lifecycle state of an advance.
type AdvanceStatus string

const (
	AdvanceDraft  AdvanceStatus = "DRAFT"
	AdvancePosted AdvanceStatus = "POSTED"
)

// Advance is money given to or taken from a party ahead of settlement
// (e.g. a cash advance to a worker, or a buyer's deposit).
type Advance struct {
	AdvanceID      string           `json:"advanceID"` // Primary Key (UUID)
	TenantID       string           `json:"tenantID"`
	PartyID        string           `json:"partyID"`
	Direction      PaymentDirection `json:"direction"`
	Amount         decimal.Decimal  `json:"amount"`
	AdvanceDate    time.Time        `json:"advanceDate"`
	Purpose        string           `json:"purpose"`
	Status         AdvanceStatus    `json:"status"`
	PostingGroupID *string          `json:"postingGroupID,omitempty"`
	IdempotencyKey string           `json:"idempotencyKey"`
	AuditFields
}
