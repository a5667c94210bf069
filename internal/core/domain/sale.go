package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus indicates the lifecycle state of a sale document.
type SaleStatus string

const (
	SaleDraft   SaleStatus = "DRAFT"
	SalePosted  SaleStatus = "POSTED"
	SaleSettled SaleStatus = "SETTLED"
)

// Sale represents a produce sale to a buyer party. Once posted it generates a
// posting group (receivable debit / revenue credit) and becomes a receivable
// that payments are allocated against.
type Sale struct {
	SaleID         string          `json:"saleID"` // Primary Key (UUID)
	TenantID       string          `json:"tenantID"`
	SaleNo         string          `json:"saleNo"` // Human-facing sequential number
	CropCycleID    string          `json:"cropCycleID"`
	BuyerPartyID   string          `json:"buyerPartyID"`
	PostingDate    time.Time       `json:"postingDate"`
	DueDate        time.Time       `json:"dueDate"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	Total          decimal.Decimal `json:"total"`
	Received       decimal.Decimal `json:"received"` // Monotonically non-decreasing
	Status         SaleStatus      `json:"status"`
	PostingGroupID *string         `json:"postingGroupID,omitempty"`
	AuditFields
}

// Outstanding returns the unpaid portion of the sale.
func (s Sale) Outstanding() decimal.Decimal {
	return s.Total.Sub(s.Received)
}
