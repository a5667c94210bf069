package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentDirection indicates money flowing into or out of the tenant's books.
type PaymentDirection string

const (
	DirectionIn  PaymentDirection = "IN"
	DirectionOut PaymentDirection = "OUT"
)

// Payment is a received or issued payment. Inbound payments carry allocation
// lines applying the amount to open sales.
type Payment struct {
	PaymentID      string           `json:"paymentID"` // Primary Key (UUID)
	TenantID       string           `json:"tenantID"`
	PartyID        string           `json:"partyID"`
	Direction      PaymentDirection `json:"direction"`
	Amount         decimal.Decimal  `json:"amount"`
	PaymentDate    time.Time        `json:"paymentDate"`
	Method         string           `json:"method"` // cash, bank_transfer, upi, cheque
	Reference      string           `json:"reference,omitempty"`
	Allocations    []AllocationLine `json:"allocations,omitempty"`
	PostingGroupID *string          `json:"postingGroupID,omitempty"`
	IdempotencyKey string           `json:"idempotencyKey"`
	AuditFields
}

// AllocationLine is one portion of a payment applied to a single sale.
// Invariant: 0 < Amount <= sale outstanding at allocation time.
type AllocationLine struct {
	SaleID string          `json:"saleID"`
	Amount decimal.Decimal `json:"amount"`
}

// OpenReceivable is an immutable snapshot of one unpaid or partially-paid
// sale, as presented to allocation.
type OpenReceivable struct {
	SaleID      string          `json:"saleID"`
	SaleNo      string          `json:"saleNo"`
	PostingDate time.Time       `json:"postingDate"`
	DueDate     time.Time       `json:"dueDate"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// AllocationPreview is the server-computed FIFO suggestion plus the full
// candidate set for manual override.
// Invariant: sum(SuggestedAllocations.Amount) + UnallocatedAmount == payment amount.
type AllocationPreview struct {
	SuggestedAllocations []AllocationLine `json:"suggestedAllocations"`
	OpenSales            []OpenReceivable `json:"openSales"`
	UnallocatedAmount    decimal.Decimal  `json:"unallocatedAmount"`
}
