package dto

import (
	"time"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AllocationLineRequest is one manual allocation of payment money to a sale.
type AllocationLineRequest struct {
	SaleID string          `json:"saleID" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

// CreatePaymentRequest records and posts a payment in one step. When
// Allocations is empty for an inbound payment the server applies its
// oldest-first suggestion.
type CreatePaymentRequest struct {
	PartyID        string                  `json:"partyID" binding:"required"`
	Direction      domain.PaymentDirection `json:"direction" binding:"required,oneof=IN OUT"`
	Amount         decimal.Decimal         `json:"amount" binding:"required,gt=0"`
	PaymentDate    time.Time               `json:"paymentDate" binding:"required"`
	Method         string                  `json:"method" binding:"required,oneof=cash bank_transfer upi cheque"`
	Reference      string                  `json:"reference"`
	Allocations    []AllocationLineRequest `json:"allocations" binding:"omitempty,dive"`
	IdempotencyKey string                  `json:"idempotencyKey" binding:"required"`
}

// AllocationPreviewParams defines the request body for the allocation preview.
type AllocationPreviewParams struct {
	PartyID string          `json:"partyID" binding:"required"`
	Amount  decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

// AllocationLineResponse is one allocation of payment money to a sale.
type AllocationLineResponse struct {
	SaleID string          `json:"saleID"`
	Amount decimal.Decimal `json:"amount"`
}

// OpenReceivableResponse is one open sale presented as an allocation target.
type OpenReceivableResponse struct {
	SaleID      string          `json:"saleID"`
	SaleNo      string          `json:"saleNo"`
	PostingDate time.Time       `json:"postingDate"`
	DueDate     time.Time       `json:"dueDate"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// AllocationPreviewResponse is the server's oldest-first suggestion plus the
// full open-sale candidate set for manual override.
type AllocationPreviewResponse struct {
	SuggestedAllocations []AllocationLineResponse `json:"suggestedAllocations"`
	OpenSales            []OpenReceivableResponse `json:"openSales"`
	UnallocatedAmount    decimal.Decimal          `json:"unallocatedAmount"`
}

// ToAllocationPreviewResponse converts a domain.AllocationPreview to DTO.
func ToAllocationPreviewResponse(p *domain.AllocationPreview) AllocationPreviewResponse {
	suggested := make([]AllocationLineResponse, len(p.SuggestedAllocations))
	for i, a := range p.SuggestedAllocations {
		suggested[i] = AllocationLineResponse{SaleID: a.SaleID, Amount: a.Amount}
	}
	open := make([]OpenReceivableResponse, len(p.OpenSales))
	for i, r := range p.OpenSales {
		open[i] = OpenReceivableResponse{
			SaleID:      r.SaleID,
			SaleNo:      r.SaleNo,
			PostingDate: r.PostingDate,
			DueDate:     r.DueDate,
			Outstanding: r.Outstanding,
		}
	}
	return AllocationPreviewResponse{
		SuggestedAllocations: suggested,
		OpenSales:            open,
		UnallocatedAmount:    p.UnallocatedAmount,
	}
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID      string                   `json:"paymentID"`
	PartyID        string                   `json:"partyID"`
	Direction      domain.PaymentDirection  `json:"direction"`
	Amount         decimal.Decimal          `json:"amount"`
	PaymentDate    time.Time                `json:"paymentDate"`
	Method         string                   `json:"method"`
	Reference      string                   `json:"reference,omitempty"`
	Allocations    []AllocationLineResponse `json:"allocations,omitempty"`
	PostingGroupID *string                  `json:"postingGroupID,omitempty"`
	CreatedAt      time.Time                `json:"createdAt"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	allocs := make([]AllocationLineResponse, len(p.Allocations))
	for i, a := range p.Allocations {
		allocs[i] = AllocationLineResponse{SaleID: a.SaleID, Amount: a.Amount}
	}
	return PaymentResponse{
		PaymentID:      p.PaymentID,
		PartyID:        p.PartyID,
		Direction:      p.Direction,
		Amount:         p.Amount,
		PaymentDate:    p.PaymentDate,
		Method:         p.Method,
		Reference:      p.Reference,
		Allocations:    allocs,
		PostingGroupID: p.PostingGroupID,
		CreatedAt:      p.CreatedAt,
	}
}

// ListPaymentsParams defines query parameters for listing payments.
type ListPaymentsParams struct {
	PartyID   *string `form:"partyID"`
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListPaymentsResponse wraps a paginated list of payments.
type ListPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToListPaymentsResponse converts a slice of domain.Payment plus token to DTO.
func ToListPaymentsResponse(ps []domain.Payment, nextToken *string) ListPaymentsResponse {
	list := make([]PaymentResponse, len(ps))
	for i, p := range ps {
		list[i] = ToPaymentResponse(&p)
	}
	return ListPaymentsResponse{Payments: list, NextToken: nextToken}
}
