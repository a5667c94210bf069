package dto

import (
	"time"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateSaleRequest defines the data needed to create a sale draft.
type CreateSaleRequest struct {
	CropCycleID  string          `json:"cropCycleID" binding:"required"`
	BuyerPartyID string          `json:"buyerPartyID" binding:"required"`
	PostingDate  time.Time       `json:"postingDate" binding:"required"`
	DueDate      time.Time       `json:"dueDate" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required,gt=0"`
	UnitPrice    decimal.Decimal `json:"unitPrice" binding:"required,gt=0"`
}

// UpdateSaleRequest defines the fields editable while a sale is still DRAFT.
type UpdateSaleRequest struct {
	BuyerPartyID *string          `json:"buyerPartyID"`
	PostingDate  *time.Time       `json:"postingDate"`
	DueDate      *time.Time       `json:"dueDate"`
	Quantity     *decimal.Decimal `json:"quantity"`
	UnitPrice    *decimal.Decimal `json:"unitPrice"`
}

// PostSaleRequest posts a draft sale to the ledger.
type PostSaleRequest struct {
	IdempotencyKey string `json:"idempotencyKey" binding:"required"`
}

// SaleResponse defines the data returned for a sale.
type SaleResponse struct {
	SaleID         string            `json:"saleID"`
	SaleNo         string            `json:"saleNo"`
	CropCycleID    string            `json:"cropCycleID"`
	BuyerPartyID   string            `json:"buyerPartyID"`
	PostingDate    time.Time         `json:"postingDate"`
	DueDate        time.Time         `json:"dueDate"`
	Quantity       decimal.Decimal   `json:"quantity"`
	UnitPrice      decimal.Decimal   `json:"unitPrice"`
	Total          decimal.Decimal   `json:"total"`
	Received       decimal.Decimal   `json:"received"`
	Outstanding    decimal.Decimal   `json:"outstanding"`
	Status         domain.SaleStatus `json:"status"`
	PostingGroupID *string           `json:"postingGroupID,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// ToSaleResponse converts a domain.Sale to SaleResponse DTO.
func ToSaleResponse(s *domain.Sale) SaleResponse {
	return SaleResponse{
		SaleID:         s.SaleID,
		SaleNo:         s.SaleNo,
		CropCycleID:    s.CropCycleID,
		BuyerPartyID:   s.BuyerPartyID,
		PostingDate:    s.PostingDate,
		DueDate:        s.DueDate,
		Quantity:       s.Quantity,
		UnitPrice:      s.UnitPrice,
		Total:          s.Total,
		Received:       s.Received,
		Outstanding:    s.Outstanding(),
		Status:         s.Status,
		PostingGroupID: s.PostingGroupID,
		CreatedAt:      s.CreatedAt,
	}
}

// ListSalesParams defines query parameters for listing sales.
type ListSalesParams struct {
	CropCycleID  *string `form:"cropCycleID"`
	BuyerPartyID *string `form:"buyerPartyID"`
	Limit        int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken    *string `form:"nextToken"`
}

// ListSalesResponse wraps a paginated list of sales.
type ListSalesResponse struct {
	Sales     []SaleResponse `json:"sales"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// ToListSalesResponse converts a slice of domain.Sale plus token to DTO.
func ToListSalesResponse(ss []domain.Sale, nextToken *string) ListSalesResponse {
	list := make([]SaleResponse, len(ss))
	for i, s := range ss {
		list[i] = ToSaleResponse(&s)
	}
	return ListSalesResponse{Sales: list, NextToken: nextToken}
}
