package dto

import (
	"time"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAdvanceRequest records and posts an advance in one step.
type CreateAdvanceRequest struct {
	PartyID        string                  `json:"partyID" binding:"required"`
	Direction      domain.PaymentDirection `json:"direction" binding:"required,oneof=IN OUT"`
	Amount         decimal.Decimal         `json:"amount" binding:"required,gt=0"`
	AdvanceDate    time.Time               `json:"advanceDate" binding:"required"`
	Purpose        string                  `json:"purpose"`
	IdempotencyKey string                  `json:"idempotencyKey" binding:"required"`
}

// AdvanceResponse defines the data returned for an advance.
type AdvanceResponse struct {
	AdvanceID      string                  `json:"advanceID"`
	PartyID        string                  `json:"partyID"`
	Direction      domain.PaymentDirection `json:"direction"`
	Amount         decimal.Decimal         `json:"amount"`
	AdvanceDate    time.Time               `json:"advanceDate"`
	Purpose        string                  `json:"purpose,omitempty"`
	Status         domain.AdvanceStatus    `json:"status"`
	PostingGroupID *string                 `json:"postingGroupID,omitempty"`
	CreatedAt      time.Time               `json:"createdAt"`
}

// ToAdvanceResponse converts a domain.Advance to AdvanceResponse DTO.
func ToAdvanceResponse(a *domain.Advance) AdvanceResponse {
	return AdvanceResponse{
		AdvanceID:      a.AdvanceID,
		PartyID:        a.PartyID,
		Direction:      a.Direction,
		Amount:         a.Amount,
		AdvanceDate:    a.AdvanceDate,
		Purpose:        a.Purpose,
		Status:         a.Status,
		PostingGroupID: a.PostingGroupID,
		CreatedAt:      a.CreatedAt,
	}
}

// ListAdvancesParams defines query parameters for listing advances.
type ListAdvancesParams struct {
	PartyID   *string `form:"partyID"`
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListAdvancesResponse wraps a paginated list of advances.
type ListAdvancesResponse struct {
	Advances  []AdvanceResponse `json:"advances"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToListAdvancesResponse converts a slice of domain.Advance plus token to DTO.
func ToListAdvancesResponse(as []domain.Advance, nextToken *string) ListAdvancesResponse {
	list := make([]AdvanceResponse, len(as))
	for i, a := range as {
		list[i] = ToAdvanceResponse(&a)
	}
	return ListAdvancesResponse{Advances: list, NextToken: nextToken}
}
