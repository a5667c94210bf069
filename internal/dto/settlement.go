package dto

import (
	"time"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateSettlementRequest distributes a crop cycle's pooled amount among its
// share parties and posts the result.
type CreateSettlementRequest struct {
	CropCycleID    string          `json:"cropCycleID" binding:"required"`
	TotalAmount    decimal.Decimal `json:"totalAmount" binding:"required,gt=0"`
	IdempotencyKey string          `json:"idempotencyKey" binding:"required"`
}

// SettlementLineResponse is one party's share of a settlement.
type SettlementLineResponse struct {
	PartyID      string          `json:"partyID"`
	SharePercent decimal.Decimal `json:"sharePercent"`
	Amount       decimal.Decimal `json:"amount"`
}

// SettlementResponse defines the data returned for a settlement.
type SettlementResponse struct {
	SettlementID   string                   `json:"settlementID"`
	CropCycleID    string                   `json:"cropCycleID"`
	TotalAmount    decimal.Decimal          `json:"totalAmount"`
	Lines          []SettlementLineResponse `json:"lines"`
	Status         domain.SettlementStatus  `json:"status"`
	PostingGroupID *string                  `json:"postingGroupID,omitempty"`
	CreatedAt      time.Time                `json:"createdAt"`
}

// ToSettlementResponse converts a domain.Settlement to DTO.
func ToSettlementResponse(s *domain.Settlement) SettlementResponse {
	lines := make([]SettlementLineResponse, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = SettlementLineResponse{
			PartyID:      l.PartyID,
			SharePercent: l.SharePercent,
			Amount:       l.Amount,
		}
	}
	return SettlementResponse{
		SettlementID:   s.SettlementID,
		CropCycleID:    s.CropCycleID,
		TotalAmount:    s.TotalAmount,
		Lines:          lines,
		Status:         s.Status,
		PostingGroupID: s.PostingGroupID,
		CreatedAt:      s.CreatedAt,
	}
}

// ListSettlementsResponse wraps a list of settlements.
type ListSettlementsResponse struct {
	Settlements []SettlementResponse `json:"settlements"`
}

// ToListSettlementsResponse converts a slice of domain.Settlement to DTO.
func ToListSettlementsResponse(ss []domain.Settlement) ListSettlementsResponse {
	list := make([]SettlementResponse, len(ss))
	for i, s := range ss {
		list[i] = ToSettlementResponse(&s)
	}
	return ListSettlementsResponse{Settlements: list}
}
