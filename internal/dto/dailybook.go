package dto

import (
	"time"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateDailyBookEntryRequest records and posts a daily book line in one step.
type CreateDailyBookEntryRequest struct {
	CropCycleID    *string                   `json:"cropCycleID"`
	EntryDate      time.Time                 `json:"entryDate" binding:"required"`
	Description    string                    `json:"description" binding:"required"`
	Amount         decimal.Decimal           `json:"amount" binding:"required,gt=0"`
	EntryType      domain.DailyBookEntryType `json:"entryType" binding:"required,oneof=EXPENSE INCOME"`
	AccountID      string                    `json:"accountID" binding:"required"`
	IdempotencyKey string                    `json:"idempotencyKey" binding:"required"`
}

// DailyBookEntryResponse defines the data returned for a daily book entry.
type DailyBookEntryResponse struct {
	EntryID        string                    `json:"entryID"`
	CropCycleID    *string                   `json:"cropCycleID,omitempty"`
	EntryDate      time.Time                 `json:"entryDate"`
	Description    string                    `json:"description"`
	Amount         decimal.Decimal           `json:"amount"`
	EntryType      domain.DailyBookEntryType `json:"entryType"`
	AccountID      string                    `json:"accountID"`
	PostingGroupID *string                   `json:"postingGroupID,omitempty"`
	CreatedAt      time.Time                 `json:"createdAt"`
}

// ToDailyBookEntryResponse converts a domain.DailyBookEntry to DTO.
func ToDailyBookEntryResponse(e *domain.DailyBookEntry) DailyBookEntryResponse {
	return DailyBookEntryResponse{
		EntryID:        e.EntryID,
		CropCycleID:    e.CropCycleID,
		EntryDate:      e.EntryDate,
		Description:    e.Description,
		Amount:         e.Amount,
		EntryType:      e.EntryType,
		AccountID:      e.AccountID,
		PostingGroupID: e.PostingGroupID,
		CreatedAt:      e.CreatedAt,
	}
}

// ListDailyBookParams defines query parameters for listing daily book entries.
type ListDailyBookParams struct {
	CropCycleID *string `form:"cropCycleID"`
	Limit       int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken   *string `form:"nextToken"`
}

// ListDailyBookResponse wraps a paginated list of daily book entries.
type ListDailyBookResponse struct {
	Entries   []DailyBookEntryResponse `json:"entries"`
	NextToken *string                  `json:"nextToken,omitempty"`
}

// ToListDailyBookResponse converts a slice of domain.DailyBookEntry plus token to DTO.
func ToListDailyBookResponse(es []domain.DailyBookEntry, nextToken *string) ListDailyBookResponse {
	list := make([]DailyBookEntryResponse, len(es))
	for i, e := range es {
		list[i] = ToDailyBookEntryResponse(&e)
	}
	return ListDailyBookResponse{Entries: list, NextToken: nextToken}
}
