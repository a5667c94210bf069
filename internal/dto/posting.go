package dto

import (
	"time"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ManualEntryLine is one debit or credit line of a manual posting request.
// Exactly one of debitAmount/creditAmount must be positive.
type ManualEntryLine struct {
	AccountID    string          `json:"accountID" binding:"required"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description"`
}

// CreateManualPostingRequest posts a balanced manual posting group.
type CreateManualPostingRequest struct {
	PostingDate    time.Time         `json:"postingDate" binding:"required"`
	Description    string            `json:"description" binding:"required"`
	Entries        []ManualEntryLine `json:"entries" binding:"required,min=2,dive"`
	IdempotencyKey string            `json:"idempotencyKey" binding:"required"`
}

// LedgerEntryResponse defines the data returned for one ledger entry.
type LedgerEntryResponse struct {
	LedgerEntryID string          `json:"ledgerEntryID"`
	AccountID     string          `json:"accountID"`
	DebitAmount   decimal.Decimal `json:"debitAmount"`
	CreditAmount  decimal.Decimal `json:"creditAmount"`
	PostingDate   time.Time       `json:"postingDate"`
	Description   string          `json:"description,omitempty"`
	IsCleared     bool            `json:"isCleared"`
}

// PostingGroupResponse defines the data returned for a posting group.
type PostingGroupResponse struct {
	PostingGroupID string                    `json:"postingGroupID"`
	SourceType     domain.SourceType         `json:"sourceType"`
	SourceID       string                    `json:"sourceID"`
	PostingDate    time.Time                 `json:"postingDate"`
	Description    string                    `json:"description"`
	Status         domain.PostingGroupStatus `json:"status"`
	ReversalOfID   *string                   `json:"reversalOfID,omitempty"`
	ReversedByID   *string                   `json:"reversedByID,omitempty"`
	Entries        []LedgerEntryResponse     `json:"entries,omitempty"`
	CreatedAt      time.Time                 `json:"createdAt"`
	CreatedBy      string                    `json:"createdBy"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to DTO.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		LedgerEntryID: e.LedgerEntryID,
		AccountID:     e.AccountID,
		DebitAmount:   e.DebitAmount,
		CreditAmount:  e.CreditAmount,
		PostingDate:   e.PostingDate,
		Description:   e.Description,
		IsCleared:     e.IsCleared,
	}
}

// ToLedgerEntryResponses converts a slice of domain.LedgerEntry to DTOs.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	res := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = ToLedgerEntryResponse(&e)
	}
	return res
}

// ToPostingGroupResponse converts a domain.PostingGroup to DTO.
func ToPostingGroupResponse(g *domain.PostingGroup) PostingGroupResponse {
	return PostingGroupResponse{
		PostingGroupID: g.PostingGroupID,
		SourceType:     g.SourceType,
		SourceID:       g.SourceID,
		PostingDate:    g.PostingDate,
		Description:    g.Description,
		Status:         g.Status,
		ReversalOfID:   g.ReversalOfID,
		ReversedByID:   g.ReversedByID,
		Entries:        ToLedgerEntryResponses(g.Entries),
		CreatedAt:      g.CreatedAt,
		CreatedBy:      g.CreatedBy,
	}
}

// ListPostingGroupsParams defines query parameters for listing posting groups.
type ListPostingGroupsParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListPostingGroupsResponse wraps a paginated list of posting groups.
type ListPostingGroupsResponse struct {
	PostingGroups []PostingGroupResponse `json:"postingGroups"`
	NextToken     *string                `json:"nextToken,omitempty"`
}

// ListEntriesParams defines query parameters for listing account entries.
type ListEntriesParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse wraps a paginated list of ledger entries.
type ListEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}
