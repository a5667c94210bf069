package services

import (
	"context"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/SahayFarms/farm_books_app/internal/dto"
)

// PostingReaderSvc defines read operations for posting groups and entries.
type PostingReaderSvc interface {
	GetPostingGroupByID(ctx context.Context, session domain.Session, tenantID, postingGroupID string) (*domain.PostingGroup, error)
	ListPostingGroups(ctx context.Context, session domain.Session, tenantID string, params dto.ListPostingGroupsParams) (*dto.ListPostingGroupsResponse, error)
	ListEntriesByAccount(ctx context.Context, session domain.Session, tenantID, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// PostingWriterSvc defines write operations for posting groups.
type PostingWriterSvc interface {
	// CreateManualPosting posts a balanced manual posting group.
	CreateManualPosting(ctx context.Context, session domain.Session, tenantID string, req dto.CreateManualPostingRequest) (*domain.PostingGroup, error)

	// ReversePostingGroup posts a mirror-image group and marks the original
	// REVERSED. Reversing a reversal or an already-reversed group is rejected.
	ReversePostingGroup(ctx context.Context, session domain.Session, tenantID, postingGroupID string) (*domain.PostingGroup, error)
}

// PostingSvcFacade combines all posting-related service interfaces.
type PostingSvcFacade interface {
	PostingReaderSvc
	PostingWriterSvc
}
