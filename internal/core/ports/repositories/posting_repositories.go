package repositories

import (
	"context"
	"time"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostingReader defines read operations for posting groups and ledger entries.
type PostingReader interface {
	FindPostingGroupByID(ctx context.Context, tenantID, postingGroupID string) (*domain.PostingGroup, error)
	FindPostingGroupByIdempotencyKey(ctx context.Context, tenantID, key string) (*domain.PostingGroup, error)
	FindEntriesByPostingGroupID(ctx context.Context, postingGroupID string) ([]domain.LedgerEntry, error)
	ListPostingGroups(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.PostingGroup, *string, error)
	ListEntriesByAccount(ctx context.Context, tenantID, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
	FindEntryByID(ctx context.Context, tenantID, ledgerEntryID string) (*domain.LedgerEntry, error)
	// ListEntriesForBankAccount returns all entries on a reconcilable bank
	// account dated on or before the statement date.
	ListEntriesForBankAccount(ctx context.Context, tenantID, accountID string, until time.Time) ([]domain.LedgerEntry, error)
}

// PostingWriter defines write operations for posting groups.
type PostingWriter interface {
	// SavePostingGroup atomically persists a posting group with its entries and
	// applies account balance deltas within one database transaction.
	SavePostingGroup(ctx context.Context, group domain.PostingGroup, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal) error

	// UpdatePostingStatusAndLinks marks a group reversed and links it to the
	// reversing group.
	UpdatePostingStatusAndLinks(ctx context.Context, postingGroupID string, status domain.PostingGroupStatus, reversedByID *string, updatedBy string, updatedAt time.Time) error

	// SetEntryCleared toggles the bank-reconciliation cleared flag on an entry.
	SetEntryCleared(ctx context.Context, tenantID, ledgerEntryID string, cleared bool, updatedBy string, updatedAt time.Time) error
}

// PostingRepositoryFacade combines posting repository interfaces.
type PostingRepositoryFacade interface {
	PostingReader
	PostingWriter
}
