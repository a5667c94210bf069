package repositories

import (
	"context"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
)

// DailyBookReader defines read operations for daily book entries.
type DailyBookReader interface {
	FindDailyBookEntryByID(ctx context.Context, tenantID, entryID string) (*domain.DailyBookEntry, error)
	FindDailyBookEntryByIdempotencyKey(ctx context.Context, tenantID, key string) (*domain.DailyBookEntry, error)
	ListDailyBookEntries(ctx context.Context, tenantID string, cropCycleID *string, limit int, nextToken *string) ([]domain.DailyBookEntry, *string, error)
}

// DailyBookWriter defines write operations for daily book entries.
type DailyBookWriter interface {
	SaveDailyBookEntry(ctx context.Context, entry domain.DailyBookEntry) error
	MarkDailyBookEntryPosted(ctx context.Context, tenantID, entryID, postingGroupID, updatedBy string) error
}

// DailyBookRepositoryFacade combines daily book repository interfaces.
type DailyBookRepositoryFacade interface {
	DailyBookReader
	DailyBookWriter
}
