package services

import (
	"context"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/SahayFarms/farm_books_app/internal/dto"
)

// DailyBookReaderSvc defines read operations for daily book entries.
type DailyBookReaderSvc interface {
	GetDailyBookEntryByID(ctx context.Context, session domain.Session, tenantID, entryID string) (*domain.DailyBookEntry, error)
	ListDailyBookEntries(ctx context.Context, session domain.Session, tenantID string, params dto.ListDailyBookParams) (*dto.ListDailyBookResponse, error)
}

// DailyBookWriterSvc defines write operations for daily book entries.
type DailyBookWriterSvc interface {
	// CreateDailyBookEntry records and posts the line against the chosen
	// account and the tenant's cash account. Idempotent on the request key.
	CreateDailyBookEntry(ctx context.Context, session domain.Session, tenantID string, req dto.CreateDailyBookEntryRequest) (*domain.DailyBookEntry, error)
}

// DailyBookSvcFacade combines all daily-book-related service interfaces.
type DailyBookSvcFacade interface {
	DailyBookReaderSvc
	DailyBookWriterSvc
}
