package repositories

import (
	"context"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
)

// SaleReader defines read operations for sale documents.
type SaleReader interface {
	FindSaleByID(ctx context.Context, tenantID, saleID string) (*domain.Sale, error)
	ListSales(ctx context.Context, tenantID string, cropCycleID, buyerPartyID *string, limit int, nextToken *string) ([]domain.Sale, *string, error)
	// ListOpenReceivables returns posted sales for the party with positive
	// outstanding, ordered oldest-first (posting date, then sale number).
	ListOpenReceivables(ctx context.Context, tenantID, buyerPartyID string) ([]domain.OpenReceivable, error)
	NextSaleNo(ctx context.Context, tenantID string) (string, error)
}

// SaleWriter defines write operations for sale documents.
type SaleWriter interface {
	SaveSale(ctx context.Context, sale domain.Sale) error
	UpdateSale(ctx context.Context, sale domain.Sale) error
	MarkSalePosted(ctx context.Context, tenantID, saleID, postingGroupID, updatedBy string) error
}

// SaleRepositoryFacade combines sale repository interfaces.
type SaleRepositoryFacade interface {
	SaleReader
	SaleWriter
}
