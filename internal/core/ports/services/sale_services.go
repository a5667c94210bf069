package services

import (
	"context"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/SahayFarms/farm_books_app/internal/dto"
)

// SaleReaderSvc defines read operations for sales.
type SaleReaderSvc interface {
	GetSaleByID(ctx context.Context, session domain.Session, tenantID, saleID string) (*domain.Sale, error)
	ListSales(ctx context.Context, session domain.Session, tenantID string, params dto.ListSalesParams) (*dto.ListSalesResponse, error)
}

// SaleWriterSvc defines write operations for sales.
type SaleWriterSvc interface {
	CreateSale(ctx context.Context, session domain.Session, tenantID string, req dto.CreateSaleRequest) (*domain.Sale, error)
	// UpdateSale edits a DRAFT sale. Posted sales are immutable.
	UpdateSale(ctx context.Context, session domain.Session, tenantID, saleID string, req dto.UpdateSaleRequest) (*domain.Sale, error)
	// PostSale posts the draft to the ledger (receivable debit / revenue
	// credit). Idempotent on the request key.
	PostSale(ctx context.Context, session domain.Session, tenantID, saleID string, req dto.PostSaleRequest) (*domain.Sale, error)
}

// SaleSvcFacade combines all sale-related service interfaces.
type SaleSvcFacade interface {
	SaleReaderSvc
	SaleWriterSvc
}
