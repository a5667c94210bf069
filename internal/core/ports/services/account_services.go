package services

import (
	"context"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/SahayFarms/farm_books_app/internal/dto"
)

// AccountReaderSvc defines read operations for accounts.
type AccountReaderSvc interface {
	GetAccountByID(ctx context.Context, session domain.Session, tenantID, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, session domain.Session, tenantID string) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for accounts.
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, session domain.Session, tenantID string, req dto.CreateAccountRequest) (*domain.Account, error)
	UpdateAccount(ctx context.Context, session domain.Session, tenantID, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
