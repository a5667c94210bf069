package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SahayFarms/farm_books_app/internal/apperrors"
	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	portsrepo "github.com/SahayFarms/farm_books_app/internal/core/ports/repositories"
	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
	"github.com/SahayFarms/farm_books_app/internal/dto"
)

// accountService provides chart of accounts operations.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// GetAccountByID retrieves an account.
func (s *accountService) GetAccountByID(ctx context.Context, session domain.Session, tenantID, accountID string) (*domain.Account, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionAccountRead); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return account, nil
}

// ListAccounts retrieves the tenant's chart of accounts.
func (s *accountService) ListAccounts(ctx context.Context, session domain.Session, tenantID string) ([]domain.Account, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionAccountRead); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// CreateAccount adds an account to the chart. Codes are unique per tenant.
func (s *accountService) CreateAccount(ctx context.Context, session domain.Session, tenantID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionAccountWrite); err != nil {
		return nil, err
	}

	existing, err := s.accountRepo.FindAccountByCode(ctx, tenantID, req.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check account code: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: account code %s already in use", apperrors.ErrDuplicate, req.Code)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID: uuid.NewString(),
		TenantID:  tenantID,
		Code:      req.Code,
		Name:      req.Name,
		Type:      req.Type,
		PartyID:   req.PartyID,
		IsBank:    req.IsBank,
		IsActive:  true,
		Balance:   decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     session.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: session.UserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// UpdateAccount updates account display fields. Type and code are immutable.
func (s *accountService) UpdateAccount(ctx context.Context, session domain.Session, tenantID, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionAccountWrite); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.IsActive != nil {
		if !*req.IsActive && !account.Balance.IsZero() {
			return nil, fmt.Errorf("%w: cannot deactivate an account with a non-zero balance", apperrors.ErrConflict)
		}
		account.IsActive = *req.IsActive
	}
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = session.UserID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}
