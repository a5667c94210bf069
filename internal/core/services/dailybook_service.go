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

var ErrDailyBookAccountType = errors.New("account type does not match the entry type")

// dailyBookService records free-form expense/income lines and posts them.
type dailyBookService struct {
	BaseService
	dailyBookRepo portsrepo.DailyBookRepositoryFacade
	postingRepo   portsrepo.PostingRepositoryFacade
	accountRepo   portsrepo.AccountRepositoryFacade
	cycleRepo     portsrepo.CropCycleRepositoryFacade
}

// NewDailyBookService creates a new DailyBookService.
func NewDailyBookService(dailyBookRepo portsrepo.DailyBookRepositoryFacade, postingRepo portsrepo.PostingRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, cycleRepo portsrepo.CropCycleRepositoryFacade) portssvc.DailyBookSvcFacade {
	return &dailyBookService{
		dailyBookRepo: dailyBookRepo,
		postingRepo:   postingRepo,
		accountRepo:   accountRepo,
		cycleRepo:     cycleRepo,
	}
}

var _ portssvc.DailyBookSvcFacade = (*dailyBookService)(nil)

// GetDailyBookEntryByID retrieves a daily book entry.
func (s *dailyBookService) GetDailyBookEntryByID(ctx context.Context, session domain.Session, tenantID, entryID string) (*domain.DailyBookEntry, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionDailyBookRead); err != nil {
		return nil, err
	}
	entry, err := s.dailyBookRepo.FindDailyBookEntryByID(ctx, tenantID, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find daily book entry %s: %w", entryID, err)
	}
	return entry, nil
}

// ListDailyBookEntries retrieves a paginated list of daily book entries.
func (s *dailyBookService) ListDailyBookEntries(ctx context.Context, session domain.Session, tenantID string, params dto.ListDailyBookParams) (*dto.ListDailyBookResponse, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionDailyBookRead); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.dailyBookRepo.ListDailyBookEntries(ctx, tenantID, params.CropCycleID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list daily book entries", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list daily book entries: %w", err)
	}

	resp := dto.ToListDailyBookResponse(entries, nextToken)
	return &resp, nil
}

// CreateDailyBookEntry records and posts a daily book line atomically.
// EXPENSE: debit the chosen expense account, credit cash.
// INCOME: debit cash, credit the chosen income account.
func (s *dailyBookService) CreateDailyBookEntry(ctx context.Context, session domain.Session, tenantID string, req dto.CreateDailyBookEntryRequest) (*domain.DailyBookEntry, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionDailyBookPost); err != nil {
		return nil, err
	}

	if existing, err := s.dailyBookRepo.FindDailyBookEntryByIdempotencyKey(ctx, tenantID, req.IdempotencyKey); err == nil {
		s.LogInfo(ctx, "Daily book entry replayed by idempotency key", slog.String("entry_id", existing.EntryID))
		return existing, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check idempotency key: %w", err)
	}

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	if req.CropCycleID != nil {
		cycle, err := s.cycleRepo.FindCropCycleByID(ctx, tenantID, *req.CropCycleID)
		if err != nil {
			return nil, fmt.Errorf("failed to find crop cycle %s: %w", *req.CropCycleID, err)
		}
		if cycle.Status != domain.CropCycleOpen {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrCycleAlreadyClosed)
		}
	}

	account, err := s.accountRepo.FindAccountByID(ctx, tenantID, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", req.AccountID, err)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, req.AccountID)
	}
	if req.EntryType == domain.EntryExpense && account.Type != domain.Expense {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrDailyBookAccountType)
	}
	if req.EntryType == domain.EntryIncome && account.Type != domain.Revenue {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrDailyBookAccountType)
	}

	cash, err := s.accountRepo.FindAccountByCode(ctx, tenantID, codeCash)
	if err != nil {
		return nil, fmt.Errorf("failed to find cash account: %w", err)
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	groupID := uuid.NewString()

	var entries []domain.LedgerEntry
	if req.EntryType == domain.EntryExpense {
		entries = []domain.LedgerEntry{
			newLedgerEntry(tenantID, groupID, account.AccountID, req.Amount, decimal.Zero, req.EntryDate, req.Description, session.UserID, now),
			newLedgerEntry(tenantID, groupID, cash.AccountID, decimal.Zero, req.Amount, req.EntryDate, req.Description, session.UserID, now),
		}
	} else {
		entries = []domain.LedgerEntry{
			newLedgerEntry(tenantID, groupID, cash.AccountID, req.Amount, decimal.Zero, req.EntryDate, req.Description, session.UserID, now),
			newLedgerEntry(tenantID, groupID, account.AccountID, decimal.Zero, req.Amount, req.EntryDate, req.Description, session.UserID, now),
		}
	}

	accounts := map[string]domain.Account{
		account.AccountID: *account,
		cash.AccountID:    *cash,
	}
	balanceChanges, err := computeBalanceChanges(entries, accounts)
	if err != nil {
		return nil, err
	}

	group := domain.PostingGroup{
		PostingGroupID: groupID,
		TenantID:       tenantID,
		SourceType:     domain.SourceDailyBook,
		SourceID:       entryID,
		PostingDate:    req.EntryDate,
		Description:    req.Description,
		Status:         domain.Posted,
		IdempotencyKey: req.IdempotencyKey,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     session.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: session.UserID,
		},
	}

	if err := s.postingRepo.SavePostingGroup(ctx, group, entries, balanceChanges); err != nil {
		s.LogError(ctx, err, "Failed to save daily book posting", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to save daily book posting: %w", err)
	}

	entry := domain.DailyBookEntry{
		EntryID:        entryID,
		TenantID:       tenantID,
		CropCycleID:    req.CropCycleID,
		EntryDate:      req.EntryDate,
		Description:    req.Description,
		Amount:         req.Amount,
		EntryType:      req.EntryType,
		AccountID:      req.AccountID,
		PostingGroupID: &groupID,
		IdempotencyKey: req.IdempotencyKey,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     session.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: session.UserID,
		},
	}

	if err := s.dailyBookRepo.SaveDailyBookEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to save daily book entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to save daily book entry: %w", err)
	}

	s.LogInfo(ctx, "Daily book entry posted", slog.String("entry_id", entryID), slog.String("posting_group_id", groupID))
	return &entry, nil
}
