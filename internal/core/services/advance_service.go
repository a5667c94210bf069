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

// advanceService provides advance recording and posting.
type advanceService struct {
	BaseService
	advanceRepo portsrepo.AdvanceRepositoryFacade
	postingRepo portsrepo.PostingRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	partyRepo   portsrepo.PartyRepositoryFacade
}

// NewAdvanceService creates a new AdvanceService.
func NewAdvanceService(advanceRepo portsrepo.AdvanceRepositoryFacade, postingRepo portsrepo.PostingRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, partyRepo portsrepo.PartyRepositoryFacade) portssvc.AdvanceSvcFacade {
	return &advanceService{
		advanceRepo: advanceRepo,
		postingRepo: postingRepo,
		accountRepo: accountRepo,
		partyRepo:   partyRepo,
	}
}

var _ portssvc.AdvanceSvcFacade = (*advanceService)(nil)

// GetAdvanceByID retrieves an advance.
func (s *advanceService) GetAdvanceByID(ctx context.Context, session domain.Session, tenantID, advanceID string) (*domain.Advance, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionAdvanceRead); err != nil {
		return nil, err
	}
	advance, err := s.advanceRepo.FindAdvanceByID(ctx, tenantID, advanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find advance %s: %w", advanceID, err)
	}
	return advance, nil
}

// ListAdvances retrieves a paginated list of advances.
func (s *advanceService) ListAdvances(ctx context.Context, session domain.Session, tenantID string, params dto.ListAdvancesParams) (*dto.ListAdvancesResponse, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionAdvanceRead); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	advances, nextToken, err := s.advanceRepo.ListAdvances(ctx, tenantID, params.PartyID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list advances", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list advances: %w", err)
	}

	resp := dto.ToListAdvancesResponse(advances, nextToken)
	return &resp, nil
}

// CreateAdvance records and posts an advance atomically.
// OUT (advance given): debit advances-given, credit cash.
// IN (deposit taken): debit cash, credit advances-received.
func (s *advanceService) CreateAdvance(ctx context.Context, session domain.Session, tenantID string, req dto.CreateAdvanceRequest) (*domain.Advance, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionAdvancePost); err != nil {
		return nil, err
	}

	if existing, err := s.advanceRepo.FindAdvanceByIdempotencyKey(ctx, tenantID, req.IdempotencyKey); err == nil {
		s.LogInfo(ctx, "Advance replayed by idempotency key", slog.String("advance_id", existing.AdvanceID))
		return existing, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check idempotency key: %w", err)
	}

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: advance amount must be positive", apperrors.ErrValidation)
	}

	if _, err := s.partyRepo.FindPartyByID(ctx, tenantID, req.PartyID); err != nil {
		return nil, fmt.Errorf("failed to find party %s: %w", req.PartyID, err)
	}

	cash, err := s.accountRepo.FindAccountByCode(ctx, tenantID, codeCash)
	if err != nil {
		return nil, fmt.Errorf("failed to find cash account: %w", err)
	}

	counterCode := codeAdvancesGiven
	if req.Direction == domain.DirectionIn {
		counterCode = codeAdvancesReceived
	}
	counter, err := s.accountRepo.FindAccountByCode(ctx, tenantID, counterCode)
	if err != nil {
		return nil, fmt.Errorf("failed to find advances account: %w", err)
	}

	now := time.Now().UTC()
	advanceID := uuid.NewString()
	groupID := uuid.NewString()
	description := fmt.Sprintf("Advance %s", req.Purpose)

	var entries []domain.LedgerEntry
	if req.Direction == domain.DirectionOut {
		entries = []domain.LedgerEntry{
			newLedgerEntry(tenantID, groupID, counter.AccountID, req.Amount, decimal.Zero, req.AdvanceDate, description, session.UserID, now),
			newLedgerEntry(tenantID, groupID, cash.AccountID, decimal.Zero, req.Amount, req.AdvanceDate, description, session.UserID, now),
		}
	} else {
		entries = []domain.LedgerEntry{
			newLedgerEntry(tenantID, groupID, cash.AccountID, req.Amount, decimal.Zero, req.AdvanceDate, description, session.UserID, now),
			newLedgerEntry(tenantID, groupID, counter.AccountID, decimal.Zero, req.Amount, req.AdvanceDate, description, session.UserID, now),
		}
	}

	accounts := map[string]domain.Account{
		cash.AccountID:    *cash,
		counter.AccountID: *counter,
	}
	balanceChanges, err := computeBalanceChanges(entries, accounts)
	if err != nil {
		return nil, err
	}

	group := domain.PostingGroup{
		PostingGroupID: groupID,
		TenantID:       tenantID,
		SourceType:     domain.SourceAdvance,
		SourceID:       advanceID,
		PostingDate:    req.AdvanceDate,
		Description:    description,
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
		s.LogError(ctx, err, "Failed to save advance posting", slog.String("advance_id", advanceID))
		return nil, fmt.Errorf("failed to save advance posting: %w", err)
	}

	advance := domain.Advance{
		AdvanceID:      advanceID,
		TenantID:       tenantID,
		PartyID:        req.PartyID,
		Direction:      req.Direction,
		Amount:         req.Amount,
		AdvanceDate:    req.AdvanceDate,
		Purpose:        req.Purpose,
		Status:         domain.AdvancePosted,
		PostingGroupID: &groupID,
		IdempotencyKey: req.IdempotencyKey,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     session.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: session.UserID,
		},
	}

	if err := s.advanceRepo.SaveAdvance(ctx, advance); err != nil {
		s.LogError(ctx, err, "Failed to save advance", slog.String("advance_id", advanceID))
		return nil, fmt.Errorf("failed to save advance: %w", err)
	}

	s.LogInfo(ctx, "Advance posted", slog.String("advance_id", advanceID), slog.String("posting_group_id", groupID))
	return &advance, nil
}
