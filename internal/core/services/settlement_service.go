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

var (
	ErrNoShareParties     = errors.New("crop cycle has no share-based land allocations")
	ErrSettlementTotalPos = errors.New("settlement total must be positive")
)

// settlementService distributes crop cycle proceeds among share parties.
type settlementService struct {
	BaseService
	settlementRepo portsrepo.SettlementRepositoryFacade
	cycleRepo      portsrepo.CropCycleRepositoryFacade
	accountRepo    portsrepo.AccountRepositoryFacade
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(settlementRepo portsrepo.SettlementRepositoryFacade, cycleRepo portsrepo.CropCycleRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.SettlementSvcFacade {
	return &settlementService{
		settlementRepo: settlementRepo,
		cycleRepo:      cycleRepo,
		accountRepo:    accountRepo,
	}
}

var _ portssvc.SettlementSvcFacade = (*settlementService)(nil)

// GetSettlementByID retrieves a settlement.
func (s *settlementService) GetSettlementByID(ctx context.Context, session domain.Session, tenantID, settlementID string) (*domain.Settlement, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionSettlementRead); err != nil {
		return nil, err
	}
	settlement, err := s.settlementRepo.FindSettlementByID(ctx, tenantID, settlementID)
	if err != nil {
		return nil, fmt.Errorf("failed to find settlement %s: %w", settlementID, err)
	}
	return settlement, nil
}

// ListSettlements lists settlements, optionally for one crop cycle.
func (s *settlementService) ListSettlements(ctx context.Context, session domain.Session, tenantID string, cropCycleID *string) ([]domain.Settlement, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionSettlementRead); err != nil {
		return nil, err
	}
	settlements, err := s.settlementRepo.ListSettlements(ctx, tenantID, cropCycleID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list settlements", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	return settlements, nil
}

// distributeShares splits total among share-based allocations by SharePercent,
// rounding each line to 2 places. The leftover cents go to the largest share
// so the lines always sum to the total exactly.
func distributeShares(total decimal.Decimal, allocs []domain.LandAllocation) []domain.SettlementLine {
	var lines []domain.SettlementLine
	for _, a := range allocs {
		if a.SharePercent == nil {
			continue
		}
		lines = append(lines, domain.SettlementLine{
			PartyID:      a.PartyID,
			SharePercent: *a.SharePercent,
			Amount:       total.Mul(*a.SharePercent).Div(hundred).Round(2),
		})
	}
	if len(lines) == 0 {
		return nil
	}

	sum := decimal.Zero
	largest := 0
	for i, l := range lines {
		sum = sum.Add(l.Amount)
		if l.SharePercent.GreaterThan(lines[largest].SharePercent) {
			largest = i
		}
	}
	remainder := total.Sub(sum)
	if !remainder.IsZero() {
		lines[largest].Amount = lines[largest].Amount.Add(remainder)
	}
	return lines
}

// CreateSettlement computes each share party's cut of the total and posts the
// distribution as one posting group. Idempotent on the request key.
func (s *settlementService) CreateSettlement(ctx context.Context, session domain.Session, tenantID string, req dto.CreateSettlementRequest) (*domain.Settlement, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionSettlementPost); err != nil {
		return nil, err
	}

	if existing, err := s.settlementRepo.FindSettlementByIdempotencyKey(ctx, tenantID, req.IdempotencyKey); err == nil {
		s.LogInfo(ctx, "Settlement replayed by idempotency key", slog.String("settlement_id", existing.SettlementID))
		return existing, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check idempotency key: %w", err)
	}

	if !req.TotalAmount.IsPositive() {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrSettlementTotalPos)
	}

	cycle, err := s.cycleRepo.FindCropCycleByID(ctx, tenantID, req.CropCycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find crop cycle %s: %w", req.CropCycleID, err)
	}

	allocs, err := s.cycleRepo.ListLandAllocationsByCropCycle(ctx, tenantID, req.CropCycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list land allocations: %w", err)
	}
	lines := distributeShares(req.TotalAmount, allocs)
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrNoShareParties)
	}

	sharesExpense, err := s.accountRepo.FindAccountByCode(ctx, tenantID, codeSettlementShares)
	if err != nil {
		return nil, fmt.Errorf("failed to find settlement shares account: %w", err)
	}
	payable, err := s.accountRepo.FindAccountByCode(ctx, tenantID, codeAccountsPayable)
	if err != nil {
		return nil, fmt.Errorf("failed to find accounts payable account: %w", err)
	}

	now := time.Now().UTC()
	settlementID := uuid.NewString()
	groupID := uuid.NewString()
	description := fmt.Sprintf("Settlement for cycle %s", cycle.Name)
	postingDate := now

	entries := []domain.LedgerEntry{
		newLedgerEntry(tenantID, groupID, sharesExpense.AccountID, req.TotalAmount, decimal.Zero, postingDate, description, session.UserID, now),
		newLedgerEntry(tenantID, groupID, payable.AccountID, decimal.Zero, req.TotalAmount, postingDate, description, session.UserID, now),
	}

	accounts := map[string]domain.Account{
		sharesExpense.AccountID: *sharesExpense,
		payable.AccountID:       *payable,
	}
	balanceChanges, err := computeBalanceChanges(entries, accounts)
	if err != nil {
		return nil, err
	}

	group := domain.PostingGroup{
		PostingGroupID: groupID,
		TenantID:       tenantID,
		SourceType:     domain.SourceSettlement,
		SourceID:       settlementID,
		PostingDate:    postingDate,
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

	settlement := domain.Settlement{
		SettlementID:   settlementID,
		TenantID:       tenantID,
		CropCycleID:    req.CropCycleID,
		TotalAmount:    req.TotalAmount,
		Lines:          lines,
		Status:         domain.SettlementPosted,
		PostingGroupID: &groupID,
		IdempotencyKey: req.IdempotencyKey,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     session.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: session.UserID,
		},
	}

	// One transaction: a failure here leaves neither the posting nor the
	// settlement behind, so the idempotency key stays replayable.
	if err := s.settlementRepo.SaveSettlement(ctx, settlement, group, entries, balanceChanges); err != nil {
		s.LogError(ctx, err, "Failed to save settlement", slog.String("settlement_id", settlementID))
		return nil, fmt.Errorf("failed to save settlement: %w", err)
	}

	s.LogInfo(ctx, "Settlement posted",
		slog.String("settlement_id", settlementID),
		slog.String("posting_group_id", groupID),
		slog.Int("lines", len(lines)))
	return &settlement, nil
}
