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
	ErrSaleNotDraft       = errors.New("sale is not in DRAFT status")
	ErrSaleAlreadyPosted  = errors.New("sale is already posted")
	ErrCropCycleNotOpen   = errors.New("crop cycle is not open")
	ErrBuyerRoleRequired  = errors.New("party does not have the BUYER role")
	ErrNonPositiveAmounts = errors.New("quantity and unit price must be positive")
)

// saleService provides sale document operations.
type saleService struct {
	BaseService
	saleRepo    portsrepo.SaleRepositoryFacade
	postingRepo portsrepo.PostingRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	partyRepo   portsrepo.PartyRepositoryFacade
	cycleRepo   portsrepo.CropCycleRepositoryFacade
}

// NewSaleService creates a new SaleService.
func NewSaleService(saleRepo portsrepo.SaleRepositoryFacade, postingRepo portsrepo.PostingRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, partyRepo portsrepo.PartyRepositoryFacade, cycleRepo portsrepo.CropCycleRepositoryFacade) portssvc.SaleSvcFacade {
	return &saleService{
		saleRepo:    saleRepo,
		postingRepo: postingRepo,
		accountRepo: accountRepo,
		partyRepo:   partyRepo,
		cycleRepo:   cycleRepo,
	}
}

var _ portssvc.SaleSvcFacade = (*saleService)(nil)

// GetSaleByID retrieves a sale.
func (s *saleService) GetSaleByID(ctx context.Context, session domain.Session, tenantID, saleID string) (*domain.Sale, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionSaleRead); err != nil {
		return nil, err
	}
	sale, err := s.saleRepo.FindSaleByID(ctx, tenantID, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find sale %s: %w", saleID, err)
	}
	return sale, nil
}

// ListSales retrieves a paginated list of sales.
func (s *saleService) ListSales(ctx context.Context, session domain.Session, tenantID string, params dto.ListSalesParams) (*dto.ListSalesResponse, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionSaleRead); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	sales, nextToken, err := s.saleRepo.ListSales(ctx, tenantID, params.CropCycleID, params.BuyerPartyID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list sales", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	resp := dto.ToListSalesResponse(sales, nextToken)
	return &resp, nil
}

// validateSaleRefs checks the crop cycle is open and the buyer carries the
// BUYER role.
func (s *saleService) validateSaleRefs(ctx context.Context, tenantID, cropCycleID, buyerPartyID string) error {
	cycle, err := s.cycleRepo.FindCropCycleByID(ctx, tenantID, cropCycleID)
	if err != nil {
		return fmt.Errorf("failed to find crop cycle %s: %w", cropCycleID, err)
	}
	if cycle.Status != domain.CropCycleOpen {
		return fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrCropCycleNotOpen)
	}

	buyer, err := s.partyRepo.FindPartyByID(ctx, tenantID, buyerPartyID)
	if err != nil {
		return fmt.Errorf("failed to find buyer party %s: %w", buyerPartyID, err)
	}
	if !buyer.HasRole(domain.PartyBuyer) {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrBuyerRoleRequired)
	}
	return nil
}

// CreateSale creates a sale draft with a sequential sale number.
func (s *saleService) CreateSale(ctx context.Context, session domain.Session, tenantID string, req dto.CreateSaleRequest) (*domain.Sale, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionSaleWrite); err != nil {
		return nil, err
	}

	if !req.Quantity.IsPositive() || !req.UnitPrice.IsPositive() {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrNonPositiveAmounts)
	}

	if err := s.validateSaleRefs(ctx, tenantID, req.CropCycleID, req.BuyerPartyID); err != nil {
		return nil, err
	}

	saleNo, err := s.saleRepo.NextSaleNo(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to allocate sale number")
		return nil, fmt.Errorf("failed to allocate sale number: %w", err)
	}

	now := time.Now().UTC()
	sale := domain.Sale{
		SaleID:       uuid.NewString(),
		TenantID:     tenantID,
		SaleNo:       saleNo,
		CropCycleID:  req.CropCycleID,
		BuyerPartyID: req.BuyerPartyID,
		PostingDate:  req.PostingDate,
		DueDate:      req.DueDate,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		Total:        req.Quantity.Mul(req.UnitPrice).Round(2),
		Received:     decimal.Zero,
		Status:       domain.SaleDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     session.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: session.UserID,
		},
	}

	if err := s.saleRepo.SaveSale(ctx, sale); err != nil {
		s.LogError(ctx, err, "Failed to save sale", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}

	s.LogInfo(ctx, "Sale created", slog.String("sale_id", sale.SaleID), slog.String("sale_no", sale.SaleNo))
	return &sale, nil
}

// UpdateSale edits a DRAFT sale and recomputes the total.
func (s *saleService) UpdateSale(ctx context.Context, session domain.Session, tenantID, saleID string, req dto.UpdateSaleRequest) (*domain.Sale, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionSaleWrite); err != nil {
		return nil, err
	}

	sale, err := s.saleRepo.FindSaleByID(ctx, tenantID, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find sale %s: %w", saleID, err)
	}
	if sale.Status != domain.SaleDraft {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrSaleNotDraft)
	}

	if req.BuyerPartyID != nil {
		sale.BuyerPartyID = *req.BuyerPartyID
	}
	if req.PostingDate != nil {
		sale.PostingDate = *req.PostingDate
	}
	if req.DueDate != nil {
		sale.DueDate = *req.DueDate
	}
	if req.Quantity != nil {
		sale.Quantity = *req.Quantity
	}
	if req.UnitPrice != nil {
		sale.UnitPrice = *req.UnitPrice
	}
	if !sale.Quantity.IsPositive() || !sale.UnitPrice.IsPositive() {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrNonPositiveAmounts)
	}
	sale.Total = sale.Quantity.Mul(sale.UnitPrice).Round(2)

	if err := s.validateSaleRefs(ctx, tenantID, sale.CropCycleID, sale.BuyerPartyID); err != nil {
		return nil, err
	}

	sale.LastUpdatedAt = time.Now().UTC()
	sale.LastUpdatedBy = session.UserID

	if err := s.saleRepo.UpdateSale(ctx, *sale); err != nil {
		s.LogError(ctx, err, "Failed to update sale", slog.String("sale_id", saleID))
		return nil, fmt.Errorf("failed to update sale: %w", err)
	}
	return sale, nil
}

// PostSale posts the draft to the ledger: receivable debit, revenue credit.
// Replays of the same idempotency key return the already-posted sale.
func (s *saleService) PostSale(ctx context.Context, session domain.Session, tenantID, saleID string, req dto.PostSaleRequest) (*domain.Sale, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionSalePost); err != nil {
		return nil, err
	}

	sale, err := s.saleRepo.FindSaleByID(ctx, tenantID, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find sale %s: %w", saleID, err)
	}

	if sale.Status != domain.SaleDraft {
		// A replay of the posting request is fine; any other repost is a
		// conflict.
		if sale.PostingGroupID != nil {
			group, gerr := s.postingRepo.FindPostingGroupByID(ctx, tenantID, *sale.PostingGroupID)
			if gerr == nil && group.IdempotencyKey == req.IdempotencyKey {
				s.LogInfo(ctx, "Sale posting replayed by idempotency key", slog.String("sale_id", saleID))
				return sale, nil
			}
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrSaleAlreadyPosted)
	}

	if err := s.validateSaleRefs(ctx, tenantID, sale.CropCycleID, sale.BuyerPartyID); err != nil {
		return nil, err
	}

	receivable, err := s.accountRepo.FindAccountByCode(ctx, tenantID, codeAccountsReceivable)
	if err != nil {
		return nil, fmt.Errorf("failed to find receivable account: %w", err)
	}
	revenue, err := s.accountRepo.FindAccountByCode(ctx, tenantID, codeProduceSales)
	if err != nil {
		return nil, fmt.Errorf("failed to find revenue account: %w", err)
	}

	now := time.Now().UTC()
	groupID := uuid.NewString()
	description := fmt.Sprintf("Sale %s", sale.SaleNo)

	entries := []domain.LedgerEntry{
		newLedgerEntry(tenantID, groupID, receivable.AccountID, sale.Total, decimal.Zero, sale.PostingDate, description, session.UserID, now),
		newLedgerEntry(tenantID, groupID, revenue.AccountID, decimal.Zero, sale.Total, sale.PostingDate, description, session.UserID, now),
	}

	accounts := map[string]domain.Account{
		receivable.AccountID: *receivable,
		revenue.AccountID:    *revenue,
	}
	balanceChanges, err := computeBalanceChanges(entries, accounts)
	if err != nil {
		return nil, err
	}

	group := domain.PostingGroup{
		PostingGroupID: groupID,
		TenantID:       tenantID,
		SourceType:     domain.SourceSale,
		SourceID:       sale.SaleID,
		PostingDate:    sale.PostingDate,
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
		s.LogError(ctx, err, "Failed to save sale posting", slog.String("sale_id", saleID))
		return nil, fmt.Errorf("failed to save sale posting: %w", err)
	}

	if err := s.saleRepo.MarkSalePosted(ctx, tenantID, saleID, groupID, session.UserID); err != nil {
		s.LogError(ctx, err, "Failed to mark sale posted", slog.String("sale_id", saleID))
		return nil, fmt.Errorf("failed to mark sale posted: %w", err)
	}

	sale.Status = domain.SalePosted
	sale.PostingGroupID = &groupID
	sale.LastUpdatedAt = now
	sale.LastUpdatedBy = session.UserID

	s.LogInfo(ctx, "Sale posted", slog.String("sale_id", saleID), slog.String("posting_group_id", groupID))
	return sale, nil
}
