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
	"github.com/SahayFarms/farm_books_app/internal/core/allocation"
	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	portsrepo "github.com/SahayFarms/farm_books_app/internal/core/ports/repositories"
	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
	"github.com/SahayFarms/farm_books_app/internal/dto"
)

var (
	ErrPaymentNonPositive  = errors.New("payment amount must be positive")
	ErrOutboundAllocations = errors.New("outbound payments cannot carry allocations")
)

// paymentService provides payment recording, posting and allocation.
type paymentService struct {
	BaseService
	paymentRepo portsrepo.PaymentRepositoryFacade
	saleRepo    portsrepo.SaleRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	partyRepo   portsrepo.PartyRepositoryFacade
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(paymentRepo portsrepo.PaymentRepositoryFacade, saleRepo portsrepo.SaleRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, partyRepo portsrepo.PartyRepositoryFacade) portssvc.PaymentSvcFacade {
	return &paymentService{
		paymentRepo: paymentRepo,
		saleRepo:    saleRepo,
		accountRepo: accountRepo,
		partyRepo:   partyRepo,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// GetPaymentByID retrieves a payment with its allocations.
func (s *paymentService) GetPaymentByID(ctx context.Context, session domain.Session, tenantID, paymentID string) (*domain.Payment, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionPaymentRead); err != nil {
		return nil, err
	}
	payment, err := s.paymentRepo.FindPaymentByID(ctx, tenantID, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	return payment, nil
}

// ListPayments retrieves a paginated list of payments.
func (s *paymentService) ListPayments(ctx context.Context, session domain.Session, tenantID string, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionPaymentRead); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	payments, nextToken, err := s.paymentRepo.ListPayments(ctx, tenantID, params.PartyID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payments", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	resp := dto.ToListPaymentsResponse(payments, nextToken)
	return &resp, nil
}

// PreviewAllocation computes the oldest-first suggestion for allocating an
// inbound amount across the party's open sales, without persisting anything.
func (s *paymentService) PreviewAllocation(ctx context.Context, session domain.Session, tenantID string, params dto.AllocationPreviewParams) (*domain.AllocationPreview, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionPaymentRead); err != nil {
		return nil, err
	}

	if !params.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrPaymentNonPositive)
	}

	receivables, err := s.saleRepo.ListOpenReceivables(ctx, tenantID, params.PartyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list open receivables", slog.String("party_id", params.PartyID))
		return nil, fmt.Errorf("failed to list open receivables: %w", err)
	}

	preview := allocation.SuggestFIFO(params.Amount, receivables)
	return &preview, nil
}

// CreatePayment records and posts a payment atomically. Inbound payments are
// allocated against open sales: an explicit allocation set is validated, an
// empty one falls back to the server's oldest-first suggestion. Replays of
// the same idempotency key return the original payment.
func (s *paymentService) CreatePayment(ctx context.Context, session domain.Session, tenantID string, req dto.CreatePaymentRequest) (*domain.Payment, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionPaymentPost); err != nil {
		return nil, err
	}

	if existing, err := s.paymentRepo.FindPaymentByIdempotencyKey(ctx, tenantID, req.IdempotencyKey); err == nil {
		s.LogInfo(ctx, "Payment replayed by idempotency key", slog.String("payment_id", existing.PaymentID))
		return existing, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check idempotency key: %w", err)
	}

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrPaymentNonPositive)
	}
	if req.Direction == domain.DirectionOut && len(req.Allocations) > 0 {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrOutboundAllocations)
	}

	if _, err := s.partyRepo.FindPartyByID(ctx, tenantID, req.PartyID); err != nil {
		return nil, fmt.Errorf("failed to find party %s: %w", req.PartyID, err)
	}

	var allocations []domain.AllocationLine
	allocatedTotal := decimal.Zero
	if req.Direction == domain.DirectionIn {
		receivables, err := s.saleRepo.ListOpenReceivables(ctx, tenantID, req.PartyID)
		if err != nil {
			s.LogError(ctx, err, "Failed to list open receivables", slog.String("party_id", req.PartyID))
			return nil, fmt.Errorf("failed to list open receivables: %w", err)
		}

		if len(req.Allocations) > 0 {
			allocations = make([]domain.AllocationLine, len(req.Allocations))
			for i, a := range req.Allocations {
				allocations[i] = domain.AllocationLine{SaleID: a.SaleID, Amount: a.Amount}
			}
			// Client-proposed splits are re-validated server-side against
			// current outstanding amounts.
			if err := allocation.ValidateManual(req.Amount, allocations, receivables); err != nil {
				return nil, err
			}
		} else {
			preview := allocation.SuggestFIFO(req.Amount, receivables)
			allocations = preview.SuggestedAllocations
		}

		for _, a := range allocations {
			allocatedTotal = allocatedTotal.Add(a.Amount)
		}
	}

	now := time.Now().UTC()
	paymentID := uuid.NewString()
	groupID := uuid.NewString()
	description := fmt.Sprintf("Payment %s %s", req.Direction, paymentID[:8])

	entries, accounts, err := s.buildPaymentEntries(ctx, tenantID, groupID, req, allocatedTotal, description, session.UserID, now)
	if err != nil {
		return nil, err
	}

	balanceChanges, err := computeBalanceChanges(entries, accounts)
	if err != nil {
		return nil, err
	}

	payment := domain.Payment{
		PaymentID:      paymentID,
		TenantID:       tenantID,
		PartyID:        req.PartyID,
		Direction:      req.Direction,
		Amount:         req.Amount,
		PaymentDate:    req.PaymentDate,
		Method:         req.Method,
		Reference:      req.Reference,
		Allocations:    allocations,
		PostingGroupID: &groupID,
		IdempotencyKey: req.IdempotencyKey,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     session.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: session.UserID,
		},
	}

	group := domain.PostingGroup{
		PostingGroupID: groupID,
		TenantID:       tenantID,
		SourceType:     domain.SourcePayment,
		SourceID:       paymentID,
		PostingDate:    req.PaymentDate,
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

	if err := s.paymentRepo.SavePayment(ctx, payment, group, entries, balanceChanges); err != nil {
		s.LogError(ctx, err, "Failed to save payment", slog.String("payment_id", paymentID))
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	s.LogInfo(ctx, "Payment posted",
		slog.String("payment_id", paymentID),
		slog.String("posting_group_id", groupID),
		slog.Int("allocations", len(allocations)))
	return &payment, nil
}

// buildPaymentEntries constructs the ledger lines for a payment.
// IN: debit cash/bank for the full amount, credit receivable for the
// allocated portion, credit advances-received for any remainder.
// OUT: debit accounts payable, credit cash/bank.
func (s *paymentService) buildPaymentEntries(ctx context.Context, tenantID, groupID string, req dto.CreatePaymentRequest, allocatedTotal decimal.Decimal, description, userID string, now time.Time) ([]domain.LedgerEntry, map[string]domain.Account, error) {
	moneyCode := codeBank
	if req.Method == "cash" {
		moneyCode = codeCash
	}
	money, err := s.accountRepo.FindAccountByCode(ctx, tenantID, moneyCode)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find cash/bank account: %w", err)
	}

	accounts := map[string]domain.Account{money.AccountID: *money}
	var entries []domain.LedgerEntry

	if req.Direction == domain.DirectionIn {
		receivable, err := s.accountRepo.FindAccountByCode(ctx, tenantID, codeAccountsReceivable)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to find receivable account: %w", err)
		}
		accounts[receivable.AccountID] = *receivable

		entries = append(entries, newLedgerEntry(tenantID, groupID, money.AccountID, req.Amount, decimal.Zero, req.PaymentDate, description, userID, now))
		if allocatedTotal.IsPositive() {
			entries = append(entries, newLedgerEntry(tenantID, groupID, receivable.AccountID, decimal.Zero, allocatedTotal, req.PaymentDate, description, userID, now))
		}

		unallocated := req.Amount.Sub(allocatedTotal)
		if unallocated.IsPositive() {
			onAccount, err := s.accountRepo.FindAccountByCode(ctx, tenantID, codeAdvancesReceived)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to find advances-received account: %w", err)
			}
			accounts[onAccount.AccountID] = *onAccount
			entries = append(entries, newLedgerEntry(tenantID, groupID, onAccount.AccountID, decimal.Zero, unallocated, req.PaymentDate, description, userID, now))
		}
	} else {
		payable, err := s.accountRepo.FindAccountByCode(ctx, tenantID, codeAccountsPayable)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to find payable account: %w", err)
		}
		accounts[payable.AccountID] = *payable

		entries = append(entries,
			newLedgerEntry(tenantID, groupID, payable.AccountID, req.Amount, decimal.Zero, req.PaymentDate, description, userID, now),
			newLedgerEntry(tenantID, groupID, money.AccountID, decimal.Zero, req.Amount, req.PaymentDate, description, userID, now),
		)
	}

	if err := validatePostingEntries(entries); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return entries, accounts, nil
}
