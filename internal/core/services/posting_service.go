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
	ErrPostingUnbalanced  = errors.New("posting entries do not balance")
	ErrPostingMinEntries  = errors.New("posting must have at least two entries")
	ErrPostingMinAccounts = errors.New("posting must affect at least two different accounts")
	ErrPostingMixedLine   = errors.New("each entry must set exactly one of debit or credit")
	ErrReversalOfReversal = errors.New("a reversal posting cannot itself be reversed")
	ErrAlreadyReversed    = errors.New("posting group is already reversed")
	ErrAccountNotInTenant = errors.New("account does not belong to tenant")
)

// signedEntryAmount converts a debit/credit entry into a signed balance delta
// per accounting convention:
// DEBIT to ASSET/EXPENSE -> positive, CREDIT -> negative.
// DEBIT to LIABILITY/EQUITY/REVENUE -> negative, CREDIT -> positive.
func signedEntryAmount(e domain.LedgerEntry, accountType domain.AccountType) (decimal.Decimal, error) {
	var amount decimal.Decimal
	isDebit := e.IsDebit()
	if isDebit {
		amount = e.DebitAmount
	} else {
		amount = e.CreditAmount
	}

	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit {
			amount = amount.Neg()
		}
	case domain.Liability, domain.Equity, domain.Revenue:
		if isDebit {
			amount = amount.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' for account %s", accountType, e.AccountID)
	}
	return amount, nil
}

// validatePostingEntries checks double-entry invariants on a prepared entry set.
func validatePostingEntries(entries []domain.LedgerEntry) error {
	if len(entries) < 2 {
		return ErrPostingMinEntries
	}

	accountSet := make(map[string]bool)
	debitsSum := decimal.Zero
	creditsSum := decimal.Zero

	for _, e := range entries {
		accountSet[e.AccountID] = true

		debitSet := e.DebitAmount.IsPositive()
		creditSet := e.CreditAmount.IsPositive()
		if debitSet == creditSet {
			return fmt.Errorf("%w: account %s", ErrPostingMixedLine, e.AccountID)
		}
		if e.DebitAmount.IsNegative() || e.CreditAmount.IsNegative() {
			return fmt.Errorf("%w: entry amounts must be positive for account %s", apperrors.ErrValidation, e.AccountID)
		}

		debitsSum = debitsSum.Add(e.DebitAmount)
		creditsSum = creditsSum.Add(e.CreditAmount)
	}

	if len(accountSet) < 2 {
		return ErrPostingMinAccounts
	}
	if !debitsSum.Equal(creditsSum) {
		return fmt.Errorf("%w: debits sum is %s and credits sum is %s",
			ErrPostingUnbalanced, debitsSum.String(), creditsSum.String())
	}
	return nil
}

// computeBalanceChanges nets the signed deltas per account.
func computeBalanceChanges(entries []domain.LedgerEntry, accounts map[string]domain.Account) (map[string]decimal.Decimal, error) {
	balanceChanges := make(map[string]decimal.Decimal)
	for _, e := range entries {
		acc, found := accounts[e.AccountID]
		if !found {
			return nil, fmt.Errorf("%w: ID %s", apperrors.ErrNotFound, e.AccountID)
		}
		signed, err := signedEntryAmount(e, acc.Type)
		if err != nil {
			return nil, err
		}
		balanceChanges[e.AccountID] = balanceChanges[e.AccountID].Add(signed)
	}
	return balanceChanges, nil
}

// newLedgerEntry builds one entry line of a posting group.
func newLedgerEntry(tenantID, groupID, accountID string, debit, credit decimal.Decimal, postingDate time.Time, description, userID string, now time.Time) domain.LedgerEntry {
	return domain.LedgerEntry{
		LedgerEntryID:  uuid.NewString(),
		PostingGroupID: groupID,
		TenantID:       tenantID,
		AccountID:      accountID,
		DebitAmount:    debit,
		CreditAmount:   credit,
		PostingDate:    postingDate,
		Description:    description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
}

// postingService provides posting group and ledger entry operations.
type postingService struct {
	BaseService
	postingRepo portsrepo.PostingRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewPostingService creates a new PostingService.
func NewPostingService(postingRepo portsrepo.PostingRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.PostingSvcFacade {
	return &postingService{
		postingRepo: postingRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// GetPostingGroupByID retrieves a posting group with its entries.
func (s *postingService) GetPostingGroupByID(ctx context.Context, session domain.Session, tenantID, postingGroupID string) (*domain.PostingGroup, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionLedgerRead); err != nil {
		return nil, err
	}

	group, err := s.postingRepo.FindPostingGroupByID(ctx, tenantID, postingGroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to find posting group %s: %w", postingGroupID, err)
	}

	entries, err := s.postingRepo.FindEntriesByPostingGroupID(ctx, postingGroupID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch entries for posting group", slog.String("posting_group_id", postingGroupID))
		return nil, fmt.Errorf("failed to fetch entries: %w", err)
	}
	group.Entries = entries
	return group, nil
}

// ListPostingGroups retrieves a paginated list of posting groups.
func (s *postingService) ListPostingGroups(ctx context.Context, session domain.Session, tenantID string, params dto.ListPostingGroupsParams) (*dto.ListPostingGroupsResponse, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionLedgerRead); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	groups, nextToken, err := s.postingRepo.ListPostingGroups(ctx, tenantID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list posting groups", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list posting groups: %w", err)
	}

	responses := make([]dto.PostingGroupResponse, len(groups))
	for i, g := range groups {
		responses[i] = dto.ToPostingGroupResponse(&g)
	}
	return &dto.ListPostingGroupsResponse{PostingGroups: responses, NextToken: nextToken}, nil
}

// ListEntriesByAccount retrieves ledger entries for a specific account.
func (s *postingService) ListEntriesByAccount(ctx context.Context, session domain.Session, tenantID, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionLedgerRead); err != nil {
		return nil, err
	}

	if _, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID); err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.postingRepo.ListEntriesByAccount(ctx, tenantID, accountID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	return &dto.ListEntriesResponse{Entries: dto.ToLedgerEntryResponses(entries), NextToken: nextToken}, nil
}

// fetchActiveAccounts loads and validates the accounts touched by a posting.
func (s *postingService) fetchActiveAccounts(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, tenantID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range accountIDs {
		acc, found := accounts[id]
		if !found {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		if acc.TenantID != tenantID {
			return nil, fmt.Errorf("%w: account %s", ErrAccountNotInTenant, id)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
	}
	return accounts, nil
}

// CreateManualPosting posts a balanced manual posting group. Replays of the
// same idempotency key return the original group.
func (s *postingService) CreateManualPosting(ctx context.Context, session domain.Session, tenantID string, req dto.CreateManualPostingRequest) (*domain.PostingGroup, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionPostingCreate); err != nil {
		return nil, err
	}

	if existing, err := s.postingRepo.FindPostingGroupByIdempotencyKey(ctx, tenantID, req.IdempotencyKey); err == nil {
		s.LogInfo(ctx, "Manual posting replayed by idempotency key", slog.String("posting_group_id", existing.PostingGroupID))
		return existing, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check idempotency key: %w", err)
	}

	now := time.Now().UTC()
	groupID := uuid.NewString()

	entries := make([]domain.LedgerEntry, len(req.Entries))
	accountIDs := make([]string, 0, len(req.Entries))
	for i, line := range req.Entries {
		entries[i] = newLedgerEntry(tenantID, groupID, line.AccountID, line.DebitAmount, line.CreditAmount, req.PostingDate, line.Description, session.UserID, now)
		accountIDs = append(accountIDs, line.AccountID)
	}

	if err := validatePostingEntries(entries); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	accounts, err := s.fetchActiveAccounts(ctx, tenantID, uniqueStrings(accountIDs))
	if err != nil {
		return nil, err
	}

	balanceChanges, err := computeBalanceChanges(entries, accounts)
	if err != nil {
		return nil, err
	}

	group := domain.PostingGroup{
		PostingGroupID: groupID,
		TenantID:       tenantID,
		SourceType:     domain.SourceManual,
		SourceID:       groupID,
		PostingDate:    req.PostingDate,
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
		s.LogError(ctx, err, "Failed to save manual posting", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save posting group: %w", err)
	}

	s.LogInfo(ctx, "Manual posting created", slog.String("posting_group_id", groupID))
	group.Entries = entries
	return &group, nil
}

// ReversePostingGroup posts a mirror-image group and marks the original
// REVERSED. Reversals cannot be reversed again.
func (s *postingService) ReversePostingGroup(ctx context.Context, session domain.Session, tenantID, postingGroupID string) (*domain.PostingGroup, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionPostingReverse); err != nil {
		return nil, err
	}

	original, err := s.postingRepo.FindPostingGroupByID(ctx, tenantID, postingGroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to find posting group %s: %w", postingGroupID, err)
	}

	if original.SourceType == domain.SourceReversal || original.ReversalOfID != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrReversalOfReversal)
	}
	if original.Status == domain.Reversed {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrAlreadyReversed)
	}

	originalEntries, err := s.postingRepo.FindEntriesByPostingGroupID(ctx, postingGroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entries for reversal: %w", err)
	}

	now := time.Now().UTC()
	reversalID := uuid.NewString()

	// Mirror every entry: debits become credits and vice versa.
	reversalEntries := make([]domain.LedgerEntry, len(originalEntries))
	accountIDs := make([]string, 0, len(originalEntries))
	for i, e := range originalEntries {
		reversalEntries[i] = newLedgerEntry(tenantID, reversalID, e.AccountID, e.CreditAmount, e.DebitAmount, now, e.Description, session.UserID, now)
		accountIDs = append(accountIDs, e.AccountID)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, tenantID, uniqueStrings(accountIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for reversal: %w", err)
	}

	balanceChanges, err := computeBalanceChanges(reversalEntries, accounts)
	if err != nil {
		return nil, err
	}

	reversal := domain.PostingGroup{
		PostingGroupID: reversalID,
		TenantID:       tenantID,
		SourceType:     domain.SourceReversal,
		SourceID:       postingGroupID,
		PostingDate:    now,
		Description:    fmt.Sprintf("Reversal of: %s", original.Description),
		Status:         domain.Posted,
		ReversalOfID:   &postingGroupID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     session.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: session.UserID,
		},
	}

	if err := s.postingRepo.SavePostingGroup(ctx, reversal, reversalEntries, balanceChanges); err != nil {
		s.LogError(ctx, err, "Failed to save reversal posting", slog.String("original_id", postingGroupID))
		return nil, fmt.Errorf("failed to save reversal: %w", err)
	}

	if err := s.postingRepo.UpdatePostingStatusAndLinks(ctx, postingGroupID, domain.Reversed, &reversalID, session.UserID, now); err != nil {
		s.LogError(ctx, err, "Failed to mark original posting reversed", slog.String("original_id", postingGroupID))
		return nil, fmt.Errorf("failed to mark original reversed: %w", err)
	}

	s.LogInfo(ctx, "Posting group reversed",
		slog.String("original_id", postingGroupID),
		slog.String("reversal_id", reversalID))
	reversal.Entries = reversalEntries
	return &reversal, nil
}

// uniqueStrings returns the unique values preserving first-seen order.
func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
