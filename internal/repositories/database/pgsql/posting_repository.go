package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/SahayFarms/farm_books_app/internal/apperrors"
	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	portsrepo "github.com/SahayFarms/farm_books_app/internal/core/ports/repositories"
	"github.com/SahayFarms/farm_books_app/internal/utils/pagination"
)

type PgxPostingRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxPostingRepository creates a new repository for posting groups and
// ledger entries.
func newPgxPostingRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.PostingRepositoryFacade {
	return &PgxPostingRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.PostingRepositoryFacade = (*PgxPostingRepository)(nil)

const postingGroupColumns = `posting_group_id, tenant_id, source_type, source_id, posting_date, description, status, reversal_of_id, reversed_by_id, COALESCE(idempotency_key, ''), created_at, created_by, last_updated_at, last_updated_by`

func scanPostingGroup(row pgx.Row) (*domain.PostingGroup, error) {
	var g domain.PostingGroup
	err := row.Scan(
		&g.PostingGroupID,
		&g.TenantID,
		&g.SourceType,
		&g.SourceID,
		&g.PostingDate,
		&g.Description,
		&g.Status,
		&g.ReversalOfID,
		&g.ReversedByID,
		&g.IdempotencyKey,
		&g.CreatedAt,
		&g.CreatedBy,
		&g.LastUpdatedAt,
		&g.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan posting group row: %w", err)
	}
	return &g, nil
}

const ledgerEntryColumns = `ledger_entry_id, posting_group_id, tenant_id, account_id, debit_amount, credit_amount, posting_date, description, is_cleared, created_at, created_by, last_updated_at, last_updated_by`

func scanLedgerEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	err := row.Scan(
		&e.LedgerEntryID,
		&e.PostingGroupID,
		&e.TenantID,
		&e.AccountID,
		&e.DebitAmount,
		&e.CreditAmount,
		&e.PostingDate,
		&e.Description,
		&e.IsCleared,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
	}
	return &e, nil
}

// FindPostingGroupByID retrieves a posting group by ID within a tenant.
func (r *PgxPostingRepository) FindPostingGroupByID(ctx context.Context, tenantID, postingGroupID string) (*domain.PostingGroup, error) {
	query := `SELECT ` + postingGroupColumns + ` FROM posting_groups WHERE tenant_id = $1 AND posting_group_id = $2;`
	return scanPostingGroup(r.Pool.QueryRow(ctx, query, tenantID, postingGroupID))
}

// FindPostingGroupByIdempotencyKey retrieves the group previously created
// with the given key, or ErrNotFound.
func (r *PgxPostingRepository) FindPostingGroupByIdempotencyKey(ctx context.Context, tenantID, key string) (*domain.PostingGroup, error) {
	query := `SELECT ` + postingGroupColumns + ` FROM posting_groups WHERE tenant_id = $1 AND idempotency_key = $2;`
	return scanPostingGroup(r.Pool.QueryRow(ctx, query, tenantID, key))
}

// FindEntriesByPostingGroupID retrieves all entries of a posting group.
func (r *PgxPostingRepository) FindEntriesByPostingGroupID(ctx context.Context, postingGroupID string) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + ` FROM ledger_entries WHERE posting_group_id = $1 ORDER BY ledger_entry_id;`
	rows, err := r.Pool.Query(ctx, query, postingGroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for group %s: %w", postingGroupID, err)
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", rows.Err())
	}
	return entries, nil
}

// ListPostingGroups retrieves a token-paginated list of posting groups,
// newest first.
func (r *PgxPostingRepository) ListPostingGroups(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.PostingGroup, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	args := []interface{}{tenantID}
	query := `SELECT ` + postingGroupColumns + ` FROM posting_groups WHERE tenant_id = $1`
	if nextToken != nil && *nextToken != "" {
		lastPostingDate, lastCreatedAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		args = append(args, lastPostingDate, lastCreatedAt)
		query += fmt.Sprintf(" AND (posting_date, created_at) < ($%d, $%d)", len(args)-1, len(args))
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY posting_date DESC, created_at DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query posting groups: %w", err)
	}
	defer rows.Close()

	groups := []domain.PostingGroup{}
	for rows.Next() {
		g, err := scanPostingGroup(rows)
		if err != nil {
			return nil, nil, err
		}
		groups = append(groups, *g)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating posting group rows: %w", rows.Err())
	}

	var token *string
	if len(groups) > limit {
		groups = groups[:limit]
		last := groups[len(groups)-1]
		t := pagination.EncodeToken(last.PostingDate, last.CreatedAt)
		token = &t
	}
	return groups, token, nil
}

// ListEntriesByAccount retrieves a token-paginated list of entries for one
// account, newest first.
func (r *PgxPostingRepository) ListEntriesByAccount(ctx context.Context, tenantID, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	args := []interface{}{tenantID, accountID}
	query := `SELECT ` + ledgerEntryColumns + ` FROM ledger_entries WHERE tenant_id = $1 AND account_id = $2`
	if nextToken != nil && *nextToken != "" {
		lastPostingDate, lastCreatedAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		args = append(args, lastPostingDate, lastCreatedAt)
		query += fmt.Sprintf(" AND (posting_date, created_at) < ($%d, $%d)", len(args)-1, len(args))
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY posting_date DESC, created_at DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query entries for account %s: %w", accountID, err)
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, *e)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating entry rows: %w", rows.Err())
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		t := pagination.EncodeToken(last.PostingDate, last.CreatedAt)
		token = &t
	}
	return entries, token, nil
}

// FindEntryByID retrieves one ledger entry within a tenant.
func (r *PgxPostingRepository) FindEntryByID(ctx context.Context, tenantID, ledgerEntryID string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + ` FROM ledger_entries WHERE tenant_id = $1 AND ledger_entry_id = $2;`
	return scanLedgerEntry(r.Pool.QueryRow(ctx, query, tenantID, ledgerEntryID))
}

// ListEntriesForBankAccount returns all entries on a reconcilable bank
// account dated on or before the statement date, oldest first.
func (r *PgxPostingRepository) ListEntriesForBankAccount(ctx context.Context, tenantID, accountID string, until time.Time) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE tenant_id = $1 AND account_id = $2 AND posting_date <= $3
		ORDER BY posting_date, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, accountID, until)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank entries for account %s: %w", accountID, err)
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating bank entry rows: %w", rows.Err())
	}
	return entries, nil
}

const insertPostingGroupQuery = `
	INSERT INTO posting_groups (posting_group_id, tenant_id, source_type, source_id, posting_date, description, status, reversal_of_id, reversed_by_id, idempotency_key, created_at, created_by, last_updated_at, last_updated_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11, $12, $13, $14);
`

const insertLedgerEntryQuery = `
	INSERT INTO ledger_entries (ledger_entry_id, posting_group_id, tenant_id, account_id, debit_amount, credit_amount, posting_date, description, is_cleared, created_at, created_by, last_updated_at, last_updated_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
`

// insertGroupAndEntriesTx writes the group, locks the touched accounts,
// applies balance deltas, and batch-inserts the entries, all on tx.
func (r *PgxPostingRepository) insertGroupAndEntriesTx(ctx context.Context, tx pgx.Tx, group domain.PostingGroup, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal) error {
	_, err := tx.Exec(ctx, insertPostingGroupQuery,
		group.PostingGroupID,
		group.TenantID,
		group.SourceType,
		group.SourceID,
		group.PostingDate,
		group.Description,
		group.Status,
		group.ReversalOfID,
		group.ReversedByID,
		group.IdempotencyKey,
		group.CreatedAt,
		group.CreatedBy,
		group.LastUpdatedAt,
		group.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: posting group with key %s already exists", apperrors.ErrDuplicate, group.IdempotencyKey)
		}
		return fmt.Errorf("failed to insert posting group %s: %w", group.PostingGroupID, err)
	}

	accountIDs := make([]string, 0, len(balanceChanges))
	for accountID := range balanceChanges {
		accountIDs = append(accountIDs, accountID)
	}
	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return fmt.Errorf("failed to lock accounts for posting: %w", err)
	}
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, group.CreatedBy, group.CreatedAt); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(insertLedgerEntryQuery,
			e.LedgerEntryID,
			e.PostingGroupID,
			e.TenantID,
			e.AccountID,
			e.DebitAmount,
			e.CreditAmount,
			e.PostingDate,
			e.Description,
			e.IsCleared,
			e.CreatedAt,
			e.CreatedBy,
			e.LastUpdatedAt,
			e.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert entries for group %s: %w", group.PostingGroupID, err)
	}
	return nil
}

// SavePostingGroup atomically persists a posting group with its entries and
// applies account balance deltas in one database transaction.
func (r *PgxPostingRepository) SavePostingGroup(ctx context.Context, group domain.PostingGroup, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.insertGroupAndEntriesTx(ctx, tx, group, entries, balanceChanges); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdatePostingStatusAndLinks marks a group reversed and links it to the
// reversing group.
func (r *PgxPostingRepository) UpdatePostingStatusAndLinks(ctx context.Context, postingGroupID string, status domain.PostingGroupStatus, reversedByID *string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE posting_groups
		SET status = $2, reversed_by_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE posting_group_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, postingGroupID, status, reversedByID, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update posting group %s: %w", postingGroupID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetEntryCleared toggles the bank-reconciliation cleared flag on an entry.
func (r *PgxPostingRepository) SetEntryCleared(ctx context.Context, tenantID, ledgerEntryID string, cleared bool, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE ledger_entries
		SET is_cleared = $3, last_updated_at = $4, last_updated_by = $5
		WHERE tenant_id = $1 AND ledger_entry_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, tenantID, ledgerEntryID, cleared, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to set cleared flag on entry %s: %w", ledgerEntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
