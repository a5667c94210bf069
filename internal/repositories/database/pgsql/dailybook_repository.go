package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SahayFarms/farm_books_app/internal/apperrors"
	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	portsrepo "github.com/SahayFarms/farm_books_app/internal/core/ports/repositories"
	"github.com/SahayFarms/farm_books_app/internal/utils/pagination"
)

type PgxDailyBookRepository struct {
	BaseRepository
}

// newPgxDailyBookRepository creates a new repository for daily book entries.
func newPgxDailyBookRepository(pool *pgxpool.Pool) portsrepo.DailyBookRepositoryFacade {
	return &PgxDailyBookRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DailyBookRepositoryFacade = (*PgxDailyBookRepository)(nil)

const dailyBookColumns = `entry_id, tenant_id, crop_cycle_id, entry_date, description, amount, entry_type, account_id, posting_group_id, idempotency_key, created_at, created_by, last_updated_at, last_updated_by`

func scanDailyBookEntry(row pgx.Row) (*domain.DailyBookEntry, error) {
	var e domain.DailyBookEntry
	err := row.Scan(
		&e.EntryID,
		&e.TenantID,
		&e.CropCycleID,
		&e.EntryDate,
		&e.Description,
		&e.Amount,
		&e.EntryType,
		&e.AccountID,
		&e.PostingGroupID,
		&e.IdempotencyKey,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan daily book row: %w", err)
	}
	return &e, nil
}

// FindDailyBookEntryByID retrieves a daily book entry by ID within a tenant.
func (r *PgxDailyBookRepository) FindDailyBookEntryByID(ctx context.Context, tenantID, entryID string) (*domain.DailyBookEntry, error) {
	query := `SELECT ` + dailyBookColumns + ` FROM daily_book_entries WHERE tenant_id = $1 AND entry_id = $2;`
	return scanDailyBookEntry(r.Pool.QueryRow(ctx, query, tenantID, entryID))
}

// FindDailyBookEntryByIdempotencyKey retrieves the entry previously created
// with the given key, or ErrNotFound.
func (r *PgxDailyBookRepository) FindDailyBookEntryByIdempotencyKey(ctx context.Context, tenantID, key string) (*domain.DailyBookEntry, error) {
	query := `SELECT ` + dailyBookColumns + ` FROM daily_book_entries WHERE tenant_id = $1 AND idempotency_key = $2;`
	return scanDailyBookEntry(r.Pool.QueryRow(ctx, query, tenantID, key))
}

// ListDailyBookEntries retrieves a token-paginated list of entries, newest
// first, optionally filtered by crop cycle.
func (r *PgxDailyBookRepository) ListDailyBookEntries(ctx context.Context, tenantID string, cropCycleID *string, limit int, nextToken *string) ([]domain.DailyBookEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	args := []interface{}{tenantID}
	query := `SELECT ` + dailyBookColumns + ` FROM daily_book_entries WHERE tenant_id = $1`
	if cropCycleID != nil {
		args = append(args, *cropCycleID)
		query += fmt.Sprintf(" AND crop_cycle_id = $%d", len(args))
	}
	if nextToken != nil && *nextToken != "" {
		lastEntryDate, lastCreatedAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		args = append(args, lastEntryDate, lastCreatedAt)
		query += fmt.Sprintf(" AND (entry_date, created_at) < ($%d, $%d)", len(args)-1, len(args))
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY entry_date DESC, created_at DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query daily book entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.DailyBookEntry{}
	for rows.Next() {
		e, err := scanDailyBookEntry(rows)
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, *e)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating daily book rows: %w", rows.Err())
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		t := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		token = &t
	}
	return entries, token, nil
}

// SaveDailyBookEntry inserts a new daily book entry.
func (r *PgxDailyBookRepository) SaveDailyBookEntry(ctx context.Context, entry domain.DailyBookEntry) error {
	query := `
		INSERT INTO daily_book_entries (` + dailyBookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		entry.EntryID,
		entry.TenantID,
		entry.CropCycleID,
		entry.EntryDate,
		entry.Description,
		entry.Amount,
		entry.EntryType,
		entry.AccountID,
		entry.PostingGroupID,
		entry.IdempotencyKey,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: daily book entry with key %s already exists", apperrors.ErrDuplicate, entry.IdempotencyKey)
		}
		return fmt.Errorf("failed to save daily book entry %s: %w", entry.EntryID, err)
	}
	return nil
}

// MarkDailyBookEntryPosted links a daily book entry to its posting group.
func (r *PgxDailyBookRepository) MarkDailyBookEntryPosted(ctx context.Context, tenantID, entryID, postingGroupID, updatedBy string) error {
	query := `
		UPDATE daily_book_entries
		SET posting_group_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE tenant_id = $1 AND entry_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, tenantID, entryID, postingGroupID, time.Now().UTC(), updatedBy)
	if err != nil {
		return fmt.Errorf("failed to mark daily book entry %s posted: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
