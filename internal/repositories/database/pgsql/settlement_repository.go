package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/SahayFarms/farm_books_app/internal/apperrors"
	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	portsrepo "github.com/SahayFarms/farm_books_app/internal/core/ports/repositories"
)

type PgxSettlementRepository struct {
	BaseRepository
	postingRepo *PgxPostingRepository
}

// newPgxSettlementRepository creates a new repository for settlements. It
// reuses the posting repository's transactional insert so the settlement, its
// lines, the distribution posting group and the balance deltas all commit
// together.
func newPgxSettlementRepository(pool *pgxpool.Pool, postingRepo *PgxPostingRepository) portsrepo.SettlementRepositoryFacade {
	return &PgxSettlementRepository{
		BaseRepository: BaseRepository{Pool: pool},
		postingRepo:    postingRepo,
	}
}

var _ portsrepo.SettlementRepositoryFacade = (*PgxSettlementRepository)(nil)

const settlementColumns = `settlement_id, tenant_id, crop_cycle_id, total_amount, status, posting_group_id, idempotency_key, created_at, created_by, last_updated_at, last_updated_by`

func scanSettlement(row pgx.Row) (*domain.Settlement, error) {
	var s domain.Settlement
	err := row.Scan(
		&s.SettlementID,
		&s.TenantID,
		&s.CropCycleID,
		&s.TotalAmount,
		&s.Status,
		&s.PostingGroupID,
		&s.IdempotencyKey,
		&s.CreatedAt,
		&s.CreatedBy,
		&s.LastUpdatedAt,
		&s.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan settlement row: %w", err)
	}
	return &s, nil
}

// loadLines attaches the settlement's share lines.
func (r *PgxSettlementRepository) loadLines(ctx context.Context, settlement *domain.Settlement) error {
	query := `SELECT party_id, share_percent, amount FROM settlement_lines WHERE settlement_id = $1 ORDER BY share_percent DESC, party_id;`
	rows, err := r.Pool.Query(ctx, query, settlement.SettlementID)
	if err != nil {
		return fmt.Errorf("failed to query lines for settlement %s: %w", settlement.SettlementID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.SettlementLine
		if err := rows.Scan(&line.PartyID, &line.SharePercent, &line.Amount); err != nil {
			return fmt.Errorf("failed to scan settlement line row: %w", err)
		}
		settlement.Lines = append(settlement.Lines, line)
	}
	if rows.Err() != nil {
		return fmt.Errorf("error iterating settlement line rows: %w", rows.Err())
	}
	return nil
}

// FindSettlementByID retrieves a settlement with its lines.
func (r *PgxSettlementRepository) FindSettlementByID(ctx context.Context, tenantID, settlementID string) (*domain.Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE tenant_id = $1 AND settlement_id = $2;`
	settlement, err := scanSettlement(r.Pool.QueryRow(ctx, query, tenantID, settlementID))
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, settlement); err != nil {
		return nil, err
	}
	return settlement, nil
}

// FindSettlementByIdempotencyKey retrieves the settlement previously created
// with the given key, or ErrNotFound.
func (r *PgxSettlementRepository) FindSettlementByIdempotencyKey(ctx context.Context, tenantID, key string) (*domain.Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE tenant_id = $1 AND idempotency_key = $2;`
	settlement, err := scanSettlement(r.Pool.QueryRow(ctx, query, tenantID, key))
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, settlement); err != nil {
		return nil, err
	}
	return settlement, nil
}

// ListSettlements retrieves settlements, optionally for one crop cycle,
// newest first. Lines are loaded per settlement.
func (r *PgxSettlementRepository) ListSettlements(ctx context.Context, tenantID string, cropCycleID *string) ([]domain.Settlement, error) {
	args := []interface{}{tenantID}
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE tenant_id = $1`
	if cropCycleID != nil {
		args = append(args, *cropCycleID)
		query += fmt.Sprintf(" AND crop_cycle_id = $%d", len(args))
	}
	query += ` ORDER BY created_at DESC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query settlements: %w", err)
	}
	defer rows.Close()

	settlements := []domain.Settlement{}
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, err
		}
		settlements = append(settlements, *s)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating settlement rows: %w", rows.Err())
	}

	for i := range settlements {
		if err := r.loadLines(ctx, &settlements[i]); err != nil {
			return nil, err
		}
	}
	return settlements, nil
}

// SaveSettlement inserts the settlement, its lines, the distribution posting
// group with entries, and the account balance deltas in one transaction. A
// retry after any failure finds nothing persisted under the idempotency key.
func (r *PgxSettlementRepository) SaveSettlement(ctx context.Context, settlement domain.Settlement, group domain.PostingGroup, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO settlements (` + settlementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, query,
		settlement.SettlementID,
		settlement.TenantID,
		settlement.CropCycleID,
		settlement.TotalAmount,
		settlement.Status,
		settlement.PostingGroupID,
		settlement.IdempotencyKey,
		settlement.CreatedAt,
		settlement.CreatedBy,
		settlement.LastUpdatedAt,
		settlement.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: settlement with key %s already exists", apperrors.ErrDuplicate, settlement.IdempotencyKey)
		}
		return fmt.Errorf("failed to insert settlement %s: %w", settlement.SettlementID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `INSERT INTO settlement_lines (settlement_id, party_id, share_percent, amount) VALUES ($1, $2, $3, $4);`
	for _, line := range settlement.Lines {
		batch.Queue(lineQuery, settlement.SettlementID, line.PartyID, line.SharePercent, line.Amount)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert lines for settlement %s: %w", settlement.SettlementID, err)
	}

	if err := r.postingRepo.insertGroupAndEntriesTx(ctx, tx, group, entries, balanceChanges); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}
