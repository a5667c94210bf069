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

type PgxAdvanceRepository struct {
	BaseRepository
}

// newPgxAdvanceRepository creates a new repository for advances.
func newPgxAdvanceRepository(pool *pgxpool.Pool) portsrepo.AdvanceRepositoryFacade {
	return &PgxAdvanceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AdvanceRepositoryFacade = (*PgxAdvanceRepository)(nil)

const advanceColumns = `advance_id, tenant_id, party_id, direction, amount, advance_date, purpose, status, posting_group_id, idempotency_key, created_at, created_by, last_updated_at, last_updated_by`

func scanAdvance(row pgx.Row) (*domain.Advance, error) {
	var a domain.Advance
	err := row.Scan(
		&a.AdvanceID,
		&a.TenantID,
		&a.PartyID,
		&a.Direction,
		&a.Amount,
		&a.AdvanceDate,
		&a.Purpose,
		&a.Status,
		&a.PostingGroupID,
		&a.IdempotencyKey,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan advance row: %w", err)
	}
	return &a, nil
}

// FindAdvanceByID retrieves an advance by ID within a tenant.
func (r *PgxAdvanceRepository) FindAdvanceByID(ctx context.Context, tenantID, advanceID string) (*domain.Advance, error) {
	query := `SELECT ` + advanceColumns + ` FROM advances WHERE tenant_id = $1 AND advance_id = $2;`
	return scanAdvance(r.Pool.QueryRow(ctx, query, tenantID, advanceID))
}

// FindAdvanceByIdempotencyKey retrieves the advance previously created with
// the given key, or ErrNotFound.
func (r *PgxAdvanceRepository) FindAdvanceByIdempotencyKey(ctx context.Context, tenantID, key string) (*domain.Advance, error) {
	query := `SELECT ` + advanceColumns + ` FROM advances WHERE tenant_id = $1 AND idempotency_key = $2;`
	return scanAdvance(r.Pool.QueryRow(ctx, query, tenantID, key))
}

// ListAdvances retrieves a token-paginated list of advances, newest first.
func (r *PgxAdvanceRepository) ListAdvances(ctx context.Context, tenantID string, partyID *string, limit int, nextToken *string) ([]domain.Advance, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	args := []interface{}{tenantID}
	query := `SELECT ` + advanceColumns + ` FROM advances WHERE tenant_id = $1`
	if partyID != nil {
		args = append(args, *partyID)
		query += fmt.Sprintf(" AND party_id = $%d", len(args))
	}
	if nextToken != nil && *nextToken != "" {
		lastAdvanceDate, lastCreatedAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		args = append(args, lastAdvanceDate, lastCreatedAt)
		query += fmt.Sprintf(" AND (advance_date, created_at) < ($%d, $%d)", len(args)-1, len(args))
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY advance_date DESC, created_at DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query advances: %w", err)
	}
	defer rows.Close()

	advances := []domain.Advance{}
	for rows.Next() {
		a, err := scanAdvance(rows)
		if err != nil {
			return nil, nil, err
		}
		advances = append(advances, *a)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating advance rows: %w", rows.Err())
	}

	var token *string
	if len(advances) > limit {
		advances = advances[:limit]
		last := advances[len(advances)-1]
		t := pagination.EncodeToken(last.AdvanceDate, last.CreatedAt)
		token = &t
	}
	return advances, token, nil
}

// SaveAdvance inserts a new advance.
func (r *PgxAdvanceRepository) SaveAdvance(ctx context.Context, advance domain.Advance) error {
	query := `
		INSERT INTO advances (` + advanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		advance.AdvanceID,
		advance.TenantID,
		advance.PartyID,
		advance.Direction,
		advance.Amount,
		advance.AdvanceDate,
		advance.Purpose,
		advance.Status,
		advance.PostingGroupID,
		advance.IdempotencyKey,
		advance.CreatedAt,
		advance.CreatedBy,
		advance.LastUpdatedAt,
		advance.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: advance with key %s already exists", apperrors.ErrDuplicate, advance.IdempotencyKey)
		}
		return fmt.Errorf("failed to save advance %s: %w", advance.AdvanceID, err)
	}
	return nil
}

// MarkAdvancePosted flips a draft advance POSTED and links its posting group.
func (r *PgxAdvanceRepository) MarkAdvancePosted(ctx context.Context, tenantID, advanceID, postingGroupID, updatedBy string) error {
	query := `
		UPDATE advances
		SET status = 'POSTED', posting_group_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE tenant_id = $1 AND advance_id = $2 AND status = 'DRAFT';
	`
	tag, err := r.Pool.Exec(ctx, query, tenantID, advanceID, postingGroupID, time.Now().UTC(), updatedBy)
	if err != nil {
		return fmt.Errorf("failed to mark advance %s posted: %w", advanceID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: advance %s is not a draft", apperrors.ErrConflict, advanceID)
	}
	return nil
}
