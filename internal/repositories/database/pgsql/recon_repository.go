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
)

type PgxReconRepository struct {
	BaseRepository
}

// newPgxReconRepository creates a new repository for bank reconciliations.
func newPgxReconRepository(pool *pgxpool.Pool) portsrepo.ReconRepositoryFacade {
	return &PgxReconRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReconRepositoryFacade = (*PgxReconRepository)(nil)

const reconColumns = `recon_id, tenant_id, bank_account_id, statement_date, statement_balance, status, idempotency_key, created_at, created_by, last_updated_at, last_updated_by`

func scanRecon(row pgx.Row) (*domain.BankReconciliation, error) {
	var r domain.BankReconciliation
	err := row.Scan(
		&r.ReconID,
		&r.TenantID,
		&r.BankAccountID,
		&r.StatementDate,
		&r.StatementBalance,
		&r.Status,
		&r.IdempotencyKey,
		&r.CreatedAt,
		&r.CreatedBy,
		&r.LastUpdatedAt,
		&r.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan reconciliation row: %w", err)
	}
	return &r, nil
}

// FindReconciliationByID retrieves a reconciliation by ID within a tenant.
func (r *PgxReconRepository) FindReconciliationByID(ctx context.Context, tenantID, reconID string) (*domain.BankReconciliation, error) {
	query := `SELECT ` + reconColumns + ` FROM bank_reconciliations WHERE tenant_id = $1 AND recon_id = $2;`
	return scanRecon(r.Pool.QueryRow(ctx, query, tenantID, reconID))
}

// FindReconciliationByIdempotencyKey retrieves the reconciliation previously
// created with the given key, or ErrNotFound.
func (r *PgxReconRepository) FindReconciliationByIdempotencyKey(ctx context.Context, tenantID, key string) (*domain.BankReconciliation, error) {
	query := `SELECT ` + reconColumns + ` FROM bank_reconciliations WHERE tenant_id = $1 AND idempotency_key = $2;`
	return scanRecon(r.Pool.QueryRow(ctx, query, tenantID, key))
}

// ListReconciliations retrieves a tenant's reconciliations, newest first.
func (r *PgxReconRepository) ListReconciliations(ctx context.Context, tenantID string) ([]domain.BankReconciliation, error) {
	query := `SELECT ` + reconColumns + ` FROM bank_reconciliations WHERE tenant_id = $1 ORDER BY statement_date DESC, created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliations: %w", err)
	}
	defer rows.Close()

	recons := []domain.BankReconciliation{}
	for rows.Next() {
		rec, err := scanRecon(rows)
		if err != nil {
			return nil, err
		}
		recons = append(recons, *rec)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating reconciliation rows: %w", rows.Err())
	}
	return recons, nil
}

const statementLineColumns = `line_id, recon_id, line_date, amount, description, reference, status, matched_ledger_entry_id, created_at, created_by, last_updated_at, last_updated_by`

func scanStatementLine(row pgx.Row) (*domain.StatementLine, error) {
	var l domain.StatementLine
	err := row.Scan(
		&l.LineID,
		&l.ReconID,
		&l.LineDate,
		&l.Amount,
		&l.Description,
		&l.Reference,
		&l.Status,
		&l.MatchedLedgerEntryID,
		&l.CreatedAt,
		&l.CreatedBy,
		&l.LastUpdatedAt,
		&l.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan statement line row: %w", err)
	}
	return &l, nil
}

// FindStatementLineByID retrieves one statement line of a reconciliation.
func (r *PgxReconRepository) FindStatementLineByID(ctx context.Context, reconID, lineID string) (*domain.StatementLine, error) {
	query := `SELECT ` + statementLineColumns + ` FROM statement_lines WHERE recon_id = $1 AND line_id = $2;`
	return scanStatementLine(r.Pool.QueryRow(ctx, query, reconID, lineID))
}

// ListStatementLines retrieves all lines of a reconciliation in entry order.
func (r *PgxReconRepository) ListStatementLines(ctx context.Context, reconID string) ([]domain.StatementLine, error) {
	query := `SELECT ` + statementLineColumns + ` FROM statement_lines WHERE recon_id = $1 ORDER BY line_date, created_at;`
	rows, err := r.Pool.Query(ctx, query, reconID)
	if err != nil {
		return nil, fmt.Errorf("failed to query statement lines for recon %s: %w", reconID, err)
	}
	defer rows.Close()

	lines := []domain.StatementLine{}
	for rows.Next() {
		l, err := scanStatementLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *l)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating statement line rows: %w", rows.Err())
	}
	return lines, nil
}

// SaveReconciliation inserts a new reconciliation.
func (r *PgxReconRepository) SaveReconciliation(ctx context.Context, recon domain.BankReconciliation) error {
	query := `
		INSERT INTO bank_reconciliations (` + reconColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		recon.ReconID,
		recon.TenantID,
		recon.BankAccountID,
		recon.StatementDate,
		recon.StatementBalance,
		recon.Status,
		recon.IdempotencyKey,
		recon.CreatedAt,
		recon.CreatedBy,
		recon.LastUpdatedAt,
		recon.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: reconciliation with key %s already exists", apperrors.ErrDuplicate, recon.IdempotencyKey)
		}
		return fmt.Errorf("failed to save reconciliation %s: %w", recon.ReconID, err)
	}
	return nil
}

// FinalizeReconciliation flips a draft reconciliation FINALIZED.
func (r *PgxReconRepository) FinalizeReconciliation(ctx context.Context, tenantID, reconID, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE bank_reconciliations
		SET status = 'FINALIZED', last_updated_at = $3, last_updated_by = $4
		WHERE tenant_id = $1 AND recon_id = $2 AND status = 'DRAFT';
	`
	tag, err := r.Pool.Exec(ctx, query, tenantID, reconID, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to finalize reconciliation %s: %w", reconID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: reconciliation %s is not a draft", apperrors.ErrConflict, reconID)
	}
	return nil
}

// SaveStatementLine inserts a new statement line.
func (r *PgxReconRepository) SaveStatementLine(ctx context.Context, line domain.StatementLine) error {
	query := `
		INSERT INTO statement_lines (` + statementLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		line.LineID,
		line.ReconID,
		line.LineDate,
		line.Amount,
		line.Description,
		line.Reference,
		line.Status,
		line.MatchedLedgerEntryID,
		line.CreatedAt,
		line.CreatedBy,
		line.LastUpdatedAt,
		line.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save statement line %s: %w", line.LineID, err)
	}
	return nil
}

// ApplyStatementLineMatch sets the line's status and matched entry link and
// flips the entry's cleared flag in the same transaction, so a line is never
// left pointing at an entry whose cleared state disagrees with it.
func (r *PgxReconRepository) ApplyStatementLineMatch(ctx context.Context, tenantID, lineID string, status domain.StatementLineStatus, ledgerEntryID *string, cleared bool, updatedBy string, updatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var matchedID *string
	if status == domain.LineMatched {
		matchedID = ledgerEntryID
	}
	lineQuery := `
		UPDATE statement_lines
		SET status = $2, matched_ledger_entry_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE line_id = $1;
	`
	tag, err := tx.Exec(ctx, lineQuery, lineID, status, matchedID, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update statement line %s: %w", lineID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if ledgerEntryID != nil {
		entryQuery := `
			UPDATE ledger_entries
			SET is_cleared = $3, last_updated_at = $4, last_updated_by = $5
			WHERE tenant_id = $1 AND ledger_entry_id = $2;
		`
		tag, err := tx.Exec(ctx, entryQuery, tenantID, *ledgerEntryID, cleared, updatedAt, updatedBy)
		if err != nil {
			return fmt.Errorf("failed to set cleared flag on entry %s: %w", *ledgerEntryID, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}
	}

	return r.Commit(ctx, tx)
}
