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
	"github.com/SahayFarms/farm_books_app/internal/utils/pagination"
)

type PgxPaymentRepository struct {
	BaseRepository
	postingRepo *PgxPostingRepository
}

// newPgxPaymentRepository creates a new repository for payments. It reuses the
// posting repository's transactional insert so that payment, posting group,
// entries, balances and sale increments all commit together.
func newPgxPaymentRepository(pool *pgxpool.Pool, postingRepo *PgxPostingRepository) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{
		BaseRepository: BaseRepository{Pool: pool},
		postingRepo:    postingRepo,
	}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

const paymentColumns = `payment_id, tenant_id, party_id, direction, amount, payment_date, method, reference, posting_group_id, idempotency_key, created_at, created_by, last_updated_at, last_updated_by`

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.PaymentID,
		&p.TenantID,
		&p.PartyID,
		&p.Direction,
		&p.Amount,
		&p.PaymentDate,
		&p.Method,
		&p.Reference,
		&p.PostingGroupID,
		&p.IdempotencyKey,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan payment row: %w", err)
	}
	return &p, nil
}

// loadAllocations attaches the allocation lines to a payment.
func (r *PgxPaymentRepository) loadAllocations(ctx context.Context, payment *domain.Payment) error {
	query := `SELECT sale_id, amount FROM payment_allocations WHERE payment_id = $1 ORDER BY sale_id;`
	rows, err := r.Pool.Query(ctx, query, payment.PaymentID)
	if err != nil {
		return fmt.Errorf("failed to query allocations for payment %s: %w", payment.PaymentID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.AllocationLine
		if err := rows.Scan(&line.SaleID, &line.Amount); err != nil {
			return fmt.Errorf("failed to scan allocation row: %w", err)
		}
		payment.Allocations = append(payment.Allocations, line)
	}
	if rows.Err() != nil {
		return fmt.Errorf("error iterating allocation rows: %w", rows.Err())
	}
	return nil
}

// FindPaymentByID retrieves a payment with its allocation lines.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, tenantID, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tenant_id = $1 AND payment_id = $2;`
	payment, err := scanPayment(r.Pool.QueryRow(ctx, query, tenantID, paymentID))
	if err != nil {
		return nil, err
	}
	if err := r.loadAllocations(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// FindPaymentByIdempotencyKey retrieves the payment previously created with
// the given key, or ErrNotFound.
func (r *PgxPaymentRepository) FindPaymentByIdempotencyKey(ctx context.Context, tenantID, key string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tenant_id = $1 AND idempotency_key = $2;`
	payment, err := scanPayment(r.Pool.QueryRow(ctx, query, tenantID, key))
	if err != nil {
		return nil, err
	}
	if err := r.loadAllocations(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// ListPayments retrieves a token-paginated list of payments, newest first.
func (r *PgxPaymentRepository) ListPayments(ctx context.Context, tenantID string, partyID *string, limit int, nextToken *string) ([]domain.Payment, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	args := []interface{}{tenantID}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tenant_id = $1`
	if partyID != nil {
		args = append(args, *partyID)
		query += fmt.Sprintf(" AND party_id = $%d", len(args))
	}
	if nextToken != nil && *nextToken != "" {
		lastPaymentDate, lastCreatedAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		args = append(args, lastPaymentDate, lastCreatedAt)
		query += fmt.Sprintf(" AND (payment_date, created_at) < ($%d, $%d)", len(args)-1, len(args))
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY payment_date DESC, created_at DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, nil, err
		}
		payments = append(payments, *p)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating payment rows: %w", rows.Err())
	}

	var token *string
	if len(payments) > limit {
		payments = payments[:limit]
		last := payments[len(payments)-1]
		t := pagination.EncodeToken(last.PaymentDate, last.CreatedAt)
		token = &t
	}
	return payments, token, nil
}

// SavePayment atomically persists the payment with its allocations, the
// generated posting group and entries, account balance deltas, and the
// received-amount increments on allocated sales.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment, group domain.PostingGroup, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	paymentQuery := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, paymentQuery,
		payment.PaymentID,
		payment.TenantID,
		payment.PartyID,
		payment.Direction,
		payment.Amount,
		payment.PaymentDate,
		payment.Method,
		payment.Reference,
		payment.PostingGroupID,
		payment.IdempotencyKey,
		payment.CreatedAt,
		payment.CreatedBy,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: payment with key %s already exists", apperrors.ErrDuplicate, payment.IdempotencyKey)
		}
		return fmt.Errorf("failed to insert payment %s: %w", payment.PaymentID, err)
	}

	if err := r.postingRepo.insertGroupAndEntriesTx(ctx, tx, group, entries, balanceChanges); err != nil {
		return err
	}

	if len(payment.Allocations) > 0 {
		batch := &pgx.Batch{}
		allocQuery := `INSERT INTO payment_allocations (payment_id, sale_id, amount) VALUES ($1, $2, $3);`
		// Guard against over-application under concurrent payments.
		saleQuery := `
			UPDATE sales
			SET received = received + $3, last_updated_at = $4, last_updated_by = $5
			WHERE tenant_id = $1 AND sale_id = $2 AND received + $3 <= total;
		`
		for _, line := range payment.Allocations {
			batch.Queue(allocQuery, payment.PaymentID, line.SaleID, line.Amount)
			batch.Queue(saleQuery, payment.TenantID, line.SaleID, line.Amount, payment.CreatedAt, payment.CreatedBy)
		}

		br := tx.SendBatch(ctx, batch)
		for range payment.Allocations {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("failed to insert allocation for payment %s: %w", payment.PaymentID, err)
			}
			tag, err := br.Exec()
			if err != nil {
				br.Close()
				return fmt.Errorf("failed to apply allocation for payment %s: %w", payment.PaymentID, err)
			}
			if tag.RowsAffected() == 0 {
				br.Close()
				return fmt.Errorf("%w: allocation exceeds sale outstanding", apperrors.ErrConflict)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to finish allocation batch for payment %s: %w", payment.PaymentID, err)
		}
	}

	return r.Commit(ctx, tx)
}
