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

type PgxSaleRepository struct {
	BaseRepository
}

// newPgxSaleRepository creates a new repository for sale documents.
func newPgxSaleRepository(pool *pgxpool.Pool) portsrepo.SaleRepositoryFacade {
	return &PgxSaleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SaleRepositoryFacade = (*PgxSaleRepository)(nil)

const saleColumns = `sale_id, tenant_id, sale_no, crop_cycle_id, buyer_party_id, posting_date, due_date, quantity, unit_price, total, received, status, posting_group_id, created_at, created_by, last_updated_at, last_updated_by`

func scanSale(row pgx.Row) (*domain.Sale, error) {
	var s domain.Sale
	err := row.Scan(
		&s.SaleID,
		&s.TenantID,
		&s.SaleNo,
		&s.CropCycleID,
		&s.BuyerPartyID,
		&s.PostingDate,
		&s.DueDate,
		&s.Quantity,
		&s.UnitPrice,
		&s.Total,
		&s.Received,
		&s.Status,
		&s.PostingGroupID,
		&s.CreatedAt,
		&s.CreatedBy,
		&s.LastUpdatedAt,
		&s.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan sale row: %w", err)
	}
	return &s, nil
}

// FindSaleByID retrieves a sale by ID within a tenant.
func (r *PgxSaleRepository) FindSaleByID(ctx context.Context, tenantID, saleID string) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE tenant_id = $1 AND sale_id = $2;`
	return scanSale(r.Pool.QueryRow(ctx, query, tenantID, saleID))
}

// ListSales retrieves a token-paginated list of sales, newest first,
// optionally filtered by crop cycle and buyer.
func (r *PgxSaleRepository) ListSales(ctx context.Context, tenantID string, cropCycleID, buyerPartyID *string, limit int, nextToken *string) ([]domain.Sale, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	args := []interface{}{tenantID}
	query := `SELECT ` + saleColumns + ` FROM sales WHERE tenant_id = $1`
	if cropCycleID != nil {
		args = append(args, *cropCycleID)
		query += fmt.Sprintf(" AND crop_cycle_id = $%d", len(args))
	}
	if buyerPartyID != nil {
		args = append(args, *buyerPartyID)
		query += fmt.Sprintf(" AND buyer_party_id = $%d", len(args))
	}
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
		return nil, nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	sales := []domain.Sale{}
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, nil, err
		}
		sales = append(sales, *s)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating sale rows: %w", rows.Err())
	}

	var token *string
	if len(sales) > limit {
		sales = sales[:limit]
		last := sales[len(sales)-1]
		t := pagination.EncodeToken(last.PostingDate, last.CreatedAt)
		token = &t
	}
	return sales, token, nil
}

// ListOpenReceivables returns posted sales for the party with positive
// outstanding, ordered oldest-first.
func (r *PgxSaleRepository) ListOpenReceivables(ctx context.Context, tenantID, buyerPartyID string) ([]domain.OpenReceivable, error) {
	query := `
		SELECT sale_id, sale_no, posting_date, due_date, total - received AS outstanding
		FROM sales
		WHERE tenant_id = $1 AND buyer_party_id = $2 AND status = 'POSTED' AND total > received
		ORDER BY posting_date, sale_no;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, buyerPartyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query open receivables for party %s: %w", buyerPartyID, err)
	}
	defer rows.Close()

	receivables := []domain.OpenReceivable{}
	for rows.Next() {
		var o domain.OpenReceivable
		if err := rows.Scan(&o.SaleID, &o.SaleNo, &o.PostingDate, &o.DueDate, &o.Outstanding); err != nil {
			return nil, fmt.Errorf("failed to scan open receivable row: %w", err)
		}
		receivables = append(receivables, o)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating open receivable rows: %w", rows.Err())
	}
	return receivables, nil
}

// NextSaleNo allocates the next human-facing sale number for the tenant.
func (r *PgxSaleRepository) NextSaleNo(ctx context.Context, tenantID string) (string, error) {
	query := `
		INSERT INTO sale_counters (tenant_id, last_no)
		VALUES ($1, 1)
		ON CONFLICT (tenant_id) DO UPDATE SET last_no = sale_counters.last_no + 1
		RETURNING last_no;
	`
	var lastNo int64
	if err := r.Pool.QueryRow(ctx, query, tenantID).Scan(&lastNo); err != nil {
		return "", fmt.Errorf("failed to allocate sale number: %w", err)
	}
	return fmt.Sprintf("S-%05d", lastNo), nil
}

// SaveSale inserts a new sale document.
func (r *PgxSaleRepository) SaveSale(ctx context.Context, sale domain.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		sale.SaleID,
		sale.TenantID,
		sale.SaleNo,
		sale.CropCycleID,
		sale.BuyerPartyID,
		sale.PostingDate,
		sale.DueDate,
		sale.Quantity,
		sale.UnitPrice,
		sale.Total,
		sale.Received,
		sale.Status,
		sale.PostingGroupID,
		sale.CreatedAt,
		sale.CreatedBy,
		sale.LastUpdatedAt,
		sale.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: sale %s already exists", apperrors.ErrDuplicate, sale.SaleNo)
		}
		return fmt.Errorf("failed to save sale %s: %w", sale.SaleID, err)
	}
	return nil
}

// UpdateSale updates a draft sale's fields.
func (r *PgxSaleRepository) UpdateSale(ctx context.Context, sale domain.Sale) error {
	query := `
		UPDATE sales
		SET crop_cycle_id = $3, buyer_party_id = $4, posting_date = $5, due_date = $6,
		    quantity = $7, unit_price = $8, total = $9, last_updated_at = $10, last_updated_by = $11
		WHERE tenant_id = $1 AND sale_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		sale.TenantID,
		sale.SaleID,
		sale.CropCycleID,
		sale.BuyerPartyID,
		sale.PostingDate,
		sale.DueDate,
		sale.Quantity,
		sale.UnitPrice,
		sale.Total,
		sale.LastUpdatedAt,
		sale.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update sale %s: %w", sale.SaleID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkSalePosted flips a draft sale POSTED and links its posting group.
func (r *PgxSaleRepository) MarkSalePosted(ctx context.Context, tenantID, saleID, postingGroupID, updatedBy string) error {
	query := `
		UPDATE sales
		SET status = 'POSTED', posting_group_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE tenant_id = $1 AND sale_id = $2 AND status = 'DRAFT';
	`
	tag, err := r.Pool.Exec(ctx, query, tenantID, saleID, postingGroupID, time.Now().UTC(), updatedBy)
	if err != nil {
		return fmt.Errorf("failed to mark sale %s posted: %w", saleID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: sale %s is not a draft", apperrors.ErrConflict, saleID)
	}
	return nil
}
