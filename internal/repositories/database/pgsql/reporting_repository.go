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
)

type ReportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new repository for report aggregates.
func newReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &ReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*ReportingRepository)(nil)

// TrialBalance aggregates debit and credit totals per account.
func (r *ReportingRepository) TrialBalance(ctx context.Context, tenantID string) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type,
		       COALESCE(SUM(e.debit_amount), 0) AS debit_total,
		       COALESCE(SUM(e.credit_amount), 0) AS credit_total
		FROM accounts a
		LEFT JOIN ledger_entries e ON e.account_id = a.account_id
		WHERE a.tenant_id = $1
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trial balance: %w", err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		if err := rows.Scan(&row.AccountID, &row.AccountCode, &row.AccountName, &row.AccountType, &row.DebitTotal, &row.CreditTotal); err != nil {
			return nil, fmt.Errorf("failed to scan trial balance row: %w", err)
		}
		result = append(result, row)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", rows.Err())
	}
	return result, nil
}

// PartyLedger builds a party's ledger from its source documents (sales debit
// the party, inbound payments and deposits credit it) with a running balance.
func (r *ReportingRepository) PartyLedger(ctx context.Context, tenantID, partyID string) ([]domain.PartyLedgerRow, error) {
	query := `
		SELECT posting_date, source_type, description, debit, credit,
		       SUM(debit - credit) OVER (ORDER BY posting_date, created_at, source_type) AS balance
		FROM (
			SELECT posting_date, 'SALE' AS source_type, 'Sale ' || sale_no AS description,
			       total AS debit, 0::numeric AS credit, created_at
			FROM sales
			WHERE tenant_id = $1 AND buyer_party_id = $2 AND status <> 'DRAFT'
			UNION ALL
			SELECT payment_date, 'PAYMENT', 'Payment ' || method,
			       CASE WHEN direction = 'OUT' THEN amount ELSE 0::numeric END,
			       CASE WHEN direction = 'IN' THEN amount ELSE 0::numeric END,
			       created_at
			FROM payments
			WHERE tenant_id = $1 AND party_id = $2
			UNION ALL
			SELECT advance_date, 'ADVANCE', 'Advance ' || purpose,
			       CASE WHEN direction = 'OUT' THEN amount ELSE 0::numeric END,
			       CASE WHEN direction = 'IN' THEN amount ELSE 0::numeric END,
			       created_at
			FROM advances
			WHERE tenant_id = $1 AND party_id = $2
		) ledger
		ORDER BY posting_date, created_at, source_type;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query party ledger: %w", err)
	}
	defer rows.Close()

	result := []domain.PartyLedgerRow{}
	for rows.Next() {
		var row domain.PartyLedgerRow
		if err := rows.Scan(&row.PostingDate, &row.SourceType, &row.Description, &row.Debit, &row.Credit, &row.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan party ledger row: %w", err)
		}
		result = append(result, row)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating party ledger rows: %w", rows.Err())
	}
	return result, nil
}

// ReceivablesAgeing buckets each party's open receivables by days past due.
func (r *ReportingRepository) ReceivablesAgeing(ctx context.Context, tenantID string, asOf time.Time) ([]domain.AgeingBucket, error) {
	query := `
		SELECT p.party_id, p.name,
		       COALESCE(SUM(CASE WHEN $2::date - s.due_date::date <= 30 THEN s.total - s.received ELSE 0 END), 0) AS current,
		       COALESCE(SUM(CASE WHEN $2::date - s.due_date::date BETWEEN 31 AND 60 THEN s.total - s.received ELSE 0 END), 0) AS days_31_60,
		       COALESCE(SUM(CASE WHEN $2::date - s.due_date::date BETWEEN 61 AND 90 THEN s.total - s.received ELSE 0 END), 0) AS days_61_90,
		       COALESCE(SUM(CASE WHEN $2::date - s.due_date::date > 90 THEN s.total - s.received ELSE 0 END), 0) AS over_90,
		       COALESCE(SUM(s.total - s.received), 0) AS total
		FROM sales s
		JOIN parties p ON p.party_id = s.buyer_party_id
		WHERE s.tenant_id = $1 AND s.status = 'POSTED' AND s.total > s.received AND s.posting_date <= $2
		GROUP BY p.party_id, p.name
		ORDER BY p.name;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query receivables ageing: %w", err)
	}
	defer rows.Close()

	result := []domain.AgeingBucket{}
	for rows.Next() {
		var b domain.AgeingBucket
		if err := rows.Scan(&b.PartyID, &b.PartyName, &b.Current, &b.Days31To60, &b.Days61To90, &b.Over90, &b.Total); err != nil {
			return nil, fmt.Errorf("failed to scan ageing row: %w", err)
		}
		result = append(result, b)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating ageing rows: %w", rows.Err())
	}
	return result, nil
}

// CropCyclePnL summarizes a cycle: revenue from posted sales and income lines,
// expense from expense lines and settlements.
func (r *ReportingRepository) CropCyclePnL(ctx context.Context, tenantID, cropCycleID string) (*domain.CropCyclePnL, error) {
	query := `
		SELECT c.crop_cycle_id, c.name,
		       COALESCE((SELECT SUM(total) FROM sales WHERE tenant_id = $1 AND crop_cycle_id = $2 AND status <> 'DRAFT'), 0)
		     + COALESCE((SELECT SUM(amount) FROM daily_book_entries WHERE tenant_id = $1 AND crop_cycle_id = $2 AND entry_type = 'INCOME'), 0) AS revenue,
		       COALESCE((SELECT SUM(amount) FROM daily_book_entries WHERE tenant_id = $1 AND crop_cycle_id = $2 AND entry_type = 'EXPENSE'), 0)
		     + COALESCE((SELECT SUM(total_amount) FROM settlements WHERE tenant_id = $1 AND crop_cycle_id = $2 AND status = 'POSTED'), 0) AS expense
		FROM crop_cycles c
		WHERE c.tenant_id = $1 AND c.crop_cycle_id = $2;
	`
	var pnl domain.CropCyclePnL
	err := r.Pool.QueryRow(ctx, query, tenantID, cropCycleID).Scan(&pnl.CropCycleID, &pnl.Name, &pnl.Revenue, &pnl.Expense)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query crop cycle pnl: %w", err)
	}
	pnl.Net = pnl.Revenue.Sub(pnl.Expense)
	return &pnl, nil
}

// SalesMargin reports per-sale realized collection percentage for a cycle.
func (r *ReportingRepository) SalesMargin(ctx context.Context, tenantID, cropCycleID string) ([]domain.SalesMarginRow, error) {
	query := `
		SELECT sale_id, sale_no, total, received,
		       CASE WHEN total = 0 THEN 0 ELSE ROUND(received / total * 100, 2) END AS margin_pct
		FROM sales
		WHERE tenant_id = $1 AND crop_cycle_id = $2 AND status <> 'DRAFT'
		ORDER BY sale_no;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, cropCycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales margin: %w", err)
	}
	defer rows.Close()

	result := []domain.SalesMarginRow{}
	for rows.Next() {
		var row domain.SalesMarginRow
		if err := rows.Scan(&row.SaleID, &row.SaleNo, &row.Total, &row.Received, &row.MarginPct); err != nil {
			return nil, fmt.Errorf("failed to scan sales margin row: %w", err)
		}
		result = append(result, row)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating sales margin rows: %w", rows.Err())
	}
	return result, nil
}

// SumOpenSalesOutstanding totals the outstanding of posted sales, optionally
// for one crop cycle.
func (r *ReportingRepository) SumOpenSalesOutstanding(ctx context.Context, tenantID string, cropCycleID *string) (decimal.Decimal, error) {
	args := []interface{}{tenantID}
	query := `
		SELECT COALESCE(SUM(total - received), 0)
		FROM sales
		WHERE tenant_id = $1 AND status = 'POSTED' AND total > received
	`
	if cropCycleID != nil {
		args = append(args, *cropCycleID)
		query += fmt.Sprintf(" AND crop_cycle_id = $%d", len(args))
	}

	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query+";", args...).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum open sales outstanding: %w", err)
	}
	return sum, nil
}

// SumAccountBalanceByType totals balances of accounts of one type.
func (r *ReportingRepository) SumAccountBalanceByType(ctx context.Context, tenantID string, accountType domain.AccountType) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(balance), 0) FROM accounts WHERE tenant_id = $1 AND account_type = $2;`
	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, tenantID, accountType).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum account balances by type: %w", err)
	}
	return sum, nil
}

// SumSalesOverReceived totals the amount by which sales received exceeds
// their total. Zero when no sale is overpaid.
func (r *ReportingRepository) SumSalesOverReceived(ctx context.Context, tenantID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(received - total), 0)
		FROM sales
		WHERE tenant_id = $1 AND received > total;
	`
	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, tenantID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum over-received sales: %w", err)
	}
	return sum, nil
}

// SaveCheckResults replaces the tenant's stored check results with the latest
// run.
func (r *ReportingRepository) SaveCheckResults(ctx context.Context, tenantID string, checks []domain.ReconciliationCheck) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM check_results WHERE tenant_id = $1;`, tenantID); err != nil {
		return fmt.Errorf("failed to clear previous check results: %w", err)
	}

	batch := &pgx.Batch{}
	query := `INSERT INTO check_results (tenant_id, name, severity, difference, detail, checked_at) VALUES ($1, $2, $3, $4, $5, $6);`
	for _, c := range checks {
		batch.Queue(query, tenantID, c.Name, c.Severity, c.Difference, c.Detail, c.CheckedAt)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert check results: %w", err)
	}

	return r.Commit(ctx, tx)
}

// LatestCheckResults returns the stored results of the most recent run.
func (r *ReportingRepository) LatestCheckResults(ctx context.Context, tenantID string) ([]domain.ReconciliationCheck, error) {
	query := `SELECT name, severity, difference, detail, checked_at FROM check_results WHERE tenant_id = $1 ORDER BY name;`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query check results: %w", err)
	}
	defer rows.Close()

	result := []domain.ReconciliationCheck{}
	for rows.Next() {
		var c domain.ReconciliationCheck
		if err := rows.Scan(&c.Name, &c.Severity, &c.Difference, &c.Detail, &c.CheckedAt); err != nil {
			return nil, fmt.Errorf("failed to scan check result row: %w", err)
		}
		result = append(result, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating check result rows: %w", rows.Err())
	}
	return result, nil
}
