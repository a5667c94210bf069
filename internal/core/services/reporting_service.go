package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SahayFarms/farm_books_app/internal/core/allocation"
	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	portsrepo "github.com/SahayFarms/farm_books_app/internal/core/ports/repositories"
	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
	"github.com/SahayFarms/farm_books_app/internal/dto"
	"github.com/SahayFarms/farm_books_app/internal/export"
)

// Names of the internal-consistency checks.
const (
	CheckTrialBalance   = "trial_balance_balanced"
	CheckARControl      = "ar_control_vs_open_sales"
	CheckReceivedWithin = "received_within_total"
)

// reportingService builds reports, exports and the consistency checks.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.AccountRepositoryFacade
	paymentRepo   portsrepo.PaymentRepositoryFacade
	partyRepo     portsrepo.PartyRepositoryFacade
	tenantRepo    portsrepo.TenantRepositoryFacade
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, accountRepo portsrepo.AccountRepositoryFacade, paymentRepo portsrepo.PaymentRepositoryFacade, partyRepo portsrepo.PartyRepositoryFacade, tenantRepo portsrepo.TenantRepositoryFacade) portssvc.ReportingSvcFacade {
	return &reportingService{
		reportingRepo: reportingRepo,
		accountRepo:   accountRepo,
		paymentRepo:   paymentRepo,
		partyRepo:     partyRepo,
		tenantRepo:    tenantRepo,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// TrialBalance builds the trial balance with grand totals.
func (s *reportingService) TrialBalance(ctx context.Context, session domain.Session, tenantID string) (*dto.TrialBalanceResponse, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionReportsRead); err != nil {
		return nil, err
	}

	rows, err := s.reportingRepo.TrialBalance(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to build trial balance", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to build trial balance: %w", err)
	}

	debitTotal := decimal.Zero
	creditTotal := decimal.Zero
	for _, row := range rows {
		debitTotal = debitTotal.Add(row.DebitTotal)
		creditTotal = creditTotal.Add(row.CreditTotal)
	}

	return &dto.TrialBalanceResponse{
		Rows:        rows,
		DebitTotal:  debitTotal,
		CreditTotal: creditTotal,
		Balanced:    debitTotal.Equal(creditTotal),
	}, nil
}

// PartyLedger builds one party's ledger view with running balance.
func (s *reportingService) PartyLedger(ctx context.Context, session domain.Session, tenantID, partyID string) (*dto.PartyLedgerResponse, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionReportsRead); err != nil {
		return nil, err
	}

	if _, err := s.partyRepo.FindPartyByID(ctx, tenantID, partyID); err != nil {
		return nil, fmt.Errorf("failed to find party %s: %w", partyID, err)
	}

	rows, err := s.reportingRepo.PartyLedger(ctx, tenantID, partyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to build party ledger", slog.String("party_id", partyID))
		return nil, fmt.Errorf("failed to build party ledger: %w", err)
	}

	closing := decimal.Zero
	if len(rows) > 0 {
		closing = rows[len(rows)-1].Balance
	}

	return &dto.PartyLedgerResponse{
		PartyID:        partyID,
		Rows:           rows,
		ClosingBalance: closing,
	}, nil
}

// ReceivablesAgeing buckets outstanding receivables by age as of a date.
func (s *reportingService) ReceivablesAgeing(ctx context.Context, session domain.Session, tenantID string, asOf time.Time) (*dto.AgeingResponse, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionReportsRead); err != nil {
		return nil, err
	}

	buckets, err := s.reportingRepo.ReceivablesAgeing(ctx, tenantID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to build receivables ageing", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to build receivables ageing: %w", err)
	}

	total := decimal.Zero
	for _, b := range buckets {
		total = total.Add(b.Total)
	}

	return &dto.AgeingResponse{AsOf: asOf, Buckets: buckets, Total: total}, nil
}

// CropCyclePnL summarizes revenue and expense for one crop cycle.
func (s *reportingService) CropCyclePnL(ctx context.Context, session domain.Session, tenantID, cropCycleID string) (*domain.CropCyclePnL, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionReportsRead); err != nil {
		return nil, err
	}

	pnl, err := s.reportingRepo.CropCyclePnL(ctx, tenantID, cropCycleID)
	if err != nil {
		s.LogError(ctx, err, "Failed to build crop cycle pnl", slog.String("crop_cycle_id", cropCycleID))
		return nil, fmt.Errorf("failed to build crop cycle pnl: %w", err)
	}
	return pnl, nil
}

// SalesMargin reports per-sale realized margin for a crop cycle.
func (s *reportingService) SalesMargin(ctx context.Context, session domain.Session, tenantID, cropCycleID string) (*dto.SalesMarginResponse, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionReportsRead); err != nil {
		return nil, err
	}

	rows, err := s.reportingRepo.SalesMargin(ctx, tenantID, cropCycleID)
	if err != nil {
		s.LogError(ctx, err, "Failed to build sales margin", slog.String("crop_cycle_id", cropCycleID))
		return nil, fmt.Errorf("failed to build sales margin: %w", err)
	}

	return &dto.SalesMarginResponse{CropCycleID: cropCycleID, Rows: rows}, nil
}

// severityFor grades an absolute difference: zero passes, within allocation
// tolerance warns, anything larger fails.
func severityFor(diff decimal.Decimal) domain.CheckSeverity {
	abs := diff.Abs()
	switch {
	case abs.IsZero():
		return domain.CheckPass
	case abs.LessThanOrEqual(allocation.Tolerance):
		return domain.CheckWarn
	default:
		return domain.CheckFail
	}
}

// RunChecks executes the internal-consistency checks and persists the
// results. Takes no session so the nightly job can call it directly.
func (s *reportingService) RunChecks(ctx context.Context, tenantID string) ([]domain.ReconciliationCheck, error) {
	now := time.Now().UTC()
	checks := make([]domain.ReconciliationCheck, 0, 3)

	rows, err := s.reportingRepo.TrialBalance(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to build trial balance: %w", err)
	}
	debitTotal := decimal.Zero
	creditTotal := decimal.Zero
	for _, row := range rows {
		debitTotal = debitTotal.Add(row.DebitTotal)
		creditTotal = creditTotal.Add(row.CreditTotal)
	}
	tbDiff := debitTotal.Sub(creditTotal)
	checks = append(checks, domain.ReconciliationCheck{
		Name:       CheckTrialBalance,
		Severity:   severityFor(tbDiff),
		Difference: tbDiff,
		Detail:     fmt.Sprintf("debits %s vs credits %s", debitTotal.StringFixed(2), creditTotal.StringFixed(2)),
		CheckedAt:  now,
	})

	ar, err := s.accountRepo.FindAccountByCode(ctx, tenantID, codeAccountsReceivable)
	if err != nil {
		return nil, fmt.Errorf("failed to find accounts receivable account: %w", err)
	}
	openOutstanding, err := s.reportingRepo.SumOpenSalesOutstanding(ctx, tenantID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to sum open sales outstanding: %w", err)
	}
	arDiff := ar.Balance.Sub(openOutstanding)
	checks = append(checks, domain.ReconciliationCheck{
		Name:       CheckARControl,
		Severity:   severityFor(arDiff),
		Difference: arDiff,
		Detail:     fmt.Sprintf("AR control %s vs open sales %s", ar.Balance.StringFixed(2), openOutstanding.StringFixed(2)),
		CheckedAt:  now,
	})

	overReceived, err := s.reportingRepo.SumSalesOverReceived(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum over-received sales: %w", err)
	}
	checks = append(checks, domain.ReconciliationCheck{
		Name:       CheckReceivedWithin,
		Severity:   severityFor(overReceived),
		Difference: overReceived,
		Detail:     fmt.Sprintf("received exceeds total by %s", overReceived.StringFixed(2)),
		CheckedAt:  now,
	})

	if err := s.reportingRepo.SaveCheckResults(ctx, tenantID, checks); err != nil {
		s.LogError(ctx, err, "Failed to persist check results", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to persist check results: %w", err)
	}

	return checks, nil
}

// LatestChecks returns the most recently persisted check results.
func (s *reportingService) LatestChecks(ctx context.Context, session domain.Session, tenantID string) (*dto.ChecksResponse, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionReportsRead); err != nil {
		return nil, err
	}

	checks, err := s.reportingRepo.LatestCheckResults(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load check results", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to load check results: %w", err)
	}
	return &dto.ChecksResponse{Checks: checks}, nil
}

// TrialBalanceXLSX renders the trial balance as a spreadsheet.
func (s *reportingService) TrialBalanceXLSX(ctx context.Context, session domain.Session, tenantID string) ([]byte, error) {
	tb, err := s.TrialBalance(ctx, session, tenantID)
	if err != nil {
		return nil, err
	}
	data, err := export.TrialBalanceXLSX(tb.Rows, tb.DebitTotal, tb.CreditTotal)
	if err != nil {
		s.LogError(ctx, err, "Failed to render trial balance xlsx", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to render trial balance xlsx: %w", err)
	}
	return data, nil
}

// PartyLedgerXLSX renders a party's ledger as a spreadsheet.
func (s *reportingService) PartyLedgerXLSX(ctx context.Context, session domain.Session, tenantID, partyID string) ([]byte, error) {
	party, err := s.partyRepo.FindPartyByID(ctx, tenantID, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find party %s: %w", partyID, err)
	}
	ledger, err := s.PartyLedger(ctx, session, tenantID, partyID)
	if err != nil {
		return nil, err
	}
	data, err := export.PartyLedgerXLSX(party.Name, ledger.Rows, ledger.ClosingBalance)
	if err != nil {
		s.LogError(ctx, err, "Failed to render party ledger xlsx", slog.String("party_id", partyID))
		return nil, fmt.Errorf("failed to render party ledger xlsx: %w", err)
	}
	return data, nil
}

// PaymentReceiptPDF renders a printable receipt for a payment.
func (s *reportingService) PaymentReceiptPDF(ctx context.Context, session domain.Session, tenantID, paymentID string) ([]byte, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionPaymentRead); err != nil {
		return nil, err
	}

	payment, err := s.paymentRepo.FindPaymentByID(ctx, tenantID, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	party, err := s.partyRepo.FindPartyByID(ctx, tenantID, payment.PartyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find party %s: %w", payment.PartyID, err)
	}
	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tenant %s: %w", tenantID, err)
	}

	data, err := export.PaymentReceiptPDF(export.ReceiptData{
		TenantName: tenant.Name,
		Payment:    *payment,
		PartyName:  party.Name,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to render payment receipt", slog.String("payment_id", paymentID))
		return nil, fmt.Errorf("failed to render payment receipt: %w", err)
	}
	return data, nil
}
