package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/SahayFarms/farm_books_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgx-backed repositories onto one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	postingRepo := newPgxPostingRepository(dbPool, accountRepo).(*PgxPostingRepository)

	return portsrepo.RepositoryProvider{
		UserRepo:       newPgxUserRepository(dbPool),
		TenantRepo:     newPgxTenantRepository(dbPool),
		PartyRepo:      newPgxPartyRepository(dbPool),
		AccountRepo:    accountRepo,
		PostingRepo:    postingRepo,
		SaleRepo:       newPgxSaleRepository(dbPool),
		PaymentRepo:    newPgxPaymentRepository(dbPool, postingRepo),
		AdvanceRepo:    newPgxAdvanceRepository(dbPool),
		CropCycleRepo:  newPgxCropCycleRepository(dbPool),
		SettlementRepo: newPgxSettlementRepository(dbPool, postingRepo),
		ReconRepo:      newPgxReconRepository(dbPool),
		DailyBookRepo:  newPgxDailyBookRepository(dbPool),
		ReportingRepo:  newReportingRepository(dbPool),
	}
}
