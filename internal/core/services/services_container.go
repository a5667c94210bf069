package services

import (
	portsrepo "github.com/SahayFarms/farm_books_app/internal/core/ports/repositories"
	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
	"github.com/SahayFarms/farm_books_app/pkg/config"
)

// NewServiceContainer wires all application services onto the repository
// provider. Reporting is built first because cycle close depends on it.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Reporting = NewReportingService(
		repos.ReportingRepo,
		repos.AccountRepo,
		repos.PaymentRepo,
		repos.PartyRepo,
		repos.TenantRepo,
	)

	container.Auth = NewAuthService(cfg, repos.UserRepo, repos.TenantRepo)
	container.User = NewUserService(repos.UserRepo)
	container.Tenant = NewTenantService(repos.TenantRepo, repos.UserRepo, repos.AccountRepo)
	container.Party = NewPartyService(repos.PartyRepo)
	container.Account = NewAccountService(repos.AccountRepo)
	container.Posting = NewPostingService(repos.PostingRepo, repos.AccountRepo)
	container.Sale = NewSaleService(repos.SaleRepo, repos.PostingRepo, repos.AccountRepo, repos.PartyRepo, repos.CropCycleRepo)
	container.Payment = NewPaymentService(repos.PaymentRepo, repos.SaleRepo, repos.AccountRepo, repos.PartyRepo)
	container.Advance = NewAdvanceService(repos.AdvanceRepo, repos.PostingRepo, repos.AccountRepo, repos.PartyRepo)
	container.CropCycle = NewCropCycleService(repos.CropCycleRepo, repos.PartyRepo, container.Reporting)
	container.Settlement = NewSettlementService(repos.SettlementRepo, repos.CropCycleRepo, repos.AccountRepo)
	container.Recon = NewReconService(repos.ReconRepo, repos.PostingRepo, repos.AccountRepo)
	container.DailyBook = NewDailyBookService(repos.DailyBookRepo, repos.PostingRepo, repos.AccountRepo, repos.CropCycleRepo)

	return container
}
