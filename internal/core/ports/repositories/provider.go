package repositories

// RepositoryProvider bundles all repository facades for service wiring.
type RepositoryProvider struct {
	UserRepo       UserRepositoryFacade
	TenantRepo     TenantRepositoryFacade
	PartyRepo      PartyRepositoryFacade
	AccountRepo    AccountRepositoryFacade
	PostingRepo    PostingRepositoryFacade
	SaleRepo       SaleRepositoryFacade
	PaymentRepo    PaymentRepositoryFacade
	AdvanceRepo    AdvanceRepositoryFacade
	CropCycleRepo  CropCycleRepositoryFacade
	SettlementRepo SettlementRepositoryFacade
	ReconRepo      ReconRepositoryFacade
	DailyBookRepo  DailyBookRepositoryFacade
	ReportingRepo  ReportingRepository
}
