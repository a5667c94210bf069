package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Auth       AuthSvcFacade
	User       UserSvcFacade
	Tenant     TenantSvcFacade
	Party      PartySvcFacade
	Account    AccountSvcFacade
	Posting    PostingSvcFacade
	Sale       SaleSvcFacade
	Payment    PaymentSvcFacade
	Advance    AdvanceSvcFacade
	CropCycle  CropCycleSvcFacade
	Settlement SettlementSvcFacade
	Recon      ReconSvcFacade
	DailyBook  DailyBookSvcFacade
	Reporting  ReportingSvcFacade
}
