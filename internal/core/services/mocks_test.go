package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/SahayFarms/farm_books_app/internal/dto"
)

// Shared repository and service mocks for the service test suites.

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tenantID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SaveAccounts(ctx context.Context, accounts []domain.Account) error {
	args := m.Called(ctx, accounts)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, tenantID, accountID, updatedBy string) error {
	args := m.Called(ctx, tenantID, accountID, updatedBy)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, updatedBy, updatedAt)
	return args.Error(0)
}

// MockPostingRepository is a mock type for the PostingRepositoryFacade interface
type MockPostingRepository struct {
	mock.Mock
}

func (m *MockPostingRepository) FindPostingGroupByID(ctx context.Context, tenantID, postingGroupID string) (*domain.PostingGroup, error) {
	args := m.Called(ctx, tenantID, postingGroupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingGroup), args.Error(1)
}

func (m *MockPostingRepository) FindPostingGroupByIdempotencyKey(ctx context.Context, tenantID, key string) (*domain.PostingGroup, error) {
	args := m.Called(ctx, tenantID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingGroup), args.Error(1)
}

func (m *MockPostingRepository) FindEntriesByPostingGroupID(ctx context.Context, postingGroupID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, postingGroupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockPostingRepository) ListPostingGroups(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.PostingGroup, *string, error) {
	args := m.Called(ctx, tenantID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.PostingGroup), token, args.Error(2)
}

func (m *MockPostingRepository) ListEntriesByAccount(ctx context.Context, tenantID, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, tenantID, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.LedgerEntry), token, args.Error(2)
}

func (m *MockPostingRepository) FindEntryByID(ctx context.Context, tenantID, ledgerEntryID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, ledgerEntryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockPostingRepository) ListEntriesForBankAccount(ctx context.Context, tenantID, accountID string, until time.Time) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, accountID, until)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockPostingRepository) SavePostingGroup(ctx context.Context, group domain.PostingGroup, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, group, entries, balanceChanges)
	return args.Error(0)
}

func (m *MockPostingRepository) UpdatePostingStatusAndLinks(ctx context.Context, postingGroupID string, status domain.PostingGroupStatus, reversedByID *string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, postingGroupID, status, reversedByID, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockPostingRepository) SetEntryCleared(ctx context.Context, tenantID, ledgerEntryID string, cleared bool, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tenantID, ledgerEntryID, cleared, updatedBy, updatedAt)
	return args.Error(0)
}

// MockCropCycleRepository is a mock type for the CropCycleRepositoryFacade interface
type MockCropCycleRepository struct {
	mock.Mock
}

func (m *MockCropCycleRepository) FindCropCycleByID(ctx context.Context, tenantID, cropCycleID string) (*domain.CropCycle, error) {
	args := m.Called(ctx, tenantID, cropCycleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CropCycle), args.Error(1)
}

func (m *MockCropCycleRepository) ListCropCycles(ctx context.Context, tenantID string, status *domain.CropCycleStatus) ([]domain.CropCycle, error) {
	args := m.Called(ctx, tenantID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CropCycle), args.Error(1)
}

func (m *MockCropCycleRepository) SaveCropCycle(ctx context.Context, cycle domain.CropCycle) error {
	args := m.Called(ctx, cycle)
	return args.Error(0)
}

func (m *MockCropCycleRepository) UpdateCropCycle(ctx context.Context, cycle domain.CropCycle) error {
	args := m.Called(ctx, cycle)
	return args.Error(0)
}

func (m *MockCropCycleRepository) CloseCropCycle(ctx context.Context, tenantID, cropCycleID string, endDate time.Time, updatedBy string) error {
	args := m.Called(ctx, tenantID, cropCycleID, endDate, updatedBy)
	return args.Error(0)
}

func (m *MockCropCycleRepository) SaveLandAllocation(ctx context.Context, alloc domain.LandAllocation) error {
	args := m.Called(ctx, alloc)
	return args.Error(0)
}

func (m *MockCropCycleRepository) FindLandAllocationByID(ctx context.Context, tenantID, landAllocationID string) (*domain.LandAllocation, error) {
	args := m.Called(ctx, tenantID, landAllocationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LandAllocation), args.Error(1)
}

func (m *MockCropCycleRepository) ListLandAllocationsByCropCycle(ctx context.Context, tenantID, cropCycleID string) ([]domain.LandAllocation, error) {
	args := m.Called(ctx, tenantID, cropCycleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LandAllocation), args.Error(1)
}

func (m *MockCropCycleRepository) UpdateLandAllocation(ctx context.Context, alloc domain.LandAllocation) error {
	args := m.Called(ctx, alloc)
	return args.Error(0)
}

func (m *MockCropCycleRepository) DeleteLandAllocation(ctx context.Context, tenantID, landAllocationID string) error {
	args := m.Called(ctx, tenantID, landAllocationID)
	return args.Error(0)
}

// MockSettlementRepository is a mock type for the SettlementRepositoryFacade interface
type MockSettlementRepository struct {
	mock.Mock
}

func (m *MockSettlementRepository) FindSettlementByID(ctx context.Context, tenantID, settlementID string) (*domain.Settlement, error) {
	args := m.Called(ctx, tenantID, settlementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settlement), args.Error(1)
}

func (m *MockSettlementRepository) FindSettlementByIdempotencyKey(ctx context.Context, tenantID, key string) (*domain.Settlement, error) {
	args := m.Called(ctx, tenantID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settlement), args.Error(1)
}

func (m *MockSettlementRepository) ListSettlements(ctx context.Context, tenantID string, cropCycleID *string) ([]domain.Settlement, error) {
	args := m.Called(ctx, tenantID, cropCycleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Settlement), args.Error(1)
}

func (m *MockSettlementRepository) SaveSettlement(ctx context.Context, settlement domain.Settlement, group domain.PostingGroup, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, settlement, group, entries, balanceChanges)
	return args.Error(0)
}

// MockPartyRepository is a mock type for the PartyRepositoryFacade interface
type MockPartyRepository struct {
	mock.Mock
}

func (m *MockPartyRepository) FindPartyByID(ctx context.Context, tenantID, partyID string) (*domain.Party, error) {
	args := m.Called(ctx, tenantID, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

func (m *MockPartyRepository) ListParties(ctx context.Context, tenantID string, role *domain.PartyRole, limit int, nextToken *string) ([]domain.Party, *string, error) {
	args := m.Called(ctx, tenantID, role, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.Party), token, args.Error(2)
}

func (m *MockPartyRepository) SaveParty(ctx context.Context, party domain.Party) error {
	args := m.Called(ctx, party)
	return args.Error(0)
}

func (m *MockPartyRepository) UpdateParty(ctx context.Context, party domain.Party) error {
	args := m.Called(ctx, party)
	return args.Error(0)
}

// MockSaleRepository is a mock type for the SaleRepositoryFacade interface
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindSaleByID(ctx context.Context, tenantID, saleID string) (*domain.Sale, error) {
	args := m.Called(ctx, tenantID, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sale), args.Error(1)
}

func (m *MockSaleRepository) ListSales(ctx context.Context, tenantID string, cropCycleID, buyerPartyID *string, limit int, nextToken *string) ([]domain.Sale, *string, error) {
	args := m.Called(ctx, tenantID, cropCycleID, buyerPartyID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.Sale), token, args.Error(2)
}

func (m *MockSaleRepository) ListOpenReceivables(ctx context.Context, tenantID, buyerPartyID string) ([]domain.OpenReceivable, error) {
	args := m.Called(ctx, tenantID, buyerPartyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OpenReceivable), args.Error(1)
}

func (m *MockSaleRepository) NextSaleNo(ctx context.Context, tenantID string) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

func (m *MockSaleRepository) SaveSale(ctx context.Context, sale domain.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) UpdateSale(ctx context.Context, sale domain.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) MarkSalePosted(ctx context.Context, tenantID, saleID, postingGroupID, updatedBy string) error {
	args := m.Called(ctx, tenantID, saleID, postingGroupID, updatedBy)
	return args.Error(0)
}

// MockPaymentRepository is a mock type for the PaymentRepositoryFacade interface
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, tenantID, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, tenantID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindPaymentByIdempotencyKey(ctx context.Context, tenantID, key string) (*domain.Payment, error) {
	args := m.Called(ctx, tenantID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListPayments(ctx context.Context, tenantID string, partyID *string, limit int, nextToken *string) ([]domain.Payment, *string, error) {
	args := m.Called(ctx, tenantID, partyID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.Payment), token, args.Error(2)
}

func (m *MockPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment, group domain.PostingGroup, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, payment, group, entries, balanceChanges)
	return args.Error(0)
}

// MockReconRepository is a mock type for the ReconRepositoryFacade interface
type MockReconRepository struct {
	mock.Mock
}

func (m *MockReconRepository) FindReconciliationByID(ctx context.Context, tenantID, reconID string) (*domain.BankReconciliation, error) {
	args := m.Called(ctx, tenantID, reconID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankReconciliation), args.Error(1)
}

func (m *MockReconRepository) FindReconciliationByIdempotencyKey(ctx context.Context, tenantID, key string) (*domain.BankReconciliation, error) {
	args := m.Called(ctx, tenantID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankReconciliation), args.Error(1)
}

func (m *MockReconRepository) ListReconciliations(ctx context.Context, tenantID string) ([]domain.BankReconciliation, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankReconciliation), args.Error(1)
}

func (m *MockReconRepository) FindStatementLineByID(ctx context.Context, reconID, lineID string) (*domain.StatementLine, error) {
	args := m.Called(ctx, reconID, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatementLine), args.Error(1)
}

func (m *MockReconRepository) ListStatementLines(ctx context.Context, reconID string) ([]domain.StatementLine, error) {
	args := m.Called(ctx, reconID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatementLine), args.Error(1)
}

func (m *MockReconRepository) SaveReconciliation(ctx context.Context, recon domain.BankReconciliation) error {
	args := m.Called(ctx, recon)
	return args.Error(0)
}

func (m *MockReconRepository) FinalizeReconciliation(ctx context.Context, tenantID, reconID, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tenantID, reconID, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockReconRepository) SaveStatementLine(ctx context.Context, line domain.StatementLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockReconRepository) ApplyStatementLineMatch(ctx context.Context, tenantID, lineID string, status domain.StatementLineStatus, ledgerEntryID *string, cleared bool, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tenantID, lineID, status, ledgerEntryID, cleared, updatedBy, updatedAt)
	return args.Error(0)
}

// MockTenantRepository is a mock type for the TenantRepositoryFacade interface
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) ListActiveTenants(ctx context.Context) ([]domain.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) SaveTenant(ctx context.Context, tenant domain.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) UpdateTenant(ctx context.Context, tenant domain.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) DeleteTenant(ctx context.Context, tenantID string) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

func (m *MockTenantRepository) AddUserToTenant(ctx context.Context, membership domain.UserTenant) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockTenantRepository) FindUserTenantRole(ctx context.Context, userID, tenantID string) (*domain.UserTenant, error) {
	args := m.Called(ctx, userID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserTenant), args.Error(1)
}

func (m *MockTenantRepository) ListTenantMembers(ctx context.Context, tenantID string) ([]domain.UserTenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserTenant), args.Error(1)
}

func (m *MockTenantRepository) ListUserTenants(ctx context.Context, userID string) ([]domain.UserTenant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserTenant), args.Error(1)
}

func (m *MockTenantRepository) UpdateUserTenantRole(ctx context.Context, userID, tenantID string, role domain.TenantRole) error {
	args := m.Called(ctx, userID, tenantID, role)
	return args.Error(0)
}

func (m *MockTenantRepository) RemoveUserFromTenant(ctx context.Context, userID, tenantID string) error {
	args := m.Called(ctx, userID, tenantID)
	return args.Error(0)
}

func (m *MockTenantRepository) UpsertModuleSetting(ctx context.Context, setting domain.ModuleSetting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

func (m *MockTenantRepository) ListModuleSettings(ctx context.Context, tenantID string) ([]domain.ModuleSetting, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ModuleSetting), args.Error(1)
}

func (m *MockTenantRepository) FindModuleSetting(ctx context.Context, tenantID string, module domain.ModuleKey) (*domain.ModuleSetting, error) {
	args := m.Called(ctx, tenantID, module)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModuleSetting), args.Error(1)
}

// MockUserRepository is a mock type for the UserRepositoryFacade interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockReportingService is a mock type for the ReportingSvcFacade interface
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) TrialBalance(ctx context.Context, session domain.Session, tenantID string) (*dto.TrialBalanceResponse, error) {
	args := m.Called(ctx, session, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TrialBalanceResponse), args.Error(1)
}

func (m *MockReportingService) PartyLedger(ctx context.Context, session domain.Session, tenantID, partyID string) (*dto.PartyLedgerResponse, error) {
	args := m.Called(ctx, session, tenantID, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PartyLedgerResponse), args.Error(1)
}

func (m *MockReportingService) ReceivablesAgeing(ctx context.Context, session domain.Session, tenantID string, asOf time.Time) (*dto.AgeingResponse, error) {
	args := m.Called(ctx, session, tenantID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AgeingResponse), args.Error(1)
}

func (m *MockReportingService) CropCyclePnL(ctx context.Context, session domain.Session, tenantID, cropCycleID string) (*domain.CropCyclePnL, error) {
	args := m.Called(ctx, session, tenantID, cropCycleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CropCyclePnL), args.Error(1)
}

func (m *MockReportingService) SalesMargin(ctx context.Context, session domain.Session, tenantID, cropCycleID string) (*dto.SalesMarginResponse, error) {
	args := m.Called(ctx, session, tenantID, cropCycleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SalesMarginResponse), args.Error(1)
}

func (m *MockReportingService) RunChecks(ctx context.Context, tenantID string) ([]domain.ReconciliationCheck, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationCheck), args.Error(1)
}

func (m *MockReportingService) LatestChecks(ctx context.Context, session domain.Session, tenantID string) (*dto.ChecksResponse, error) {
	args := m.Called(ctx, session, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ChecksResponse), args.Error(1)
}

func (m *MockReportingService) TrialBalanceXLSX(ctx context.Context, session domain.Session, tenantID string) ([]byte, error) {
	args := m.Called(ctx, session, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockReportingService) PartyLedgerXLSX(ctx context.Context, session domain.Session, tenantID, partyID string) ([]byte, error) {
	args := m.Called(ctx, session, tenantID, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockReportingService) PaymentReceiptPDF(ctx context.Context, session domain.Session, tenantID, paymentID string) ([]byte, error) {
	args := m.Called(ctx, session, tenantID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
