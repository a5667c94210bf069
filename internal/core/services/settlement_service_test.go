package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SahayFarms/farm_books_app/internal/apperrors"
	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
	"github.com/SahayFarms/farm_books_app/internal/core/services"
	"github.com/SahayFarms/farm_books_app/internal/dto"
)

type SettlementServiceTestSuite struct {
	suite.Suite
	mockSettlementRepo *MockSettlementRepository
	mockCycleRepo      *MockCropCycleRepository
	mockAccountRepo    *MockAccountRepository
	service            portssvc.SettlementSvcFacade

	tenantID string
	session  domain.Session
}

func (suite *SettlementServiceTestSuite) SetupTest() {
	suite.mockSettlementRepo = new(MockSettlementRepository)
	suite.mockCycleRepo = new(MockCropCycleRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewSettlementService(suite.mockSettlementRepo, suite.mockCycleRepo, suite.mockAccountRepo)

	suite.tenantID = "tenant-1"
	suite.session = domain.Session{UserID: "user-1", TenantID: suite.tenantID, Role: domain.RoleTenantAdmin}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sharePct(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func (suite *SettlementServiceTestSuite) TestCreateSettlement_DistributesSharesWithRemainder() {
	ctx := context.Background()
	req := dto.CreateSettlementRequest{
		CropCycleID:    "cycle-1",
		TotalAmount:    dec("50.00"),
		IdempotencyKey: "settle-key-1",
	}

	cycle := &domain.CropCycle{CropCycleID: "cycle-1", TenantID: suite.tenantID, Name: "Kharif 2025", Status: domain.CropCycleOpen}
	rent := dec("5000")
	allocs := []domain.LandAllocation{
		{LandAllocationID: "la-1", PartyID: "party-a", SharePercent: sharePct("33.33")},
		{LandAllocationID: "la-2", PartyID: "party-b", SharePercent: sharePct("66.67")},
		{LandAllocationID: "la-3", PartyID: "party-c", FixedRent: &rent}, // fixed rent, no share
	}

	sharesExpense := &domain.Account{AccountID: "acc-shares", TenantID: suite.tenantID, Code: "5300", Type: domain.Expense, IsActive: true}
	payable := &domain.Account{AccountID: "acc-ap", TenantID: suite.tenantID, Code: "2000", Type: domain.Liability, IsActive: true}

	suite.mockSettlementRepo.On("FindSettlementByIdempotencyKey", ctx, suite.tenantID, req.IdempotencyKey).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCycleRepo.On("FindCropCycleByID", ctx, suite.tenantID, "cycle-1").Return(cycle, nil).Once()
	suite.mockCycleRepo.On("ListLandAllocationsByCropCycle", ctx, suite.tenantID, "cycle-1").Return(allocs, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.tenantID, "5300").Return(sharesExpense, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.tenantID, "2000").Return(payable, nil).Once()
	suite.mockSettlementRepo.On("SaveSettlement", ctx, mock.AnythingOfType("domain.Settlement"), mock.AnythingOfType("domain.PostingGroup"), mock.AnythingOfType("[]domain.LedgerEntry"), mock.MatchedBy(func(bc map[string]decimal.Decimal) bool {
		return bc["acc-shares"].Equal(dec("50.00")) && bc["acc-ap"].Equal(dec("50.00"))
	})).Return(nil).Once()

	settlement, err := suite.service.CreateSettlement(ctx, suite.session, suite.tenantID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(settlement)
	suite.Equal(domain.SettlementPosted, settlement.Status)
	suite.Require().NotNil(settlement.PostingGroupID)
	suite.Require().Len(settlement.Lines, 2)

	// 33.33% of 50.00 rounds to 16.67, 66.67% rounds to 33.34; the extra
	// cent comes off the largest share so the lines sum to the total.
	suite.Equal("party-a", settlement.Lines[0].PartyID)
	suite.True(settlement.Lines[0].Amount.Equal(dec("16.67")), "got %s", settlement.Lines[0].Amount)
	suite.Equal("party-b", settlement.Lines[1].PartyID)
	suite.True(settlement.Lines[1].Amount.Equal(dec("33.33")), "got %s", settlement.Lines[1].Amount)

	sum := decimal.Zero
	for _, l := range settlement.Lines {
		sum = sum.Add(l.Amount)
	}
	suite.True(sum.Equal(req.TotalAmount))

	suite.mockSettlementRepo.AssertExpectations(suite.T())
	suite.mockCycleRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestCreateSettlement_PostsAtomicallyWithSettlement() {
	ctx := context.Background()
	req := dto.CreateSettlementRequest{
		CropCycleID:    "cycle-1",
		TotalAmount:    dec("100.00"),
		IdempotencyKey: "settle-key-3",
	}

	cycle := &domain.CropCycle{CropCycleID: "cycle-1", TenantID: suite.tenantID, Name: "Rabi 2025", Status: domain.CropCycleOpen}
	allocs := []domain.LandAllocation{
		{LandAllocationID: "la-1", PartyID: "party-a", SharePercent: sharePct("100")},
	}
	sharesExpense := &domain.Account{AccountID: "acc-shares", TenantID: suite.tenantID, Code: "5300", Type: domain.Expense, IsActive: true}
	payable := &domain.Account{AccountID: "acc-ap", TenantID: suite.tenantID, Code: "2000", Type: domain.Liability, IsActive: true}

	suite.mockSettlementRepo.On("FindSettlementByIdempotencyKey", ctx, suite.tenantID, req.IdempotencyKey).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCycleRepo.On("FindCropCycleByID", ctx, suite.tenantID, "cycle-1").Return(cycle, nil).Once()
	suite.mockCycleRepo.On("ListLandAllocationsByCropCycle", ctx, suite.tenantID, "cycle-1").Return(allocs, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.tenantID, "5300").Return(sharesExpense, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.tenantID, "2000").Return(payable, nil).Once()

	// The settlement, its posting group and the entries travel in one
	// repository call, linked to each other and carrying the same key.
	var savedGroup domain.PostingGroup
	var savedSettlementID string
	suite.mockSettlementRepo.On("SaveSettlement", ctx,
		mock.MatchedBy(func(s domain.Settlement) bool {
			savedSettlementID = s.SettlementID
			return s.IdempotencyKey == req.IdempotencyKey && s.PostingGroupID != nil
		}),
		mock.MatchedBy(func(g domain.PostingGroup) bool {
			savedGroup = g
			return g.SourceType == domain.SourceSettlement && g.IdempotencyKey == req.IdempotencyKey
		}),
		mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
			debits, credits := decimal.Zero, decimal.Zero
			for _, e := range entries {
				debits = debits.Add(e.DebitAmount)
				credits = credits.Add(e.CreditAmount)
			}
			return len(entries) == 2 && debits.Equal(credits)
		}),
		mock.Anything,
	).Return(nil).Once()

	settlement, err := suite.service.CreateSettlement(ctx, suite.session, suite.tenantID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(settlement)
	suite.Equal(savedSettlementID, savedGroup.SourceID)
	suite.Require().NotNil(settlement.PostingGroupID)
	suite.Equal(savedGroup.PostingGroupID, *settlement.PostingGroupID)
	suite.mockSettlementRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestCreateSettlement_SaveFailureIsReplayable() {
	ctx := context.Background()
	req := dto.CreateSettlementRequest{
		CropCycleID:    "cycle-1",
		TotalAmount:    dec("100.00"),
		IdempotencyKey: "settle-key-4",
	}

	cycle := &domain.CropCycle{CropCycleID: "cycle-1", TenantID: suite.tenantID, Status: domain.CropCycleOpen}
	allocs := []domain.LandAllocation{
		{LandAllocationID: "la-1", PartyID: "party-a", SharePercent: sharePct("100")},
	}
	sharesExpense := &domain.Account{AccountID: "acc-shares", TenantID: suite.tenantID, Code: "5300", Type: domain.Expense, IsActive: true}
	payable := &domain.Account{AccountID: "acc-ap", TenantID: suite.tenantID, Code: "2000", Type: domain.Liability, IsActive: true}

	suite.mockSettlementRepo.On("FindSettlementByIdempotencyKey", ctx, suite.tenantID, req.IdempotencyKey).Return(nil, apperrors.ErrNotFound).Twice()
	suite.mockCycleRepo.On("FindCropCycleByID", ctx, suite.tenantID, "cycle-1").Return(cycle, nil).Twice()
	suite.mockCycleRepo.On("ListLandAllocationsByCropCycle", ctx, suite.tenantID, "cycle-1").Return(allocs, nil).Twice()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.tenantID, "5300").Return(sharesExpense, nil).Twice()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.tenantID, "2000").Return(payable, nil).Twice()

	// First attempt dies inside the save; nothing was committed, so the retry
	// with the same key goes through instead of tripping on a half-posted
	// group.
	suite.mockSettlementRepo.On("SaveSettlement", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(context.DeadlineExceeded).Once()
	suite.mockSettlementRepo.On("SaveSettlement", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	settlement, err := suite.service.CreateSettlement(ctx, suite.session, suite.tenantID, req)
	suite.Require().Error(err)
	suite.Nil(settlement)

	settlement, err = suite.service.CreateSettlement(ctx, suite.session, suite.tenantID, req)
	suite.Require().NoError(err)
	suite.Require().NotNil(settlement)
	suite.mockSettlementRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestCreateSettlement_ReplaysIdempotencyKey() {
	ctx := context.Background()
	req := dto.CreateSettlementRequest{
		CropCycleID:    "cycle-1",
		TotalAmount:    dec("100.00"),
		IdempotencyKey: "settle-key-1",
	}
	existing := &domain.Settlement{SettlementID: "settle-1", TenantID: suite.tenantID, Status: domain.SettlementPosted}

	suite.mockSettlementRepo.On("FindSettlementByIdempotencyKey", ctx, suite.tenantID, req.IdempotencyKey).Return(existing, nil).Once()

	settlement, err := suite.service.CreateSettlement(ctx, suite.session, suite.tenantID, req)

	suite.Require().NoError(err)
	suite.Equal(existing, settlement)
	suite.mockSettlementRepo.AssertExpectations(suite.T())
	suite.mockSettlementRepo.AssertNotCalled(suite.T(), "SaveSettlement", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestCreateSettlement_NoShareParties() {
	ctx := context.Background()
	req := dto.CreateSettlementRequest{
		CropCycleID:    "cycle-1",
		TotalAmount:    dec("100.00"),
		IdempotencyKey: "settle-key-2",
	}

	cycle := &domain.CropCycle{CropCycleID: "cycle-1", TenantID: suite.tenantID, Status: domain.CropCycleOpen}
	rent := dec("5000")
	allocs := []domain.LandAllocation{
		{LandAllocationID: "la-1", PartyID: "party-c", FixedRent: &rent},
	}

	suite.mockSettlementRepo.On("FindSettlementByIdempotencyKey", ctx, suite.tenantID, req.IdempotencyKey).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCycleRepo.On("FindCropCycleByID", ctx, suite.tenantID, "cycle-1").Return(cycle, nil).Once()
	suite.mockCycleRepo.On("ListLandAllocationsByCropCycle", ctx, suite.tenantID, "cycle-1").Return(allocs, nil).Once()

	settlement, err := suite.service.CreateSettlement(ctx, suite.session, suite.tenantID, req)

	suite.Require().Error(err)
	suite.Nil(settlement)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorContains(err, services.ErrNoShareParties.Error())
	suite.mockSettlementRepo.AssertNotCalled(suite.T(), "SaveSettlement", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestCreateSettlement_ForbiddenForViewer() {
	ctx := context.Background()
	viewer := domain.Session{UserID: "user-2", TenantID: suite.tenantID, Role: domain.RoleViewer}
	req := dto.CreateSettlementRequest{CropCycleID: "cycle-1", TotalAmount: dec("100.00"), IdempotencyKey: "k"}

	settlement, err := suite.service.CreateSettlement(ctx, viewer, suite.tenantID, req)

	suite.Require().Error(err)
	suite.Nil(settlement)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockSettlementRepo.AssertNotCalled(suite.T(), "FindSettlementByIdempotencyKey", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestGetSettlementByID_NotFound() {
	ctx := context.Background()

	suite.mockSettlementRepo.On("FindSettlementByID", ctx, suite.tenantID, "missing").Return(nil, apperrors.ErrNotFound).Once()

	settlement, err := suite.service.GetSettlementByID(ctx, suite.session, suite.tenantID, "missing")

	suite.Require().Error(err)
	suite.Nil(settlement)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockSettlementRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestListSettlements_FiltersByCropCycle() {
	ctx := context.Background()
	cycleID := "cycle-1"
	expected := []domain.Settlement{{SettlementID: "settle-1", CropCycleID: cycleID}}

	suite.mockSettlementRepo.On("ListSettlements", ctx, suite.tenantID, &cycleID).Return(expected, nil).Once()

	settlements, err := suite.service.ListSettlements(ctx, suite.session, suite.tenantID, &cycleID)

	suite.Require().NoError(err)
	suite.Equal(expected, settlements)
	suite.mockSettlementRepo.AssertExpectations(suite.T())
}

func TestSettlementServiceTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(SettlementServiceTestSuite))
}
