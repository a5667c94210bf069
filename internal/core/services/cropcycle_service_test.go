package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SahayFarms/farm_books_app/internal/apperrors"
	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
	"github.com/SahayFarms/farm_books_app/internal/core/services"
	"github.com/SahayFarms/farm_books_app/internal/dto"
)

type CropCycleServiceTestSuite struct {
	suite.Suite
	mockCycleRepo    *MockCropCycleRepository
	mockPartyRepo    *MockPartyRepository
	mockReportingSvc *MockReportingService
	service          portssvc.CropCycleSvcFacade

	tenantID string
	session  domain.Session
}

func (suite *CropCycleServiceTestSuite) SetupTest() {
	suite.mockCycleRepo = new(MockCropCycleRepository)
	suite.mockPartyRepo = new(MockPartyRepository)
	suite.mockReportingSvc = new(MockReportingService)
	suite.service = services.NewCropCycleService(suite.mockCycleRepo, suite.mockPartyRepo, suite.mockReportingSvc)

	suite.tenantID = "tenant-1"
	suite.session = domain.Session{UserID: "user-1", TenantID: suite.tenantID, Role: domain.RoleTenantAdmin}
}

func (suite *CropCycleServiceTestSuite) openCycle() *domain.CropCycle {
	return &domain.CropCycle{
		CropCycleID: "cycle-1",
		TenantID:    suite.tenantID,
		Name:        "Kharif 2025",
		Status:      domain.CropCycleOpen,
		StartDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (suite *CropCycleServiceTestSuite) TestCloseCropCycle_FailCheckBlocks() {
	ctx := context.Background()
	req := dto.CloseCropCycleRequest{EndDate: time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC), Force: true}
	checks := []domain.ReconciliationCheck{
		{Name: "trial_balance", Severity: domain.CheckFail, Difference: dec("12.50")},
	}

	suite.mockCycleRepo.On("FindCropCycleByID", ctx, suite.tenantID, "cycle-1").Return(suite.openCycle(), nil).Once()
	suite.mockReportingSvc.On("RunChecks", ctx, suite.tenantID).Return(checks, nil).Once()

	cycle, err := suite.service.CloseCropCycle(ctx, suite.session, suite.tenantID, "cycle-1", req)

	suite.Require().Error(err)
	suite.Nil(cycle)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.ErrorContains(err, services.ErrChecksBlockClose.Error())
	suite.mockCycleRepo.AssertNotCalled(suite.T(), "CloseCropCycle", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CropCycleServiceTestSuite) TestCloseCropCycle_WarnBlocksWithoutForce() {
	ctx := context.Background()
	req := dto.CloseCropCycleRequest{EndDate: time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)}
	checks := []domain.ReconciliationCheck{
		{Name: "ar_control", Severity: domain.CheckWarn, Difference: dec("0.01")},
	}

	suite.mockCycleRepo.On("FindCropCycleByID", ctx, suite.tenantID, "cycle-1").Return(suite.openCycle(), nil).Once()
	suite.mockReportingSvc.On("RunChecks", ctx, suite.tenantID).Return(checks, nil).Once()

	cycle, err := suite.service.CloseCropCycle(ctx, suite.session, suite.tenantID, "cycle-1", req)

	suite.Require().Error(err)
	suite.Nil(cycle)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockCycleRepo.AssertNotCalled(suite.T(), "CloseCropCycle", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CropCycleServiceTestSuite) TestCloseCropCycle_ForceOverridesWarn() {
	ctx := context.Background()
	endDate := time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)
	req := dto.CloseCropCycleRequest{EndDate: endDate, Force: true}
	checks := []domain.ReconciliationCheck{
		{Name: "ar_control", Severity: domain.CheckWarn, Difference: dec("0.01")},
	}

	suite.mockCycleRepo.On("FindCropCycleByID", ctx, suite.tenantID, "cycle-1").Return(suite.openCycle(), nil).Once()
	suite.mockReportingSvc.On("RunChecks", ctx, suite.tenantID).Return(checks, nil).Once()
	suite.mockCycleRepo.On("CloseCropCycle", ctx, suite.tenantID, "cycle-1", endDate, suite.session.UserID).Return(nil).Once()

	cycle, err := suite.service.CloseCropCycle(ctx, suite.session, suite.tenantID, "cycle-1", req)

	suite.Require().NoError(err)
	suite.Require().NotNil(cycle)
	suite.Equal(domain.CropCycleClosed, cycle.Status)
	suite.Require().NotNil(cycle.EndDate)
	suite.True(cycle.EndDate.Equal(endDate))
	suite.mockCycleRepo.AssertExpectations(suite.T())
	suite.mockReportingSvc.AssertExpectations(suite.T())
}

func (suite *CropCycleServiceTestSuite) TestCloseCropCycle_AlreadyClosed() {
	ctx := context.Background()
	closed := suite.openCycle()
	closed.Status = domain.CropCycleClosed
	req := dto.CloseCropCycleRequest{EndDate: time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)}

	suite.mockCycleRepo.On("FindCropCycleByID", ctx, suite.tenantID, "cycle-1").Return(closed, nil).Once()

	cycle, err := suite.service.CloseCropCycle(ctx, suite.session, suite.tenantID, "cycle-1", req)

	suite.Require().Error(err)
	suite.Nil(cycle)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockReportingSvc.AssertNotCalled(suite.T(), "RunChecks", mock.Anything, mock.Anything)
}

func (suite *CropCycleServiceTestSuite) TestCloseCropCycle_EndDateBeforeStart() {
	ctx := context.Background()
	req := dto.CloseCropCycleRequest{EndDate: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)}

	suite.mockCycleRepo.On("FindCropCycleByID", ctx, suite.tenantID, "cycle-1").Return(suite.openCycle(), nil).Once()

	cycle, err := suite.service.CloseCropCycle(ctx, suite.session, suite.tenantID, "cycle-1", req)

	suite.Require().Error(err)
	suite.Nil(cycle)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReportingSvc.AssertNotCalled(suite.T(), "RunChecks", mock.Anything, mock.Anything)
}

func (suite *CropCycleServiceTestSuite) TestCreateLandAllocation_Success() {
	ctx := context.Background()
	req := dto.CreateLandAllocationRequest{
		PartyID:      "party-1",
		PlotName:     "North field",
		AreaAcres:    dec("4.5"),
		SharePercent: sharePct("50"),
	}
	party := &domain.Party{PartyID: "party-1", TenantID: suite.tenantID, Name: "Ram", Roles: []domain.PartyRole{domain.PartySharer}, IsActive: true}

	suite.mockCycleRepo.On("FindCropCycleByID", ctx, suite.tenantID, "cycle-1").Return(suite.openCycle(), nil).Once()
	suite.mockPartyRepo.On("FindPartyByID", ctx, suite.tenantID, "party-1").Return(party, nil).Once()
	suite.mockCycleRepo.On("SaveLandAllocation", ctx, mock.MatchedBy(func(a domain.LandAllocation) bool {
		return a.CropCycleID == "cycle-1" && a.PartyID == "party-1" && a.SharePercent != nil && a.SharePercent.Equal(dec("50")) && a.FixedRent == nil
	})).Return(nil).Once()

	alloc, err := suite.service.CreateLandAllocation(ctx, suite.session, suite.tenantID, "cycle-1", req)

	suite.Require().NoError(err)
	suite.Require().NotNil(alloc)
	suite.NotEmpty(alloc.LandAllocationID)
	suite.Equal("North field", alloc.PlotName)
	suite.mockCycleRepo.AssertExpectations(suite.T())
	suite.mockPartyRepo.AssertExpectations(suite.T())
}

func (suite *CropCycleServiceTestSuite) TestCreateLandAllocation_ShareAndRentExclusive() {
	ctx := context.Background()
	rent := dec("5000")

	// Both set.
	both := dto.CreateLandAllocationRequest{PartyID: "party-1", PlotName: "p", AreaAcres: dec("1"), SharePercent: sharePct("50"), FixedRent: &rent}
	suite.mockCycleRepo.On("FindCropCycleByID", ctx, suite.tenantID, "cycle-1").Return(suite.openCycle(), nil).Twice()

	alloc, err := suite.service.CreateLandAllocation(ctx, suite.session, suite.tenantID, "cycle-1", both)
	suite.Require().Error(err)
	suite.Nil(alloc)
	suite.ErrorIs(err, apperrors.ErrValidation)

	// Neither set.
	neither := dto.CreateLandAllocationRequest{PartyID: "party-1", PlotName: "p", AreaAcres: dec("1")}
	alloc, err = suite.service.CreateLandAllocation(ctx, suite.session, suite.tenantID, "cycle-1", neither)
	suite.Require().Error(err)
	suite.Nil(alloc)
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockCycleRepo.AssertNotCalled(suite.T(), "SaveLandAllocation", mock.Anything, mock.Anything)
}

func (suite *CropCycleServiceTestSuite) TestCreateLandAllocation_SharePercentOutOfRange() {
	ctx := context.Background()
	req := dto.CreateLandAllocationRequest{PartyID: "party-1", PlotName: "p", AreaAcres: dec("1"), SharePercent: sharePct("120")}

	suite.mockCycleRepo.On("FindCropCycleByID", ctx, suite.tenantID, "cycle-1").Return(suite.openCycle(), nil).Once()

	alloc, err := suite.service.CreateLandAllocation(ctx, suite.session, suite.tenantID, "cycle-1", req)

	suite.Require().Error(err)
	suite.Nil(alloc)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CropCycleServiceTestSuite) TestCreateLandAllocation_RequiresLandlordOrSharer() {
	ctx := context.Background()
	req := dto.CreateLandAllocationRequest{PartyID: "party-1", PlotName: "p", AreaAcres: dec("1"), SharePercent: sharePct("50")}
	buyer := &domain.Party{PartyID: "party-1", TenantID: suite.tenantID, Roles: []domain.PartyRole{domain.PartyBuyer}, IsActive: true}

	suite.mockCycleRepo.On("FindCropCycleByID", ctx, suite.tenantID, "cycle-1").Return(suite.openCycle(), nil).Once()
	suite.mockPartyRepo.On("FindPartyByID", ctx, suite.tenantID, "party-1").Return(buyer, nil).Once()

	alloc, err := suite.service.CreateLandAllocation(ctx, suite.session, suite.tenantID, "cycle-1", req)

	suite.Require().Error(err)
	suite.Nil(alloc)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCycleRepo.AssertNotCalled(suite.T(), "SaveLandAllocation", mock.Anything, mock.Anything)
}

func (suite *CropCycleServiceTestSuite) TestCreateLandAllocation_ClosedCycleRejected() {
	ctx := context.Background()
	closed := suite.openCycle()
	closed.Status = domain.CropCycleClosed
	req := dto.CreateLandAllocationRequest{PartyID: "party-1", PlotName: "p", AreaAcres: dec("1"), SharePercent: sharePct("50")}

	suite.mockCycleRepo.On("FindCropCycleByID", ctx, suite.tenantID, "cycle-1").Return(closed, nil).Once()

	alloc, err := suite.service.CreateLandAllocation(ctx, suite.session, suite.tenantID, "cycle-1", req)

	suite.Require().Error(err)
	suite.Nil(alloc)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *CropCycleServiceTestSuite) TestUpdateCropCycle_ClosedRejected() {
	ctx := context.Background()
	closed := suite.openCycle()
	closed.Status = domain.CropCycleClosed
	name := "Renamed"

	suite.mockCycleRepo.On("FindCropCycleByID", ctx, suite.tenantID, "cycle-1").Return(closed, nil).Once()

	cycle, err := suite.service.UpdateCropCycle(ctx, suite.session, suite.tenantID, "cycle-1", dto.UpdateCropCycleRequest{Name: &name})

	suite.Require().Error(err)
	suite.Nil(cycle)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockCycleRepo.AssertNotCalled(suite.T(), "UpdateCropCycle", mock.Anything, mock.Anything)
}

func TestCropCycleServiceTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(CropCycleServiceTestSuite))
}
