package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SahayFarms/farm_books_app/internal/apperrors"
	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
	"github.com/SahayFarms/farm_books_app/internal/core/services"
)

type TenantServiceTestSuite struct {
	suite.Suite
	mockTenantRepo  *MockTenantRepository
	mockUserRepo    *MockUserRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.TenantSvcFacade

	platformSession domain.Session
}

func (suite *TenantServiceTestSuite) SetupTest() {
	suite.mockTenantRepo = new(MockTenantRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewTenantService(suite.mockTenantRepo, suite.mockUserRepo, suite.mockAccountRepo)

	suite.platformSession = domain.Session{UserID: "admin-1", IsPlatformAdmin: true}
}

func (suite *TenantServiceTestSuite) TestDeleteTenant_Success() {
	ctx := context.Background()
	tenant := &domain.Tenant{TenantID: "tenant-1", Name: "Sahay Farms", IsActive: true}

	suite.mockTenantRepo.On("FindTenantByID", ctx, "tenant-1").Return(tenant, nil).Once()
	suite.mockTenantRepo.On("DeleteTenant", ctx, "tenant-1").Return(nil).Once()

	err := suite.service.DeleteTenant(ctx, suite.platformSession, "tenant-1")

	suite.Require().NoError(err)
	suite.mockTenantRepo.AssertExpectations(suite.T())
}

func (suite *TenantServiceTestSuite) TestDeleteTenant_RequiresPlatformAdmin() {
	ctx := context.Background()
	tenantAdmin := domain.Session{UserID: "user-1", TenantID: "tenant-1", Role: domain.RoleTenantAdmin}

	err := suite.service.DeleteTenant(ctx, tenantAdmin, "tenant-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockTenantRepo.AssertNotCalled(suite.T(), "DeleteTenant", mock.Anything, mock.Anything)
}

func (suite *TenantServiceTestSuite) TestDeleteTenant_NotFound() {
	ctx := context.Background()

	suite.mockTenantRepo.On("FindTenantByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteTenant(ctx, suite.platformSession, "missing")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTenantRepo.AssertNotCalled(suite.T(), "DeleteTenant", mock.Anything, mock.Anything)
}

func TestTenantServiceTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(TenantServiceTestSuite))
}
