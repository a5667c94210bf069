package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SahayFarms/farm_books_app/internal/apperrors"
	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
	"github.com/SahayFarms/farm_books_app/internal/core/services"
	"github.com/SahayFarms/farm_books_app/internal/dto"
)

type PostingServiceTestSuite struct {
	suite.Suite
	mockPostingRepo *MockPostingRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.PostingSvcFacade

	tenantID string
	session  domain.Session
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockPostingRepo = new(MockPostingRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewPostingService(suite.mockPostingRepo, suite.mockAccountRepo)

	suite.tenantID = "tenant-1"
	suite.session = domain.Session{UserID: "user-1", TenantID: suite.tenantID, Role: domain.RoleTenantAdmin}
}

func (suite *PostingServiceTestSuite) accounts() map[string]domain.Account {
	return map[string]domain.Account{
		"acc-cash": {AccountID: "acc-cash", TenantID: suite.tenantID, Code: "1000", Type: domain.Asset, IsActive: true},
		"acc-rev":  {AccountID: "acc-rev", TenantID: suite.tenantID, Code: "4000", Type: domain.Revenue, IsActive: true},
	}
}

func (suite *PostingServiceTestSuite) TestCreateManualPosting_Success() {
	ctx := context.Background()
	req := dto.CreateManualPostingRequest{
		PostingDate: time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
		Description: "Cash sale",
		Entries: []dto.ManualEntryLine{
			{AccountID: "acc-cash", DebitAmount: dec("100.00")},
			{AccountID: "acc-rev", CreditAmount: dec("100.00")},
		},
		IdempotencyKey: "post-key-1",
	}

	suite.mockPostingRepo.On("FindPostingGroupByIdempotencyKey", ctx, suite.tenantID, req.IdempotencyKey).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.tenantID, []string{"acc-cash", "acc-rev"}).Return(suite.accounts(), nil).Once()
	suite.mockPostingRepo.On("SavePostingGroup", ctx, mock.AnythingOfType("domain.PostingGroup"), mock.AnythingOfType("[]domain.LedgerEntry"), mock.MatchedBy(func(bc map[string]decimal.Decimal) bool {
		// Debit to an asset and credit to revenue both move balances up.
		return bc["acc-cash"].Equal(dec("100.00")) && bc["acc-rev"].Equal(dec("100.00"))
	})).Return(nil).Once()

	group, err := suite.service.CreateManualPosting(ctx, suite.session, suite.tenantID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(group)
	suite.Equal(domain.SourceManual, group.SourceType)
	suite.Equal(domain.Posted, group.Status)
	suite.Len(group.Entries, 2)
	suite.mockPostingRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestCreateManualPosting_Unbalanced() {
	ctx := context.Background()
	req := dto.CreateManualPostingRequest{
		PostingDate: time.Now().UTC(),
		Description: "Broken",
		Entries: []dto.ManualEntryLine{
			{AccountID: "acc-cash", DebitAmount: dec("100.00")},
			{AccountID: "acc-rev", CreditAmount: dec("90.00")},
		},
		IdempotencyKey: "post-key-2",
	}

	suite.mockPostingRepo.On("FindPostingGroupByIdempotencyKey", ctx, suite.tenantID, req.IdempotencyKey).Return(nil, apperrors.ErrNotFound).Once()

	group, err := suite.service.CreateManualPosting(ctx, suite.session, suite.tenantID, req)

	suite.Require().Error(err)
	suite.Nil(group)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorContains(err, services.ErrPostingUnbalanced.Error())
	suite.mockPostingRepo.AssertNotCalled(suite.T(), "SavePostingGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestCreateManualPosting_SingleAccountRejected() {
	ctx := context.Background()
	req := dto.CreateManualPostingRequest{
		PostingDate: time.Now().UTC(),
		Description: "Self transfer",
		Entries: []dto.ManualEntryLine{
			{AccountID: "acc-cash", DebitAmount: dec("50.00")},
			{AccountID: "acc-cash", CreditAmount: dec("50.00")},
		},
		IdempotencyKey: "post-key-3",
	}

	suite.mockPostingRepo.On("FindPostingGroupByIdempotencyKey", ctx, suite.tenantID, req.IdempotencyKey).Return(nil, apperrors.ErrNotFound).Once()

	group, err := suite.service.CreateManualPosting(ctx, suite.session, suite.tenantID, req)

	suite.Require().Error(err)
	suite.Nil(group)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorContains(err, services.ErrPostingMinAccounts.Error())
}

func (suite *PostingServiceTestSuite) TestCreateManualPosting_Replay() {
	ctx := context.Background()
	existing := &domain.PostingGroup{PostingGroupID: "group-1", TenantID: suite.tenantID, Status: domain.Posted}
	req := dto.CreateManualPostingRequest{
		PostingDate: time.Now().UTC(),
		Description: "Replayed",
		Entries: []dto.ManualEntryLine{
			{AccountID: "acc-cash", DebitAmount: dec("100.00")},
			{AccountID: "acc-rev", CreditAmount: dec("100.00")},
		},
		IdempotencyKey: "post-key-1",
	}

	suite.mockPostingRepo.On("FindPostingGroupByIdempotencyKey", ctx, suite.tenantID, req.IdempotencyKey).Return(existing, nil).Once()

	group, err := suite.service.CreateManualPosting(ctx, suite.session, suite.tenantID, req)

	suite.Require().NoError(err)
	suite.Equal(existing, group)
	suite.mockPostingRepo.AssertNotCalled(suite.T(), "SavePostingGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestReversePostingGroup_Success() {
	ctx := context.Background()
	original := &domain.PostingGroup{
		PostingGroupID: "group-1",
		TenantID:       suite.tenantID,
		SourceType:     domain.SourceManual,
		SourceID:       "group-1",
		Description:    "Cash sale",
		Status:         domain.Posted,
	}
	originalEntries := []domain.LedgerEntry{
		{LedgerEntryID: "e1", PostingGroupID: "group-1", AccountID: "acc-cash", DebitAmount: dec("100.00"), CreditAmount: decimal.Zero},
		{LedgerEntryID: "e2", PostingGroupID: "group-1", AccountID: "acc-rev", DebitAmount: decimal.Zero, CreditAmount: dec("100.00")},
	}

	suite.mockPostingRepo.On("FindPostingGroupByID", ctx, suite.tenantID, "group-1").Return(original, nil).Once()
	suite.mockPostingRepo.On("FindEntriesByPostingGroupID", ctx, "group-1").Return(originalEntries, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.tenantID, []string{"acc-cash", "acc-rev"}).Return(suite.accounts(), nil).Once()
	suite.mockPostingRepo.On("SavePostingGroup", ctx, mock.AnythingOfType("domain.PostingGroup"), mock.AnythingOfType("[]domain.LedgerEntry"), mock.MatchedBy(func(bc map[string]decimal.Decimal) bool {
		return bc["acc-cash"].Equal(dec("-100.00")) && bc["acc-rev"].Equal(dec("-100.00"))
	})).Return(nil).Once()
	suite.mockPostingRepo.On("UpdatePostingStatusAndLinks", ctx, "group-1", domain.Reversed, mock.AnythingOfType("*string"), suite.session.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	reversal, err := suite.service.ReversePostingGroup(ctx, suite.session, suite.tenantID, "group-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(reversal)
	suite.Equal(domain.SourceReversal, reversal.SourceType)
	suite.Require().NotNil(reversal.ReversalOfID)
	suite.Equal("group-1", *reversal.ReversalOfID)
	suite.Require().Len(reversal.Entries, 2)
	suite.True(reversal.Entries[0].CreditAmount.Equal(dec("100.00")), "debit became credit")
	suite.True(reversal.Entries[1].DebitAmount.Equal(dec("100.00")), "credit became debit")
	suite.mockPostingRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestReversePostingGroup_OfReversalRejected() {
	ctx := context.Background()
	originalID := "group-0"
	reversalGroup := &domain.PostingGroup{
		PostingGroupID: "group-2",
		TenantID:       suite.tenantID,
		SourceType:     domain.SourceReversal,
		ReversalOfID:   &originalID,
		Status:         domain.Posted,
	}

	suite.mockPostingRepo.On("FindPostingGroupByID", ctx, suite.tenantID, "group-2").Return(reversalGroup, nil).Once()

	result, err := suite.service.ReversePostingGroup(ctx, suite.session, suite.tenantID, "group-2")

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.ErrorContains(err, services.ErrReversalOfReversal.Error())
	suite.mockPostingRepo.AssertNotCalled(suite.T(), "SavePostingGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestReversePostingGroup_AlreadyReversed() {
	ctx := context.Background()
	reversed := &domain.PostingGroup{
		PostingGroupID: "group-1",
		TenantID:       suite.tenantID,
		SourceType:     domain.SourceManual,
		Status:         domain.Reversed,
	}

	suite.mockPostingRepo.On("FindPostingGroupByID", ctx, suite.tenantID, "group-1").Return(reversed, nil).Once()

	result, err := suite.service.ReversePostingGroup(ctx, suite.session, suite.tenantID, "group-1")

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.ErrorContains(err, services.ErrAlreadyReversed.Error())
}

func TestPostingServiceTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(PostingServiceTestSuite))
}
