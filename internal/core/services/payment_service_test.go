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

type PaymentServiceTestSuite struct {
	suite.Suite
	mockPaymentRepo *MockPaymentRepository
	mockSaleRepo    *MockSaleRepository
	mockAccountRepo *MockAccountRepository
	mockPartyRepo   *MockPartyRepository
	service         portssvc.PaymentSvcFacade

	tenantID string
	session  domain.Session
}

func (suite *PaymentServiceTestSuite) SetupTest() {
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.mockSaleRepo = new(MockSaleRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockPartyRepo = new(MockPartyRepository)
	suite.service = services.NewPaymentService(suite.mockPaymentRepo, suite.mockSaleRepo, suite.mockAccountRepo, suite.mockPartyRepo)

	suite.tenantID = "tenant-1"
	suite.session = domain.Session{UserID: "user-1", TenantID: suite.tenantID, Role: domain.RoleTenantAdmin}
}

func (suite *PaymentServiceTestSuite) buyer() *domain.Party {
	return &domain.Party{PartyID: "party-1", TenantID: suite.tenantID, Name: "Mandi trader", Roles: []domain.PartyRole{domain.PartyBuyer}, IsActive: true}
}

func (suite *PaymentServiceTestSuite) bankAccount() *domain.Account {
	return &domain.Account{AccountID: "acc-bank", TenantID: suite.tenantID, Code: "1010", Type: domain.Asset, IsBank: true, IsActive: true}
}

func (suite *PaymentServiceTestSuite) receivableAccount() *domain.Account {
	return &domain.Account{AccountID: "acc-ar", TenantID: suite.tenantID, Code: "1100", Type: domain.Asset, IsActive: true}
}

func (suite *PaymentServiceTestSuite) TestCreatePayment_InboundAllocatesOldestFirst() {
	ctx := context.Background()
	req := dto.CreatePaymentRequest{
		PartyID:        "party-1",
		Direction:      domain.DirectionIn,
		Amount:         dec("100.00"),
		PaymentDate:    time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		Method:         "bank_transfer",
		IdempotencyKey: "pay-key-1",
	}
	receivables := []domain.OpenReceivable{
		{SaleID: "sale-old", SaleNo: "S-0001", PostingDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Outstanding: dec("60.00")},
		{SaleID: "sale-new", SaleNo: "S-0002", PostingDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), Outstanding: dec("100.00")},
	}

	suite.mockPaymentRepo.On("FindPaymentByIdempotencyKey", ctx, suite.tenantID, req.IdempotencyKey).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPartyRepo.On("FindPartyByID", ctx, suite.tenantID, "party-1").Return(suite.buyer(), nil).Once()
	suite.mockSaleRepo.On("ListOpenReceivables", ctx, suite.tenantID, "party-1").Return(receivables, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.tenantID, "1010").Return(suite.bankAccount(), nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.tenantID, "1100").Return(suite.receivableAccount(), nil).Once()
	suite.mockPaymentRepo.On("SavePayment", ctx, mock.MatchedBy(func(p domain.Payment) bool {
		return len(p.Allocations) == 2 &&
			p.Allocations[0].SaleID == "sale-old" && p.Allocations[0].Amount.Equal(dec("60.00")) &&
			p.Allocations[1].SaleID == "sale-new" && p.Allocations[1].Amount.Equal(dec("40.00"))
	}), mock.AnythingOfType("domain.PostingGroup"), mock.AnythingOfType("[]domain.LedgerEntry"), mock.MatchedBy(func(bc map[string]decimal.Decimal) bool {
		// Bank up by the full amount, receivable down by the allocated total.
		return bc["acc-bank"].Equal(dec("100.00")) && bc["acc-ar"].Equal(dec("-100.00"))
	})).Return(nil).Once()

	payment, err := suite.service.CreatePayment(ctx, suite.session, suite.tenantID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(payment)
	suite.Equal(domain.DirectionIn, payment.Direction)
	suite.Require().NotNil(payment.PostingGroupID)
	suite.Len(payment.Allocations, 2)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestCreatePayment_UnallocatedGoesOnAccount() {
	ctx := context.Background()
	req := dto.CreatePaymentRequest{
		PartyID:        "party-1",
		Direction:      domain.DirectionIn,
		Amount:         dec("150.00"),
		PaymentDate:    time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		Method:         "bank_transfer",
		IdempotencyKey: "pay-key-2",
	}
	receivables := []domain.OpenReceivable{
		{SaleID: "sale-1", SaleNo: "S-0001", PostingDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Outstanding: dec("100.00")},
	}
	onAccount := &domain.Account{AccountID: "acc-adv", TenantID: suite.tenantID, Code: "2100", Type: domain.Liability, IsActive: true}

	suite.mockPaymentRepo.On("FindPaymentByIdempotencyKey", ctx, suite.tenantID, req.IdempotencyKey).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPartyRepo.On("FindPartyByID", ctx, suite.tenantID, "party-1").Return(suite.buyer(), nil).Once()
	suite.mockSaleRepo.On("ListOpenReceivables", ctx, suite.tenantID, "party-1").Return(receivables, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.tenantID, "1010").Return(suite.bankAccount(), nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.tenantID, "1100").Return(suite.receivableAccount(), nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.tenantID, "2100").Return(onAccount, nil).Once()
	suite.mockPaymentRepo.On("SavePayment", ctx, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("domain.PostingGroup"), mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
		// Debit bank 150, credit receivable 100, credit advances-received 50.
		return len(entries) == 3
	}), mock.MatchedBy(func(bc map[string]decimal.Decimal) bool {
		return bc["acc-bank"].Equal(dec("150.00")) && bc["acc-ar"].Equal(dec("-100.00")) && bc["acc-adv"].Equal(dec("50.00"))
	})).Return(nil).Once()

	payment, err := suite.service.CreatePayment(ctx, suite.session, suite.tenantID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(payment)
	suite.Len(payment.Allocations, 1)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestCreatePayment_OutboundRejectsAllocations() {
	ctx := context.Background()
	req := dto.CreatePaymentRequest{
		PartyID:        "party-1",
		Direction:      domain.DirectionOut,
		Amount:         dec("100.00"),
		PaymentDate:    time.Now().UTC(),
		Method:         "cash",
		Allocations:    []dto.AllocationLineRequest{{SaleID: "sale-1", Amount: dec("100.00")}},
		IdempotencyKey: "pay-key-3",
	}

	suite.mockPaymentRepo.On("FindPaymentByIdempotencyKey", ctx, suite.tenantID, req.IdempotencyKey).Return(nil, apperrors.ErrNotFound).Once()

	payment, err := suite.service.CreatePayment(ctx, suite.session, suite.tenantID, req)

	suite.Require().Error(err)
	suite.Nil(payment)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorContains(err, services.ErrOutboundAllocations.Error())
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "SavePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestCreatePayment_OutboundDebitsPayable() {
	ctx := context.Background()
	req := dto.CreatePaymentRequest{
		PartyID:        "party-1",
		Direction:      domain.DirectionOut,
		Amount:         dec("200.00"),
		PaymentDate:    time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		Method:         "cash",
		IdempotencyKey: "pay-key-4",
	}
	cash := &domain.Account{AccountID: "acc-cash", TenantID: suite.tenantID, Code: "1000", Type: domain.Asset, IsBank: true, IsActive: true}
	payable := &domain.Account{AccountID: "acc-ap", TenantID: suite.tenantID, Code: "2000", Type: domain.Liability, IsActive: true}

	suite.mockPaymentRepo.On("FindPaymentByIdempotencyKey", ctx, suite.tenantID, req.IdempotencyKey).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPartyRepo.On("FindPartyByID", ctx, suite.tenantID, "party-1").Return(suite.buyer(), nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.tenantID, "1000").Return(cash, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.tenantID, "2000").Return(payable, nil).Once()
	suite.mockPaymentRepo.On("SavePayment", ctx, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("domain.PostingGroup"), mock.AnythingOfType("[]domain.LedgerEntry"), mock.MatchedBy(func(bc map[string]decimal.Decimal) bool {
		// Payable debited down, cash credited down.
		return bc["acc-ap"].Equal(dec("-200.00")) && bc["acc-cash"].Equal(dec("-200.00"))
	})).Return(nil).Once()

	payment, err := suite.service.CreatePayment(ctx, suite.session, suite.tenantID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(payment)
	suite.Empty(payment.Allocations)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
	suite.mockSaleRepo.AssertNotCalled(suite.T(), "ListOpenReceivables", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestCreatePayment_ManualAllocationOverOutstanding() {
	ctx := context.Background()
	req := dto.CreatePaymentRequest{
		PartyID:        "party-1",
		Direction:      domain.DirectionIn,
		Amount:         dec("150.00"),
		PaymentDate:    time.Now().UTC(),
		Method:         "bank_transfer",
		Allocations:    []dto.AllocationLineRequest{{SaleID: "sale-1", Amount: dec("150.00")}},
		IdempotencyKey: "pay-key-5",
	}
	receivables := []domain.OpenReceivable{
		{SaleID: "sale-1", SaleNo: "S-0001", PostingDate: time.Now().UTC(), Outstanding: dec("100.00")},
	}

	suite.mockPaymentRepo.On("FindPaymentByIdempotencyKey", ctx, suite.tenantID, req.IdempotencyKey).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPartyRepo.On("FindPartyByID", ctx, suite.tenantID, "party-1").Return(suite.buyer(), nil).Once()
	suite.mockSaleRepo.On("ListOpenReceivables", ctx, suite.tenantID, "party-1").Return(receivables, nil).Once()

	payment, err := suite.service.CreatePayment(ctx, suite.session, suite.tenantID, req)

	suite.Require().Error(err)
	suite.Nil(payment)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "SavePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestCreatePayment_Replay() {
	ctx := context.Background()
	existing := &domain.Payment{PaymentID: "pay-1", TenantID: suite.tenantID, Amount: dec("100.00")}
	req := dto.CreatePaymentRequest{
		PartyID:        "party-1",
		Direction:      domain.DirectionIn,
		Amount:         dec("100.00"),
		PaymentDate:    time.Now().UTC(),
		Method:         "cash",
		IdempotencyKey: "pay-key-1",
	}

	suite.mockPaymentRepo.On("FindPaymentByIdempotencyKey", ctx, suite.tenantID, req.IdempotencyKey).Return(existing, nil).Once()

	payment, err := suite.service.CreatePayment(ctx, suite.session, suite.tenantID, req)

	suite.Require().NoError(err)
	suite.Equal(existing, payment)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "SavePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestPreviewAllocation_SuggestsFIFO() {
	ctx := context.Background()
	params := dto.AllocationPreviewParams{PartyID: "party-1", Amount: dec("80.00")}
	receivables := []domain.OpenReceivable{
		{SaleID: "sale-old", SaleNo: "S-0001", PostingDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Outstanding: dec("60.00")},
		{SaleID: "sale-new", SaleNo: "S-0002", PostingDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), Outstanding: dec("100.00")},
	}

	suite.mockSaleRepo.On("ListOpenReceivables", ctx, suite.tenantID, "party-1").Return(receivables, nil).Once()

	preview, err := suite.service.PreviewAllocation(ctx, suite.session, suite.tenantID, params)

	suite.Require().NoError(err)
	suite.Require().NotNil(preview)
	suite.Require().Len(preview.SuggestedAllocations, 2)
	suite.True(preview.SuggestedAllocations[0].Amount.Equal(dec("60.00")))
	suite.True(preview.SuggestedAllocations[1].Amount.Equal(dec("20.00")))
	suite.True(preview.UnallocatedAmount.IsZero())
	suite.mockSaleRepo.AssertExpectations(suite.T())
}

func TestPaymentServiceTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(PaymentServiceTestSuite))
}
