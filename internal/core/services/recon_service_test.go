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

type ReconServiceTestSuite struct {
	suite.Suite
	mockReconRepo   *MockReconRepository
	mockPostingRepo *MockPostingRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.ReconSvcFacade

	tenantID string
	session  domain.Session
}

func (suite *ReconServiceTestSuite) SetupTest() {
	suite.mockReconRepo = new(MockReconRepository)
	suite.mockPostingRepo = new(MockPostingRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewReconService(suite.mockReconRepo, suite.mockPostingRepo, suite.mockAccountRepo)

	suite.tenantID = "tenant-1"
	suite.session = domain.Session{UserID: "user-1", TenantID: suite.tenantID, Role: domain.RoleTenantAdmin}
}

func (suite *ReconServiceTestSuite) draftRecon() *domain.BankReconciliation {
	return &domain.BankReconciliation{
		ReconID:          "recon-1",
		TenantID:         suite.tenantID,
		BankAccountID:    "acc-bank",
		StatementDate:    time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC),
		StatementBalance: dec("1000.00"),
		Status:           domain.ReconDraft,
	}
}

func (suite *ReconServiceTestSuite) TestCreateReconciliation_RejectsNonBankAccount() {
	ctx := context.Background()
	req := dto.CreateReconciliationRequest{
		BankAccountID:    "acc-ar",
		StatementDate:    time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC),
		StatementBalance: dec("1000.00"),
		IdempotencyKey:   "recon-key-1",
	}
	notBank := &domain.Account{AccountID: "acc-ar", TenantID: suite.tenantID, Type: domain.Asset, IsBank: false, IsActive: true}

	suite.mockReconRepo.On("FindReconciliationByIdempotencyKey", ctx, suite.tenantID, req.IdempotencyKey).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.tenantID, "acc-ar").Return(notBank, nil).Once()

	recon, err := suite.service.CreateReconciliation(ctx, suite.session, suite.tenantID, req)

	suite.Require().Error(err)
	suite.Nil(recon)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorContains(err, services.ErrNotBankAccount.Error())
	suite.mockReconRepo.AssertNotCalled(suite.T(), "SaveReconciliation", mock.Anything, mock.Anything)
}

func (suite *ReconServiceTestSuite) TestCreateReconciliation_Success() {
	ctx := context.Background()
	req := dto.CreateReconciliationRequest{
		BankAccountID:    "acc-bank",
		StatementDate:    time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC),
		StatementBalance: dec("1000.00"),
		IdempotencyKey:   "recon-key-1",
	}
	bank := &domain.Account{AccountID: "acc-bank", TenantID: suite.tenantID, Type: domain.Asset, IsBank: true, IsActive: true}

	suite.mockReconRepo.On("FindReconciliationByIdempotencyKey", ctx, suite.tenantID, req.IdempotencyKey).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.tenantID, "acc-bank").Return(bank, nil).Once()
	suite.mockReconRepo.On("SaveReconciliation", ctx, mock.MatchedBy(func(r domain.BankReconciliation) bool {
		return r.Status == domain.ReconDraft && r.BankAccountID == "acc-bank"
	})).Return(nil).Once()

	recon, err := suite.service.CreateReconciliation(ctx, suite.session, suite.tenantID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(recon)
	suite.Equal(domain.ReconDraft, recon.Status)
	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *ReconServiceTestSuite) TestAddStatementLine_FinalizedRejected() {
	ctx := context.Background()
	finalized := suite.draftRecon()
	finalized.Status = domain.ReconFinalized
	req := dto.AddStatementLineRequest{LineDate: time.Now().UTC(), Amount: dec("500.00")}

	suite.mockReconRepo.On("FindReconciliationByID", ctx, suite.tenantID, "recon-1").Return(finalized, nil).Once()

	line, err := suite.service.AddStatementLine(ctx, suite.session, suite.tenantID, "recon-1", req)

	suite.Require().Error(err)
	suite.Nil(line)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.ErrorContains(err, services.ErrReconFinalized.Error())
	suite.mockReconRepo.AssertNotCalled(suite.T(), "SaveStatementLine", mock.Anything, mock.Anything)
}

func (suite *ReconServiceTestSuite) TestAddStatementLine_ZeroAmountRejected() {
	ctx := context.Background()
	req := dto.AddStatementLineRequest{LineDate: time.Now().UTC(), Amount: decimal.Zero}

	suite.mockReconRepo.On("FindReconciliationByID", ctx, suite.tenantID, "recon-1").Return(suite.draftRecon(), nil).Once()

	line, err := suite.service.AddStatementLine(ctx, suite.session, suite.tenantID, "recon-1", req)

	suite.Require().Error(err)
	suite.Nil(line)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReconServiceTestSuite) TestMatchStatementLine_Success() {
	ctx := context.Background()
	line := &domain.StatementLine{
		LineID:   "line-1",
		ReconID:  "recon-1",
		LineDate: time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC),
		Amount:   dec("500.00"), // deposit: matches debit-side bank entries
		Status:   domain.LineUnmatched,
	}
	entries := []domain.LedgerEntry{
		{LedgerEntryID: "entry-1", AccountID: "acc-bank", DebitAmount: dec("500.00"), CreditAmount: decimal.Zero},
		{LedgerEntryID: "entry-2", AccountID: "acc-bank", DebitAmount: decimal.Zero, CreditAmount: dec("200.00")},
	}
	req := dto.MatchStatementLineRequest{LedgerEntryID: "entry-1"}

	suite.mockReconRepo.On("FindReconciliationByID", ctx, suite.tenantID, "recon-1").Return(suite.draftRecon(), nil).Once()
	suite.mockReconRepo.On("FindStatementLineByID", ctx, "recon-1", "line-1").Return(line, nil).Once()
	suite.mockReconRepo.On("ListStatementLines", ctx, "recon-1").Return([]domain.StatementLine{*line}, nil).Once()
	suite.mockPostingRepo.On("ListEntriesForBankAccount", ctx, suite.tenantID, "acc-bank", mock.AnythingOfType("time.Time")).Return(entries, nil).Once()
	// Link and cleared flag go to the repository in one call so a failure
	// cannot leave the entry cleared while the line stays unmatched.
	suite.mockReconRepo.On("ApplyStatementLineMatch", ctx, suite.tenantID, "line-1", domain.LineMatched, &req.LedgerEntryID, true, suite.session.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	matched, err := suite.service.MatchStatementLine(ctx, suite.session, suite.tenantID, "recon-1", "line-1", req)

	suite.Require().NoError(err)
	suite.Require().NotNil(matched)
	suite.Equal(domain.LineMatched, matched.Status)
	suite.Require().NotNil(matched.MatchedLedgerEntryID)
	suite.Equal("entry-1", *matched.MatchedLedgerEntryID)
	suite.mockReconRepo.AssertExpectations(suite.T())
	suite.mockPostingRepo.AssertExpectations(suite.T())
	suite.mockPostingRepo.AssertNotCalled(suite.T(), "SetEntryCleared", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconServiceTestSuite) TestMatchStatementLine_WrongSideRejected() {
	ctx := context.Background()
	line := &domain.StatementLine{
		LineID:  "line-1",
		ReconID: "recon-1",
		Amount:  dec("500.00"),
		Status:  domain.LineUnmatched,
	}
	// Only a credit-side entry exists; a deposit line cannot match it.
	entries := []domain.LedgerEntry{
		{LedgerEntryID: "entry-2", AccountID: "acc-bank", DebitAmount: decimal.Zero, CreditAmount: dec("500.00")},
	}
	req := dto.MatchStatementLineRequest{LedgerEntryID: "entry-2"}

	suite.mockReconRepo.On("FindReconciliationByID", ctx, suite.tenantID, "recon-1").Return(suite.draftRecon(), nil).Once()
	suite.mockReconRepo.On("FindStatementLineByID", ctx, "recon-1", "line-1").Return(line, nil).Once()
	suite.mockReconRepo.On("ListStatementLines", ctx, "recon-1").Return([]domain.StatementLine{*line}, nil).Once()
	suite.mockPostingRepo.On("ListEntriesForBankAccount", ctx, suite.tenantID, "acc-bank", mock.AnythingOfType("time.Time")).Return(entries, nil).Once()

	matched, err := suite.service.MatchStatementLine(ctx, suite.session, suite.tenantID, "recon-1", "line-1", req)

	suite.Require().Error(err)
	suite.Nil(matched)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorContains(err, services.ErrEntryNotEligible.Error())
	suite.mockReconRepo.AssertNotCalled(suite.T(), "ApplyStatementLineMatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconServiceTestSuite) TestUnmatchStatementLine_Success() {
	ctx := context.Background()
	entryID := "entry-1"
	line := &domain.StatementLine{
		LineID:               "line-1",
		ReconID:              "recon-1",
		Amount:               dec("500.00"),
		Status:               domain.LineMatched,
		MatchedLedgerEntryID: &entryID,
	}

	suite.mockReconRepo.On("FindReconciliationByID", ctx, suite.tenantID, "recon-1").Return(suite.draftRecon(), nil).Once()
	suite.mockReconRepo.On("FindStatementLineByID", ctx, "recon-1", "line-1").Return(line, nil).Once()
	suite.mockReconRepo.On("ApplyStatementLineMatch", ctx, suite.tenantID, "line-1", domain.LineUnmatched, &entryID, false, suite.session.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	unmatched, err := suite.service.UnmatchStatementLine(ctx, suite.session, suite.tenantID, "recon-1", "line-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(unmatched)
	suite.Equal(domain.LineUnmatched, unmatched.Status)
	suite.Nil(unmatched.MatchedLedgerEntryID)
	suite.mockReconRepo.AssertExpectations(suite.T())
	suite.mockPostingRepo.AssertExpectations(suite.T())
}

func (suite *ReconServiceTestSuite) TestVoidStatementLine_MatchedRejected() {
	ctx := context.Background()
	entryID := "entry-1"
	line := &domain.StatementLine{
		LineID:               "line-1",
		ReconID:              "recon-1",
		Status:               domain.LineMatched,
		MatchedLedgerEntryID: &entryID,
	}

	suite.mockReconRepo.On("FindReconciliationByID", ctx, suite.tenantID, "recon-1").Return(suite.draftRecon(), nil).Once()
	suite.mockReconRepo.On("FindStatementLineByID", ctx, "recon-1", "line-1").Return(line, nil).Once()

	err := suite.service.VoidStatementLine(ctx, suite.session, suite.tenantID, "recon-1", "line-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.ErrorContains(err, services.ErrLineNotUnmatched.Error())
	suite.mockReconRepo.AssertNotCalled(suite.T(), "ApplyStatementLineMatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconServiceTestSuite) TestFinalizeReconciliation_Terminal() {
	ctx := context.Background()
	finalized := suite.draftRecon()
	finalized.Status = domain.ReconFinalized

	suite.mockReconRepo.On("FindReconciliationByID", ctx, suite.tenantID, "recon-1").Return(finalized, nil).Once()

	recon, err := suite.service.FinalizeReconciliation(ctx, suite.session, suite.tenantID, "recon-1")

	suite.Require().Error(err)
	suite.Nil(recon)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "FinalizeReconciliation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconServiceTestSuite) TestFinalizeReconciliation_Success() {
	ctx := context.Background()

	suite.mockReconRepo.On("FindReconciliationByID", ctx, suite.tenantID, "recon-1").Return(suite.draftRecon(), nil).Once()
	suite.mockReconRepo.On("FinalizeReconciliation", ctx, suite.tenantID, "recon-1", suite.session.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	recon, err := suite.service.FinalizeReconciliation(ctx, suite.session, suite.tenantID, "recon-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(recon)
	suite.Equal(domain.ReconFinalized, recon.Status)
	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *ReconServiceTestSuite) TestSummary_ComputesClearedBalance() {
	ctx := context.Background()
	entries := []domain.LedgerEntry{
		{LedgerEntryID: "e1", DebitAmount: dec("800.00"), CreditAmount: decimal.Zero, IsCleared: true},
		{LedgerEntryID: "e2", DebitAmount: decimal.Zero, CreditAmount: dec("100.00"), IsCleared: true},
		{LedgerEntryID: "e3", DebitAmount: dec("300.00"), CreditAmount: decimal.Zero, IsCleared: false},
	}
	lines := []domain.StatementLine{
		{LineID: "l1", Status: domain.LineUnmatched},
		{LineID: "l2", Status: domain.LineVoided},
	}

	suite.mockReconRepo.On("FindReconciliationByID", ctx, suite.tenantID, "recon-1").Return(suite.draftRecon(), nil).Once()
	suite.mockPostingRepo.On("ListEntriesForBankAccount", ctx, suite.tenantID, "acc-bank", mock.AnythingOfType("time.Time")).Return(entries, nil).Once()
	suite.mockReconRepo.On("ListStatementLines", ctx, "recon-1").Return(lines, nil).Once()

	summary, err := suite.service.Summary(ctx, suite.session, suite.tenantID, "recon-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(summary)
	suite.True(summary.ClearedBalance.Equal(dec("700.00")), "got %s", summary.ClearedBalance)
	suite.True(summary.Difference.Equal(dec("300.00")), "got %s", summary.Difference)
	suite.Equal(1, summary.UnmatchedLines)
	suite.mockReconRepo.AssertExpectations(suite.T())
	suite.mockPostingRepo.AssertExpectations(suite.T())
}

func TestReconServiceTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ReconServiceTestSuite))
}
