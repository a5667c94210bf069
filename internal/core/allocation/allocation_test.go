package allocation_test

import (
	"testing"
	"time"

	"github.com/SahayFarms/farm_books_app/internal/apperrors"
	"github.com/SahayFarms/farm_books_app/internal/core/allocation"
	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receivable(saleID, saleNo string, postingDate time.Time, outstanding string) domain.OpenReceivable {
	return domain.OpenReceivable{
		SaleID:      saleID,
		SaleNo:      saleNo,
		PostingDate: postingDate,
		DueDate:     postingDate.AddDate(0, 1, 0),
		Outstanding: decimal.RequireFromString(outstanding),
	}
}

func TestSuggestFIFO_OldestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	receivables := []domain.OpenReceivable{
		receivable("sale-b", "S-002", base.AddDate(0, 0, 5), "250"),
		receivable("sale-a", "S-001", base, "120"),
	}

	preview := allocation.SuggestFIFO(decimal.NewFromInt(300), receivables)

	require.Len(t, preview.SuggestedAllocations, 2)
	assert.Equal(t, "sale-a", preview.SuggestedAllocations[0].SaleID)
	assert.True(t, preview.SuggestedAllocations[0].Amount.Equal(decimal.NewFromInt(120)))
	assert.Equal(t, "sale-b", preview.SuggestedAllocations[1].SaleID)
	assert.True(t, preview.SuggestedAllocations[1].Amount.Equal(decimal.NewFromInt(180)))
	assert.True(t, preview.UnallocatedAmount.IsZero())
}

func TestSuggestFIFO_PreviewInvariant(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name        string
		amount      string
		receivables []domain.OpenReceivable
	}{
		{"exact fill", "370", []domain.OpenReceivable{
			receivable("a", "S-001", base, "120"),
			receivable("b", "S-002", base.AddDate(0, 0, 1), "250"),
		}},
		{"payment exceeds outstanding", "500.50", []domain.OpenReceivable{
			receivable("a", "S-001", base, "120"),
			receivable("b", "S-002", base.AddDate(0, 0, 1), "250"),
		}},
		{"no receivables", "75.25", nil},
		{"zero outstanding skipped", "100", []domain.OpenReceivable{
			receivable("a", "S-001", base, "0"),
			receivable("b", "S-002", base.AddDate(0, 0, 1), "60"),
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tc.amount)
			preview := allocation.SuggestFIFO(amount, tc.receivables)

			allocated := decimal.Zero
			for _, line := range preview.SuggestedAllocations {
				assert.True(t, line.Amount.IsPositive())
				allocated = allocated.Add(line.Amount)
			}
			assert.True(t, allocated.Add(preview.UnallocatedAmount).Equal(amount),
				"sum(suggested) + unallocated must equal payment amount")
		})
	}
}

func TestSuggestFIFO_NoReceivables_FullyUnallocated(t *testing.T) {
	preview := allocation.SuggestFIFO(decimal.NewFromInt(200), nil)
	assert.Empty(t, preview.SuggestedAllocations)
	assert.True(t, preview.UnallocatedAmount.Equal(decimal.NewFromInt(200)))
}

func TestSuggestFIFO_TieBrokenBySaleNo(t *testing.T) {
	day := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	receivables := []domain.OpenReceivable{
		receivable("y", "S-010", day, "50"),
		receivable("x", "S-009", day, "50"),
	}
	preview := allocation.SuggestFIFO(decimal.NewFromInt(60), receivables)
	require.Len(t, preview.SuggestedAllocations, 2)
	assert.Equal(t, "x", preview.SuggestedAllocations[0].SaleID)
	assert.True(t, preview.SuggestedAllocations[1].Amount.Equal(decimal.NewFromInt(10)))
}

func TestValidateManual_AcceptsBalancedAllocation(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	receivables := []domain.OpenReceivable{
		receivable("a", "S-001", base, "120"),
		receivable("b", "S-002", base.AddDate(0, 0, 5), "250"),
	}
	lines := []domain.AllocationLine{
		{SaleID: "a", Amount: decimal.NewFromInt(100)},
		{SaleID: "b", Amount: decimal.NewFromInt(200)},
	}

	err := allocation.ValidateManual(decimal.NewFromInt(300), lines, receivables)
	assert.NoError(t, err)
}

func TestValidateManual_RejectsUnbalancedTotal(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	receivables := []domain.OpenReceivable{
		receivable("a", "S-001", base, "120"),
		receivable("b", "S-002", base.AddDate(0, 0, 5), "250"),
	}
	lines := []domain.AllocationLine{
		{SaleID: "a", Amount: decimal.NewFromInt(100)},
		{SaleID: "b", Amount: decimal.NewFromInt(150)},
	}

	err := allocation.ValidateManual(decimal.NewFromInt(300), lines, receivables)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestValidateManual_ToleratesRounding(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	receivables := []domain.OpenReceivable{receivable("a", "S-001", base, "300")}
	lines := []domain.AllocationLine{{SaleID: "a", Amount: decimal.RequireFromString("299.99")}}

	assert.NoError(t, allocation.ValidateManual(decimal.NewFromInt(300), lines, receivables))

	lines[0].Amount = decimal.RequireFromString("299.98")
	assert.ErrorIs(t, allocation.ValidateManual(decimal.NewFromInt(300), lines, receivables), apperrors.ErrValidation)
}

func TestValidateManual_RejectsLineAboveOutstanding(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	receivables := []domain.OpenReceivable{
		receivable("a", "S-001", base, "120"),
		receivable("b", "S-002", base.AddDate(0, 0, 5), "250"),
	}
	lines := []domain.AllocationLine{
		{SaleID: "a", Amount: decimal.NewFromInt(130)},
		{SaleID: "b", Amount: decimal.NewFromInt(170)},
	}

	err := allocation.ValidateManual(decimal.NewFromInt(300), lines, receivables)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "exceeds outstanding")
}

func TestValidateManual_RejectsUnknownDuplicateAndNonPositive(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	receivables := []domain.OpenReceivable{receivable("a", "S-001", base, "120")}

	err := allocation.ValidateManual(decimal.NewFromInt(50),
		[]domain.AllocationLine{{SaleID: "ghost", Amount: decimal.NewFromInt(50)}}, receivables)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	err = allocation.ValidateManual(decimal.NewFromInt(100),
		[]domain.AllocationLine{
			{SaleID: "a", Amount: decimal.NewFromInt(50)},
			{SaleID: "a", Amount: decimal.NewFromInt(50)},
		}, receivables)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	err = allocation.ValidateManual(decimal.Zero,
		[]domain.AllocationLine{{SaleID: "a", Amount: decimal.Zero}}, receivables)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
