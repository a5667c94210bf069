// Package allocation implements payment allocation against open receivables:
// a FIFO (oldest-first) suggestion and validation of manual per-sale
// allocations. Both are pure functions; the caller persists results.
package allocation

import (
	"fmt"
	"sort"

	"github.com/SahayFarms/farm_books_app/internal/apperrors"
	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Tolerance is the maximum absolute difference permitted between a payment
// amount and the sum of its manual allocations.
var Tolerance = decimal.NewFromFloat(0.01)

// SuggestFIFO computes a greedy oldest-first allocation of amount across the
// given open receivables. Receivables with non-positive outstanding are
// skipped. The preview invariant holds:
// sum(SuggestedAllocations) + UnallocatedAmount == amount.
func SuggestFIFO(amount decimal.Decimal, receivables []domain.OpenReceivable) domain.AllocationPreview {
	sorted := make([]domain.OpenReceivable, len(receivables))
	copy(sorted, receivables)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].PostingDate.Equal(sorted[j].PostingDate) {
			return sorted[i].PostingDate.Before(sorted[j].PostingDate)
		}
		return sorted[i].SaleNo < sorted[j].SaleNo
	})

	remaining := amount
	suggestions := make([]domain.AllocationLine, 0, len(sorted))
	for _, r := range sorted {
		if !remaining.IsPositive() {
			break
		}
		if !r.Outstanding.IsPositive() {
			continue
		}
		allocated := decimal.Min(remaining, r.Outstanding)
		suggestions = append(suggestions, domain.AllocationLine{
			SaleID: r.SaleID,
			Amount: allocated,
		})
		remaining = remaining.Sub(allocated)
	}

	return domain.AllocationPreview{
		SuggestedAllocations: suggestions,
		OpenSales:            sorted,
		UnallocatedAmount:    remaining,
	}
}

// ValidateManual checks a manual allocation against the payment amount and
// the open receivables it targets. Every line must reference a known sale at
// most once and satisfy 0 < amount <= outstanding, and the line total must
// equal the payment amount within Tolerance. Violations return ErrValidation.
func ValidateManual(amount decimal.Decimal, lines []domain.AllocationLine, receivables []domain.OpenReceivable) error {
	outstandingBySale := make(map[string]decimal.Decimal, len(receivables))
	for _, r := range receivables {
		outstandingBySale[r.SaleID] = r.Outstanding
	}

	seen := make(map[string]struct{}, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		if _, dup := seen[line.SaleID]; dup {
			return fmt.Errorf("%w: duplicate allocation for sale %s", apperrors.ErrValidation, line.SaleID)
		}
		seen[line.SaleID] = struct{}{}

		outstanding, ok := outstandingBySale[line.SaleID]
		if !ok {
			return fmt.Errorf("%w: sale %s is not an open receivable", apperrors.ErrValidation, line.SaleID)
		}
		if !line.Amount.IsPositive() {
			return fmt.Errorf("%w: allocation for sale %s must be positive", apperrors.ErrValidation, line.SaleID)
		}
		if line.Amount.GreaterThan(outstanding) {
			return fmt.Errorf("%w: allocation %s exceeds outstanding %s for sale %s",
				apperrors.ErrValidation, line.Amount.String(), outstanding.String(), line.SaleID)
		}
		total = total.Add(line.Amount)
	}

	if total.Sub(amount).Abs().GreaterThan(Tolerance) {
		return fmt.Errorf("%w: allocations total %s does not equal payment amount %s",
			apperrors.ErrValidation, total.String(), amount.String())
	}
	return nil
}
