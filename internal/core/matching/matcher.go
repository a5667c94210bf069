// Package matching implements the statement-line-to-ledger-entry candidate
// filter used by bank reconciliation: candidates are selected by sign
// compatibility and entries already matched elsewhere are excluded.
package matching

import (
	"github.com/SahayFarms/farm_books_app/internal/core/domain"
)

// MatchedEntryIDs collects the ledger entry IDs currently matched to any
// MATCHED statement line. Voided and unmatched lines contribute nothing.
func MatchedEntryIDs(lines []domain.StatementLine) map[string]struct{} {
	matched := make(map[string]struct{})
	for _, line := range lines {
		if line.IsMatched() {
			matched[*line.MatchedLedgerEntryID] = struct{}{}
		}
	}
	return matched
}

// EligibleCandidates filters the ledger entries of the reconciled bank account
// down to those a statement line may be matched against:
//
//  1. amount > 0 selects debit-side entries, amount < 0 credit-side entries,
//     amount == 0 selects nothing;
//  2. entries already matched to another statement line are excluded;
//  3. uncleared entries come first, then cleared, each in source order.
func EligibleCandidates(line domain.StatementLine, entries []domain.LedgerEntryCandidate, matchedIDs map[string]struct{}) []domain.LedgerEntryCandidate {
	if line.Amount.IsZero() {
		return nil
	}
	wantDebit := line.Amount.IsPositive()

	eligible := func(e domain.LedgerEntryCandidate) bool {
		if _, taken := matchedIDs[e.LedgerEntryID]; taken {
			return false
		}
		if wantDebit {
			return e.DebitAmount.IsPositive()
		}
		return e.CreditAmount.IsPositive()
	}

	candidates := make([]domain.LedgerEntryCandidate, 0, len(entries))
	for _, e := range entries {
		if !e.IsCleared && eligible(e) {
			candidates = append(candidates, e)
		}
	}
	for _, e := range entries {
		if e.IsCleared && eligible(e) {
			candidates = append(candidates, e)
		}
	}
	return candidates
}
