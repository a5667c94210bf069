package matching_test

import (
	"testing"
	"time"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/SahayFarms/farm_books_app/internal/core/matching"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debitEntry(id string, amount string, cleared bool) domain.LedgerEntryCandidate {
	return domain.LedgerEntryCandidate{
		LedgerEntryID: id,
		PostingDate:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		DebitAmount:   decimal.RequireFromString(amount),
		CreditAmount:  decimal.Zero,
		IsCleared:     cleared,
	}
}

func creditEntry(id string, amount string, cleared bool) domain.LedgerEntryCandidate {
	return domain.LedgerEntryCandidate{
		LedgerEntryID: id,
		PostingDate:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		DebitAmount:   decimal.Zero,
		CreditAmount:  decimal.RequireFromString(amount),
		IsCleared:     cleared,
	}
}

func statementLine(amount string) domain.StatementLine {
	return domain.StatementLine{
		LineID:   "line-1",
		LineDate: time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC),
		Amount:   decimal.RequireFromString(amount),
		Status:   domain.LineUnmatched,
	}
}

func TestEligibleCandidates_PositiveAmountSelectsDebits(t *testing.T) {
	entries := []domain.LedgerEntryCandidate{
		debitEntry("d1", "50", false),
		creditEntry("c1", "50", false),
		debitEntry("d2", "75", true),
	}

	candidates := matching.EligibleCandidates(statementLine("50"), entries, nil)

	require.Len(t, candidates, 2)
	for _, c := range candidates {
		assert.True(t, c.DebitAmount.IsPositive())
	}
}

func TestEligibleCandidates_NegativeAmountSelectsCredits(t *testing.T) {
	entries := []domain.LedgerEntryCandidate{
		debitEntry("d1", "50", false),
		creditEntry("c1", "50", false),
		creditEntry("c2", "20", true),
	}

	candidates := matching.EligibleCandidates(statementLine("-50"), entries, nil)

	require.Len(t, candidates, 2)
	for _, c := range candidates {
		assert.True(t, c.CreditAmount.IsPositive())
	}
}

func TestEligibleCandidates_ZeroAmountHasNoCandidates(t *testing.T) {
	entries := []domain.LedgerEntryCandidate{
		debitEntry("d1", "50", false),
		creditEntry("c1", "50", false),
	}
	assert.Empty(t, matching.EligibleCandidates(statementLine("0"), entries, nil))
}

func TestEligibleCandidates_ExcludesAlreadyMatchedEntries(t *testing.T) {
	entries := []domain.LedgerEntryCandidate{
		debitEntry("d1", "50", false),
		debitEntry("d2", "60", false),
	}
	matchedElsewhere := map[string]struct{}{"d1": {}}

	candidates := matching.EligibleCandidates(statementLine("55"), entries, matchedElsewhere)

	require.Len(t, candidates, 1)
	assert.Equal(t, "d2", candidates[0].LedgerEntryID)
}

func TestEligibleCandidates_UnclearedBeforeCleared(t *testing.T) {
	entries := []domain.LedgerEntryCandidate{
		debitEntry("cleared-1", "10", true),
		debitEntry("uncleared-1", "20", false),
		debitEntry("cleared-2", "30", true),
		debitEntry("uncleared-2", "40", false),
	}

	candidates := matching.EligibleCandidates(statementLine("25"), entries, nil)

	require.Len(t, candidates, 4)
	assert.Equal(t, "uncleared-1", candidates[0].LedgerEntryID)
	assert.Equal(t, "uncleared-2", candidates[1].LedgerEntryID)
	assert.Equal(t, "cleared-1", candidates[2].LedgerEntryID)
	assert.Equal(t, "cleared-2", candidates[3].LedgerEntryID)
}

func TestMatchedEntryIDs_OnlyCountsMatchedLines(t *testing.T) {
	entryA := "entry-a"
	entryB := "entry-b"
	lines := []domain.StatementLine{
		{LineID: "l1", Status: domain.LineMatched, MatchedLedgerEntryID: &entryA},
		{LineID: "l2", Status: domain.LineUnmatched},
		{LineID: "l3", Status: domain.LineVoided, MatchedLedgerEntryID: &entryB},
	}

	matched := matching.MatchedEntryIDs(lines)

	assert.Contains(t, matched, entryA)
	assert.NotContains(t, matched, entryB)
	assert.Len(t, matched, 1)
}
