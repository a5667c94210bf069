package repositories

import (
	"context"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentReader defines read operations for payments.
type PaymentReader interface {
	FindPaymentByID(ctx context.Context, tenantID, paymentID string) (*domain.Payment, error)
	// FindPaymentByIdempotencyKey returns the payment previously created with
	// the given key, or ErrNotFound.
	FindPaymentByIdempotencyKey(ctx context.Context, tenantID, key string) (*domain.Payment, error)
	ListPayments(ctx context.Context, tenantID string, partyID *string, limit int, nextToken *string) ([]domain.Payment, *string, error)
}

// PaymentWriter defines write operations for payments.
type PaymentWriter interface {
	// SavePayment atomically persists the payment with its allocations, the
	// generated posting group and entries, account balance deltas, and the
	// received-amount increments on allocated sales, all in one transaction.
	SavePayment(ctx context.Context, payment domain.Payment, group domain.PostingGroup, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal) error
}

// PaymentRepositoryFacade combines payment repository interfaces.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
