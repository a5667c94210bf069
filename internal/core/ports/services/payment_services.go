package services

import (
	"context"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/SahayFarms/farm_books_app/internal/dto"
)

// PaymentReaderSvc defines read operations for payments.
type PaymentReaderSvc interface {
	GetPaymentByID(ctx context.Context, session domain.Session, tenantID, paymentID string) (*domain.Payment, error)
	ListPayments(ctx context.Context, session domain.Session, tenantID string, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error)

	// PreviewAllocation computes the oldest-first suggestion for allocating
	// an inbound amount across the party's open sales, without persisting.
	PreviewAllocation(ctx context.Context, session domain.Session, tenantID string, params dto.AllocationPreviewParams) (*domain.AllocationPreview, error)
}

// PaymentWriterSvc defines write operations for payments.
type PaymentWriterSvc interface {
	// CreatePayment records and posts a payment atomically. Replays of the
	// same idempotency key return the original payment.
	CreatePayment(ctx context.Context, session domain.Session, tenantID string, req dto.CreatePaymentRequest) (*domain.Payment, error)
}

// PaymentSvcFacade combines all payment-related service interfaces.
type PaymentSvcFacade interface {
	PaymentReaderSvc
	PaymentWriterSvc
}
