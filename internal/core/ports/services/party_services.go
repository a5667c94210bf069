package services

import (
	"context"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/SahayFarms/farm_books_app/internal/dto"
)

// PartyReaderSvc defines read operations for parties.
type PartyReaderSvc interface {
	GetPartyByID(ctx context.Context, session domain.Session, tenantID, partyID string) (*domain.Party, error)
	ListParties(ctx context.Context, session domain.Session, tenantID string, params dto.ListPartiesParams) (*dto.ListPartiesResponse, error)
}

// PartyWriterSvc defines write operations for parties.
type PartyWriterSvc interface {
	CreateParty(ctx context.Context, session domain.Session, tenantID string, req dto.CreatePartyRequest) (*domain.Party, error)
	UpdateParty(ctx context.Context, session domain.Session, tenantID, partyID string, req dto.UpdatePartyRequest) (*domain.Party, error)
	// DeactivateParty soft-deletes. Parties with ledger history are never
	// hard-deleted.
	DeactivateParty(ctx context.Context, session domain.Session, tenantID, partyID string) error
}

// PartySvcFacade combines all party-related service interfaces.
type PartySvcFacade interface {
	PartyReaderSvc
	PartyWriterSvc
}
