package repositories

import (
	"context"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
)

// PartyReader defines read operations for party data.
type PartyReader interface {
	FindPartyByID(ctx context.Context, tenantID, partyID string) (*domain.Party, error)
	ListParties(ctx context.Context, tenantID string, role *domain.PartyRole, limit int, nextToken *string) ([]domain.Party, *string, error)
}

// PartyWriter defines write operations for party data.
type PartyWriter interface {
	SaveParty(ctx context.Context, party domain.Party) error
	UpdateParty(ctx context.Context, party domain.Party) error
}

// PartyRepositoryFacade combines all party repository interfaces.
type PartyRepositoryFacade interface {
	PartyReader
	PartyWriter
}
