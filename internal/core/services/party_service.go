package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	portsrepo "github.com/SahayFarms/farm_books_app/internal/core/ports/repositories"
	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
	"github.com/SahayFarms/farm_books_app/internal/dto"
)

// partyService provides party operations.
type partyService struct {
	BaseService
	partyRepo portsrepo.PartyRepositoryFacade
}

// NewPartyService creates a new PartyService.
func NewPartyService(partyRepo portsrepo.PartyRepositoryFacade) portssvc.PartySvcFacade {
	return &partyService{partyRepo: partyRepo}
}

var _ portssvc.PartySvcFacade = (*partyService)(nil)

// GetPartyByID retrieves a party.
func (s *partyService) GetPartyByID(ctx context.Context, session domain.Session, tenantID, partyID string) (*domain.Party, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionPartyRead); err != nil {
		return nil, err
	}
	party, err := s.partyRepo.FindPartyByID(ctx, tenantID, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find party %s: %w", partyID, err)
	}
	return party, nil
}

// ListParties retrieves a paginated list of parties, optionally by role.
func (s *partyService) ListParties(ctx context.Context, session domain.Session, tenantID string, params dto.ListPartiesParams) (*dto.ListPartiesResponse, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionPartyRead); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	parties, nextToken, err := s.partyRepo.ListParties(ctx, tenantID, params.Role, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list parties", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list parties: %w", err)
	}

	resp := dto.ToListPartiesResponse(parties, nextToken)
	return &resp, nil
}

// CreateParty creates a new party.
func (s *partyService) CreateParty(ctx context.Context, session domain.Session, tenantID string, req dto.CreatePartyRequest) (*domain.Party, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionPartyWrite); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	party := domain.Party{
		PartyID:  uuid.NewString(),
		TenantID: tenantID,
		Name:     req.Name,
		Roles:    req.Roles,
		Phone:    req.Phone,
		Notes:    req.Notes,
		IsActive: true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     session.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: session.UserID,
		},
	}

	if err := s.partyRepo.SaveParty(ctx, party); err != nil {
		s.LogError(ctx, err, "Failed to save party", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save party: %w", err)
	}

	s.LogInfo(ctx, "Party created", slog.String("party_id", party.PartyID), slog.String("tenant_id", tenantID))
	return &party, nil
}

// UpdateParty updates party details.
func (s *partyService) UpdateParty(ctx context.Context, session domain.Session, tenantID, partyID string, req dto.UpdatePartyRequest) (*domain.Party, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionPartyWrite); err != nil {
		return nil, err
	}

	party, err := s.partyRepo.FindPartyByID(ctx, tenantID, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find party %s: %w", partyID, err)
	}

	if req.Name != nil {
		party.Name = *req.Name
	}
	if req.Roles != nil {
		party.Roles = req.Roles
	}
	if req.Phone != nil {
		party.Phone = *req.Phone
	}
	if req.Notes != nil {
		party.Notes = *req.Notes
	}
	if req.IsActive != nil {
		party.IsActive = *req.IsActive
	}
	party.LastUpdatedAt = time.Now().UTC()
	party.LastUpdatedBy = session.UserID

	if err := s.partyRepo.UpdateParty(ctx, *party); err != nil {
		s.LogError(ctx, err, "Failed to update party", slog.String("party_id", partyID))
		return nil, fmt.Errorf("failed to update party: %w", err)
	}
	return party, nil
}

// DeactivateParty soft-deletes a party. Ledger history is preserved.
func (s *partyService) DeactivateParty(ctx context.Context, session domain.Session, tenantID, partyID string) error {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionPartyWrite); err != nil {
		return err
	}

	party, err := s.partyRepo.FindPartyByID(ctx, tenantID, partyID)
	if err != nil {
		return fmt.Errorf("failed to find party %s: %w", partyID, err)
	}

	party.IsActive = false
	party.LastUpdatedAt = time.Now().UTC()
	party.LastUpdatedBy = session.UserID

	if err := s.partyRepo.UpdateParty(ctx, *party); err != nil {
		s.LogError(ctx, err, "Failed to deactivate party", slog.String("party_id", partyID))
		return fmt.Errorf("failed to deactivate party: %w", err)
	}

	s.LogInfo(ctx, "Party deactivated", slog.String("party_id", partyID))
	return nil
}
