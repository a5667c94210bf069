package dto

import (
	"time"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
)

// CreatePartyRequest defines the data needed to create a new party.
type CreatePartyRequest struct {
	Name  string             `json:"name" binding:"required"`
	Roles []domain.PartyRole `json:"roles" binding:"required,min=1,dive,oneof=FARMER LANDLORD BUYER SUPPLIER WORKER SHARER"`
	Phone string             `json:"phone"`
	Notes string             `json:"notes"`
}

// UpdatePartyRequest defines the data allowed for updating a party.
// Pointers distinguish zero-value updates from fields not provided.
type UpdatePartyRequest struct {
	Name     *string            `json:"name"`
	Roles    []domain.PartyRole `json:"roles" binding:"omitempty,min=1,dive,oneof=FARMER LANDLORD BUYER SUPPLIER WORKER SHARER"`
	Phone    *string            `json:"phone"`
	Notes    *string            `json:"notes"`
	IsActive *bool              `json:"isActive"`
}

// PartyResponse defines the data returned for a party.
type PartyResponse struct {
	PartyID   string             `json:"partyID"`
	Name      string             `json:"name"`
	Roles     []domain.PartyRole `json:"roles"`
	Phone     string             `json:"phone,omitempty"`
	Notes     string             `json:"notes,omitempty"`
	IsActive  bool               `json:"isActive"`
	CreatedAt time.Time          `json:"createdAt"`
}

// ToPartyResponse converts a domain.Party to PartyResponse DTO.
func ToPartyResponse(p *domain.Party) PartyResponse {
	return PartyResponse{
		PartyID:   p.PartyID,
		Name:      p.Name,
		Roles:     p.Roles,
		Phone:     p.Phone,
		Notes:     p.Notes,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
	}
}

// ListPartiesParams defines query parameters for listing parties.
type ListPartiesParams struct {
	Role      *domain.PartyRole `form:"role"`
	Limit     int               `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string           `form:"nextToken"`
}

// ListPartiesResponse wraps a paginated list of parties.
type ListPartiesResponse struct {
	Parties   []PartyResponse `json:"parties"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToListPartiesResponse converts a slice of domain.Party plus token to DTO.
func ToListPartiesResponse(ps []domain.Party, nextToken *string) ListPartiesResponse {
	list := make([]PartyResponse, len(ps))
	for i, p := range ps {
		list[i] = ToPartyResponse(&p)
	}
	return ListPartiesResponse{Parties: list, NextToken: nextToken}
}
