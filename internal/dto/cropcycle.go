package dto

import (
	"time"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Crop cycle DTOs ---

// CreateCropCycleRequest defines data for opening a new crop cycle.
type CreateCropCycleRequest struct {
	Name      string    `json:"name" binding:"required"`
	Crop      string    `json:"crop" binding:"required"`
	Season    string    `json:"season" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required"`
}

// UpdateCropCycleRequest defines the fields editable while a cycle is OPEN.
type UpdateCropCycleRequest struct {
	Name   *string `json:"name"`
	Crop   *string `json:"crop"`
	Season *string `json:"season"`
}

// CloseCropCycleRequest closes a cycle as of the given end date.
type CloseCropCycleRequest struct {
	EndDate time.Time `json:"endDate" binding:"required"`
	// Force closes despite WARN check results. FAIL results always block.
	Force bool `json:"force"`
}

// CropCycleResponse defines the data returned for a crop cycle.
type CropCycleResponse struct {
	CropCycleID string                 `json:"cropCycleID"`
	Name        string                 `json:"name"`
	Crop        string                 `json:"crop"`
	Season      string                 `json:"season"`
	StartDate   time.Time              `json:"startDate"`
	EndDate     *time.Time             `json:"endDate,omitempty"`
	Status      domain.CropCycleStatus `json:"status"`
	CreatedAt   time.Time              `json:"createdAt"`
}

// ToCropCycleResponse converts a domain.CropCycle to DTO.
func ToCropCycleResponse(c *domain.CropCycle) CropCycleResponse {
	return CropCycleResponse{
		CropCycleID: c.CropCycleID,
		Name:        c.Name,
		Crop:        c.Crop,
		Season:      c.Season,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
	}
}

// ListCropCyclesResponse wraps a list of crop cycles.
type ListCropCyclesResponse struct {
	CropCycles []CropCycleResponse `json:"cropCycles"`
}

// ToListCropCyclesResponse converts a slice of domain.CropCycle to DTO.
func ToListCropCyclesResponse(cs []domain.CropCycle) ListCropCyclesResponse {
	list := make([]CropCycleResponse, len(cs))
	for i, c := range cs {
		list[i] = ToCropCycleResponse(&c)
	}
	return ListCropCyclesResponse{CropCycles: list}
}

// --- Land allocation DTOs ---

// CreateLandAllocationRequest allocates a plot to a crop cycle. Exactly one
// of sharePercent/fixedRent must be set.
type CreateLandAllocationRequest struct {
	PartyID      string           `json:"partyID" binding:"required"`
	PlotName     string           `json:"plotName" binding:"required"`
	AreaAcres    decimal.Decimal  `json:"areaAcres" binding:"required,gt=0"`
	SharePercent *decimal.Decimal `json:"sharePercent"`
	FixedRent    *decimal.Decimal `json:"fixedRent"`
}

// UpdateLandAllocationRequest edits an existing land allocation.
type UpdateLandAllocationRequest struct {
	PlotName     *string          `json:"plotName"`
	AreaAcres    *decimal.Decimal `json:"areaAcres"`
	SharePercent *decimal.Decimal `json:"sharePercent"`
	FixedRent    *decimal.Decimal `json:"fixedRent"`
}

// LandAllocationResponse defines the data returned for a land allocation.
type LandAllocationResponse struct {
	LandAllocationID string           `json:"landAllocationID"`
	CropCycleID      string           `json:"cropCycleID"`
	PartyID          string           `json:"partyID"`
	PlotName         string           `json:"plotName"`
	AreaAcres        decimal.Decimal  `json:"areaAcres"`
	SharePercent     *decimal.Decimal `json:"sharePercent,omitempty"`
	FixedRent        *decimal.Decimal `json:"fixedRent,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// ToLandAllocationResponse converts a domain.LandAllocation to DTO.
func ToLandAllocationResponse(a *domain.LandAllocation) LandAllocationResponse {
	return LandAllocationResponse{
		LandAllocationID: a.LandAllocationID,
		CropCycleID:      a.CropCycleID,
		PartyID:          a.PartyID,
		PlotName:         a.PlotName,
		AreaAcres:        a.AreaAcres,
		SharePercent:     a.SharePercent,
		FixedRent:        a.FixedRent,
		CreatedAt:        a.CreatedAt,
	}
}

// ToListLandAllocationsResponse converts a slice of domain.LandAllocation to DTOs.
func ToListLandAllocationsResponse(as []domain.LandAllocation) []LandAllocationResponse {
	list := make([]LandAllocationResponse, len(as))
	for i, a := range as {
		list[i] = ToLandAllocationResponse(&a)
	}
	return list
}
