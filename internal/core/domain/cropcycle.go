package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CropCycleStatus indicates whether a crop cycle is still accepting activity.
type CropCycleStatus string

const (
	CropCycleOpen   CropCycleStatus = "OPEN"
	CropCycleClosed CropCycleStatus = "CLOSED"
)

// CropCycle groups all activity (sales, expenses, settlements) for one crop
// season. Closing is one-way and gated by reconciliation checks.
type CropCycle struct {
	CropCycleID string          `json:"cropCycleID"` // Primary Key (UUID)
	TenantID    string          `json:"tenantID"`
	Name        string          `json:"name"`
	Crop        string          `json:"crop"`
	Season      string          `json:"season"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     *time.Time      `json:"endDate,omitempty"`
	Status      CropCycleStatus `json:"status"`
	AuditFields
}

// LandAllocation records a plot allocated to a crop cycle under a landlord
// party, with either a crop-share percentage or a fixed rent.
type LandAllocation struct {
	LandAllocationID string           `json:"landAllocationID"` // Primary Key (UUID)
	TenantID         string           `json:"tenantID"`
	CropCycleID      string           `json:"cropCycleID"`
	PartyID          string           `json:"partyID"` // Landlord/sharer party
	PlotName         string           `json:"plotName"`
	AreaAcres        decimal.Decimal  `json:"areaAcres"`
	SharePercent     *decimal.Decimal `json:"sharePercent,omitempty"`
	FixedRent        *decimal.Decimal `json:"fixedRent,omitempty"`
	AuditFields
}
