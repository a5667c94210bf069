package repositories

import (
	"context"
	"time"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
)

// CropCycleReader defines read operations for crop cycles.
type CropCycleReader interface {
	FindCropCycleByID(ctx context.Context, tenantID, cropCycleID string) (*domain.CropCycle, error)
	ListCropCycles(ctx context.Context, tenantID string, status *domain.CropCycleStatus) ([]domain.CropCycle, error)
}

// CropCycleWriter defines write operations for crop cycles.
type CropCycleWriter interface {
	SaveCropCycle(ctx context.Context, cycle domain.CropCycle) error
	UpdateCropCycle(ctx context.Context, cycle domain.CropCycle) error
	CloseCropCycle(ctx context.Context, tenantID, cropCycleID string, endDate time.Time, updatedBy string) error
}

// LandAllocationRepository manages land allocations under crop cycles.
type LandAllocationRepository interface {
	SaveLandAllocation(ctx context.Context, alloc domain.LandAllocation) error
	FindLandAllocationByID(ctx context.Context, tenantID, landAllocationID string) (*domain.LandAllocation, error)
	ListLandAllocationsByCropCycle(ctx context.Context, tenantID, cropCycleID string) ([]domain.LandAllocation, error)
	UpdateLandAllocation(ctx context.Context, alloc domain.LandAllocation) error
	DeleteLandAllocation(ctx context.Context, tenantID, landAllocationID string) error
}

// CropCycleRepositoryFacade combines crop cycle and land allocation interfaces.
type CropCycleRepositoryFacade interface {
	CropCycleReader
	CropCycleWriter
	LandAllocationRepository
}
