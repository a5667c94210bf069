package services

import (
	"context"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/SahayFarms/farm_books_app/internal/dto"
)

// CropCycleReaderSvc defines read operations for crop cycles.
type CropCycleReaderSvc interface {
	GetCropCycleByID(ctx context.Context, session domain.Session, tenantID, cropCycleID string) (*domain.CropCycle, error)
	ListCropCycles(ctx context.Context, session domain.Session, tenantID string, status *domain.CropCycleStatus) ([]domain.CropCycle, error)
}

// CropCycleWriterSvc defines write operations for crop cycles.
type CropCycleWriterSvc interface {
	CreateCropCycle(ctx context.Context, session domain.Session, tenantID string, req dto.CreateCropCycleRequest) (*domain.CropCycle, error)
	UpdateCropCycle(ctx context.Context, session domain.Session, tenantID, cropCycleID string, req dto.UpdateCropCycleRequest) (*domain.CropCycle, error)

	// CloseCropCycle runs the consistency checks and closes the cycle.
	// FAIL results always block. WARN results block unless req.Force.
	CloseCropCycle(ctx context.Context, session domain.Session, tenantID, cropCycleID string, req dto.CloseCropCycleRequest) (*domain.CropCycle, error)
}

// LandAllocationSvc manages land allocations under a crop cycle.
type LandAllocationSvc interface {
	CreateLandAllocation(ctx context.Context, session domain.Session, tenantID, cropCycleID string, req dto.CreateLandAllocationRequest) (*domain.LandAllocation, error)
	ListLandAllocations(ctx context.Context, session domain.Session, tenantID, cropCycleID string) ([]domain.LandAllocation, error)
	UpdateLandAllocation(ctx context.Context, session domain.Session, tenantID, landAllocationID string, req dto.UpdateLandAllocationRequest) (*domain.LandAllocation, error)
	DeleteLandAllocation(ctx context.Context, session domain.Session, tenantID, landAllocationID string) error
}

// CropCycleSvcFacade combines all crop-cycle-related service interfaces.
type CropCycleSvcFacade interface {
	CropCycleReaderSvc
	CropCycleWriterSvc
	LandAllocationSvc
}
