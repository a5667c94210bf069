package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SahayFarms/farm_books_app/internal/apperrors"
	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	portsrepo "github.com/SahayFarms/farm_books_app/internal/core/ports/repositories"
	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
	"github.com/SahayFarms/farm_books_app/internal/dto"
)

var hundred = decimal.NewFromInt(100)

var (
	ErrCycleAlreadyClosed = errors.New("crop cycle is already closed")
	ErrChecksBlockClose   = errors.New("reconciliation checks block closing the cycle")
	ErrShareRuleExclusive = errors.New("exactly one of sharePercent or fixedRent must be set")
)

// cropCycleService provides crop cycle and land allocation operations.
type cropCycleService struct {
	BaseService
	cycleRepo    portsrepo.CropCycleRepositoryFacade
	partyRepo    portsrepo.PartyRepositoryFacade
	reportingSvc portssvc.ReportingSvcFacade
}

// NewCropCycleService creates a new CropCycleService.
func NewCropCycleService(cycleRepo portsrepo.CropCycleRepositoryFacade, partyRepo portsrepo.PartyRepositoryFacade, reportingSvc portssvc.ReportingSvcFacade) portssvc.CropCycleSvcFacade {
	return &cropCycleService{
		cycleRepo:    cycleRepo,
		partyRepo:    partyRepo,
		reportingSvc: reportingSvc,
	}
}

var _ portssvc.CropCycleSvcFacade = (*cropCycleService)(nil)

// GetCropCycleByID retrieves a crop cycle.
func (s *cropCycleService) GetCropCycleByID(ctx context.Context, session domain.Session, tenantID, cropCycleID string) (*domain.CropCycle, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionCropCycleRead); err != nil {
		return nil, err
	}
	cycle, err := s.cycleRepo.FindCropCycleByID(ctx, tenantID, cropCycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find crop cycle %s: %w", cropCycleID, err)
	}
	return cycle, nil
}

// ListCropCycles lists the tenant's crop cycles, optionally by status.
func (s *cropCycleService) ListCropCycles(ctx context.Context, session domain.Session, tenantID string, status *domain.CropCycleStatus) ([]domain.CropCycle, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionCropCycleRead); err != nil {
		return nil, err
	}
	cycles, err := s.cycleRepo.ListCropCycles(ctx, tenantID, status)
	if err != nil {
		s.LogError(ctx, err, "Failed to list crop cycles", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list crop cycles: %w", err)
	}
	return cycles, nil
}

// CreateCropCycle opens a new crop cycle.
func (s *cropCycleService) CreateCropCycle(ctx context.Context, session domain.Session, tenantID string, req dto.CreateCropCycleRequest) (*domain.CropCycle, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionCropCycleWrite); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cycle := domain.CropCycle{
		CropCycleID: uuid.NewString(),
		TenantID:    tenantID,
		Name:        req.Name,
		Crop:        req.Crop,
		Season:      req.Season,
		StartDate:   req.StartDate,
		Status:      domain.CropCycleOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     session.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: session.UserID,
		},
	}

	if err := s.cycleRepo.SaveCropCycle(ctx, cycle); err != nil {
		s.LogError(ctx, err, "Failed to save crop cycle", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save crop cycle: %w", err)
	}

	s.LogInfo(ctx, "Crop cycle created", slog.String("crop_cycle_id", cycle.CropCycleID))
	return &cycle, nil
}

// UpdateCropCycle edits an OPEN cycle's display fields.
func (s *cropCycleService) UpdateCropCycle(ctx context.Context, session domain.Session, tenantID, cropCycleID string, req dto.UpdateCropCycleRequest) (*domain.CropCycle, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionCropCycleWrite); err != nil {
		return nil, err
	}

	cycle, err := s.cycleRepo.FindCropCycleByID(ctx, tenantID, cropCycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find crop cycle %s: %w", cropCycleID, err)
	}
	if cycle.Status != domain.CropCycleOpen {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrCycleAlreadyClosed)
	}

	if req.Name != nil {
		cycle.Name = *req.Name
	}
	if req.Crop != nil {
		cycle.Crop = *req.Crop
	}
	if req.Season != nil {
		cycle.Season = *req.Season
	}
	cycle.LastUpdatedAt = time.Now().UTC()
	cycle.LastUpdatedBy = session.UserID

	if err := s.cycleRepo.UpdateCropCycle(ctx, *cycle); err != nil {
		s.LogError(ctx, err, "Failed to update crop cycle", slog.String("crop_cycle_id", cropCycleID))
		return nil, fmt.Errorf("failed to update crop cycle: %w", err)
	}
	return cycle, nil
}

// CloseCropCycle runs the consistency checks and closes the cycle. Closing is
// one-way. FAIL results always block; WARN results block unless forced.
func (s *cropCycleService) CloseCropCycle(ctx context.Context, session domain.Session, tenantID, cropCycleID string, req dto.CloseCropCycleRequest) (*domain.CropCycle, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionCropCycleClose); err != nil {
		return nil, err
	}

	cycle, err := s.cycleRepo.FindCropCycleByID(ctx, tenantID, cropCycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find crop cycle %s: %w", cropCycleID, err)
	}
	if cycle.Status != domain.CropCycleOpen {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrCycleAlreadyClosed)
	}
	if req.EndDate.Before(cycle.StartDate) {
		return nil, fmt.Errorf("%w: end date precedes start date", apperrors.ErrValidation)
	}

	checks, err := s.reportingSvc.RunChecks(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to run checks before close", slog.String("crop_cycle_id", cropCycleID))
		return nil, fmt.Errorf("failed to run checks: %w", err)
	}
	for _, c := range checks {
		if c.Severity == domain.CheckFail {
			return nil, fmt.Errorf("%w: %v: %s", apperrors.ErrConflict, ErrChecksBlockClose, c.Name)
		}
		if c.Severity == domain.CheckWarn && !req.Force {
			return nil, fmt.Errorf("%w: %v: %s (pass force to override)", apperrors.ErrConflict, ErrChecksBlockClose, c.Name)
		}
	}

	if err := s.cycleRepo.CloseCropCycle(ctx, tenantID, cropCycleID, req.EndDate, session.UserID); err != nil {
		s.LogError(ctx, err, "Failed to close crop cycle", slog.String("crop_cycle_id", cropCycleID))
		return nil, fmt.Errorf("failed to close crop cycle: %w", err)
	}

	cycle.Status = domain.CropCycleClosed
	cycle.EndDate = &req.EndDate
	cycle.LastUpdatedAt = time.Now().UTC()
	cycle.LastUpdatedBy = session.UserID

	s.LogInfo(ctx, "Crop cycle closed", slog.String("crop_cycle_id", cropCycleID))
	return cycle, nil
}

// CreateLandAllocation allocates a plot to a crop cycle.
func (s *cropCycleService) CreateLandAllocation(ctx context.Context, session domain.Session, tenantID, cropCycleID string, req dto.CreateLandAllocationRequest) (*domain.LandAllocation, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionLandWrite); err != nil {
		return nil, err
	}

	cycle, err := s.cycleRepo.FindCropCycleByID(ctx, tenantID, cropCycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find crop cycle %s: %w", cropCycleID, err)
	}
	if cycle.Status != domain.CropCycleOpen {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrCycleAlreadyClosed)
	}

	if (req.SharePercent == nil) == (req.FixedRent == nil) {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrShareRuleExclusive)
	}
	if req.SharePercent != nil && (!req.SharePercent.IsPositive() || req.SharePercent.GreaterThan(hundred)) {
		return nil, fmt.Errorf("%w: share percent must be in (0, 100]", apperrors.ErrValidation)
	}
	if req.FixedRent != nil && !req.FixedRent.IsPositive() {
		return nil, fmt.Errorf("%w: fixed rent must be positive", apperrors.ErrValidation)
	}
	if !req.AreaAcres.IsPositive() {
		return nil, fmt.Errorf("%w: area must be positive", apperrors.ErrValidation)
	}

	party, err := s.partyRepo.FindPartyByID(ctx, tenantID, req.PartyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find party %s: %w", req.PartyID, err)
	}
	if !party.HasRole(domain.PartyLandlord) && !party.HasRole(domain.PartySharer) {
		return nil, fmt.Errorf("%w: party must be a landlord or sharer", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	alloc := domain.LandAllocation{
		LandAllocationID: uuid.NewString(),
		TenantID:         tenantID,
		CropCycleID:      cropCycleID,
		PartyID:          req.PartyID,
		PlotName:         req.PlotName,
		AreaAcres:        req.AreaAcres,
		SharePercent:     req.SharePercent,
		FixedRent:        req.FixedRent,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     session.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: session.UserID,
		},
	}

	if err := s.cycleRepo.SaveLandAllocation(ctx, alloc); err != nil {
		s.LogError(ctx, err, "Failed to save land allocation", slog.String("crop_cycle_id", cropCycleID))
		return nil, fmt.Errorf("failed to save land allocation: %w", err)
	}

	s.LogInfo(ctx, "Land allocation created", slog.String("land_allocation_id", alloc.LandAllocationID))
	return &alloc, nil
}

// ListLandAllocations lists a cycle's land allocations.
func (s *cropCycleService) ListLandAllocations(ctx context.Context, session domain.Session, tenantID, cropCycleID string) ([]domain.LandAllocation, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionLandRead); err != nil {
		return nil, err
	}
	allocs, err := s.cycleRepo.ListLandAllocationsByCropCycle(ctx, tenantID, cropCycleID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list land allocations", slog.String("crop_cycle_id", cropCycleID))
		return nil, fmt.Errorf("failed to list land allocations: %w", err)
	}
	return allocs, nil
}

// UpdateLandAllocation edits a land allocation under an open cycle.
func (s *cropCycleService) UpdateLandAllocation(ctx context.Context, session domain.Session, tenantID, landAllocationID string, req dto.UpdateLandAllocationRequest) (*domain.LandAllocation, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionLandWrite); err != nil {
		return nil, err
	}

	alloc, err := s.cycleRepo.FindLandAllocationByID(ctx, tenantID, landAllocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find land allocation %s: %w", landAllocationID, err)
	}

	cycle, err := s.cycleRepo.FindCropCycleByID(ctx, tenantID, alloc.CropCycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find crop cycle %s: %w", alloc.CropCycleID, err)
	}
	if cycle.Status != domain.CropCycleOpen {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrCycleAlreadyClosed)
	}

	if req.PlotName != nil {
		alloc.PlotName = *req.PlotName
	}
	if req.AreaAcres != nil {
		if !req.AreaAcres.IsPositive() {
			return nil, fmt.Errorf("%w: area must be positive", apperrors.ErrValidation)
		}
		alloc.AreaAcres = *req.AreaAcres
	}
	if req.SharePercent != nil {
		if !req.SharePercent.IsPositive() || req.SharePercent.GreaterThan(hundred) {
			return nil, fmt.Errorf("%w: share percent must be in (0, 100]", apperrors.ErrValidation)
		}
		alloc.SharePercent = req.SharePercent
		alloc.FixedRent = nil
	}
	if req.FixedRent != nil {
		if !req.FixedRent.IsPositive() {
			return nil, fmt.Errorf("%w: fixed rent must be positive", apperrors.ErrValidation)
		}
		alloc.FixedRent = req.FixedRent
		alloc.SharePercent = nil
	}
	alloc.LastUpdatedAt = time.Now().UTC()
	alloc.LastUpdatedBy = session.UserID

	if err := s.cycleRepo.UpdateLandAllocation(ctx, *alloc); err != nil {
		s.LogError(ctx, err, "Failed to update land allocation", slog.String("land_allocation_id", landAllocationID))
		return nil, fmt.Errorf("failed to update land allocation: %w", err)
	}
	return alloc, nil
}

// DeleteLandAllocation removes a land allocation under an open cycle.
func (s *cropCycleService) DeleteLandAllocation(ctx context.Context, session domain.Session, tenantID, landAllocationID string) error {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionLandWrite); err != nil {
		return err
	}

	alloc, err := s.cycleRepo.FindLandAllocationByID(ctx, tenantID, landAllocationID)
	if err != nil {
		return fmt.Errorf("failed to find land allocation %s: %w", landAllocationID, err)
	}

	cycle, err := s.cycleRepo.FindCropCycleByID(ctx, tenantID, alloc.CropCycleID)
	if err != nil {
		return fmt.Errorf("failed to find crop cycle %s: %w", alloc.CropCycleID, err)
	}
	if cycle.Status != domain.CropCycleOpen {
		return fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrCycleAlreadyClosed)
	}

	if err := s.cycleRepo.DeleteLandAllocation(ctx, tenantID, landAllocationID); err != nil {
		s.LogError(ctx, err, "Failed to delete land allocation", slog.String("land_allocation_id", landAllocationID))
		return fmt.Errorf("failed to delete land allocation: %w", err)
	}

	s.LogInfo(ctx, "Land allocation deleted", slog.String("land_allocation_id", landAllocationID))
	return nil
}
