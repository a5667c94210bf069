package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SahayFarms/farm_books_app/internal/apperrors"
	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	portsrepo "github.com/SahayFarms/farm_books_app/internal/core/ports/repositories"
)

type PgxCropCycleRepository struct {
	BaseRepository
}

// newPgxCropCycleRepository creates a new repository for crop cycles and land
// allocations.
func newPgxCropCycleRepository(pool *pgxpool.Pool) portsrepo.CropCycleRepositoryFacade {
	return &PgxCropCycleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CropCycleRepositoryFacade = (*PgxCropCycleRepository)(nil)

const cropCycleColumns = `crop_cycle_id, tenant_id, name, crop, season, start_date, end_date, status, created_at, created_by, last_updated_at, last_updated_by`

func scanCropCycle(row pgx.Row) (*domain.CropCycle, error) {
	var c domain.CropCycle
	err := row.Scan(
		&c.CropCycleID,
		&c.TenantID,
		&c.Name,
		&c.Crop,
		&c.Season,
		&c.StartDate,
		&c.EndDate,
		&c.Status,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan crop cycle row: %w", err)
	}
	return &c, nil
}

// FindCropCycleByID retrieves a crop cycle by ID within a tenant.
func (r *PgxCropCycleRepository) FindCropCycleByID(ctx context.Context, tenantID, cropCycleID string) (*domain.CropCycle, error) {
	query := `SELECT ` + cropCycleColumns + ` FROM crop_cycles WHERE tenant_id = $1 AND crop_cycle_id = $2;`
	return scanCropCycle(r.Pool.QueryRow(ctx, query, tenantID, cropCycleID))
}

// ListCropCycles retrieves a tenant's crop cycles, newest first.
func (r *PgxCropCycleRepository) ListCropCycles(ctx context.Context, tenantID string, status *domain.CropCycleStatus) ([]domain.CropCycle, error) {
	args := []interface{}{tenantID}
	query := `SELECT ` + cropCycleColumns + ` FROM crop_cycles WHERE tenant_id = $1`
	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += ` ORDER BY start_date DESC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query crop cycles: %w", err)
	}
	defer rows.Close()

	cycles := []domain.CropCycle{}
	for rows.Next() {
		c, err := scanCropCycle(rows)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, *c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating crop cycle rows: %w", rows.Err())
	}
	return cycles, nil
}

// SaveCropCycle inserts a new crop cycle.
func (r *PgxCropCycleRepository) SaveCropCycle(ctx context.Context, cycle domain.CropCycle) error {
	query := `
		INSERT INTO crop_cycles (` + cropCycleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		cycle.CropCycleID,
		cycle.TenantID,
		cycle.Name,
		cycle.Crop,
		cycle.Season,
		cycle.StartDate,
		cycle.EndDate,
		cycle.Status,
		cycle.CreatedAt,
		cycle.CreatedBy,
		cycle.LastUpdatedAt,
		cycle.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: crop cycle %s already exists", apperrors.ErrDuplicate, cycle.CropCycleID)
		}
		return fmt.Errorf("failed to save crop cycle %s: %w", cycle.CropCycleID, err)
	}
	return nil
}

// UpdateCropCycle updates an open cycle's display fields.
func (r *PgxCropCycleRepository) UpdateCropCycle(ctx context.Context, cycle domain.CropCycle) error {
	query := `
		UPDATE crop_cycles
		SET name = $3, crop = $4, season = $5, last_updated_at = $6, last_updated_by = $7
		WHERE tenant_id = $1 AND crop_cycle_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		cycle.TenantID,
		cycle.CropCycleID,
		cycle.Name,
		cycle.Crop,
		cycle.Season,
		cycle.LastUpdatedAt,
		cycle.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update crop cycle %s: %w", cycle.CropCycleID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CloseCropCycle flips an open cycle CLOSED. The status guard makes closing
// one-way at the database level too.
func (r *PgxCropCycleRepository) CloseCropCycle(ctx context.Context, tenantID, cropCycleID string, endDate time.Time, updatedBy string) error {
	query := `
		UPDATE crop_cycles
		SET status = 'CLOSED', end_date = $3, last_updated_at = $4, last_updated_by = $5
		WHERE tenant_id = $1 AND crop_cycle_id = $2 AND status = 'OPEN';
	`
	tag, err := r.Pool.Exec(ctx, query, tenantID, cropCycleID, endDate, time.Now().UTC(), updatedBy)
	if err != nil {
		return fmt.Errorf("failed to close crop cycle %s: %w", cropCycleID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: crop cycle %s is not open", apperrors.ErrConflict, cropCycleID)
	}
	return nil
}

const landAllocationColumns = `land_allocation_id, tenant_id, crop_cycle_id, party_id, plot_name, area_acres, share_percent, fixed_rent, created_at, created_by, last_updated_at, last_updated_by`

func scanLandAllocation(row pgx.Row) (*domain.LandAllocation, error) {
	var a domain.LandAllocation
	err := row.Scan(
		&a.LandAllocationID,
		&a.TenantID,
		&a.CropCycleID,
		&a.PartyID,
		&a.PlotName,
		&a.AreaAcres,
		&a.SharePercent,
		&a.FixedRent,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan land allocation row: %w", err)
	}
	return &a, nil
}

// SaveLandAllocation inserts a new land allocation.
func (r *PgxCropCycleRepository) SaveLandAllocation(ctx context.Context, alloc domain.LandAllocation) error {
	query := `
		INSERT INTO land_allocations (` + landAllocationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		alloc.LandAllocationID,
		alloc.TenantID,
		alloc.CropCycleID,
		alloc.PartyID,
		alloc.PlotName,
		alloc.AreaAcres,
		alloc.SharePercent,
		alloc.FixedRent,
		alloc.CreatedAt,
		alloc.CreatedBy,
		alloc.LastUpdatedAt,
		alloc.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: land allocation %s already exists", apperrors.ErrDuplicate, alloc.LandAllocationID)
		}
		return fmt.Errorf("failed to save land allocation %s: %w", alloc.LandAllocationID, err)
	}
	return nil
}

// FindLandAllocationByID retrieves one land allocation within a tenant.
func (r *PgxCropCycleRepository) FindLandAllocationByID(ctx context.Context, tenantID, landAllocationID string) (*domain.LandAllocation, error) {
	query := `SELECT ` + landAllocationColumns + ` FROM land_allocations WHERE tenant_id = $1 AND land_allocation_id = $2;`
	return scanLandAllocation(r.Pool.QueryRow(ctx, query, tenantID, landAllocationID))
}

// ListLandAllocationsByCropCycle retrieves a cycle's land allocations.
func (r *PgxCropCycleRepository) ListLandAllocationsByCropCycle(ctx context.Context, tenantID, cropCycleID string) ([]domain.LandAllocation, error) {
	query := `SELECT ` + landAllocationColumns + ` FROM land_allocations WHERE tenant_id = $1 AND crop_cycle_id = $2 ORDER BY plot_name;`
	rows, err := r.Pool.Query(ctx, query, tenantID, cropCycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query land allocations for cycle %s: %w", cropCycleID, err)
	}
	defer rows.Close()

	allocs := []domain.LandAllocation{}
	for rows.Next() {
		a, err := scanLandAllocation(rows)
		if err != nil {
			return nil, err
		}
		allocs = append(allocs, *a)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating land allocation rows: %w", rows.Err())
	}
	return allocs, nil
}

// UpdateLandAllocation updates a land allocation's fields.
func (r *PgxCropCycleRepository) UpdateLandAllocation(ctx context.Context, alloc domain.LandAllocation) error {
	query := `
		UPDATE land_allocations
		SET plot_name = $3, area_acres = $4, share_percent = $5, fixed_rent = $6, last_updated_at = $7, last_updated_by = $8
		WHERE tenant_id = $1 AND land_allocation_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		alloc.TenantID,
		alloc.LandAllocationID,
		alloc.PlotName,
		alloc.AreaAcres,
		alloc.SharePercent,
		alloc.FixedRent,
		alloc.LastUpdatedAt,
		alloc.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update land allocation %s: %w", alloc.LandAllocationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteLandAllocation removes a land allocation.
func (r *PgxCropCycleRepository) DeleteLandAllocation(ctx context.Context, tenantID, landAllocationID string) error {
	query := `DELETE FROM land_allocations WHERE tenant_id = $1 AND land_allocation_id = $2;`
	tag, err := r.Pool.Exec(ctx, query, tenantID, landAllocationID)
	if err != nil {
		return fmt.Errorf("failed to delete land allocation %s: %w", landAllocationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
