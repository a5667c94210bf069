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

type PgxTenantRepository struct {
	BaseRepository
}

// newPgxTenantRepository creates a new repository for tenant, membership and
// module-setting data.
func newPgxTenantRepository(pool *pgxpool.Pool) portsrepo.TenantRepositoryFacade {
	return &PgxTenantRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TenantRepositoryFacade = (*PgxTenantRepository)(nil)

const tenantColumns = `tenant_id, name, currency_code, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanTenant(row pgx.Row) (*domain.Tenant, error) {
	var t domain.Tenant
	err := row.Scan(
		&t.TenantID,
		&t.Name,
		&t.CurrencyCode,
		&t.IsActive,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan tenant row: %w", err)
	}
	return &t, nil
}

// FindTenantByID retrieves a tenant by ID.
func (r *PgxTenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE tenant_id = $1;`
	return scanTenant(r.Pool.QueryRow(ctx, query, tenantID))
}

func (r *PgxTenantRepository) listTenants(ctx context.Context, query string) ([]domain.Tenant, error) {
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenants: %w", err)
	}
	defer rows.Close()

	tenants := []domain.Tenant{}
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, *t)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating tenant rows: %w", rows.Err())
	}
	return tenants, nil
}

// ListTenants retrieves all tenants.
func (r *PgxTenantRepository) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	return r.listTenants(ctx, `SELECT `+tenantColumns+` FROM tenants ORDER BY name;`)
}

// ListActiveTenants retrieves active tenants only.
func (r *PgxTenantRepository) ListActiveTenants(ctx context.Context) ([]domain.Tenant, error) {
	return r.listTenants(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE is_active = TRUE ORDER BY name;`)
}

// SaveTenant inserts a new tenant.
func (r *PgxTenantRepository) SaveTenant(ctx context.Context, tenant domain.Tenant) error {
	query := `
		INSERT INTO tenants (tenant_id, name, currency_code, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		tenant.TenantID,
		tenant.Name,
		tenant.CurrencyCode,
		tenant.IsActive,
		tenant.CreatedAt,
		tenant.CreatedBy,
		tenant.LastUpdatedAt,
		tenant.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: tenant %s already exists", apperrors.ErrDuplicate, tenant.TenantID)
		}
		return fmt.Errorf("failed to save tenant %s: %w", tenant.TenantID, err)
	}
	return nil
}

// UpdateTenant updates a tenant's mutable fields.
func (r *PgxTenantRepository) UpdateTenant(ctx context.Context, tenant domain.Tenant) error {
	query := `
		UPDATE tenants
		SET name = $2, is_active = $3, last_updated_at = $4, last_updated_by = $5
		WHERE tenant_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		tenant.TenantID,
		tenant.Name,
		tenant.IsActive,
		tenant.LastUpdatedAt,
		tenant.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update tenant %s: %w", tenant.TenantID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteTenant removes a tenant row.
func (r *PgxTenantRepository) DeleteTenant(ctx context.Context, tenantID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM tenants WHERE tenant_id = $1;`, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete tenant %s: %w", tenantID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AddUserToTenant inserts a membership row.
func (r *PgxTenantRepository) AddUserToTenant(ctx context.Context, membership domain.UserTenant) error {
	query := `
		INSERT INTO user_tenants (user_id, tenant_id, role, joined_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err := r.Pool.Exec(ctx, query,
		membership.UserID,
		membership.TenantID,
		membership.Role,
		membership.JoinedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user %s is already a member of tenant %s", apperrors.ErrDuplicate, membership.UserID, membership.TenantID)
		}
		return fmt.Errorf("failed to add user %s to tenant %s: %w", membership.UserID, membership.TenantID, err)
	}
	return nil
}

const membershipColumns = `ut.user_id, u.name, ut.tenant_id, ut.role, ut.joined_at`

func scanMembership(row pgx.Row) (*domain.UserTenant, error) {
	var m domain.UserTenant
	err := row.Scan(&m.UserID, &m.UserName, &m.TenantID, &m.Role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan membership row: %w", err)
	}
	return &m, nil
}

// FindUserTenantRole retrieves one user's membership in a tenant.
func (r *PgxTenantRepository) FindUserTenantRole(ctx context.Context, userID, tenantID string) (*domain.UserTenant, error) {
	query := `
		SELECT ` + membershipColumns + `
		FROM user_tenants ut
		JOIN users u ON u.user_id = ut.user_id
		WHERE ut.user_id = $1 AND ut.tenant_id = $2;
	`
	return scanMembership(r.Pool.QueryRow(ctx, query, userID, tenantID))
}

// ListTenantMembers retrieves all memberships of a tenant.
func (r *PgxTenantRepository) ListTenantMembers(ctx context.Context, tenantID string) ([]domain.UserTenant, error) {
	query := `
		SELECT ` + membershipColumns + `
		FROM user_tenants ut
		JOIN users u ON u.user_id = ut.user_id
		WHERE ut.tenant_id = $1
		ORDER BY ut.joined_at;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenant members: %w", err)
	}
	defer rows.Close()

	members := []domain.UserTenant{}
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating membership rows: %w", rows.Err())
	}
	return members, nil
}

// ListUserTenants retrieves all tenants a user belongs to.
func (r *PgxTenantRepository) ListUserTenants(ctx context.Context, userID string) ([]domain.UserTenant, error) {
	query := `
		SELECT ` + membershipColumns + `
		FROM user_tenants ut
		JOIN users u ON u.user_id = ut.user_id
		WHERE ut.user_id = $1
		ORDER BY ut.joined_at;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user tenants: %w", err)
	}
	defer rows.Close()

	memberships := []domain.UserTenant{}
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, *m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating membership rows: %w", rows.Err())
	}
	return memberships, nil
}

// UpdateUserTenantRole changes a member's role.
func (r *PgxTenantRepository) UpdateUserTenantRole(ctx context.Context, userID, tenantID string, role domain.TenantRole) error {
	query := `UPDATE user_tenants SET role = $3 WHERE user_id = $1 AND tenant_id = $2;`
	tag, err := r.Pool.Exec(ctx, query, userID, tenantID, role)
	if err != nil {
		return fmt.Errorf("failed to update role for user %s in tenant %s: %w", userID, tenantID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RemoveUserFromTenant deletes a membership row.
func (r *PgxTenantRepository) RemoveUserFromTenant(ctx context.Context, userID, tenantID string) error {
	query := `DELETE FROM user_tenants WHERE user_id = $1 AND tenant_id = $2;`
	tag, err := r.Pool.Exec(ctx, query, userID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to remove user %s from tenant %s: %w", userID, tenantID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpsertModuleSetting creates or replaces a per-tenant module toggle.
func (r *PgxTenantRepository) UpsertModuleSetting(ctx context.Context, setting domain.ModuleSetting) error {
	query := `
		INSERT INTO module_settings (tenant_id, module, enabled, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tenant_id, module) DO UPDATE SET enabled = EXCLUDED.enabled, updated_at = EXCLUDED.updated_at;
	`
	_, err := r.Pool.Exec(ctx, query, setting.TenantID, setting.Module, setting.Enabled, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert module setting %s/%s: %w", setting.TenantID, setting.Module, err)
	}
	return nil
}

// ListModuleSettings retrieves all module toggles of a tenant.
func (r *PgxTenantRepository) ListModuleSettings(ctx context.Context, tenantID string) ([]domain.ModuleSetting, error) {
	query := `SELECT tenant_id, module, enabled FROM module_settings WHERE tenant_id = $1 ORDER BY module;`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query module settings: %w", err)
	}
	defer rows.Close()

	settings := []domain.ModuleSetting{}
	for rows.Next() {
		var s domain.ModuleSetting
		if err := rows.Scan(&s.TenantID, &s.Module, &s.Enabled); err != nil {
			return nil, fmt.Errorf("failed to scan module setting row: %w", err)
		}
		settings = append(settings, s)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating module setting rows: %w", rows.Err())
	}
	return settings, nil
}

// FindModuleSetting retrieves one module toggle, or ErrNotFound when unset.
func (r *PgxTenantRepository) FindModuleSetting(ctx context.Context, tenantID string, module domain.ModuleKey) (*domain.ModuleSetting, error) {
	query := `SELECT tenant_id, module, enabled FROM module_settings WHERE tenant_id = $1 AND module = $2;`
	var s domain.ModuleSetting
	err := r.Pool.QueryRow(ctx, query, tenantID, module).Scan(&s.TenantID, &s.Module, &s.Enabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find module setting %s/%s: %w", tenantID, module, err)
	}
	return &s, nil
}
