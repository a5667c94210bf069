package repositories

import (
	"context"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
)

// TenantReader defines read operations for tenant data.
type TenantReader interface {
	FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)
	ListTenants(ctx context.Context) ([]domain.Tenant, error)
	ListActiveTenants(ctx context.Context) ([]domain.Tenant, error)
}

// TenantWriter defines write operations for tenant data.
type TenantWriter interface {
	SaveTenant(ctx context.Context, tenant domain.Tenant) error
	UpdateTenant(ctx context.Context, tenant domain.Tenant) error
	DeleteTenant(ctx context.Context, tenantID string) error
}

// MembershipRepository manages user membership within tenants.
type MembershipRepository interface {
	AddUserToTenant(ctx context.Context, membership domain.UserTenant) error
	FindUserTenantRole(ctx context.Context, userID, tenantID string) (*domain.UserTenant, error)
	ListTenantMembers(ctx context.Context, tenantID string) ([]domain.UserTenant, error)
	ListUserTenants(ctx context.Context, userID string) ([]domain.UserTenant, error)
	UpdateUserTenantRole(ctx context.Context, userID, tenantID string, role domain.TenantRole) error
	RemoveUserFromTenant(ctx context.Context, userID, tenantID string) error
}

// ModuleSettingRepository manages per-tenant feature toggles.
type ModuleSettingRepository interface {
	UpsertModuleSetting(ctx context.Context, setting domain.ModuleSetting) error
	ListModuleSettings(ctx context.Context, tenantID string) ([]domain.ModuleSetting, error)
	FindModuleSetting(ctx context.Context, tenantID string, module domain.ModuleKey) (*domain.ModuleSetting, error)
}

// TenantRepositoryFacade combines all tenant-related repository interfaces.
type TenantRepositoryFacade interface {
	TenantReader
	TenantWriter
	MembershipRepository
	ModuleSettingRepository
}
