package services

import (
	"context"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/SahayFarms/farm_books_app/internal/dto"
)

// TenantReaderSvc defines read operations for tenants.
type TenantReaderSvc interface {
	GetTenantByID(ctx context.Context, session domain.Session, tenantID string) (*domain.Tenant, error)
	// ListTenants is platform-admin only.
	ListTenants(ctx context.Context, session domain.Session) ([]domain.Tenant, error)
	ListMembers(ctx context.Context, session domain.Session, tenantID string) ([]domain.UserTenant, error)
}

// TenantWriterSvc defines write operations for tenants and memberships.
type TenantWriterSvc interface {
	// CreateTenant is platform-admin only. It creates the tenant, its default
	// chart of accounts, and the first admin membership.
	CreateTenant(ctx context.Context, session domain.Session, req dto.CreateTenantRequest) (*domain.Tenant, error)
	UpdateTenant(ctx context.Context, session domain.Session, tenantID string, req dto.UpdateTenantRequest) (*domain.Tenant, error)
	// DeleteTenant is platform-admin only and removes the tenant with all of
	// its data.
	DeleteTenant(ctx context.Context, session domain.Session, tenantID string) error
	AddMember(ctx context.Context, session domain.Session, tenantID string, req dto.AddMemberRequest) (*domain.UserTenant, error)
	UpdateMemberRole(ctx context.Context, session domain.Session, tenantID, userID string, req dto.UpdateMemberRoleRequest) error
	RemoveMember(ctx context.Context, session domain.Session, tenantID, userID string) error
}

// ModuleSettingSvc manages per-tenant optional module toggles.
type ModuleSettingSvc interface {
	SetModule(ctx context.Context, session domain.Session, tenantID string, req dto.SetModuleRequest) error
	ListModules(ctx context.Context, session domain.Session, tenantID string) ([]domain.ModuleSetting, error)
	// IsModuleEnabled is used by the module-gate middleware. Modules default
	// to enabled when no setting row exists.
	IsModuleEnabled(ctx context.Context, tenantID string, module domain.ModuleKey) (bool, error)
}

// TenantSvcFacade combines all tenant-related service interfaces.
type TenantSvcFacade interface {
	TenantReaderSvc
	TenantWriterSvc
	ModuleSettingSvc
}
