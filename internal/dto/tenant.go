package dto

import (
	"time"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
)

// --- Tenant DTOs ---

// CreateTenantRequest defines data for creating a new tenant.
type CreateTenantRequest struct {
	Name         string `json:"name" binding:"required"`
	CurrencyCode string `json:"currencyCode" binding:"required,iso4217"`
	// AdminUserID is made the first TENANT_ADMIN of the new tenant.
	AdminUserID string `json:"adminUserID" binding:"required"`
}

// UpdateTenantRequest defines the fields a tenant admin may change.
type UpdateTenantRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"isActive"`
}

// TenantResponse defines data returned for a tenant.
type TenantResponse struct {
	TenantID     string    `json:"tenantID"`
	Name         string    `json:"name"`
	CurrencyCode string    `json:"currencyCode"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	CreatedBy    string    `json:"createdBy"`
}

// ToTenantResponse converts domain.Tenant to DTO.
func ToTenantResponse(t *domain.Tenant) TenantResponse {
	return TenantResponse{
		TenantID:     t.TenantID,
		Name:         t.Name,
		CurrencyCode: t.CurrencyCode,
		IsActive:     t.IsActive,
		CreatedAt:    t.CreatedAt,
		CreatedBy:    t.CreatedBy,
	}
}

// ListTenantsResponse wraps a list of tenants.
type ListTenantsResponse struct {
	Tenants []TenantResponse `json:"tenants"`
}

// ToListTenantsResponse converts a slice of domain.Tenant to DTO.
func ToListTenantsResponse(ts []domain.Tenant) ListTenantsResponse {
	list := make([]TenantResponse, len(ts))
	for i, t := range ts {
		list[i] = ToTenantResponse(&t)
	}
	return ListTenantsResponse{Tenants: list}
}

// --- Membership DTOs ---

// AddMemberRequest defines data for adding a user to a tenant.
type AddMemberRequest struct {
	UserID string            `json:"userID" binding:"required"`
	Role   domain.TenantRole `json:"role" binding:"required,oneof=TENANT_ADMIN ACCOUNTANT FIELD_MANAGER VIEWER"`
}

// UpdateMemberRoleRequest changes an existing member's role.
type UpdateMemberRoleRequest struct {
	Role domain.TenantRole `json:"role" binding:"required,oneof=TENANT_ADMIN ACCOUNTANT FIELD_MANAGER VIEWER"`
}

// MemberResponse defines data returned about a tenant membership.
type MemberResponse struct {
	UserID   string            `json:"userID"`
	UserName string            `json:"userName"`
	TenantID string            `json:"tenantID"`
	Role     domain.TenantRole `json:"role"`
	JoinedAt time.Time         `json:"joinedAt"`
}

// ToMemberResponse converts domain.UserTenant to DTO.
func ToMemberResponse(m *domain.UserTenant) MemberResponse {
	return MemberResponse{
		UserID:   m.UserID,
		UserName: m.UserName,
		TenantID: m.TenantID,
		Role:     m.Role,
		JoinedAt: m.JoinedAt,
	}
}

// --- Module toggle DTOs ---

// SetModuleRequest enables or disables an optional module for the tenant.
type SetModuleRequest struct {
	Module  domain.ModuleKey `json:"module" binding:"required,oneof=advances settlements bank_recon daily_book"`
	Enabled bool             `json:"enabled"`
}

// ModuleSettingResponse reports one module toggle.
type ModuleSettingResponse struct {
	Module  domain.ModuleKey `json:"module"`
	Enabled bool             `json:"enabled"`
}
