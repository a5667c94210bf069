package domain

import "time"

// Tenant represents one farm operation with its own isolated set of books.
type Tenant struct {
	TenantID     string `json:"tenantID"`     // Primary Key (UUID)
	Name         string `json:"name"`         // Display name of the farm/operation
	CurrencyCode string `json:"currencyCode"` // Single currency for this tenant's books
	IsActive     bool   `json:"isActive"`
	AuditFields
}

// TenantRole defines the possible roles a user can have within a tenant.
type TenantRole string

const (
	RoleTenantAdmin  TenantRole = "TENANT_ADMIN"
	RoleAccountant   TenantRole = "ACCOUNTANT"
	RoleFieldManager TenantRole = "FIELD_MANAGER"
	RoleViewer       TenantRole = "VIEWER"
)

// UserTenant represents the membership of a User in a Tenant.
type UserTenant struct {
	UserID   string     `json:"userID"`
	UserName string     `json:"userName"`
	TenantID string     `json:"tenantID"`
	Role     TenantRole `json:"role"`
	JoinedAt time.Time  `json:"joinedAt"`
}

// ModuleKey identifies an optional feature module that can be toggled per tenant.
type ModuleKey string

const (
	ModuleAdvances    ModuleKey = "advances"
	ModuleSettlements ModuleKey = "settlements"
	ModuleBankRecon   ModuleKey = "bank_recon"
	ModuleDailyBook   ModuleKey = "daily_book"
)

// ModuleSetting is a per-tenant feature toggle.
type ModuleSetting struct {
	TenantID string    `json:"tenantID"`
	Module   ModuleKey `json:"module"`
	Enabled  bool      `json:"enabled"`
}
