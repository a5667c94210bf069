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

// Well-known chart codes the posting flows resolve against.
const (
	codeCash               = "1000"
	codeBank               = "1010"
	codeAccountsReceivable = "1100"
	codeAdvancesGiven      = "1200"
	codeAccountsPayable    = "2000"
	codeAdvancesReceived   = "2100"
	codeProduceSales       = "4000"
	codeSettlementShares   = "5300"
)

// defaultChart is the chart of accounts seeded into every new tenant.
var defaultChart = []struct {
	Code   string
	Name   string
	Type   domain.AccountType
	IsBank bool
}{
	{codeCash, "Cash", domain.Asset, true},
	{codeBank, "Bank", domain.Asset, true},
	{codeAccountsReceivable, "Accounts Receivable", domain.Asset, false},
	{codeAdvancesGiven, "Advances Given", domain.Asset, false},
	{codeAccountsPayable, "Accounts Payable", domain.Liability, false},
	{codeAdvancesReceived, "Advances Received", domain.Liability, false},
	{"3000", "Owner Equity", domain.Equity, false},
	{codeProduceSales, "Produce Sales", domain.Revenue, false},
	{"4100", "Other Income", domain.Revenue, false},
	{"5000", "Farm Expenses", domain.Expense, false},
	{"5100", "Labour", domain.Expense, false},
	{"5200", "Land Rent", domain.Expense, false},
	{codeSettlementShares, "Settlement Shares", domain.Expense, false},
}

// tenantService provides tenant, membership and module toggle operations.
type tenantService struct {
	BaseService
	tenantRepo  portsrepo.TenantRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewTenantService creates a new TenantService.
func NewTenantService(tenantRepo portsrepo.TenantRepositoryFacade, userRepo portsrepo.UserRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.TenantSvcFacade {
	return &tenantService{
		tenantRepo:  tenantRepo,
		userRepo:    userRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.TenantSvcFacade = (*tenantService)(nil)

// GetTenantByID retrieves a tenant the session may see.
func (s *tenantService) GetTenantByID(ctx context.Context, session domain.Session, tenantID string) (*domain.Tenant, error) {
	if !session.IsPlatformAdmin && session.TenantID != tenantID {
		return nil, apperrors.ErrNotFound // Obscure existence
	}
	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tenant %s: %w", tenantID, err)
	}
	return tenant, nil
}

// ListTenants lists all tenants. Platform-admin only.
func (s *tenantService) ListTenants(ctx context.Context, session domain.Session) ([]domain.Tenant, error) {
	if !session.IsPlatformAdmin {
		return nil, fmt.Errorf("%w: listing tenants requires platform admin", apperrors.ErrForbidden)
	}
	tenants, err := s.tenantRepo.ListTenants(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tenants")
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return tenants, nil
}

// ListMembers lists a tenant's memberships.
func (s *tenantService) ListMembers(ctx context.Context, session domain.Session, tenantID string) ([]domain.UserTenant, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionMembersManage); err != nil {
		return nil, err
	}
	members, err := s.tenantRepo.ListTenantMembers(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tenant members", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// CreateTenant creates the tenant, seeds its chart of accounts, and adds the
// first admin membership. Platform-admin only.
func (s *tenantService) CreateTenant(ctx context.Context, session domain.Session, req dto.CreateTenantRequest) (*domain.Tenant, error) {
	if !session.IsPlatformAdmin {
		return nil, fmt.Errorf("%w: creating tenants requires platform admin", apperrors.ErrForbidden)
	}

	admin, err := s.userRepo.FindUserByID(ctx, req.AdminUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find admin user: %w", err)
	}

	now := time.Now().UTC()
	tenant := domain.Tenant{
		TenantID:     uuid.NewString(),
		Name:         req.Name,
		CurrencyCode: req.CurrencyCode,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     session.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: session.UserID,
		},
	}

	if err := s.tenantRepo.SaveTenant(ctx, tenant); err != nil {
		s.LogError(ctx, err, "Failed to save tenant")
		return nil, fmt.Errorf("failed to save tenant: %w", err)
	}

	membership := domain.UserTenant{
		UserID:   admin.UserID,
		UserName: admin.Name,
		TenantID: tenant.TenantID,
		Role:     domain.RoleTenantAdmin,
		JoinedAt: now,
	}
	if err := s.tenantRepo.AddUserToTenant(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to add admin membership")
		return nil, fmt.Errorf("failed to add admin membership: %w", err)
	}

	accounts := make([]domain.Account, len(defaultChart))
	for i, c := range defaultChart {
		accounts[i] = domain.Account{
			AccountID: uuid.NewString(),
			TenantID:  tenant.TenantID,
			Code:      c.Code,
			Name:      c.Name,
			Type:      c.Type,
			IsBank:    c.IsBank,
			IsActive:  true,
			Balance:   decimal.Zero,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     session.UserID,
				LastUpdatedAt: now,
				LastUpdatedBy: session.UserID,
			},
		}
	}
	if err := s.accountRepo.SaveAccounts(ctx, accounts); err != nil {
		s.LogError(ctx, err, "Failed to seed chart of accounts", slog.String("tenant_id", tenant.TenantID))
		return nil, fmt.Errorf("failed to seed chart of accounts: %w", err)
	}

	s.LogInfo(ctx, "Tenant created", slog.String("tenant_id", tenant.TenantID), slog.String("admin_user_id", admin.UserID))
	return &tenant, nil
}

// UpdateTenant changes tenant display fields.
func (s *tenantService) UpdateTenant(ctx context.Context, session domain.Session, tenantID string, req dto.UpdateTenantRequest) (*domain.Tenant, error) {
	if !session.IsPlatformAdmin {
		if err := s.Authorize(ctx, session, tenantID, domain.ActionMembersManage); err != nil {
			return nil, err
		}
	}

	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tenant %s: %w", tenantID, err)
	}

	if req.Name != nil {
		tenant.Name = *req.Name
	}
	if req.IsActive != nil {
		// Only a platform admin may suspend a tenant.
		if !session.IsPlatformAdmin {
			return nil, fmt.Errorf("%w: changing active state requires platform admin", apperrors.ErrForbidden)
		}
		tenant.IsActive = *req.IsActive
	}
	tenant.LastUpdatedAt = time.Now().UTC()
	tenant.LastUpdatedBy = session.UserID

	if err := s.tenantRepo.UpdateTenant(ctx, *tenant); err != nil {
		s.LogError(ctx, err, "Failed to update tenant")
		return nil, fmt.Errorf("failed to update tenant: %w", err)
	}
	return tenant, nil
}

// DeleteTenant removes a tenant and everything under it. Platform-admin only;
// memberships, accounts and books go with the tenant row via cascade.
func (s *tenantService) DeleteTenant(ctx context.Context, session domain.Session, tenantID string) error {
	if !session.IsPlatformAdmin {
		return fmt.Errorf("%w: deleting tenants requires platform admin", apperrors.ErrForbidden)
	}

	if _, err := s.tenantRepo.FindTenantByID(ctx, tenantID); err != nil {
		return fmt.Errorf("failed to find tenant %s: %w", tenantID, err)
	}

	if err := s.tenantRepo.DeleteTenant(ctx, tenantID); err != nil {
		s.LogError(ctx, err, "Failed to delete tenant", slog.String("tenant_id", tenantID))
		return fmt.Errorf("failed to delete tenant: %w", err)
	}

	s.LogInfo(ctx, "Tenant deleted", slog.String("tenant_id", tenantID))
	return nil
}

// AddMember adds a user to the tenant with the given role.
func (s *tenantService) AddMember(ctx context.Context, session domain.Session, tenantID string, req dto.AddMemberRequest) (*domain.UserTenant, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionMembersManage); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUserByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user %s: %w", req.UserID, err)
	}

	existing, err := s.tenantRepo.FindUserTenantRole(ctx, req.UserID, tenantID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user is already a member", apperrors.ErrDuplicate)
	}

	membership := domain.UserTenant{
		UserID:   user.UserID,
		UserName: user.Name,
		TenantID: tenantID,
		Role:     req.Role,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.tenantRepo.AddUserToTenant(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to add member", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	s.LogInfo(ctx, "Member added", slog.String("tenant_id", tenantID), slog.String("user_id", user.UserID), slog.String("role", string(req.Role)))
	return &membership, nil
}

// UpdateMemberRole changes an existing member's role.
func (s *tenantService) UpdateMemberRole(ctx context.Context, session domain.Session, tenantID, userID string, req dto.UpdateMemberRoleRequest) error {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionMembersManage); err != nil {
		return err
	}

	if _, err := s.tenantRepo.FindUserTenantRole(ctx, userID, tenantID); err != nil {
		return fmt.Errorf("failed to find membership: %w", err)
	}

	if err := s.tenantRepo.UpdateUserTenantRole(ctx, userID, tenantID, req.Role); err != nil {
		s.LogError(ctx, err, "Failed to update member role")
		return fmt.Errorf("failed to update member role: %w", err)
	}
	return nil
}

// RemoveMember removes a user's membership. The last admin cannot be removed.
func (s *tenantService) RemoveMember(ctx context.Context, session domain.Session, tenantID, userID string) error {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionMembersManage); err != nil {
		return err
	}

	membership, err := s.tenantRepo.FindUserTenantRole(ctx, userID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to find membership: %w", err)
	}

	if membership.Role == domain.RoleTenantAdmin {
		members, err := s.tenantRepo.ListTenantMembers(ctx, tenantID)
		if err != nil {
			return fmt.Errorf("failed to list members: %w", err)
		}
		admins := 0
		for _, m := range members {
			if m.Role == domain.RoleTenantAdmin {
				admins++
			}
		}
		if admins <= 1 {
			return fmt.Errorf("%w: cannot remove the last tenant admin", apperrors.ErrConflict)
		}
	}

	if err := s.tenantRepo.RemoveUserFromTenant(ctx, userID, tenantID); err != nil {
		s.LogError(ctx, err, "Failed to remove member")
		return fmt.Errorf("failed to remove member: %w", err)
	}

	s.LogInfo(ctx, "Member removed", slog.String("tenant_id", tenantID), slog.String("user_id", userID))
	return nil
}

// SetModule enables or disables an optional module for the tenant.
func (s *tenantService) SetModule(ctx context.Context, session domain.Session, tenantID string, req dto.SetModuleRequest) error {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionModulesManage); err != nil {
		return err
	}

	setting := domain.ModuleSetting{
		TenantID: tenantID,
		Module:   req.Module,
		Enabled:  req.Enabled,
	}
	if err := s.tenantRepo.UpsertModuleSetting(ctx, setting); err != nil {
		s.LogError(ctx, err, "Failed to upsert module setting")
		return fmt.Errorf("failed to set module: %w", err)
	}

	s.LogInfo(ctx, "Module setting changed", slog.String("tenant_id", tenantID), slog.String("module", string(req.Module)), slog.Bool("enabled", req.Enabled))
	return nil
}

// ListModules lists the tenant's module toggles.
func (s *tenantService) ListModules(ctx context.Context, session domain.Session, tenantID string) ([]domain.ModuleSetting, error) {
	if err := s.Authorize(ctx, session, tenantID, domain.ActionModulesManage); err != nil {
		return nil, err
	}
	settings, err := s.tenantRepo.ListModuleSettings(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list module settings: %w", err)
	}
	return settings, nil
}

// IsModuleEnabled reports whether the module is enabled for the tenant.
// Modules default to enabled when no setting row exists.
func (s *tenantService) IsModuleEnabled(ctx context.Context, tenantID string, module domain.ModuleKey) (bool, error) {
	setting, err := s.tenantRepo.FindModuleSetting(ctx, tenantID, module)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("failed to find module setting: %w", err)
	}
	return setting.Enabled, nil
}
