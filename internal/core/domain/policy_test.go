package domain_test

import (
	"testing"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestAllowed_RoleHierarchy(t *testing.T) {
	cases := []struct {
		role    domain.TenantRole
		action  domain.Action
		allowed bool
	}{
		{domain.RoleViewer, domain.ActionSaleRead, true},
		{domain.RoleViewer, domain.ActionSaleWrite, false},
		{domain.RoleViewer, domain.ActionPaymentPost, false},
		{domain.RoleFieldManager, domain.ActionSaleWrite, true},
		{domain.RoleFieldManager, domain.ActionSalePost, false},
		{domain.RoleFieldManager, domain.ActionDailyBookPost, true},
		{domain.RoleAccountant, domain.ActionPaymentPost, true},
		{domain.RoleAccountant, domain.ActionReconFinalize, true},
		{domain.RoleAccountant, domain.ActionMembersManage, false},
		{domain.RoleTenantAdmin, domain.ActionMembersManage, true},
		{domain.RoleTenantAdmin, domain.ActionPaymentPost, true},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, domain.Allowed(tc.role, tc.action),
			"role %s action %s", tc.role, tc.action)
	}
}

func TestAllowed_UnknownActionIsAdminOnly(t *testing.T) {
	unknown := domain.Action("nonexistent:action")
	assert.False(t, domain.Allowed(domain.RoleAccountant, unknown))
	assert.True(t, domain.Allowed(domain.RoleTenantAdmin, unknown))
	assert.Equal(t, domain.RoleTenantAdmin, domain.MinRoleFor(unknown))
}

func TestSessionCanAct_TenantScoped(t *testing.T) {
	s := domain.Session{UserID: "u1", TenantID: "t1", Role: domain.RoleAccountant}
	assert.True(t, s.CanAct("t1", domain.ActionPaymentPost))
	assert.False(t, s.CanAct("t2", domain.ActionPaymentPost))

	admin := domain.Session{UserID: "u2", IsPlatformAdmin: true}
	assert.False(t, admin.CanAct("t1", domain.ActionPartyRead),
		"platform admin without impersonation has no tenant capabilities")
}
