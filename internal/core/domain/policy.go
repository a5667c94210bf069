package domain

// Action names a permission-gated operation. Every handler/service permission
// decision goes through the policy table below instead of ad-hoc role lists.
type Action string

const (
	ActionPartyRead       Action = "party:read"
	ActionPartyWrite      Action = "party:write"
	ActionSaleRead        Action = "sale:read"
	ActionSaleWrite       Action = "sale:write"
	ActionSalePost        Action = "sale:post"
	ActionPaymentRead     Action = "payment:read"
	ActionPaymentPost     Action = "payment:post"
	ActionAdvanceRead     Action = "advance:read"
	ActionAdvancePost     Action = "advance:post"
	ActionCropCycleRead   Action = "cropcycle:read"
	ActionCropCycleWrite  Action = "cropcycle:write"
	ActionCropCycleClose  Action = "cropcycle:close"
	ActionLandRead        Action = "land:read"
	ActionLandWrite       Action = "land:write"
	ActionLedgerRead      Action = "ledger:read"
	ActionPostingCreate   Action = "posting:create"
	ActionPostingReverse  Action = "posting:reverse"
	ActionDailyBookRead   Action = "dailybook:read"
	ActionDailyBookPost   Action = "dailybook:post"
	ActionSettlementRead  Action = "settlement:read"
	ActionSettlementPost  Action = "settlement:post"
	ActionReconRead       Action = "recon:read"
	ActionReconWork       Action = "recon:work"
	ActionReconFinalize   Action = "recon:finalize"
	ActionReportsRead     Action = "reports:read"
	ActionMembersManage   Action = "members:manage"
	ActionModulesManage   Action = "modules:manage"
	ActionAccountRead     Action = "account:read"
	ActionAccountWrite    Action = "account:write"
)

// roleRank orders tenant roles from least to most privileged.
var roleRank = map[TenantRole]int{
	RoleViewer:       1,
	RoleFieldManager: 2,
	RoleAccountant:   3,
	RoleTenantAdmin:  4,
}

// minRoleForAction is the policy table: the least privileged role allowed to
// perform each action. Actions absent from the table are admin-only.
var minRoleForAction = map[Action]TenantRole{
	ActionPartyRead:      RoleViewer,
	ActionPartyWrite:     RoleAccountant,
	ActionSaleRead:       RoleViewer,
	ActionSaleWrite:      RoleFieldManager,
	ActionSalePost:       RoleAccountant,
	ActionPaymentRead:    RoleViewer,
	ActionPaymentPost:    RoleAccountant,
	ActionAdvanceRead:    RoleViewer,
	ActionAdvancePost:    RoleAccountant,
	ActionCropCycleRead:  RoleViewer,
	ActionCropCycleWrite: RoleFieldManager,
	ActionCropCycleClose: RoleAccountant,
	ActionLandRead:       RoleViewer,
	ActionLandWrite:      RoleFieldManager,
	ActionLedgerRead:     RoleViewer,
	ActionPostingCreate:  RoleAccountant,
	ActionPostingReverse: RoleAccountant,
	ActionDailyBookRead:  RoleViewer,
	ActionDailyBookPost:  RoleFieldManager,
	ActionSettlementRead: RoleViewer,
	ActionSettlementPost: RoleAccountant,
	ActionReconRead:      RoleViewer,
	ActionReconWork:      RoleAccountant,
	ActionReconFinalize:  RoleAccountant,
	ActionReportsRead:    RoleViewer,
	ActionMembersManage:  RoleTenantAdmin,
	ActionModulesManage:  RoleTenantAdmin,
	ActionAccountRead:    RoleViewer,
	ActionAccountWrite:   RoleAccountant,
}

// Allowed reports whether a role may perform the given action.
func Allowed(role TenantRole, action Action) bool {
	required, ok := minRoleForAction[action]
	if !ok {
		required = RoleTenantAdmin
	}
	return roleRank[role] >= roleRank[required]
}

// MinRoleFor returns the minimum role required for an action.
func MinRoleFor(action Action) TenantRole {
	if required, ok := minRoleForAction[action]; ok {
		return required
	}
	return RoleTenantAdmin
}
