package domain

// Session is the explicit, request-scoped identity object built once from the
// JWT by the auth middleware and passed to services. It replaces ambient
// module-level auth state.
type Session struct {
	UserID          string     `json:"userID"`
	TenantID        string     `json:"tenantID,omitempty"`
	Role            TenantRole `json:"role,omitempty"`
	IsPlatformAdmin bool       `json:"isPlatformAdmin"`
	ImpersonatorID  string     `json:"impersonatorID,omitempty"` // Platform admin acting as another user
}

// CanAct reports whether the session may perform action within tenantID.
// Tenant scoping is strict: a token minted for one tenant never acts in
// another, platform admin or not (admins impersonate to obtain tenant tokens).
func (s Session) CanAct(tenantID string, action Action) bool {
	if s.TenantID != tenantID {
		return false
	}
	return Allowed(s.Role, action)
}
