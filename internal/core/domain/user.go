package domain

// User represents an application user.
type User struct {
	UserID          string `json:"userID"` // Primary Key (UUID)
	Name            string `json:"name"`
	Email           string `json:"email"`
	PasswordHash    string `json:"-"`
	IsPlatformAdmin bool   `json:"isPlatformAdmin"` // Platform admins manage tenants and can impersonate
	AuditFields
}
