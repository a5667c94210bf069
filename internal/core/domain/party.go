package domain

// PartyRole classifies how a party relates to the farm operation. A party can
// hold several roles at once (a landlord who also buys produce).
type PartyRole string

const (
	PartyFarmer   PartyRole = "FARMER"
	PartyLandlord PartyRole = "LANDLORD"
	PartyBuyer    PartyRole = "BUYER"
	PartySupplier PartyRole = "SUPPLIER"
	PartyWorker   PartyRole = "WORKER"
	PartySharer   PartyRole = "SHARER"
)

// Party is any external person or entity the tenant transacts with.
type Party struct {
	PartyID  string      `json:"partyID"` // Primary Key (UUID)
	TenantID string      `json:"tenantID"`
	Name     string      `json:"name"`
	Roles    []PartyRole `json:"roles"`
	Phone    string      `json:"phone,omitempty"`
	Notes    string      `json:"notes,omitempty"`
	IsActive bool        `json:"isActive"`
	AuditFields
}

// HasRole reports whether the party holds the given role.
func (p Party) HasRole(role PartyRole) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}
