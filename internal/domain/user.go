package domain

import "time"

// Role classifies an account. Student accounts are derived from
// institutional email domains at registration.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStudent  Role = "student"
	RoleAdmin    Role = "admin"
)

// PermissionAll is the sentinel permission granting unrestricted access.
const PermissionAll = "all"

// User represents a registered storefront account. Age and the
// institutional-student flag are caches; the source of truth is the
// birthdate and the email domain.
type User struct {
	ID                     string    `json:"id"`
	NationalID             string    `json:"nationalId"`
	FirstName              string    `json:"firstName"`
	LastName               string    `json:"lastName"`
	Email                  string    `json:"email"`
	Phone                  string    `json:"phone,omitempty"`
	Birthdate              string    `json:"birthdate,omitempty"`
	Age                    int       `json:"age,omitempty"`
	Role                   Role      `json:"role"`
	Region                 string    `json:"region,omitempty"`
	Commune                string    `json:"commune,omitempty"`
	Address                string    `json:"address,omitempty"`
	DiscountCode           string    `json:"discountCode,omitempty"`
	HasPermanentDiscount   bool      `json:"hasPermanentDiscount"`
	IsInstitutionalStudent bool      `json:"isInstitutionalStudent"`
	Permissions            []string  `json:"permissions"`
	PasswordHash           string    `json:"-"`
	CreatedAt              time.Time `json:"createdAt"`
}

// HasPermission reports whether the user holds the given permission,
// honoring the "all" sentinel.
func (u *User) HasPermission(permission string) bool {
	if u == nil {
		return false
	}
	for _, p := range u.Permissions {
		if p == PermissionAll || p == permission {
			return true
		}
	}
	return false
}
