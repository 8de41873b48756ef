package domain

import "time"

// Role enumerates account variants. Fixed at creation.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAgent    Role = "agent"
	RoleAdmin    Role = "admin"
)

// ParseRole validates a role string.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCustomer, RoleAgent, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// Address is the delivery address block required for customers and agents.
type Address struct {
	DoorNo  string `json:"doorNo"`
	Street  string `json:"street"`
	Area    string `json:"area"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// Complete reports whether every address field is present.
func (a Address) Complete() bool {
	return a.DoorNo != "" && a.Street != "" && a.Area != "" &&
		a.City != "" && a.State != "" && a.Pincode != ""
}

// User is the role-tagged account entity. Customer and agent accounts carry
// an address; agents additionally track availability and delivery stats;
// admins carry a department and permission list instead of an address.
// ResetTokenHash and ResetTokenExpires are either both set or both nil.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Phone        string
	Role         Role
	CreatedAt    time.Time

	ResetTokenHash    *string
	ResetTokenExpires *time.Time

	// customer + agent
	Address *Address

	// customer
	OrderIDs []string

	// agent
	Available       bool
	Rating          float64
	TotalDeliveries int
	CurrentOrderID  *string

	// admin
	Department  string
	Permissions []string
}

// FullName joins first and last name for display and email greetings.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// HasResetToken reports whether a reset token pair is stored. The token may
// still be past its expiry; validity is checked at verification time.
func (u *User) HasResetToken() bool {
	return u.ResetTokenHash != nil && u.ResetTokenExpires != nil
}
