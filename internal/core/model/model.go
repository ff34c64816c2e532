package model

import (
	"strings"
	"time"
)

// Account is the identity record of a registered person.
type Account struct {
	// ID unique identifier of the account.
	ID int64 `json:"id"`

	// Email uniquely identifies the account. It is the natural join key
	// used by every audit filter predicate.
	Email string `json:"email"`

	// FirstName is the account holder first name.
	FirstName string `json:"first_name"`

	// MiddleName is the account holder middle name. May be empty.
	MiddleName string `json:"middle_name,omitempty"`

	// LastName is the account holder last name.
	LastName string `json:"last_name"`

	// Addresses maps a label (e.g. "home", "work") to an address.
	Addresses map[string]Address `json:"addresses,omitempty"`

	// Contacts maps a label (e.g. "mobile") to a contact detail.
	Contacts map[string]string `json:"contacts,omitempty"`

	// CreatedAt is the time at which the account was created in the system.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the time at which the account was last updated.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Address is a value type embedded in an account. Two addresses are the
// same when country and zip code match.
type Address struct {
	Town    string `json:"town,omitempty"`
	City    string `json:"city,omitempty"`
	Country string `json:"country"`
	ZipCode string `json:"zip_code"`
}

// Compare orders addresses by (country, zip code).
func (a Address) Compare(other Address) int {
	if c := strings.Compare(a.Country, other.Country); c != 0 {
		return c
	}
	return strings.Compare(a.ZipCode, other.ZipCode)
}

// Equal reports whether both addresses share country and zip code.
func (a Address) Equal(other Address) bool {
	return a.Compare(other) == 0
}

// LoginAudit is one successful login event tied to one account. Rows are
// append-only and never updated after creation.
type LoginAudit struct {
	// ID unique identifier of the audit row.
	ID int64 `json:"id"`

	// Account is the account that logged in. Always loaded with the row.
	Account Account `json:"account"`

	// LoginTime is the timestamp recorded at creation.
	LoginTime time.Time `json:"login_time"`
}

// Credentials carry the login secret and authorities of an account.
type Credentials struct {
	// Email links the credentials to the account.
	Email string `json:"email"`

	// PasswordHash contains the password hash.
	PasswordHash string `json:"password_hash,omitempty"`

	// Roles are the granted authorities, e.g. ROLE_USER, ROLE_ADMIN.
	Roles []string `json:"roles"`

	// Enabled disables the login when false without removing the account.
	Enabled bool `json:"enabled"`
}

// Authority values granted to credentials.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// HasRole reports whether the credentials carry the given authority.
func (c Credentials) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AccountEvent collects an account change. It can represent creation, update
// and deletion of an account.
type AccountEvent struct {
	// ID is the event id.
	ID string

	// Before is the account state before the event. Nil on creations.
	Before *Account

	// After is the account state after the event. Nil on deletions.
	After *Account
}
