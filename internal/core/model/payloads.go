package model

import "time"

// CreateAccountArgs contain the arguments of the CreateAccount method.
type CreateAccountArgs struct {
	// Email is the account email.
	Email string

	// FirstName is the account holder first name.
	FirstName string

	// MiddleName is the account holder middle name. May be empty.
	MiddleName string

	// LastName is the account holder last name.
	LastName string

	// Addresses maps a label to an address.
	Addresses map[string]Address

	// Contacts maps a label to a contact detail.
	Contacts map[string]string

	// Password is the plain-text password. It is hashed before storage and
	// never persisted as-is.
	Password string

	// Roles are the authorities to grant. Defaults to ROLE_USER when empty.
	Roles []string
}

// CreateAccountResponse contains the response of the CreateAccount method.
type CreateAccountResponse struct {
	// Account is the stored account, ids and timestamps filled in.
	Account Account
}

// UpdateAccountArgs contain the arguments of the UpdateAccount method.
// Zero-valued fields are left untouched.
type UpdateAccountArgs struct {
	// ID is the id of the account to be updated.
	ID int64

	// Email is the account email.
	Email string

	// FirstName is the account holder first name.
	FirstName string

	// MiddleName is the account holder middle name.
	MiddleName string

	// LastName is the account holder last name.
	LastName string

	// Addresses maps a label to an address.
	Addresses map[string]Address

	// Contacts maps a label to a contact detail.
	Contacts map[string]string
}

// UpdateAccountResponse contains the response of the UpdateAccount method.
type UpdateAccountResponse struct {
	// Account is the account state after the update.
	Account Account
}

// ListAccountsArgs contain the arguments for the ListAccounts use-case.
type ListAccountsArgs struct {
	// Page selects the page of accounts, ordered ascending by email.
	Page PageRequest
}

// ListAccountsResponse contains the accounts matching the ListAccounts query.
type ListAccountsResponse struct {
	// Accounts are ordered ascending by email.
	Accounts []Account
}

// FindActiveAccountsArgs contain the arguments for the accounts-with-login-
// activity query.
type FindActiveAccountsArgs struct {
	// Start is the inclusive lower bound on login time. Nil means unbounded.
	Start *time.Time

	// End is the inclusive upper bound on login time. Nil means unbounded.
	End *time.Time

	// Page selects the page of distinct accounts, ordered ascending by email.
	Page PageRequest
}

// LoginCounts is the filtered-audit aggregation result: a login-frequency
// histogram keyed by account email. Accounts without matching rows are
// absent, never present with a zero count.
type LoginCounts map[string]int64
