package model

import (
	"math"
	"time"
)

// SizeAll is the page-size sentinel meaning "no limit". It is distinct from
// a size of zero, which yields an empty page.
const SizeAll = math.MaxInt32

// PageRequest describes a zero-based page of results.
type PageRequest struct {
	// Page is the zero-based page index.
	Page int

	// Size is the maximum amount of rows in the page. SizeAll disables the
	// limit; zero yields an empty page.
	Size int
}

// Unbounded reports whether the request asks for all matching rows.
func (p PageRequest) Unbounded() bool {
	return p.Size >= SizeAll
}

// Offset is the number of rows to skip before the page starts.
func (p PageRequest) Offset() int {
	if p.Unbounded() {
		return 0
	}
	return p.Page * p.Size
}

// AuditFilter is the data-driven specification of a login-audit query: an
// optional date range plus one optional OR-group of acceptable values per
// identity field. Terms are conjoined; a nil bound or an empty value set
// contributes no term at all.
type AuditFilter struct {
	// Start is the inclusive lower bound on login time. Nil means unbounded.
	Start *time.Time

	// End is the inclusive upper bound on login time. Nil means unbounded.
	End *time.Time

	// Emails restricts to accounts whose email is any of the values.
	Emails []string

	// FirstNames restricts to accounts whose first name is any of the values.
	FirstNames []string

	// MiddleNames restricts to accounts whose middle name is any of the values.
	MiddleNames []string

	// LastNames restricts to accounts whose last name is any of the values.
	LastNames []string
}

// Validate rejects a filter whose start is strictly after its end. It runs
// before any query is issued; an invalid range is never swapped or clamped.
func (f AuditFilter) Validate() error {
	if f.Start != nil && f.End != nil && f.Start.After(*f.End) {
		return ErrInvalidRange
	}
	return nil
}

// Matches is the in-memory form of the predicate the stores compile. It is
// the oracle the query adapters are tested against.
func (f AuditFilter) Matches(account Account, loginTime time.Time) bool {
	if f.Start != nil && loginTime.Before(*f.Start) {
		return false
	}
	if f.End != nil && loginTime.After(*f.End) {
		return false
	}
	if !matchesAny(account.Email, f.Emails) {
		return false
	}
	if !matchesAny(account.FirstName, f.FirstNames) {
		return false
	}
	if !matchesAny(account.MiddleName, f.MiddleNames) {
		return false
	}
	return matchesAny(account.LastName, f.LastNames)
}

// matchesAny implements one opt-in OR-group: an empty value set is no
// constraint, not "match nothing".
func matchesAny(value string, values []string) bool {
	if len(values) == 0 {
		return true
	}
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
