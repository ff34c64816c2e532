package ports

import (
	"context"
	"time"

	"github.com/rmoretti/auditrail/internal/core/model"
)

// AccountRepository is the interface for account persistence.
type AccountRepository interface {
	// SaveAccount durably saves the account and its credentials.
	SaveAccount(ctx context.Context, account *model.Account, credentials *model.Credentials) error

	// UpdateAccount updates the account. All non-zero values specified will
	// be updated. Returns model.ErrNotFound if the account does not exist.
	UpdateAccount(ctx context.Context, account *model.Account) error

	// GetAccountByID retrieves one account by id.
	GetAccountByID(ctx context.Context, id int64) (*model.Account, error)

	// GetAccountByEmail retrieves one account by email.
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)

	// GetCredentials retrieves the credentials attached to an email.
	GetCredentials(ctx context.Context, email string) (*model.Credentials, error)

	// ListAccounts lists accounts ordered ascending by email.
	ListAccounts(ctx context.Context, page model.PageRequest) ([]model.Account, error)

	// DeleteAccountByID removes the account matching the id.
	DeleteAccountByID(ctx context.Context, id int64) error

	// DeleteAccountByEmail removes the account matching the email.
	DeleteAccountByEmail(ctx context.Context, email string) error
}

// LoginAuditRepository is the interface for the append-only login audit store.
type LoginAuditRepository interface {
	// SaveAudit appends one audit row. Audit rows are never updated.
	SaveAudit(ctx context.Context, audit *model.LoginAudit) error

	// ListAudits returns the audit rows matching the filter, ordered
	// ascending by the owning account email, paginated after ordering. The
	// result is fully materialized before returning; no cursor escapes.
	ListAudits(ctx context.Context, filter model.AuditFilter, page model.PageRequest) ([]model.LoginAudit, error)

	// DistinctActiveAccounts returns the distinct accounts having at least
	// one audit row inside the optionally one-sided time window, ordered
	// ascending by email. A nil bound applies no constraint on that side.
	DistinctActiveAccounts(ctx context.Context, start, end *time.Time, page model.PageRequest) ([]model.Account, error)

	// DistinctLoginDates returns the distinct login dates ascending.
	DistinctLoginDates(ctx context.Context, page model.PageRequest) ([]time.Time, error)
}

// AccountMirror is the port for the reporting read-model kept in sync from
// account change events.
type AccountMirror interface {
	// UpsertAccount inserts or replaces the mirrored account.
	UpsertAccount(ctx context.Context, account *model.Account) error

	// RemoveAccount drops the mirrored account by id.
	RemoveAccount(ctx context.Context, id int64) error
}
