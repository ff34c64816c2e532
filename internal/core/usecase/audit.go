package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rmoretti/auditrail/internal/core/model"
	"github.com/rmoretti/auditrail/internal/core/ports"
)

// LoginAuditServiceArgs contains the mandatory arguments for the LoginAuditService.
type LoginAuditServiceArgs struct {
	// Audits is the append-only audit store.
	Audits ports.LoginAuditRepository

	// Accounts resolves audited account identities.
	Accounts ports.AccountRepository
}

// LoginAuditServiceOptArgs are the optional arguments for building a LoginAuditService.
type LoginAuditServiceOptArgs = func(*LoginAuditService)

// WithNowFunc can be used to override the nowFunc. Useful for testing.
func WithNowFunc(nowFunc func() time.Time) LoginAuditServiceOptArgs {
	return func(s *LoginAuditService) {
		s.nowFunc = nowFunc
	}
}

// WithLocation overrides the time zone used to bucket login timestamps into
// calendar dates. Defaults to the server local zone.
func WithLocation(loc *time.Location) LoginAuditServiceOptArgs {
	return func(s *LoginAuditService) {
		s.loc = loc
	}
}

// NewLoginAuditService creates a new LoginAuditService.
func NewLoginAuditService(args LoginAuditServiceArgs, optArgs ...LoginAuditServiceOptArgs) *LoginAuditService {
	s := &LoginAuditService{
		audits:   args.Audits,
		accounts: args.Accounts,
		nowFunc:  func() time.Time { return time.Now() },
		loc:      time.Local,
	}
	for _, opt := range optArgs {
		opt(s)
	}
	return s
}

// LoginAuditService records login events and answers filtered audit queries.
// It holds no mutable state between calls.
type LoginAuditService struct {
	audits   ports.LoginAuditRepository
	accounts ports.AccountRepository
	nowFunc  func() time.Time
	loc      *time.Location
}

// Location is the zone used to bucket login timestamps into calendar dates.
func (s *LoginAuditService) Location() *time.Location {
	return s.loc
}

// Audit records one login event for the account identified by email. It
// returns model.ErrNotFound when no such account exists.
func (s *LoginAuditService) Audit(ctx context.Context, email string) error {
	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if err == model.ErrNotFound {
			return model.ErrNotFound
		}
		return fmt.Errorf("error resolving account for audit: %w", err)
	}
	audit := &model.LoginAudit{
		Account:   *account,
		LoginTime: s.nowFunc(),
	}
	if err := s.audits.SaveAudit(ctx, audit); err != nil {
		return fmt.Errorf("error saving login audit: %w", err)
	}
	return nil
}

// FindLoginDates returns the distinct calendar dates with login activity,
// ascending. Timestamps are bucketed in the configured zone, so two logins
// on the same local day collapse to one date.
func (s *LoginAuditService) FindLoginDates(ctx context.Context, page model.PageRequest) ([]time.Time, error) {
	if page.Size == 0 {
		return nil, nil
	}
	stamps, err := s.audits.DistinctLoginDates(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("error listing distinct login dates: %w", err)
	}

	seen := make(map[time.Time]struct{}, len(stamps))
	dates := make([]time.Time, 0, len(stamps))
	for _, stamp := range stamps {
		day := DayStart(stamp.In(s.loc))
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		dates = append(dates, day)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// FindActiveAccounts returns the distinct accounts with at least one login
// inside the optionally one-sided window, ordered ascending by email.
func (s *LoginAuditService) FindActiveAccounts(ctx context.Context, args model.FindActiveAccountsArgs) ([]model.Account, error) {
	if err := (model.AuditFilter{Start: args.Start, End: args.End}).Validate(); err != nil {
		return nil, err
	}
	if args.Page.Size == 0 {
		return nil, nil
	}
	accounts, err := s.audits.DistinctActiveAccounts(ctx, args.Start, args.End, args.Page)
	if err != nil {
		return nil, fmt.Errorf("error listing accounts with login activity: %w", err)
	}
	return accounts, nil
}

// FindFilteredLoginCounts fetches the audit rows matching the filter and
// aggregates them into a login-frequency histogram keyed by account email.
func (s *LoginAuditService) FindFilteredLoginCounts(ctx context.Context, filter model.AuditFilter, page model.PageRequest) (model.LoginCounts, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if page.Size == 0 {
		return model.LoginCounts{}, nil
	}
	audits, err := s.audits.ListAudits(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("error listing filtered login audits: %w", err)
	}
	return AggregateByEmail(audits), nil
}

// AggregateByEmail groups audit rows by the owning account email, counting
// occurrences. Accounts without rows never appear in the result.
func AggregateByEmail(audits []model.LoginAudit) model.LoginCounts {
	counts := make(model.LoginCounts, len(audits))
	for _, audit := range audits {
		counts[audit.Account.Email]++
	}
	return counts
}

// DayStart truncates a timestamp to midnight in its own location.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayEnd moves a timestamp to the last instant of its calendar day.
func DayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
