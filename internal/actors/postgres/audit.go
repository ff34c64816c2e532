package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"
	"github.com/rmoretti/auditrail/internal/core/model"
)

// SaveAudit appends one login-audit row. Rows are insert-only.
func (p *PostgresDB) SaveAudit(ctx context.Context, audit *model.LoginAudit) error {
	if audit == nil {
		return errors.New("nil audit passed to save method")
	}
	if audit.Account.ID == 0 {
		return errors.New("audit must reference a stored account")
	}

	dbAudit := &loginAuditDB{
		AccountID: audit.Account.ID,
		LoginTime: audit.LoginTime,
	}
	if dbAudit.LoginTime.IsZero() {
		dbAudit.LoginTime = p.nowFunc()
	}
	if _, err := p.db.ModelContext(ctx, dbAudit).Insert(); err != nil {
		return err
	}

	audit.ID = dbAudit.ID
	audit.LoginTime = dbAudit.LoginTime
	return nil
}

// ListAudits compiles the filter into one conjunctive query: inclusive date
// bounds plus one IN-group per non-empty identity field, joined to the
// account, ordered ascending by account email, paginated after ordering.
// The result set is fully read before returning.
func (p *PostgresDB) ListAudits(ctx context.Context, filter model.AuditFilter, page model.PageRequest) ([]model.LoginAudit, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if page.Size == 0 {
		return nil, nil
	}

	var audits []loginAuditDB
	q := p.db.ModelContext(ctx, &audits).Relation("Account")

	if filter.Start != nil {
		q = q.Where("audit.login_time >= ?", *filter.Start)
	}
	if filter.End != nil {
		q = q.Where("audit.login_time <= ?", *filter.End)
	}
	if len(filter.Emails) > 0 {
		q = q.WhereIn("account.email IN (?)", filter.Emails)
	}
	if len(filter.FirstNames) > 0 {
		q = q.WhereIn("account.first_name IN (?)", filter.FirstNames)
	}
	if len(filter.MiddleNames) > 0 {
		q = q.WhereIn("account.middle_name IN (?)", filter.MiddleNames)
	}
	if len(filter.LastNames) > 0 {
		q = q.WhereIn("account.last_name IN (?)", filter.LastNames)
	}

	// id breaks email ties so pagination is deterministic
	q = q.OrderExpr("account.email ASC").OrderExpr("audit.id ASC")
	q = paginate(q, page)

	if err := q.Select(); err != nil && err != pg.ErrNoRows {
		return nil, err
	}
	return translateAuditsToModels(audits), nil
}

// DistinctActiveAccounts selects the distinct accounts having at least one
// audit row inside the window. A nil bound applies no constraint on that
// side, so the four bounded/unbounded variants collapse into one statement.
func (p *PostgresDB) DistinctActiveAccounts(ctx context.Context, start, end *time.Time, page model.PageRequest) ([]model.Account, error) {
	if start != nil && end != nil && start.After(*end) {
		return nil, model.ErrInvalidRange
	}
	if page.Size == 0 {
		return nil, nil
	}

	var accounts []accountDB
	q := p.db.ModelContext(ctx, &accounts).
		Distinct().
		Join("JOIN account_login_audit AS audit ON audit.account_id = account.id")

	if start != nil {
		q = q.Where("audit.login_time >= ?", *start)
	}
	if end != nil {
		q = q.Where("audit.login_time <= ?", *end)
	}

	q = q.OrderExpr("account.email ASC")
	q = paginate(q, page)

	if err := q.Select(); err != nil && err != pg.ErrNoRows {
		return nil, err
	}
	return translateDBToModels(accounts), nil
}

// DistinctLoginDates returns the distinct login days ascending. Calendar
// bucketing in the caller's zone happens in the usecase layer.
func (p *PostgresDB) DistinctLoginDates(ctx context.Context, page model.PageRequest) ([]time.Time, error) {
	if page.Size == 0 {
		return nil, nil
	}

	var days []time.Time
	q := p.db.ModelContext(ctx, (*loginAuditDB)(nil)).
		ColumnExpr("DISTINCT date_trunc('day', audit.login_time) AS login_day").
		OrderExpr("login_day ASC")
	q = paginate(q, page)

	if err := q.Select(&days); err != nil && err != pg.ErrNoRows {
		return nil, err
	}
	return days, nil
}

// paginate applies limit/offset after ordering. The unbounded sentinel skips
// both clauses. Zero sizes never reach here; callers short-circuit them
// because go-pg drops a LIMIT 0 clause instead of emitting it.
func paginate(q *orm.Query, page model.PageRequest) *orm.Query {
	if page.Unbounded() {
		return q
	}
	return q.Limit(page.Size).Offset(page.Offset())
}

func translateAuditsToModels(dbAudits []loginAuditDB) []model.LoginAudit {
	audits := make([]model.LoginAudit, len(dbAudits))
	for i, dbAudit := range dbAudits {
		audits[i] = translateAuditToModel(dbAudit)
	}
	return audits
}

func translateAuditToModel(dbAudit loginAuditDB) model.LoginAudit {
	audit := model.LoginAudit{
		ID:        dbAudit.ID,
		LoginTime: dbAudit.LoginTime,
	}
	if dbAudit.Account != nil {
		audit.Account = translateDBToModel(*dbAudit.Account)
	}
	return audit
}

type loginAuditDB struct {
	tableName struct{} `pg:"account_login_audit,alias:audit"`

	// ID unique identifier of the audit row.
	ID int64 `pg:"id,pk"`

	// AccountID references the audited account.
	AccountID int64 `pg:"account_id,notnull"`

	// Account is the joined account row.
	Account *accountDB `pg:"rel:has-one"`

	// LoginTime is the timestamp recorded at creation.
	LoginTime time.Time `pg:"login_time,notnull"`
}
