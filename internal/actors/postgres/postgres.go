package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/rmoretti/auditrail/internal/core/model"
)

// PostgresDB is a postgres adapter for persistence.
type PostgresDB struct {
	db      *pg.DB
	nowFunc func() time.Time
}

// PostgresDBArgs are the mandatory arguments for the creation of a PostgresDB
type PostgresDBArgs struct {
	// DB is a postgres database handle
	DB *pg.DB
}

// PostgresDBOptArgs are the optional arguments for building a PostgresDB
type PostgresDBOptArgs = func(*PostgresDB)

// WithNowFunc can be used to override the nowFunc. Useful for testing.
func WithNowFunc(nowFunc func() time.Time) PostgresDBOptArgs {
	return func(p *PostgresDB) {
		p.nowFunc = nowFunc
	}
}

// NewPostgresDB creates a new PostgresDB.
func NewPostgresDB(args PostgresDBArgs, optArgs ...PostgresDBOptArgs) (*PostgresDB, error) {
	p := &PostgresDB{db: args.DB, nowFunc: func() time.Time { return time.Now().UTC() }}
	for _, opt := range optArgs {
		opt(p)
	}
	return p, nil
}

// SaveAccount will save the account and its credentials in one transaction.
func (p *PostgresDB) SaveAccount(ctx context.Context, account *model.Account, credentials *model.Credentials) error {
	if account == nil {
		return errors.New("nil account passed to save method")
	}

	dbAccount := p.toDBModel(account)

	conn := p.db.Conn()
	defer conn.Close()

	tx, err := conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ModelContext(ctx, dbAccount).Insert(); err != nil {
		return err
	}
	if credentials != nil {
		dbCredentials := &credentialsDB{
			Email:        credentials.Email,
			PasswordHash: credentials.PasswordHash,
			Roles:        credentials.Roles,
			Enabled:      credentials.Enabled,
		}
		if _, err := tx.ModelContext(ctx, dbCredentials).Insert(); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	account.ID = dbAccount.ID
	account.CreatedAt = dbAccount.CreatedAt
	account.UpdatedAt = dbAccount.UpdatedAt
	return nil
}

// UpdateAccount will update the account. It returns model.ErrNotFound if the
// input account does not exist.
func (p *PostgresDB) UpdateAccount(ctx context.Context, account *model.Account) error {
	if account == nil {
		return errors.New("nil account passed to update method")
	}

	conn := p.db.Conn()
	defer conn.Close()

	tx, err := conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	existing := new(accountDB)
	err = tx.ModelContext(ctx, existing).Where("id = ?", account.ID).Select()
	if err != nil && err != pg.ErrNoRows {
		return err
	} else if err == pg.ErrNoRows {
		return model.ErrNotFound
	}

	p.updateExisting(existing, account)
	if _, err := tx.ModelContext(ctx, existing).WherePK().Update(); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	account.Email = existing.Email
	account.FirstName = existing.FirstName
	account.MiddleName = existing.MiddleName
	account.LastName = existing.LastName
	account.Addresses = existing.Addresses
	account.Contacts = existing.Contacts
	account.CreatedAt = existing.CreatedAt
	account.UpdatedAt = existing.UpdatedAt
	return nil
}

// GetAccountByID retrieves one account by id.
func (p *PostgresDB) GetAccountByID(ctx context.Context, id int64) (*model.Account, error) {
	dbAccount := new(accountDB)
	err := p.db.ModelContext(ctx, dbAccount).Where("id = ?", id).Select()
	if err == pg.ErrNoRows {
		return nil, model.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	account := translateDBToModel(*dbAccount)
	return &account, nil
}

// GetAccountByEmail retrieves one account by email.
func (p *PostgresDB) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	dbAccount := new(accountDB)
	err := p.db.ModelContext(ctx, dbAccount).Where("email = ?", email).Select()
	if err == pg.ErrNoRows {
		return nil, model.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	account := translateDBToModel(*dbAccount)
	return &account, nil
}

// GetCredentials retrieves the credentials attached to an email.
func (p *PostgresDB) GetCredentials(ctx context.Context, email string) (*model.Credentials, error) {
	dbCredentials := new(credentialsDB)
	err := p.db.ModelContext(ctx, dbCredentials).Where("email = ?", email).Select()
	if err == pg.ErrNoRows {
		return nil, model.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &model.Credentials{
		Email:        dbCredentials.Email,
		PasswordHash: dbCredentials.PasswordHash,
		Roles:        dbCredentials.Roles,
		Enabled:      dbCredentials.Enabled,
	}, nil
}

// ListAccounts lists accounts ordered ascending by email.
func (p *PostgresDB) ListAccounts(ctx context.Context, page model.PageRequest) ([]model.Account, error) {
	if page.Size == 0 {
		return nil, nil
	}
	var accounts []accountDB
	q := p.db.ModelContext(ctx, &accounts).Order("email ASC")
	q = paginate(q, page)
	if err := q.Select(); err != nil && err != pg.ErrNoRows {
		return nil, err
	}
	return translateDBToModels(accounts), nil
}

// DeleteAccountByID will delete an account from the database. Credentials
// and audit rows follow through the schema's cascading foreign keys.
func (p *PostgresDB) DeleteAccountByID(ctx context.Context, id int64) error {
	res, err := p.db.ModelContext(ctx, (*accountDB)(nil)).Where("id = ?", id).Delete()
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// DeleteAccountByEmail will delete an account from the database.
func (p *PostgresDB) DeleteAccountByEmail(ctx context.Context, email string) error {
	res, err := p.db.ModelContext(ctx, (*accountDB)(nil)).Where("email = ?", email).Delete()
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (p *PostgresDB) toDBModel(account *model.Account) *accountDB {
	dbAccount := &accountDB{
		ID:         account.ID,
		Email:      account.Email,
		FirstName:  account.FirstName,
		MiddleName: account.MiddleName,
		LastName:   account.LastName,
		Addresses:  account.Addresses,
		Contacts:   account.Contacts,
	}
	if !account.CreatedAt.IsZero() {
		dbAccount.CreatedAt = account.CreatedAt
	} else {
		dbAccount.CreatedAt = p.nowFunc()
	}
	dbAccount.UpdatedAt = p.nowFunc()
	return dbAccount
}

func (p *PostgresDB) updateExisting(existing *accountDB, account *model.Account) {
	if account.Email != "" {
		existing.Email = account.Email
	}
	if account.FirstName != "" {
		existing.FirstName = account.FirstName
	}
	if account.MiddleName != "" {
		existing.MiddleName = account.MiddleName
	}
	if account.LastName != "" {
		existing.LastName = account.LastName
	}
	if account.Addresses != nil {
		existing.Addresses = account.Addresses
	}
	if account.Contacts != nil {
		existing.Contacts = account.Contacts
	}
	existing.UpdatedAt = p.nowFunc()
}

func translateDBToModels(dbAccounts []accountDB) []model.Account {
	accounts := make([]model.Account, len(dbAccounts))
	for i, dbAccount := range dbAccounts {
		accounts[i] = translateDBToModel(dbAccount)
	}
	return accounts
}

func translateDBToModel(dbAccount accountDB) model.Account {
	return model.Account{
		ID:         dbAccount.ID,
		Email:      dbAccount.Email,
		FirstName:  dbAccount.FirstName,
		MiddleName: dbAccount.MiddleName,
		LastName:   dbAccount.LastName,
		Addresses:  dbAccount.Addresses,
		Contacts:   dbAccount.Contacts,
		CreatedAt:  dbAccount.CreatedAt,
		UpdatedAt:  dbAccount.UpdatedAt,
	}
}

type accountDB struct {
	tableName struct{} `pg:"account,alias:account"`

	// ID unique identifier of the account.
	ID int64 `pg:"id,pk"`

	// Email uniquely identifies the account.
	Email string `pg:"email,unique,notnull"`

	// FirstName is the account holder first name.
	FirstName string `pg:"first_name,notnull"`

	// MiddleName is the account holder middle name.
	MiddleName string `pg:"middle_name"`

	// LastName is the account holder last name.
	LastName string `pg:"last_name,notnull"`

	// Addresses maps a label to an address.
	Addresses map[string]model.Address `pg:"addresses,type:jsonb"`

	// Contacts maps a label to a contact detail.
	Contacts map[string]string `pg:"contacts,type:jsonb"`

	// CreatedAt is the time at which the account was created in the system.
	CreatedAt time.Time `pg:"created_at"`

	// UpdatedAt is the time at which the account was last updated.
	UpdatedAt time.Time `pg:"updated_at"`
}

type credentialsDB struct {
	tableName struct{} `pg:"account_credentials,alias:credentials"`

	// Email links the credentials to the account.
	Email string `pg:"email,pk"`

	// PasswordHash contains the password hash.
	PasswordHash string `pg:"password_hash,notnull"`

	// Roles are the granted authorities.
	Roles []string `pg:"roles,array"`

	// Enabled disables the login when false.
	Enabled bool `pg:"enabled,use_zero"`
}
