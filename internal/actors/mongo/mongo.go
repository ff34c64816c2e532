package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/rmoretti/auditrail/internal/core/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB is a mongo adapter keeping the account reporting read-model.
type MongoDB struct {
	accountCollection *mongo.Collection
	nowFunc           func() time.Time
}

// MongoDBArgs are the mandatory arguments for the creation of a MongoDB
type MongoDBArgs struct {
	// AccountCollection is the mongo collection holding mirrored accounts.
	AccountCollection *mongo.Collection
}

// MongoDBOptArgs are the optional arguments for building a MongoDB
type MongoDBOptArgs = func(*MongoDB)

// WithNowFunc can be used to override the nowFunc. Useful for testing.
func WithNowFunc(nowFunc func() time.Time) MongoDBOptArgs {
	return func(m *MongoDB) {
		m.nowFunc = nowFunc
	}
}

// NewMongoDB creates a new MongoDB.
func NewMongoDB(args MongoDBArgs, optArgs ...MongoDBOptArgs) (*MongoDB, error) {
	m := &MongoDB{accountCollection: args.AccountCollection, nowFunc: func() time.Time { return time.Now().UTC() }}
	for _, opt := range optArgs {
		opt(m)
	}
	return m, nil
}

// UpsertAccount inserts or replaces the mirrored account, keyed by the
// relational account id.
func (m *MongoDB) UpsertAccount(ctx context.Context, account *model.Account) error {
	if account == nil {
		return errors.New("nil account passed to upsert method")
	}

	dbAccount := toDBModel(account, m.nowFunc())
	opts := options.Replace().SetUpsert(true)
	if _, err := m.accountCollection.ReplaceOne(ctx, bson.D{{Key: "_id", Value: account.ID}}, dbAccount, opts); err != nil {
		return err
	}
	return nil
}

// RemoveAccount drops the mirrored account by id. Removing an account that
// was never mirrored is not an error.
func (m *MongoDB) RemoveAccount(ctx context.Context, id int64) error {
	if _, err := m.accountCollection.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}}); err != nil {
		return err
	}
	return nil
}

// GetAccount reads one mirrored account. Used by reporting consumers and tests.
func (m *MongoDB) GetAccount(ctx context.Context, id int64) (*model.Account, error) {
	dbAccount := new(accountDB)
	err := m.accountCollection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(dbAccount)
	if err == mongo.ErrNoDocuments {
		return nil, model.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	account := translateDBToModel(*dbAccount)
	return &account, nil
}

// ListAccounts lists mirrored accounts ordered ascending by email.
func (m *MongoDB) ListAccounts(ctx context.Context, page model.PageRequest) ([]model.Account, error) {
	if page.Size == 0 {
		return nil, nil
	}

	opts := new(options.FindOptions)
	if !page.Unbounded() {
		l := int64(page.Size)
		s := int64(page.Offset())
		opts.Limit = &l
		opts.Skip = &s
	}
	opts = opts.SetSort(bson.D{{Key: "email", Value: 1}})

	cursor, err := m.accountCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var dbAccounts []accountDB
	if err := cursor.All(ctx, &dbAccounts); err != nil {
		return nil, err
	}

	accounts := make([]model.Account, len(dbAccounts))
	for i, dbAccount := range dbAccounts {
		accounts[i] = translateDBToModel(dbAccount)
	}
	return accounts, nil
}

func toDBModel(account *model.Account, mirroredAt time.Time) *accountDB {
	return &accountDB{
		ID:         account.ID,
		Email:      account.Email,
		FirstName:  account.FirstName,
		MiddleName: account.MiddleName,
		LastName:   account.LastName,
		Addresses:  account.Addresses,
		Contacts:   account.Contacts,
		CreatedAt:  account.CreatedAt,
		UpdatedAt:  account.UpdatedAt,
		MirroredAt: mirroredAt,
	}
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
	// ID is the relational account id, reused as the document key.
	ID int64 `bson:"_id"`

	// Email uniquely identifies the account.
	Email string `bson:"email"`

	// FirstName is the account holder first name.
	FirstName string `bson:"first_name"`

	// MiddleName is the account holder middle name.
	MiddleName string `bson:"middle_name,omitempty"`

	// LastName is the account holder last name.
	LastName string `bson:"last_name"`

	// Addresses maps a label to an address.
	Addresses map[string]model.Address `bson:"addresses,omitempty"`

	// Contacts maps a label to a contact detail.
	Contacts map[string]string `bson:"contacts,omitempty"`

	// CreatedAt is the time at which the account was created in the system.
	CreatedAt time.Time `bson:"created_at"`

	// UpdatedAt is the time at which the account was last updated.
	UpdatedAt time.Time `bson:"updated_at"`

	// MirroredAt is the time at which this snapshot reached the mirror.
	MirroredAt time.Time `bson:"mirrored_at"`
}
