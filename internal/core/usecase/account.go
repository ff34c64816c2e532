package usecase

import (
	"context"
	"fmt"

	"github.com/alexedwards/argon2id"
	"github.com/rmoretti/auditrail/internal/core/model"
	"github.com/rmoretti/auditrail/internal/core/ports"
)

// Principal identifies the authenticated caller of a request.
type Principal struct {
	// Email is the authenticated account email.
	Email string

	// Roles are the authorities attached to the session.
	Roles []string
}

// HasRole reports whether the principal carries the given authority.
func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type principalKey struct{}

// WithPrincipal attaches the authenticated principal to the context.
func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// PrincipalFrom extracts the authenticated principal from the context.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// AccountServiceArgs contains the mandatory arguments for the AccountService.
type AccountServiceArgs struct {
	// Repository is the repository for persistence operations.
	Repository ports.AccountRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(args AccountServiceArgs) *AccountService {
	return &AccountService{repository: args.Repository}
}

// AccountService gathers the functionality around the account lifecycle.
type AccountService struct {
	repository ports.AccountRepository
}

// CreateAccount registers an account together with its credentials.
func (s *AccountService) CreateAccount(ctx context.Context, args model.CreateAccountArgs) (*model.CreateAccountResponse, error) {
	hash, err := argon2id.CreateHash(args.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("error creating password hash: %w", err)
	}

	roles := args.Roles
	if len(roles) == 0 {
		roles = []string{model.RoleUser}
	}

	account := &model.Account{
		Email:      args.Email,
		FirstName:  args.FirstName,
		MiddleName: args.MiddleName,
		LastName:   args.LastName,
		Addresses:  args.Addresses,
		Contacts:   args.Contacts,
	}
	credentials := &model.Credentials{
		Email:        args.Email,
		PasswordHash: hash,
		Roles:        roles,
		Enabled:      true,
	}

	if err := s.repository.SaveAccount(ctx, account, credentials); err != nil {
		return nil, fmt.Errorf("error saving account in repository: %w", err)
	}

	return &model.CreateAccountResponse{Account: *account}, nil
}

// UpdateAccount updates an account. It returns model.ErrNotFound if the ID
// does not correspond to an existing account.
func (s *AccountService) UpdateAccount(ctx context.Context, args model.UpdateAccountArgs) (*model.UpdateAccountResponse, error) {
	account := &model.Account{
		ID:         args.ID,
		Email:      args.Email,
		FirstName:  args.FirstName,
		MiddleName: args.MiddleName,
		LastName:   args.LastName,
		Addresses:  args.Addresses,
		Contacts:   args.Contacts,
	}
	if err := s.repository.UpdateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("error updating account: %w", err)
	}
	return &model.UpdateAccountResponse{Account: *account}, nil
}

// GetAccount retrieves one account by id.
func (s *AccountService) GetAccount(ctx context.Context, id int64) (*model.Account, error) {
	account, err := s.repository.GetAccountByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving account by id: %w", err)
	}
	return account, nil
}

// GetAccountByEmail retrieves one account by email.
func (s *AccountService) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	account, err := s.repository.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error retrieving account by email: %w", err)
	}
	return account, nil
}

// CurrentAccount retrieves the account of the authenticated principal. It
// returns model.ErrUnauthenticated when the context carries no principal.
func (s *AccountService) CurrentAccount(ctx context.Context) (*model.Account, error) {
	principal, ok := PrincipalFrom(ctx)
	if !ok || principal.Email == "" {
		return nil, model.ErrUnauthenticated
	}
	account, err := s.repository.GetAccountByEmail(ctx, principal.Email)
	if err != nil {
		return nil, fmt.Errorf("error retrieving current account: %w", err)
	}
	return account, nil
}

// ListAccounts lists accounts ordered ascending by email.
func (s *AccountService) ListAccounts(ctx context.Context, args model.ListAccountsArgs) (*model.ListAccountsResponse, error) {
	if args.Page.Size == 0 {
		return &model.ListAccountsResponse{}, nil
	}
	accounts, err := s.repository.ListAccounts(ctx, args.Page)
	if err != nil {
		return nil, fmt.Errorf("error listing accounts on the repository: %w", err)
	}
	return &model.ListAccountsResponse{Accounts: accounts}, nil
}

// DeleteAccountByID deletes an account by id.
func (s *AccountService) DeleteAccountByID(ctx context.Context, id int64) error {
	if err := s.repository.DeleteAccountByID(ctx, id); err != nil {
		return fmt.Errorf("error deleting account from repository: %w", err)
	}
	return nil
}

// DeleteAccountByEmail deletes an account by email.
func (s *AccountService) DeleteAccountByEmail(ctx context.Context, email string) error {
	if err := s.repository.DeleteAccountByEmail(ctx, email); err != nil {
		return fmt.Errorf("error deleting account from repository: %w", err)
	}
	return nil
}

// VerifyCredentials checks an email/password pair. It returns the stored
// credentials on success and model.ErrInvalidCredentials on any mismatch,
// unknown email or disabled login, so callers cannot tell the cases apart.
func (s *AccountService) VerifyCredentials(ctx context.Context, email, password string) (*model.Credentials, error) {
	credentials, err := s.repository.GetCredentials(ctx, email)
	if err != nil {
		if err == model.ErrNotFound {
			return nil, model.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error retrieving credentials: %w", err)
	}
	if !credentials.Enabled {
		return nil, model.ErrInvalidCredentials
	}
	match, err := argon2id.ComparePasswordAndHash(password, credentials.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("error comparing password and hash: %w", err)
	}
	if !match {
		return nil, model.ErrInvalidCredentials
	}
	return credentials, nil
}
