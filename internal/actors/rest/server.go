package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rmoretti/auditrail/internal/core/model"
	log "github.com/sirupsen/logrus"
)

// accountUsecase gathers the account-lifecycle operations the REST layer exposes.
type accountUsecase interface {
	// CreateAccount registers an account together with its credentials.
	CreateAccount(ctx context.Context, args model.CreateAccountArgs) (*model.CreateAccountResponse, error)

	// UpdateAccount updates an account.
	UpdateAccount(ctx context.Context, args model.UpdateAccountArgs) (*model.UpdateAccountResponse, error)

	// GetAccount retrieves one account by id.
	GetAccount(ctx context.Context, id int64) (*model.Account, error)

	// CurrentAccount retrieves the account of the authenticated principal.
	CurrentAccount(ctx context.Context) (*model.Account, error)

	// ListAccounts lists accounts.
	ListAccounts(ctx context.Context, args model.ListAccountsArgs) (*model.ListAccountsResponse, error)

	// DeleteAccountByID deletes an account by id.
	DeleteAccountByID(ctx context.Context, id int64) error

	// DeleteAccountByEmail deletes an account by email.
	DeleteAccountByEmail(ctx context.Context, email string) error

	// VerifyCredentials checks an email/password pair.
	VerifyCredentials(ctx context.Context, email, password string) (*model.Credentials, error)
}

// auditUsecase gathers the login-audit operations the REST layer exposes.
type auditUsecase interface {
	// Audit records one login event for the account identified by email.
	Audit(ctx context.Context, email string) error

	// FindLoginDates returns the distinct calendar dates with login activity.
	FindLoginDates(ctx context.Context, page model.PageRequest) ([]time.Time, error)

	// FindActiveAccounts returns the distinct accounts with login activity.
	FindActiveAccounts(ctx context.Context, args model.FindActiveAccountsArgs) ([]model.Account, error)

	// FindFilteredLoginCounts aggregates filtered audit rows by email.
	FindFilteredLoginCounts(ctx context.Context, filter model.AuditFilter, page model.PageRequest) (model.LoginCounts, error)

	// Location is the zone used to bucket login timestamps into dates.
	Location() *time.Location
}

// ServerArgs are the mandatory args to instantiate the Server.
type ServerArgs struct {
	// Accounts is the account usecase.
	Accounts accountUsecase

	// Audits is the login-audit usecase.
	Audits auditUsecase

	// TokenSecretKey signs and validates access tokens.
	TokenSecretKey string

	// TokenExpiresIn bounds the access-token lifetime.
	TokenExpiresIn time.Duration
}

// NewServer creates a new Server.
func NewServer(args ServerArgs) *Server {
	return &Server{
		accounts:       args.Accounts,
		audits:         args.Audits,
		tokenSecretKey: args.TokenSecretKey,
		tokenExpiresIn: args.TokenExpiresIn,
	}
}

// Server implements the account and login-audit REST endpoints.
type Server struct {
	accounts       accountUsecase
	audits         auditUsecase
	tokenSecretKey string
	tokenExpiresIn time.Duration
}

// Router builds the gin engine with all routes and middlewares attached.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"POST", "GET", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", s.healthz)

	api := router.Group("/api/rest/account")
	api.POST("/auth/login", s.login)

	authed := api.Group("", Authenticated(s.tokenSecretKey))
	authed.GET("/accounts/current", s.currentAccount)
	authed.POST("/audit", s.audit)

	admin := authed.Group("", RequireRole(model.RoleAdmin))
	admin.POST("/accounts", s.createAccount)
	admin.PUT("/accounts/:id", s.updateAccount)
	admin.GET("/accounts", s.listAccounts)
	admin.GET("/accounts/:id", s.getAccount)
	admin.DELETE("/accounts/:id", s.deleteAccount)
	admin.DELETE("/accounts", s.deleteAccountByEmail)
	admin.GET("/audit/dates", s.loginDates)
	admin.GET("/audit/users", s.activeAccounts)
	admin.GET("/audit/filtered", s.filteredLoginCounts)

	return router
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "Ok"})
}

// writeError maps domain failures to distinct response status classes.
// Internals of a failure are never exposed to the caller.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"message": model.ErrInvalidRange.Error()})
	case errors.Is(err, model.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": model.ErrInvalidCredentials.Error()})
	case errors.Is(err, model.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"message": model.ErrUnauthenticated.Error()})
	case errors.Is(err, model.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": model.ErrForbidden.Error()})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "account not found"})
	default:
		log.WithError(err).Error("internal error serving request")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}
